package target

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gisketch/opsx-one/internal/config"
	"github.com/gisketch/opsx-one/internal/transform"
)

// DefaultFlavor is used when neither flags nor config pick one.
const DefaultFlavor = "vscode"

const defaultConfigDir = ".github"

// Flavor is a runtime variant of the templates: where they go and how the
// agent definition is rewritten.
type Flavor struct {
	Name            string
	ConfigDir       string
	AgentTransforms []string
}

var builtinFlavors = map[string]Flavor{
	"vscode": {Name: "vscode", ConfigDir: defaultConfigDir},
	"cli": {
		Name:            "cli",
		ConfigDir:       defaultConfigDir,
		AgentTransforms: []string{transform.StripVSCodeFrontMatter, transform.RenameVSCodeTools},
	},
}

// FlavorMap resolves flavor names to definitions.
type FlavorMap struct {
	definitions map[string]Flavor
}

// NewFlavorMap creates a FlavorMap with built-in flavors and optional custom
// definitions. A custom definition that names a built-in replaces it; an
// empty config_dir inherits the built-in's directory.
func NewFlavorMap(customDefs []config.FlavorDefinition) *FlavorMap {
	defs := make(map[string]Flavor, len(builtinFlavors)+len(customDefs))
	for name, f := range builtinFlavors {
		defs[name] = f
	}
	for _, fd := range customDefs {
		dir := fd.ConfigDir
		if dir == "" {
			dir = defaultConfigDir
			if b, ok := builtinFlavors[fd.Name]; ok {
				dir = b.ConfigDir
			}
		}
		defs[fd.Name] = Flavor{Name: fd.Name, ConfigDir: dir, AgentTransforms: fd.AgentTransforms}
	}
	return &FlavorMap{definitions: defs}
}

// Resolve returns the flavor for name. An empty name means DefaultFlavor.
func (fm *FlavorMap) Resolve(name string) (Flavor, error) {
	if name == "" {
		name = DefaultFlavor
	}
	f, ok := fm.definitions[name]
	if !ok {
		return Flavor{}, fmt.Errorf("unknown flavor '%s' (known: %s); define it in flavor_definitions", name, strings.Join(fm.KnownFlavors(), ", "))
	}
	return f, nil
}

// KnownFlavors returns all flavor names, sorted.
func (fm *FlavorMap) KnownFlavors() []string {
	names := make([]string, 0, len(fm.definitions))
	for name := range fm.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsCustom reports whether name comes from config rather than the built-ins.
func (fm *FlavorMap) IsCustom(name string) bool {
	_, isBuiltin := builtinFlavors[name]
	_, isDefined := fm.definitions[name]
	return isDefined && !isBuiltin
}

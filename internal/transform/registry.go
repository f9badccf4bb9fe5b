package transform

import (
	"fmt"
	"sort"
	"strings"
)

// Names of the built-in transforms.
const (
	StripVSCodeFrontMatter = "strip-vscode-frontmatter"
	RenameVSCodeTools      = "rename-vscode-tools"
)

// VSCodeOnlyKeys are the agent front matter keys only VS Code understands.
var VSCodeOnlyKeys = []string{"tools", "handoffs"}

// VSCodeToolRenames maps VS Code chat tool references to their CLI names.
var VSCodeToolRenames = map[string]string{
	"#tool:runInTerminal": "#tool:shell",
	"#tool:editFiles":     "#tool:write",
	"#tool:readFile":      "#tool:view",
	"#tool:codebase":      "#tool:grep",
	"Copilot Chat":        "Copilot CLI",
}

// Registry maps transform names to implementations.
type Registry struct {
	byName map[string]Transform
}

// NewRegistry returns a registry holding the built-in transforms.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Transform)}
	r.Register(StripVSCodeFrontMatter, StripFrontMatterKeys(VSCodeOnlyKeys...))
	r.Register(RenameVSCodeTools, RenameTokens(VSCodeToolRenames))
	return r
}

// Register adds or replaces a named transform.
func (r *Registry) Register(name string, t Transform) {
	r.byName[name] = t
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (Transform, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform '%s' (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Build chains the named transforms in order. No names yields Identity.
func (r *Registry) Build(names []string) (Transform, error) {
	ts := make([]Transform, 0, len(names))
	for _, n := range names {
		t, err := r.Lookup(n)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return Chain(ts...), nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

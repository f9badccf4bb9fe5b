package target

import (
	"fmt"
	"path"

	"github.com/gisketch/opsx-one/internal/engine"
	"github.com/gisketch/opsx-one/internal/transform"
)

// Template ids served by the content providers.
const (
	AgentTemplate        = "opsx-one.agent.md"
	PromptTemplate       = "opsx-one.prompt.md"
	InstructionsTemplate = "copilot-instructions.md"
)

// TemplateIDs lists every template the manifest refers to.
var TemplateIDs = []string{AgentTemplate, PromptTemplate, InstructionsTemplate}

// ManifestOptions tunes manifest construction.
type ManifestOptions struct {
	// ConfigDir overrides the flavor's directory when set.
	ConfigDir string
	// Registry resolves the flavor's agent transforms. Defaults to
	// transform.NewRegistry().
	Registry *transform.Registry
}

// Manifest returns the entries for flavor f in the given mode. The
// instructions file is appended in init mode and replaced in update mode.
func Manifest(f Flavor, mode engine.Mode, opts ManifestOptions) ([]engine.Entry, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	dir := f.ConfigDir
	if opts.ConfigDir != "" {
		dir = opts.ConfigDir
	}
	if dir == "" {
		dir = defaultConfigDir
	}

	reg := opts.Registry
	if reg == nil {
		reg = transform.NewRegistry()
	}
	var agentTx engine.Transformer
	if len(f.AgentTransforms) > 0 {
		tx, err := reg.Build(f.AgentTransforms)
		if err != nil {
			return nil, fmt.Errorf("flavor '%s': %w", f.Name, err)
		}
		agentTx = tx
	}

	instructions := engine.StrategyAppendIfAbsent
	if mode == engine.ModeUpdate {
		instructions = engine.StrategyReplace
	}

	return []engine.Entry{
		{
			SourceID:    AgentTemplate,
			Destination: path.Join(dir, "agents", AgentTemplate),
			Strategy:    engine.StrategyReplace,
			Transform:   agentTx,
		},
		{
			SourceID:    PromptTemplate,
			Destination: path.Join(dir, "prompts", PromptTemplate),
			Strategy:    engine.StrategyReplace,
		},
		{
			SourceID:    InstructionsTemplate,
			Destination: path.Join(dir, InstructionsTemplate),
			Strategy:    instructions,
			Managed:     true,
		},
	}, nil
}

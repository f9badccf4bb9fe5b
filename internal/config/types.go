package config

// Config represents an opsx-one.yaml (or opsx-one.toml) configuration file.
// Every field is optional; unset fields fall back to Default().
type Config struct {
	Version           int                `yaml:"version" toml:"version"`
	Flavor            string             `yaml:"flavor,omitempty" toml:"flavor,omitempty"`
	ConfigDir         string             `yaml:"config_dir,omitempty" toml:"config_dir,omitempty"`
	TemplatesDir      string             `yaml:"templates_dir,omitempty" toml:"templates_dir,omitempty"`
	Strict            *bool              `yaml:"strict,omitempty" toml:"strict,omitempty"`
	Markers           Markers            `yaml:"markers,omitempty" toml:"markers,omitempty"`
	Starter           Starter            `yaml:"starter,omitempty" toml:"starter,omitempty"`
	FlavorDefinitions []FlavorDefinition `yaml:"flavor_definitions,omitempty" toml:"flavor_definitions,omitempty"`
}

// Marker modes.
const (
	MarkerModeLegacy   = "legacy"
	MarkerModeSentinel = "sentinel"
)

// Markers selects how append-if-absent destinations are recognized as
// already synced.
type Markers struct {
	Mode   string   `yaml:"mode,omitempty" toml:"mode,omitempty"`     // "legacy" or "sentinel"
	Tokens []string `yaml:"tokens,omitempty" toml:"tokens,omitempty"` // legacy mode only
}

// Starter points the create command at a starter-kit repository.
type Starter struct {
	Repo string `yaml:"repo,omitempty" toml:"repo,omitempty"`
	Ref  string `yaml:"ref,omitempty" toml:"ref,omitempty"`
}

// FlavorDefinition defines a custom runtime flavor or overrides a built-in.
type FlavorDefinition struct {
	Name            string   `yaml:"name" toml:"name"`
	ConfigDir       string   `yaml:"config_dir,omitempty" toml:"config_dir,omitempty"`
	AgentTransforms []string `yaml:"agent_transforms,omitempty" toml:"agent_transforms,omitempty"`
}

// Default returns the configuration used when no file sets a value.
// ConfigDir stays empty so the flavor's own directory applies.
func Default() *Config {
	return &Config{
		Version: 1,
		Flavor:  "vscode",
		Markers: Markers{Mode: MarkerModeLegacy},
	}
}

// IsStrict reports whether strict mode is enabled.
func (c *Config) IsStrict() bool {
	return c.Strict != nil && *c.Strict
}

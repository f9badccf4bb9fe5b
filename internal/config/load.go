package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Parse reads a config file without validating it. The format is chosen by
// extension: .toml is TOML, anything else is YAML. Unknown keys are errors.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("parsing config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	where := ""
	if e.Path != "" {
		where = " (" + e.Path + ")"
	}
	return fmt.Sprintf("config validation failed%s:\n  - %s", where, strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness. A zero version is
// accepted so layers can leave it to another layer.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 0 && cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d (only version 1 is supported)", cfg.Version))
	}

	if cfg.ConfigDir != "" {
		if msg := checkRelativeDir(cfg.ConfigDir); msg != "" {
			errs = append(errs, "config_dir: "+msg)
		}
	}

	switch cfg.Markers.Mode {
	case "", MarkerModeLegacy:
		for i, tok := range cfg.Markers.Tokens {
			if strings.TrimSpace(tok) == "" {
				errs = append(errs, fmt.Sprintf("markers.tokens[%d]: empty token would match every file", i))
			}
		}
	case MarkerModeSentinel:
		if len(cfg.Markers.Tokens) > 0 {
			errs = append(errs, "markers.tokens: only used in legacy mode")
		}
	default:
		errs = append(errs, fmt.Sprintf("markers.mode: invalid mode '%s' (must be one of: %s, %s)",
			cfg.Markers.Mode, MarkerModeLegacy, MarkerModeSentinel))
	}

	if cfg.Starter.Ref != "" && cfg.Starter.Repo == "" {
		errs = append(errs, "starter: 'ref' requires 'repo'")
	}

	names := make(map[string]bool)
	for i, fd := range cfg.FlavorDefinitions {
		prefix := fmt.Sprintf("flavor_definition[%d]", i)
		if fd.Name != "" {
			prefix = fmt.Sprintf("flavor_definition '%s'", fd.Name)
		}

		if fd.Name == "" {
			errs = append(errs, prefix+": 'name' is required")
		} else if names[fd.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate flavor name '%s'", prefix, fd.Name))
		} else {
			names[fd.Name] = true
		}

		if fd.ConfigDir != "" {
			if msg := checkRelativeDir(fd.ConfigDir); msg != "" {
				errs = append(errs, prefix+": config_dir: "+msg)
			}
		}
		for j, tx := range fd.AgentTransforms {
			if tx == "" {
				errs = append(errs, fmt.Sprintf("%s: agent_transforms[%d] is empty", prefix, j))
			}
		}
	}

	return errs
}

// checkRelativeDir returns a message if dir would leave the project root.
func checkRelativeDir(dir string) string {
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, "/") {
		return fmt.Sprintf("'%s' must be relative to the project root", dir)
	}
	clean := filepath.Clean(dir)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Sprintf("'%s' escapes the project root", dir)
	}
	return ""
}

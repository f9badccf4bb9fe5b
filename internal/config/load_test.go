package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exampleYAML = `version: 1
flavor: cli
config_dir: .github
templates_dir: ./my-templates
strict: true
markers:
  mode: legacy
  tokens: [opsx-one, OpenSpec, ACME]
starter:
  repo: https://example.com/acme/starter.git
  ref: main
flavor_definitions:
  - name: cursor
    config_dir: .cursor
    agent_transforms: [strip-vscode-frontmatter]
`

const exampleTOML = `version = 1
flavor = "cli"
strict = false

[markers]
mode = "sentinel"

[starter]
repo = "https://example.com/acme/starter.git"

[[flavor_definitions]]
name = "cursor"
config_dir = ".cursor"
agent_transforms = ["strip-vscode-frontmatter", "rename-vscode-tools"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opsx-one.yaml", exampleYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 || cfg.Flavor != "cli" || cfg.TemplatesDir != "./my-templates" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.IsStrict() {
		t.Error("strict should be true")
	}
	if len(cfg.Markers.Tokens) != 3 || cfg.Markers.Tokens[2] != "ACME" {
		t.Errorf("tokens = %v", cfg.Markers.Tokens)
	}
	if cfg.Starter.Ref != "main" {
		t.Errorf("starter.ref = %q", cfg.Starter.Ref)
	}
	if len(cfg.FlavorDefinitions) != 1 || cfg.FlavorDefinitions[0].ConfigDir != ".cursor" {
		t.Errorf("flavor_definitions = %+v", cfg.FlavorDefinitions)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opsx-one.toml", exampleTOML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Flavor != "cli" || cfg.Markers.Mode != MarkerModeSentinel {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Strict == nil || *cfg.Strict {
		t.Errorf("strict should be explicitly false, got %v", cfg.Strict)
	}
	if len(cfg.FlavorDefinitions) != 1 || len(cfg.FlavorDefinitions[0].AgentTransforms) != 2 {
		t.Errorf("flavor_definitions = %+v", cfg.FlavorDefinitions)
	}
}

func TestParseEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opsx-one.yaml", "")
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Version != 0 || cfg.Flavor != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestParseUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"opsx-one.yaml": "version: 1\nflavour: cli\n",
		"opsx-one.toml": "version = 1\nflavour = \"cli\"\n",
	} {
		_, err := Parse(writeFile(t, dir, name, content))
		if err == nil {
			t.Errorf("%s: expected error for unknown key", name)
			continue
		}
		if !strings.Contains(err.Error(), "flavour") {
			t.Errorf("%s: error should name the key: %v", name, err)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	dir := t.TempDir()
	if _, err := Parse(writeFile(t, dir, "a.yaml", "markers: [broken")); err == nil {
		t.Error("expected error for invalid YAML")
	}
	if _, err := Parse(writeFile(t, dir, "a.toml", "version = ")); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse("/nonexistent/opsx-one.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateDefault(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("default config should be valid: %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"version", Config{Version: 2}, "unsupported version 2"},
		{"absolute config_dir", Config{ConfigDir: "/etc"}, "must be relative"},
		{"escaping config_dir", Config{ConfigDir: "../outside"}, "escapes the project root"},
		{"marker mode", Config{Markers: Markers{Mode: "fuzzy"}}, "invalid mode 'fuzzy'"},
		{"empty token", Config{Markers: Markers{Tokens: []string{"ok", " "}}}, "markers.tokens[1]"},
		{"sentinel tokens", Config{Markers: Markers{Mode: MarkerModeSentinel, Tokens: []string{"x"}}}, "only used in legacy mode"},
		{"ref without repo", Config{Starter: Starter{Ref: "main"}}, "'ref' requires 'repo'"},
		{"flavor name", Config{FlavorDefinitions: []FlavorDefinition{{ConfigDir: ".x"}}}, "flavor_definition[0]: 'name' is required"},
		{"duplicate flavor", Config{FlavorDefinitions: []FlavorDefinition{{Name: "a"}, {Name: "a"}}}, "duplicate flavor name 'a'"},
		{"flavor dir", Config{FlavorDefinitions: []FlavorDefinition{{Name: "a", ConfigDir: ".."}}}, "flavor_definition 'a': config_dir"},
		{"empty transform", Config{FlavorDefinitions: []FlavorDefinition{{Name: "a", AgentTransforms: []string{""}}}}, "agent_transforms[0] is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.cfg)
			if !containsSubstring(errs, tt.want) {
				t.Errorf("expected %q in %v", tt.want, errs)
			}
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	errs := Validate(&Config{Version: 3, ConfigDir: "/abs", Markers: Markers{Mode: "x"}})
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestLoadReturnsValidationError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opsx-one.yaml", "version: 7\n")
	_, err := Load(path)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != path {
		t.Errorf("path = %q", verr.Path)
	}
	if !strings.Contains(err.Error(), "config validation failed ("+path+"):\n  - unsupported version 7") {
		t.Errorf("unexpected message: %s", err)
	}
}

func containsSubstring(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

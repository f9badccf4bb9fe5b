package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gisketch/opsx-one/internal/starter"
)

// runCLI executes the root command with args against a fresh set of globals
// and returns what was printed.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	oldOut, oldErr, oldEnv := stdout, stderr, noInheritEnv
	stdout, stderr = &out, &errOut
	noInheritEnv = func() bool { return true }
	t.Cleanup(func() {
		stdout, stderr, noInheritEnv = oldOut, oldErr, oldEnv
	})

	configPath, projectDir, flavorName, templatesDir = "", "", "", ""
	strict, verbose, quiet, noColor = false, false, false, true
	initForce, updateForce = false, false
	createRepo, createRef, createName, createNoInit = "", "", "", false

	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), errOut.String(), err
}

func TestInitCommandCreatesFiles(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runCLI(t, "init", "--dir", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, want := range []string{
		"opsx-one init",
		"✓ .github/agents/opsx-one.agent.md",
		"✓ .github/prompts/opsx-one.prompt.md",
		"✓ .github/copilot-instructions.md",
		"Done! OPSX One is set up in this project.",
		"npm install -g @fission-ai/openspec@latest",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".github", "agents", "opsx-one.agent.md")); err != nil {
		t.Errorf("agent not written: %v", err)
	}
}

func TestInitCommandSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, "init", "--dir", dir); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "init", "--dir", dir)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out, "⚠ .github/agents/opsx-one.agent.md already exists (use --force to overwrite)") {
		t.Errorf("agent should be skipped:\n%s", out)
	}
	if !strings.Contains(out, "⚠ .github/copilot-instructions.md already contains OpenSpec context (use --force to overwrite)") {
		t.Errorf("instructions should be skipped:\n%s", out)
	}

	out, _, err = runCLI(t, "init", "--dir", dir, "--force")
	if err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if strings.Count(out, "(overwritten)") != 3 {
		t.Errorf("all three files should be overwritten:\n%s", out)
	}
}

func TestInitCommandAppendsInstructions(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, ".github", "copilot-instructions.md"), "# House rules\n")

	out, _, err := runCLI(t, "init", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "✓ .github/copilot-instructions.md (appended OpenSpec section)") {
		t.Errorf("instructions should be appended:\n%s", out)
	}
}

func TestUpdateCommand(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, "init", "--dir", dir); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "update", "--dir", dir)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if strings.Count(out, "(overwritten)") != 3 {
		t.Errorf("update should overwrite every file:\n%s", out)
	}
	if !strings.Contains(out, "Done! OPSX One files were updated in this project.") {
		t.Errorf("missing update completion text:\n%s", out)
	}
}

func TestStrictExitsOnFailure(t *testing.T) {
	dir := t.TempDir()
	// a directory where the prompt file belongs cannot be replaced
	if err := os.MkdirAll(filepath.Join(dir, ".github", "prompts", "opsx-one.prompt.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "update", "--dir", dir)
	if err != nil {
		t.Fatalf("best-effort update should succeed: %v", err)
	}
	if !strings.Contains(out, "✗ .github/prompts/opsx-one.prompt.md:") {
		t.Errorf("failure line missing:\n%s", out)
	}

	_, errOut, err := runCLI(t, "update", "--dir", dir, "--strict")
	if err == nil {
		t.Fatal("expected error with --strict")
	}
	if !strings.Contains(errOut, "1 file(s) failed") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestStrictFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "opsx-one.yaml"), "version: 1\nstrict: true\n")
	if err := os.MkdirAll(filepath.Join(dir, ".github", "agents", "opsx-one.agent.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "update", "--dir", dir); err == nil {
		t.Fatal("strict: true in config should fail the command")
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()

	_, errOut, err := runCLI(t, "check", "--dir", dir)
	if err == nil {
		t.Fatal("check should fail before init")
	}
	if !strings.Contains(errOut, "check failed: 3 file(s) out of sync") {
		t.Errorf("stderr = %q", errOut)
	}

	if _, _, err := runCLI(t, "init", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "check", "--dir", dir)
	if err != nil {
		t.Fatalf("check after init: %v", err)
	}
	if !strings.Contains(out, "All files match the templates.") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, ".github", "copilot-instructions.md"), "# House rules\n")
	if _, _, err := runCLI(t, "init", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, filepath.Join(dir, ".github", "prompts", "opsx-one.prompt.md"), "edited\n")

	out, _, err := runCLI(t, "status", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"✓ .github/agents/opsx-one.agent.md",
		"⚠ .github/prompts/opsx-one.prompt.md differs from the template",
		"✓ .github/copilot-instructions.md (merged into existing file)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIFlavorFlag(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, "init", "--dir", dir, "--flavor", "cli"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".github", "agents", "opsx-one.agent.md"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "tools:") {
		t.Error("cli flavor should strip the tools key")
	}

	if _, _, err := runCLI(t, "init", "--dir", dir, "--flavor", "emacs"); err == nil {
		t.Error("unknown flavor should fail")
	}
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "opsx-one.yaml"), "version: 1\nflavor: cli\n")

	out, _, err := runCLI(t, "info", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"flavor:        cli",
		"templates:     embedded",
		"(loaded)",
		".github/agents/opsx-one.agent.md",
		"vscode",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommandListsOverrides(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "tpl", "opsx-one.agent.md"), "agent\n")
	writeTestFile(t, filepath.Join(dir, "tpl", "extra.md"), "extra\n")

	out, _, err := runCLI(t, "info", "--dir", dir, "--templates", "tpl")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "overrides    opsx-one.agent.md") {
		t.Errorf("override missing:\n%s", out)
	}
	if !strings.Contains(out, "ignored      extra.md (not a known template)") {
		t.Errorf("ignored file missing:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, errOut, err := runCLI(t, "frobnicate")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(errOut, `unknown command "frobnicate"`) {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(errOut, "Run 'opsx-one help' for usage.") {
		t.Errorf("stderr should point at help: %q", errOut)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "opsx-one dev\n") {
		t.Errorf("output = %q", out)
	}
}

// cloneRunner fakes git: clone leaves a minimal package.json behind.
type cloneRunner struct {
	calls [][]string
}

func (r *cloneRunner) Run(ctx context.Context, name string, args []string, opts starter.RunOpts) (starter.CmdResult, error) {
	r.calls = append(r.calls, args)
	if args[0] == "clone" {
		dest := args[len(args)-1]
		if err := os.MkdirAll(filepath.Join(dest, ".git"), 0o755); err != nil {
			return starter.CmdResult{}, err
		}
		if err := os.WriteFile(filepath.Join(dest, "package.json"), []byte(`{"name": "kit"}`), 0o644); err != nil {
			return starter.CmdResult{}, err
		}
	}
	return starter.CmdResult{}, nil
}

func useCloneRunner(t *testing.T) *cloneRunner {
	t.Helper()
	runner := &cloneRunner{}
	old := newBootstrapper
	newBootstrapper = func() *starter.Bootstrapper { return &starter.Bootstrapper{Runner: runner} }
	t.Cleanup(func() { newBootstrapper = old })
	return runner
}

func TestCreateCommand(t *testing.T) {
	runner := useCloneRunner(t)
	dest := filepath.Join(t.TempDir(), "Shop Front")

	out, _, err := runCLI(t, "create", dest, "--repo", "https://example.com/kit.git", "--ref", "main", "--dir", t.TempDir())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, "(shop-front)") {
		t.Errorf("output = %q", out)
	}
	if got := strings.Join(runner.calls[0], " "); got != "clone --depth 1 --branch main --single-branch https://example.com/kit.git "+dest {
		t.Errorf("clone args = %q", got)
	}

	pkg, err := os.ReadFile(filepath.Join(dest, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(pkg) != `{"name": "shop-front"}` {
		t.Errorf("package.json = %s", pkg)
	}
	if _, err := os.Stat(filepath.Join(dest, ".github", "agents", "opsx-one.agent.md")); err != nil {
		t.Errorf("opsx-one files should be installed: %v", err)
	}
}

func TestCreateCommandUsesConfiguredRepo(t *testing.T) {
	runner := useCloneRunner(t)
	project := t.TempDir()
	writeTestFile(t, filepath.Join(project, "opsx-one.yaml"), "version: 1\nstarter:\n  repo: ../kit\n")
	dest := filepath.Join(t.TempDir(), "app")

	_, _, err := runCLI(t, "create", dest, "--dir", project, "--no-init")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := runner.calls[0]; got[len(got)-2] != "../kit" {
		t.Errorf("clone args = %v", got)
	}
	if _, err := os.Stat(filepath.Join(dest, ".github")); !os.IsNotExist(err) {
		t.Error("--no-init should not install files")
	}
}

func TestCreateCommandWithoutRepo(t *testing.T) {
	useCloneRunner(t)
	_, errOut, err := runCLI(t, "create", filepath.Join(t.TempDir(), "app"), "--dir", t.TempDir())
	if err == nil {
		t.Fatal("expected error without a repository")
	}
	if !strings.Contains(errOut, "no starter repository configured") {
		t.Errorf("stderr = %q", errOut)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

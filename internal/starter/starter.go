// Package starter bootstraps a new project from a starter-kit repository.
package starter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gisketch/opsx-one/internal/logging"
	"github.com/gisketch/opsx-one/internal/sandbox"
)

// Options describes one bootstrap.
type Options struct {
	Repo string // clone URL or local path
	Ref  string // optional branch or tag
	Dir  string // destination, must be absent or empty
	Name string // project name; defaults to the base name of Dir
}

// Result reports what Create produced.
type Result struct {
	Dir            string
	Name           string
	PackageRenamed bool
}

// Bootstrapper clones a starter kit and turns it into a fresh project.
type Bootstrapper struct {
	Runner CommandRunner
}

// New returns a Bootstrapper that runs real git commands.
func New() *Bootstrapper {
	return &Bootstrapper{Runner: RealRunner{}}
}

// Create clones opts.Repo into opts.Dir, drops its git history, starts a new
// repository and renames the package. A failed step stops the bootstrap and
// leaves the directory as it is.
func (b *Bootstrapper) Create(ctx context.Context, opts Options) (*Result, error) {
	log := logging.FromContext(ctx).With(logging.Operation("create"))

	if opts.Repo == "" {
		return nil, errors.New("no starter repository configured (use --repo or set starter.repo in opsx-one.yaml)")
	}
	if opts.Dir == "" {
		return nil, errors.New("destination directory is required")
	}

	rawName := opts.Name
	if rawName == "" {
		abs, err := filepath.Abs(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", opts.Dir, err)
		}
		rawName = filepath.Base(abs)
	}
	name, err := SanitizeName(rawName)
	if err != nil {
		return nil, fmt.Errorf("project name %q: %w", rawName, err)
	}

	if err := ensureEmpty(opts.Dir); err != nil {
		return nil, err
	}

	args := []string{"clone", "--depth", "1"}
	if opts.Ref != "" {
		args = append(args, "--branch", opts.Ref, "--single-branch")
	}
	args = append(args, opts.Repo, opts.Dir)
	log.Debug("cloning starter kit", zap.String("repo", opts.Repo), zap.String("ref", opts.Ref), logging.Path(opts.Dir))
	if err := b.git(ctx, "", args...); err != nil {
		return nil, fmt.Errorf("cloning %s: %w", opts.Repo, err)
	}

	if err := os.RemoveAll(filepath.Join(opts.Dir, ".git")); err != nil {
		return nil, fmt.Errorf("removing starter git history: %w", err)
	}
	if err := b.git(ctx, opts.Dir, "init"); err != nil {
		return nil, fmt.Errorf("initializing repository: %w", err)
	}

	result := &Result{Dir: opts.Dir, Name: name}
	pkgPath := filepath.Join(opts.Dir, "package.json")
	data, err := os.ReadFile(pkgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("starter kit has no package.json; name not set", logging.Path(pkgPath))
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	renamed, err := SetPackageName(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pkgPath, err)
	}
	if err := sandbox.SafeWrite(opts.Dir, "package.json", renamed, 0o644); err != nil {
		return nil, fmt.Errorf("writing package.json: %w", err)
	}
	result.PackageRenamed = true
	log.Debug("package renamed", zap.String("name", name))
	return result, nil
}

func (b *Bootstrapper) git(ctx context.Context, dir string, args ...string) error {
	res, err := b.Runner.Run(ctx, "git", args, RunOpts{
		Dir: dir,
		Env: map[string]string{"GIT_TERMINAL_PROMPT": "0"},
	})
	if err != nil {
		return fmt.Errorf("running git %s: %w", args[0], err)
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(res.Stdout)
		}
		return fmt.Errorf("git %s exited %d: %s", args[0], res.ExitCode, msg)
	}
	return nil
}

func ensureEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%s already exists and is not empty", dir)
	}
	return nil
}

// SetPackageName replaces the top-level "name" string of a package.json
// document. Everything else, including key order and formatting, is kept.
func SetPackageName(data []byte, name string) ([]byte, error) {
	if !json.Valid(data) {
		return nil, errors.New("parsing package.json: invalid JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("package.json is not a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing package.json: %w", err)
		}
		start := dec.InputOffset()
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing package.json: %w", err)
		}
		if keyTok != "name" {
			continue
		}

		var old string
		if err := json.Unmarshal(raw, &old); err != nil {
			return nil, errors.New("package.json \"name\" is not a string")
		}
		quoted, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		seg := data[start:dec.InputOffset()]
		at := int(start) + bytes.Index(seg, raw)

		out := make([]byte, 0, len(data)+len(quoted))
		out = append(out, data[:at]...)
		out = append(out, quoted...)
		out = append(out, data[at+len(raw):]...)
		return out, nil
	}
	return nil, errors.New("package.json has no \"name\" field")
}

// Package source provides the template content providers used by the sync
// engine: templates embedded in the binary, a directory override, and a
// chain of both.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/gisketch/opsx-one/templates"
)

// ErrNotFound is returned when a provider has no template for an id.
var ErrNotFound = errors.New("template not found")

// Provider resolves template ids to content.
type Provider interface {
	Content(id string) (string, error)
	// Describe names the provider for diagnostics.
	Describe() string
}

// TemplateError reports a failed template lookup.
type TemplateError struct {
	Provider string
	ID       string
	Err      error
	Hint     string
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("%s: template '%s': %s", e.Provider, e.ID, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// FSProvider serves templates from an fs.FS. Ids are slash-separated paths
// inside it.
type FSProvider struct {
	Name string
	FS   fs.FS
}

// Embedded returns the provider for the templates compiled into the binary.
func Embedded() *FSProvider {
	return &FSProvider{Name: "embedded", FS: templates.FS}
}

// Dir returns a provider reading templates from a directory on disk.
func Dir(path string) *FSProvider {
	return &FSProvider{Name: "dir " + path, FS: os.DirFS(path)}
}

func (p *FSProvider) Describe() string {
	return p.Name
}

func (p *FSProvider) Content(id string) (string, error) {
	if !fs.ValidPath(id) || id == "." {
		return "", &TemplateError{Provider: p.Name, ID: id, Err: fmt.Errorf("invalid template id")}
	}
	data, err := fs.ReadFile(p.FS, id)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &TemplateError{Provider: p.Name, ID: id, Err: ErrNotFound}
	}
	if err != nil {
		return "", &TemplateError{Provider: p.Name, ID: id, Err: err}
	}
	return string(data), nil
}

// List returns the markdown template ids at the top level of the provider.
func (p *FSProvider) List() ([]string, error) {
	entries, err := fs.ReadDir(p.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("%s: listing templates: %w", p.Name, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Chain tries each provider in order. Only ErrNotFound falls through to the
// next provider; any other error is returned as is.
type Chain []Provider

func (c Chain) Describe() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Describe()
	}
	return strings.Join(names, " > ")
}

func (c Chain) Content(id string) (string, error) {
	for _, p := range c {
		content, err := p.Content(id)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", &TemplateError{
		Provider: c.Describe(),
		ID:       id,
		Err:      ErrNotFound,
		Hint:     "no provider in the chain has it",
	}
}

// New returns the provider for an optional override directory: the embedded
// templates alone, or the directory first with embedded as fallback.
func New(overrideDir string) (Provider, error) {
	if overrideDir == "" {
		return Embedded(), nil
	}
	info, err := os.Stat(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory: %s is not a directory", overrideDir)
	}
	return Chain{Dir(overrideDir), Embedded()}, nil
}

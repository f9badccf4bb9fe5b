package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedHasShippedTemplates(t *testing.T) {
	p := Embedded()
	ids, err := p.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"copilot-instructions.md", "opsx-one.agent.md", "opsx-one.prompt.md"}, ids)

	instructions, err := p.Content("copilot-instructions.md")
	require.NoError(t, err)
	assert.Contains(t, instructions, "OpenSpec")

	agent, err := p.Content("opsx-one.agent.md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(agent, "---\n"), "agent template must open with front matter")
	assert.Contains(t, agent, "\ntools:")
	assert.Contains(t, agent, "\nhandoffs:")
}

func TestFSProviderNotFound(t *testing.T) {
	p := &FSProvider{Name: "mem", FS: fstest.MapFS{}}
	_, err := p.Content("missing.md")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var terr *TemplateError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "missing.md", terr.ID)
	assert.Equal(t, "mem: template 'missing.md': template not found", err.Error())
}

func TestFSProviderInvalidID(t *testing.T) {
	p := &FSProvider{Name: "mem", FS: fstest.MapFS{}}
	for _, id := range []string{"../secret.md", "/abs.md", ".", ""} {
		_, err := p.Content(id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, ErrNotFound, id)
	}
}

func TestDirProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "opsx-one.prompt.md"), []byte("custom prompt"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	p := Dir(dir)
	got, err := p.Content("opsx-one.prompt.md")
	require.NoError(t, err)
	assert.Equal(t, "custom prompt", got)

	ids, err := p.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"opsx-one.prompt.md"}, ids)
	assert.Equal(t, "dir "+dir, p.Describe())
}

func TestChainFallsThrough(t *testing.T) {
	override := &FSProvider{Name: "override", FS: fstest.MapFS{
		"a.md": {Data: []byte("from override")},
	}}
	base := &FSProvider{Name: "base", FS: fstest.MapFS{
		"a.md": {Data: []byte("from base")},
		"b.md": {Data: []byte("base only")},
	}}
	c := Chain{override, base}

	got, err := c.Content("a.md")
	require.NoError(t, err)
	assert.Equal(t, "from override", got)

	got, err = c.Content("b.md")
	require.NoError(t, err)
	assert.Equal(t, "base only", got)

	_, err = c.Content("c.md")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "override > base")
}

type brokenProvider struct{}

func (brokenProvider) Content(string) (string, error) { return "", errors.New("disk on fire") }
func (brokenProvider) Describe() string               { return "broken" }

func TestChainStopsOnRealErrors(t *testing.T) {
	base := &FSProvider{Name: "base", FS: fstest.MapFS{"a.md": {Data: []byte("x")}}}
	_, err := Chain{brokenProvider{}, base}.Content("a.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestNew(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", p.Describe())

	dir := t.TempDir()
	p, err = New(dir)
	require.NoError(t, err)
	assert.Equal(t, "dir "+dir+" > embedded", p.Describe())

	// Falls back to embedded for ids the directory lacks.
	got, err := p.Content("copilot-instructions.md")
	require.NoError(t, err)
	assert.Contains(t, got, "OpenSpec")

	_, err = New(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	file := filepath.Join(dir, "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(file)
	assert.ErrorContains(t, err, "not a directory")
}

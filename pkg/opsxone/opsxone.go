// Package opsxone is the Go library API for opsx-one.
//
// opsx-one installs the OPSX One agent, prompt and workspace instructions
// into a project so that OpenSpec changes can be driven from chat.
//
// # Basic Usage
//
//	client, err := opsxone.New(opsxone.Options{ProjectRoot: "/path/to/project"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Install the templates, keeping files that already exist
//	result, err := client.Init(ctx, opsxone.InitOptions{})
//
//	// Refresh them from the current templates
//	result, err = client.Update(ctx, opsxone.UpdateOptions{})
//
//	// Report drift for CI
//	check, err := client.Check(ctx)
package opsxone

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gisketch/opsx-one/internal/config"
	"github.com/gisketch/opsx-one/internal/engine"
	"github.com/gisketch/opsx-one/internal/logging"
	"github.com/gisketch/opsx-one/internal/sandbox"
	"github.com/gisketch/opsx-one/internal/source"
	"github.com/gisketch/opsx-one/internal/target"
)

// SentinelName is the name used in sentinel marker lines.
const SentinelName = "opsx-one"

// SentinelVersion is the version written in new sentinel marker lines.
const SentinelVersion = 1

// Options configures a Client. Flavor and TemplatesDir override the config
// file when set.
type Options struct {
	// ProjectRoot is the directory the templates are installed into.
	// Defaults to the working directory.
	ProjectRoot string

	// ConfigPath names a config file explicitly; it must exist. When empty,
	// opsx-one.yaml, opsx-one.yml or opsx-one.toml in ProjectRoot is used
	// if present.
	ConfigPath string

	// NoInherit skips system and user config layers.
	NoInherit bool

	Flavor       string
	TemplatesDir string

	// SystemConfigPath and UserConfigPath override the default layer paths.
	SystemConfigPath string
	UserConfigPath   string
}

// InitOptions configures an init operation.
type InitOptions struct {
	Force bool
}

// UpdateOptions configures an update operation.
type UpdateOptions struct {
	Force bool
}

// Client is the main entry point for the opsx-one library.
type Client struct {
	root     string
	tplDir   string
	cfg      *config.Config
	layers   []config.ConfigLayerInfo
	flavor   target.Flavor
	provider source.Provider
	markers  engine.MarkerDetector
	fs       engine.FS
}

// New loads configuration and resolves the flavor, template source and
// marker mode. It does not touch the project files.
func New(opts Options) (*Client, error) {
	root := opts.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.FindInDir(root)
	}
	loaded, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath:      cfgPath,
		SystemConfigPath: opts.SystemConfigPath,
		UserConfigPath:   opts.UserConfigPath,
		NoInherit:        opts.NoInherit,
		RequireProject:   opts.ConfigPath != "",
	})
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config
	if opts.Flavor != "" {
		cfg.Flavor = opts.Flavor
	}
	if opts.TemplatesDir != "" {
		cfg.TemplatesDir = opts.TemplatesDir
	}

	flavor, err := target.NewFlavorMap(cfg.FlavorDefinitions).Resolve(cfg.Flavor)
	if err != nil {
		return nil, err
	}

	tplDir := cfg.TemplatesDir
	if tplDir != "" && !filepath.IsAbs(tplDir) {
		tplDir = filepath.Join(root, tplDir)
	}
	provider, err := source.New(tplDir)
	if err != nil {
		return nil, err
	}

	return &Client{
		root:     root,
		tplDir:   tplDir,
		cfg:      cfg,
		layers:   loaded.Layers,
		flavor:   flavor,
		provider: provider,
		markers:  markersFor(cfg.Markers),
		fs:       sandbox.OSFS{Root: root},
	}, nil
}

func markersFor(m config.Markers) engine.MarkerDetector {
	if m.Mode == config.MarkerModeSentinel {
		return engine.NewSentinelMarker(SentinelName, SentinelVersion)
	}
	return engine.NewLegacyMarkers(m.Tokens...)
}

// Manifest returns the entries for mode under the resolved flavor.
func (c *Client) Manifest(mode engine.Mode) ([]engine.Entry, error) {
	return target.Manifest(c.flavor, mode, target.ManifestOptions{ConfigDir: c.cfg.ConfigDir})
}

// Init installs the templates. Existing files are kept unless Force is set.
func (c *Client) Init(ctx context.Context, opts InitOptions) (*SyncResult, error) {
	return c.sync(ctx, engine.ModeInit, opts.Force)
}

// Update replaces the installed templates with the current ones.
func (c *Client) Update(ctx context.Context, opts UpdateOptions) (*SyncResult, error) {
	return c.sync(ctx, engine.ModeUpdate, opts.Force)
}

func (c *Client) sync(ctx context.Context, mode engine.Mode, force bool) (*SyncResult, error) {
	entries, err := c.Manifest(mode)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).With(zap.String(logging.KeyFlavor, c.flavor.Name))
	for _, l := range c.layers {
		if l.Loaded {
			log.Debug("config layer loaded", zap.String(logging.KeyConfigLayer, string(l.Level)), logging.Path(l.Path))
		}
	}
	ctx = logging.NewContext(ctx, log)

	eng := &engine.SyncEngine{Provider: c.provider, FS: c.fs}
	return eng.Sync(ctx, entries, engine.Options{Force: force, Mode: mode, Markers: c.markers}), nil
}

// Status reports how each installed file compares to its template.
func (c *Client) Status(ctx context.Context) ([]EntryStatus, error) {
	entries, err := c.Manifest(engine.ModeInit)
	if err != nil {
		return nil, err
	}
	eng := &engine.StatusEngine{Provider: c.provider, FS: c.fs}
	return eng.Status(ctx, entries, c.markers), nil
}

// Check reports whether every installed file matches its template.
func (c *Client) Check(ctx context.Context) (*CheckResult, error) {
	entries, err := c.Manifest(engine.ModeInit)
	if err != nil {
		return nil, err
	}
	eng := &engine.StatusEngine{Provider: c.provider, FS: c.fs}
	return eng.Check(ctx, entries, c.markers), nil
}

// Strict reports whether config asks for a non-zero exit on failed entries.
func (c *Client) Strict() bool {
	return c.cfg.IsStrict()
}

// Starter returns the configured starter-kit repository and ref.
func (c *Client) Starter() (repo, ref string) {
	return c.cfg.Starter.Repo, c.cfg.Starter.Ref
}

// Info describes the resolved setup.
func (c *Client) Info() Info {
	info := Info{
		ProjectRoot: c.root,
		Flavor:      c.flavor.Name,
		Templates:   c.provider.Describe(),
		MarkerMode:  c.cfg.Markers.Mode,
		Strict:      c.cfg.IsStrict(),
	}
	if info.MarkerMode == "" {
		info.MarkerMode = config.MarkerModeLegacy
	}
	for _, l := range c.layers {
		info.Layers = append(info.Layers, Layer{Level: string(l.Level), Path: l.Path, Loaded: l.Loaded})
	}
	if entries, err := c.Manifest(engine.ModeInit); err == nil {
		for _, e := range entries {
			info.Destinations = append(info.Destinations, e.Destination)
		}
	}
	if c.tplDir != "" {
		info.Overridden, info.Ignored = c.overrides()
	}
	fm := target.NewFlavorMap(c.cfg.FlavorDefinitions)
	for _, name := range fm.KnownFlavors() {
		f, _ := fm.Resolve(name)
		info.Flavors = append(info.Flavors, FlavorInfo{Name: f.Name, ConfigDir: f.ConfigDir, Custom: fm.IsCustom(name)})
	}
	return info
}

// overrides splits the override directory's templates into those that
// replace a built-in and those no manifest entry reads.
func (c *Client) overrides() (used, ignored []string) {
	ids, err := source.Dir(c.tplDir).List()
	if err != nil {
		return nil, nil
	}
	known := make(map[string]bool, len(target.TemplateIDs))
	for _, id := range target.TemplateIDs {
		known[id] = true
	}
	for _, id := range ids {
		if known[id] {
			used = append(used, id)
		} else {
			ignored = append(ignored, id)
		}
	}
	return used, ignored
}

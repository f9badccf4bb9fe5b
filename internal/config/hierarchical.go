package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// HierarchicalOptions controls layered config loading.
type HierarchicalOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit skips the system and user layers.
	NoInherit bool

	// RequireProject makes a missing project file an error. Set when the
	// path was given explicitly.
	RequireProject bool
}

// HierarchicalResult is the merged config plus the layers that were consulted.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical loads every existing layer, merges them over Default()
// and validates the result. Missing layers are skipped.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      opts.ProjectPath,
		SystemConfigPath: opts.SystemConfigPath,
		UserConfigPath:   opts.UserConfigPath,
	})
	if opts.NoInherit {
		kept := layers[:0]
		for _, l := range layers {
			if l.Level == LevelProject {
				kept = append(kept, l)
			}
		}
		layers = kept
	}

	configs := []*Config{Default()}
	for i := range layers {
		layer := &layers[i]
		if _, err := os.Stat(layer.Path); errors.Is(err, fs.ErrNotExist) {
			if layer.Level == LevelProject && opts.RequireProject {
				layer.Err = err
				return &HierarchicalResult{Layers: layers}, fmt.Errorf("config file %s not found", layer.Path)
			}
			continue
		}

		cfg, err := Load(layer.Path)
		if err != nil {
			layer.Err = err
			return &HierarchicalResult{Layers: layers}, fmt.Errorf("%s config: %w", layer.Level, err)
		}
		layer.Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return &HierarchicalResult{Layers: layers}, err
	}
	if errs := Validate(merged); len(errs) > 0 {
		return &HierarchicalResult{Layers: layers}, &ValidationError{Errors: errs}
	}
	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}

package opsxone

import "github.com/gisketch/opsx-one/internal/engine"

// Type aliases re-export engine result types as the public API.

type SyncResult = engine.SyncResult
type Outcome = engine.Outcome
type Status = engine.Status
type EntryStatus = engine.EntryStatus
type EntryState = engine.EntryState
type CheckResult = engine.CheckResult
type EntryError = engine.EntryError

// Outcome statuses.
const (
	StatusCreated       = engine.StatusCreated
	StatusOverwritten   = engine.StatusOverwritten
	StatusAppended      = engine.StatusAppended
	StatusSkippedExists = engine.StatusSkippedExists
	StatusFailed        = engine.StatusFailed
)

// Error classes for failed outcomes, for use with errors.Is.
var (
	ErrIOFailure           = engine.ErrIOFailure
	ErrTransformFailure    = engine.ErrTransformFailure
	ErrTemplateUnavailable = engine.ErrTemplateUnavailable
)

// Info describes a Client's resolved setup.
type Info struct {
	ProjectRoot  string
	Flavor       string
	Templates    string
	MarkerMode   string
	Strict       bool
	Layers       []Layer
	Destinations []string
	Flavors      []FlavorInfo

	// Overridden lists templates served from the override directory;
	// Ignored lists markdown files there that no entry uses.
	Overridden []string
	Ignored    []string
}

// FlavorInfo describes one known flavor.
type FlavorInfo struct {
	Name      string
	ConfigDir string
	Custom    bool
}

// Layer is one config file that was consulted.
type Layer struct {
	Level  string
	Path   string
	Loaded bool
}

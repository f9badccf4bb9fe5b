package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gisketch/opsx-one/internal/logging"
)

// ContentProvider resolves a template id to its raw text.
type ContentProvider interface {
	Content(sourceID string) (string, error)
}

// FS is the filesystem capability the engines need. Paths are relative to
// the implementation's root.
type FS interface {
	Exists(path string) (bool, error)
	ReadFile(path string) (string, error)
	// WriteFile must replace the file content completely or not at all.
	WriteFile(path, content string) error
	EnsureDir(path string) error
}

// SyncEngine applies template entries against a filesystem.
type SyncEngine struct {
	Provider ContentProvider
	FS       FS
}

// Options configures a sync operation.
type Options struct {
	Force bool
	Mode  Mode
	// Markers defaults to NewLegacyMarkers() when nil.
	Markers MarkerDetector
}

// appendSeparator sits between existing content and an appended template.
const appendSeparator = "\n\n"

// Outcome details for non-failed entries.
const (
	DetailOverwritten    = "overwritten"
	DetailAppended       = "appended"
	DetailAlreadyExists  = "already exists"
	DetailAlreadyManaged = "already contains managed content"
)

// Sync processes entries in order and returns exactly one outcome per entry.
// Failures are recorded on the entry's outcome and never stop the batch.
func (e *SyncEngine) Sync(ctx context.Context, entries []Entry, opts Options) *SyncResult {
	log := logging.FromContext(ctx).With(zap.String(logging.KeyMode, opts.Mode.String()))

	markers := opts.Markers
	if markers == nil {
		markers = NewLegacyMarkers()
	}

	result := &SyncResult{Outcomes: make([]Outcome, 0, len(entries))}
	for _, entry := range entries {
		out := e.syncEntry(entry, opts, markers)
		if out.Err != nil {
			log.Warn("entry failed",
				logging.Path(entry.Destination),
				zap.String(logging.KeySource, entry.SourceID),
				zap.Error(out.Err))
		} else {
			log.Debug("entry processed",
				logging.Path(entry.Destination),
				zap.String(logging.KeyStrategy, entry.Strategy.String()),
				zap.String(logging.KeyStatus, out.Status.String()))
		}
		result.Outcomes = append(result.Outcomes, out)
	}

	log.Debug("sync finished",
		logging.Count(len(result.Outcomes)),
		zap.Int("written", result.Written()),
		zap.Int("failed", result.Failed()))
	return result
}

func (e *SyncEngine) syncEntry(entry Entry, opts Options, markers MarkerDetector) Outcome {
	dest := entry.Destination

	if !entry.Strategy.IsValid() {
		return failed(dest, ErrInvalidEntry, fmt.Errorf("unknown strategy %q", entry.Strategy))
	}

	content, err := Render(e.Provider, entry)
	if err != nil {
		return failedErr(dest, err)
	}
	if entry.marked() {
		content = markers.Mark(content)
	}

	exists, err := e.FS.Exists(dest)
	if err != nil {
		return failed(dest, ErrIOFailure, err)
	}
	if !exists {
		return e.write(dest, content, StatusCreated, "")
	}

	if entry.Strategy == StrategyReplace {
		if opts.Mode == ModeUpdate || opts.Force {
			return e.write(dest, content, StatusOverwritten, DetailOverwritten)
		}
		return Outcome{Destination: dest, Status: StatusSkippedExists, Detail: DetailAlreadyExists}
	}

	existing, err := e.FS.ReadFile(dest)
	if err != nil {
		return failed(dest, ErrIOFailure, fmt.Errorf("reading existing content: %w", err))
	}
	if markers.Detect(existing) {
		if !opts.Force {
			return Outcome{Destination: dest, Status: StatusSkippedExists, Detail: DetailAlreadyManaged}
		}
		return e.write(dest, content, StatusOverwritten, DetailOverwritten)
	}
	return e.write(dest, existing+appendSeparator+content, StatusAppended, DetailAppended)
}

func (e *SyncEngine) write(dest, content string, status Status, detail string) Outcome {
	if err := e.FS.EnsureDir(filepath.Dir(dest)); err != nil {
		return failed(dest, ErrIOFailure, fmt.Errorf("creating parent directory: %w", err))
	}
	if err := e.FS.WriteFile(dest, content); err != nil {
		return failed(dest, ErrIOFailure, fmt.Errorf("writing: %w", err))
	}
	return Outcome{Destination: dest, Status: status, Detail: detail}
}

// Render resolves an entry's template and applies its transform.
// Errors are *EntryError values classified as ErrTemplateUnavailable or
// ErrTransformFailure.
func Render(p ContentProvider, entry Entry) (string, error) {
	raw, err := p.Content(entry.SourceID)
	if err != nil {
		return "", &EntryError{Path: entry.Destination, Class: ErrTemplateUnavailable, Err: err}
	}
	if entry.Transform == nil {
		return raw, nil
	}
	out, err := entry.Transform.Apply(raw)
	if err != nil {
		return "", &EntryError{Path: entry.Destination, Class: ErrTransformFailure, Err: err}
	}
	return out, nil
}

func failed(dest string, class, err error) Outcome {
	return failedErr(dest, &EntryError{Path: dest, Class: class, Err: err})
}

func failedErr(dest string, err error) Outcome {
	detail := err.Error()
	if ee, ok := err.(*EntryError); ok {
		detail = ee.Class.Error() + ": " + ee.Err.Error()
	}
	return Outcome{Destination: dest, Status: StatusFailed, Detail: detail, Err: err}
}

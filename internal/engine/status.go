package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/gisketch/opsx-one/internal/logging"
)

// StatusEngine compares manifest destinations against their templates
// without writing anything.
type StatusEngine struct {
	Provider ContentProvider
	FS       FS
}

// Status returns one EntryStatus per entry, in order.
func (e *StatusEngine) Status(ctx context.Context, entries []Entry, markers MarkerDetector) []EntryStatus {
	log := logging.FromContext(ctx)
	if markers == nil {
		markers = NewLegacyMarkers()
	}

	statuses := make([]EntryStatus, 0, len(entries))
	for _, entry := range entries {
		s := e.entryStatus(entry, markers)
		log.Debug("entry status",
			logging.Path(entry.Destination),
			zap.String("state", string(s.State)))
		statuses = append(statuses, s)
	}
	return statuses
}

func (e *StatusEngine) entryStatus(entry Entry, markers MarkerDetector) EntryStatus {
	s := EntryStatus{
		Destination: entry.Destination,
		SourceID:    entry.SourceID,
		Strategy:    entry.Strategy,
	}

	expected, err := Render(e.Provider, entry)
	if err != nil {
		s.State = StateUnknown
		s.Err = err
		return s
	}
	if entry.marked() {
		expected = markers.Mark(expected)
	}
	s.Expected = sha256Hex(expected)

	exists, err := e.FS.Exists(entry.Destination)
	if err != nil {
		s.State = StateUnknown
		s.Err = &EntryError{Path: entry.Destination, Class: ErrIOFailure, Err: err}
		return s
	}
	if !exists {
		s.State = StateMissing
		return s
	}

	actual, err := e.FS.ReadFile(entry.Destination)
	if err != nil {
		s.State = StateUnknown
		s.Err = &EntryError{Path: entry.Destination, Class: ErrIOFailure, Err: err}
		return s
	}
	s.Actual = sha256Hex(actual)

	switch {
	case s.Actual == s.Expected:
		s.State = StateSynced
	case entry.marked() && markers.Detect(actual):
		s.State = StateMerged
	default:
		s.State = StateDrifted
	}
	return s
}

// Check summarizes Status for CI use. Clean is false when anything is
// missing, drifted or unreadable.
func (e *StatusEngine) Check(ctx context.Context, entries []Entry, markers MarkerDetector) *CheckResult {
	result := &CheckResult{Clean: true}
	for _, s := range e.Status(ctx, entries, markers) {
		switch s.State {
		case StateMissing:
			result.Missing = append(result.Missing, s.Destination)
			result.Clean = false
		case StateDrifted:
			result.Drifted = append(result.Drifted, s)
			result.Clean = false
		case StateUnknown:
			result.Errors = append(result.Errors, s)
			result.Clean = false
		}
	}
	return result
}

func sha256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

package ui

import (
	"fmt"
	"io"

	"github.com/gisketch/opsx-one/internal/engine"
)

const indent = "  "

// OutcomeLine renders one sync outcome as a single status line.
func OutcomeLine(o engine.Outcome) string {
	switch o.Status {
	case engine.StatusCreated:
		return Success(SymbolSuccess) + " " + o.Destination
	case engine.StatusOverwritten:
		return Success(SymbolSuccess) + " " + o.Destination + Dim(" (overwritten)")
	case engine.StatusAppended:
		return Success(SymbolSuccess) + " " + o.Destination + Dim(" (appended OpenSpec section)")
	case engine.StatusSkippedExists:
		if o.Detail == engine.DetailAlreadyManaged {
			return Warning(SymbolWarning) + " " + o.Destination + " already contains OpenSpec context (use --force to overwrite)"
		}
		return Warning(SymbolWarning) + " " + o.Destination + " already exists (use --force to overwrite)"
	default:
		return Error(SymbolError) + " " + o.Destination + ": " + o.Detail
	}
}

// Report writes the outcome lines of a sync run.
func Report(w io.Writer, result *engine.SyncResult) {
	for _, o := range result.Outcomes {
		fmt.Fprintln(w, indent+OutcomeLine(o))
	}
}

// Summary returns a one-line count of a sync run, e.g.
// "2 written, 1 skipped, 0 failed".
func Summary(result *engine.SyncResult) string {
	failed := fmt.Sprintf("%d failed", result.Failed())
	if result.Failed() > 0 {
		failed = Error(failed)
	}
	return fmt.Sprintf("%d written, %d skipped, %s",
		result.Written(), result.Count(engine.StatusSkippedExists), failed)
}

// StatusLine renders one entry of a status report.
func StatusLine(s engine.EntryStatus) string {
	switch s.State {
	case engine.StateSynced:
		return Success(SymbolSuccess) + " " + s.Destination
	case engine.StateMerged:
		return Success(SymbolSuccess) + " " + s.Destination + Dim(" (merged into existing file)")
	case engine.StateDrifted:
		return Warning(SymbolWarning) + " " + s.Destination + " differs from the template"
	case engine.StateMissing:
		return Dim(SymbolMissing) + " " + s.Destination + " missing"
	default:
		msg := "unknown"
		if s.Err != nil {
			msg = s.Err.Error()
		}
		return Error(SymbolError) + " " + s.Destination + ": " + msg
	}
}

// StatusReport writes every status line.
func StatusReport(w io.Writer, statuses []engine.EntryStatus) {
	for _, s := range statuses {
		fmt.Fprintln(w, indent+StatusLine(s))
	}
}

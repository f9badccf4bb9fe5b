package engine

// Strategy decides what happens when an entry's destination already exists.
type Strategy string

const (
	// StrategyReplace writes the template over the destination.
	StrategyReplace Strategy = "replace"

	// StrategyAppendIfAbsent appends the template to the destination unless
	// the destination already carries managed content.
	StrategyAppendIfAbsent Strategy = "append-if-absent"
)

// IsValid returns true if the strategy is recognized.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyReplace, StrategyAppendIfAbsent:
		return true
	default:
		return false
	}
}

func (s Strategy) String() string {
	return string(s)
}

// Mode is the invoking command.
type Mode string

const (
	ModeInit   Mode = "init"
	ModeUpdate Mode = "update"
)

// IsValid returns true if the mode is recognized.
func (m Mode) IsValid() bool {
	return m == ModeInit || m == ModeUpdate
}

func (m Mode) String() string {
	return string(m)
}

// Status is the outcome of processing one entry.
type Status string

const (
	StatusCreated       Status = "created"
	StatusOverwritten   Status = "overwritten"
	StatusAppended      Status = "appended"
	StatusSkippedExists Status = "skipped-exists"
	StatusFailed        Status = "failed"
)

// Wrote reports whether the status implies the destination was written.
func (s Status) Wrote() bool {
	return s == StatusCreated || s == StatusOverwritten || s == StatusAppended
}

func (s Status) String() string {
	return string(s)
}

// Transformer rewrites template content before it is written.
// Implementations must be pure; a nil Transformer is the identity.
type Transformer interface {
	Apply(content string) (string, error)
}

// Entry is one template-to-destination unit of sync work.
type Entry struct {
	SourceID    string
	Destination string // relative to the filesystem root
	Strategy    Strategy
	Transform   Transformer
	// Managed entries carry the marker in their written content whatever the
	// strategy, so a later append-if-absent run recognizes them.
	Managed bool
}

// marked reports whether content written for e is stamped with markers.
func (e Entry) marked() bool {
	return e.Managed || e.Strategy == StrategyAppendIfAbsent
}

// Outcome is the result of processing one Entry.
type Outcome struct {
	Destination string
	Status      Status
	Detail      string
	Err         error // set only when Status is StatusFailed
}

// SyncResult holds the ordered outcomes of a sync operation.
type SyncResult struct {
	Outcomes []Outcome
}

// Count returns how many outcomes have the given status.
func (r *SyncResult) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that could not be processed.
func (r *SyncResult) Failed() int {
	return r.Count(StatusFailed)
}

// Written returns the number of destinations that were written.
func (r *SyncResult) Written() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status.Wrote() {
			n++
		}
	}
	return n
}

// EntryState describes how a destination compares to its template.
type EntryState string

const (
	StateSynced  EntryState = "synced"
	StateMerged  EntryState = "merged"
	StateDrifted EntryState = "drifted"
	StateMissing EntryState = "missing"
	StateUnknown EntryState = "unknown"
)

// EntryStatus is the status report for one manifest entry.
type EntryStatus struct {
	Destination string
	SourceID    string
	Strategy    Strategy
	State       EntryState
	Expected    string // sha256 of the rendered template
	Actual      string // sha256 of the file on disk, empty if missing
	Err         error
}

// CheckResult holds the outcome of a check operation.
type CheckResult struct {
	Clean   bool
	Drifted []EntryStatus
	Missing []string
	Errors  []EntryStatus
}

package engine

import "errors"

// Error classes for failed entries. Match them with errors.Is.
var (
	ErrIOFailure           = errors.New("io failure")
	ErrTransformFailure    = errors.New("transform failure")
	ErrTemplateUnavailable = errors.New("template unavailable")
	ErrInvalidEntry        = errors.New("invalid entry")
)

// EntryError is the error attached to a failed Outcome.
type EntryError struct {
	Path  string
	Class error
	Err   error
}

func (e *EntryError) Error() string {
	return e.Path + ": " + e.Class.Error() + ": " + e.Err.Error()
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's class.
func (e *EntryError) Is(target error) bool {
	return target == e.Class
}

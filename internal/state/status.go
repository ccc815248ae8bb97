package state

import (
	"errors"

	"github.com/kk-code-lab/rnav/internal/source"
)

// StatusLevel controls how a status message is rendered.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusWarn
	StatusError
)

// Status is the one-line message shown under a pane.
type Status struct {
	Text  string
	Level StatusLevel
}

// IsZero reports whether there is nothing to show.
func (s Status) IsZero() bool {
	return s.Text == ""
}

// UsageError reports a confirmation the current configuration does not allow.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// statusForError maps an engine error to the message shown to the user.
// Cancellation never produces a status.
func statusForError(err error) (Status, bool) {
	if err == nil || source.IsCancelled(err) {
		return Status{}, false
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return Status{Text: usage.Reason, Level: StatusWarn}, true
	}
	var se *source.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case source.ScopeInvalid:
			if errors.Is(se.Err, source.ErrAccessDenied) {
				return Status{Text: "access denied: " + se.Path, Level: StatusError}, true
			}
			return Status{Text: "cannot open " + se.Path + ": " + rootCause(se.Err), Level: StatusError}, true
		case source.EnumerationFailed:
			return Status{Text: "cannot read " + se.Path + ": " + rootCause(se.Err), Level: StatusError}, true
		}
	}
	return Status{Text: err.Error(), Level: StatusError}, true
}

func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies enumeration failures.
type ErrorKind int

const (
	// ScopeInvalid: the path failed the security gate or does not exist.
	ScopeInvalid ErrorKind = iota + 1
	// EnumerationPartial: a single entry could not be read and was skipped.
	EnumerationPartial
	// EnumerationFailed: the scope as a whole could not be read.
	EnumerationFailed
	// Cancelled: the listing was abandoned. Never shown to the user.
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ScopeInvalid:
		return "scope invalid"
	case EnumerationPartial:
		return "enumeration partial"
	case EnumerationFailed:
		return "enumeration failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	ErrAccessDenied  = errors.New("access denied")
	ErrNotDirectory  = errors.New("not a directory")
	ErrScopeMismatch = errors.New("scope not served by this source")
)

// Error wraps a failure with its kind and the path involved.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// IsCancelled reports whether err means the listing was abandoned rather than failed.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	return IsKind(err, Cancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

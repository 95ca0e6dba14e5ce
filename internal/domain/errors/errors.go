package errors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("state conflict")
	ErrInvalidTransition  = errors.New("invalid operation")
	ErrAlreadyExists      = errors.New("already exists")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error carries a user facing message on top of one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the text safe to show to API clients.
// Errors that are not domain errors get the generic fallback.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	for _, kind := range []error{ErrValidation, ErrForbidden, ErrNotFound, ErrConflict, ErrInvalidTransition, ErrAlreadyExists, ErrStoreUnavailable, ErrInvalidCredentials} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return fallback
}

package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/soundscout/internal/shared"
)

// Error is a catalog failure tagged with one of the shared sentinel kinds.
//
// Msg, when set, is safe to show to clients. errors.Is matches both Kind and the wrapped cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Message returns the client-facing text.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "catalog error"
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Message extracts the client-facing message from err, falling back to fallback.
func Message(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Msg != "" {
		return ce.Msg
	}
	return fallback
}

func NotFound(op, msg string) error {
	return &Error{Kind: shared.ErrNotFound, Op: op, Msg: msg}
}

func InvalidInput(op, msg string) error {
	return &Error{Kind: shared.ErrInvalidInput, Op: op, Msg: msg}
}

func InvalidID(op, id string) error {
	return &Error{Kind: shared.ErrInvalidID, Op: op, Msg: "Invalid video ID format", Err: fmt.Errorf("%q", id)}
}

func NoPlayableStream(op, msg string) error {
	return &Error{Kind: shared.ErrNoPlayableStream, Op: op, Msg: msg}
}

func Unavailable(op string, cause error) error {
	return &Error{Kind: shared.ErrUnavailable, Op: op, Msg: "YouTube service unavailable", Err: cause}
}

func Timeout(op string, after time.Duration) error {
	return &Error{Kind: shared.ErrTimeout, Op: op, Err: fmt.Errorf("no response after %s", after)}
}

// IsTransient reports whether err is an availability or timeout failure.
func IsTransient(err error) bool {
	return errors.Is(err, shared.ErrUnavailable) || errors.Is(err, shared.ErrTimeout)
}

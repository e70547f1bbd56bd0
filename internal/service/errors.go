package service

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a client-facing failure. Its message is safe to return to callers
// and errors.Is matches its Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func invalidInput(msg string) error { return newError(ErrInvalidInput, msg) }
func forbidden(msg string) error    { return newError(ErrForbidden, msg) }
func notFound(msg string) error     { return newError(ErrNotFound, msg) }
func conflict(msg string) error     { return newError(ErrConflict, msg) }

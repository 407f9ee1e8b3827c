package core

import "errors"

// Error kinds. Callers match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Invalid(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Message returns the client-facing message of err when it is an *Error.
func Message(err error) (string, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message, true
	}
	return "", false
}

package oerror

import "fmt"

// Error is returned when loading settings or track layouts, and reported to sentry when an
// environment panics.
type Error struct {
	Err   string
	Cause error
}

// New formats a new Error. If the last argument is an error it is kept as the cause, so that
// errors.Is and errors.As see through it.
func New(format string, args ...any) *Error {
	e := &Error{Err: fmt.Sprintf(format, args...)}
	if len(args) > 0 {
		if cause, ok := args[len(args)-1].(error); ok {
			e.Cause = cause
		}
	}
	return e
}

func (e *Error) Error() string {
	return e.Err
}

func (e *Error) Unwrap() error {
	return e.Cause
}

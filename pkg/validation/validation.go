// Package validation marks errors caused by bad caller input. Services
// return them for payloads the caller can correct; handlers map them to 400
// and treat every other unclassified error as an internal failure.
package validation

import (
	"errors"
	"fmt"
)

type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// Newf builds a validation error from a format string.
func Newf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is, or wraps, a validation error.
func Is(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

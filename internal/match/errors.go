// Package match ranks related jobs and turns raw search input into field
// conditions. It does no I/O; option tables are passed in.
package match

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks input the engine refuses to process. An empty result is
// never reported through it.
var ErrInvalidInput = errors.New("invalid input")

// InputError names the offending argument.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Package validate holds the field checks shared by the form endpoints.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error is a user-facing validation failure. Handlers answer it with 400.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func Errorf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is, or wraps, a validation failure.
func Is(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// MinLen fails when the trimmed value has fewer than n characters.
func MinLen(value string, n int, label string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		return Errorf("%s must be at least %d characters.", label, n)
	}
	return nil
}

// OneOf fails unless value is one of allowed.
func OneOf(value, label string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return Errorf("%s must be one of %s.", label, strings.Join(allowed, ", "))
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

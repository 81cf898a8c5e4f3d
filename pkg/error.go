package pkg

// Sentinel errors shared by the CLI commands. These can be tested with
// errors.Is for reliable error checking.

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrReadStdin is returned when reading from standard input fails.
var ErrReadStdin = errors.New("failed to read stdin")

// ErrParse is returned when parsing a source input fails. It is wrapped
// with the underlying parse error to preserve the position-tagged detail.
var ErrParse = errors.New("parse error")

// ErrInvalidFormat is returned when an unrecognized output format is
// requested. It is wrapped with the offending format and the valid list.
var ErrInvalidFormat = errors.New("invalid format")

// ErrJSONMarshal is returned when JSON serialization of a tree fails.
var ErrJSONMarshal = errors.New("JSON marshal error")

// ErrYAMLMarshal is returned when YAML serialization of a tree fails.
var ErrYAMLMarshal = errors.New("YAML marshal error")

// ErrNoSource is returned when a command that requires input receives no
// source files and nothing on standard input.
var ErrNoSource = errors.New("no input source")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(e, err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
// Multi-error containers contribute their elements only, never themselves,
// so re-wrapping an Error through MakeError keeps the chain flat.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

		return chain
	}

	if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}

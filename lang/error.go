package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging. It creates a
// new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError is a position-tagged parse failure: the source name, the
// line/column where the deepest alternative failed, and the union of
// lexemes that were still viable there.
type ParseError struct {
	Name     string   // source name (file path or label)
	Pos      Position // deepest failure position
	Expected []string // alternatives attempted at that position
	Source   string   // full input, for snippet rendering
}

// Error implements the error interface, rendering the failure location,
// the expected alternatives, and a caret snippet of the offending line.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString(e.Name)
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(e.Pos.Column))
	buf.WriteString(": expected one of: ")
	buf.WriteString(strings.Join(e.expected(), ", "))

	if snippet := e.snippet(); snippet != "" {
		buf.WriteByte('\n')
		buf.WriteString(snippet)
	}

	return buf.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", e.Name),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("expected", strings.Join(e.expected(), ", ")),
	)
}

// expected returns the sorted, quoted expected-lexeme list.
func (e *ParseError) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return exp
}

// snippet renders the offending line with a caret under the failure
// column.
func (e *ParseError) snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(e.Pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[e.Pos.Line-1])
	src.WriteByte('\n')

	// 2 leading spaces + " | " (3 chars) + line number width
	padding := strings.Repeat(" ", len(num)+5)
	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}

// errExpected builds a ParseError from the deepest failure recorded so
// far.
func (p *parser) errExpected() *ParseError {
	e := &ParseError{Name: p.name, Source: string(p.input)}

	if p.deep.pos >= 0 {
		e.Pos = Position{
			Offset: p.deep.pos,
			Line:   p.deep.line,
			Column: p.deep.col,
		}
		e.Expected = append([]string(nil), p.deep.expected...)
	} else {
		e.Pos = p.position()
	}

	return e
}

// errTrailing reports unconsumed non-whitespace input after a successful
// top-level parse.
func (p *parser) errTrailing() *ParseError {
	return &ParseError{
		Name:     p.name,
		Source:   string(p.input),
		Pos:      p.position(),
		Expected: []string{"end of input"},
	}
}

package lang

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fghibellini/language-nix/log"
)

// Position is a location within the source input.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// parser holds the state of one parse: the immutable input buffer, a
// cursor, the lexical configuration, and the deepest failure observed so
// far. Backtracking is cursor save/restore; a failed alternative must leave
// the cursor exactly where it started.
type parser struct {
	syn    *Syntax
	name   string
	input  []byte
	pos    int
	line   int
	col    int
	deep   failure
	logger log.Logger
}

// failure records the deepest point any alternative has failed at, together
// with the union of lexemes that were expected there. It survives
// backtracking so the final error names the most specific failure.
type failure struct {
	pos      int
	line     int
	col      int
	expected []string
}

// mark is a cursor snapshot used for backtracking.
type mark struct {
	pos  int
	line int
	col  int
}

func newParser(name, input string, opts ...Option) *parser {
	p := &parser{
		syn:   DefaultSyntax(),
		name:  name,
		input: []byte(input),
		pos:   0,
		line:  1,
		col:   1,
		deep:  failure{pos: -1},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Option configures a parse.
type Option func(*parser)

// WithLogger attaches a structured logger; the zero logger is silent.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// WithSyntax overrides the lexical configuration.
func WithSyntax(syn *Syntax) Option {
	return func(p *parser) { p.syn = syn }
}

// Cursor primitives

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos+off:])

	return r
}

// longestOpAt returns the longest operator lexeme present at the cursor,
// or "" when none matches. Operators are pre-sorted longest first.
func (p *parser) longestOpAt() string {
	for _, op := range p.syn.Operators {
		if p.lookingAt(op) {
			return op
		}
	}

	return ""
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) mark() mark { return mark{pos: p.pos, line: p.line, col: p.col} }

func (p *parser) reset(m mark) {
	p.pos = m.pos
	p.line = m.line
	p.col = m.col
}

func (p *parser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

// fail records an expected lexeme at the current cursor. Failures at a
// position deeper than any seen before replace the expected set; failures
// at the same depth extend it. Shallower failures are ignored so
// backtracking never erases the most specific diagnosis.
func (p *parser) fail(expected string) {
	switch {
	case p.pos > p.deep.pos:
		p.deep = failure{
			pos:      p.pos,
			line:     p.line,
			col:      p.col,
			expected: []string{expected},
		}
	case p.pos == p.deep.pos:
		for _, e := range p.deep.expected {
			if e == expected {
				return
			}
		}

		p.deep.expected = append(p.deep.expected, expected)
	}
}

// Lexeme primitives. Each skips leading whitespace and comments, then
// either consumes one lexeme or restores the cursor and records the
// failure.

// skipSpace advances past whitespace, line comments, and (non-nesting)
// block comments.
func (p *parser) skipSpace() {
	for {
		for !p.eof() && unicode.IsSpace(p.peek()) {
			p.advance()
		}

		switch {
		case p.lookingAt(p.syn.CommentLine):
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}

		case p.lookingAt(p.syn.CommentOpen):
			p.skipN(len(p.syn.CommentOpen))

			for !p.eof() && !p.lookingAt(p.syn.CommentClose) {
				p.advance()
			}

			p.skipN(len(p.syn.CommentClose))

		default:
			return
		}
	}
}

// lookingAt reports whether the raw input at the cursor begins with s.
func (p *parser) lookingAt(s string) bool {
	if s == "" {
		return false
	}

	return bytes.HasPrefix(p.input[p.pos:], []byte(s))
}

// skipN advances the cursor over n bytes (or to EOF).
func (p *parser) skipN(n int) {
	for range n {
		if p.eof() {
			return
		}

		p.advance()
	}
}

// symbol consumes a single structural character: one of ( ) [ ] { } ; , @.
func (p *parser) symbol(ch rune) bool {
	m := p.mark()
	p.skipSpace()

	if p.peek() == ch {
		p.advance()

		return true
	}

	p.fail(string(ch))
	p.reset(m)

	return false
}

// word consumes a reserved word. The word must not run into identifier
// continuation characters, so `let` never matches the prefix of `lets`.
func (p *parser) word(s string) bool {
	m := p.mark()
	p.skipSpace()

	if !p.lookingAt(s) || isIdentCont(p.peekAt(len(s))) {
		p.fail(s)
		p.reset(m)

		return false
	}

	p.skipN(len(s))

	return true
}

// op consumes the operator lexeme s. The longest operator present at the
// cursor must be s itself (maximal munch), so `=` never matches the first
// half of `==`.
func (p *parser) op(s string) bool {
	m := p.mark()
	p.skipSpace()

	if p.longestOpAt() != s {
		p.fail(s)
		p.reset(m)

		return false
	}

	p.skipN(len(s))

	return true
}

// lit consumes the exact text s with no lexeme boundary rules. Used for
// the pattern ellipsis, which is not an operator.
func (p *parser) lit(s string) bool {
	m := p.mark()
	p.skipSpace()

	if !p.lookingAt(s) {
		p.fail(s)
		p.reset(m)

		return false
	}

	p.skipN(len(s))

	return true
}

// ident consumes an identifier lexeme. Reserved words are rejected; a '-'
// continues an identifier only when followed by another identifier
// character, so `a->b` scans as `a` `->` `b`.
func (p *parser) ident() (string, bool) {
	m := p.mark()
	p.skipSpace()

	if !isIdentStart(p.peek()) {
		p.fail("identifier")
		p.reset(m)

		return "", false
	}

	start := p.pos
	p.advance()

	for !p.eof() {
		r := p.peek()
		if r == '-' {
			// Only part of the identifier when more of it follows,
			// so `a->b` scans as `a` `->` `b`.
			if !isIdentCont(p.peekAt(1)) {
				break
			}

			p.advance()

			continue
		}

		if !isIdentCont(r) {
			break
		}

		p.advance()
	}

	name := string(p.input[start:p.pos])
	if p.syn.IsReserved(name) {
		// Record the failure at the token start, not after the consumed
		// word, so backtracking alternatives at the same position share
		// one expected set.
		p.reset(m)
		p.skipSpace()
		p.fail("identifier")
		p.reset(m)

		return "", false
	}

	return name, true
}

// number consumes a natural number, returned as its decimal text.
func (p *parser) number() (string, bool) {
	m := p.mark()
	p.skipSpace()

	if !isDigit(p.peek()) {
		p.fail("number")
		p.reset(m)

		return "", false
	}

	start := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos]), true
}

// stringLit consumes a double-quoted string literal and returns its
// unescaped content.
func (p *parser) stringLit() (string, bool) {
	m := p.mark()
	p.skipSpace()

	if p.peek() != '"' {
		p.fail("string")
		p.reset(m)

		return "", false
	}

	p.advance()

	var b strings.Builder

	for !p.eof() {
		r := p.peek()

		switch r {
		case '"':
			p.advance()

			return b.String(), true

		case '\\':
			p.advance()

			if p.eof() {
				break
			}

			esc := p.peek()
			p.advance()

			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(esc)
			}

		default:
			b.WriteRune(r)
			p.advance()
		}
	}

	p.fail(`"`)
	p.reset(m)

	return "", false
}

// indentedLit consumes an indented string literal delimited by '' pairs.
// Inside, a lone ' is literal content; two consecutive ' characters close
// the string.
func (p *parser) indentedLit() (string, bool) {
	m := p.mark()
	p.skipSpace()

	if !p.lookingAt("''") {
		p.fail("indented string")
		p.reset(m)

		return "", false
	}

	p.skipN(2)

	start := p.pos

	for !p.eof() {
		if p.peek() == '\'' {
			if p.peekAt(1) == '\'' {
				text := string(p.input[start:p.pos])
				p.skipN(2)

				return text, true
			}
		}

		p.advance()
	}

	p.fail("''")
	p.reset(m)

	return "", false
}

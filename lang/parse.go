package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ParseFile reads a file and parses its entire content as one expression.
// The file path doubles as the source name in error messages.
func ParseFile(
	ctx context.Context,
	path string,
	opts ...Option,
) (*Expr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}

	return ParseString(ctx, path, string(data), opts...)
}

// ParseReader parses an expression from an io.Reader.
func ParseReader(
	ctx context.Context,
	name string,
	r io.Reader,
	opts ...Option,
) (*Expr, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", name))
	}

	return ParseString(ctx, name, string(data), opts...)
}

// ParseString parses input as one expression. The entire input must be
// consumed apart from trailing whitespace and comments; anything else is
// an incomplete-consumption failure. On failure the result is strictly an
// error — never a partial tree.
func ParseString(
	ctx context.Context,
	name, input string,
	opts ...Option,
) (*Expr, error) {
	p := newParser(name, input, opts...)

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eof() {
		return nil, p.errTrailing()
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("source", name),
		slog.String("kind", expr.Kind.String()),
	)

	return expr, nil
}

// Rule selects a sub-grammar entry point for [ParseRule].
type Rule int

const (
	// RuleExpr is the top-level expression grammar (with application).
	RuleExpr Rule = iota
	// RuleListExpr is the list-element expression grammar (no application).
	RuleListExpr
	// RuleTerm is the base term grammar, no operators.
	RuleTerm
	// RuleLiteral is the literal alternative alone.
	RuleLiteral
	// RuleURI is the URI literal grammar alone.
	RuleURI
)

// ParseRule runs a single sub-grammar against input without the
// full-consumption requirement, for embedding and testing. It returns the
// parsed expression and the number of input bytes consumed.
func ParseRule(
	ctx context.Context,
	name, input string,
	rule Rule,
	opts ...Option,
) (*Expr, int, error) {
	p := newParser(name, input, opts...)

	var (
		expr *Expr
		err  error
	)

	switch rule {
	case RuleListExpr:
		expr, err = p.parseListExpr()
	case RuleTerm:
		expr, err = p.parseTerm()
	case RuleLiteral:
		expr, err = p.parseLiteral()
	case RuleURI:
		if text, ok := p.uriLit(); ok {
			expr = NewLit(text)
		} else {
			err = p.errExpected()
		}
	default:
		expr, err = p.parseExpr()
	}

	if err != nil {
		return nil, 0, err
	}

	p.logger.TraceContext(ctx, "partial parse complete",
		slog.String("source", name),
		slog.Int("consumed", p.pos),
	)

	return expr, p.pos, nil
}

// try attempts one alternative, restoring the cursor on failure so the
// next alternative observes an untouched position.
func (p *parser) try(parse func() (*Expr, error)) (*Expr, bool) {
	m := p.mark()

	e, err := parse()
	if err != nil {
		p.reset(m)

		return nil, false
	}

	return e, true
}

// parseTerm parses one non-operator syntactic unit. Alternatives are tried
// strictly in order, each backtracking fully on failure; the bare
// identifier is the final fallback.
func (p *parser) parseTerm() (*Expr, error) {
	for _, alt := range []func() (*Expr, error){
		p.parseParen,
		p.parseList,
		p.parsePattern,
		p.parseAttrSet,
		p.parseLet,
		p.parseImport,
		p.parseWith,
		p.parseAssert,
		p.parseIf,
		p.parseLiteral,
	} {
		if e, ok := p.try(alt); ok {
			return e, nil
		}
	}

	if name, ok := p.ident(); ok {
		return NewIdent(name), nil
	}

	p.skipSpace()
	p.fail("expression")

	return nil, p.errExpected()
}

// parseParen parses `( expr )`.
func (p *parser) parseParen() (*Expr, error) {
	if !p.symbol('(') {
		return nil, p.errExpected()
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.symbol(')') {
		return nil, p.errExpected()
	}

	return e, nil
}

// parseList parses `[ expr* ]`. Elements use the list-context entry point,
// so adjacent terms are separate elements, never an application chain.
func (p *parser) parseList() (*Expr, error) {
	if !p.symbol('[') {
		return nil, p.errExpected()
	}

	elems := make([]*Expr, 0)

	for {
		e, ok := p.try(p.parseListExpr)
		if !ok {
			break
		}

		elems = append(elems, e)
	}

	if !p.symbol(']') {
		return nil, p.errExpected()
	}

	return NewList(elems...), nil
}

// parsePattern parses an attribute-set function pattern: an optional
// `name @` binder, then a non-empty comma-separated field list in braces.
// Its prefix overlaps attribute-set literal syntax, so the caller tries it
// with full backtracking before the literal alternative.
func (p *parser) parsePattern() (*Expr, error) {
	binder := ""

	if name, ok := p.ident(); ok {
		if !p.symbol('@') {
			return nil, p.errExpected()
		}

		binder = name
	}

	if !p.symbol('{') {
		return nil, p.errExpected()
	}

	fields := make([]Field, 0)

	for {
		f, err := p.parsePatternField()
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)

		if !p.symbol(',') {
			break
		}
	}

	if !p.symbol('}') {
		return nil, p.errExpected()
	}

	return NewPattern(binder, fields...), nil
}

// parsePatternField parses `name`, `name ? default`, or the ellipsis.
func (p *parser) parsePatternField() (Field, error) {
	if p.lit(Ellipsis) {
		return Field{Name: Ellipsis}, nil
	}

	name, ok := p.ident()
	if !ok {
		return Field{}, p.errExpected()
	}

	f := Field{Name: name}

	if p.op("?") {
		def, err := p.parseExpr()
		if err != nil {
			return Field{}, err
		}

		f.Default = def
	}

	return f, nil
}

// parseAttrSet parses `rec? { attr* }` with semicolon-terminated clauses.
func (p *parser) parseAttrSet() (*Expr, error) {
	rec := p.word("rec")

	if !p.symbol('{') {
		return nil, p.errExpected()
	}

	attrs := make([]Attr, 0)

	for {
		if p.symbol('}') {
			return NewAttrSet(rec, attrs...), nil
		}

		a, err := p.parseAttr()
		if err != nil {
			return nil, err
		}

		if !p.symbol(';') {
			return nil, p.errExpected()
		}

		attrs = append(attrs, a)
	}
}

// parseAttr parses one attribute clause: `path = expr` or
// `inherit (scope)? name+`.
func (p *parser) parseAttr() (Attr, error) {
	if p.word("inherit") {
		var scope ScopedIdent

		if p.symbol('(') {
			s, err := p.parseScopedIdent()
			if err != nil {
				return Attr{}, err
			}

			if !p.symbol(')') {
				return Attr{}, p.errExpected()
			}

			scope = s
		}

		name, ok := p.ident()
		if !ok {
			return Attr{}, p.errExpected()
		}

		names := []string{name}

		for {
			name, ok := p.ident()
			if !ok {
				break
			}

			names = append(names, name)
		}

		return NewInherit(scope, names...), nil
	}

	path, err := p.parseAttrPath()
	if err != nil {
		return Attr{}, err
	}

	if !p.op("=") {
		return Attr{}, p.errExpected()
	}

	value, err := p.parseExpr()
	if err != nil {
		return Attr{}, err
	}

	return NewAssign(path, value), nil
}

// parseAttrPath parses an assignment target: a dotted identifier sequence
// or a single quoted-string key.
func (p *parser) parseAttrPath() (ScopedIdent, error) {
	if key, ok := p.stringLit(); ok {
		return ScopedIdent{key}, nil
	}

	return p.parseScopedIdent()
}

// parseScopedIdent parses `ident ( "." ident )*`.
func (p *parser) parseScopedIdent() (ScopedIdent, error) {
	name, ok := p.ident()
	if !ok {
		return nil, p.errExpected()
	}

	path := ScopedIdent{name}

	for p.op(".") {
		name, ok := p.ident()
		if !ok {
			return nil, p.errExpected()
		}

		path = append(path, name)
	}

	return path, nil
}

// parseLet parses `let (name = expr ;)+ in expr`. Duplicate names are not
// rejected at parse time.
func (p *parser) parseLet() (*Expr, error) {
	if !p.word("let") {
		return nil, p.errExpected()
	}

	binds := make([]Bind, 0)

	for !p.word("in") {
		name, ok := p.ident()
		if !ok {
			return nil, p.errExpected()
		}

		if !p.op("=") {
			return nil, p.errExpected()
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if !p.symbol(';') {
			return nil, p.errExpected()
		}

		binds = append(binds, Bind{Name: name, Value: value})
	}

	if len(binds) == 0 {
		return nil, p.errExpected()
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return NewLet(binds, body), nil
}

// parseImport parses `import expr`.
func (p *parser) parseImport() (*Expr, error) {
	if !p.word("import") {
		return nil, p.errExpected()
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return NewImport(e), nil
}

// parseWith parses `with expr ; expr`.
func (p *parser) parseWith() (*Expr, error) {
	if !p.word("with") {
		return nil, p.errExpected()
	}

	scope, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.symbol(';') {
		return nil, p.errExpected()
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return NewWith(scope, body), nil
}

// parseAssert parses `assert expr ; expr`.
func (p *parser) parseAssert() (*Expr, error) {
	if !p.word("assert") {
		return nil, p.errExpected()
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.symbol(';') {
		return nil, p.errExpected()
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return NewAssert(cond, body), nil
}

// parseIf parses `if expr then expr else expr`.
func (p *parser) parseIf() (*Expr, error) {
	if !p.word("if") {
		return nil, p.errExpected()
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.word("then") {
		return nil, p.errExpected()
	}

	thenE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.word("else") {
		return nil, p.errExpected()
	}

	elseE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return NewIf(cond, thenE, elseE), nil
}

// parseLiteral parses one literal term. String forms are tried first, then
// the URI grammar, then natural numbers; each attempt backtracks fully so
// a failed URI leaves the cursor intact for the next alternative.
func (p *parser) parseLiteral() (*Expr, error) {
	if s, ok := p.stringLit(); ok {
		return NewLit(s), nil
	}

	if s, ok := p.indentedLit(); ok {
		return NewLit(s), nil
	}

	if s, ok := p.uriLit(); ok {
		return NewLit(s), nil
	}

	if s, ok := p.number(); ok {
		return NewLit(s), nil
	}

	return nil, p.errExpected()
}

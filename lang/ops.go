package lang

// Operator-precedence engine. One explicit table drives a precedence
// climbing loop over terms; the two expression entry points differ only in
// whether the juxtaposition-as-application layer is active. Inside list
// literals it is not, so `[ f x ]` holds two elements while `f x` at top
// level is an application.

type fixity int

const (
	infix fixity = iota
	prefix
	juxtapose
)

type assoc int

const (
	assocNone assoc = iota
	assocLeft
	assocRight
)

// layer is one row of the operator table.
type layer struct {
	lexeme string // operator lexeme ("" for juxtaposition)
	word   bool   // lexeme is a reserved word, not an operator
	kind   Kind
	fix    fixity
	assoc  assoc
}

// layers lists the operator table from loosest to tightest binding. The
// ordering is an exact contract: swapping two rows changes the parse of
// any input mixing those operators. Application is declared left
// associative here to pin its observed left-nesting
// (`f x y` = `Apply(Apply(f,x),y)`).
var layers = [...]layer{
	{lexeme: ":", kind: KindFun, fix: infix, assoc: assocRight},
	{lexeme: ".", kind: KindDeref, fix: infix, assoc: assocLeft},
	{lexeme: "or", word: true, kind: KindDefAttr, fix: infix, assoc: assocNone},
	{kind: KindApply, fix: juxtapose, assoc: assocLeft},
	{lexeme: "?", kind: KindHasAttr, fix: infix, assoc: assocNone},
	{lexeme: "++", kind: KindConcat, fix: infix, assoc: assocRight},
	{lexeme: "+", kind: KindAppend, fix: infix, assoc: assocLeft},
	{lexeme: "!", kind: KindNot, fix: prefix},
	{lexeme: "//", kind: KindUnion, fix: infix, assoc: assocRight},
	{lexeme: "==", kind: KindEqual, fix: infix, assoc: assocNone},
	{lexeme: "!=", kind: KindInequal, fix: infix, assoc: assocNone},
	{lexeme: "&&", kind: KindAnd, fix: infix, assoc: assocLeft},
	{lexeme: "||", kind: KindOr, fix: infix, assoc: assocLeft},
	{lexeme: "->", kind: KindImplies, fix: infix, assoc: assocNone},
}

// lexemeOf returns the source spelling of an operator kind, used by the
// pretty-printer.
func lexemeOf(kind Kind) string {
	for _, l := range layers {
		if l.kind == kind {
			return l.lexeme
		}
	}

	return ""
}

// parseExpr parses a top-level expression: the full table including the
// application layer.
func (p *parser) parseExpr() (*Expr, error) {
	return p.parseLayer(0, true)
}

// parseListExpr parses a list-element expression: the full table without
// the application layer.
func (p *parser) parseListExpr() (*Expr, error) {
	return p.parseLayer(0, false)
}

// parseLayer parses one precedence layer; operands come from the next
// tighter layer, and layer len(layers) is the term parser itself.
func (p *parser) parseLayer(i int, withApply bool) (*Expr, error) {
	if i == len(layers) {
		return p.parseTerm()
	}

	l := layers[i]

	switch l.fix {
	case prefix:
		if p.op(l.lexeme) {
			x, err := p.parseLayer(i, withApply)
			if err != nil {
				return nil, err
			}

			return NewUnary(l.kind, x), nil
		}

		return p.parseLayer(i+1, withApply)

	case juxtapose:
		left, err := p.parseLayer(i+1, withApply)
		if err != nil || !withApply {
			return left, err
		}

		for {
			m := p.mark()

			arg, err := p.parseLayer(i+1, withApply)
			if err != nil {
				p.reset(m)

				break
			}

			left = NewApply(left, arg)
		}

		return left, nil

	default:
		return p.parseInfix(i, withApply)
	}
}

// parseInfix combines operands with an infix operator row according to its
// associativity. Once the operator lexeme has been consumed the right
// operand is committed: its failure propagates instead of backtracking.
func (p *parser) parseInfix(i int, withApply bool) (*Expr, error) {
	l := layers[i]

	left, err := p.parseLayer(i+1, withApply)
	if err != nil {
		return nil, err
	}

	for {
		if !p.matchLayer(l) {
			return left, nil
		}

		// Right-associative rows re-enter the same layer so the rest of
		// the chain groups to the right.
		at := i + 1
		if l.assoc == assocRight {
			at = i
		}

		right, err := p.parseLayer(at, withApply)
		if err != nil {
			return nil, err
		}

		left = NewBinary(l.kind, left, right)

		if l.assoc != assocLeft {
			return left, nil
		}
	}
}

// matchLayer consumes the layer's lexeme if present.
func (p *parser) matchLayer(l layer) bool {
	if l.word {
		return p.word(l.lexeme)
	}

	return p.op(l.lexeme)
}

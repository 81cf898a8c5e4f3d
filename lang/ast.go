package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// ScopedIdent is an ordered, dotted path of identifier names, outermost
// first (e.g. the path a.b.c is ["a", "b", "c"]).
type ScopedIdent []string

// Equal reports whether two paths name the same sequence of identifiers.
func (s ScopedIdent) Equal(other ScopedIdent) bool {
	if len(s) != len(other) {
		return false
	}

	for i, name := range s {
		if name != other[i] {
			return false
		}
	}

	return true
}

// Kind discriminates the variants of [Expr].
type Kind int

const (
	// KindLit is a literal: string, indented string, natural number
	// (kept as its decimal text), or URI.
	KindLit Kind = iota // lit

	// KindIdent is a bare identifier reference.
	KindIdent // ident

	// KindAttrSet is an attribute-set literal, optionally recursive.
	KindAttrSet // attrset

	// KindPattern is an attribute-set function pattern (formal parameter).
	KindPattern // pattern

	// KindList is a list literal.
	KindList // list

	// KindLet is a let-expression.
	KindLet // let

	// KindDeref selects an attribute: x . y.
	KindDeref // deref

	// KindHasAttr tests attribute presence: x ? y.
	KindHasAttr // hasattr

	// KindDefAttr selects with a fallback: x or y.
	KindDefAttr // defattr

	// KindConcat concatenates lists: x ++ y.
	KindConcat // concat

	// KindAppend appends strings/paths: x + y.
	KindAppend // append

	// KindNot is logical negation: ! x.
	KindNot // not

	// KindUnion merges attribute sets: x // y.
	KindUnion // union

	// KindEqual is equality: x == y.
	KindEqual // equal

	// KindInequal is inequality: x != y.
	KindInequal // inequal

	// KindAnd is logical conjunction: x && y.
	KindAnd // and

	// KindOr is logical disjunction: x || y.
	KindOr // or

	// KindImplies is logical implication: x -> y.
	KindImplies // implies

	// KindFun is a lambda: param : body.
	KindFun // fun

	// KindApply is function application by juxtaposition: f x.
	KindApply // apply

	// KindImport imports an expression: import x.
	KindImport // import

	// KindWith brings a scope into effect: with x ; y.
	KindWith // with

	// KindAssert guards an expression: assert x ; y.
	KindAssert // assert

	// KindIf is the conditional: if x then y else z.
	KindIf // if
)

// MarshalText renders the kind by name so JSON/YAML dumps stay readable.
func (i Kind) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Ellipsis is the sentinel pattern field name marking that a pattern
// accepts additional unlisted attributes.
const Ellipsis = "..."

// Field is one entry of an attribute-set pattern: a name with an optional
// default expression. The ellipsis entry uses [Ellipsis] as its name and
// carries no default.
type Field struct {
	Name    string `json:"name"           yaml:"name"`
	Default *Expr  `json:"default,omitempty" yaml:"default,omitempty"`
}

// Bind is one let-expression binding: name = value.
type Bind struct {
	Name  string `json:"name"  yaml:"name"`
	Value *Expr  `json:"value" yaml:"value"`
}

// Attr is one binding clause inside an attribute-set literal.
//
// An assignment clause (path = value ;) has Path of length >= 1 and a
// non-nil Value. An inherit clause (inherit (scope)? name+ ;) has a
// non-empty Names sequence; its Path holds the optional scope and may be
// empty, meaning the names resolve against the enclosing scope.
type Attr struct {
	Path  ScopedIdent `json:"path,omitempty"  yaml:"path,omitempty"`
	Names []string    `json:"names,omitempty" yaml:"names,omitempty"`
	Value *Expr       `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsInherit reports whether the clause is an inherit clause.
func (a Attr) IsInherit() bool { return a.Names != nil }

// NewAssign creates an assignment clause binding a dotted path to an
// expression.
func NewAssign(path ScopedIdent, value *Expr) Attr {
	return Attr{Path: path, Value: value}
}

// NewInherit creates an inherit clause. An empty scope means the names are
// inherited from the enclosing binding scope.
func NewInherit(scope ScopedIdent, names ...string) Attr {
	return Attr{Path: scope, Names: names}
}

// Expr is a node of the abstract syntax tree. Exactly the payload fields
// relevant to Kind are set; all others hold their zero value. Nodes own
// their children exclusively and are never mutated after construction.
type Expr struct {
	Kind Kind `json:"kind" yaml:"kind"`

	Lit       string  `json:"lit,omitempty"       yaml:"lit,omitempty"`       // KindLit
	Name      string  `json:"name,omitempty"      yaml:"name,omitempty"`      // KindIdent
	Recursive bool    `json:"recursive,omitempty" yaml:"recursive,omitempty"` // KindAttrSet
	Attrs     []Attr  `json:"attrs,omitempty"     yaml:"attrs,omitempty"`     // KindAttrSet
	Binder    string  `json:"binder,omitempty"    yaml:"binder,omitempty"`    // KindPattern ("" = none)
	Fields    []Field `json:"fields,omitempty"    yaml:"fields,omitempty"`    // KindPattern
	Elems     []*Expr `json:"elems,omitempty"     yaml:"elems,omitempty"`     // KindList
	Binds     []Bind  `json:"binds,omitempty"     yaml:"binds,omitempty"`     // KindLet

	// Operand slots for operator nodes: unary nodes set X, binary nodes
	// set X and Y, the conditional sets all three.
	X *Expr `json:"x,omitempty" yaml:"x,omitempty"`
	Y *Expr `json:"y,omitempty" yaml:"y,omitempty"`
	Z *Expr `json:"z,omitempty" yaml:"z,omitempty"`
}

// NewLit creates a literal node from its source text.
func NewLit(text string) *Expr {
	return &Expr{Kind: KindLit, Lit: text}
}

// NewIdent creates a bare identifier node.
func NewIdent(name string) *Expr {
	return &Expr{Kind: KindIdent, Name: name}
}

// NewAttrSet creates an attribute-set literal.
func NewAttrSet(recursive bool, attrs ...Attr) *Expr {
	return &Expr{Kind: KindAttrSet, Recursive: recursive, Attrs: attrs}
}

// NewPattern creates an attribute-set pattern. An empty binder means the
// pattern has no @ binder.
func NewPattern(binder string, fields ...Field) *Expr {
	return &Expr{Kind: KindPattern, Binder: binder, Fields: fields}
}

// NewList creates a list literal.
func NewList(elems ...*Expr) *Expr {
	return &Expr{Kind: KindList, Elems: elems}
}

// NewLet creates a let-expression with the given bindings and body.
func NewLet(binds []Bind, body *Expr) *Expr {
	return &Expr{Kind: KindLet, Binds: binds, X: body}
}

// NewUnary creates a unary operator node (KindNot, KindImport).
func NewUnary(kind Kind, x *Expr) *Expr {
	return &Expr{Kind: kind, X: x}
}

// NewBinary creates a binary operator node.
func NewBinary(kind Kind, x, y *Expr) *Expr {
	return &Expr{Kind: kind, X: x, Y: y}
}

// NewNot creates a logical negation node.
func NewNot(x *Expr) *Expr { return NewUnary(KindNot, x) }

// NewImport creates an import node.
func NewImport(x *Expr) *Expr { return NewUnary(KindImport, x) }

// NewFun creates a lambda node with the given parameter and body.
func NewFun(param, body *Expr) *Expr { return NewBinary(KindFun, param, body) }

// NewApply creates a function application node.
func NewApply(fun, arg *Expr) *Expr { return NewBinary(KindApply, fun, arg) }

// NewWith creates a with-expression: with scope ; body.
func NewWith(scope, body *Expr) *Expr { return NewBinary(KindWith, scope, body) }

// NewAssert creates an assert-expression: assert cond ; body.
func NewAssert(cond, body *Expr) *Expr {
	return NewBinary(KindAssert, cond, body)
}

// NewIf creates a conditional node: if cond then thenE else elseE.
func NewIf(cond, thenE, elseE *Expr) *Expr {
	return &Expr{Kind: KindIf, X: cond, Y: thenE, Z: elseE}
}

// Equal reports whether two trees are structurally identical.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}

	if e.Kind != other.Kind ||
		e.Lit != other.Lit ||
		e.Name != other.Name ||
		e.Recursive != other.Recursive ||
		e.Binder != other.Binder {
		return false
	}

	if len(e.Attrs) != len(other.Attrs) ||
		len(e.Fields) != len(other.Fields) ||
		len(e.Elems) != len(other.Elems) ||
		len(e.Binds) != len(other.Binds) {
		return false
	}

	for i, a := range e.Attrs {
		b := other.Attrs[i]
		if !a.Path.Equal(b.Path) || !a.Value.Equal(b.Value) {
			return false
		}

		if len(a.Names) != len(b.Names) {
			return false
		}

		for j, n := range a.Names {
			if n != b.Names[j] {
				return false
			}
		}
	}

	for i, f := range e.Fields {
		g := other.Fields[i]
		if f.Name != g.Name || !f.Default.Equal(g.Default) {
			return false
		}
	}

	for i, el := range e.Elems {
		if !el.Equal(other.Elems[i]) {
			return false
		}
	}

	for i, b := range e.Binds {
		c := other.Binds[i]
		if b.Name != c.Name || !b.Value.Equal(c.Value) {
			return false
		}
	}

	return e.X.Equal(other.X) && e.Y.Equal(other.Y) && e.Z.Equal(other.Z)
}

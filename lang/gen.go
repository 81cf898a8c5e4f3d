package lang

import "math/rand"

// Random expression generation for round-trip and re-parse property tests.
// Generation is an explicit recursive function bounded by a maximum depth
// so it always terminates, and it never emits reserved words as
// identifiers.

var genIdents = []string{
	"a", "b", "c", "f", "g", "x", "y", "z",
	"foo", "bar", "pkgs", "lib", "val",
}

var genLits = []string{
	"0", "1", "42", "1337",
	"hello", "hello world", "",
	"a:b", "./mod.nix", "/etc/passwd",
	"http://example.com/a?b=c", "ftp://user@host.org:21/pub",
}

var genBinaryKinds = []Kind{
	KindDeref, KindHasAttr, KindDefAttr, KindConcat, KindAppend,
	KindUnion, KindEqual, KindInequal, KindAnd, KindOr, KindImplies,
	KindApply,
}

// Generate returns a random expression tree of at most the given depth.
func Generate(r *rand.Rand, depth int) *Expr {
	if depth <= 0 {
		return genLeaf(r)
	}

	switch r.Intn(12) {
	case 0:
		return genAttrSet(r, depth)
	case 1:
		return genPattern(r)
	case 2:
		return genList(r, depth)
	case 3:
		return genLet(r, depth)
	case 4:
		return NewIf(
			Generate(r, depth-1),
			Generate(r, depth-1),
			Generate(r, depth-1),
		)
	case 5:
		return NewWith(Generate(r, depth-1), Generate(r, depth-1))
	case 6:
		return NewAssert(Generate(r, depth-1), Generate(r, depth-1))
	case 7:
		return NewImport(Generate(r, depth-1))
	case 8:
		return NewNot(Generate(r, depth-1))
	case 9:
		return genFun(r, depth)
	case 10:
		kind := genBinaryKinds[r.Intn(len(genBinaryKinds))]

		return NewBinary(kind, Generate(r, depth-1), Generate(r, depth-1))
	default:
		return genLeaf(r)
	}
}

func genLeaf(r *rand.Rand) *Expr {
	if r.Intn(2) == 0 {
		return NewIdent(genIdent(r))
	}

	return NewLit(genLits[r.Intn(len(genLits))])
}

func genIdent(r *rand.Rand) string {
	return genIdents[r.Intn(len(genIdents))]
}

func genPath(r *rand.Rand) ScopedIdent {
	path := ScopedIdent{genIdent(r)}
	for r.Intn(3) == 0 {
		path = append(path, genIdent(r))
	}

	return path
}

func genAttrSet(r *rand.Rand, depth int) *Expr {
	attrs := make([]Attr, 0, 3)

	for range r.Intn(4) {
		if r.Intn(4) == 0 {
			var scope ScopedIdent
			if r.Intn(2) == 0 {
				scope = genPath(r)
			}

			names := []string{genIdent(r)}
			if r.Intn(2) == 0 {
				names = append(names, genIdent(r))
			}

			attrs = append(attrs, NewInherit(scope, names...))

			continue
		}

		attrs = append(attrs, NewAssign(genPath(r), Generate(r, depth-1)))
	}

	return NewAttrSet(r.Intn(2) == 0, attrs...)
}

func genPattern(r *rand.Rand) *Expr {
	binder := ""
	if r.Intn(3) == 0 {
		binder = genIdent(r)
	}

	// Field names must be distinct enough to stay readable; defaults stay
	// shallow so patterns do not dominate generated trees.
	fields := make([]Field, 0, 3)
	for i := range 1 + r.Intn(3) {
		f := Field{Name: genIdents[i]}
		if r.Intn(3) == 0 {
			f.Default = genLeaf(r)
		}

		fields = append(fields, f)
	}

	if r.Intn(2) == 0 {
		fields = append(fields, Field{Name: Ellipsis})
	}

	return NewPattern(binder, fields...)
}

func genList(r *rand.Rand, depth int) *Expr {
	elems := make([]*Expr, 0, 3)
	for range r.Intn(4) {
		elems = append(elems, Generate(r, depth-1))
	}

	return NewList(elems...)
}

func genLet(r *rand.Rand, depth int) *Expr {
	binds := make([]Bind, 0, 2)
	for i := range 1 + r.Intn(2) {
		binds = append(binds, Bind{
			Name:  genIdents[i],
			Value: Generate(r, depth-1),
		})
	}

	return NewLet(binds, Generate(r, depth-1))
}

func genFun(r *rand.Rand, depth int) *Expr {
	param := NewIdent(genIdent(r))
	if r.Intn(3) == 0 {
		param = genPattern(r)
	}

	return NewFun(param, Generate(r, depth-1))
}

package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseString_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			name:  "natural number",
			input: "42",
			want:  NewLit("42"),
		},
		{
			name:  "string literal",
			input: `"hello"`,
			want:  NewLit("hello"),
		},
		{
			name:  "string with escapes",
			input: `"a\"b\\c\n"`,
			want:  NewLit("a\"b\\c\n"),
		},
		{
			name:  "indented string",
			input: "''it's here''",
			want:  NewLit("it's here"),
		},
		{
			name:  "absolute uri",
			input: "http://example.com/a?b=c",
			want:  NewLit("http://example.com/a?b=c"),
		},
		{
			name:  "relative path uri",
			input: "./foo.nix",
			want:  NewLit("./foo.nix"),
		},
		{
			name:  "absolute path uri",
			input: "/etc/passwd",
			want:  NewLit("/etc/passwd"),
		},
		{
			name:  "opaque uri",
			input: "mailto:user@example.com",
			want:  NewLit("mailto:user@example.com"),
		},
		{
			name:  "bare identifier",
			input: "foo",
			want:  NewIdent("foo"),
		},
		{
			name:  "identifier with hyphen and digits",
			input: "log-pretty2",
			want:  NewIdent("log-pretty2"),
		},
		{
			name:  "reserved word prefix is an identifier",
			input: "lets",
			want:  NewIdent("lets"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(context.Background(), "test", tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_Operators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			// `+` binds tighter than `++`; swapping the two layers would
			// change this tree.
			name:  "append before concat",
			input: "1 + 2 ++ 3",
			want: NewBinary(KindConcat,
				NewBinary(KindAppend, NewLit("1"), NewLit("2")),
				NewLit("3")),
		},
		{
			name:  "application",
			input: "f x",
			want:  NewApply(NewIdent("f"), NewIdent("x")),
		},
		{
			// Observed left nesting; pinned regardless of declared
			// associativity.
			name:  "application nests left",
			input: "f x y",
			want: NewApply(
				NewApply(NewIdent("f"), NewIdent("x")),
				NewIdent("y")),
		},
		{
			name:  "and nests left",
			input: "a && b && c",
			want: NewBinary(KindAnd,
				NewBinary(KindAnd, NewIdent("a"), NewIdent("b")),
				NewIdent("c")),
		},
		{
			name:  "concat nests right",
			input: "a ++ b ++ c",
			want: NewBinary(KindConcat,
				NewIdent("a"),
				NewBinary(KindConcat, NewIdent("b"), NewIdent("c"))),
		},
		{
			name:  "union nests right",
			input: "a // b // c",
			want: NewBinary(KindUnion,
				NewIdent("a"),
				NewBinary(KindUnion, NewIdent("b"), NewIdent("c"))),
		},
		{
			name:  "deref nests left",
			input: "a.b.c",
			want: NewBinary(KindDeref,
				NewBinary(KindDeref, NewIdent("a"), NewIdent("b")),
				NewIdent("c")),
		},
		{
			name:  "lambda nests right",
			input: "a: b: c",
			want: NewFun(
				NewIdent("a"),
				NewFun(NewIdent("b"), NewIdent("c"))),
		},
		{
			name:  "has attribute",
			input: "a ? b",
			want:  NewBinary(KindHasAttr, NewIdent("a"), NewIdent("b")),
		},
		{
			name:  "default attribute",
			input: "a or b",
			want:  NewBinary(KindDefAttr, NewIdent("a"), NewIdent("b")),
		},
		{
			name:  "equality",
			input: "a == b",
			want:  NewBinary(KindEqual, NewIdent("a"), NewIdent("b")),
		},
		{
			name:  "inequality",
			input: "a != b",
			want:  NewBinary(KindInequal, NewIdent("a"), NewIdent("b")),
		},
		{
			name:  "implication without spaces",
			input: "a->b",
			want:  NewBinary(KindImplies, NewIdent("a"), NewIdent("b")),
		},
		{
			name:  "disjunction",
			input: "a || b",
			want:  NewBinary(KindOr, NewIdent("a"), NewIdent("b")),
		},
		{
			// `&&` binds tighter than prefix `!`.
			name:  "negation over conjunction",
			input: "! a && b",
			want: NewNot(
				NewBinary(KindAnd, NewIdent("a"), NewIdent("b"))),
		},
		{
			name:  "lambda body extends right",
			input: "x: f x",
			want: NewFun(
				NewIdent("x"),
				NewApply(NewIdent("f"), NewIdent("x"))),
		},
		{
			name:  "uri wins over lambda when unspaced",
			input: "a:b",
			want:  NewLit("a:b"),
		},
		{
			name:  "lambda when spaced",
			input: "a: b",
			want:  NewFun(NewIdent("a"), NewIdent("b")),
		},
		{
			name:  "parenthesized expression",
			input: "(f x) y",
			want: NewApply(
				NewApply(NewIdent("f"), NewIdent("x")),
				NewIdent("y")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(context.Background(), "test", tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_ListContext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			// Adjacent terms in a list are elements, never application.
			name:  "no application inside lists",
			input: "[ f x ]",
			want:  NewList(NewIdent("f"), NewIdent("x")),
		},
		{
			name:  "empty list",
			input: "[ ]",
			want:  NewList(),
		},
		{
			name:  "parenthesized application element",
			input: "[ (f x) y ]",
			want: NewList(
				NewApply(NewIdent("f"), NewIdent("x")),
				NewIdent("y")),
		},
		{
			name:  "operators still bind inside elements",
			input: "[ a ++ b c ]",
			want: NewList(
				NewBinary(KindConcat, NewIdent("a"), NewIdent("b")),
				NewIdent("c")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(context.Background(), "test", tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_AttrSets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			name:  "empty set",
			input: "{ }",
			want:  NewAttrSet(false),
		},
		{
			name:  "simple assignment",
			input: "{ x = 1; }",
			want: NewAttrSet(false,
				NewAssign(ScopedIdent{"x"}, NewLit("1"))),
		},
		{
			name:  "recursive set",
			input: "rec { x = y; y = 1; }",
			want: NewAttrSet(true,
				NewAssign(ScopedIdent{"x"}, NewIdent("y")),
				NewAssign(ScopedIdent{"y"}, NewLit("1"))),
		},
		{
			name:  "dotted path",
			input: "{ a.b.c = 1; }",
			want: NewAttrSet(false,
				NewAssign(ScopedIdent{"a", "b", "c"}, NewLit("1"))),
		},
		{
			name:  "quoted string key",
			input: `{ "foo bar" = 1; }`,
			want: NewAttrSet(false,
				NewAssign(ScopedIdent{"foo bar"}, NewLit("1"))),
		},
		{
			name:  "inherit with scope",
			input: "{ inherit (pkgs) foo bar; }",
			want: NewAttrSet(false,
				NewInherit(ScopedIdent{"pkgs"}, "foo", "bar")),
		},
		{
			name:  "inherit without scope",
			input: "{ inherit foo; }",
			want: NewAttrSet(false,
				NewInherit(nil, "foo")),
		},
		{
			name:  "inherit from dotted scope",
			input: "{ inherit (pkgs.lib) mkDerivation; }",
			want: NewAttrSet(false,
				NewInherit(ScopedIdent{"pkgs", "lib"}, "mkDerivation")),
		},
		{
			name:  "uri value keeps trailing semicolon out",
			input: "{ src = http://example.com/tarball; }",
			want: NewAttrSet(false,
				NewAssign(ScopedIdent{"src"},
					NewLit("http://example.com/tarball"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(context.Background(), "test", tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_Patterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			name:  "pattern with default and ellipsis",
			input: "{ x, y ? 2, ... }: x",
			want: NewFun(
				NewPattern("",
					Field{Name: "x"},
					Field{Name: "y", Default: NewLit("2")},
					Field{Name: Ellipsis}),
				NewIdent("x")),
		},
		{
			name:  "pattern with binder",
			input: "args @ { x }: x",
			want: NewFun(
				NewPattern("args", Field{Name: "x"}),
				NewIdent("x")),
		},
		{
			name:  "single field pattern",
			input: "{ x }: x",
			want: NewFun(
				NewPattern("", Field{Name: "x"}),
				NewIdent("x")),
		},
		{
			name:  "ellipsis only",
			input: "{ ... }: 1",
			want: NewFun(
				NewPattern("", Field{Name: Ellipsis}),
				NewLit("1")),
		},
		{
			// The pattern prefix overlaps attribute-set syntax; only the
			// assignment decides.
			name:  "attrset not mistaken for pattern",
			input: "{ x = 1; }",
			want: NewAttrSet(false,
				NewAssign(ScopedIdent{"x"}, NewLit("1"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(context.Background(), "test", tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_Compound(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			name:  "let expression",
			input: "let x = 1; in x",
			want: NewLet(
				[]Bind{{Name: "x", Value: NewLit("1")}},
				NewIdent("x")),
		},
		{
			name:  "let with multiple bindings",
			input: "let x = 1; y = x; in y",
			want: NewLet(
				[]Bind{
					{Name: "x", Value: NewLit("1")},
					{Name: "y", Value: NewIdent("x")},
				},
				NewIdent("y")),
		},
		{
			name:  "duplicate let bindings accepted",
			input: "let x = 1; x = 2; in x",
			want: NewLet(
				[]Bind{
					{Name: "x", Value: NewLit("1")},
					{Name: "x", Value: NewLit("2")},
				},
				NewIdent("x")),
		},
		{
			name:  "import of relative uri",
			input: "import ./foo.nix",
			want:  NewImport(NewLit("./foo.nix")),
		},
		{
			name:  "with expression",
			input: "with pkgs; hello",
			want:  NewWith(NewIdent("pkgs"), NewIdent("hello")),
		},
		{
			name:  "assert expression",
			input: "assert ok; val",
			want:  NewAssert(NewIdent("ok"), NewIdent("val")),
		},
		{
			name:  "conditional",
			input: "if a then b else c",
			want: NewIf(
				NewIdent("a"), NewIdent("b"), NewIdent("c")),
		},
		{
			name:  "comments are skipped",
			input: "/* before */ 1 # after",
			want:  NewLit("1"),
		},
		{
			name:  "block comment does not nest",
			input: "/* a /* b */ 1",
			want:  NewLit("1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(context.Background(), "test", tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		expects string // substring required in the expected list
	}{
		{
			name:    "missing attribute value",
			input:   "{ x = ; }",
			line:    1,
			column:  7,
			expects: `"expression"`,
		},
		{
			name:    "trailing garbage",
			input:   "x ;",
			line:    1,
			column:  3,
			expects: `"end of input"`,
		},
		{
			name:    "implication is non-associative",
			input:   "a -> b -> c",
			line:    1,
			column:  8,
			expects: `"end of input"`,
		},
		{
			name:    "unterminated string",
			input:   `"abc`,
			line:    1,
			column:  5,
			expects: `"\""`,
		},
		{
			name:    "empty input",
			input:   "",
			line:    1,
			column:  1,
			expects: `"expression"`,
		},
		{
			name:    "let without bindings",
			input:   "let in x",
			line:    1,
			column:  1,
			expects: `"expression"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), "test", tt.input)
			if err == nil {
				t.Fatal("expected parse error")
			}

			perr := &ParseError{}
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}

			if perr.Pos.Line != tt.line || perr.Pos.Column != tt.column {
				t.Errorf("error at %d:%d, want %d:%d (%v)",
					perr.Pos.Line, perr.Pos.Column, tt.line, tt.column, err)
			}

			if !strings.Contains(err.Error(), tt.expects) {
				t.Errorf("error %q does not mention %s", err, tt.expects)
			}
		})
	}
}

func TestParseString_Idempotent(t *testing.T) {
	inputs := []string{
		"1 + 2 ++ 3",
		"{ x = 1; inherit (pkgs) foo; }",
		"args @ { x, y ? f 2, ... }: with pkgs; [ x y ]",
		"let f = x: x; in f (import ./m.nix)",
	}

	for _, input := range inputs {
		first, err := ParseString(context.Background(), "test", input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}

		second, err := ParseString(context.Background(), "test", input)
		if err != nil {
			t.Fatalf("re-parse %q: %v", input, err)
		}

		if !first.Equal(second) {
			t.Errorf("parses of %q differ: %s vs %s", input, first, second)
		}
	}
}

func TestParseRule(t *testing.T) {
	ctx := context.Background()

	t.Run("list expr stops before application", func(t *testing.T) {
		e, n, err := ParseRule(ctx, "test", "f x", RuleListExpr)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		if !e.Equal(NewIdent("f")) {
			t.Errorf("got %s, want f", e)
		}

		if n != 1 {
			t.Errorf("consumed %d bytes, want 1", n)
		}
	})

	t.Run("term ignores operators", func(t *testing.T) {
		e, n, err := ParseRule(ctx, "test", "a + b", RuleTerm)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		if !e.Equal(NewIdent("a")) {
			t.Errorf("got %s, want a", e)
		}

		if n != 1 {
			t.Errorf("consumed %d bytes, want 1", n)
		}
	})

	t.Run("no full consumption requirement", func(t *testing.T) {
		e, _, err := ParseRule(ctx, "test", "42 then", RuleExpr)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		if !e.Equal(NewLit("42")) {
			t.Errorf("got %s, want 42", e)
		}
	})
}

func TestParseReader(t *testing.T) {
	e, err := ParseReader(
		context.Background(),
		"reader",
		strings.NewReader("{ x = 1; }"),
	)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := NewAttrSet(false, NewAssign(ScopedIdent{"x"}, NewLit("1")))
	if !e.Equal(want) {
		t.Errorf("got %s, want %s", e, want)
	}
}

func BenchmarkParseString(b *testing.B) {
	const input = `
		let
		  version = "2";
		  src = http://example.com/release-2.tar.gz;
		in
		{ stdenv, lib, ... } @ args:
		  if args ? debug
		  then stdenv.mkDerivation { inherit src version; doCheck = true; }
		  else stdenv.mkDerivation { inherit src version; }
	`

	b.ReportAllocs()

	for b.Loop() {
		_, err := ParseString(context.Background(), "bench", input)
		if err != nil {
			b.Fatal(err)
		}
	}
}

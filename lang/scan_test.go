package lang

import "testing"

func TestIdent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
		pos   int
	}{
		{name: "simple", input: "foo", want: "foo", ok: true, pos: 3},
		{name: "underscore start", input: "_x1", want: "_x1", ok: true, pos: 3},
		{name: "embedded hyphen", input: "foo-bar", want: "foo-bar", ok: true, pos: 7},
		{name: "hyphen before arrow stops", input: "a->b", want: "a", ok: true, pos: 1},
		{name: "trailing hyphen stops", input: "a- ", want: "a", ok: true, pos: 1},
		{name: "digits continue", input: "v2ray", want: "v2ray", ok: true, pos: 5},
		{name: "leading space skipped", input: "  x", want: "x", ok: true, pos: 3},
		{name: "reserved word rejected", input: "let", ok: false, pos: 0},
		{name: "reserved prefix accepted", input: "lets", want: "lets", ok: true, pos: 4},
		{name: "digit start rejected", input: "2x", ok: false, pos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser("test", tt.input)

			got, ok := p.ident()
			if ok != tt.ok || got != tt.want {
				t.Errorf("ident() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}

			if p.pos != tt.pos {
				t.Errorf("cursor at %d, want %d", p.pos, tt.pos)
			}
		})
	}
}

func TestOp_MaximalMunch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		op    string
		ok    bool
	}{
		{name: "single equals is not double", input: "== b", op: "=", ok: false},
		{name: "double equals matches", input: "== b", op: "==", ok: true},
		{name: "slash is not union", input: "// b", op: "/", ok: false},
		{name: "plus is not concat", input: "++ b", op: "+", ok: false},
		{name: "plus alone matches", input: "+ b", op: "+", ok: true},
		{name: "bang is not inequality", input: "!= b", op: "!", ok: false},
		{name: "arrow matches", input: "->b", op: "->", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser("test", tt.input)

			if got := p.op(tt.op); got != tt.ok {
				t.Errorf("op(%q) on %q = %v, want %v", tt.op, tt.input, got, tt.ok)
			}

			if !tt.ok && p.pos != 0 {
				t.Errorf("failed match moved cursor to %d", p.pos)
			}
		})
	}
}

func TestWord_Boundary(t *testing.T) {
	p := newParser("test", "lets go")
	if p.word("let") {
		t.Error(`word("let") matched inside "lets"`)
	}

	if p.pos != 0 {
		t.Errorf("failed match moved cursor to %d", p.pos)
	}

	p = newParser("test", "let x")
	if !p.word("let") {
		t.Error(`word("let") did not match "let x"`)
	}
}

func TestSkipSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
		line  int
	}{
		{name: "plain whitespace", input: "  \t x", pos: 4, line: 1},
		{name: "newlines counted", input: "\n\n x", pos: 3, line: 3},
		{name: "line comment", input: "# hi\nx", pos: 5, line: 2},
		{name: "block comment", input: "/* hi */x", pos: 8, line: 1},
		{name: "block comment does not nest", input: "/* a /* b */x", pos: 12, line: 1},
		{name: "mixed runs", input: " # a\n /* b */ x", pos: 14, line: 2},
		{name: "unclosed line comment at eof", input: "# tail", pos: 6, line: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser("test", tt.input)
			p.skipSpace()

			if p.pos != tt.pos || p.line != tt.line {
				t.Errorf("cursor at %d line %d, want %d line %d",
					p.pos, p.line, tt.pos, tt.line)
			}
		})
	}
}

func TestStringLit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "empty", input: `""`, want: "", ok: true},
		{name: "plain", input: `"abc"`, want: "abc", ok: true},
		{name: "escaped quote", input: `"a\"b"`, want: `a"b`, ok: true},
		{name: "escaped backslash", input: `"a\\b"`, want: `a\b`, ok: true},
		{name: "newline escape", input: `"a\nb"`, want: "a\nb", ok: true},
		{name: "tab escape", input: `"a\tb"`, want: "a\tb", ok: true},
		{name: "unknown escape passes through", input: `"a\qb"`, want: "aqb", ok: true},
		{name: "unterminated", input: `"abc`, ok: false},
		{name: "not a string", input: `abc`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser("test", tt.input)

			got, ok := p.stringLit()
			if ok != tt.ok || got != tt.want {
				t.Errorf("stringLit() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIndentedLit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "plain", input: "''abc''", want: "abc", ok: true},
		{name: "single quote inside", input: "''it's''", want: "it's", ok: true},
		{name: "multiline", input: "''a\nb''", want: "a\nb", ok: true},
		{name: "double quotes inside", input: `''say "hi"''`, want: `say "hi"`, ok: true},
		{name: "unterminated", input: "''abc", ok: false},
		{name: "not indented", input: `"abc"`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser("test", tt.input)

			got, ok := p.indentedLit()
			if ok != tt.ok || got != tt.want {
				t.Errorf("indentedLit() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFail_TracksDeepest(t *testing.T) {
	p := newParser("test", "ab")

	p.fail("first")

	p.advance()
	p.fail("deeper")
	p.fail("also")
	p.fail("also") // duplicates collapse

	if p.deep.pos != 1 {
		t.Fatalf("deepest failure at %d, want 1", p.deep.pos)
	}

	if len(p.deep.expected) != 2 ||
		p.deep.expected[0] != "deeper" || p.deep.expected[1] != "also" {
		t.Errorf("expected set = %v, want [deeper also]", p.deep.expected)
	}

	// Shallower failures after backtracking must not erase the record.
	p.reset(mark{pos: 0, line: 1, col: 1})
	p.fail("shallow")

	if p.deep.pos != 1 {
		t.Errorf("shallow failure overwrote deepest at %d", p.deep.pos)
	}
}

func TestIdent_ReservedFailsAtTokenStart(t *testing.T) {
	p := newParser("test", "  let x")

	if _, ok := p.ident(); ok {
		t.Fatal("reserved word accepted as identifier")
	}

	// The cursor must be fully restored and the failure recorded where the
	// word begins, not where its last character ended.
	if p.pos != 0 {
		t.Errorf("cursor at %d after rejection, want 0", p.pos)
	}

	if p.deep.pos != 2 || p.deep.col != 3 {
		t.Errorf("failure recorded at offset %d col %d, want offset 2 col 3",
			p.deep.pos, p.deep.col)
	}
}

func TestWithSyntax(t *testing.T) {
	syn := NewSyntax(
		"//", "(*", "*)",
		[]string{"where"},
		"+*",
		[]string{"+", "*", "**"},
	)

	if !syn.IsReserved("where") {
		t.Error("where not reserved")
	}

	if syn.IsReserved("let") {
		t.Error("let reserved under custom syntax")
	}

	// Operators re-sorted longest first regardless of input order.
	if syn.Operators[0] != "**" {
		t.Errorf("operators not sorted by length: %v", syn.Operators)
	}

	p := newParser("test", "// comment\nx", WithSyntax(syn))
	p.skipSpace()

	if p.line != 2 {
		t.Errorf("custom line comment not skipped, at line %d", p.line)
	}
}

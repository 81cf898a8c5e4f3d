package lang

import (
	"context"
	"testing"
)

func TestURILiteral_Accept(t *testing.T) {
	tests := []string{
		"http://example.com",
		"http://example.com/a?b=c",
		"https://example.com/path/to/file.tar.gz",
		"ftp://user@host.org:21/pub",
		"http://127.0.0.1:8080/x",
		"file:///tmp/x",
		"mailto:user@example.com",
		"a:b",
		"./a/b",
		"../up/x",
		"./mod.nix",
		"/abs/path",
		"/etc/passwd",
		"x86%5f64/linux",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			e, n, err := ParseRule(context.Background(), "test", input, RuleURI)
			if err != nil {
				t.Fatalf("rejected: %v", err)
			}

			if n != len(input) {
				t.Fatalf("consumed %d of %d bytes", n, len(input))
			}

			if !e.Equal(NewLit(input)) {
				t.Errorf("got %s, want literal %q", e, input)
			}
		})
	}
}

func TestURILiteral_Reject(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		// A relative URI without a path separator would swallow every
		// identifier, so bare words and dotted names must fall through.
		{name: "bare word", input: "foo"},
		{name: "dotted name", input: "a.b"},
		{name: "dotted address", input: "127.0.0.1"},
		{name: "empty", input: ""},
		{name: "query only", input: "?b=c"},
		{name: "colon first", input: ":nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseRule(
				context.Background(), "test", tt.input, RuleURI,
			); err == nil {
				t.Errorf("accepted %q as uri", tt.input)
			}
		})
	}
}

func TestURILiteral_Partial(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		// The literal stops at the first character outside the grammar;
		// the remainder belongs to the surrounding expression.
		{input: "http://example.com and more", text: "http://example.com"},
		{input: "./mod.nix; x", text: "./mod.nix"},
		{input: "a:b)", text: "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, n, err := ParseRule(context.Background(), "test", tt.input, RuleURI)
			if err != nil {
				t.Fatalf("rejected: %v", err)
			}

			if n != len(tt.text) {
				t.Errorf("consumed %d bytes, want %d", n, len(tt.text))
			}

			if !e.Equal(NewLit(tt.text)) {
				t.Errorf("got %s, want literal %q", e, tt.text)
			}
		})
	}
}

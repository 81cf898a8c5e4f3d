package lang

import (
	"sort"
	"sync"
)

// Syntax is the lexical configuration consumed by the scanner: comment
// delimiters, identifier character classes, reserved words, and the
// operator lexeme set. It is pure data; a single immutable value is
// constructed once and shared by every parse. Matching is case-sensitive.
type Syntax struct {
	// CommentLine opens a comment that runs to end of line.
	CommentLine string
	// CommentOpen and CommentClose delimit a non-nesting block comment.
	CommentOpen  string
	CommentClose string
	// ReservedWords are never accepted as plain identifiers.
	ReservedWords []string
	// OpChars is the character set operator lexemes are drawn from.
	OpChars string
	// Operators are the recognized operator lexemes, kept sorted by
	// descending length so the scanner prefers the longest match
	// (maximal munch: `==` must never tokenize as `=` `=`).
	Operators []string

	reserved map[string]struct{}
}

// defaultSyntax builds the one shared lexical configuration for the Nix
// language.
var defaultSyntax = sync.OnceValue(func() *Syntax {
	return NewSyntax(
		"#", "/*", "*/",
		[]string{
			"rec", "let", "in", "import", "with",
			"inherit", "assert", "or", "if", "then", "else",
		},
		".!{}[]+=?&|/:->",
		[]string{".", "!", "+", "++", "&&", "||", "?", "=", "//", "==", "!=", ":", "->"},
	)
})

// DefaultSyntax returns the shared lexical configuration of the Nix
// language. Callers must not mutate the returned value.
func DefaultSyntax() *Syntax { return defaultSyntax() }

// NewSyntax assembles a lexical configuration and prepares its internal
// lookup structures.
func NewSyntax(
	commentLine, commentOpen, commentClose string,
	reservedWords []string,
	opChars string,
	operators []string,
) *Syntax {
	syn := &Syntax{
		CommentLine:   commentLine,
		CommentOpen:   commentOpen,
		CommentClose:  commentClose,
		ReservedWords: reservedWords,
		OpChars:       opChars,
		Operators:     operators,
		reserved:      make(map[string]struct{}, len(reservedWords)),
	}

	for _, w := range reservedWords {
		syn.reserved[w] = struct{}{}
	}

	sort.SliceStable(syn.Operators, func(i, j int) bool {
		return len(syn.Operators[i]) > len(syn.Operators[j])
	})

	return syn
}

// IsReserved reports whether word is a reserved word.
func (syn *Syntax) IsReserved(word string) bool {
	_, ok := syn.reserved[word]

	return ok
}

// isIdentStart reports whether r can begin an identifier.
func isIdentStart(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

// isIdentCont reports whether r can continue an identifier. Identifier
// continuation adds digits and '-' to the start class.
func isIdentCont(r rune) bool {
	return isIdentStart(r) || r == '-' || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/fghibellini/language-nix/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "tree", "list", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune delimits words for completion
// purposes: whitespace, brackets, and the Nix operator characters. Hyphens
// are excluded because identifiers may contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '\n',
		'(', ')', '[', ']', '{', '}',
		'+', '*', '/', '@',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// collectIdents walks an expression tree and records every name a future
// input could plausibly reuse: identifiers, attribute paths, pattern
// fields, and let bindings.
func collectIdents(e *lang.Expr, seen map[string]struct{}) {
	if e == nil {
		return
	}

	if e.Kind == lang.KindIdent {
		seen[e.Name] = struct{}{}
	}

	if e.Binder != "" {
		seen[e.Binder] = struct{}{}
	}

	for _, f := range e.Fields {
		if f.Name != lang.Ellipsis {
			seen[f.Name] = struct{}{}
		}

		collectIdents(f.Default, seen)
	}

	for _, a := range e.Attrs {
		for _, seg := range a.Path {
			seen[seg] = struct{}{}
		}

		for _, name := range a.Names {
			seen[name] = struct{}{}
		}

		collectIdents(a.Value, seen)
	}

	for _, b := range e.Binds {
		seen[b.Name] = struct{}{}
		collectIdents(b.Value, seen)
	}

	for _, elem := range e.Elems {
		collectIdents(elem, seen)
	}

	collectIdents(e.X, seen)
	collectIdents(e.Y, seen)
	collectIdents(e.Z, seen)
}

// candidateList returns the sorted completion vocabulary for expr mode:
// the reserved words of the language plus every identifier seen in the
// session so far.
func candidateList(idents map[string]struct{}) []string {
	syn := lang.DefaultSyntax()

	names := make([]string, 0, len(syn.ReservedWords)+len(idents))
	names = append(names, syn.ReservedWords...)

	for name := range idents {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. An empty word yields no matches so the hint
// line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = candidateList(m.idents)
	}

	if word == "" || len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within the given terminal width. The selected candidate (when
// tabbing) uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchedStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlight.Render(ch))
		} else {
			b.WriteString(base.Render(ch))
		}
	}

	return b.String()
}

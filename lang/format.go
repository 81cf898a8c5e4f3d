package lang

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// String renders the expression as source text that parses back to a
// structurally equal tree. Operator nodes are fully parenthesized, so the
// output is unambiguous regardless of precedence.
func (e *Expr) String() string {
	var b strings.Builder

	writeExpr(&b, e)

	return b.String()
}

// Format writes the expression in native syntax to the writer.
func (e *Expr) Format(w io.Writer) error {
	_, err := io.WriteString(w, e.String()+"\n")

	return err
}

// FormatJSON writes the expression tree as JSON to the writer.
func (e *Expr) FormatJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(e, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(e)
	}

	if err != nil {
		return err
	}

	data = append(data, '\n')

	_, err = w.Write(data)

	return err
}

// FormatYAML writes the expression tree as YAML to the writer.
func (e *Expr) FormatYAML(w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	enc := yaml.NewEncoder(w, opts...)
	defer enc.Close()

	return enc.Encode(e)
}

func writeExpr(b *strings.Builder, e *Expr) {
	switch e.Kind {
	case KindLit:
		writeLit(b, e.Lit)

	case KindIdent:
		b.WriteString(e.Name)

	case KindAttrSet:
		if e.Recursive {
			b.WriteString("rec ")
		}

		b.WriteString("{ ")

		for _, a := range e.Attrs {
			writeAttr(b, a)
			b.WriteString("; ")
		}

		b.WriteString("}")

	case KindPattern:
		if e.Binder != "" {
			b.WriteString(e.Binder)
			b.WriteString(" @ ")
		}

		b.WriteString("{ ")

		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(f.Name)

			if f.Default != nil {
				b.WriteString(" ? ")

				// A raw-printed URI would swallow the field separator
				// on re-parse (',' is a URI character), so it needs
				// parentheses here.
				if f.Default.Kind == KindLit && !isNumberText(f.Default.Lit) &&
					isURIText(f.Default.Lit) {
					b.WriteString("(")
					writeExpr(b, f.Default)
					b.WriteString(")")
				} else {
					writeExpr(b, f.Default)
				}
			}
		}

		b.WriteString(" }")

	case KindList:
		b.WriteString("[ ")

		for _, el := range e.Elems {
			writeExpr(b, el)
			b.WriteString(" ")
		}

		b.WriteString("]")

	case KindLet:
		b.WriteString("(let ")

		for _, bind := range e.Binds {
			b.WriteString(bind.Name)
			b.WriteString(" = ")
			writeExpr(b, bind.Value)
			b.WriteString("; ")
		}

		b.WriteString("in ")
		writeExpr(b, e.X)
		b.WriteString(")")

	case KindNot:
		b.WriteString("(! ")
		writeExpr(b, e.X)
		b.WriteString(")")

	case KindImport:
		b.WriteString("(import ")
		writeExpr(b, e.X)
		b.WriteString(")")

	case KindWith:
		b.WriteString("(with ")
		writeExpr(b, e.X)
		b.WriteString("; ")
		writeExpr(b, e.Y)
		b.WriteString(")")

	case KindAssert:
		b.WriteString("(assert ")
		writeExpr(b, e.X)
		b.WriteString("; ")
		writeExpr(b, e.Y)
		b.WriteString(")")

	case KindIf:
		b.WriteString("(if ")
		writeExpr(b, e.X)
		b.WriteString(" then ")
		writeExpr(b, e.Y)
		b.WriteString(" else ")
		writeExpr(b, e.Z)
		b.WriteString(")")

	case KindFun:
		b.WriteString("(")
		writeExpr(b, e.X)
		b.WriteString(": ")
		writeExpr(b, e.Y)
		b.WriteString(")")

	case KindApply:
		b.WriteString("(")
		writeExpr(b, e.X)
		b.WriteString(" ")
		writeExpr(b, e.Y)
		b.WriteString(")")

	case KindDefAttr:
		b.WriteString("(")
		writeExpr(b, e.X)
		b.WriteString(" or ")
		writeExpr(b, e.Y)
		b.WriteString(")")

	default:
		// Remaining binary operator nodes print with their lexeme.
		b.WriteString("(")
		writeExpr(b, e.X)
		b.WriteString(" ")
		b.WriteString(lexemeOf(e.Kind))
		b.WriteString(" ")
		writeExpr(b, e.Y)
		b.WriteString(")")
	}
}

func writeAttr(b *strings.Builder, a Attr) {
	if a.IsInherit() {
		b.WriteString("inherit")

		if len(a.Path) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(a.Path, "."))
			b.WriteString(")")
		}

		for _, n := range a.Names {
			b.WriteString(" ")
			b.WriteString(n)
		}

		return
	}

	writePath(b, a.Path)
	b.WriteString(" = ")
	writeExpr(b, a.Value)
}

// writePath renders an assignment path; a single component that is not a
// valid identifier is rendered as a quoted-string key.
func writePath(b *strings.Builder, path ScopedIdent) {
	if len(path) == 1 && !isValidIdent(path[0]) {
		b.WriteString(quoteLit(path[0]))

		return
	}

	b.WriteString(strings.Join(path, "."))
}

// writeLit renders a literal: numbers and URIs keep their raw spelling,
// everything else is quoted.
func writeLit(b *strings.Builder, text string) {
	if isNumberText(text) || isURIText(text) {
		b.WriteString(text)

		return
	}

	b.WriteString(quoteLit(text))
}

func isNumberText(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range text {
		if !isDigit(r) {
			return false
		}
	}

	return true
}

// isURIText reports whether text re-scans, in its entirety, as a URI
// literal.
func isURIText(text string) bool {
	p := newParser("", text)

	scanned, ok := p.uriLit()

	return ok && scanned == text && p.eof()
}

// isValidIdent reports whether s scans as one identifier lexeme.
func isValidIdent(s string) bool {
	p := newParser("", s)

	name, ok := p.ident()

	return ok && name == s && p.eof()
}

// quoteLit renders text as a double-quoted string literal.
func quoteLit(text string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range text {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

package lang

// URI literal grammar, an RFC 3986 §3 subset recognized as a primitive
// literal token. The absolute-URI attempt is tried before the relative-URI
// attempt (a `scheme:` anchor beats a bare path on ambiguous prefixes), and
// a failed attempt restores the cursor exactly so the literal alternative
// can fall back to numbers and the term parser to identifiers.
//
// One deliberate restriction keeps the grammar out of the identifier
// alternative's way: a relative URI must contain a path separator
// (relPath = relSegment absPath, with absPath mandatory), so a bare word
// like `f` is never a URI and `f x` parses as function application.

// uriLit consumes a URI literal and returns its raw text.
func (p *parser) uriLit() (string, bool) {
	m := p.mark()
	p.skipSpace()

	start := p.pos

	if p.absoluteURI() || p.relativeURI() {
		return string(p.input[start:p.pos]), true
	}

	p.fail("uri")
	p.reset(m)

	return "", false
}

// absoluteURI = scheme ":" ( hierPart | opaquePart ).
func (p *parser) absoluteURI() bool {
	m := p.mark()

	if !p.scheme() || p.peek() != ':' {
		p.reset(m)

		return false
	}

	p.advance()

	if !p.hierPart() && !p.opaquePart() {
		p.reset(m)

		return false
	}

	return true
}

// scheme = letter ( alphanumeric | "+" | "-" | "." )*.
func (p *parser) scheme() bool {
	if !isURIAlpha(p.peek()) {
		return false
	}

	p.advance()

	for !p.eof() {
		r := p.peek()
		if isURIAlnum(r) || r == '+' || r == '-' || r == '.' {
			p.advance()

			continue
		}

		break
	}

	return true
}

// hierPart = ( netPath | absPath ) ( "?" query )?.
func (p *parser) hierPart() bool {
	if !p.netPath() && !p.absPath() {
		return false
	}

	p.uriQuery()

	return true
}

// netPath = "//" authority absPath?.
func (p *parser) netPath() bool {
	m := p.mark()

	if !p.lookingAt("//") {
		return false
	}

	p.skipN(2)

	if !p.authority() {
		p.reset(m)

		return false
	}

	p.absPath()

	return true
}

// absPath = "/" pathSegments, where segments are pchar runs separated by
// "/". Segments may be empty, so a lone "/" is a valid absolute path.
func (p *parser) absPath() bool {
	if p.peek() != '/' {
		return false
	}

	p.advance()

	for !p.eof() {
		if p.peek() == '/' {
			p.advance()

			continue
		}

		if !p.pchar() {
			break
		}
	}

	return true
}

// relativeURI = ( absPath | relPath ) ( "?" query )?.
func (p *parser) relativeURI() bool {
	if !p.absPath() && !p.relPath() {
		return false
	}

	p.uriQuery()

	return true
}

// relPath = relSegment absPath. The trailing absolute path is required;
// see the package note on identifier ambiguity.
func (p *parser) relPath() bool {
	m := p.mark()

	n := 0
	for !p.eof() && p.relSegmentChar() {
		n++
	}

	if n == 0 || !p.absPath() {
		p.reset(m)

		return false
	}

	return true
}

// relSegmentChar consumes one character of a relative segment:
// unreserved, escaped, or one of "@&=+$,".
func (p *parser) relSegmentChar() bool {
	if p.escaped() {
		return true
	}

	r := p.peek()
	if isURIUnreserved(r) || isOneOf(r, "@&=+$,") {
		p.advance()

		return true
	}

	return false
}

// opaquePart = uricNoSlash uric*.
func (p *parser) opaquePart() bool {
	if p.peek() == '/' || !p.uric() {
		return false
	}

	for !p.eof() && p.uric() {
	}

	return true
}

// authority = server | regName. A server may be empty, so authority always
// succeeds; the regName alternative is subsumed by the host production.
func (p *parser) authority() bool {
	p.server()

	return true
}

// server = ( ( userinfo "@" )? hostport )?.
func (p *parser) server() bool {
	p.userinfo()
	p.hostport()

	return true
}

// userinfo = ( unreserved | escaped | ":&=+$," )* "@". The terminating "@"
// is required; without it the whole production backtracks.
func (p *parser) userinfo() bool {
	m := p.mark()

	for !p.eof() {
		if p.escaped() {
			continue
		}

		r := p.peek()
		if isURIUnreserved(r) || isOneOf(r, ":&=+$,") {
			p.advance()

			continue
		}

		break
	}

	if p.peek() != '@' {
		p.reset(m)

		return false
	}

	p.advance()

	return true
}

// hostport = host ( ":" port )?.
func (p *parser) hostport() bool {
	if !p.host() {
		return false
	}

	if p.peek() == ':' {
		p.advance()

		for !p.eof() && isDigit(p.peek()) {
			p.advance()
		}
	}

	return true
}

// host = ipv4address | hostname. The address form is tried first since a
// leading digit run would otherwise be consumed as a domain label.
func (p *parser) host() bool {
	return p.ipv4address() || p.hostname()
}

// ipv4address = four dot-separated digit runs, not range-checked.
func (p *parser) ipv4address() bool {
	m := p.mark()

	for i := range 4 {
		if i > 0 {
			if p.peek() != '.' {
				p.reset(m)

				return false
			}

			p.advance()
		}

		if !isDigit(p.peek()) {
			p.reset(m)

			return false
		}

		for !p.eof() && isDigit(p.peek()) {
			p.advance()
		}
	}

	return true
}

// hostname = ( label "." )* toplabel "."?. Labels are alphanumeric runs
// with embedded hyphens; the final label (the toplabel) must begin with a
// letter.
func (p *parser) hostname() bool {
	m := p.mark()

	last := ""
	count := 0

	for {
		lm := p.mark()

		label, ok := p.domainLabel()
		if !ok {
			p.reset(lm)

			break
		}

		last = label
		count++

		if p.peek() != '.' {
			break
		}

		p.advance()
	}

	if count == 0 || !isURIAlpha(rune(last[0])) {
		p.reset(m)

		return false
	}

	return true
}

// domainLabel = alphanumeric ( alphanumeric | "-" )*, never ending in "-".
func (p *parser) domainLabel() (string, bool) {
	if !isURIAlnum(p.peek()) {
		return "", false
	}

	start := p.pos
	p.advance()

	for !p.eof() {
		r := p.peek()
		if isURIAlnum(r) {
			p.advance()

			continue
		}

		// A hyphen continues the label only when more label follows.
		if r == '-' && isURIAlnum(p.peekAt(1)) {
			p.advance()

			continue
		}

		break
	}

	return string(p.input[start:p.pos]), true
}

// uriQuery = "?" uric*.
func (p *parser) uriQuery() bool {
	if p.peek() != '?' {
		return false
	}

	p.advance()

	for !p.eof() && p.uric() {
	}

	return true
}

// pchar = unreserved | escaped | ":@&=+$,".
func (p *parser) pchar() bool {
	if p.escaped() {
		return true
	}

	r := p.peek()
	if isURIUnreserved(r) || isOneOf(r, ":@&=+$,") {
		p.advance()

		return true
	}

	return false
}

// uric = reserved | unreserved | escaped.
func (p *parser) uric() bool {
	if p.escaped() {
		return true
	}

	r := p.peek()
	if isURIUnreserved(r) || isURIReserved(r) {
		p.advance()

		return true
	}

	return false
}

// escaped = "%" hex hex, consumed as a unit.
func (p *parser) escaped() bool {
	if p.peek() != '%' || !isHex(p.peekAt(1)) || !isHex(p.peekAt(2)) {
		return false
	}

	p.skipN(3)

	return true
}

// Character classes (ASCII only; multibyte runes are never URI characters).

func isURIAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isURIAlnum(r rune) bool {
	return isURIAlpha(r) || r >= '0' && r <= '9'
}

// isURIUnreserved: alphanumerics and the mark characters -_.!~*'.
func isURIUnreserved(r rune) bool {
	if isURIAlnum(r) {
		return true
	}

	switch r {
	case '-', '_', '.', '!', '~', '*', '\'':
		return true
	}

	return false
}

// isURIReserved: the characters /?:@&=+$,.
func isURIReserved(r rune) bool {
	switch r {
	case '/', '?', ':', '@', '&', '=', '+', '$', ',':
		return true
	}

	return false
}

func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func isOneOf(r rune, set string) bool {
	for _, c := range set {
		if r == c {
			return true
		}
	}

	return false
}

package curves

import (
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real literal.
	tokenNum
	// tokenIdent is a variable, constant, or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is a function argument separator.
	tokenSep
)

var tokenNames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenIdent: "Ident",
	tokenOp:    "Op",
	tokenOpen:  "Open",
	tokenClose: "Close",
	tokenSep:   "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that the bracket at rune index k in OpenBrackets is
// matched with the bracket at rune index k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func runestrs(s string) []string {
	v := make([]string, 0, len(s))
	for _, r := range s {
		v = append(v, string(r))
	}
	return v
}

var (
	operstrs      = runestrs(Operators)
	openbrackets  = runestrs(OpenBrackets)
	closebrackets = runestrs(CloseBrackets)
)

// runeidx is strings.IndexRune counted in runes rather than bytes.
func runeidx(s string, r rune) int {
	i := 0
	for _, c := range s {
		if c == r {
			return i
		}
		i++
	}
	return -1
}

// lexer scans tokens from the runes of an expression. Positions are 0-based
// rune offsets into the source.
type lexer struct {
	src []rune
	off int
	buf strings.Builder
	p   lexToken
}

func lex(src string) *lexer {
	return &lexer{src: []rune(src)}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("curves: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("curves: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// rewind discards any pushed token and resumes scanning at the start of tok.
func (l *lexer) rewind(tok lexToken) {
	l.p = lexToken{}
	l.off = tok.pos
}

// peek returns the rune k positions ahead of the read offset, or -1 past the
// end of the input.
func (l *lexer) peek(k int) rune {
	if l.off+k >= len(l.src) {
		return -1
	}
	return l.src[l.off+k]
}

// next scans the next token from the input. At the end of the input, the
// result is an EOF token positioned just past the last rune; scanning again
// keeps returning EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	defer l.buf.Reset()
	for l.off < len(l.src) && unicode.IsSpace(l.src[l.off]) {
		l.off++
	}
	tok := lexToken{pos: l.off}
	if l.off >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r := l.src[l.off]
	switch {
	case '0' <= r && r <= '9', r == '.':
		if err := l.scanNum(); err != nil {
			return tok, err
		}
		tok.text = l.buf.String()
		tok.kind = tokenNum
		return tok, nil
	case r == '_', unicode.IsLetter(r):
		l.scanIdent()
		tok.text = l.buf.String()
		tok.kind = tokenIdent
		return tok, nil
	case r == ',':
		l.off++
		tok.text = ","
		tok.kind = tokenSep
		return tok, nil
	}
	l.off++
	if k := runeidx(Operators, r); k >= 0 {
		tok.text = operstrs[k]
		tok.kind = tokenOp
		return tok, nil
	}
	if k := runeidx(OpenBrackets, r); k >= 0 {
		tok.text = openbrackets[k]
		tok.kind = tokenOpen
		return tok, nil
	}
	if k := runeidx(CloseBrackets, r); k >= 0 {
		tok.text = closebrackets[k]
		tok.kind = tokenClose
		return tok, nil
	}
	// Write the rune so that it shows up in the error message.
	l.buf.WriteRune(r)
	return tok, l.error(tok.pos, "invalid character")
}

// scanNum scans a decimal literal with an optional exponent. A letter ends the
// number rather than invalidating it, so that 2x lexes as 2 followed by x. An
// e or E is only an exponent marker when digits follow it.
func (l *lexer) scanNum() error {
	start := l.off
	var dig, dot bool
	for l.off < len(l.src) {
		r := l.src[l.off]
		switch {
		case '0' <= r && r <= '9':
			dig = true
		case r == '.':
			if dot {
				l.buf.WriteRune(r)
				return l.error(start, "malformed number")
			}
			dot = true
		case r == 'e' || r == 'E':
			k := 1
			if s := l.peek(1); s == '+' || s == '-' {
				k = 2
			}
			if d := l.peek(k); !dig || d < '0' || d > '9' {
				// Not an exponent; e is the start of the next term.
				return l.endNum(start, dig)
			}
			for i := 0; i < k; i++ {
				l.buf.WriteRune(l.src[l.off])
				l.off++
			}
			for l.off < len(l.src) && '0' <= l.src[l.off] && l.src[l.off] <= '9' {
				l.buf.WriteRune(l.src[l.off])
				l.off++
			}
			if l.off < len(l.src) && l.src[l.off] == '.' {
				l.buf.WriteRune('.')
				return l.error(start, "malformed number")
			}
			return nil
		default:
			return l.endNum(start, dig)
		}
		l.buf.WriteRune(r)
		l.off++
	}
	return l.endNum(start, dig)
}

func (l *lexer) endNum(start int, dig bool) error {
	if !dig {
		return l.error(start, "malformed number")
	}
	return nil
}

func (l *lexer) scanIdent() {
	for l.off < len(l.src) {
		r := l.src[l.off]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		l.buf.WriteRune(r)
		l.off++
	}
}

func (l *lexer) error(pos int, msg string) error {
	return &ParseError{
		Kind: UnexpectedToken,
		Pos:  pos,
		Text: l.buf.String(),
		msg:  msg,
	}
}

package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner turns Kestrel source text into a stream of tokens.
//
// Semicolons are inserted automatically at a newline (or EOF) that follows
// a token which may end a statement: identifiers, literals, closing
// brackets and the keywords break, continue and return.
type Scanner struct {
	source

	tok    Token
	lit    string
	kind   LitKind
	tokPos Pos

	nlsemi bool // insert ';' at the next newline or EOF
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	if nlsemi && (s.ch == '\n' || s.ch < 0) {
		s.tokPos = s.pos()
		s.tok = _Semi
		if s.ch == '\n' {
			s.lit = "newline"
			s.nextch()
		} else {
			s.lit = "EOF"
		}
		return
	}

	if s.ch == '\n' {
		s.nextch()
		goto redo
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""
		return

	case isLetter(s.ch):
		s.ident()

	case isDigit(s.ch):
		s.number()

	case s.ch == '"':
		s.stdString()

	case s.ch == '/':
		s.nextch()
		switch s.ch {
		case '/':
			s.lineComment()
			goto redo
		case '*':
			// A block comment spanning lines acts like a newline.
			if s.fullComment() && nlsemi {
				s.tokPos = s.pos()
				s.tok = _Semi
				s.lit = "newline"
				return
			}
			goto redo
		}
		s.tok, s.lit = _Div, "/"

	case isOperatorStart(s.ch):
		s.operator()

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}

	s.nlsemi = endsStatement(s.tok)
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

func endsStatement(tok Token) bool {
	switch tok {
	case _Name, _Literal, _Break, _Continue, _Return, _Rparen, _Rbrack, _Rbrace:
		return true
	}
	return false
}

func (s *Scanner) ident() {
	s.startLit()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
	s.lit = s.segment()
	s.tok = LookupKeyword(s.lit)
}

// number scans an integer or floating-point literal.
func (s *Scanner) number() {
	s.startLit()
	s.kind = IntLit
	s.tok = _Literal

	if s.ch == '0' {
		s.nextch()
		base, what := 10, ""
		switch lower(s.ch) {
		case 'x':
			base, what = 16, "hex"
		case 'o':
			base, what = 8, "octal"
		case 'b':
			base, what = 2, "binary"
		}
		if base != 10 {
			s.nextch()
			if digitVal(s.ch) >= base {
				s.error("invalid " + what + " digit")
			}
			for digitVal(s.ch) < base {
				s.nextch()
			}
			if isDigit(s.ch) {
				s.error("invalid " + what + " digit")
			}
			s.lit = s.segment()
			return
		}
	}

	s.digits()
	if s.ch == '.' {
		s.kind = FloatLit
		s.nextch()
		s.digits()
	}
	if lower(s.ch) == 'e' {
		s.kind = FloatLit
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.digits()
	}
	s.lit = s.segment()
}

func (s *Scanner) digits() {
	for isDigit(s.ch) {
		s.nextch()
	}
}

// stdString scans a double-quoted string literal. The literal value is the
// decoded content with escape sequences interpreted.
func (s *Scanner) stdString() {
	s.nextch()
	var b strings.Builder
	s.tok = _Literal
	s.kind = StringLit

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			return
		case s.ch == '\\':
			if r, ok := s.escape(); ok {
				b.WriteRune(r)
			}
		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = b.String()
			return
		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

var simpleEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'0':  0,
}

func (s *Scanner) escape() (rune, bool) {
	s.nextch()
	if r, ok := simpleEscapes[s.ch]; ok {
		s.nextch()
		return r, true
	}
	if s.ch != 'x' {
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
	s.nextch()
	var val rune
	for i := 0; i < 2; i++ {
		d := digitVal(s.ch)
		if d >= 16 {
			s.error("invalid hex escape")
			return 0, false
		}
		val = val*16 + rune(d)
		s.nextch()
	}
	return val, true
}

// twoCharOps maps the first character of an operator to the tokens it can
// form, either alone or followed by a second character.
var twoCharOps = map[rune]struct {
	single Token
	next   map[rune]Token
}{
	'+': {_Add, nil},
	'-': {_Sub, nil},
	'*': {_Mul, nil},
	'%': {_Rem, nil},
	'^': {_Xor, nil},
	'&': {_And, map[rune]Token{'&': _AndAnd}},
	'|': {_Or, map[rune]Token{'|': _OrOr}},
	'<': {_Lss, map[rune]Token{'=': _Leq, '<': _Shl}},
	'>': {_Gtr, map[rune]Token{'=': _Geq, '>': _Shr}},
	'=': {_Assign, map[rune]Token{'=': _Eql}},
	'!': {_Not, map[rune]Token{'=': _Neq}},
	':': {_Colon, map[rune]Token{'=': _Define}},
	'(': {_Lparen, nil},
	')': {_Rparen, nil},
	'[': {_Lbrack, nil},
	']': {_Rbrack, nil},
	'{': {_Lbrace, nil},
	'}': {_Rbrace, nil},
	',': {_Comma, nil},
	';': {_Semi, nil},
	'.': {_Dot, nil},
}

// operator scans an operator or delimiter other than '/'.
func (s *Scanner) operator() {
	op := twoCharOps[s.ch]
	s.nextch()
	s.tok = op.single
	if tok, ok := op.next[s.ch]; ok {
		s.nextch()
		s.tok = tok
	}
	s.lit = s.tok.String()
}

// lineComment skips to the end of the line. The current character is the
// second '/'.
func (s *Scanner) lineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// fullComment skips a /* */ comment. The current character is the '*'.
// It reports whether the comment contained a newline.
func (s *Scanner) fullComment() bool {
	s.nextch()
	newline := false
	for s.ch >= 0 {
		if s.ch == '\n' {
			newline = true
		}
		if s.ch == '*' {
			s.nextch()
			if s.ch == '/' {
				s.nextch()
				return newline
			}
			continue
		}
		s.nextch()
	}
	s.error("comment not terminated")
	return newline
}

package syntax

import (
	"io"
	"unicode/utf8"
)

// source holds a whole Kestrel file in memory and hands it out one rune
// at a time. Identifiers and numbers are sliced straight out of buf
// between startLit and segment.
type source struct {
	buf      []byte
	filename string
	line     uint32 // 1-based
	col      uint32 // 1-based, in runes

	ch       rune // current character, -1 at EOF
	chw      int  // width of ch in bytes, 0 at EOF
	offs     int  // byte offset of the next character
	litStart int  // offset where the current segment begins, -1 if none

	errh func(line, col uint32, msg string)
}

// newSource reads all of src and positions the source on its first
// character. errh receives every lexical error; it may be nil.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{filename: filename, line: 1, ch: -1, litStart: -1, errh: errh}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		s.ch = -1
		return s
	}

	// A leading byte order mark is not part of the program text.
	if len(s.buf) >= 3 && s.buf[0] == 0xEF && s.buf[1] == 0xBB && s.buf[2] == 0xBF {
		s.buf = s.buf[3:]
	}
	s.nextch()
	return s
}

// nextch advances to the next character. On return, line and col give
// the position of s.ch; a newline belongs to the line it ends.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch, s.chw = -1, 0
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	switch {
	case r == utf8.RuneError && width == 1:
		s.error("invalid UTF-8 encoding")
	case r == 0:
		s.error("invalid NUL character")
	}

	s.ch, s.chw = r, width
	s.offs += width
}

// startLit starts a segment at the current character.
func (s *source) startLit() {
	s.litStart = s.offs - s.chw
}

// segment returns the text from startLit up to, not including, the
// current character.
func (s *source) segment() string {
	lit := string(s.buf[s.litStart : s.offs-s.chw])
	s.litStart = -1
	return lit
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

// Identifiers are ASCII only.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// digitVal returns the value of r as a hex digit, or 16 if r is not one.
// Comparing against a base checks for digits of that base.
func digitVal(r rune) int {
	switch {
	case isDigit(r):
		return int(r - '0')
	case 'a' <= lower(r) && lower(r) <= 'f':
		return int(lower(r) - 'a' + 10)
	}
	return 16
}

// lower maps ASCII upper-case letters to lower case. Other runes may be
// altered too, so only compare the result against lower-case letters.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// Newlines are not whitespace: they may end a statement.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// isOperatorStart reports whether r can start an operator or delimiter.
// '/' is handled by the scanner directly since it may open a comment.
func isOperatorStart(r rune) bool {
	_, ok := twoCharOps[r]
	return ok
}

// Package syntax implements lexical and syntactic analysis for the Kestrel programming language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error

	// Literals
	_Name    // identifier: foo, IOError, NOT_FOUND
	_Literal // literal value (used with LitKind)

	// Operators (ordered by precedence, low to high)
	// Assignment
	_Assign // =
	_Define // :=

	// Logical operators
	_OrOr   // ||
	_AndAnd // &&

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Arithmetic operators (additive)
	_Add // +
	_Sub // -
	_Or  // |
	_Xor // ^

	// Arithmetic operators (multiplicative)
	_Mul // *
	_Div // /
	_Rem // %
	_And // &
	_Shl // <<
	_Shr // >>

	// Unary operators
	_Not // !

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :
	_Dot    // .

	// Keywords
	_Break
	_Case
	_Catch
	_Continue
	_Default
	_Else
	_Errordomain
	_Finally
	_For
	_Func
	_If
	_In
	_Out
	_Package
	_Return
	_Switch
	_Throw
	_Throws
	_Try
	_Var

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_Define: ":=",

	_OrOr:   "||",
	_AndAnd: "&&",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",
	_Or:  "|",
	_Xor: "^",

	_Mul: "*",
	_Div: "/",
	_Rem: "%",
	_And: "&",
	_Shl: "<<",
	_Shr: ">>",

	_Not: "!",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",
	_Dot:    ".",

	_Break:       "break",
	_Case:        "case",
	_Catch:       "catch",
	_Continue:    "continue",
	_Default:     "default",
	_Else:        "else",
	_Errordomain: "errordomain",
	_Finally:     "finally",
	_For:         "for",
	_Func:        "func",
	_If:          "if",
	_In:          "in",
	_Out:         "out",
	_Package:     "package",
	_Return:      "return",
	_Switch:      "switch",
	_Throw:       "throw",
	_Throws:      "throws",
	_Try:         "try",
	_Var:         "var",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the operator precedence for binary operators.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: ||
//	2: &&
//	3: == != < <= > >=
//	4: + - | ^
//	5: * / % & << >>
func (t Token) Precedence() int {
	switch t {
	case _OrOr:
		return 1
	case _AndAnd:
		return 2
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq:
		return 3
	case _Add, _Sub, _Or, _Xor:
		return 4
	case _Mul, _Div, _Rem, _And, _Shl, _Shr:
		return 5
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Break && t <= _Var
}

// IsLiteral reports whether t is a literal token.
func (t Token) IsLiteral() bool {
	return t == _Literal
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Not
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// IsDefine reports whether t is the define operator (:=).
func (t Token) IsDefine() bool {
	return t == _Define
}

// IsAssign reports whether t is the assignment operator (=).
func (t Token) IsAssign() bool {
	return t == _Assign
}

// IsBreak reports whether t is the break keyword.
func (t Token) IsBreak() bool {
	return t == _Break
}

// IsContinue reports whether t is the continue keyword.
func (t Token) IsContinue() bool {
	return t == _Continue
}

// Exported tokens for packages that build or inspect syntax trees.
const (
	Not      Token = _Not      // !
	Sub      Token = _Sub      // -
	Assign   Token = _Assign   // =
	Define   Token = _Define   // :=
	Break    Token = _Break    // break
	Continue Token = _Continue // continue
)

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 123, 0x1F, 0o77, 0b1010
	FloatLit                 // 3.14, 1e10, 2.5e-3
	StringLit                // "hello", "line\n"
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:    "int",
	FloatLit:  "float",
	StringLit: "string",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Pre-declared identifiers (int, bool, true, false, print, Error) are not
// keywords; they are scanned as _Name and bound in the Universe scope.
var keywords = map[string]Token{
	"break":       _Break,
	"case":        _Case,
	"catch":       _Catch,
	"continue":    _Continue,
	"default":     _Default,
	"else":        _Else,
	"errordomain": _Errordomain,
	"finally":     _Finally,
	"for":         _For,
	"func":        _Func,
	"if":          _If,
	"in":          _In,
	"out":         _Out,
	"package":     _Package,
	"return":      _Return,
	"switch":      _Switch,
	"throw":       _Throw,
	"throws":      _Throws,
	"try":         _Try,
	"var":         _Var,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

package syntax

import "io"

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis on Kestrel source code.
type Parser struct {
	scanner *Scanner

	tok Token
	lit string
	pos Pos

	errh   func(pos Pos, msg string)
	errcnt int
	first  error
	abort  bool
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	scanErrh := func(line, col uint32, msg string) {
		if errh != nil {
			errh(NewPos(filename, line, col), msg)
		}
	}

	p := &Parser{
		scanner: NewScanner(filename, src, scanErrh),
		errh:    errh,
	}
	p.next()
	return p
}

// Parse is a convenience wrapper that parses a whole file and returns the
// AST together with the first error, if any.
func Parse(filename string, src io.Reader, errh func(pos Pos, msg string)) (*File, error) {
	p := NewParser(filename, src, errh)
	f := p.Parse()
	return f, p.FirstError()
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
		p.advance()
	}
}

// expect is like want but returns the position of the expected token.
func (p *Parser) expect(tok Token) Pos {
	pos := p.pos
	p.want(tok)
	return pos
}

// semi consumes a statement terminator. It may be omitted before a
// closing "}".
func (p *Parser) semi() {
	if p.tok == _Rbrace {
		return
	}
	p.want(_Semi)
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}

	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
		p.tok = _EOF
	}
}

// stopset lists the tokens at which error recovery resumes.
var stopset = map[Token]bool{
	_Semi:        true,
	_Rbrace:      true,
	_Rparen:      true,
	_Rbrack:      true,
	_Package:     true,
	_Errordomain: true,
	_Var:         true,
	_Func:        true,
	_If:          true,
	_For:         true,
	_Switch:      true,
	_Try:         true,
	_Throw:       true,
	_Return:      true,
	_Break:       true,
	_Continue:    true,
	_EOF:         true,
}

// advance skips tokens until it finds a synchronization point.
func (p *Parser) advance() {
	for !stopset[p.tok] {
		p.next()
	}
	// Consume the sync point to avoid repeated errors at the same position.
	if p.tok != _EOF {
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST.
func (p *Parser) Parse() *File {
	f := &File{}
	f.pos = p.pos

	p.want(_Package)
	f.PkgName = p.name()
	p.want(_Semi)

	for !p.abort && p.tok != _EOF {
		if p.got(_Semi) {
			continue
		}
		if d := p.decl(); d != nil {
			f.Decls = append(f.Decls, d)
		}
	}

	return f
}

func (p *Parser) name() *Name {
	n := &Name{Value: "_"}
	n.pos = p.pos
	if p.tok != _Name {
		p.syntaxError("expected identifier")
		return n
	}
	n.Value = p.lit
	p.next()
	return n
}

// ----------------------------------------------------------------------------
// Top-level declarations

func (p *Parser) decl() Decl {
	switch p.tok {
	case _Errordomain:
		return p.errorDomainDecl()
	case _Var:
		return p.varDecl()
	case _Func:
		return p.funcDecl()
	}
	p.syntaxError("expected declaration")
	p.advance()
	return nil
}

// errorDomainDecl parses: errordomain Name { CODE, CODE ... }
// Codes may be separated by commas or newlines.
func (p *Parser) errorDomainDecl() *ErrorDomainDecl {
	d := &ErrorDomainDecl{}
	d.pos = p.pos

	p.want(_Errordomain)
	d.Name = p.name()
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		d.Codes = append(d.Codes, p.name())
		if !p.got(_Comma) && !p.got(_Semi) {
			break
		}
	}
	p.want(_Rbrace)
	p.semi()
	return d
}

// varDecl parses: var Name [Type] [= Value]
func (p *Parser) varDecl() *VarDecl {
	d := &VarDecl{}
	d.pos = p.pos

	p.want(_Var)
	d.Name = p.name()
	if p.tok != _Assign {
		d.Type = p.type_()
	}
	if p.got(_Assign) {
		d.Value = p.expr()
	}
	p.semi()
	return d
}

// funcDecl parses: func Name(params) [Result] [throws T, ...] { body }
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{}
	d.pos = p.pos

	p.want(_Func)
	d.Name = p.name()
	d.Params = p.paramList()

	if p.tok != _Lbrace && p.tok != _Throws {
		d.Result = p.type_()
	}
	if p.got(_Throws) {
		d.Throws = append(d.Throws, p.qualifiedName())
		for p.got(_Comma) {
			d.Throws = append(d.Throws, p.qualifiedName())
		}
	}

	d.Body = p.blockStmt()
	p.semi()
	return d
}

func (p *Parser) paramList() []*Field {
	p.want(_Lparen)
	var params []*Field
	for p.tok != _Rparen && p.tok != _EOF {
		f := &Field{}
		f.pos = p.pos
		f.Out = p.got(_Out)
		f.Name = p.name()
		f.Type = p.type_()
		params = append(params, f)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return params
}

// type_ parses a type expression: Name or []Elem.
func (p *Parser) type_() Expr {
	switch p.tok {
	case _Name:
		return p.name()
	case _Lbrack:
		t := &SliceType{}
		t.pos = p.pos
		p.next()
		p.want(_Rbrack)
		t.Elem = p.type_()
		return t
	}
	p.syntaxError("expected type")
	n := &Name{Value: "_"}
	n.pos = p.pos
	return n
}

// qualifiedName parses Name or Name.Name, as used for error types.
func (p *Parser) qualifiedName() Expr {
	var x Expr = p.name()
	if p.tok == _Dot {
		x = p.selectorExpr(x)
	}
	return x
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) stmtList(stop ...Token) []Stmt {
	var list []Stmt
	for p.tok != _EOF && !p.abort {
		for _, t := range stop {
			if p.tok == t {
				return list
			}
		}
		list = append(list, p.stmt())
	}
	return list
}

func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		s := p.blockStmt()
		p.semi()
		return s

	case _If:
		s := p.ifStmt()
		p.semi()
		return s

	case _For:
		s := p.forStmt()
		p.semi()
		return s

	case _Switch:
		return p.switchStmt()

	case _Try:
		return p.tryStmt()

	case _Return:
		s := &ReturnStmt{}
		s.pos = p.pos
		p.next()
		if p.tok != _Semi && p.tok != _Rbrace {
			s.Result = p.expr()
		}
		p.semi()
		return s

	case _Throw:
		s := &ThrowStmt{}
		s.pos = p.pos
		p.next()
		s.X = p.expr()
		p.semi()
		return s

	case _Break, _Continue:
		s := &BranchStmt{Tok: p.tok}
		s.pos = p.pos
		p.next()
		p.semi()
		return s

	case _Var:
		s := &DeclStmt{}
		s.pos = p.pos
		s.Decl = p.varDecl()
		return s

	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		p.next()
		return s
	}

	s := p.simpleStmt()
	p.semi()
	return s
}

// simpleStmt parses an expression statement or assignment without the
// terminating semicolon.
func (p *Parser) simpleStmt() Stmt {
	pos := p.pos
	x := p.expr()

	if p.tok == _Assign || p.tok == _Define {
		s := &AssignStmt{Op: p.tok, LHS: x}
		s.pos = pos
		p.next()
		s.RHS = p.expr()
		return s
	}

	s := &ExprStmt{X: x}
	s.pos = pos
	return s
}

func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos

	p.want(_Lbrace)
	b.Stmts = p.stmtList(_Rbrace)
	b.Rbrace = p.expect(_Rbrace)
	return b
}

// ifStmt parses: if cond { then } [else if ... | else { else }]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)
	s.Cond = p.expr()
	s.Then = p.blockStmt()

	if p.got(_Else) {
		switch p.tok {
		case _If:
			s.Else = p.ifStmt()
		case _Lbrace:
			s.Else = p.blockStmt()
		default:
			p.syntaxError("else must be followed by if or statement block")
			p.advance()
		}
	}
	return s
}

// forStmt parses the loop forms:
//
//	for { }
//	for cond { }
//	for init; cond; post { }
//	for x in xs { }
func (p *Parser) forStmt() Stmt {
	pos := p.pos
	p.want(_For)

	if p.tok == _Lbrace {
		s := &ForStmt{}
		s.pos = pos
		s.Body = p.blockStmt()
		return s
	}

	if p.tok == _Name {
		name := p.name()
		if p.got(_In) {
			s := &ForeachStmt{Var: name}
			s.pos = pos
			s.X = p.expr()
			s.Body = p.blockStmt()
			return s
		}
		return p.forClause(pos, p.continueSimpleStmt(name))
	}

	var init Stmt
	if p.tok != _Semi {
		init = p.simpleStmt()
	}
	return p.forClause(pos, init)
}

// continueSimpleStmt finishes a simple statement whose leading name has
// already been consumed.
func (p *Parser) continueSimpleStmt(name *Name) Stmt {
	x := p.binaryExprFrom(p.postfix(name), 0)

	if p.tok == _Assign || p.tok == _Define {
		s := &AssignStmt{Op: p.tok, LHS: x}
		s.pos = name.Pos()
		p.next()
		s.RHS = p.expr()
		return s
	}
	s := &ExprStmt{X: x}
	s.pos = name.Pos()
	return s
}

// forClause finishes "for cond {" or "for init; cond; post {" given the
// first simple statement (or nil if it was empty).
func (p *Parser) forClause(pos Pos, first Stmt) Stmt {
	s := &ForStmt{}
	s.pos = pos

	if p.tok == _Lbrace {
		es, ok := first.(*ExprStmt)
		if !ok {
			p.syntaxErrorAt(pos, "expected for loop condition")
		} else {
			s.Cond = es.X
		}
		s.Body = p.blockStmt()
		return s
	}

	s.Init = first
	p.want(_Semi)
	if p.tok != _Semi {
		s.Cond = p.expr()
	}
	p.want(_Semi)
	if p.tok != _Lbrace {
		s.Post = p.simpleStmt()
	}
	s.Body = p.blockStmt()
	return s
}

// switchStmt parses: switch tag { case v, w: ... default: ... }
func (p *Parser) switchStmt() Stmt {
	s := &SwitchStmt{}
	s.pos = p.pos

	p.want(_Switch)
	s.Tag = p.expr()
	p.want(_Lbrace)
	for p.tok == _Case || p.tok == _Default {
		s.Body = append(s.Body, p.caseClause())
	}
	s.Rbrace = p.expect(_Rbrace)
	p.semi()
	return s
}

func (p *Parser) caseClause() *CaseClause {
	c := &CaseClause{}
	c.pos = p.pos

	// Consecutive labels share one section: case 1: case 2: default:
	for {
		if p.got(_Default) {
			c.Default = true
		} else if p.got(_Case) {
			c.Values = append(c.Values, p.exprList()...)
		} else {
			break
		}
		p.want(_Colon)
	}
	c.Body = p.stmtList(_Case, _Default, _Rbrace)
	return c
}

// tryStmt parses: try { } catch (e T) { } ... [finally { }]
func (p *Parser) tryStmt() Stmt {
	s := &TryStmt{}
	s.pos = p.pos

	p.want(_Try)
	s.Body = p.blockStmt()
	for p.tok == _Catch {
		c := &CatchClause{}
		c.pos = p.pos
		p.next()
		if p.got(_Lparen) {
			c.Name = p.name()
			c.Type = p.qualifiedName()
			p.want(_Rparen)
		}
		c.Body = p.blockStmt()
		s.Catches = append(s.Catches, c)
	}
	if p.got(_Finally) {
		s.Finally = p.blockStmt()
	}
	if s.Catches == nil && s.Finally == nil {
		p.syntaxErrorAt(s.pos, "try statement without catch or finally")
	}
	p.semi()
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expr() Expr {
	return p.binaryExpr(0)
}

// binaryExpr parses a binary expression with minimum precedence prec.
func (p *Parser) binaryExpr(prec int) Expr {
	return p.binaryExprFrom(p.unaryExpr(), prec)
}

// binaryExprFrom continues a binary expression whose left operand x has
// already been parsed.
func (p *Parser) binaryExprFrom(x Expr, prec int) Expr {
	for {
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}
		op := &Operation{Op: p.tok, X: x}
		op.pos = x.Pos()
		p.next()
		op.Y = p.binaryExpr(oprec)
		x = op
	}
}

func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub:
		op := &Operation{Op: p.tok}
		op.pos = p.pos
		p.next()
		op.X = p.unaryExpr()
		return op
	}
	return p.postfix(p.operand())
}

// postfix parses calls, index and selector expressions following x.
func (p *Parser) postfix(x Expr) Expr {
	for {
		switch p.tok {
		case _Lparen:
			call := &CallExpr{Fun: x}
			call.pos = x.Pos()
			p.next()
			if p.tok != _Rparen {
				call.Args = p.exprList()
			}
			p.want(_Rparen)
			x = call

		case _Lbrack:
			idx := &IndexExpr{X: x}
			idx.pos = x.Pos()
			p.next()
			idx.Index = p.expr()
			p.want(_Rbrack)
			x = idx

		case _Dot:
			x = p.selectorExpr(x)

		default:
			return x
		}
	}
}

func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		return p.name()

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.scanner.LitKind()}
		lit.pos = p.pos
		p.next()
		return lit

	case _Lparen:
		paren := &ParenExpr{}
		paren.pos = p.pos
		p.next()
		paren.X = p.expr()
		p.want(_Rparen)
		return paren
	}

	p.syntaxError("expected operand")
	n := &Name{Value: "_"}
	n.pos = p.pos
	return n
}

func (p *Parser) selectorExpr(x Expr) Expr {
	sel := &SelectorExpr{X: x}
	sel.pos = x.Pos()
	p.want(_Dot)
	sel.Sel = p.name()
	return sel
}

func (p *Parser) exprList() []Expr {
	list := []Expr{p.expr()}
	for p.got(_Comma) {
		list = append(list, p.expr())
	}
	return list
}

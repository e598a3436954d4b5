package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and Declarations.
// All nodes implement the Node interface. Expression, Statement, and Declaration
// nodes further implement their respective interfaces.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node

	// Unreachable reports whether flow analysis proved the node dead.
	Unreachable() bool
	MarkUnreachable()

	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos  Pos
	dead bool
}

func (n *node) Pos() Pos          { return n.pos }
func (n *node) Unreachable() bool { return n.dead }
func (n *node) MarkUnreachable()  { n.dead = true }
func (n *node) aNode()            {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Files and Declarations

// File represents a complete source file.
type File struct {
	node
	PkgName *Name
	Decls   []Decl
}

// ErrorDomainDecl declares an error domain and its codes:
//
//	errordomain IOError { NOT_FOUND, DENIED }
type ErrorDomainDecl struct {
	decl
	Name  *Name
	Codes []*Name
}

// VarDecl represents a variable declaration: var Name Type = Value
type VarDecl struct {
	decl
	Name  *Name
	Type  Expr // nil if inferred
	Value Expr // nil if none
}

// FuncDecl represents a function declaration.
//
//	func Name(Params) Result throws Throws { Body }
type FuncDecl struct {
	decl
	Name   *Name
	Params []*Field
	Result Expr   // nil for void
	Throws []Expr // error domain names or Domain.CODE selectors
	Body   *BlockStmt
}

// Field represents a function parameter. Out parameters are written by the
// callee and are unassigned on entry.
type Field struct {
	node
	Out  bool
	Name *Name
	Type Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents a literal value (int, float, string).
type BasicLit struct {
	expr
	Value string // decoded for strings
	Kind  LitKind
}

// Operation represents a unary or binary operation.
// For unary operations, Y is nil.
type Operation struct {
	expr
	Op Token
	X  Expr
	Y  Expr
}

// CallExpr represents a function call: Fun(Args...)
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// IndexExpr represents an index expression: X[Index]
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// SelectorExpr represents a selector expression: X.Sel
// Error codes are written as selectors: IOError.NOT_FOUND.
type SelectorExpr struct {
	expr
	X   Expr
	Sel *Name
}

// ParenExpr represents a parenthesized expression: (X)
type ParenExpr struct {
	expr
	X Expr
}

// SliceType represents a slice type: []Elem
type SliceType struct {
	expr
	Elem Expr
}

// ----------------------------------------------------------------------------
// Statements

// EmptyStmt represents an empty statement (just a semicolon).
type EmptyStmt struct {
	stmt
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// AssignStmt represents an assignment: LHS = RHS or LHS := RHS
type AssignStmt struct {
	stmt
	Op  Token // _Assign or _Define
	LHS Expr
	RHS Expr
}

// DeclStmt wraps a variable declaration inside a function body.
type DeclStmt struct {
	stmt
	Decl *VarDecl
}

// BlockStmt represents a block statement: { Stmts... }
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos
}

// IfStmt represents an if statement: if Cond Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt // nil, *IfStmt, or *BlockStmt
}

// ForStmt represents the three loop forms
//
//	for { Body }
//	for Cond { Body }
//	for Init; Cond; Post { Body }
//
// A nil Cond loops forever.
type ForStmt struct {
	stmt
	Init Stmt // simple statement or nil
	Cond Expr
	Post Stmt // simple statement or nil
	Body *BlockStmt
}

// ForeachStmt iterates over a collection: for Var in X { Body }
type ForeachStmt struct {
	stmt
	Var  *Name
	X    Expr
	Body *BlockStmt
}

// SwitchStmt represents switch Tag { Body... }
type SwitchStmt struct {
	stmt
	Tag    Expr
	Body   []*CaseClause
	Rbrace Pos
}

// CaseClause is one switch section. A nil Values list with Default set is
// the default label; a section may also combine values and default.
type CaseClause struct {
	stmt
	Values  []Expr
	Default bool
	Body    []Stmt
}

// ReturnStmt represents a return statement: return [Result]
type ReturnStmt struct {
	stmt
	Result Expr
}

// BranchStmt represents a break or continue statement.
type BranchStmt struct {
	stmt
	Tok Token // _Break or _Continue
}

// ThrowStmt raises an error: throw IOError.NOT_FOUND("msg") or throw e.
type ThrowStmt struct {
	stmt
	X Expr
}

// TryStmt represents try Body catch... [finally Finally].
type TryStmt struct {
	stmt
	Body    *BlockStmt
	Catches []*CatchClause
	Finally *BlockStmt // nil if absent
}

// CatchClause handles errors of Type, binding them to Name:
//
//	catch (e IOError.NOT_FOUND) { }
//	catch (e IOError) { }
//	catch { }
//
// Name and Type are nil for the bare form, which catches everything.
type CatchClause struct {
	stmt
	Name *Name
	Type Expr
	Body *BlockStmt
}

package types

import "github.com/you-not-fish/kestrel/internal/syntax"

// Object represents a declared entity: variable, type name, function,
// builtin, constant, error domain or error code.
type Object interface {
	Name() string
	Type() Type
	Pos() syntax.Pos // declaration position
	Parent() *Scope

	setParent(*Scope)
	aObject()
}

type object struct {
	name   string
	typ    Type
	pos    syntax.Pos
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() syntax.Pos    { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// VarKind distinguishes locals from the two kinds of parameters.
type VarKind int

const (
	Local    VarKind = iota
	Param            // assigned on entry
	OutParam         // unassigned on entry, read at return
)

var varKindNames = [...]string{
	Local:    "local",
	Param:    "param",
	OutParam: "out param",
}

func (k VarKind) String() string {
	return varKindNames[k]
}

// Var represents a local variable or a parameter.
//
// Used and SingleAssignment are written by definite-assignment analysis of
// the function declaring the variable; nothing else may write them.
type Var struct {
	object
	kind VarKind

	// Used is set when any reachable read of the variable exists.
	Used bool
	// SingleAssignment is true while at most one definition of the
	// variable has been seen.
	SingleAssignment bool
}

// NewVar creates a new local variable.
func NewVar(pos syntax.Pos, name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, SingleAssignment: true}
}

// NewParam creates a new parameter; out parameters are unassigned on entry.
func NewParam(pos syntax.Pos, name string, typ Type, out bool) *Var {
	v := NewVar(pos, name, typ)
	v.kind = Param
	if out {
		v.kind = OutParam
	}
	return v
}

// Kind returns whether v is a local, parameter or out parameter.
func (v *Var) Kind() VarKind {
	return v.kind
}

// IsParam reports whether v is a parameter of either kind.
func (v *Var) IsParam() bool {
	return v.kind != Local
}

// TypeName represents a declared type name.
type TypeName struct {
	object
}

// NewTypeName creates a new type name object.
func NewTypeName(pos syntax.Pos, name string, typ Type) *TypeName {
	return &TypeName{object: object{name: name, typ: typ, pos: pos}}
}

// Func represents a declared function.
type Func struct {
	object
	decl *syntax.FuncDecl

	// EndReachable is set by flow analysis when control can fall off the
	// end of the body; code generation then emits an implicit return.
	EndReachable bool
}

// NewFunc creates a new function object. The signature is set later with
// SetSignature once parameter and result types are resolved.
func NewFunc(pos syntax.Pos, name string, decl *syntax.FuncDecl) *Func {
	return &Func{object: object{name: name, pos: pos}, decl: decl}
}

// Decl returns the declaration of f.
func (f *Func) Decl() *syntax.FuncDecl {
	return f.decl
}

// Signature returns the function type.
func (f *Func) Signature() *Signature {
	sig, _ := f.typ.(*Signature)
	return sig
}

// SetSignature sets the function type.
func (f *Func) SetSignature(sig *Signature) {
	f.typ = sig
}

// Const represents a predeclared boolean constant.
type Const struct {
	object
	val bool
}

// NewConst creates a boolean constant.
func NewConst(name string, val bool) *Const {
	return &Const{object: object{name: name, typ: Typ[Bool]}, val: val}
}

// Value returns the constant's value.
func (c *Const) Value() bool {
	return c.val
}

// BuiltinKind identifies a builtin function.
type BuiltinKind int

const (
	BuiltinPrint BuiltinKind = iota
	BuiltinLen
)

// Builtin represents a built-in function.
type Builtin struct {
	object
	kind BuiltinKind
}

// NewBuiltin creates a new builtin function object.
func NewBuiltin(name string, kind BuiltinKind) *Builtin {
	return &Builtin{object: object{name: name}, kind: kind}
}

// Kind returns the builtin function kind.
func (b *Builtin) Kind() BuiltinKind {
	return b.kind
}

package types

import "strings"

// Slice represents a slice type []Elem.
type Slice struct {
	typ
	elem Type
}

// NewSlice creates a new slice type with the given element type.
func NewSlice(elem Type) *Slice {
	return &Slice{elem: elem}
}

// Elem returns the slice element type.
func (s *Slice) Elem() Type {
	return s.elem
}

// String implements Type.
func (s *Slice) String() string {
	return "[]" + s.elem.String()
}

// Signature is the type of a function.
type Signature struct {
	typ
	params []*Var
	result Type         // nil for void
	throws []*ErrorType // declared error types, in source order
}

// NewSignature creates a function type.
func NewSignature(params []*Var, result Type, throws []*ErrorType) *Signature {
	return &Signature{params: params, result: result, throws: throws}
}

// Params returns the parameters, including out parameters.
func (s *Signature) Params() []*Var {
	return s.params
}

// Result returns the result type, or nil for void functions.
func (s *Signature) Result() Type {
	return s.result
}

// Throws returns the declared error types.
func (s *Signature) Throws() []*ErrorType {
	return s.throws
}

// String implements Type.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range s.params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.kind == OutParam {
			b.WriteString("out ")
		}
		b.WriteString(p.typ.String())
	}
	b.WriteString(")")
	if s.result != nil {
		b.WriteString(" " + s.result.String())
	}
	for i, t := range s.throws {
		if i == 0 {
			b.WriteString(" throws ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	return b.String()
}

package types

import "github.com/you-not-fish/kestrel/internal/syntax"

// ErrorDomain is a declared errordomain. Its codes are objects in their
// own right so that IOError.NOT_FOUND resolves to a unique *ErrorCode.
type ErrorDomain struct {
	object
	codes []*ErrorCode
}

// NewErrorDomain creates an error domain with no codes.
func NewErrorDomain(pos syntax.Pos, name string) *ErrorDomain {
	d := &ErrorDomain{object: object{name: name, pos: pos}}
	d.typ = &ErrorType{Domain: d}
	return d
}

// AddCode adds a code to the domain. It returns the existing code if the
// name is already taken.
func (d *ErrorDomain) AddCode(pos syntax.Pos, name string) (*ErrorCode, bool) {
	if c := d.Code(name); c != nil {
		return c, false
	}
	c := &ErrorCode{object: object{name: name, pos: pos}, domain: d}
	c.typ = &ErrorType{Domain: d, Code: c}
	d.codes = append(d.codes, c)
	return c, true
}

// Code returns the code with the given name, or nil.
func (d *ErrorDomain) Code(name string) *ErrorCode {
	for _, c := range d.codes {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Codes returns the codes in declaration order.
func (d *ErrorDomain) Codes() []*ErrorCode {
	return d.codes
}

// ErrorCode is one code of an error domain.
type ErrorCode struct {
	object
	domain *ErrorDomain
}

// Domain returns the domain the code belongs to.
func (c *ErrorCode) Domain() *ErrorDomain {
	return c.domain
}

// ErrorType describes a set of errors. A nil Domain means any error; a
// nil Code means any code of Domain.
type ErrorType struct {
	typ
	Domain *ErrorDomain
	Code   *ErrorCode
}

// AnyError is the type of the predeclared Error name, matching every error.
var AnyError = &ErrorType{}

// String implements Type.
func (t *ErrorType) String() string {
	switch {
	case t.Domain == nil:
		return "Error"
	case t.Code == nil:
		return t.Domain.name
	}
	return t.Domain.name + "." + t.Code.name
}

// Covers reports whether every error of type u is also of type t.
//
//	Error       covers everything
//	IOError     covers IOError and IOError.X
//	IOError.X   covers only IOError.X
func (t *ErrorType) Covers(u *ErrorType) bool {
	if t.Domain == nil {
		return true
	}
	return t.Domain == u.Domain && (t.Code == nil || t.Code == u.Code)
}

// Overlaps reports whether some error is of both types t and u.
func (t *ErrorType) Overlaps(u *ErrorType) bool {
	return t.Covers(u) || u.Covers(t)
}

// Same reports whether t and u denote the same domain and code.
func (t *ErrorType) Same(u *ErrorType) bool {
	return t.Domain == u.Domain && t.Code == u.Code
}

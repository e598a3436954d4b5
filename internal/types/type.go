// Package types defines the objects, scopes and types shared by name
// resolution and flow analysis of Kestrel programs.
// It has no dependency on the resolver; syntax is used only for positions.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns a human-readable representation of the type.
	String() string

	aType()
}

type typ struct{}

func (typ) aType() {}

package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota
	Bool
	Int
	Float
	String
)

// Basic represents a predeclared scalar type.
type Basic struct {
	typ
	kind BasicKind
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
var Typ = []*Basic{
	Invalid: {kind: Invalid, name: "invalid type"},
	Bool:    {kind: Bool, name: "bool"},
	Int:     {kind: Int, name: "int"},
	Float:   {kind: Float, name: "float"},
	String:  {kind: String, name: "string"},
}

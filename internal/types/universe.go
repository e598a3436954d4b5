package types

import "github.com/you-not-fish/kestrel/internal/syntax"

// Universe is the root scope containing all predeclared objects:
//
//	types     bool int float string Error
//	constants true false
//	builtins  print len
var Universe *Scope

var (
	universeTrue  *Const
	universeFalse *Const
)

func init() {
	Universe = NewScope(nil, syntax.NoPos, syntax.NoPos, UniverseScope, "")

	for _, kind := range []BasicKind{Bool, Int, Float, String} {
		Universe.Insert(NewTypeName(syntax.NoPos, Typ[kind].name, Typ[kind]))
	}
	Universe.Insert(NewTypeName(syntax.NoPos, "Error", AnyError))

	universeTrue = NewConst("true", true)
	universeFalse = NewConst("false", false)
	Universe.Insert(universeTrue)
	Universe.Insert(universeFalse)

	Universe.Insert(NewBuiltin("print", BuiltinPrint))
	Universe.Insert(NewBuiltin("len", BuiltinLen))
}

// UniverseTrue returns the predeclared constant true.
func UniverseTrue() *Const { return universeTrue }

// UniverseFalse returns the predeclared constant false.
func UniverseFalse() *Const { return universeFalse }

package types

import (
	"strings"
	"testing"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

func testScope(parent *Scope, kind ScopeKind, name string) *Scope {
	return NewScope(parent, syntax.NoPos, syntax.NoPos, kind, name)
}

func TestScopeInsertAndLookup(t *testing.T) {
	scope := testScope(nil, BlockScope, "")

	x := NewVar(syntax.NoPos, "x", Typ[Int])
	if existing := scope.Insert(x); existing != nil {
		t.Errorf("Insert() = %v for first insert, want nil", existing)
	}
	if scope.Lookup("x") != x {
		t.Errorf("Lookup() did not return inserted object")
	}
	if x.Parent() != scope {
		t.Errorf("Parent() not set by Insert")
	}

	dup := NewVar(syntax.NoPos, "x", Typ[Float])
	if existing := scope.Insert(dup); existing != x {
		t.Errorf("Insert() of duplicate = %v, want first object", existing)
	}
}

func TestScopeLookupParent(t *testing.T) {
	fn := testScope(Universe, FuncScope, "f")
	block := testScope(fn, BlockScope, "")

	outer := NewVar(syntax.NoPos, "x", Typ[Int])
	fn.Insert(outer)

	if obj, s := block.LookupParent("x"); obj != outer || s != fn {
		t.Errorf("LookupParent(x) = %v in %v, want outer x in function scope", obj, s)
	}
	if block.Lookup("x") != nil {
		t.Errorf("Lookup() found parent's object")
	}

	inner := NewVar(syntax.NoPos, "x", Typ[Int])
	block.Insert(inner)
	if obj, _ := block.LookupParent("x"); obj != inner {
		t.Errorf("inner x does not shadow outer x")
	}

	if obj, s := block.LookupParent("int"); s != Universe || obj.Type() != Typ[Int] {
		t.Errorf("LookupParent(int) = %v in %v, want universe int", obj, s)
	}
	if obj, s := block.LookupParent("nope"); obj != nil || s != nil {
		t.Errorf("LookupParent(nope) = %v, %v, want nil, nil", obj, s)
	}
}

func TestScopeString(t *testing.T) {
	fn := testScope(nil, FuncScope, "f")
	fn.Insert(NewParam(syntax.NoPos, "b", Typ[Int], true))
	fn.Insert(NewParam(syntax.NoPos, "a", Typ[Int], false))
	block := testScope(fn, BlockScope, "")
	block.Insert(NewVar(syntax.NoPos, "s", NewSlice(Typ[String])))

	if got := strings.Join(fn.Names(), ","); got != "a,b" {
		t.Errorf("Names() = %s, want a,b", got)
	}
	if fn.NumChildren() != 1 || fn.Children()[0] != block {
		t.Errorf("children not linked")
	}

	want := `function f {
  a: param int
  b: out param int
  block {
    s: local []string
  }
}
`
	if got := fn.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestScopeFunc(t *testing.T) {
	pkg := testScope(Universe, PackageScope, "p")
	fn := testScope(pkg, FuncScope, "f")
	loop := testScope(fn, ForeachScope, "")
	catch := testScope(loop, CatchScope, "")

	if got := catch.Func(); got != fn {
		t.Errorf("catch.Func() = %v, want function f", got)
	}
	if fn.Func() != fn {
		t.Errorf("function scope is not its own function")
	}
	if pkg.Func() != nil || Universe.Func() != nil {
		t.Errorf("package or universe scope inside a function")
	}

	for _, tt := range []struct {
		s    *Scope
		kind string
	}{
		{Universe, "universe"},
		{pkg, "package"},
		{loop, "foreach"},
		{catch, "catch"},
	} {
		if got := tt.s.Kind().String(); got != tt.kind {
			t.Errorf("Kind() = %s, want %s", got, tt.kind)
		}
	}
	if got := ScopeKind(42).String(); got != "ScopeKind(42)" {
		t.Errorf("unknown kind prints as %s", got)
	}
}

func TestUniverse(t *testing.T) {
	tests := []struct {
		name string
		kind string // %T of the object
		typ  string
	}{
		{"int", "*types.TypeName", "int"},
		{"bool", "*types.TypeName", "bool"},
		{"float", "*types.TypeName", "float"},
		{"string", "*types.TypeName", "string"},
		{"Error", "*types.TypeName", "Error"},
		{"true", "*types.Const", "bool"},
		{"false", "*types.Const", "bool"},
		{"print", "*types.Builtin", "-"},
		{"len", "*types.Builtin", "-"},
	}
	for _, tt := range tests {
		obj := Universe.Lookup(tt.name)
		if obj == nil {
			t.Errorf("%s not in universe", tt.name)
			continue
		}
		if got := typeOf(obj); got != tt.kind {
			t.Errorf("%s is %s, want %s", tt.name, got, tt.kind)
		}
		if got := objTypeString(obj); got != tt.typ {
			t.Errorf("%s has type %s, want %s", tt.name, got, tt.typ)
		}
	}
	if !UniverseTrue().Value() || UniverseFalse().Value() {
		t.Errorf("true/false constants have wrong values")
	}
}

func typeOf(obj Object) string {
	switch obj.(type) {
	case *TypeName:
		return "*types.TypeName"
	case *Const:
		return "*types.Const"
	case *Builtin:
		return "*types.Builtin"
	}
	return "?"
}

package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

// ScopeKind tells which construct opened a scope.
type ScopeKind int

const (
	UniverseScope ScopeKind = iota
	PackageScope
	FuncScope
	BlockScope
	ForScope     // three-clause loop: init variables
	ForeachScope // loop variable
	CaseScope    // one switch section
	CatchScope   // catch variable and clause body
)

var scopeKinds = [...]string{
	UniverseScope: "universe",
	PackageScope:  "package",
	FuncScope:     "function",
	BlockScope:    "block",
	ForScope:      "for",
	ForeachScope:  "foreach",
	CaseScope:     "case",
	CatchScope:    "catch",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKinds) {
		return scopeKinds[k]
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// Scope is a lexical scope. Scopes form a tree rooted at Universe; a
// Kestrel file adds one package scope, and each function body nests
// block, loop, case and catch scopes below its function scope.
type Scope struct {
	parent   *Scope
	children []*Scope
	elems    map[string]Object
	pos, end syntax.Pos
	kind     ScopeKind
	name     string // package or function name
}

// NewScope creates a scope of the given kind below parent. name is only
// meaningful for package and function scopes.
func NewScope(parent *Scope, pos, end syntax.Pos, kind ScopeKind, name string) *Scope {
	s := &Scope{
		parent: parent,
		elems:  make(map[string]Object),
		pos:    pos,
		end:    end,
		kind:   kind,
		name:   name,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

func (s *Scope) Parent() *Scope     { return s.parent }
func (s *Scope) Children() []*Scope { return s.children }
func (s *Scope) NumChildren() int   { return len(s.children) }
func (s *Scope) Kind() ScopeKind    { return s.kind }
func (s *Scope) Name() string       { return s.name }

// Pos and End delimit the scope in source. End is NoPos for the
// universe and package scopes.
func (s *Scope) Pos() syntax.Pos { return s.pos }
func (s *Scope) End() syntax.Pos { return s.end }

// Func returns the innermost function scope enclosing s, or nil if s is
// outside any function body.
func (s *Scope) Func() *Scope {
	for ; s != nil; s = s.parent {
		if s.kind == FuncScope {
			return s
		}
	}
	return nil
}

// Lookup returns the object named name in s itself, or nil.
func (s *Scope) Lookup(name string) Object {
	return s.elems[name]
}

// LookupParent searches s and then its ancestors for name. It returns
// the object and the scope holding it, or (nil, nil).
func (s *Scope) LookupParent(name string) (Object, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if obj := scope.elems[name]; obj != nil {
			return obj, scope
		}
	}
	return nil, nil
}

// Insert adds obj to s. If s already holds an object of that name, it is
// returned and s is left unchanged.
func (s *Scope) Insert(obj Object) Object {
	name := obj.Name()
	if existing := s.elems[name]; existing != nil {
		return existing
	}
	s.elems[name] = obj
	obj.setParent(s)
	return nil
}

// Names returns the sorted names declared in s.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) NumObjects() int {
	return len(s.elems)
}

// String dumps s and its descendants, one object per line.
func (s *Scope) String() string {
	var buf strings.Builder
	s.writeTo(&buf, 0)
	return buf.String()
}

func (s *Scope) writeTo(buf *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	if s.name != "" {
		fmt.Fprintf(buf, "%s%s %s {\n", prefix, s.kind, s.name)
	} else {
		fmt.Fprintf(buf, "%s%s {\n", prefix, s.kind)
	}
	for _, name := range s.Names() {
		obj := s.elems[name]
		if v, ok := obj.(*Var); ok {
			fmt.Fprintf(buf, "%s  %s: %s %s\n", prefix, name, v.kind, objTypeString(obj))
			continue
		}
		fmt.Fprintf(buf, "%s  %s: %s\n", prefix, name, objTypeString(obj))
	}
	for _, child := range s.children {
		child.writeTo(buf, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}

func objTypeString(obj Object) string {
	if obj.Type() == nil {
		return "-"
	}
	return obj.Type().String()
}

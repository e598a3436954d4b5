package resolve

import (
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// Config specifies the configuration for name resolution.
type Config struct {
	// Error is called for each resolution error.
	// If nil, errors are silently ignored.
	Error ErrorHandler
}

// Info holds the results of name resolution.
type Info struct {
	// Defs maps defining identifiers to their declared objects.
	Defs map[*syntax.Name]types.Object

	// Uses maps referencing identifiers to their referenced objects.
	Uses map[*syntax.Name]types.Object

	// Scopes maps AST nodes to their scopes.
	// This includes File, FuncDecl, BlockStmt, ForStmt, ForeachStmt,
	// CaseClause and CatchClause.
	Scopes map[syntax.Node]*types.Scope

	// Funcs maps function declarations to their objects.
	Funcs map[*syntax.FuncDecl]*types.Func

	// Facts describes, per node, the variables it defines and reads and
	// the errors it may raise. It implements flow.Facts.
	Facts *Facts
}

// NewInfo returns an Info with all maps allocated.
func NewInfo() *Info {
	return &Info{
		Defs:   make(map[*syntax.Name]types.Object),
		Uses:   make(map[*syntax.Name]types.Object),
		Scopes: make(map[syntax.Node]*types.Scope),
		Funcs:  make(map[*syntax.FuncDecl]*types.Func),
		Facts:  newFacts(),
	}
}

// Facts records the per-node facts flow analysis asks for. It is written
// only while resolving and is safe for concurrent reads afterwards.
type Facts struct {
	defs    map[syntax.Node][]*types.Var
	uses    map[syntax.Node][]flow.Use
	raises  map[syntax.Node][]*types.ErrorType
	catches map[*syntax.CatchClause]*types.ErrorType
	consts  map[*syntax.Name]bool
}

var _ flow.Facts = (*Facts)(nil)

func newFacts() *Facts {
	return &Facts{
		defs:    make(map[syntax.Node][]*types.Var),
		uses:    make(map[syntax.Node][]flow.Use),
		raises:  make(map[syntax.Node][]*types.ErrorType),
		catches: make(map[*syntax.CatchClause]*types.ErrorType),
		consts:  make(map[*syntax.Name]bool),
	}
}

// Defs implements flow.Facts.
func (f *Facts) Defs(n syntax.Node) []*types.Var { return f.defs[n] }

// Uses implements flow.Facts.
func (f *Facts) Uses(n syntax.Node) []flow.Use { return f.uses[n] }

// Raises implements flow.Facts.
func (f *Facts) Raises(n syntax.Node) []*types.ErrorType { return f.raises[n] }

// CatchType implements flow.Facts.
func (f *Facts) CatchType(c *syntax.CatchClause) *types.ErrorType { return f.catches[c] }

// BoolConst implements flow.Facts.
func (f *Facts) BoolConst(x syntax.Expr) (val, ok bool) {
	for {
		p, isParen := x.(*syntax.ParenExpr)
		if !isParen {
			break
		}
		x = p.X
	}
	name, isName := x.(*syntax.Name)
	if !isName {
		return false, false
	}
	val, ok = f.consts[name]
	return val, ok
}

// Check resolves the names of a parsed file and records the facts needed
// by flow analysis. It returns the package scope and the first error
// encountered, if any.
func Check(filename string, file *syntax.File, conf *Config, info *Info) (*types.Scope, error) {
	if conf == nil {
		conf = &Config{}
	}
	if info == nil {
		info = NewInfo()
	}

	r := &resolver{
		conf: conf,
		info: info,
	}
	r.checkFile(filename, file)

	if r.errors > 0 {
		return r.pkg, r.first
	}
	return r.pkg, nil
}

package flow

import (
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// Use is a read of a variable at a position.
type Use struct {
	Var *types.Var
	Pos syntax.Pos
}

// Facts answers what flow analysis needs to know about the nodes the
// builder places in blocks. Name resolution provides the implementation.
//
// The nodes queried are statements, the condition or tag expressions of
// compound statements, foreach and catch headers, the FuncDecl itself
// (which defines the in parameters) and the function body BlockStmt (which
// reads the out parameters when the function returns).
type Facts interface {
	// Defs returns the variables n assigns, in order.
	Defs(n syntax.Node) []*types.Var
	// Uses returns the variable reads performed by n, in evaluation order.
	Uses(n syntax.Node) []Use
	// Raises returns the error types n may throw, in source order.
	Raises(n syntax.Node) []*types.ErrorType
	// CatchType returns the error type a catch clause accepts.
	CatchType(c *syntax.CatchClause) *types.ErrorType
	// BoolConst reports whether x is the constant true or false.
	BoolConst(x syntax.Expr) (val, ok bool)
}

package resolve

import (
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

func (r *resolver) stmtList(list []syntax.Stmt) {
	for _, s := range list {
		r.stmt(s)
	}
}

func (r *resolver) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt, *syntax.BranchStmt:
		// nothing to do

	case *syntax.BlockStmt:
		r.openScope(s, s.Rbrace, types.BlockScope, "")
		r.stmtList(s.Stmts)
		r.closeScope()

	case *syntax.ExprStmt:
		a := r.newAccum()
		r.expr(s.X, a)
		r.record(s, a)

	case *syntax.AssignStmt:
		r.assign(s)

	case *syntax.DeclStmt:
		r.varDecl(s)

	case *syntax.IfStmt:
		r.cond(s.Cond)
		r.stmt(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *syntax.ForStmt:
		r.openScope(s, s.Body.Rbrace, types.ForScope, "")
		if s.Init != nil {
			r.stmt(s.Init)
		}
		if s.Cond != nil {
			r.cond(s.Cond)
		}
		if s.Post != nil {
			if as, ok := s.Post.(*syntax.AssignStmt); ok && as.Op.IsDefine() {
				r.errorf(as.Pos(), "cannot declare in post statement of for loop")
			}
			r.stmt(s.Post)
		}
		r.stmt(s.Body)
		r.closeScope()

	case *syntax.ForeachStmt:
		r.cond(s.X)
		r.openScope(s, s.Body.Rbrace, types.ForeachScope, "")
		v := types.NewVar(s.Var.Pos(), s.Var.Value, nil)
		r.declare(s.Var, v)
		r.def(s, v)
		r.stmt(s.Body)
		r.closeScope()

	case *syntax.SwitchStmt:
		r.cond(s.Tag)
		for _, c := range s.Body {
			r.caseClause(c, s.Rbrace)
		}

	case *syntax.ReturnStmt:
		if s.Result != nil {
			a := r.newAccum()
			r.expr(s.Result, a)
			r.record(s, a)
		}

	case *syntax.ThrowStmt:
		a := r.newAccum()
		r.expr(s.X, a)
		a.raise(r.thrownType(s.X))
		r.record(s, a)

	case *syntax.TryStmt:
		r.stmt(s.Body)
		for _, c := range s.Catches {
			r.catchClause(c)
		}
		if s.Finally != nil {
			r.stmt(s.Finally)
		}

	default:
		r.errorf(s.Pos(), "unexpected statement %T", s)
	}
}

// cond resolves a condition, switch tag or foreach operand. Flow analysis
// appends the expression itself to the graph, so its facts live there.
func (r *resolver) cond(x syntax.Expr) {
	a := r.newAccum()
	r.expr(x, a)
	r.record(x, a)
}

func (r *resolver) assign(s *syntax.AssignStmt) {
	a := r.newAccum()
	r.expr(s.RHS, a)

	if s.Op.IsDefine() {
		r.record(s, a)
		name, ok := s.LHS.(*syntax.Name)
		if !ok {
			r.errorf(s.LHS.Pos(), "non-name %s on left side of :=", syntax.ExprString(s.LHS))
			return
		}
		v := types.NewVar(name.Pos(), name.Value, r.varType(nil, s.RHS))
		r.declare(name, v)
		r.def(s, v)
		return
	}

	switch lhs := s.LHS.(type) {
	case *syntax.Name:
		obj := r.lookup(lhs)
		if obj == nil {
			break
		}
		if v, ok := obj.(*types.Var); ok {
			r.def(s, v)
		} else {
			r.errorf(lhs.Pos(), "cannot assign to %s", lhs.Value)
		}
	case *syntax.IndexExpr:
		// Storing into an element reads the slice.
		r.expr(lhs, a)
	default:
		r.errorf(lhs.Pos(), "cannot assign to %s", syntax.ExprString(lhs))
	}
	r.record(s, a)
}

func (r *resolver) varDecl(s *syntax.DeclStmt) {
	d := s.Decl
	a := r.newAccum()
	if d.Value != nil {
		r.expr(d.Value, a)
	}
	r.record(s, a)

	v := types.NewVar(d.Name.Pos(), d.Name.Value, r.varType(d.Type, d.Value))
	r.declare(d.Name, v)
	if d.Value != nil {
		r.def(s, v)
	}
}

func (r *resolver) caseClause(c *syntax.CaseClause, end syntax.Pos) {
	a := r.newAccum()
	for _, x := range c.Values {
		r.expr(x, a)
	}
	r.record(c, a)

	r.openScope(c, end, types.CaseScope, "")
	r.stmtList(c.Body)
	r.closeScope()
}

func (r *resolver) catchClause(c *syntax.CatchClause) {
	et := types.AnyError
	if c.Type != nil {
		et = r.errorType(c.Type)
	}
	r.info.Facts.catches[c] = et

	r.openScope(c, c.Body.Rbrace, types.CatchScope, "")
	if c.Name != nil {
		v := types.NewVar(c.Name.Pos(), c.Name.Value, et)
		r.declare(c.Name, v)
		r.def(c, v)
	}
	r.stmtList(c.Body.Stmts)
	r.info.Scopes[c.Body] = r.scope
	r.closeScope()
}

package resolve

import (
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// accum collects the reads and raised errors of the expressions belonging
// to one flow node.
type accum struct {
	uses   []flow.Use
	raises []*types.ErrorType
}

func (r *resolver) newAccum() *accum {
	return &accum{}
}

func (a *accum) use(v *types.Var, pos syntax.Pos) {
	a.uses = append(a.uses, flow.Use{Var: v, Pos: pos})
}

func (a *accum) raise(et *types.ErrorType) {
	for _, t := range a.raises {
		if t.Same(et) {
			return
		}
	}
	a.raises = append(a.raises, et)
}

// record attaches the collected facts to n.
func (r *resolver) record(n syntax.Node, a *accum) {
	f := r.info.Facts
	if len(a.uses) > 0 {
		f.uses[n] = append(f.uses[n], a.uses...)
	}
	if len(a.raises) > 0 {
		f.raises[n] = append(f.raises[n], a.raises...)
	}
}

// tracked reports whether flow analysis follows v. Package variables are
// assigned before any function runs and are not tracked.
func tracked(v *types.Var) bool {
	return v.Parent().Func() != nil
}

// def records that n assigns v.
func (r *resolver) def(n syntax.Node, v *types.Var) {
	if !tracked(v) {
		return
	}
	r.info.Facts.defs[n] = append(r.info.Facts.defs[n], v)
}

// expr resolves the names in x, collecting reads and raised errors in a.
func (r *resolver) expr(x syntax.Expr, a *accum) {
	switch x := x.(type) {
	case *syntax.Name:
		r.name(x, a)

	case *syntax.BasicLit:
		// nothing to do

	case *syntax.Operation:
		r.expr(x.X, a)
		if x.Y != nil {
			r.expr(x.Y, a)
		}

	case *syntax.CallExpr:
		r.call(x, a)

	case *syntax.IndexExpr:
		r.expr(x.X, a)
		r.expr(x.Index, a)

	case *syntax.SelectorExpr:
		if r.errorCode(x) == nil {
			r.expr(x.X, a)
		}

	case *syntax.ParenExpr:
		r.expr(x.X, a)

	case *syntax.SliceType:
		r.errorf(x.Pos(), "%s is not an expression", syntax.ExprString(x))

	default:
		r.errorf(x.Pos(), "unexpected expression %T", x)
	}
}

func (r *resolver) name(x *syntax.Name, a *accum) {
	obj := r.lookup(x)
	switch obj := obj.(type) {
	case *types.Var:
		if tracked(obj) {
			a.use(obj, x.Pos())
		}
	case *types.Const:
		r.info.Facts.consts[x] = obj.Value()
	}
}

// call resolves a call. Calling a function raises every error its
// signature declares.
func (r *resolver) call(x *syntax.CallExpr, a *accum) {
	if name, ok := x.Fun.(*syntax.Name); ok {
		obj := r.lookup(name)
		if fn, ok := obj.(*types.Func); ok {
			if sig := fn.Signature(); sig != nil {
				for _, et := range sig.Throws() {
					a.raise(et)
				}
			}
		} else if v, ok := obj.(*types.Var); ok && tracked(v) {
			a.use(v, name.Pos())
		}
	} else {
		r.expr(x.Fun, a)
	}
	for _, arg := range x.Args {
		r.expr(arg, a)
	}
}

// thrownType returns the error type raised by throw x. x is an error
// constructor such as IOError.DENIED("msg"), a caught error variable, or
// anything else, which may be an error of any type.
func (r *resolver) thrownType(x syntax.Expr) *types.ErrorType {
	if call, ok := x.(*syntax.CallExpr); ok {
		x = call.Fun
	}
	switch x := x.(type) {
	case *syntax.SelectorExpr:
		if code, ok := r.info.Uses[x.Sel].(*types.ErrorCode); ok {
			return code.Type().(*types.ErrorType)
		}
	case *syntax.Name:
		if obj := r.info.Uses[x]; obj != nil {
			if et, ok := obj.Type().(*types.ErrorType); ok {
				return et
			}
		}
	}
	return types.AnyError
}

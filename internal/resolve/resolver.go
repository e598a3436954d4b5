package resolve

import (
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// resolver is the name resolver for one file.
type resolver struct {
	conf *Config
	info *Info
	pkg  *types.Scope

	scope *types.Scope // current scope

	errors int
	first  *Error
}

// checkFile resolves a single file.
func (r *resolver) checkFile(filename string, file *syntax.File) {
	r.pkg = types.NewScope(types.Universe, file.Pos(), syntax.NoPos, types.PackageScope, file.PkgName.Value)
	r.scope = r.pkg
	r.info.Scopes[file] = r.pkg

	// Phase 1: error domains, so that signatures can name them.
	for _, d := range file.Decls {
		if ed, ok := d.(*syntax.ErrorDomainDecl); ok {
			r.errorDomainDecl(ed)
		}
	}

	// Phase 2: functions and globals, so that bodies can refer to
	// functions declared later in the file.
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *syntax.FuncDecl:
			r.funcDecl(d)
		case *syntax.VarDecl:
			r.globalVarDecl(d)
		}
	}

	// Phase 3: function bodies.
	for _, d := range file.Decls {
		if fd, ok := d.(*syntax.FuncDecl); ok {
			r.funcBody(fd)
		}
	}
}

// openScope creates a new scope as a child of the current scope.
func (r *resolver) openScope(n syntax.Node, end syntax.Pos, kind types.ScopeKind, name string) *types.Scope {
	s := types.NewScope(r.scope, n.Pos(), end, kind, name)
	r.scope = s
	r.info.Scopes[n] = s
	return s
}

// closeScope returns to the parent scope.
func (r *resolver) closeScope() {
	r.scope = r.scope.Parent()
}

// declare declares an object in the current scope.
// Reports an error if the name is already declared.
func (r *resolver) declare(name *syntax.Name, obj types.Object) {
	if existing := r.scope.Insert(obj); existing != nil {
		r.errorf(name.Pos(), "%s redeclared in this block", name.Value)
		return
	}
	r.info.Defs[name] = obj
}

// lookup resolves a name to an object, reporting undefined names.
func (r *resolver) lookup(name *syntax.Name) types.Object {
	obj, _ := r.scope.LookupParent(name.Value)
	if obj == nil {
		r.errorf(name.Pos(), "undefined: %s", name.Value)
		return nil
	}
	r.info.Uses[name] = obj
	return obj
}

func (r *resolver) errorDomainDecl(decl *syntax.ErrorDomainDecl) {
	d := types.NewErrorDomain(decl.Name.Pos(), decl.Name.Value)
	r.declare(decl.Name, d)
	for _, c := range decl.Codes {
		code, ok := d.AddCode(c.Pos(), c.Value)
		if !ok {
			r.errorf(c.Pos(), "%s redeclared in errordomain %s", c.Value, d.Name())
			continue
		}
		r.info.Defs[c] = code
	}
}

func (r *resolver) globalVarDecl(decl *syntax.VarDecl) {
	acc := r.newAccum()
	if decl.Value != nil {
		r.expr(decl.Value, acc)
	}
	v := types.NewVar(decl.Name.Pos(), decl.Name.Value, r.varType(decl.Type, decl.Value))
	r.declare(decl.Name, v)
}

func (r *resolver) funcDecl(decl *syntax.FuncDecl) {
	fn := types.NewFunc(decl.Name.Pos(), decl.Name.Value, decl)
	r.declare(decl.Name, fn)
	r.info.Funcs[decl] = fn

	params := make([]*types.Var, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = types.NewParam(p.Name.Pos(), p.Name.Value, r.typ(p.Type), p.Out)
	}
	var result types.Type
	if decl.Result != nil {
		result = r.typ(decl.Result)
	}
	var throws []*types.ErrorType
	for _, t := range decl.Throws {
		throws = append(throws, r.errorType(t))
	}
	fn.SetSignature(types.NewSignature(params, result, throws))
}

func (r *resolver) funcBody(decl *syntax.FuncDecl) {
	fn := r.info.Funcs[decl]
	sig := fn.Signature()

	r.openScope(decl, decl.Body.Rbrace, types.FuncScope, decl.Name.Value)
	defer r.closeScope()

	facts := r.info.Facts
	for i, p := range sig.Params() {
		r.declare(decl.Params[i].Name, p)
		if p.Kind() == types.OutParam {
			// Out parameters are read by the caller once the body returns.
			facts.uses[decl.Body] = append(facts.uses[decl.Body], flow.Use{Var: p, Pos: decl.Body.Rbrace})
		} else {
			facts.defs[decl] = append(facts.defs[decl], p)
		}
	}

	// The body shares the function scope, as parameters and top-level
	// locals may not be redeclared against each other.
	r.info.Scopes[decl.Body] = r.scope
	r.stmtList(decl.Body.Stmts)
}

// typ resolves a type expression.
func (r *resolver) typ(x syntax.Expr) types.Type {
	switch x := x.(type) {
	case *syntax.Name:
		obj := r.lookup(x)
		if obj == nil {
			return types.Typ[types.Invalid]
		}
		switch obj := obj.(type) {
		case *types.TypeName:
			return obj.Type()
		case *types.ErrorDomain:
			return obj.Type()
		}
		r.errorf(x.Pos(), "%s is not a type", x.Value)
	case *syntax.SelectorExpr:
		return r.errorType(x)
	case *syntax.SliceType:
		return types.NewSlice(r.typ(x.Elem))
	default:
		r.errorf(x.Pos(), "%s is not a type", syntax.ExprString(x))
	}
	return types.Typ[types.Invalid]
}

// errorType resolves Error, a domain name or a Domain.CODE selector.
// Anything else is reported and treated as Error.
func (r *resolver) errorType(x syntax.Expr) *types.ErrorType {
	switch x := x.(type) {
	case *syntax.Name:
		obj := r.lookup(x)
		if obj == nil {
			return types.AnyError
		}
		if et, ok := obj.Type().(*types.ErrorType); ok {
			if _, isVar := obj.(*types.Var); !isVar {
				return et
			}
		}
	case *syntax.SelectorExpr:
		if code := r.errorCode(x); code != nil {
			return code.Type().(*types.ErrorType)
		}
		return types.AnyError
	}
	r.errorf(x.Pos(), "%s is not an error type", syntax.ExprString(x))
	return types.AnyError
}

// errorCode resolves Domain.CODE, or returns nil if x.X is not a domain.
// An unknown code of a known domain is reported.
func (r *resolver) errorCode(x *syntax.SelectorExpr) *types.ErrorCode {
	name, ok := x.X.(*syntax.Name)
	if !ok {
		return nil
	}
	obj, _ := r.scope.LookupParent(name.Value)
	d, ok := obj.(*types.ErrorDomain)
	if !ok {
		return nil
	}
	r.info.Uses[name] = d
	code := d.Code(x.Sel.Value)
	if code == nil {
		r.errorf(x.Sel.Pos(), "%s.%s undefined (errordomain %s has no code %s)", d.Name(), x.Sel.Value, d.Name(), x.Sel.Value)
		return nil
	}
	r.info.Uses[x.Sel] = code
	return code
}

// varType infers the declared type of a variable from its annotation or a
// literal initializer. Other initializers leave the type unknown.
func (r *resolver) varType(typ, value syntax.Expr) types.Type {
	if typ != nil {
		return r.typ(typ)
	}
	if lit, ok := value.(*syntax.BasicLit); ok {
		switch lit.Kind {
		case syntax.IntLit:
			return types.Typ[types.Int]
		case syntax.FloatLit:
			return types.Typ[types.Float]
		case syntax.StringLit:
			return types.Typ[types.String]
		}
	}
	return nil
}

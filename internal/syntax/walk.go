package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		Walk(n.PkgName, v)
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *ErrorDomainDecl:
		Walk(n.Name, v)
		for _, c := range n.Codes {
			Walk(c, v)
		}

	case *VarDecl:
		Walk(n.Name, v)
		Walk(n.Type, v)
		Walk(n.Value, v)

	case *FuncDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Result, v)
		for _, t := range n.Throws {
			Walk(t, v)
		}
		Walk(n.Body, v)

	case *Field:
		Walk(n.Name, v)
		Walk(n.Type, v)

	case *BlockStmt:
		walkList(n.Stmts, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *ForStmt:
		Walk(n.Init, v)
		Walk(n.Cond, v)
		Walk(n.Post, v)
		Walk(n.Body, v)

	case *ForeachStmt:
		Walk(n.Var, v)
		Walk(n.X, v)
		Walk(n.Body, v)

	case *SwitchStmt:
		Walk(n.Tag, v)
		for _, c := range n.Body {
			Walk(c, v)
		}

	case *CaseClause:
		for _, x := range n.Values {
			Walk(x, v)
		}
		walkList(n.Body, v)

	case *TryStmt:
		Walk(n.Body, v)
		for _, c := range n.Catches {
			Walk(c, v)
		}
		Walk(n.Finally, v)

	case *CatchClause:
		Walk(n.Name, v)
		Walk(n.Type, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		Walk(n.Result, v)

	case *ThrowStmt:
		Walk(n.X, v)

	case *AssignStmt:
		Walk(n.LHS, v)
		Walk(n.RHS, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *DeclStmt:
		Walk(n.Decl, v)

	case *Operation:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IndexExpr:
		Walk(n.X, v)
		Walk(n.Index, v)

	case *SelectorExpr:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *ParenExpr:
		Walk(n.X, v)

	case *SliceType:
		Walk(n.Elem, v)

	// Leaf nodes: Name, BasicLit, EmptyStmt, BranchStmt
	}
}

func walkList(list []Stmt, v Visitor) {
	for _, s := range list {
		Walk(s, v)
	}
}

// isNil reports whether node is nil, including a typed nil pointer stored
// in the interface (an absent optional child such as IfStmt.Else).
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Name:
		return n == nil
	case *BlockStmt:
		return n == nil
	case *VarDecl:
		return n == nil
	}
	return false
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

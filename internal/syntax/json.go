package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type object map[string]interface{}

// newObject starts the JSON object for n. Optional children that are nil
// are left out by set.
func newObject(kind string, n Node) object {
	m := object{"type": kind, "pos": n.Pos().String()}
	if n.Unreachable() {
		m["unreachable"] = true
	}
	return m
}

func (m object) set(key string, child Node) object {
	if !isNil(child) {
		m[key] = toJSON(child)
	}
	return m
}

func list[T Node](s []T) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = toJSON(v)
	}
	return result
}

func toJSON(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		m := newObject("File", n)
		m["package"] = n.PkgName.Value
		m["decls"] = list(n.Decls)
		return m

	case *ErrorDomainDecl:
		m := newObject("ErrorDomainDecl", n)
		m["name"] = n.Name.Value
		codes := make([]string, len(n.Codes))
		for i, c := range n.Codes {
			codes[i] = c.Value
		}
		m["codes"] = codes
		return m

	case *VarDecl:
		m := newObject("VarDecl", n)
		m["name"] = n.Name.Value
		return m.set("vartype", n.Type).set("value", n.Value)

	case *FuncDecl:
		m := newObject("FuncDecl", n)
		m["name"] = n.Name.Value
		m["params"] = list(n.Params)
		if len(n.Throws) > 0 {
			m["throws"] = list(n.Throws)
		}
		return m.set("result", n.Result).set("body", n.Body)

	case *Field:
		m := newObject("Field", n)
		m["name"] = n.Name.Value
		if n.Out {
			m["out"] = true
		}
		return m.set("fieldtype", n.Type)

	case *BlockStmt:
		m := newObject("BlockStmt", n)
		m["stmts"] = list(n.Stmts)
		return m

	case *IfStmt:
		return newObject("IfStmt", n).set("cond", n.Cond).set("then", n.Then).set("else", n.Else)

	case *ForStmt:
		return newObject("ForStmt", n).set("init", n.Init).set("cond", n.Cond).set("post", n.Post).set("body", n.Body)

	case *ForeachStmt:
		m := newObject("ForeachStmt", n)
		m["var"] = n.Var.Value
		return m.set("x", n.X).set("body", n.Body)

	case *SwitchStmt:
		m := newObject("SwitchStmt", n).set("tag", n.Tag)
		m["cases"] = list(n.Body)
		return m

	case *CaseClause:
		m := newObject("CaseClause", n)
		m["values"] = list(n.Values)
		if n.Default {
			m["default"] = true
		}
		m["body"] = list(n.Body)
		return m

	case *TryStmt:
		m := newObject("TryStmt", n).set("body", n.Body)
		m["catches"] = list(n.Catches)
		return m.set("finally", n.Finally)

	case *CatchClause:
		m := newObject("CatchClause", n)
		if n.Name != nil {
			m["name"] = n.Name.Value
		}
		return m.set("errtype", n.Type).set("body", n.Body)

	case *ReturnStmt:
		return newObject("ReturnStmt", n).set("result", n.Result)

	case *ThrowStmt:
		return newObject("ThrowStmt", n).set("x", n.X)

	case *BranchStmt:
		m := newObject("BranchStmt", n)
		m["token"] = n.Tok.String()
		return m

	case *AssignStmt:
		m := newObject("AssignStmt", n)
		m["op"] = n.Op.String()
		return m.set("lhs", n.LHS).set("rhs", n.RHS)

	case *ExprStmt:
		return newObject("ExprStmt", n).set("x", n.X)

	case *DeclStmt:
		return newObject("DeclStmt", n).set("decl", n.Decl)

	case *EmptyStmt:
		return newObject("EmptyStmt", n)

	case *Name:
		m := newObject("Name", n)
		m["value"] = n.Value
		return m

	case *BasicLit:
		m := newObject("BasicLit", n)
		m["kind"] = n.Kind.String()
		m["value"] = n.Value
		return m

	case *Operation:
		m := newObject("Operation", n)
		m["op"] = n.Op.String()
		return m.set("x", n.X).set("y", n.Y)

	case *CallExpr:
		m := newObject("CallExpr", n).set("fun", n.Fun)
		m["args"] = list(n.Args)
		return m

	case *IndexExpr:
		return newObject("IndexExpr", n).set("x", n.X).set("index", n.Index)

	case *SelectorExpr:
		m := newObject("SelectorExpr", n).set("x", n.X)
		m["sel"] = n.Sel.Value
		return m

	case *ParenExpr:
		return newObject("ParenExpr", n).set("x", n.X)

	case *SliceType:
		return newObject("SliceType", n).set("elem", n.Elem)
	}
	return object{"type": "Unknown"}
}

package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// header prints a node line, marking nodes that flow analysis found dead.
func (p *printer) header(n Node, format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if n.Unreachable() {
		line += " (unreachable)"
	}
	p.printf("%s\n", line)
}

// field prints a labelled child one level deeper.
func (p *printer) field(label string, n Node) {
	if isNil(n) {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) stmts(label string, list []Stmt) {
	if len(list) == 0 {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	for _, s := range list {
		p.print(s)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		p.printf("Package: %s\n", n.PkgName.Value)
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *ErrorDomainDecl:
		p.printf("ErrorDomainDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		codes := make([]string, len(n.Codes))
		for i, c := range n.Codes {
			codes[i] = c.Value
		}
		p.printf("Codes: %s\n", strings.Join(codes, ", "))
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		if n.Type != nil {
			p.printf("Type: %s\n", ExprString(n.Type))
		}
		p.field("Value", n.Value)
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		if len(n.Params) > 0 {
			p.printf("Params:\n")
			p.indent++
			for _, f := range n.Params {
				p.print(f)
			}
			p.indent--
		}
		if n.Result != nil {
			p.printf("Result: %s\n", ExprString(n.Result))
		}
		if len(n.Throws) > 0 {
			p.printf("Throws: %s\n", exprListString(n.Throws))
		}
		p.field("Body", n.Body)
		p.indent--

	case *Field:
		if n.Out {
			p.printf("out %s %s\n", n.Name.Value, ExprString(n.Type))
		} else {
			p.printf("%s %s\n", n.Name.Value, ExprString(n.Type))
		}

	case *BlockStmt:
		p.header(n, "BlockStmt %s", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.header(n, "IfStmt %s", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		p.field("Else", n.Else)
		p.indent--

	case *ForStmt:
		p.header(n, "ForStmt %s", n.pos)
		p.indent++
		p.field("Init", n.Init)
		p.field("Cond", n.Cond)
		p.field("Post", n.Post)
		p.field("Body", n.Body)
		p.indent--

	case *ForeachStmt:
		p.header(n, "ForeachStmt %s %s", n.pos, n.Var.Value)
		p.indent++
		p.field("X", n.X)
		p.field("Body", n.Body)
		p.indent--

	case *SwitchStmt:
		p.header(n, "SwitchStmt %s", n.pos)
		p.indent++
		p.field("Tag", n.Tag)
		for _, c := range n.Body {
			p.print(c)
		}
		p.indent--

	case *CaseClause:
		label := "case " + exprListString(n.Values)
		if n.Default {
			if len(n.Values) > 0 {
				label += ", default"
			} else {
				label = "default"
			}
		}
		p.header(n, "CaseClause %s %s", n.pos, label)
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--

	case *TryStmt:
		p.header(n, "TryStmt %s", n.pos)
		p.indent++
		p.field("Body", n.Body)
		for _, c := range n.Catches {
			p.print(c)
		}
		p.field("Finally", n.Finally)
		p.indent--

	case *CatchClause:
		if n.Name != nil {
			p.header(n, "CatchClause %s %s %s", n.pos, n.Name.Value, ExprString(n.Type))
		} else {
			p.header(n, "CatchClause %s", n.pos)
		}
		p.indent++
		p.print(n.Body)
		p.indent--

	case *ReturnStmt:
		p.header(n, "ReturnStmt %s", n.pos)
		p.indent++
		p.print(n.Result)
		p.indent--

	case *ThrowStmt:
		p.header(n, "ThrowStmt %s", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *BranchStmt:
		p.header(n, "BranchStmt %s %s", n.pos, n.Tok)

	case *AssignStmt:
		p.header(n, "AssignStmt %s %s", n.pos, n.Op)
		p.indent++
		p.field("LHS", n.LHS)
		p.field("RHS", n.RHS)
		p.indent--

	case *ExprStmt:
		p.header(n, "ExprStmt %s", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *DeclStmt:
		p.header(n, "DeclStmt %s", n.pos)
		p.indent++
		p.print(n.Decl)
		p.indent--

	case *EmptyStmt:
		p.header(n, "EmptyStmt %s", n.pos)

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
			break
		}
		p.printf("BinaryOp %s %s\n", n.pos, n.Op)
		p.indent++
		p.field("X", n.X)
		p.field("Y", n.Y)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s\n", n.pos)
		p.indent++
		p.field("Fun", n.Fun)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.pos)
		p.indent++
		p.field("X", n.X)
		p.field("Index", n.Index)
		p.indent--

	case *SelectorExpr:
		p.printf("SelectorExpr %s\n", n.pos)
		p.indent++
		p.field("X", n.X)
		p.printf("Sel: %s\n", n.Sel.Value)
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *SliceType:
		p.printf("SliceType %s %s\n", n.pos, ExprString(n))

	default:
		p.printf("<%T>\n", node)
	}
}

// ExprString returns a compact source-like rendering of an expression.
func ExprString(x Expr) string {
	var b strings.Builder
	writeExpr(&b, x)
	return b.String()
}

func exprListString(list []Expr) string {
	var b strings.Builder
	for i, x := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(&b, x)
	}
	return b.String()
}

func writeExpr(b *strings.Builder, x Expr) {
	switch x := x.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			fmt.Fprintf(b, "%q", x.Value)
		} else {
			b.WriteString(x.Value)
		}
	case *Operation:
		if x.Y == nil {
			b.WriteString(x.Op.String())
			writeExpr(b, x.X)
			return
		}
		writeExpr(b, x.X)
		fmt.Fprintf(b, " %s ", x.Op)
		writeExpr(b, x.Y)
	case *CallExpr:
		writeExpr(b, x.Fun)
		b.WriteByte('(')
		b.WriteString(exprListString(x.Args))
		b.WriteByte(')')
	case *IndexExpr:
		writeExpr(b, x.X)
		b.WriteByte('[')
		writeExpr(b, x.Index)
		b.WriteByte(']')
	case *SelectorExpr:
		writeExpr(b, x.X)
		b.WriteByte('.')
		b.WriteString(x.Sel.Value)
	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteByte(')')
	case *SliceType:
		b.WriteString("[]")
		writeExpr(b, x.Elem)
	default:
		fmt.Fprintf(b, "<%T>", x)
	}
}

// NodeString returns a one-line summary of a node, as shown in flow graph
// dumps. Compound statements are summarized by their header.
func NodeString(n Node) string {
	switch n := n.(type) {
	case Expr:
		return ExprString(n)
	case *ExprStmt:
		return ExprString(n.X)
	case *AssignStmt:
		return ExprString(n.LHS) + " " + n.Op.String() + " " + ExprString(n.RHS)
	case *DeclStmt:
		s := "var " + n.Decl.Name.Value
		if n.Decl.Type != nil {
			s += " " + ExprString(n.Decl.Type)
		}
		if n.Decl.Value != nil {
			s += " = " + ExprString(n.Decl.Value)
		}
		return s
	case *ReturnStmt:
		if n.Result == nil {
			return "return"
		}
		return "return " + ExprString(n.Result)
	case *ThrowStmt:
		return "throw " + ExprString(n.X)
	case *BranchStmt:
		return n.Tok.String()
	case *ForeachStmt:
		return "for " + n.Var.Value + " in ..."
	case *CaseClause:
		if len(n.Values) == 0 {
			return "default:"
		}
		return "case " + exprListString(n.Values) + ":"
	case *CatchClause:
		if n.Name == nil {
			return "catch"
		}
		return "catch (" + n.Name.Value + " " + ExprString(n.Type) + ")"
	case *FuncDecl:
		return "func " + n.Name.Value
	case *BlockStmt:
		return "}"
	case *EmptyStmt:
		return ";"
	}
	return fmt.Sprintf("<%T>", n)
}

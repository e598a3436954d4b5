package flow_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/resolve"
	"github.com/you-not-fish/kestrel/internal/syntax"
)

// built is the result of building every function of a source file.
type built struct {
	src   string
	file  *syntax.File
	info  *resolve.Info
	diags *diag.Bag
	funcs map[string]*flow.Func
	errs  map[string]error
}

// buildFromSource parses and resolves src, then builds the graph of every
// function and computes dominators and frontiers. It calls t.Fatal on any
// parse or resolve errors. Each graph is verified with Verify.
func buildFromSource(t *testing.T, src string) *built {
	t.Helper()

	var parseErrs []string
	file, _ := syntax.Parse("test.kes", strings.NewReader(src), func(pos syntax.Pos, msg string) {
		parseErrs = append(parseErrs, pos.String()+": "+msg)
	})
	if len(parseErrs) > 0 {
		t.Fatalf("parse errors:\n%s", strings.Join(parseErrs, "\n"))
	}

	var resolveErrs []string
	info := resolve.NewInfo()
	conf := &resolve.Config{Error: func(pos syntax.Pos, msg string) {
		resolveErrs = append(resolveErrs, pos.String()+": "+msg)
	}}
	resolve.Check("test.kes", file, conf, info)
	if len(resolveErrs) > 0 {
		t.Fatalf("resolve errors:\n%s", strings.Join(resolveErrs, "\n"))
	}

	b := &built{
		src:   src,
		file:  file,
		info:  info,
		diags: &diag.Bag{},
		funcs: make(map[string]*flow.Func),
		errs:  make(map[string]error),
	}
	for _, d := range file.Decls {
		fd, ok := d.(*syntax.FuncDecl)
		if !ok {
			continue
		}
		f, err := flow.Build(fd, info.Funcs[fd], info.Facts, b.diags)
		if err != nil {
			b.errs[fd.Name.Value] = err
			continue
		}
		flow.ComputeDom(f)
		flow.ComputeFrontier(f)
		if err := flow.Verify(f); err != nil {
			t.Fatalf("Verify(%s) failed:\n%v\ngraph:\n%s", f.Name, err, flow.Sprint(f))
		}
		b.funcs[fd.Name.Value] = f
	}
	return b
}

// getFunc returns the graph of the named function, or calls t.Fatal.
func (b *built) getFunc(t *testing.T, name string) *flow.Func {
	t.Helper()
	f, ok := b.funcs[name]
	if !ok {
		t.Fatalf("function %q not built (err: %v)", name, b.errs[name])
	}
	return f
}

// lineOf returns the line of the first occurrence of marker in the source.
func (b *built) lineOf(t *testing.T, marker string) int {
	t.Helper()
	i := strings.Index(b.src, marker)
	if i < 0 {
		t.Fatalf("marker %q not in source", marker)
	}
	return strings.Count(b.src[:i], "\n") + 1
}

// at formats an expected diagnostic as produced by diagLines.
func (b *built) at(t *testing.T, marker string, sev diag.Severity, msg string) string {
	t.Helper()
	return fmt.Sprintf("%d: %s: %s", b.lineOf(t, marker), sev, msg)
}

// diagLines returns the reported diagnostics as "line: severity: message".
func (b *built) diagLines() []string {
	var lines []string
	for _, d := range b.diags.Sorted() {
		lines = append(lines, fmt.Sprintf("%d: %s: %s", d.Pos.Line(), d.Severity, d.Message))
	}
	return lines
}

// expectDiags checks that exactly the given diagnostics were reported.
func (b *built) expectDiags(t *testing.T, want ...string) {
	t.Helper()
	got := b.diagLines()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("diagnostics:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

// findStmt returns the first statement of fd whose summary is s.
func findStmt(t *testing.T, fd *syntax.FuncDecl, s string) syntax.Stmt {
	t.Helper()
	var found syntax.Stmt
	syntax.Inspect(fd.Body, func(n syntax.Node) bool {
		if st, ok := n.(syntax.Stmt); ok && found == nil && syntax.NodeString(st) == s {
			found = st
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("statement %q not found in %s", s, fd.Name.Value)
	}
	return found
}

func blockOf(t *testing.T, f *flow.Func, n syntax.Node) *flow.Block {
	t.Helper()
	id := f.BlockOf(n)
	if id == flow.NoBlock {
		t.Fatalf("%s is in no block\n%s", syntax.NodeString(n), flow.Sprint(f))
	}
	return f.Blocks[id]
}

// forkOf returns the block the exceptional edges of the raising node n
// leave from: the sole predecessor of the block n heads.
func forkOf(t *testing.T, f *flow.Func, n syntax.Node) *flow.Block {
	t.Helper()
	blk := blockOf(t, f, n)
	if len(blk.Nodes) == 0 || blk.Nodes[0] != n || len(blk.Preds) != 1 {
		t.Fatalf("%s does not head a block with one predecessor\n%s", syntax.NodeString(n), flow.Sprint(f))
	}
	return f.Blocks[blk.Preds[0]]
}

func hasSucc(f *flow.Func, from *flow.Block, kind flow.BlockKind) bool {
	for _, s := range from.Succs {
		if f.Blocks[s].Kind == kind {
			return true
		}
	}
	return false
}

func TestStraightLine(t *testing.T) {
	b := buildFromSource(t, `package p

func f() {
	x := 1
	y := x + 2
	print(y)
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")

	if n := f.NumBlocks(); n != 4 {
		t.Fatalf("NumBlocks = %d, want 4 (entry, return, exit, body)\n%s", n, flow.Sprint(f))
	}
	body := f.Blocks[f.Blocks[f.Entry].Succs[0]]
	want := []string{"func f", "x := 1", "y := x + 2", "print(y)"}
	if len(body.Nodes) != len(want) {
		t.Fatalf("body has %d nodes, want %d\n%s", len(body.Nodes), len(want), flow.Sprint(f))
	}
	for i, n := range body.Nodes {
		if got := syntax.NodeString(n); got != want[i] {
			t.Errorf("node %d = %q, want %q", i, got, want[i])
		}
	}
	if !body.HasSucc(f.Return) {
		t.Errorf("fall-through end does not reach the return block")
	}
	if !f.EndReachable || !b.info.Funcs[f.Decl].EndReachable {
		t.Errorf("EndReachable not set")
	}
}

func TestIfElse(t *testing.T) {
	b := buildFromSource(t, `package p

func f(c bool) {
	var x int
	if c {
		x = 1
	} else {
		x = 2
	}
	print(x)
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")

	use := blockOf(t, f, findStmt(t, f.Decl, "print(x)"))
	if use.Kind != flow.BlockJoin || use.NumPreds() != 2 {
		t.Errorf("use is in %s (%s) with %d preds, want a join with 2", use, use.Kind, use.NumPreds())
	}
	then := blockOf(t, f, findStmt(t, f.Decl, "x = 1"))
	if then.Idom != f.BlockOf(f.Decl) {
		t.Errorf("then block idom = b%d, want the block holding the condition", then.Idom)
	}
	if got := f.FrontierOf(then.ID); len(got) != 1 || got[0] != use.ID {
		t.Errorf("DF(then) = %v, want [%d]", got, use.ID)
	}
}

func TestIfWithoutElseReachesJoin(t *testing.T) {
	b := buildFromSource(t, `package p

func f(c bool) {
	if c {
		print(1)
	}
	print(2)
}
`)
	f := b.getFunc(t, "f")
	join := blockOf(t, f, findStmt(t, f.Decl, "print(2)"))
	if join.NumPreds() != 2 {
		t.Errorf("join has %d preds, want 2\n%s", join.NumPreds(), flow.Sprint(f))
	}
}

func TestConstantConditions(t *testing.T) {
	b := buildFromSource(t, `package p

func f() {
	if false {
		print(1)
	}
	if true {
		return
	}
	print(2)
	print(3)
}
`)
	b.expectDiags(t,
		b.at(t, "print(1)", diag.SeverityWarning, "unreachable code detected"),
		b.at(t, "print(2)", diag.SeverityWarning, "unreachable code detected"),
	)
	f := b.getFunc(t, "f")
	for _, s := range []string{"print(1)", "print(2)", "print(3)"} {
		st := findStmt(t, f.Decl, s)
		if !st.Unreachable() {
			t.Errorf("%s not marked unreachable", s)
		}
		if !st.(*syntax.ExprStmt).X.Unreachable() {
			t.Errorf("expression of %s not marked unreachable", s)
		}
		if f.BlockOf(st) != flow.NoBlock {
			t.Errorf("dead statement %s was added to a block", s)
		}
	}
	if f.EndReachable {
		t.Errorf("EndReachable set after unconditional return")
	}
}

func TestUnreachableRuns(t *testing.T) {
	b := buildFromSource(t, `package p

func f(c bool) {
	if c {
		return
		print(1)
		print(2)
	} else {
		return
		print(3)
	}
}
`)
	b.expectDiags(t,
		b.at(t, "print(1)", diag.SeverityWarning, "unreachable code detected"),
		b.at(t, "print(3)", diag.SeverityWarning, "unreachable code detected"),
	)
}

func TestEmptyStatementsNotReported(t *testing.T) {
	b := buildFromSource(t, `package p

func f() {
	return
	{
	}
}
`)
	b.expectDiags(t)
	if !b.getFunc(t, "f").Decl.Body.Stmts[1].Unreachable() {
		t.Errorf("dead block not marked unreachable")
	}
}

func TestInfiniteLoops(t *testing.T) {
	b := buildFromSource(t, `package p

func forever() {
	for {
	}
	print(1)
}

func breaks() {
	for {
		break
		print(2)
	}
	print(3)
}

func whileTrue() {
	for true {
		break
	}
	print(4)
}

func never() {
	for false {
		print(5)
	}
}
`)
	b.expectDiags(t,
		b.at(t, "print(1)", diag.SeverityWarning, "unreachable code detected"),
		b.at(t, "print(2)", diag.SeverityWarning, "unreachable code detected"),
		b.at(t, "print(5)", diag.SeverityWarning, "unreachable code detected"),
	)

	f := b.getFunc(t, "forever")
	if f.EndReachable || f.Blocks[f.Return].NumPreds() != 0 {
		t.Errorf("end of infinite loop reaches return")
	}

	f = b.getFunc(t, "whileTrue")
	after := blockOf(t, f, findStmt(t, f.Decl, "print(4)"))
	if after.Kind != flow.BlockBreak || after.NumPreds() != 1 {
		t.Errorf("print(4) in %s (%s) with %d preds, want after-loop block entered only by break",
			after, after.Kind, after.NumPreds())
	}
}

func TestBreakOutOfConstantTrueLoop(t *testing.T) {
	b := buildFromSource(t, `package p

func f() {
	for true {
		break
	}
	print(1)
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")
	st := findStmt(t, f.Decl, "print(1)")
	if st.Unreachable() {
		t.Errorf("statement after the loop marked unreachable")
	}
	if blk := blockOf(t, f, st); !blk.HasSucc(f.Return) {
		t.Errorf("statement after the loop does not reach return\n%s", flow.Sprint(f))
	}
	if !f.EndReachable {
		t.Errorf("EndReachable not set after breaking out of the loop")
	}
}

func TestThreeClauseLoop(t *testing.T) {
	b := buildFromSource(t, `package p

func f(c bool) {
	for i := 0; i < 10; i = i + 1 {
		if c {
			continue
		}
		print(i)
	}
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")

	post := blockOf(t, f, findStmt(t, f.Decl, "i = i + 1"))
	if post.Kind != flow.BlockPost {
		t.Fatalf("post statement in %s block, want post", post.Kind)
	}
	cont := blockOf(t, f, findStmt(t, f.Decl, "continue"))
	if !cont.HasSucc(post.ID) {
		t.Errorf("continue does not jump to the post block\n%s", flow.Sprint(f))
	}
	if post.NumPreds() != 2 || !hasSucc(f, post, flow.BlockLoop) {
		t.Errorf("post block has %d preds and succs %v, want 2 preds and the loop header", post.NumPreds(), post.Succs)
	}
}

func TestForeach(t *testing.T) {
	b := buildFromSource(t, `package p

func f(xs []int) {
	for x in xs {
		if x > 1 {
			continue
		}
		print(x)
	}
	print(0)
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")

	loop := blockOf(t, f, findStmt(t, f.Decl, "for x in ..."))
	if loop.Kind != flow.BlockLoop {
		t.Errorf("foreach in %s block, want loop", loop.Kind)
	}
	after := blockOf(t, f, findStmt(t, f.Decl, "print(0)"))
	if after.Kind != flow.BlockBreak || after.NumPreds() != 1 || !loop.HasSucc(after.ID) {
		t.Errorf("after-loop is not entered from the loop header alone\n%s", flow.Sprint(f))
	}
	cont := blockOf(t, f, findStmt(t, f.Decl, "continue"))
	if !cont.HasSucc(loop.ID) {
		t.Errorf("continue does not return to the loop header\n%s", flow.Sprint(f))
	}
	end := blockOf(t, f, findStmt(t, f.Decl, "print(x)"))
	if !end.HasSucc(loop.ID) {
		t.Errorf("end of body does not return to the loop header\n%s", flow.Sprint(f))
	}
}

func TestSwitchMissingBreak(t *testing.T) {
	b := buildFromSource(t, `package p

func f(k int) {
	switch k {
	case 1:
		print(1)
	case 2:
		print(2)
		break
	default:
		return
	}
	print(3)
}
`)
	b.expectDiags(t,
		b.at(t, "case 1:", diag.SeverityError, "missing break statement at end of switch section"),
	)
	f := b.getFunc(t, "f")

	// Later sections are still analyzed.
	sec := blockOf(t, f, findStmt(t, f.Decl, "print(2)"))
	if sec.Kind != flow.BlockBranch {
		t.Errorf("second section in %s block, want branch", sec.Kind)
	}
	after := blockOf(t, f, findStmt(t, f.Decl, "print(3)"))
	if after.NumPreds() != 2 {
		t.Errorf("after-switch has %d preds, want 2", after.NumPreds())
	}
}

func TestSwitchEmptySections(t *testing.T) {
	b := buildFromSource(t, `package p

func f(k int) {
	switch k {
	case 1:
	case 2:
		break
	case 3:
	}
}
`)
	b.expectDiags(t,
		b.at(t, "case 3:", diag.SeverityError, "missing break statement at end of switch section"),
	)
	sw := b.getFunc(t, "f").Decl.Body.Stmts[0].(*syntax.SwitchStmt)
	if len(sw.Body) != 2 {
		t.Errorf("switch has %d sections, want 2: consecutive labels share a section", len(sw.Body))
	}
}

func TestSwitchWithoutDefault(t *testing.T) {
	b := buildFromSource(t, `package p

func f(k int) {
	switch k {
	case 1:
		return
	}
	print(1)
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")
	after := blockOf(t, f, findStmt(t, f.Decl, "print(1)"))
	if after.NumPreds() != 1 {
		t.Errorf("after-switch has %d preds, want the tag block only", after.NumPreds())
	}
}

func TestMissingReturn(t *testing.T) {
	b := buildFromSource(t, `package p

func f(c bool) int {
	if c {
		return 1
	}
}

func g(c bool) int {
	if c {
		return 1
	} else {
		return 2
	}
}
`)
	b.expectDiags(t,
		fmt.Sprintf("%d: error: missing return statement at end of subroutine body", b.lineOf(t, "}\n\nfunc g")),
	)
	f := b.getFunc(t, "f")
	if !f.EndReachable || !b.info.Funcs[f.Decl].EndReachable {
		t.Errorf("EndReachable not set on a body whose end is reachable")
	}
	if g := b.getFunc(t, "g"); g.EndReachable {
		t.Errorf("EndReachable set on g, whose branches all return")
	}
	if n := f.Blocks[f.Return].NumPreds(); n != 1 {
		t.Errorf("return block has %d preds, want only the return statement", n)
	}
}

func TestBranchOutsideLoop(t *testing.T) {
	b := buildFromSource(t, `package p

func f() {
	break
}

func g() {
	continue
}
`)
	b.expectDiags(t,
		b.at(t, "break", diag.SeverityError, "no enclosing loop or switch statement found"),
		b.at(t, "continue", diag.SeverityError, "no enclosing loop found"),
	)
}

func TestReturnThroughFinally(t *testing.T) {
	b := buildFromSource(t, `package p

func f() int {
	try {
		return 1
	} finally {
		print(0)
	}
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")

	ret := blockOf(t, f, findStmt(t, f.Decl, "return 1"))
	fin := blockOf(t, f, findStmt(t, f.Decl, "print(0)"))
	if fin.Kind != flow.BlockFinally {
		t.Fatalf("finally body in %s block, want finally", fin.Kind)
	}
	if ret.HasSucc(f.Return) || !ret.HasSucc(fin.ID) {
		t.Errorf("return does not go through the finally clause\n%s", flow.Sprint(f))
	}
	if !fin.HasSucc(f.Return) {
		t.Errorf("finally clause does not continue to the return block\n%s", flow.Sprint(f))
	}
	if !f.Dominates(fin.ID, f.Return) {
		t.Errorf("finally entry does not dominate the return block")
	}
}

func TestJumpOutOfFinally(t *testing.T) {
	b := buildFromSource(t, `package p

func f() {
	try {
		print(1)
	} finally {
		return
	}
}

func g() {
	for {
		try {
			print(1)
		} finally {
			break
		}
	}
}
`)
	b.expectDiags(t,
		b.at(t, "return", diag.SeverityError, "jump out of finally block not permitted"),
		b.at(t, "break", diag.SeverityError, "jump out of finally block not permitted"),
	)
	for _, name := range []string{"f", "g"} {
		if !errors.Is(b.errs[name], flow.ErrAborted) {
			t.Errorf("Build(%s) error = %v, want ErrAborted", name, b.errs[name])
		}
	}
}

func TestJumpInsideFinally(t *testing.T) {
	b := buildFromSource(t, `package p

func f(xs []int) {
	try {
		print(1)
	} finally {
		for x in xs {
			if x > 0 {
				break
			}
		}
	}
}
`)
	b.expectDiags(t)
	b.getFunc(t, "f")
}

func TestCatchClauses(t *testing.T) {
	b := buildFromSource(t, `package p

errordomain E { A, B }

func g() throws E {
}

func f() {
	try {
		g()
	} catch (e E.A) {
		print(1)
	} catch (e E.B) {
		print(2)
	}
}
`)
	b.expectDiags(t)
	f := b.getFunc(t, "f")

	call := forkOf(t, f, findStmt(t, f.Decl, "g()"))
	a := blockOf(t, f, findStmt(t, f.Decl, "print(1)"))
	bb := blockOf(t, f, findStmt(t, f.Decl, "print(2)"))
	if !call.HasSucc(a.ID) || !call.HasSucc(bb.ID) {
		t.Errorf("partially matching catch clauses do not all get an edge\n%s", flow.Sprint(f))
	}
	if !call.HasSucc(f.Exit) {
		t.Errorf("error not covered by any catch does not escape to exit\n%s", flow.Sprint(f))
	}
	if a.Kind != flow.BlockCatch {
		t.Errorf("catch body in %s block, want catch", a.Kind)
	}
}

func TestCatchCoveringError(t *testing.T) {
	b := buildFromSource(t, `package p

errordomain E { A }

func g() throws E.A {
}

func f() {
	try {
		g()
	} catch (e E) {
		print(e)
	} catch {
		print(2)
	}
}
`)
	b.expectDiags(t,
		b.at(t, "catch {", diag.SeverityWarning, "unreachable catch clause detected"),
	)
	f := b.getFunc(t, "f")
	call := forkOf(t, f, findStmt(t, f.Decl, "g()"))
	if call.HasSucc(f.Exit) {
		t.Errorf("covered error still escapes to exit")
	}
	st := findStmt(t, f.Decl, "print(2)")
	if !st.Unreachable() {
		t.Errorf("body of unreachable catch not marked")
	}
}

func TestDoubleCatch(t *testing.T) {
	b := buildFromSource(t, `package p

errordomain E { A }

func g() throws E {
}

func f() {
	try {
		g()
	} catch (e E) {
	} catch (x E) {
	}
}
`)
	line := b.lineOf(t, "catch (x E)")
	b.expectDiags(t,
		fmt.Sprintf("%d: error: double catch clause of same error detected", line),
		fmt.Sprintf("%d: warning: unreachable catch clause detected", line),
	)
}

func TestThrow(t *testing.T) {
	b := buildFromSource(t, `package p

errordomain E { A }

func f() {
	try {
		throw E.A()
		print(1)
	} catch (e E) {
		print(e)
	}
	print(2)
}

func g() throws E {
	throw E.A()
}
`)
	b.expectDiags(t,
		b.at(t, "print(1)", diag.SeverityWarning, "unreachable code detected"),
	)
	f := b.getFunc(t, "f")
	throw := blockOf(t, f, findStmt(t, f.Decl, "throw E.A()"))
	if len(throw.Succs) != 1 || f.Blocks[throw.Succs[0]].Kind != flow.BlockCatch {
		t.Errorf("throw succs = %v, want only the catch clause", throw.Succs)
	}

	g := b.getFunc(t, "g")
	throw = blockOf(t, g, findStmt(t, g.Decl, "throw E.A()"))
	if len(throw.Succs) != 1 || throw.Succs[0] != g.Exit {
		t.Errorf("uncaught throw succs = %v, want exit", throw.Succs)
	}
	if g.EndReachable {
		t.Errorf("EndReachable set after throw")
	}
}

func TestRaisingCallSplitsBlock(t *testing.T) {
	b := buildFromSource(t, `package p

errordomain E { A }

func g() throws E {
}

func f() {
	print(1)
	g()
	print(2)
}
`)
	f := b.getFunc(t, "f")
	call := blockOf(t, f, findStmt(t, f.Decl, "g()"))
	before := blockOf(t, f, findStmt(t, f.Decl, "print(1)"))
	next := blockOf(t, f, findStmt(t, f.Decl, "print(2)"))
	if call == before {
		t.Fatalf("raising call shares the block of the statement before it")
	}
	if call != next {
		t.Errorf("statement after a raising call starts a new block")
	}
	if fork := forkOf(t, f, findStmt(t, f.Decl, "g()")); fork != before {
		t.Errorf("error edges leave from b%d, want b%d", fork.ID, before.ID)
	}
	if !before.HasSucc(call.ID) || !before.HasSucc(f.Exit) {
		t.Errorf("succs before the call = %v, want call block and exit", before.Succs)
	}
	if call.HasSucc(f.Exit) {
		t.Errorf("error edge leaves after the call\n%s", flow.Sprint(f))
	}
}

func TestPrintAndExport(t *testing.T) {
	b := buildFromSource(t, `package p

func f(c bool) {
	if c {
		print("a\"b")
	}
}
`)
	f := b.getFunc(t, "f")

	text := flow.Sprint(f)
	for _, want := range []string{"func f:", "(entry)", "(return)", "(exit)", "idom b", "print(\"a\\\"b\")"} {
		if !strings.Contains(text, want) {
			t.Errorf("Sprint output missing %q:\n%s", want, text)
		}
	}

	var yml strings.Builder
	if err := flow.ExportYAML(&yml, f); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	for _, want := range []string{"func: f", "kind: entry", "reachable: true", "end_reachable: true"} {
		if !strings.Contains(yml.String(), want) {
			t.Errorf("YAML output missing %q:\n%s", want, yml.String())
		}
	}

	var dot strings.Builder
	flow.ExportDot(&dot, f)
	for _, want := range []string{`digraph "f" {`, "b0 -> b3;", `print(\"a\\\"b\")`} {
		if !strings.Contains(dot.String(), want) {
			t.Errorf("dot output missing %q:\n%s", want, dot.String())
		}
	}
}

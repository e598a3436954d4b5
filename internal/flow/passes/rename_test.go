package passes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/resolve"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// analysis is a resolved file with the graph of each function after the
// default pipeline.
type analysis struct {
	src   string
	info  *resolve.Info
	diags *diag.Bag
	funcs map[string]*flow.Func
}

// analyzeSource parses, resolves and builds src, then runs the default
// passes with verification on every function.
func analyzeSource(t *testing.T, src string) *analysis {
	t.Helper()

	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	file, _ := syntax.Parse("test.kes", strings.NewReader(src), errh)
	if len(errs) > 0 {
		t.Fatalf("parse errors:\n%s", strings.Join(errs, "\n"))
	}
	info := resolve.NewInfo()
	resolve.Check("test.kes", file, &resolve.Config{Error: errh}, info)
	if len(errs) > 0 {
		t.Fatalf("resolve errors:\n%s", strings.Join(errs, "\n"))
	}

	a := &analysis{src: src, info: info, diags: &diag.Bag{}, funcs: make(map[string]*flow.Func)}
	for _, d := range file.Decls {
		fd, ok := d.(*syntax.FuncDecl)
		if !ok {
			continue
		}
		f, err := flow.Build(fd, info.Funcs[fd], info.Facts, a.diags)
		if err != nil {
			t.Fatalf("Build(%s): %v", fd.Name.Value, err)
		}
		if err := Run(f, Default(info.Facts, a.diags), Config{Verify: true}); err != nil {
			t.Fatalf("Run(%s): %v\n%s", f.Name, err, flow.Sprint(f))
		}
		a.funcs[f.Name] = f
	}
	return a
}

func (a *analysis) getFunc(t *testing.T, name string) *flow.Func {
	t.Helper()
	f, ok := a.funcs[name]
	if !ok {
		t.Fatalf("function %q not found", name)
	}
	return f
}

// at formats an expected diagnostic on the line of the first occurrence
// of marker.
func (a *analysis) at(t *testing.T, marker string, sev diag.Severity, msg string) string {
	t.Helper()
	i := strings.Index(a.src, marker)
	if i < 0 {
		t.Fatalf("marker %q not in source", marker)
	}
	return fmt.Sprintf("%d: %s: %s", strings.Count(a.src[:i], "\n")+1, sev, msg)
}

func (a *analysis) expectDiags(t *testing.T, want ...string) {
	t.Helper()
	var got []string
	for _, d := range a.diags.Sorted() {
		got = append(got, fmt.Sprintf("%d: %s: %s", d.Pos.Line(), d.Severity, d.Message))
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("diagnostics:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

// localVar returns the local or parameter of f with the given name.
func (a *analysis) localVar(t *testing.T, f *flow.Func, name string) *types.Var {
	t.Helper()
	var found *types.Var
	syntax.Inspect(f.Decl, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Name); ok && id.Value == name {
			if v, ok := a.info.Defs[id].(*types.Var); ok {
				found = v
			}
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("variable %q not declared in %s", name, f.Name)
	}
	return found
}

func phisFor(f *flow.Func, v *types.Var) []*flow.Phi {
	var phis []*flow.Phi
	for _, b := range f.Blocks {
		for _, p := range b.Phis {
			if p.Var == v {
				phis = append(phis, p)
			}
		}
	}
	return phis
}

func TestStraightLineHasNoPhis(t *testing.T) {
	a := analyzeSource(t, `package p

func f(a int) int {
	x := a
	y := x + 1
	x = y
	return x
}
`)
	a.expectDiags(t)
	f := a.getFunc(t, "f")
	if n := f.NumPhis(); n != 0 {
		t.Errorf("NumPhis = %d, want 0\n%s", n, flow.Sprint(f))
	}
	if a.localVar(t, f, "x").SingleAssignment {
		t.Errorf("x assigned twice but SingleAssignment is set")
	}
	if !a.localVar(t, f, "y").SingleAssignment {
		t.Errorf("y assigned once but SingleAssignment is not set")
	}
}

func TestIfElseMergesVersions(t *testing.T) {
	a := analyzeSource(t, `package p

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
	a.expectDiags(t)
	f := a.getFunc(t, "f")
	x := a.localVar(t, f, "x")

	phis := phisFor(f, x)
	if len(phis) != 1 {
		t.Fatalf("x has %d phis, want 1\n%s", len(phis), flow.Sprint(f))
	}
	phi := phis[0]
	if f.Blocks[phi.Block].Kind != flow.BlockJoin {
		t.Errorf("phi in %s block, want join", f.Blocks[phi.Block].Kind)
	}
	if len(phi.Operands) != 2 || phi.Operands[0] == nil || phi.Operands[1] == nil {
		t.Errorf("phi = %s, want two set operands", phi)
	}
	if phi.Result == nil || phi.Result.Phi != phi {
		t.Errorf("phi result not recorded")
	}
	if x.SingleAssignment {
		t.Errorf("x assigned on two branches but SingleAssignment is set")
	}
	if !x.Used {
		t.Errorf("x read but Used is not set")
	}
}

func TestIfWithoutElseIsUnassigned(t *testing.T) {
	a := analyzeSource(t, `package p

func f(c bool) {
	var x int
	if c {
		x = 1
	}
	print(x)
}
`)
	a.expectDiags(t,
		a.at(t, "print(x)", diag.SeverityError, "use of possibly unassigned local variable `x`"),
	)
	f := a.getFunc(t, "f")
	phis := phisFor(f, a.localVar(t, f, "x"))
	if len(phis) != 1 {
		t.Fatalf("x has %d phis, want 1", len(phis))
	}
	unset := 0
	for _, op := range phis[0].Operands {
		if op == nil {
			unset++
		}
	}
	if unset != 1 {
		t.Errorf("phi = %s, want exactly one unset operand", phis[0])
	}
}

func TestUseBeforeAssignment(t *testing.T) {
	a := analyzeSource(t, `package p

func f() {
	var x int
	print(x)
	x = 1
	print(x)
}
`)
	a.expectDiags(t,
		a.at(t, "print(x)", diag.SeverityError, "use of possibly unassigned local variable `x`"),
	)
}

func TestSingleAssignmentAcrossBranches(t *testing.T) {
	a := analyzeSource(t, `package p

func f(c bool) {
	x := 1
	if c {
		print(x)
	} else {
		print(x + 1)
	}
}
`)
	a.expectDiags(t)
	f := a.getFunc(t, "f")
	if !a.localVar(t, f, "x").SingleAssignment {
		t.Errorf("x assigned once but SingleAssignment is not set")
	}
}

func TestUnusedVariable(t *testing.T) {
	a := analyzeSource(t, `package p

func f() {
	x := 1
	y := 2
	print(y)
}
`)
	f := a.getFunc(t, "f")
	if a.localVar(t, f, "x").Used {
		t.Errorf("x never read but Used is set")
	}
	if !a.localVar(t, f, "y").Used {
		t.Errorf("y read but Used is not set")
	}
}

func TestLoopPaths(t *testing.T) {
	a := analyzeSource(t, `package p

func skipped(c bool) {
	var x int
	for c {
		x = 1
	}
	print(x)
}

func counted(c bool) {
	x := 0
	for c {
		x = x + 1
	}
	print(x)
}

func local(xs []int) {
	for v in xs {
		var y int
		y = v
		print(y)
	}
}
`)
	a.expectDiags(t,
		a.at(t, "print(x)", diag.SeverityError, "use of possibly unassigned local variable `x`"),
	)

	f := a.getFunc(t, "counted")
	x := a.localVar(t, f, "x")
	if x.SingleAssignment {
		t.Errorf("x reassigned in loop but SingleAssignment is set")
	}
	phis := phisFor(f, x)
	if len(phis) != 1 || f.Blocks[phis[0].Block].Kind != flow.BlockLoop {
		t.Errorf("want one phi for x at the loop header\n%s", flow.Sprint(f))
	}
}

func TestPhiOperandsFromUnassignedPathsAreReported(t *testing.T) {
	a := analyzeSource(t, `package p

func f(a bool, b bool) {
	var x int
	if a {
		x = 1
	} else if b {
		x = 2
	}
	var y int
	y = x
	print(y)
}
`)
	a.expectDiags(t,
		a.at(t, "y = x", diag.SeverityError, "use of possibly unassigned local variable `x`"),
	)

	// Every operand of a phi reached from a read is either set or the read
	// was reported.
	f := a.getFunc(t, "f")
	for _, phi := range phisFor(f, a.localVar(t, f, "x")) {
		for i, op := range phi.Operands {
			if op == nil && a.diags.Errors() == 0 {
				t.Errorf("%s: operand %d unset without a diagnostic", phi, i)
			}
		}
	}
}

func TestOutParameters(t *testing.T) {
	a := analyzeSource(t, `package p

func partial(c bool, out n int) {
	if c {
		n = 1
	}
}

func full(c bool, out n int) {
	if c {
		n = 1
		return
	}
	n = 2
}

func never(out n int) {
}
`)
	a.expectDiags(t,
		a.at(t, "}\n\nfunc full", diag.SeverityWarning, "use of possibly unassigned parameter `n`"),
		fmt.Sprintf("%d: %s: %s", strings.Count(a.src, "\n"), diag.SeverityWarning, "use of possibly unassigned parameter `n`"),
	)
}

func TestParametersAssignedOnEntry(t *testing.T) {
	a := analyzeSource(t, `package p

func f(a int, c bool) int {
	if c {
		a = a + 1
	}
	return a
}
`)
	a.expectDiags(t)
	f := a.getFunc(t, "f")
	if a.localVar(t, f, "a").SingleAssignment {
		t.Errorf("a assigned on entry and in the branch but SingleAssignment is set")
	}
}

func TestTryCatchAssignment(t *testing.T) {
	a := analyzeSource(t, `package p

errordomain E { A }

func g() throws E {
}

func f() {
	var x int
	try {
		g()
		x = 1
	} catch (e E) {
		print(e)
	}
	print(x)
}

func h() {
	var x int
	try {
		g()
		x = 1
	} catch {
		x = 2
	} finally {
		print(0)
	}
	print(x)
}
`)
	a.expectDiags(t,
		a.at(t, "print(x)", diag.SeverityError, "use of possibly unassigned local variable `x`"),
	)
}

func TestAssignmentFromRaisingCall(t *testing.T) {
	a := analyzeSource(t, `package p

errordomain IOError { DENIED }

func open() int throws IOError {
	return 1
}

func f() {
	var x int
	try {
		x = open()
	} catch (e IOError) {
		print(e)
	}
	print(x)
}

func g() {
	var y int
	try {
		y = open()
	} catch (e IOError) {
		y = 0
	}
	print(y)
}

func h() {
	var z int
	z = open()
	print(z)
}
`)
	a.expectDiags(t,
		a.at(t, "print(x)", diag.SeverityError, "use of possibly unassigned local variable `x`"),
	)
	f := a.getFunc(t, "f")
	if len(phisFor(f, a.localVar(t, f, "x"))) == 0 {
		t.Errorf("no phi merges x after the try statement\n%s", flow.Sprint(f))
	}
}

func TestInsertPhisIsolatesVariables(t *testing.T) {
	a := analyzeSource(t, `package p

func f(c bool) {
	var x int
	var y int
	if c {
		x = 1
	} else {
		x = 2
		y = 2
	}
	for c {
		y = 3
	}
	print(x)
}
`)
	f := a.getFunc(t, "f")
	x := a.localVar(t, f, "x")
	y := a.localVar(t, f, "y")

	if n := len(phisFor(f, x)); n != 1 {
		t.Errorf("x has %d phis, want 1\n%s", n, flow.Sprint(f))
	}
	// y: one at the if join and one at the loop header.
	if n := len(phisFor(f, y)); n != 2 {
		t.Errorf("y has %d phis, want 2\n%s", n, flow.Sprint(f))
	}
	for _, b := range f.Blocks {
		seen := make(map[*types.Var]bool)
		for _, p := range b.Phis {
			if seen[p.Var] {
				t.Errorf("%s has two phis for %s", b, p.Var.Name())
			}
			seen[p.Var] = true
		}
	}
	// y is never read, so its unset operands are not reported.
	a.expectDiags(t)
}

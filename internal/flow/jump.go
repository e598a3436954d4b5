package flow

import (
	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

type targetKind int

const (
	breakTarget targetKind = iota
	continueTarget
	returnTarget
	exitTarget
	errorTarget
	finallyTarget
	anyTarget // guards a finally clause: every jump reaching it is an error
)

// jumpTarget is an entry of the builder's jump stack.
type jumpTarget struct {
	kind  targetKind
	block ID

	// Error targets: the accepted error type and its catch clause.
	accepts *types.ErrorType
	clause  *syntax.CatchClause

	// Finally targets: the block control continues in once the finally
	// clause has run, NoBlock if the clause never completes.
	last ID
}

func (b *builder) push(t *jumpTarget) {
	b.targets = append(b.targets, t)
}

func (b *builder) pop(n int) {
	b.targets = b.targets[:len(b.targets)-n]
}

// jump transfers control from the cursor to the nearest target of kind,
// running every finally clause in between. It reports false if there is
// no such target.
func (b *builder) jump(s syntax.Stmt, kind targetKind) bool {
	for i := len(b.targets) - 1; i >= 0; i-- {
		t := b.targets[i]
		switch t.kind {
		case kind:
			b.fn.Connect(b.cur, t.block)
			b.markUnreachable()
			return true
		case finallyTarget:
			b.fn.Connect(b.cur, t.block)
			b.cur = t.last
		case anyTarget:
			b.errorf(diag.CodeJumpOutOfFinally, s.Pos(), "jump out of finally block not permitted")
			panic(bailout{})
		}
	}
	return false
}

func (b *builder) branchStmt(s *syntax.BranchStmt) {
	b.add(s)
	if s.Tok.IsBreak() {
		if !b.jump(s, breakTarget) {
			b.errorf(diag.CodeNoEnclosingLoop, s.Pos(), "no enclosing loop or switch statement found")
		}
		return
	}
	if !b.jump(s, continueTarget) {
		b.errorf(diag.CodeNoEnclosingLoop, s.Pos(), "no enclosing loop found")
	}
}

func (b *builder) returnStmt(s *syntax.ReturnStmt) {
	b.handleErrors(s, false)
	if !b.jump(s, returnTarget) {
		// Build pushes the return target before visiting the body.
		panic("flow: return outside of function body")
	}
}

func (b *builder) throwStmt(s *syntax.ThrowStmt) {
	b.handleErrors(s, true)
}

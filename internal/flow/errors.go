package flow

import (
	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// handleErrors appends n to the current block together with the
// exceptional edges of the error types n may raise. The edges fork from
// the block as it stood before n, so no error path sees what n assigns.
// Each error travels down the jump stack:
//
//	exit target          absorbs it
//	catch covering it    absorbs it
//	catch it may match   gets an edge, the search goes on
//	finally clause       is run, the search goes on from its end
//
// If alwaysFail is set, n ends the forking block and nothing follows it.
// Otherwise normal flow continues with n at the head of a new block.
func (b *builder) handleErrors(n syntax.Node, alwaysFail bool) {
	if alwaysFail {
		b.add(n)
	}
	raised := b.facts.Raises(n)
	if len(raised) == 0 {
		if alwaysFail {
			b.markUnreachable()
		} else {
			b.add(n)
		}
		return
	}

	fork := b.cur
	for _, et := range raised {
		b.cur = fork
		b.propagate(et)
	}

	if alwaysFail {
		b.markUnreachable()
		return
	}
	next := b.fn.NewBlock(BlockPlain).ID
	b.fn.Connect(fork, next)
	b.startAt(next)
	b.add(n)
}

func (b *builder) propagate(et *types.ErrorType) {
	for i := len(b.targets) - 1; i >= 0; i-- {
		t := b.targets[i]
		switch t.kind {
		case exitTarget:
			b.fn.Connect(b.cur, t.block)
			b.markUnreachable()
			return
		case errorTarget:
			if t.accepts.Covers(et) {
				b.fn.Connect(b.cur, t.block)
				b.markUnreachable()
				return
			}
			if et.Covers(t.accepts) {
				b.fn.Connect(b.cur, t.block)
			}
		case finallyTarget:
			b.fn.Connect(b.cur, t.block)
			b.cur = t.last
		}
	}
}

func (b *builder) tryStmt(s *syntax.TryStmt) {
	before := b.cur
	after := b.fn.NewBlock(BlockJoin).ID

	// The finally clause is built first so that jumps in the try body and
	// the catch clauses can be routed through it.
	var fin *jumpTarget
	if s.Finally != nil {
		entry := b.fn.NewBlock(BlockFinally).ID
		b.startAt(entry)
		b.push(&jumpTarget{kind: anyTarget, block: NoBlock})
		b.block(s.Finally)
		b.pop(1)
		fin = &jumpTarget{kind: finallyTarget, block: entry, last: b.cur}
		b.push(fin)
	}

	base := len(b.targets)
	catches := make([]*jumpTarget, len(s.Catches))
	for i := len(s.Catches) - 1; i >= 0; i-- {
		c := s.Catches[i]
		catches[i] = &jumpTarget{
			kind:    errorTarget,
			block:   b.fn.NewBlock(BlockCatch).ID,
			accepts: b.catchType(c),
			clause:  c,
		}
		b.push(catches[i])
	}

	b.startAt(before)
	b.block(s.Body)
	b.leaveTry(fin, after)
	b.targets = b.targets[:base]

	for i, t := range catches {
		for _, prev := range catches[:i] {
			if prev.accepts.Same(t.accepts) {
				b.errorf(diag.CodeDoubleCatch, t.clause.Pos(), "double catch clause of same error detected")
				break
			}
		}
		if b.fn.Blocks[t.block].NumPreds() == 0 {
			b.warnf(diag.CodeUnreachableCatch, t.clause.Pos(), "unreachable catch clause detected")
			markDead(t.clause)
			continue
		}
		b.startAt(t.block)
		b.add(t.clause)
		b.block(t.clause.Body)
		b.leaveTry(fin, after)
	}

	if fin != nil {
		b.pop(1)
	}
	b.continueAt(after)
}

// leaveTry routes the reachable end of a try body or catch clause through
// the finally clause, if any, into after.
func (b *builder) leaveTry(fin *jumpTarget, after ID) {
	if b.cur == NoBlock {
		return
	}
	if fin != nil {
		b.fn.Connect(b.cur, fin.block)
		b.cur = fin.last
	}
	b.fn.Connect(b.cur, after)
}

func (b *builder) catchType(c *syntax.CatchClause) *types.ErrorType {
	if et := b.facts.CatchType(c); et != nil {
		return et
	}
	return types.AnyError
}

// Package flow builds the control-flow graph of Kestrel functions and
// computes dominance information over it.
//
// The graph is built directly from the statement tree. Blocks hold syntax
// nodes rather than instructions: definite assignment and reachability are
// the only questions asked of it.
package flow

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// ErrAborted is returned by Build when a jump out of a finally clause makes
// the graph meaningless. The error itself has been reported to the Bag.
var ErrAborted = errors.New("flow analysis aborted")

// bailout unwinds the builder after a fatal diagnostic.
type bailout struct{}

// builder holds the state for building the graph of a single function.
type builder struct {
	fn    *Func
	facts Facts
	diags *diag.Bag

	// cur is the block being filled, NoBlock while the code being visited
	// is unreachable.
	cur ID

	// reported latches the unreachable-code warning for the current run
	// of dead statements.
	reported bool

	targets []*jumpTarget
}

// Build constructs the control-flow graph of fd, reporting structural
// diagnostics to diags and marking dead syntax nodes unreachable. obj may
// be nil; otherwise its EndReachable flag is set.
func Build(fd *syntax.FuncDecl, obj *types.Func, facts Facts, diags *diag.Bag) (f *Func, err error) {
	if fd.Body == nil {
		return nil, fmt.Errorf("flow: function %s has no body", fd.Name.Value)
	}

	f = NewFunc(fd.Name.Value)
	f.Decl = fd
	f.Obj = obj

	b := &builder{fn: f, facts: facts, diags: diags, cur: NoBlock}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			f, err = nil, ErrAborted
		}
	}()
	b.function(fd)

	if obj != nil {
		obj.EndReachable = f.EndReachable
	}
	return f, nil
}

func (b *builder) function(fd *syntax.FuncDecl) {
	f := b.fn

	ret := f.NewBlock(BlockReturn)
	f.Return = ret.ID
	exit := f.NewBlock(BlockExit)
	f.Exit = exit.ID
	f.Connect(ret.ID, exit.ID)

	// The body node stands for the implicit reads of the out parameters
	// when the function returns.
	ret.Add(fd.Body)

	first := f.NewBlock(BlockPlain)
	f.Connect(f.Entry, first.ID)
	b.startAt(first.ID)
	b.add(fd)

	b.push(&jumpTarget{kind: returnTarget, block: ret.ID})
	b.push(&jumpTarget{kind: exitTarget, block: exit.ID})
	b.stmtList(fd.Body.Stmts)
	b.pop(2)

	if b.cur == NoBlock {
		return
	}
	f.EndReachable = true
	if fd.Result != nil {
		b.errorf(diag.CodeMissingReturn, fd.Body.Rbrace, "missing return statement at end of subroutine body")
		return
	}
	f.Connect(b.cur, ret.ID)
}

// ----------------------------------------------------------------------------
// Cursor

func (b *builder) add(n syntax.Node) {
	b.fn.Blocks[b.cur].Add(n)
}

// startAt makes id the current block. Code from here on is reachable.
func (b *builder) startAt(id ID) {
	b.cur = id
	b.reported = false
}

func (b *builder) markUnreachable() {
	b.cur = NoBlock
	b.reported = false
}

// continueAt moves the cursor to a merge block, which is unreachable if
// nothing jumped to it.
func (b *builder) continueAt(id ID) {
	if b.fn.Blocks[id].NumPreds() == 0 {
		b.markUnreachable()
		return
	}
	b.startAt(id)
}

// branch opens a new block entered from the end of from.
func (b *builder) branch(from ID, kind BlockKind) {
	blk := b.fn.NewBlock(kind)
	b.fn.Connect(from, blk.ID)
	b.startAt(blk.ID)
}

// unreachable reports whether n is dead code. Dead nodes are marked along
// with everything under them; the first of a run gets a warning.
func (b *builder) unreachable(n syntax.Node) bool {
	if b.cur != NoBlock {
		return false
	}
	markDead(n)
	if !b.reported {
		b.warnf(diag.CodeUnreachableCode, n.Pos(), "unreachable code detected")
		b.reported = true
	}
	return true
}

func markDead(n syntax.Node) {
	syntax.Inspect(n, func(m syntax.Node) bool {
		m.MarkUnreachable()
		return true
	})
}

func (b *builder) errorf(code diag.Code, pos syntax.Pos, format string, args ...interface{}) {
	b.diags.Errorf(diag.StageFlow, code, pos, format, args...)
}

func (b *builder) warnf(code diag.Code, pos syntax.Pos, format string, args ...interface{}) {
	b.diags.Warningf(diag.StageFlow, code, pos, format, args...)
}

// ----------------------------------------------------------------------------
// Statements

func (b *builder) stmtList(list []syntax.Stmt) {
	for _, s := range list {
		b.stmt(s)
	}
}

// block visits the statements of a braced block. An empty block is never
// reported as dead code on its own.
func (b *builder) block(s *syntax.BlockStmt) {
	if b.cur == NoBlock {
		s.MarkUnreachable()
	}
	b.stmtList(s.Stmts)
}

func (b *builder) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.BlockStmt:
		b.block(s)
		return
	case *syntax.EmptyStmt:
		if b.cur == NoBlock {
			s.MarkUnreachable()
		}
		return
	}

	if b.unreachable(s) {
		return
	}

	switch s := s.(type) {
	case *syntax.ExprStmt, *syntax.AssignStmt, *syntax.DeclStmt:
		b.handleErrors(s, false)
	case *syntax.IfStmt:
		b.ifStmt(s)
	case *syntax.ForStmt:
		b.forStmt(s)
	case *syntax.ForeachStmt:
		b.foreachStmt(s)
	case *syntax.SwitchStmt:
		b.switchStmt(s)
	case *syntax.BranchStmt:
		b.branchStmt(s)
	case *syntax.ReturnStmt:
		b.returnStmt(s)
	case *syntax.ThrowStmt:
		b.throwStmt(s)
	case *syntax.TryStmt:
		b.tryStmt(s)
	default:
		panic(fmt.Sprintf("flow: unexpected statement %T", s))
	}
}

// cond appends a condition or tag expression along with its error edges.
func (b *builder) cond(x syntax.Expr) {
	b.handleErrors(x, false)
}

func (b *builder) ifStmt(s *syntax.IfStmt) {
	b.cond(s.Cond)
	before := b.cur
	val, isConst := b.facts.BoolConst(s.Cond)

	if isConst && !val {
		b.markUnreachable()
	} else {
		b.branch(before, BlockBranch)
	}
	b.block(s.Then)
	thenEnd := b.cur

	if isConst && val {
		b.markUnreachable()
	} else {
		b.branch(before, BlockBranch)
	}
	if s.Else != nil {
		b.stmt(s.Else)
	}
	elseEnd := b.cur

	if thenEnd == NoBlock && elseEnd == NoBlock {
		b.markUnreachable()
		return
	}
	join := b.fn.NewBlock(BlockJoin).ID
	b.fn.Connect(thenEnd, join)
	b.fn.Connect(elseEnd, join)
	b.startAt(join)
}

// forStmt handles the three loop forms:
//
//	for { }                   body in the loop block, left only by break
//	for cond { }              cond in the loop header
//	for init; cond; post { }  as above, continue goes to the post block
//
// A constant true condition makes the loop infinite, a constant false one
// makes the body dead.
func (b *builder) forStmt(s *syntax.ForStmt) {
	if s.Init != nil {
		b.stmt(s.Init)
	}

	header := b.fn.NewBlock(BlockLoop).ID
	b.fn.Connect(b.cur, header)
	b.startAt(header)

	infinite, never := s.Cond == nil, false
	if s.Cond != nil {
		b.cond(s.Cond)
		if val, ok := b.facts.BoolConst(s.Cond); ok {
			infinite, never = val, !val
		}
	}
	condEnd := b.cur

	after := b.fn.NewBlock(BlockBreak).ID
	cont, post := header, NoBlock
	if s.Post != nil {
		post = b.fn.NewBlock(BlockPost).ID
		cont = post
	}
	b.push(&jumpTarget{kind: continueTarget, block: cont})
	b.push(&jumpTarget{kind: breakTarget, block: after})

	if !infinite {
		b.fn.Connect(condEnd, after)
	}
	switch {
	case never:
		b.markUnreachable()
	case s.Cond != nil:
		b.branch(condEnd, BlockBranch)
	}
	b.block(s.Body)

	if post != NoBlock {
		b.fn.Connect(b.cur, post)
		if b.fn.Blocks[post].NumPreds() > 0 {
			b.startAt(post)
			b.handleErrors(s.Post, false)
		} else {
			markDead(s.Post)
		}
	}
	b.fn.Connect(b.cur, header)

	b.pop(2)
	b.continueAt(after)
}

// foreachStmt builds a loop whose header fetches the next element: it
// defines the loop variable and leaves the loop once the sequence is
// exhausted.
func (b *builder) foreachStmt(s *syntax.ForeachStmt) {
	b.cond(s.X)

	loop := b.fn.NewBlock(BlockLoop).ID
	after := b.fn.NewBlock(BlockBreak).ID
	b.push(&jumpTarget{kind: continueTarget, block: loop})
	b.push(&jumpTarget{kind: breakTarget, block: after})

	b.fn.Connect(b.cur, loop)
	b.startAt(loop)
	b.add(s)
	b.fn.Connect(loop, after)

	b.branch(loop, BlockBranch)
	b.block(s.Body)
	b.fn.Connect(b.cur, loop)

	b.pop(2)
	b.startAt(after)
}

func (b *builder) switchStmt(s *syntax.SwitchStmt) {
	after := b.fn.NewBlock(BlockJoin).ID
	b.push(&jumpTarget{kind: breakTarget, block: after})

	b.cond(s.Tag)
	tag := b.cur

	hasDefault := false
	for _, c := range s.Body {
		b.branch(tag, BlockBranch)
		b.handleErrors(c, false)
		b.stmtList(c.Body)
		if c.Default {
			hasDefault = true
		}
		if b.cur != NoBlock {
			b.errorf(diag.CodeMissingBreak, c.Pos(), "missing break statement at end of switch section")
			b.fn.Connect(b.cur, after)
		}
	}
	if !hasDefault {
		b.fn.Connect(tag, after)
	}

	b.pop(1)
	b.continueAt(after)
}

package flow

import (
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// Func is the control-flow graph of one function.
type Func struct {
	// Name is the function name.
	Name string

	// Decl is the declaration the graph was built from, and Obj its
	// object. Both are nil for graphs assembled by hand.
	Decl *syntax.FuncDecl
	Obj  *types.Func

	// Blocks is the block arena, indexed by ID. Blocks[0] is the entry.
	Blocks []*Block

	// Entry has no nodes and a single edge to the first body block.
	// Return collects every return and the fall-through end of the body,
	// and continues to Exit. Errors that escape the function go straight
	// to Exit.
	Entry  ID
	Return ID
	Exit   ID

	// EndReachable is set when control can fall off the end of the body.
	EndReachable bool

	// rpo lists the reachable blocks in reverse postorder, set by
	// ComputeDom.
	rpo []ID
}

// NewFunc creates a function with an entry block and no other blocks.
func NewFunc(name string) *Func {
	f := &Func{Name: name, Return: NoBlock, Exit: NoBlock}
	f.Entry = f.NewBlock(BlockEntry).ID
	return f
}

// NewBlock creates a new block and appends it to the arena.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{ID: ID(len(f.Blocks)), Kind: kind, Idom: NoBlock}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Block returns the block with the given ID.
func (f *Func) Block(id ID) *Block {
	return f.Blocks[id]
}

// Connect adds the edge from -> to. Connecting an already connected pair,
// or connecting from NoBlock, does nothing.
func (f *Func) Connect(from, to ID) {
	if from == NoBlock {
		return
	}
	b := f.Blocks[from]
	if b.HasSucc(to) {
		return
	}
	b.Succs = append(b.Succs, to)
	s := f.Blocks[to]
	s.Preds = append(s.Preds, from)
}

// Reachable reports whether b is reachable from the entry.
// ComputeDom must have been called first.
func (f *Func) Reachable(b ID) bool {
	return b == f.Entry || f.Blocks[b].Idom != NoBlock
}

// ReversePostOrder returns the reachable blocks in reverse postorder as
// computed by the last ComputeDom.
func (f *Func) ReversePostOrder() []ID {
	return f.rpo
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumPhis returns the number of phi functions across all blocks.
func (f *Func) NumPhis() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Phis)
	}
	return n
}

// BlockOf returns the block holding n, or NoBlock.
func (f *Func) BlockOf(n syntax.Node) ID {
	for _, b := range f.Blocks {
		for _, m := range b.Nodes {
			if m == n {
				return b.ID
			}
		}
	}
	return NoBlock
}

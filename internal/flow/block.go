package flow

import (
	"fmt"

	"golang.org/x/tools/container/intsets"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

// ID identifies a block within its Func. Blocks refer to each other by ID
// only; Func.Blocks is the arena.
type ID int

// NoBlock is the unreachable cursor of the builder and the Idom of the
// entry block and of unreachable blocks.
const NoBlock ID = -1

// BlockKind records what a block was created for. It only affects printing.
type BlockKind int

const (
	BlockPlain BlockKind = iota
	BlockEntry
	BlockReturn
	BlockExit
	BlockBranch  // then/else arm or switch section
	BlockJoin    // after if, after switch, after try
	BlockLoop    // loop header or foreach body
	BlockPost    // post statement of a three-clause loop
	BlockBreak   // after loop
	BlockCatch   // catch clause entry
	BlockFinally // finally clause entry
)

var blockKindNames = [...]string{
	BlockPlain:   "plain",
	BlockEntry:   "entry",
	BlockReturn:  "return",
	BlockExit:    "exit",
	BlockBranch:  "branch",
	BlockJoin:    "join",
	BlockLoop:    "loop",
	BlockPost:    "post",
	BlockBreak:   "after-loop",
	BlockCatch:   "catch",
	BlockFinally: "finally",
}

// String returns the string representation of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a basic block: a straight-line sequence of syntax nodes.
//
// The order of Preds is load-bearing: operand i of every phi hosted by the
// block belongs to the edge from Preds[i].
type Block struct {
	ID   ID
	Kind BlockKind

	// Nodes are the statements and expressions executed by the block, in
	// order. Compound statements contribute only their header node.
	Nodes []syntax.Node

	Preds []ID
	Succs []ID

	// Dominator tree, populated by ComputeDom. Idom is NoBlock for the
	// entry and for unreachable blocks.
	Idom     ID
	Dominees []ID

	// Frontier is the dominance frontier, populated by ComputeFrontier.
	Frontier intsets.Sparse

	// Phis are the phi functions hosted by the block.
	Phis []*Phi

	postorder int
	visited   bool
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// Add appends n to the block.
func (b *Block) Add(n syntax.Node) {
	b.Nodes = append(b.Nodes, n)
}

// PredIndex returns the index of p in b.Preds, or -1.
func (b *Block) PredIndex(p ID) int {
	for i, id := range b.Preds {
		if id == p {
			return i
		}
	}
	return -1
}

// HasSucc reports whether s is a successor of b.
func (b *Block) HasSucc(s ID) bool {
	for _, id := range b.Succs {
		if id == s {
			return true
		}
	}
	return false
}

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

package passes

import (
	"golang.org/x/tools/container/intsets"

	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/types"
)

// InsertPhis places a phi for every variable at the iterated dominance
// frontier of the blocks defining it. Only reachable blocks are
// considered. ComputeFrontier must have been called first.
func InsertPhis(f *flow.Func, facts flow.Facts) {
	vars, defBlocks := collectDefs(f, facts)

	// hasAlready[b] and work[b] hold the generation in which b last got a
	// phi for the current variable and was last queued. Bumping the
	// generation per variable resets both without clearing them.
	hasAlready := make([]int, len(f.Blocks))
	work := make([]int, len(f.Blocks))
	gen := 0

	var worklist []flow.ID
	for _, v := range vars {
		gen++
		worklist = worklist[:0]
		for _, b := range defBlocks[v].AppendTo(nil) {
			work[b] = gen
			worklist = append(worklist, flow.ID(b))
		}
		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, d := range f.FrontierOf(b) {
				if hasAlready[d] == gen {
					continue
				}
				f.NewPhi(v, d)
				hasAlready[d] = gen
				if work[d] != gen {
					work[d] = gen
					worklist = append(worklist, d)
				}
			}
		}
	}
}

// collectDefs returns the variables defined in reachable blocks, in order
// of first definition by block ID, with the set of blocks defining each.
func collectDefs(f *flow.Func, facts flow.Facts) ([]*types.Var, map[*types.Var]*intsets.Sparse) {
	var vars []*types.Var
	defBlocks := make(map[*types.Var]*intsets.Sparse)
	for _, b := range f.Blocks {
		if !f.Reachable(b.ID) {
			continue
		}
		for _, n := range b.Nodes {
			for _, v := range facts.Defs(n) {
				s, ok := defBlocks[v]
				if !ok {
					s = new(intsets.Sparse)
					defBlocks[v] = s
					vars = append(vars, v)
				}
				s.Insert(int(b.ID))
			}
		}
	}
	return vars, defBlocks
}

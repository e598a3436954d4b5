package flow

import (
	"fmt"
	"strings"
)

// Verify checks the structural integrity of a function graph.
// It returns an error describing all violations found, or nil if valid.
//
// Dominator and phi checks apply once ComputeDom has run.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if len(f.Blocks) == 0 {
		add("func %s: no blocks", f.Name)
		return combineErrors(errs)
	}

	valid := func(id ID) bool { return id >= 0 && int(id) < len(f.Blocks) }

	if f.Entry != 0 {
		add("func %s: entry is %s, want b0", f.Name, f.Blocks[0])
	}
	if len(f.Blocks[0].Preds) != 0 {
		add("func %s: entry block has %d predecessors, want 0", f.Name, len(f.Blocks[0].Preds))
	}
	if f.Return != NoBlock && f.Exit != NoBlock {
		if !valid(f.Return) || !valid(f.Exit) {
			add("func %s: return or exit block out of range", f.Name)
			return combineErrors(errs)
		}
		if !f.Blocks[f.Return].HasSucc(f.Exit) {
			add("func %s: return block %s does not continue to exit %s", f.Name, f.Blocks[f.Return], f.Blocks[f.Exit])
		}
		if n := len(f.Blocks[f.Exit].Succs); n != 0 {
			add("func %s: exit block has %d successors, want 0", f.Name, n)
		}
	}

	for i, b := range f.Blocks {
		// 1. Arena index matches ID
		if b.ID != ID(i) {
			add("func %s: block at index %d has ID %d", f.Name, i, b.ID)
			continue
		}

		// 2. Succs/Preds edge consistency, no duplicate edges
		seen := make(map[ID]bool, len(b.Succs))
		for _, s := range b.Succs {
			if !valid(s) {
				add("func %s, %s: successor b%d not in function", f.Name, b, s)
				continue
			}
			if seen[s] {
				add("func %s, %s: duplicate edge to %s", f.Name, b, f.Blocks[s])
			}
			seen[s] = true
			if f.Blocks[s].PredIndex(b.ID) < 0 {
				add("func %s, %s: successor %s does not have %s as predecessor", f.Name, b, f.Blocks[s], b)
			}
		}
		for _, p := range b.Preds {
			if !valid(p) {
				add("func %s, %s: predecessor b%d not in function", f.Name, b, p)
				continue
			}
			if !f.Blocks[p].HasSucc(b.ID) {
				add("func %s, %s: predecessor %s does not have %s as successor", f.Name, b, f.Blocks[p], b)
			}
		}

		// 3. Phis are sized to the predecessor count
		for _, phi := range b.Phis {
			if phi.Block != b.ID {
				add("func %s, %s: phi for %s claims block b%d", f.Name, b, phi.Var.Name(), phi.Block)
			}
			if len(phi.Operands) != len(b.Preds) {
				add("func %s, %s: phi for %s has %d operands but block has %d preds",
					f.Name, b, phi.Var.Name(), len(phi.Operands), len(b.Preds))
			}
		}
	}
	if len(errs) > 0 || f.rpo == nil {
		return combineErrors(errs)
	}

	// 4. Entry has no idom; every other reachable block has one, which
	// dominates all of its reachable predecessors.
	if f.Blocks[f.Entry].Idom != NoBlock {
		add("func %s: entry has idom %s", f.Name, f.Blocks[f.Blocks[f.Entry].Idom])
	}
	for _, id := range f.rpo {
		b := f.Blocks[id]
		if id == f.Entry {
			continue
		}
		if b.Idom == NoBlock || b.Idom == id {
			add("func %s, %s: reachable block has no proper idom", f.Name, b)
			continue
		}
		for _, p := range b.Preds {
			if f.Reachable(p) && !f.Dominates(b.Idom, p) {
				add("func %s, %s: idom %s does not dominate predecessor %s",
					f.Name, b, f.Blocks[b.Idom], f.Blocks[p])
			}
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("flow graph verification failed:\n  %s", strings.Join(errs, "\n  "))
}

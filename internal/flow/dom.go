package flow

// ComputeDom computes the immediate dominator of every block reachable from
// the entry using Cooper, Harvey, and Kennedy's "A Simple, Fast Dominance
// Algorithm", then builds the explicit dominator tree (Block.Dominees).
// Unreachable blocks keep Idom == NoBlock and are left out of the tree.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = NoBlock
		b.Dominees = nil
		b.visited = false
		b.postorder = -1
	}

	var post []ID
	var dfs func(id ID)
	dfs = func(id ID) {
		b := f.Blocks[id]
		b.visited = true
		for _, s := range b.Succs {
			if !f.Blocks[s].visited {
				dfs(s)
			}
		}
		b.postorder = len(post)
		post = append(post, id)
	}
	dfs(f.Entry)

	f.rpo = make([]ID, len(post))
	for i, id := range post {
		f.rpo[len(post)-1-i] = id
	}

	// idom is indexed by postorder number; -1 is undefined.
	idom := make([]int, len(post))
	for i := range idom {
		idom[i] = -1
	}
	entry := f.Blocks[f.Entry].postorder
	idom[entry] = entry

	intersect := func(a, b int) int {
		for a != b {
			for a < b {
				a = idom[a]
			}
			for b < a {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for _, id := range f.rpo[1:] {
			b := f.Blocks[id]
			newIdom := -1
			for _, p := range b.Preds {
				pb := f.Blocks[p]
				if !pb.visited || idom[pb.postorder] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = pb.postorder
				} else {
					newIdom = intersect(pb.postorder, newIdom)
				}
			}
			if idom[b.postorder] != newIdom {
				idom[b.postorder] = newIdom
				changed = true
			}
		}
	}

	for _, id := range f.rpo[1:] {
		b := f.Blocks[id]
		parent := post[idom[b.postorder]]
		b.Idom = parent
		f.Blocks[parent].Dominees = append(f.Blocks[parent].Dominees, id)
	}
}

// ComputeFrontier computes the dominance frontier of every reachable block
// bottom-up over the dominator tree: the successors a block does not
// immediately dominate, plus the frontiers of its dominator-tree children
// minus the blocks it immediately dominates. ComputeDom must have been
// called first.
func ComputeFrontier(f *Func) {
	for _, b := range f.Blocks {
		b.Frontier.Clear()
	}

	var build func(u ID)
	build = func(u ID) {
		b := f.Blocks[u]
		for _, c := range b.Dominees {
			build(c)
		}
		for _, s := range b.Succs {
			if f.Blocks[s].Idom != u {
				b.Frontier.Insert(int(s))
			}
		}
		for _, c := range b.Dominees {
			for _, v := range f.Blocks[c].Frontier.AppendTo(nil) {
				if f.Blocks[v].Idom != u {
					b.Frontier.Insert(v)
				}
			}
		}
	}
	build(f.Entry)
}

// Dominates reports whether a dominates b. Every block dominates itself.
// ComputeDom must have been called first.
func (f *Func) Dominates(a, b ID) bool {
	for ; b != NoBlock; b = f.Blocks[b].Idom {
		if b == a {
			return true
		}
	}
	return false
}

// FrontierOf returns the dominance frontier of b in increasing ID order.
func (f *Func) FrontierOf(b ID) []ID {
	var ids []ID
	for _, v := range f.Blocks[b].Frontier.AppendTo(nil) {
		ids = append(ids, ID(v))
	}
	return ids
}

package passes

import (
	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// CheckAssignments renames every definition in f to a fresh version and
// reports reads of variables that are not assigned on every path leading
// to them. It fills in phi operands and results, and sets Used and
// SingleAssignment on the variables involved. InsertPhis must have been
// called first.
func CheckAssignments(f *flow.Func, facts flow.Facts, diags *diag.Bag) {
	r := &renamer{
		f:        f,
		facts:    facts,
		diags:    diags,
		stacks:   make(map[*types.Var][]*flow.Version),
		versions: make(map[*types.Var]int),
		reported: make(map[flow.Use]bool),
	}
	r.block(f.Entry)
	r.propagate()
}

// usedVersion is a read of a variable and the version it resolved to.
type usedVersion struct {
	version *flow.Version
	use     flow.Use
}

type renamer struct {
	f     *flow.Func
	facts flow.Facts
	diags *diag.Bag

	stacks   map[*types.Var][]*flow.Version
	versions map[*types.Var]int // versions created so far
	used     []usedVersion
	reported map[flow.Use]bool
}

func (r *renamer) push(v *types.Var, phi *flow.Phi) *flow.Version {
	if r.versions[v] > 0 {
		v.SingleAssignment = false
	}
	r.versions[v]++
	ver := &flow.Version{Var: v, N: r.versions[v], Phi: phi}
	r.stacks[v] = append(r.stacks[v], ver)
	return ver
}

func (r *renamer) top(v *types.Var) *flow.Version {
	st := r.stacks[v]
	if len(st) == 0 {
		return nil
	}
	return st[len(st)-1]
}

// block renames b and the blocks it dominates.
func (r *renamer) block(id flow.ID) {
	b := r.f.Blocks[id]
	var pushed []*types.Var

	for _, phi := range b.Phis {
		phi.Result = r.push(phi.Var, phi)
		pushed = append(pushed, phi.Var)
	}

	for _, n := range b.Nodes {
		for _, u := range r.facts.Uses(n) {
			u.Var.Used = true
			if ver := r.top(u.Var); ver != nil {
				r.used = append(r.used, usedVersion{ver, u})
			} else {
				r.report(u)
			}
		}
		for _, v := range r.facts.Defs(n) {
			r.push(v, nil)
			pushed = append(pushed, v)
		}
	}

	for _, s := range b.Succs {
		succ := r.f.Blocks[s]
		i := succ.PredIndex(id)
		for _, phi := range succ.Phis {
			phi.Operands[i] = r.top(phi.Var)
		}
	}

	for _, c := range b.Dominees {
		r.block(c)
	}

	for _, v := range pushed {
		r.stacks[v] = r.stacks[v][:len(r.stacks[v])-1]
	}
}

// propagate follows every used version back through the phis that
// produced it. An operand left unset on a reachable edge means the read
// may see the variable unassigned.
func (r *renamer) propagate() {
	for _, u := range r.used {
		if u.version.Phi == nil {
			continue
		}
		seen := make(map[*flow.Phi]bool)
		work := []*flow.Phi{u.version.Phi}
		seen[u.version.Phi] = true
		for len(work) > 0 {
			phi := work[len(work)-1]
			work = work[:len(work)-1]
			preds := r.f.Blocks[phi.Block].Preds
			for i, op := range phi.Operands {
				if op == nil {
					if r.f.Reachable(preds[i]) {
						r.report(u.use)
					}
					continue
				}
				if op.Phi != nil && !seen[op.Phi] {
					seen[op.Phi] = true
					work = append(work, op.Phi)
				}
			}
		}
	}
}

// report reports a possibly unassigned read, once per read.
func (r *renamer) report(u flow.Use) {
	if r.reported[u] {
		return
	}
	r.reported[u] = true
	if u.Var.IsParam() {
		r.warnf(diag.CodeUnassignedParam, u.Pos, "use of possibly unassigned parameter `%s`", u.Var.Name())
		return
	}
	r.errorf(diag.CodeUnassignedLocal, u.Pos, "use of possibly unassigned local variable `%s`", u.Var.Name())
}

func (r *renamer) errorf(code diag.Code, pos syntax.Pos, format string, args ...interface{}) {
	r.diags.Errorf(diag.StageFlow, code, pos, format, args...)
}

func (r *renamer) warnf(code diag.Code, pos syntax.Pos, format string, args ...interface{}) {
	r.diags.Warningf(diag.StageFlow, code, pos, format, args...)
}

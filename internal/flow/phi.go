package flow

import (
	"fmt"

	"github.com/you-not-fish/kestrel/internal/types"
)

// Phi merges the versions of Var reaching Block along each incoming edge.
// Operands[i] belongs to the edge from Block.Preds[i]; a nil operand means
// the variable was never assigned along that edge.
type Phi struct {
	Var      *types.Var
	Block    ID
	Operands []*Version

	// Result is the version the phi defines, set by renaming.
	Result *Version
}

// NewPhi creates a phi for v at b with one unset operand per predecessor.
func (f *Func) NewPhi(v *types.Var, b ID) *Phi {
	blk := f.Blocks[b]
	p := &Phi{Var: v, Block: b, Operands: make([]*Version, len(blk.Preds))}
	blk.Phis = append(blk.Phis, p)
	return p
}

// PhiFor returns the phi for v hosted by b, or nil.
func (f *Func) PhiFor(v *types.Var, b ID) *Phi {
	for _, p := range f.Blocks[b].Phis {
		if p.Var == v {
			return p
		}
	}
	return nil
}

// String returns e.g. "x#3 = phi(x#1, _)".
func (p *Phi) String() string {
	s := p.Var.Name()
	if p.Result != nil {
		s = p.Result.String()
	}
	s += " = phi("
	for i, op := range p.Operands {
		if i > 0 {
			s += ", "
		}
		if op == nil {
			s += "_"
		} else {
			s += op.String()
		}
	}
	return s + ")"
}

// Version is one definition of a variable during renaming. Versions are
// numbered per variable from 1 in the order they are created.
type Version struct {
	Var *types.Var
	N   int

	// Phi is the phi that produced the version, or nil if a node did.
	Phi *Phi
}

// String returns e.g. "x#2".
func (v *Version) String() string {
	return fmt.Sprintf("%s#%d", v.Var.Name(), v.N)
}

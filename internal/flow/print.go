package flow

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

// Fprint writes a textual representation of the graph to w.
//
// Format:
//
//	func f:
//	  b0: (entry)
//	    -> b3
//	  b3: (plain) <- b0
//	    func f
//	    x := 1
//	    -> b1
//
// Once dominators are known, unreachable blocks are tagged and each block
// shows its immediate dominator and frontier.
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s:\n", f.Name)
	for _, b := range f.Blocks {
		fprintBlock(w, f, b)
	}
}

// Sprint returns the textual representation of the graph as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

func fprintBlock(w io.Writer, f *Func, b *Block) {
	fmt.Fprintf(w, "  %s: (%s)", b, b.Kind)
	if len(b.Preds) > 0 {
		fmt.Fprintf(w, " <- %s", idList(b.Preds))
	}
	if f.rpo != nil {
		switch {
		case !f.Reachable(b.ID):
			fmt.Fprint(w, " unreachable")
		case b.Idom != NoBlock:
			fmt.Fprintf(w, " idom b%d", b.Idom)
		}
		if b.Frontier.Len() > 0 {
			fmt.Fprintf(w, " df %s", idList(f.FrontierOf(b.ID)))
		}
	}
	fmt.Fprintln(w)

	for _, phi := range b.Phis {
		fmt.Fprintf(w, "    %s\n", phi)
	}
	for _, n := range b.Nodes {
		fmt.Fprintf(w, "    %s\n", syntax.NodeString(n))
	}
	if len(b.Succs) > 0 {
		fmt.Fprintf(w, "    -> %s\n", idList(b.Succs))
	}
}

func idList(ids []ID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = fmt.Sprintf("b%d", id)
	}
	return strings.Join(s, " ")
}

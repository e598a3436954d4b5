package flow

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

type graphYAML struct {
	Func         string      `yaml:"func"`
	Entry        ID          `yaml:"entry"`
	Return       ID          `yaml:"return"`
	Exit         ID          `yaml:"exit"`
	EndReachable bool        `yaml:"end_reachable"`
	Blocks       []blockYAML `yaml:"blocks"`
}

type blockYAML struct {
	ID        ID       `yaml:"id"`
	Kind      string   `yaml:"kind"`
	Reachable bool     `yaml:"reachable"`
	Idom      *ID      `yaml:"idom,omitempty"`
	Preds     []ID     `yaml:"preds,flow,omitempty"`
	Succs     []ID     `yaml:"succs,flow,omitempty"`
	Frontier  []ID     `yaml:"frontier,flow,omitempty"`
	Phis      []string `yaml:"phis,omitempty"`
	Nodes     []string `yaml:"nodes,omitempty"`
}

// ExportYAML writes the graph of f to w as a YAML document. Reachability,
// dominators and frontiers are included as computed by the last
// ComputeDom and ComputeFrontier.
func ExportYAML(w io.Writer, f *Func) error {
	g := graphYAML{
		Func:         f.Name,
		Entry:        f.Entry,
		Return:       f.Return,
		Exit:         f.Exit,
		EndReachable: f.EndReachable,
		Blocks:       make([]blockYAML, len(f.Blocks)),
	}
	for i, b := range f.Blocks {
		out := blockYAML{
			ID:        b.ID,
			Kind:      b.Kind.String(),
			Reachable: f.rpo != nil && f.Reachable(b.ID),
			Preds:     b.Preds,
			Succs:     b.Succs,
			Frontier:  f.FrontierOf(b.ID),
		}
		if b.Idom != NoBlock {
			idom := b.Idom
			out.Idom = &idom
		}
		for _, phi := range b.Phis {
			out.Phis = append(out.Phis, phi.String())
		}
		for _, n := range b.Nodes {
			out.Nodes = append(out.Nodes, syntax.NodeString(n))
		}
		g.Blocks[i] = out
	}

	data, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Errorf("export %s: %w", f.Name, err)
	}
	_, err = w.Write(data)
	return err
}

// ExportDot writes the graph of f to w in Graphviz dot syntax. Unreachable
// blocks are drawn dashed; dominator-tree edges are not drawn.
func ExportDot(w io.Writer, f *Func) {
	fmt.Fprintf(w, "digraph %q {\n", f.Name)
	fmt.Fprintf(w, "  node [shape=box fontname=monospace];\n")
	for _, b := range f.Blocks {
		var label strings.Builder
		fmt.Fprintf(&label, "%s (%s)\\l", b, b.Kind)
		for _, phi := range b.Phis {
			fmt.Fprintf(&label, "%s\\l", dotEscape(phi.String()))
		}
		for _, n := range b.Nodes {
			fmt.Fprintf(&label, "%s\\l", dotEscape(syntax.NodeString(n)))
		}
		style := ""
		if f.rpo != nil && !f.Reachable(b.ID) {
			style = " style=dashed"
		}
		fmt.Fprintf(w, "  b%d [label=\"%s\"%s];\n", b.ID, label.String(), style)
	}
	for _, b := range f.Blocks {
		for _, s := range b.Succs {
			fmt.Fprintf(w, "  b%d -> b%d;\n", b.ID, s)
		}
	}
	fmt.Fprintln(w, "}")
}

var dotReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}

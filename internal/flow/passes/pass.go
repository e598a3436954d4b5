// Package passes runs the analyses that follow graph construction: dominator
// tree, dominance frontier, phi insertion and definite-assignment renaming.
package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/flow"
)

// Pass describes a single analysis pass over a function graph.
type Pass struct {
	Name string
	Fn   func(f *flow.Func)
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump the graph before this pass ("*" for all)
	DumpAfter  string    // dump the graph after this pass ("*" for all)
	Verify     bool      // verify the graph before/after each pass
	DumpFunc   string    // restrict dumps to this function name
	Output     io.Writer // dump destination; os.Stderr if nil
}

// Default returns the standard pipeline. Definite-assignment findings are
// reported to diags.
func Default(facts flow.Facts, diags *diag.Bag) []Pass {
	return []Pass{
		{Name: "dom", Fn: flow.ComputeDom},
		{Name: "frontier", Fn: flow.ComputeFrontier},
		{Name: "phi", Fn: func(f *flow.Func) { InsertPhis(f, facts) }},
		{Name: "rename", Fn: func(f *flow.Func) { CheckAssignments(f, facts, diags) }},
	}
}

// Run executes the given passes on f in order.
func Run(f *flow.Func, passes []Pass, cfg Config) error {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- before %s (%s) ---\n", p.Name, f.Name)
			flow.Fprint(out, f)
			fmt.Fprintln(out)
		}

		if cfg.Verify {
			if err := flow.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		p.Fn(f)

		if cfg.Verify {
			if err := flow.Verify(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- after %s (%s) ---\n", p.Name, f.Name)
			flow.Fprint(out, f)
			fmt.Fprintln(out)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}

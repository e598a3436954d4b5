package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/kestrel/internal/compiler"
	"github.com/you-not-fish/kestrel/internal/flow"
)

func (a *app) newCfgCmd() *cobra.Command {
	var (
		funcName string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "cfg <file>",
		Short: "Print the control-flow graph of each function",
		Long: `cfg analyzes a file and prints the control-flow graph of every function,
annotated with dominators, dominance frontiers and phi nodes. Functions
whose analysis was aborted are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "yaml", "dot":
			default:
				return fmt.Errorf("unknown format %q (want text, yaml or dot)", format)
			}
			cfg, err := a.load()
			if err != nil {
				return err
			}
			res, err := a.checkFile(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			if !res.Analyzed {
				res.Diags.Fprint(cmd.ErrOrStderr(), cfg.MaxErrors)
				return errFailed
			}
			return printGraphs(cmd, res, funcName, format)
		},
	}
	cmd.Flags().StringVar(&funcName, "func", "", "only print the given function")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, yaml, dot)")
	return cmd
}

func printGraphs(cmd *cobra.Command, res *compiler.Result, funcName, format string) error {
	fns := res.Funcs
	if funcName != "" {
		fn := res.Func(funcName)
		if fn == nil {
			return fmt.Errorf("%s: no function %s", res.Filename, funcName)
		}
		fns = []*compiler.Function{fn}
	}

	out := cmd.OutOrStdout()
	for i, fn := range fns {
		if fn.Graph == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: analysis aborted\n", fn.Name())
			continue
		}
		switch format {
		case "yaml":
			if i > 0 {
				fmt.Fprintln(out, "---")
			}
			if err := flow.ExportYAML(out, fn.Graph); err != nil {
				return err
			}
		case "dot":
			flow.ExportDot(out, fn.Graph)
		default:
			if i > 0 {
				fmt.Fprintln(out)
			}
			flow.Fprint(out, fn.Graph)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/kestrel/internal/compiler"
	"github.com/you-not-fish/kestrel/internal/config"
	"github.com/you-not-fish/kestrel/internal/flow/passes"
)

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check source files and print diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runCheck,
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text, yaml)")
	cmd.Flags().Int("max-errors", 10, "maximum number of diagnostics printed per file (0 = all)")
	cobra.CheckErr(a.v.BindPFlag("format", cmd.Flags().Lookup("format")))
	cobra.CheckErr(a.v.BindPFlag("max_errors", cmd.Flags().Lookup("max-errors")))
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	failed := false
	for _, filename := range args {
		res, err := a.checkFile(cmd, cfg, filename)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch cfg.Format {
		case "yaml":
			if err := res.Diags.FprintYAML(out); err != nil {
				return err
			}
		default:
			res.Diags.Fprint(out, cfg.MaxErrors)
		}
		if res.HasErrors() {
			failed = true
		}
	}

	if failed {
		return errFailed
	}
	return nil
}

// checkFile runs the checker over one file with the configured options.
// Pass dumps go to the command's error stream.
func (a *app) checkFile(cmd *cobra.Command, cfg *config.Config, filename string) (*compiler.Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := compiler.Check(filename, f, compiler.Options{
		Jobs:             cfg.Jobs,
		WarningsAsErrors: cfg.WarningsAsErrors,
		Passes: passes.Config{
			Verify:     cfg.Passes.Verify,
			DumpBefore: cfg.Passes.DumpBefore,
			DumpAfter:  cfg.Passes.DumpAfter,
			DumpFunc:   cfg.Passes.DumpFunc,
			Output:     cmd.ErrOrStderr(),
		},
		Logger: a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return res, nil
}

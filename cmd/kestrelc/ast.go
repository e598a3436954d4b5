package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

func newASTCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Parse a file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json":
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			return emitAST(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}

// emitAST parses the input file and prints the tree. Syntax errors are
// printed first; the partial tree is still shown.
func emitAST(cmd *cobra.Command, filename, format string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}
	file, _ := syntax.Parse(filename, f, errh)

	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := syntax.FprintJSON(out, file); err != nil {
			return err
		}
	default:
		syntax.Fprint(out, file)
	}

	if len(errs) > 0 {
		return errFailed
	}
	return nil
}

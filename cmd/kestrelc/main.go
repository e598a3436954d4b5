// Command kestrelc checks Kestrel source files: it reports syntax and name
// errors, unreachable code and variables that may be read before they are
// assigned.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/you-not-fish/kestrel/internal/config"
)

// Version information
const Version = "0.1.0-dev"

// errFailed is returned when diagnostics were already printed.
var errFailed = errors.New("check failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "kestrelc: %v\n", err)
		}
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "kestrelc",
		Short: "Control-flow and definite-assignment checker for Kestrel",
		Long: `kestrelc parses Kestrel source files, resolves names and analyzes the
control flow of every function. It reports unreachable code, missing
returns, misplaced jumps and reads of variables that may be unassigned.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			a.logger = initLogger(a.verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is kestrelc.yaml or .kestrelc.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	pf.Bool("warnings-as-errors", false, "treat warnings as errors")
	pf.IntP("jobs", "j", 0, "number of functions analyzed in parallel (0 = auto)")
	pf.Bool("verify", false, "verify the flow graph before and after each pass")
	pf.String("dump-before", "", "dump the flow graph before pass (name or \"*\")")
	pf.String("dump-after", "", "dump the flow graph after pass (name or \"*\")")
	pf.String("dump-func", "", "only dump the given function")

	for key, flag := range map[string]string{
		"warnings_as_errors": "warnings-as-errors",
		"jobs":               "jobs",
		"verify":             "verify",
		"dump_before":        "dump-before",
		"dump_after":         "dump-after",
		"dump_func":          "dump-func",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, pf.Lookup(flag)))
	}

	root.AddCommand(
		a.newCheckCmd(),
		a.newCfgCmd(),
		newTokensCmd(),
		newASTCmd(),
		newVersionCmd(),
	)
	return root
}

// initConfig reads the config file and KESTREL_* environment variables.
// A missing default config file is not an error.
func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	v.SetEnvPrefix("KESTREL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	for _, name := range []string{"kestrelc", ".kestrelc"} {
		v.SetConfigName(name)
		err := v.ReadInConfig()
		if err == nil {
			if a.verbose {
				fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
			}
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// load returns the merged configuration.
func (a *app) load() (*config.Config, error) {
	return config.LoadFrom(a.v)
}

func initLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error

	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction(zap.IncreaseLevel(zapcore.WarnLevel))
	}

	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kestrelc version %s\n", Version)
			fmt.Fprintf(out, "go version %s\n", runtime.Version())
		},
	}
}

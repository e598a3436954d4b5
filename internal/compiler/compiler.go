// Package compiler drives the Kestrel front end over one source file:
// parsing, name resolution, and control-flow analysis of every function.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/kestrel/internal/diag"
	"github.com/you-not-fish/kestrel/internal/flow"
	"github.com/you-not-fish/kestrel/internal/flow/passes"
	"github.com/you-not-fish/kestrel/internal/resolve"
	"github.com/you-not-fish/kestrel/internal/syntax"
	"github.com/you-not-fish/kestrel/internal/types"
)

// Options configures a Check run.
type Options struct {
	// Jobs bounds the number of functions analyzed at once; 0 or less
	// means no limit.
	Jobs int
	// WarningsAsErrors promotes warnings to errors.
	WarningsAsErrors bool
	// Passes is handed to the pass runner for every function.
	Passes passes.Config
	// Logger receives progress events. Nil means no logging.
	Logger *zap.Logger
}

// Function is the analysis result of one function declaration.
type Function struct {
	Decl *syntax.FuncDecl
	Obj  *types.Func
	// Graph is nil if building the graph was aborted.
	Graph *flow.Func
}

// Name returns the function name.
func (fn *Function) Name() string {
	return fn.Decl.Name.Value
}

// Result holds everything Check produced for a file.
type Result struct {
	Filename string
	File     *syntax.File
	Info     *resolve.Info
	// Analyzed is set when parsing and resolution succeeded and flow
	// analysis ran.
	Analyzed bool
	// Funcs lists the analyzed functions in declaration order.
	Funcs    []*Function
	Diags    *diag.Bag
	Duration time.Duration
}

// Func returns the function with the given name, or nil.
func (r *Result) Func(name string) *Function {
	for _, fn := range r.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

// HasErrors reports whether any error was diagnosed.
func (r *Result) HasErrors() bool {
	return r.Diags.Errors() > 0
}

// Check parses and analyzes a single source file. Syntax and resolution
// errors are reported as diagnostics and skip flow analysis. The returned
// error is reserved for failures of the checker itself, such as a graph
// that fails verification.
func Check(filename string, src io.Reader, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	diags := &diag.Bag{WarningsAsErrors: opts.WarningsAsErrors}
	res := &Result{Filename: filename, Diags: diags}
	defer func() { res.Duration = time.Since(start) }()

	file, _ := syntax.Parse(filename, src, func(pos syntax.Pos, msg string) {
		diags.Errorf(diag.StageParser, diag.CodeSyntax, pos, "%s", msg)
	})
	res.File = file
	if diags.Errors() > 0 {
		logger.Info("Parse failed", zap.String("file", filename), zap.Int("errors", diags.Errors()))
		return res, nil
	}
	logger.Debug("Parsed file", zap.String("file", filename), zap.Int("decls", len(file.Decls)))

	info := resolve.NewInfo()
	res.Info = info
	conf := &resolve.Config{Error: func(pos syntax.Pos, msg string) {
		diags.Errorf(diag.StageResolve, resolveCode(msg), pos, "%s", msg)
	}}
	if _, err := resolve.Check(filename, file, conf, info); err != nil {
		logger.Info("Resolution failed", zap.String("file", filename), zap.Error(err))
		return res, nil
	}

	res.Analyzed = true
	for _, d := range file.Decls {
		if fd, ok := d.(*syntax.FuncDecl); ok {
			res.Funcs = append(res.Funcs, &Function{Decl: fd, Obj: info.Funcs[fd]})
		}
	}

	// Functions share only the read-only Info and the Bag.
	jobs := opts.Jobs
	if opts.Passes.DumpBefore != "" || opts.Passes.DumpAfter != "" {
		// Dumps share one writer and follow declaration order.
		jobs = 1
	}
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, fn := range res.Funcs {
		fn := fn
		g.Go(func() error {
			return analyze(fn, info.Facts, diags, opts.Passes, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	logger.Info("Check completed",
		zap.String("file", filename),
		zap.Int("funcs", len(res.Funcs)),
		zap.Int("errors", diags.Errors()),
		zap.Int("warnings", diags.Warnings()),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

// analyze builds the graph of one function and runs the default passes
// over it.
func analyze(fn *Function, facts flow.Facts, diags *diag.Bag, cfg passes.Config, logger *zap.Logger) error {
	name := fn.Name()
	start := time.Now()
	logger.Debug("Analyzing function", zap.String("func", name))

	f, err := flow.Build(fn.Decl, fn.Obj, facts, diags)
	if errors.Is(err, flow.ErrAborted) {
		logger.Info("Analysis aborted", zap.String("func", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}

	if err := passes.Run(f, passes.Default(facts, diags), cfg); err != nil {
		return fmt.Errorf("func %s: %w", name, err)
	}
	fn.Graph = f

	logger.Debug("Analyzed function",
		zap.String("func", name),
		zap.Int("blocks", f.NumBlocks()),
		zap.Int("phis", f.NumPhis()),
		zap.Bool("end_reachable", f.EndReachable),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// resolveCode classifies a resolver message.
func resolveCode(msg string) diag.Code {
	switch {
	case strings.HasPrefix(msg, "undefined:"), strings.Contains(msg, " undefined ("):
		return diag.CodeUndefined
	case strings.Contains(msg, "redeclared"):
		return diag.CodeRedeclared
	case strings.HasPrefix(msg, "cannot assign"):
		return diag.CodeNotAssignable
	case strings.HasSuffix(msg, "is not an error type"):
		return diag.CodeNotAnErrorType
	}
	return diag.CodeInvalidStatement
}

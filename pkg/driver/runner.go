// Package driver connects the front end and the interpreter into a runnable
// pipeline and owns the host-facing pieces around it: lox.yml
// configuration, module file lookup and diagnostic reporting.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
)

// Options configures a Runner. Config may be nil, in which case the
// defaults for the current working directory apply.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *logrus.Logger
	Config *Config

	// Echo prints expression statement values (interactive mode).
	Echo bool
	// PrintAST writes the parsed program to Stdout instead of running it.
	PrintAST bool
}

// Runner executes programs against one persistent interpreter.
type Runner struct {
	interp   *interpreter.Interpreter
	reporter *Reporter
	logger   *logrus.Logger
	stdout   io.Writer
	printAST bool
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetOutput(io.Discard)
	}
	cfg := opts.Config
	if cfg == nil {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("driver: working directory: %w", err)
		}
		cfg = DefaultConfig(wd)
	}
	locator, err := LocatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	reporter := NewReporter(opts.Stderr)
	interp := interpreter.New(interpreter.Options{
		Stdout:        opts.Stdout,
		Stdin:         opts.Stdin,
		Logger:        opts.Logger,
		Locator:       locator,
		MaxCallDepth:  cfg.MaxCallDepth,
		Echo:          opts.Echo,
		OnStaticError: reporter.Static,
	})
	opts.Logger.WithFields(logrus.Fields{
		"module_root": locator.Root(),
		"config":      cfg.Path,
	}).Debug("runner ready")

	return &Runner{
		interp:   interp,
		reporter: reporter,
		logger:   opts.Logger,
		stdout:   opts.Stdout,
		printAST: opts.PrintAST,
	}, nil
}

func (r *Runner) Reporter() *Reporter { return r.reporter }

func (r *Runner) Interpreter() *interpreter.Interpreter { return r.interp }

// RunFile reads and runs a script. Failing to read the file is returned
// without touching the reporter.
func (r *Runner) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("driver: read %s: %w", path, err)
	}
	r.logger.WithField("path", path).Debug("running file")
	return r.Run(string(source))
}

// Run pushes source through every phase. Static diagnostics stop the
// pipeline before execution. Any reported failure is also returned; a
// *interpreter.FatalError among them must end the session.
func (r *Runner) Run(source string) error {
	stmts, err := r.parse(source)
	if err != nil {
		r.reporter.Static(err)
		return err
	}
	if r.printAST {
		_, err := io.WriteString(r.stdout, ast.Print(stmts))
		return err
	}

	locals, err := resolver.Resolve(stmts)
	if err != nil {
		r.reporter.Static(err)
		return err
	}
	r.logger.WithField("resolved", len(locals)).Debug("resolved program")

	r.interp.AddLocals(locals)
	if err := r.interp.Interpret(stmts); err != nil {
		r.reporter.Runtime(err)
		return err
	}
	return nil
}

// parse scans and parses source, reporting lexical and syntax errors
// together.
func (r *Runner) parse(source string) ([]ast.Stmt, error) {
	var errs *multierror.Error
	tokens, err := lexer.Scan(source)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	r.logger.WithFields(logrus.Fields{
		"tokens":     len(tokens),
		"statements": len(stmts),
	}).Debug("parsed program")
	if errs != nil {
		errs.ErrorFormat = diag.Format
		return nil, errs
	}
	return stmts, nil
}

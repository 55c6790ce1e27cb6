// Package interpreter executes resolved Lox syntax trees.
//
// Statements run against an explicit environment argument rather than a
// mutable "current environment", so a scope can never leak past the block
// that created it. Statement execution yields a flow value that carries
// `return` and `break` outward; the error result is reserved for genuine
// failures.
package interpreter

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested guest calls before a FatalError.
const DefaultMaxCallDepth = 4096

// Locator maps an import path to a source file.
type Locator interface {
	Locate(path string) (string, error)
}

// Options configures an Interpreter. Zero values select process defaults.
type Options struct {
	Stdout io.Writer
	Stdin  io.Reader
	Clock  func() time.Time
	Logger *logrus.Logger

	Locator      Locator
	MaxCallDepth int

	// Echo prints the value of every expression statement, as the
	// interactive prompt does.
	Echo bool

	// OnStaticError receives the diagnostics of an imported module that
	// failed to scan, parse or resolve.
	OnStaticError func(err error)
}

// Interpreter holds the global environment and the merged resolution table
// of everything it has run.
type Interpreter struct {
	stdout        io.Writer
	stdin         *bufio.Reader
	clock         func() time.Time
	logger        *logrus.Logger
	locator       Locator
	maxCallDepth  int
	echo          bool
	onStaticError func(err error)

	globals *runtime.Environment
	locals  resolver.Locals
	depth   *int
}

// New creates an interpreter with the native functions installed in its
// global environment.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetOutput(io.Discard)
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	depth := 0
	i := &Interpreter{
		stdout:        opts.Stdout,
		stdin:         bufio.NewReader(opts.Stdin),
		clock:         opts.Clock,
		logger:        opts.Logger,
		locator:       opts.Locator,
		maxCallDepth:  opts.MaxCallDepth,
		echo:          opts.Echo,
		onStaticError: opts.OnStaticError,
		globals:       runtime.NewEnvironment(nil),
		locals:        make(resolver.Locals),
		depth:         &depth,
	}
	i.defineNatives(i.globals)
	return i
}

// spawn creates an interpreter for a module: fresh globals, shared host
// resources and call depth.
func (i *Interpreter) spawn() *Interpreter {
	child := &Interpreter{
		stdout:        i.stdout,
		stdin:         i.stdin,
		clock:         i.clock,
		logger:        i.logger,
		locator:       i.locator,
		maxCallDepth:  i.maxCallDepth,
		onStaticError: i.onStaticError,
		globals:       runtime.NewEnvironment(nil),
		locals:        i.locals,
		depth:         i.depth,
	}
	child.defineNatives(child.globals)
	return child
}

// Globals exposes the global environment.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// AddLocals merges a resolution table produced for the next program to run.
func (i *Interpreter) AddLocals(locals resolver.Locals) {
	for expr, depth := range locals {
		i.locals[expr] = depth
	}
}

// Interpret executes stmts in order against the global environment. The
// first runtime error stops execution and is returned; it is a
// *RuntimeError or a *FatalError.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if _, err := i.execute(stmt, i.globals); err != nil {
			return err
		}
	}
	return nil
}

package interpreter

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
)

var errNoLocator = errors.New("module imports are not available")

// executeImport loads the imported file, runs it in an isolated
// interpreter and binds the resulting module in env.
func (i *Interpreter) executeImport(s *ast.ImportStmt, env *runtime.Environment) error {
	path := s.ModulePath()
	name := s.BindingName()
	fail := func(cause error) error {
		return &RuntimeError{
			Token:   s.Path,
			Message: fmt.Sprintf("Error accessing module '%s'.", path),
			Cause:   cause,
		}
	}

	if i.locator == nil {
		return fail(errNoLocator)
	}
	file, err := i.locator.Locate(path)
	if err != nil {
		i.logger.WithError(err).WithField("module", path).Debug("module lookup failed")
		return fail(err)
	}
	source, err := os.ReadFile(file)
	if err != nil {
		return fail(err)
	}

	log := i.logger.WithFields(logrus.Fields{"module": path, "alias": name, "path": file})
	log.Debug("loading module")

	*i.depth++
	defer func() { *i.depth-- }()
	if *i.depth > i.maxCallDepth {
		return &FatalError{Token: s.Path, Message: "Stack overflow."}
	}

	stmts, locals, err := frontEnd(string(source))
	if err != nil {
		if i.onStaticError != nil {
			i.onStaticError(err)
		}
		return fail(err)
	}

	module := i.spawn()
	module.AddLocals(locals)
	if err := module.Interpret(stmts); err != nil {
		return err
	}
	log.WithField("bindings", len(module.globals.Keys())).Debug("module loaded")

	env.Define(name, &runtime.ModuleValue{Name: name, Path: file, Globals: module.globals})
	return nil
}

// frontEnd scans, parses and resolves a module source. Scan and parse
// errors are reported together; resolution only runs on a clean parse.
func frontEnd(source string) ([]ast.Stmt, resolver.Locals, error) {
	var errs *multierror.Error
	tokens, err := lexer.Scan(source)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if errs != nil {
		return nil, nil, errs
	}
	locals, err := resolver.Resolve(stmts)
	if err != nil {
		return nil, nil, err
	}
	return stmts, locals, nil
}

package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) execute(stmt ast.Stmt, env *runtime.Environment) (flow, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		val, err := i.evaluate(s.Expression, env)
		if err != nil {
			return normal, err
		}
		if i.echo {
			fmt.Fprintln(i.stdout, runtime.Stringify(val))
		}
		return normal, nil
	case *ast.PrintStmt:
		val, err := i.evaluate(s.Expression, env)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(i.stdout, runtime.Stringify(val))
		return normal, nil
	case *ast.VarStmt:
		return normal, i.executeVar(s, env)
	case *ast.BlockStmt:
		return i.executeBlock(s.Statements, runtime.NewEnvironment(env))
	case *ast.IfStmt:
		cond, err := i.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if runtime.IsTruthy(cond) {
			return i.execute(s.Then, env)
		}
		if s.Else != nil {
			return i.execute(s.Else, env)
		}
		return normal, nil
	case *ast.WhileStmt:
		return i.executeWhile(s, env)
	case *ast.BreakStmt:
		return broke(), nil
	case *ast.ReturnStmt:
		var val runtime.Value = runtime.NilValue{}
		if s.Value != nil {
			var err error
			if val, err = i.evaluate(s.Value, env); err != nil {
				return normal, err
			}
		}
		return returned(val), nil
	case *ast.FunctionDecl:
		env.Define(s.Name.Lexeme, &runtime.FunctionValue{
			Name:         s.Name.Lexeme,
			FunctionKind: ast.KindFunction,
			Declaration:  s.Function,
			Closure:      env,
		})
		return normal, nil
	case *ast.ClassStmt:
		return normal, i.executeClass(s, env)
	case *ast.ImportStmt:
		return normal, i.executeImport(s, env)
	default:
		return normal, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// executeBlock runs stmts in env, stopping at the first statement that
// returns, breaks or fails.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *runtime.Environment) (flow, error) {
	for _, stmt := range stmts {
		fl, err := i.execute(stmt, env)
		if err != nil || fl.kind != flowNormal {
			return fl, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executeVar(s *ast.VarStmt, env *runtime.Environment) error {
	if env.HasInCurrentScope(s.Name.Lexeme) {
		return runtimeErrorf(s.Name, "Variable '%s' already exist in scope.", s.Name.Lexeme)
	}
	var val runtime.Value = runtime.NilValue{}
	if s.Initializer != nil {
		var err error
		if val, err = i.evaluate(s.Initializer, env); err != nil {
			return err
		}
	}
	env.Define(s.Name.Lexeme, val)
	return nil
}

func (i *Interpreter) executeWhile(s *ast.WhileStmt, env *runtime.Environment) (flow, error) {
	for {
		cond, err := i.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if !runtime.IsTruthy(cond) {
			return normal, nil
		}
		fl, err := i.execute(s.Body, env)
		if err != nil {
			return normal, err
		}
		switch fl.kind {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return fl, nil
		}
	}
}

func (i *Interpreter) executeClass(s *ast.ClassStmt, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if s.Superclass != nil {
		val, err := i.evaluate(s.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := val.(*runtime.ClassValue)
		if !ok {
			return runtimeErrorf(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	env.Define(s.Name.Lexeme, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(s.Methods))
	for _, method := range s.Methods {
		name := method.Name.Lexeme
		if _, dup := methods[name]; dup {
			return runtimeErrorf(method.Name, "Methods must have different names.")
		}
		methods[name] = &runtime.FunctionValue{
			Name:          name,
			FunctionKind:  method.Kind,
			Declaration:   method.Function,
			Closure:       methodEnv,
			IsInitializer: method.Kind == ast.KindMethod && name == "init",
		}
	}

	env.Define(s.Name.Lexeme, runtime.NewClass(s.Name.Lexeme, superclass, methods))
	return nil
}

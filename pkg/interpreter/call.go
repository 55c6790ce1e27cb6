package interpreter

import (
	"errors"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateCall(e *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		arg, err := i.evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtimeErrorf(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErrorf(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return i.call(fn, args, e.Paren)
}

func (i *Interpreter) call(callee runtime.Callable, args []runtime.Value, paren ast.Token) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args, paren)
	case *runtime.ClassValue:
		instance := runtime.NewInstance(fn)
		if init := fn.FindMethod("init"); init != nil {
			if _, err := i.callFunction(init.Bind(instance), args, paren); err != nil {
				return nil, err
			}
		}
		return instance, nil
	case runtime.NativeFunctionValue:
		val, err := fn.Impl(args)
		if err != nil {
			return nil, nativeError(err, paren)
		}
		return val, nil
	default:
		return nil, runtimeErrorf(paren, "Can only call functions and classes.")
	}
}

// nativeError attaches the call site to a failure raised by host code.
func nativeError(err error, paren ast.Token) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		if rerr.Token.Line == 0 {
			rerr.Token = paren
		}
		return rerr
	}
	return &RuntimeError{Token: paren, Message: err.Error(), Cause: err}
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, paren ast.Token) (runtime.Value, error) {
	*i.depth++
	defer func() { *i.depth-- }()
	if *i.depth > i.maxCallDepth {
		return nil, &FatalError{Token: paren, Message: "Stack overflow."}
	}

	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	fl, err := i.executeBlock(fn.Declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this")
	}
	if fl.kind == flowReturn {
		return fl.value, nil
	}
	return runtime.NilValue{}, nil
}

package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateGet(e *ast.Get, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}
	var (
		val   runtime.Value
		found bool
	)
	switch obj := object.(type) {
	case *runtime.ModuleValue:
		val, found = obj.Get(e.Name.Lexeme)
	case *runtime.ClassValue:
		val, found = obj.Get(e.Name.Lexeme)
	case *runtime.InstanceValue:
		val, found = obj.Get(e.Name.Lexeme)
	default:
		return nil, runtimeErrorf(e.Name, "Only instances have properties.")
	}
	if !found {
		return nil, runtimeErrorf(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evaluateSet(e *ast.Set, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}
	type settable interface {
		Set(name string, value runtime.Value)
	}
	target, ok := object.(settable)
	if !ok {
		return nil, runtimeErrorf(e.Name, "Only instances have fields.")
	}
	val, err := i.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}
	target.Set(e.Name.Lexeme, val)
	return val, nil
}

// evaluateSuper looks the method up starting at the superclass and binds it
// to the current receiver. Inside a static method the receiver is the class
// itself and the lookup runs along the metaclass chain.
func (i *Interpreter) evaluateSuper(e *ast.Super, env *runtime.Environment) (runtime.Value, error) {
	distance, ok := i.locals[e]
	if !ok {
		return nil, runtimeErrorf(e.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return nil, &RuntimeError{Token: e.Keyword, Message: err.Error()}
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, runtimeErrorf(e.Keyword, "Superclass must be a class.")
	}
	receiver, err := env.GetAt(distance-1, "this")
	if err != nil {
		return nil, &RuntimeError{Token: e.Keyword, Message: err.Error()}
	}

	var method *runtime.FunctionValue
	if _, static := receiver.(*runtime.ClassValue); static {
		method = superclass.FindStaticMethod(e.Method.Lexeme)
	} else {
		method = superclass.FindMethod(e.Method.Lexeme)
	}
	if method == nil {
		return nil, runtimeErrorf(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(receiver), nil
}

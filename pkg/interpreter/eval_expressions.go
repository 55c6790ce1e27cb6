package interpreter

import (
	"fmt"
	"math"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluate(expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil
	case *ast.Grouping:
		return i.evaluate(e.Expression, env)
	case *ast.Unary:
		return i.evaluateUnary(e, env)
	case *ast.Binary:
		return i.evaluateBinary(e, env)
	case *ast.Logical:
		left, err := i.evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == ast.OR {
			if runtime.IsTruthy(left) {
				return left, nil
			}
		} else if !runtime.IsTruthy(left) {
			return left, nil
		}
		return i.evaluate(e.Right, env)
	case *ast.Ternary:
		cond, err := i.evaluate(e.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.IsTruthy(cond) {
			return i.evaluate(e.Then, env)
		}
		return i.evaluate(e.Else, env)
	case *ast.Variable:
		return i.lookUpVariable(e.Name, e, env)
	case *ast.Assign:
		return i.evaluateAssign(e, env)
	case *ast.Get:
		return i.evaluateGet(e, env)
	case *ast.Set:
		return i.evaluateSet(e, env)
	case *ast.Call:
		return i.evaluateCall(e, env)
	case *ast.Function:
		return &runtime.FunctionValue{
			FunctionKind: ast.KindFunction,
			Declaration:  e,
			Closure:      env,
		}, nil
	case *ast.This:
		return i.lookUpVariable(e.Keyword, e, env)
	case *ast.Super:
		return i.evaluateSuper(e, env)
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func literalValue(v any) runtime.Value {
	switch val := v.(type) {
	case bool:
		return runtime.BoolValue{Val: val}
	case float64:
		return runtime.NumberValue{Val: val}
	case string:
		return runtime.StringValue{Val: val}
	default:
		return runtime.NilValue{}
	}
}

// lookUpVariable reads a resolved local at its recorded distance. Anything
// the resolver left out is a global of the program that owns env.
func (i *Interpreter) lookUpVariable(name ast.Token, expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if distance, ok := i.locals[expr]; ok {
		val, err = env.GetAt(distance, name.Lexeme)
	} else {
		val, err = env.Root().Get(name.Lexeme)
	}
	if err != nil {
		return nil, &RuntimeError{Token: name, Message: err.Error()}
	}
	return val, nil
}

func (i *Interpreter) evaluateAssign(e *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[e]; ok {
		err = env.AssignAt(distance, e.Name.Lexeme, val)
	} else {
		err = env.Root().Assign(e.Name.Lexeme, val)
	}
	if err != nil {
		return nil, &RuntimeError{Token: e.Name, Message: err.Error()}
	}
	return val, nil
}

func (i *Interpreter) evaluateUnary(e *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case ast.BANG:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	case ast.MINUS:
		n, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtimeErrorf(e.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -n.Val}, nil
	}
	return nil, runtimeErrorf(e.Operator, "Unknown unary operator '%s'.", e.Operator.Lexeme)
}

func (i *Interpreter) evaluateBinary(e *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case ast.COMMA:
		return right, nil
	case ast.PLUS:
		ln, lok := left.(runtime.NumberValue)
		rn, rok := right.(runtime.NumberValue)
		if lok && rok {
			return runtime.NumberValue{Val: ln.Val + rn.Val}, nil
		}
		if left.Kind() == runtime.KindString || right.Kind() == runtime.KindString {
			return runtime.StringValue{Val: runtime.Stringify(left) + runtime.Stringify(right)}, nil
		}
		return nil, runtimeErrorf(e.Operator, "Operands must be two numbers or two strings.")
	}

	l, r, err := numberOperands(e.Operator, left, right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case ast.MINUS:
		return runtime.NumberValue{Val: l - r}, nil
	case ast.STAR:
		return runtime.NumberValue{Val: l * r}, nil
	case ast.SLASH:
		if r == 0 {
			return nil, runtimeErrorf(e.Operator, "Division by zero.")
		}
		return runtime.NumberValue{Val: l / r}, nil
	case ast.PERCENT:
		if r == 0 {
			return nil, runtimeErrorf(e.Operator, "Division by zero.")
		}
		return runtime.NumberValue{Val: math.Mod(l, r)}, nil
	case ast.GT:
		return runtime.BoolValue{Val: l > r}, nil
	case ast.GTE:
		return runtime.BoolValue{Val: l >= r}, nil
	case ast.LT:
		return runtime.BoolValue{Val: l < r}, nil
	case ast.LTE:
		return runtime.BoolValue{Val: l <= r}, nil
	case ast.EQ:
		return runtime.BoolValue{Val: l == r}, nil
	case ast.NEQ:
		return runtime.BoolValue{Val: l != r}, nil
	}
	return nil, runtimeErrorf(e.Operator, "Unknown binary operator '%s'.", e.Operator.Lexeme)
}

// numberOperands enforces numeric operands. Equality goes through here too:
// comparing anything other than two numbers is an error.
func numberOperands(operator ast.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, runtimeErrorf(operator, "Operands must be numbers.")
	}
	return l.Val, r.Val, nil
}

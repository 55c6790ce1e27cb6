package runtime

import (
	"fmt"
	"strconv"

	"lox/interpreter-go/pkg/ast"
)

// IsTruthy reports whether v counts as true in a condition. Only nil and
// false are falsy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Stringify renders a value the way `print` shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case NumberValue:
		return FormatNumber(val.Val)
	case StringValue:
		return val.Val
	case *FunctionValue:
		name := val.Name
		if name == "" {
			name = "anonymous"
		}
		switch val.FunctionKind {
		case "", ast.KindFunction:
			return fmt.Sprintf("<fn %s>", name)
		default:
			return fmt.Sprintf("<%s %s>", val.FunctionKind, name)
		}
	case NativeFunctionValue:
		return "<native fn>"
	case *ClassValue:
		return fmt.Sprintf("<class %s>", val.Name)
	case *InstanceValue:
		return fmt.Sprintf("<%s instance>", val.Class.Name)
	case *ModuleValue:
		return fmt.Sprintf("<module %s>", val.Name)
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

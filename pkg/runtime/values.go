package runtime

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
	KindClass
	KindInstance
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Callable is implemented by every value that can appear in call position.
type Callable interface {
	Value
	Arity() int
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function closed over the environment it
// was created in. Values are never mutated after construction; Bind returns
// a new one.
type FunctionValue struct {
	Name          string // empty for anonymous functions
	FunctionKind  ast.FunctionKind
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int { return len(v.Declaration.Params) }

// Bind returns a copy of the function whose closure is a fresh child scope
// defining `this` as receiver.
func (v *FunctionValue) Bind(receiver Value) *FunctionValue {
	env := NewEnvironment(v.Closure)
	env.Define("this", receiver)
	bound := *v
	bound.Closure = env
	return &bound
}

// NativeFunc implements a host-provided builtin.
type NativeFunc func(args []Value) (Value, error)

type NativeFunctionValue struct {
	Name       string
	ArityCount int
	Impl       NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v NativeFunctionValue) Arity() int { return v.ArityCount }

//-----------------------------------------------------------------------------
// Classes and instances
//-----------------------------------------------------------------------------

// ClassValue is both a callable constructor and an object in its own right.
// Instance methods live in Methods; static methods live on Metaclass, which
// is an ordinary class whose superclass is the superclass's metaclass. The
// chain ends with a nil Metaclass. Fields holds properties set on the class
// value itself.
type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Methods    map[string]*FunctionValue
	Metaclass  *ClassValue
	Fields     map[string]Value
}

func (v *ClassValue) Kind() Kind { return KindClass }

// NewClass builds a class, splitting static methods onto a metaclass.
func NewClass(name string, superclass *ClassValue, methods map[string]*FunctionValue) *ClassValue {
	instanceMethods := make(map[string]*FunctionValue)
	staticMethods := make(map[string]*FunctionValue)
	for methodName, fn := range methods {
		if fn.FunctionKind == ast.KindStaticMethod {
			staticMethods[methodName] = fn
		} else {
			instanceMethods[methodName] = fn
		}
	}

	class := &ClassValue{
		Name:       name,
		Superclass: superclass,
		Methods:    instanceMethods,
		Fields:     make(map[string]Value),
	}

	var superMeta *ClassValue
	if superclass != nil {
		superMeta = superclass.Metaclass
	}
	if len(staticMethods) > 0 || superMeta != nil {
		class.Metaclass = &ClassValue{
			Name:       name + " meta",
			Superclass: superMeta,
			Methods:    staticMethods,
			Fields:     make(map[string]Value),
		}
	}
	return class
}

// FindMethod looks name up in the class, then its superclasses.
func (v *ClassValue) FindMethod(name string) *FunctionValue {
	for class := v; class != nil; class = class.Superclass {
		if fn, ok := class.Methods[name]; ok {
			return fn
		}
	}
	return nil
}

// FindStaticMethod looks name up along the metaclass chain.
func (v *ClassValue) FindStaticMethod(name string) *FunctionValue {
	if v.Metaclass == nil {
		return nil
	}
	return v.Metaclass.FindMethod(name)
}

// Arity is the arity of init, or zero without one.
func (v *ClassValue) Arity() int {
	if init := v.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Get resolves a property on the class value: its own fields first, then
// static methods bound with `this` set to the class.
func (v *ClassValue) Get(name string) (Value, bool) {
	if val, ok := v.Fields[name]; ok {
		return val, true
	}
	if fn := v.FindStaticMethod(name); fn != nil {
		return fn.Bind(v), true
	}
	return nil, false
}

func (v *ClassValue) Set(name string, value Value) {
	v.Fields[name] = value
}

type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// Get checks fields before methods. Methods are bound on every access.
func (v *InstanceValue) Get(name string) (Value, bool) {
	if val, ok := v.Fields[name]; ok {
		return val, true
	}
	if fn := v.Class.FindMethod(name); fn != nil {
		return fn.Bind(v), true
	}
	return nil, false
}

func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}

//-----------------------------------------------------------------------------
// Modules
//-----------------------------------------------------------------------------

// ModuleValue is an imported file. Globals is the root environment the
// module's statements ran in.
type ModuleValue struct {
	Name    string
	Path    string
	Globals *Environment
}

func (v *ModuleValue) Kind() Kind { return KindModule }

func (v *ModuleValue) Get(name string) (Value, bool) {
	val, err := v.Globals.GetAt(0, name)
	if err != nil {
		return nil, false
	}
	return val, true
}

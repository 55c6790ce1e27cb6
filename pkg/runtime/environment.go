package runtime

import (
	"fmt"
	"sort"
)

// Environment is one frame of the lexical scope chain. Frames are shared by
// reference: every closure created in a frame keeps it alive, and a write
// through any holder is visible to all of them.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Root returns the outermost frame of the chain, which holds the globals of
// the program the frame belongs to.
func (e *Environment) Root() *Environment {
	env := e
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// HasInCurrentScope reports whether the binding exists in the current scope.
func (e *Environment) HasInCurrentScope(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("Undefined variable '%s'.", name)
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("Undefined variable '%s'.", name)
}

// Ancestor walks distance frames outward. It returns nil when the chain is
// shorter than distance.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from exactly the frame distance hops away, without
// searching further.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	env := e.Ancestor(distance)
	if env != nil {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("Undefined variable '%s'.", name)
}

// AssignAt writes name into exactly the frame distance hops away.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	env := e.Ancestor(distance)
	if env == nil {
		return fmt.Errorf("Undefined variable '%s'.", name)
	}
	if _, ok := env.values[name]; !ok {
		return fmt.Errorf("Undefined variable '%s'.", name)
	}
	env.values[name] = value
	return nil
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

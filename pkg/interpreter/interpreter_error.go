package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
)

// RuntimeError aborts the running program. Token locates the failure.
type RuntimeError struct {
	Token   ast.Token
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Token.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

func runtimeErrorf(tok ast.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// FatalError is not recoverable by the program or the interactive prompt.
type FatalError struct {
	Token   ast.Token
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Token.Line, e.Message)
}

// Package diag holds the static diagnostics shared by the lexer, parser and
// resolver, and the helpers that format them for the error stream.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"lox/interpreter-go/pkg/ast"
)

// StaticError is a lexical, syntax or resolution problem. It is reported as
// `[line N] Error<where>: <message>`.
type StaticError struct {
	Line    int
	Where   string
	Message string
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// AtLine builds a diagnostic that carries no token context.
func AtLine(line int, message string) *StaticError {
	return &StaticError{Line: line, Message: message}
}

// AtToken builds a diagnostic located at tok.
func AtToken(tok ast.Token, message string) *StaticError {
	if tok.Type == ast.EOF {
		return &StaticError{Line: tok.Line, Where: " at end", Message: message}
	}
	return &StaticError{Line: tok.Line, Where: fmt.Sprintf(" at '%s'", tok.Lexeme), Message: message}
}

// List accumulates diagnostics in report order.
type List struct {
	errs *multierror.Error
}

func (l *List) Add(err *StaticError) {
	l.errs = multierror.Append(l.errs, err)
}

func (l *List) Len() int {
	if l.errs == nil {
		return 0
	}
	return len(l.errs.Errors)
}

// Err returns nil when nothing was recorded, otherwise a *multierror.Error
// whose message lists every diagnostic on its own line.
func (l *List) Err() error {
	if l.errs == nil {
		return nil
	}
	l.errs.ErrorFormat = Format
	return l.errs.ErrorOrNil()
}

// Format renders diagnostics one per line, the way they are printed to the
// error stream.
func Format(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

// Flatten expands a multi-error into its individual diagnostics. Any other
// error is returned as a single-element slice.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]error, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// Statics returns the StaticErrors contained in err, in order.
func Statics(err error) []*StaticError {
	var out []*StaticError
	for _, e := range Flatten(err) {
		var se *StaticError
		if errors.As(e, &se) {
			out = append(out, se)
		}
	}
	return out
}

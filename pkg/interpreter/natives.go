package interpreter

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) defineNatives(env *runtime.Environment) {
	env.Define("clock", runtime.NativeFunctionValue{
		Name: "clock",
		Impl: func(_ []runtime.Value) (runtime.Value, error) {
			now := i.clock()
			return runtime.NumberValue{Val: float64(now.UnixNano()) / 1e9}, nil
		},
	})
	env.Define("read", runtime.NativeFunctionValue{
		Name: "read",
		Impl: func(_ []runtime.Value) (runtime.Value, error) {
			line, err := i.readLine()
			if errors.Is(err, io.EOF) && line == "" {
				return runtime.NilValue{}, nil
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return runtime.StringValue{Val: line}, nil
		},
	})
	env.Define("readNumber", runtime.NativeFunctionValue{
		Name: "readNumber",
		Impl: func(_ []runtime.Value) (runtime.Value, error) {
			line, err := i.readLine()
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			n, perr := strconv.ParseFloat(strings.TrimSpace(line), 64)
			if perr != nil {
				return nil, &RuntimeError{Message: "Cannot convert input to a number.", Cause: perr}
			}
			return runtime.NumberValue{Val: n}, nil
		},
	})
}

// readLine returns the next line of input without its line terminator.
func (i *Interpreter) readLine() (string, error) {
	line, err := i.stdin.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return line, err
}

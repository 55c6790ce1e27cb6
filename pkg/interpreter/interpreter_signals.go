package interpreter

import "lox/interpreter-go/pkg/runtime"

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
)

// flow is the outcome of executing a statement. A return carries its value
// up to the enclosing call; a break stops at the nearest loop.
type flow struct {
	kind  flowKind
	value runtime.Value
}

var normal = flow{kind: flowNormal}

func returned(value runtime.Value) flow {
	return flow{kind: flowReturn, value: value}
}

func broke() flow {
	return flow{kind: flowBreak}
}

package driver

import (
	"fmt"
	"io"

	"lox/interpreter-go/pkg/diag"
)

// Exit statuses of the command-line tool.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitDataErr      = 65
	ExitNoInput      = 66
	ExitSoftwareFail = 70
	ExitConfig       = 78
)

// Reporter writes diagnostics to the error stream and remembers which kind
// of failure has been seen.
type Reporter struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Static prints every diagnostic contained in err, one per line.
func (r *Reporter) Static(err error) {
	if err == nil {
		return
	}
	for _, e := range diag.Flatten(err) {
		fmt.Fprintln(r.out, e.Error())
	}
	r.hadError = true
}

// Runtime prints a runtime failure. A FatalError is reported the same way;
// telling the two apart is the caller's job.
func (r *Reporter) Runtime(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(r.out, err.Error())
	r.hadRuntimeError = true
}

func (r *Reporter) HadError() bool { return r.hadError }
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Reset clears both flags; the interactive prompt calls it after each line.
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

// ExitCode maps the recorded failures to a process status.
func (r *Reporter) ExitCode() int {
	switch {
	case r.hadError:
		return ExitDataErr
	case r.hadRuntimeError:
		return ExitSoftwareFail
	default:
		return ExitOK
	}
}

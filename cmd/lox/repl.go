package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/interpreter"
)

const exitWord = "exit"

type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newLineReader uses liner when stdin is a terminal and a plain buffered
// reader otherwise.
func newLineReader(stdin io.Reader, input *bufio.Reader, stdout io.Writer, historyFile string, logger *logrus.Logger) lineReader {
	if isTerminal(stdin) && liner.TerminalSupported() {
		return newTerminalReader(historyFile, logger)
	}
	return &plainReader{in: input, out: stdout}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

type terminalReader struct {
	state       *liner.State
	historyFile string
	logger      *logrus.Logger
}

func newTerminalReader(historyFile string, logger *logrus.Logger) *terminalReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	r := &terminalReader{state: state, historyFile: historyFile, logger: logger}
	if historyFile == "" {
		return r
	}
	if f, err := os.Open(historyFile); err == nil {
		if _, err := state.ReadHistory(f); err != nil {
			logger.WithError(err).WithField("path", historyFile).Debug("history not loaded")
		}
		f.Close()
	}
	return r
}

func (r *terminalReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, io.EOF) {
		fmt.Println()
	}
	return line, err
}

func (r *terminalReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *terminalReader) Close() error {
	if r.historyFile != "" {
		if f, err := os.Create(r.historyFile); err == nil {
			if _, err := r.state.WriteHistory(f); err != nil {
				r.logger.WithError(err).WithField("path", r.historyFile).Debug("history not saved")
			}
			f.Close()
		}
	}
	return r.state.Close()
}

type plainReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *plainReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *plainReader) AppendHistory(string) {}

func (r *plainReader) Close() error { return nil }

// runPrompt runs one line at a time against the same interpreter until
// end of input, the exit word or a fatal error.
func runPrompt(runner *driver.Runner, lines lineReader, prompt string) int {
	for {
		line, err := lines.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return driver.ExitOK
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == exitWord {
			return driver.ExitOK
		}
		lines.AppendHistory(line)

		err = runner.Run(line)
		var fatal *interpreter.FatalError
		if errors.As(err, &fatal) {
			return driver.ExitSoftwareFail
		}
		runner.Reporter().Reset()
	}
}

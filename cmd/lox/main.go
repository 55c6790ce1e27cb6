package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "lox 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return runWith(args, os.Stdin, os.Stdout, os.Stderr)
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log-level", "", "log level: panic, fatal, error, warn, info, debug or trace")
	printAST := fs.Bool("print-ast", false, "print the parsed program instead of running it")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lox [options] [script]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return driver.ExitOK
		}
		return driver.ExitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, cliToolVersion)
		return driver.ExitOK
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return driver.ExitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return driver.ExitConfig
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(cfg.Level())
	if *logLevel != "" {
		level, err := logrus.ParseLevel(*logLevel)
		if err != nil {
			fmt.Fprintf(stderr, "invalid --log-level: %v\n", err)
			return driver.ExitUsage
		}
		logger.SetLevel(level)
	}

	interactive := fs.NArg() == 0
	// Piped prompt input and the read natives share one buffer.
	input := bufio.NewReader(stdin)
	runner, err := driver.NewRunner(driver.Options{
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    input,
		Logger:   logger,
		Config:   cfg,
		Echo:     interactive,
		PrintAST: *printAST,
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to start: %v\n", err)
		return driver.ExitSoftwareFail
	}

	if !interactive {
		return runFile(runner, fs.Arg(0), stderr)
	}

	lines := newLineReader(stdin, input, stdout, cfg.HistoryFile, logger)
	defer lines.Close()
	return runPrompt(runner, lines, cfg.Prompt)
}

// loadConfig finds lox.yml above the working directory, falling back to
// the defaults when there is none.
func loadConfig() (*driver.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := driver.FindConfig(wd)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return driver.DefaultConfig(wd), nil
	}
	return driver.LoadConfig(path)
}

func runFile(runner *driver.Runner, path string, stderr io.Writer) int {
	err := runner.RunFile(path)
	code := runner.Reporter().ExitCode()
	if err != nil && code == driver.ExitOK {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return driver.ExitNoInput
	}
	return code
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runWith(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeScript(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// chdir switches the working directory for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestUsageAndVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "--version")
	if code != 0 || stdout != cliToolVersion+"\n" {
		t.Fatalf("--version = (%d, %q)", code, stdout)
	}

	code, _, stderr := runCLI(t, "", "a.lox", "b.lox")
	if code != 64 || !strings.Contains(stderr, "Usage: lox") {
		t.Fatalf("two scripts = (%d, %q), want usage error", code, stderr)
	}

	if code, _, _ := runCLI(t, "", "--bogus"); code != 64 {
		t.Fatalf("unknown flag exit = %d, want 64", code)
	}
	if code, _, _ := runCLI(t, "", "--help"); code != 0 {
		t.Fatalf("--help exit = %d, want 0", code)
	}
	if code, _, stderr := runCLI(t, "", "--log-level", "loud"); code != 64 || !strings.Contains(stderr, "--log-level") {
		t.Fatalf("bad log level = (%d, %q)", code, stderr)
	}
}

func TestFileExitCodes(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cases := []struct {
		name   string
		source string
		code   int
		stdout string
		stderr string
	}{
		{"ok.lox", "print 1 + 2;", 0, "3\n", ""},
		{"syntax.lox", "print 1;\nprint (1;", 65, "", "[line 2] Error at ';': Expect ')' after expression.\n"},
		{"runtime.lox", "print 1;\nprint nope;", 70, "1\n", "[line 2] Error: Undefined variable 'nope'.\n"},
	}
	for _, tc := range cases {
		path := writeScript(t, dir, tc.name, tc.source)
		code, stdout, stderr := runCLI(t, "", path)
		if code != tc.code || stdout != tc.stdout || stderr != tc.stderr {
			t.Fatalf("%s = (%d, %q, %q), want (%d, %q, %q)", tc.name, code, stdout, stderr, tc.code, tc.stdout, tc.stderr)
		}
	}

	code, _, stderr := runCLI(t, "", filepath.Join(dir, "missing.lox"))
	if code != 66 || !strings.Contains(stderr, "missing.lox") {
		t.Fatalf("missing file = (%d, %q)", code, stderr)
	}
}

func TestPrintAST(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeScript(t, dir, "tree.lox", "class B < A { class make() { return B(); } }")

	code, stdout, stderr := runCLI(t, "", "--print-ast", path)
	if code != 0 || stderr != "" {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}
	want := "(class B < A (static make () (return (call B))))\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestImportsUseConfiguredModuleRoot(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeScript(t, dir, "lox.yml", "module_root: src\nexclude: [old]\n")
	writeScript(t, dir, "src/lib/strings.lox", "fun shout(s) { return s + \"!\"; }\n")
	writeScript(t, dir, "src/old/strings.lox", "fun shout(s) { return s; }\n")
	main := writeScript(t, dir, "main.lox", "import \"strings.lox\" as str;\nprint str.shout(\"hey\");\n")

	code, stdout, stderr := runCLI(t, "", main)
	if code != 0 || stdout != "hey!\n" {
		t.Fatalf("exit = %d, stdout = %q, stderr = %q", code, stdout, stderr)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeScript(t, dir, "lox.yml", "max_call_depth: 0\n")

	if code, _, _ := runCLI(t, "", "--version"); code != 0 {
		t.Fatalf("--version should not read config, exit = %d", code)
	}
	code, _, stderr := runCLI(t, "print 1;\n")
	if code != 78 || !strings.Contains(stderr, "max_call_depth must be positive") {
		t.Fatalf("invalid config = (%d, %q)", code, stderr)
	}
}

func TestPromptSession(t *testing.T) {
	chdir(t, t.TempDir())
	input := strings.Join([]string{
		"var a = 2;",
		"a * 21;",
		"print nope;",
		"print ;",
		"",
		"print a;",
		"exit",
		"print 99;",
	}, "\n") + "\n"

	code, stdout, stderr := runCLI(t, input)
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}
	if want := ">> >> 42\n>> >> >> >> 2\n>> "; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
	wantErr := "[line 1] Error: Undefined variable 'nope'.\n[line 1] Error at ';': Expect expression.\n"
	if stderr != wantErr {
		t.Fatalf("stderr = %q, want %q", stderr, wantErr)
	}
}

func TestPromptSharesInputWithNatives(t *testing.T) {
	chdir(t, t.TempDir())
	code, stdout, _ := runCLI(t, "var n = readNumber();\n41\nprint n + 1;")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if want := ">> >> 42\n>> "; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestPromptStopsOnFatalError(t *testing.T) {
	chdir(t, t.TempDir())
	code, stdout, stderr := runCLI(t, "fun f() { f(); }\nf();\nprint 1;\n")
	if code != 70 {
		t.Fatalf("exit = %d, want 70", code)
	}
	if strings.Contains(stdout, "1\n") {
		t.Fatalf("prompt kept running after a fatal error: %q", stdout)
	}
	if !strings.Contains(stderr, "Stack overflow.") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestScriptRunsBesideUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not restrict root")
	}
	dir := t.TempDir()
	chdir(t, dir)
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	script := writeScript(t, dir, "hi.lox", `print "hi";`)

	code, stdout, stderr := runCLI(t, "", script)
	if code != 0 || stdout != "hi\n" {
		t.Fatalf("exit = %d, stdout = %q, stderr = %q", code, stdout, stderr)
	}
}

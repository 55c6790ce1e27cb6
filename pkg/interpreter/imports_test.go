package interpreter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"lox/interpreter-go/pkg/diag"
)

type mapLocator map[string]string

func (m mapLocator) Locate(path string) (string, error) {
	if file, ok := m[path]; ok {
		return file, nil
	}
	return "", fmt.Errorf("Can't find '%s'.", path)
}

func writeModule(t *testing.T, dir, name, source string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(file, []byte(source), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return file
}

func TestImportBindsModule(t *testing.T) {
	dir := t.TempDir()
	util := writeModule(t, dir, "lib/util.lox", `
var greeting = "hi";
fun greet(name) {
  var g = greeting;
  { return g + " " + name; }
}
class Pt { init(x) { this.x = x; } }
`)
	var out bytes.Buffer
	interp := New(Options{Stdout: &out, Locator: mapLocator{"lib/util.lox": util}})
	err := runWith(t, interp, `
var greeting = "shadowed";
import "lib/util.lox";
print util.greet("bob");
print util.greeting;
import "lib/util.lox" as u;
print u.Pt(3).x;
print util;
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "hi bob\nhi\n3\n<module util>\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestImportFailures(t *testing.T) {
	dir := t.TempDir()
	broken := writeModule(t, dir, "broken.lox", "var = 1;\nprint 2")
	failing := writeModule(t, dir, "failing.lox", "print 1 / 0;")

	var static []error
	interp := New(Options{
		Stdout:        &bytes.Buffer{},
		Locator:       mapLocator{"broken.lox": broken, "failing.lox": failing},
		OnStaticError: func(err error) { static = append(static, diag.Flatten(err)...) },
	})

	err := runWith(t, interp, `import "nope.lox";`)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Message != "Error accessing module 'nope.lox'." {
		t.Fatalf("unexpected error: %v", err)
	}
	if rerr.Cause == nil || rerr.Cause.Error() != "Can't find 'nope.lox'." {
		t.Fatalf("cause = %v", rerr.Cause)
	}

	err = runWith(t, interp, `import "broken.lox";`)
	if !errors.As(err, &rerr) || rerr.Message != "Error accessing module 'broken.lox'." {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(static) != 2 {
		t.Fatalf("expected 2 module diagnostics, got %v", static)
	}

	err = runWith(t, interp, "\n\nimport \"failing.lox\";")
	if !errors.As(err, &rerr) || rerr.Message != "Division by zero." || rerr.Token.Line != 1 {
		t.Fatalf("module runtime error should surface as-is, got %v", err)
	}
}

func TestImportWithoutLocator(t *testing.T) {
	_, err := run(t, `import "x.lox";`)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || !errors.Is(err, errNoLocator) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModulesAreReadOnly(t *testing.T) {
	dir := t.TempDir()
	file := writeModule(t, dir, "m.lox", "var v = 1;")
	interp := New(Options{Stdout: &bytes.Buffer{}, Locator: mapLocator{"m.lox": file}})
	err := runWith(t, interp, `import "m.lox"; m.v = 2;`)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Message != "Only instances have fields." {
		t.Fatalf("unexpected error: %v", err)
	}
}

package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/lexer"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, error) {
	t.Helper()
	tokens, err := lexer.Scan(source)
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	return Parse(tokens)
}

func mustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	stmts, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return stmts
}

func printed(stmts []ast.Stmt) []string {
	return strings.Split(strings.TrimSuffix(ast.Print(stmts), "\n"), "\n")
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3;", "(; (+ 1 (* 2 3)))"},
		{"(1 + 2) * 3 % 4;", "(; (% (* (group (+ 1 2)) 3) 4))"},
		{"-a - -b;", "(; (- (- a) (- b)))"},
		{"!a == b < c;", "(; (== (! a) (< b c)))"},
		{"a or b and c;", "(; (or a (and b c)))"},
		{"a = b = c;", "(; (= a (= b c)))"},
		{"a ? b : c ? d : e;", "(; (?: a b (?: c d e)))"},
		{"x = a ? 1 : 2;", "(; (= x (?: a 1 2)))"},
		{"a, b, c;", "(; (, (, a b) c))"},
		{"f(a, b);", "(; (call f a b))"},
		{"a.b(c).d;", "(; (. (call (. a b) c) d))"},
		{"a.b = 3;", "(; (= (. a b) 3))"},
		{`print "hi" + 1;`, `(print (+ "hi" 1))`},
	}
	for _, tc := range cases {
		got := printed(mustParse(t, tc.source))
		if diff := cmp.Diff([]string{tc.want}, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tc.source, diff)
		}
	}
}

func TestParseDeclarations(t *testing.T) {
	source := `
var a = 1;
var b;
fun add(x, y) { return x + y; }
class B < A {
  init(n) { this.n = n; }
  class make() { return B(1); }
  greet() { super.greet(); }
}
import "lib/util.lox" as util;
import "math.lox";
var f = fun (x) { return x; };
fun () {};
`
	want := []string{
		"(var a 1)",
		"(var b)",
		"(fun add (x y) (return (+ x y)))",
		"(class B < A (method init (n) (; (= (. this n) n))) (static make () (return (call B 1))) (method greet () (; (call (super greet)))))",
		`(import "lib/util.lox" as util)`,
		`(import "math.lox")`,
		"(var f (fun (x) (return x)))",
		"(; (fun ()))",
	}
	if diff := cmp.Diff(want, printed(mustParse(t, source))); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStaticMethodKind(t *testing.T) {
	stmts := mustParse(t, "class A { class s() {} m() {} }")
	class, ok := stmts[0].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("expected *ast.ClassStmt, got %T", stmts[0])
	}
	if class.Methods[0].Kind != ast.KindStaticMethod || class.Methods[1].Kind != ast.KindMethod {
		t.Fatalf("kinds = %q, %q", class.Methods[0].Kind, class.Methods[1].Kind)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	got := printed(mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;"))
	want := []string{"(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	got = printed(mustParse(t, "for (;;) break;"))
	want = []string{"(while true (break))"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseControlFlow(t *testing.T) {
	got := printed(mustParse(t, "if (a) print 1; else { print 2; } while (x) { break; }"))
	want := []string{
		"(if a (print 1) (block (print 2)))",
		"(while x (block (break)))",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommaInsideParensIsNotSequencing(t *testing.T) {
	_, err := parseSource(t, "(a, b);")
	statics := diag.Statics(err)
	if len(statics) != 1 || statics[0].Message != "Expect ')' after expression." {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
}

func TestParseAnonymousFunctionBodyAllowsSequencing(t *testing.T) {
	got := printed(mustParse(t, "f(fun () { a, b; });"))
	want := []string{"(; (call f (fun () (; (, a b)))))"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecoversAndReportsEachError(t *testing.T) {
	source := "print 1;\nprint 2;\nvar = 3;\nprint 4;\nprint 5;\nprint 6;\nprint (7;\nprint 8;\n"
	stmts, err := parseSource(t, source)
	var got []string
	for _, se := range diag.Statics(err) {
		got = append(got, se.Error())
	}
	want := []string{
		"[line 3] Error at '=': Expect variable name.",
		"[line 7] Error at ';': Expect ')' after expression.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if len(stmts) != 6 {
		t.Fatalf("expected 6 surviving statements, got %d", len(stmts))
	}
}

func TestParseInvalidAssignmentTargetDoesNotAbort(t *testing.T) {
	stmts, err := parseSource(t, "1 + 2 = 3; print 4;")
	statics := diag.Statics(err)
	if len(statics) != 1 || statics[0].Error() != "[line 1] Error at '=': Invalid assignment target." {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected both statements kept, got %d", len(stmts))
	}
}

func TestParseErrorAtEnd(t *testing.T) {
	_, err := parseSource(t, "print 1")
	statics := diag.Statics(err)
	if len(statics) != 1 || statics[0].Error() != "[line 1] Error at end: Expect ';' after value." {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
}

func TestParseTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	_, err := parseSource(t, "f("+strings.Join(args, ", ")+");")
	statics := diag.Statics(err)
	if len(statics) != 1 || statics[0].Message != "Can't have more than 255 arguments." {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
}

func TestParseImportRequiresString(t *testing.T) {
	_, err := parseSource(t, "import util;")
	statics := diag.Statics(err)
	if len(statics) != 1 || statics[0].Error() != "[line 1] Error at 'util': Expect module path after 'import'." {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
}

func TestParseNestingLimit(t *testing.T) {
	deep := func(open, close string, n int) string {
		return strings.Repeat(open, n) + "1" + strings.Repeat(close, n)
	}
	cases := []string{
		"print " + deep("(", ")", 200000) + ";",
		"print " + strings.Repeat("-", 200000) + "1;",
		strings.Repeat("{", 200000) + strings.Repeat("}", 200000),
		"var a = " + strings.Repeat("a = ", 200000) + "1;",
	}
	for _, source := range cases {
		stmts, err := parseSource(t, source)
		statics := diag.Statics(err)
		if len(statics) != 1 || statics[0].Message != "Too much nesting." || statics[0].Line != 1 {
			t.Fatalf("%.20s...: errors = %v, want one nesting error", source, err)
		}
		if stmts != nil {
			t.Fatalf("%.20s...: statements survived an aborted parse", source)
		}
	}
}

func TestParseNestingRecoversDepthAfterErrors(t *testing.T) {
	source := strings.Repeat("print (((1;\n", 200) +
		"print " + strings.Repeat("(", 400) + "1" + strings.Repeat(")", 400) + ";"
	stmts, err := parseSource(t, source)
	if got := len(diag.Statics(err)); got != 200 {
		t.Fatalf("got %d errors, want 200", got)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want the deep print to survive", len(stmts))
	}
}

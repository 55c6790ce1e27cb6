package diag

import (
	"errors"
	"fmt"
	"testing"

	"lox/interpreter-go/pkg/ast"
)

func TestAtTokenWhere(t *testing.T) {
	cases := []struct {
		tok  ast.Token
		want string
	}{
		{ast.Token{Type: ast.IDENT, Lexeme: "foo", Line: 3}, "[line 3] Error at 'foo': boom"},
		{ast.Token{Type: ast.EOF, Line: 9}, "[line 9] Error at end: boom"},
	}
	for _, tc := range cases {
		if got := AtToken(tc.tok, "boom").Error(); got != tc.want {
			t.Fatalf("AtToken(%v) = %q, want %q", tc.tok, got, tc.want)
		}
	}
	if got := AtLine(2, "bad").Error(); got != "[line 2] Error: bad" {
		t.Fatalf("AtLine = %q", got)
	}
}

func TestListFormatsOnePerLine(t *testing.T) {
	var list List
	if list.Err() != nil {
		t.Fatalf("empty list should produce nil error")
	}
	list.Add(AtLine(3, "first"))
	list.Add(AtLine(7, "second"))
	err := list.Err()
	want := "[line 3] Error: first\n[line 7] Error: second"
	if err.Error() != want {
		t.Fatalf("Err() = %q, want %q", err.Error(), want)
	}
	if n := len(Statics(err)); n != 2 {
		t.Fatalf("Statics len = %d, want 2", n)
	}
}

func TestFlattenWrapped(t *testing.T) {
	var list List
	list.Add(AtLine(1, "x"))
	wrapped := fmt.Errorf("parse: %w", list.Err())
	if n := len(Statics(wrapped)); n != 1 {
		t.Fatalf("Statics(wrapped) len = %d, want 1", n)
	}
	plain := errors.New("plain")
	if got := Flatten(plain); len(got) != 1 || got[0] != plain {
		t.Fatalf("Flatten(plain) = %v", got)
	}
}

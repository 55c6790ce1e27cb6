package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders statements as parenthesized prefix forms, one top-level
// statement per line. It is a debugging aid and is not parsed back.
func Print(stmts []Stmt) string {
	var b strings.Builder
	for _, stmt := range stmts {
		b.WriteString(FormatStmt(stmt))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatStmt renders a single statement.
func FormatStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case nil:
		return "<nil>"
	case *ExpressionStmt:
		return parenthesize(";", FormatExpr(s.Expression))
	case *PrintStmt:
		return parenthesize("print", FormatExpr(s.Expression))
	case *VarStmt:
		if s.Initializer == nil {
			return parenthesize("var", s.Name.Lexeme)
		}
		return parenthesize("var", s.Name.Lexeme, FormatExpr(s.Initializer))
	case *BlockStmt:
		return parenthesize("block", printStmts(s.Statements)...)
	case *IfStmt:
		parts := []string{FormatExpr(s.Condition), FormatStmt(s.Then)}
		if s.Else != nil {
			parts = append(parts, FormatStmt(s.Else))
		}
		return parenthesize("if", parts...)
	case *WhileStmt:
		return parenthesize("while", FormatExpr(s.Condition), FormatStmt(s.Body))
	case *ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return parenthesize("return", FormatExpr(s.Value))
	case *BreakStmt:
		return "(break)"
	case *FunctionDecl:
		head := "fun"
		switch s.Kind {
		case KindMethod:
			head = "method"
		case KindStaticMethod:
			head = "static"
		}
		return parenthesize(head, append([]string{s.Name.Lexeme, printParams(s.Function.Params)}, printStmts(s.Function.Body)...)...)
	case *ClassStmt:
		parts := []string{s.Name.Lexeme}
		if s.Superclass != nil {
			parts = append(parts, "<", s.Superclass.Name.Lexeme)
		}
		for _, method := range s.Methods {
			parts = append(parts, FormatStmt(method))
		}
		return parenthesize("class", parts...)
	case *ImportStmt:
		if s.Alias != nil {
			return parenthesize("import", s.Path.Lexeme, "as", s.Alias.Lexeme)
		}
		return parenthesize("import", s.Path.Lexeme)
	default:
		return fmt.Sprintf("<unknown %s>", stmt.NodeType())
	}
}

// FormatExpr renders a single expression.
func FormatExpr(expr Expr) string {
	switch e := expr.(type) {
	case nil:
		return "<nil>"
	case *Literal:
		return printLiteral(e.Value)
	case *Grouping:
		return parenthesize("group", FormatExpr(e.Expression))
	case *Unary:
		return parenthesize(e.Operator.Lexeme, FormatExpr(e.Right))
	case *Binary:
		return parenthesize(e.Operator.Lexeme, FormatExpr(e.Left), FormatExpr(e.Right))
	case *Logical:
		return parenthesize(e.Operator.Lexeme, FormatExpr(e.Left), FormatExpr(e.Right))
	case *Ternary:
		return parenthesize("?:", FormatExpr(e.Condition), FormatExpr(e.Then), FormatExpr(e.Else))
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return parenthesize("=", e.Name.Lexeme, FormatExpr(e.Value))
	case *Get:
		return parenthesize(".", FormatExpr(e.Object), e.Name.Lexeme)
	case *Set:
		return parenthesize("=", parenthesize(".", FormatExpr(e.Object), e.Name.Lexeme), FormatExpr(e.Value))
	case *Call:
		parts := []string{FormatExpr(e.Callee)}
		for _, arg := range e.Arguments {
			parts = append(parts, FormatExpr(arg))
		}
		return parenthesize("call", parts...)
	case *Function:
		return parenthesize("fun", append([]string{printParams(e.Params)}, printStmts(e.Body)...)...)
	case *Super:
		return parenthesize("super", e.Method.Lexeme)
	case *This:
		return "this"
	default:
		return fmt.Sprintf("<unknown %s>", expr.NodeType())
	}
}

func printLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func printParams(params []Token) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Lexeme)
	}
	return "(" + strings.Join(names, " ") + ")"
}

func printStmts(stmts []Stmt) []string {
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, FormatStmt(stmt))
	}
	return out
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		b.WriteString(part)
	}
	b.WriteByte(')')
	return b.String()
}

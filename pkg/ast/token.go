package ast

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	// single-character tokens
	LPAREN TokenType = iota
	RPAREN
	LBRACE
	RBRACE
	QUESTION
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	COLON
	SLASH
	STAR
	PERCENT

	// one or two character tokens
	BANG
	NEQ
	ASSIGN
	EQ
	GT
	GTE
	LT
	LTE

	// literals
	IDENT
	STRING
	NUMBER

	// keywords
	AND
	CLASS
	ELSE
	FALSE
	FUN
	FOR
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
	BREAK
	IMPORT
	AS

	EOF
)

var tokenTypeNames = map[TokenType]string{
	LPAREN:    "LEFT_PAREN",
	RPAREN:    "RIGHT_PAREN",
	LBRACE:    "LEFT_BRACE",
	RBRACE:    "RIGHT_BRACE",
	QUESTION:  "QUESTION_MARK",
	COMMA:     "COMMA",
	DOT:       "DOT",
	MINUS:     "MINUS",
	PLUS:      "PLUS",
	SEMICOLON: "SEMICOLON",
	COLON:     "COLON",
	SLASH:     "SLASH",
	STAR:      "STAR",
	PERCENT:   "PERCENT",
	BANG:      "BANG",
	NEQ:       "BANG_EQUAL",
	ASSIGN:    "EQUAL",
	EQ:        "EQUAL_EQUAL",
	GT:        "GREATER",
	GTE:       "GREATER_EQUAL",
	LT:        "LESS",
	LTE:       "LESS_EQUAL",
	IDENT:     "IDENTIFIER",
	STRING:    "STRING",
	NUMBER:    "NUMBER",
	AND:       "AND",
	CLASS:     "CLASS",
	ELSE:      "ELSE",
	FALSE:     "FALSE",
	FUN:       "FUN",
	FOR:       "FOR",
	IF:        "IF",
	NIL:       "NIL",
	OR:        "OR",
	PRINT:     "PRINT",
	RETURN:    "RETURN",
	SUPER:     "SUPER",
	THIS:      "THIS",
	TRUE:      "TRUE",
	VAR:       "VAR",
	WHILE:     "WHILE",
	BREAK:     "BREAK",
	IMPORT:    "IMPORT",
	AS:        "AS",
	EOF:       "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown_token_%d", int(t))
}

var keywords = map[string]TokenType{
	"and":    AND,
	"as":     AS,
	"break":  BREAK,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"import": IMPORT,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// LookupKeyword classifies an identifier lexeme, returning IDENT when it
// is not reserved.
func LookupKeyword(lexeme string) TokenType {
	if tt, ok := keywords[lexeme]; ok {
		return tt
	}
	return IDENT
}

// Token is an immutable lexical unit. Literal holds a float64, string, bool or
// nil depending on the token type.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
}

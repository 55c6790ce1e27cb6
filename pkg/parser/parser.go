// Package parser builds the Lox syntax tree from a token stream using
// recursive descent.
//
// Precedence, lowest to highest:
//
//	sequence (`,`, outside argument lists and parentheses)
//	assignment
//	ternary (`?:`)
//	or
//	and
//	equality (`==` `!=`)
//	comparison (`<` `<=` `>` `>=`)
//	term (`+` `-`)
//	factor (`*` `/` `%`)
//	unary (`!` `-`)
//	call / property access
//	primary
//
// A syntax error abandons the current declaration; the parser then discards
// tokens up to the next statement boundary and carries on, so a single run
// reports every independent error.
package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
)

const (
	maxArgs = 255
	// maxNesting bounds how deeply statements and expressions may nest.
	maxNesting = 1024
)

// bailout unwinds the parser to the enclosing declaration after an error has
// been recorded.
type bailout struct{}

// abort unwinds the whole parse. Every enclosing declaration would
// otherwise report the same overflow again.
type abort struct{}

// Parser consumes a token slice produced by the lexer.
type Parser struct {
	tokens  []ast.Token
	current int

	// insideParen suppresses comma sequencing while parsing call arguments
	// and parenthesized groups.
	insideParen bool
	depth       int

	errs diag.List
}

// New creates a parser over tokens. The slice must end with an EOF token.
func New(tokens []ast.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != ast.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, ast.Token{Type: ast.EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

// Parse parses a whole program. Statements that failed to parse are left
// out of the result; err lists every syntax error as *diag.StaticError.
func Parse(tokens []ast.Token) ([]ast.Stmt, error) {
	return New(tokens).Parse()
}

func (p *Parser) Parse() (stmts []ast.Stmt, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abort); !ok {
				panic(r)
			}
			stmts, err = nil, p.errs.Err()
		}
	}()
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs.Err()
}

// report records an error without unwinding.
func (p *Parser) report(tok ast.Token, message string) {
	p.errs.Add(diag.AtToken(tok, message))
}

// fail records an error and unwinds to the nearest declaration.
func (p *Parser) fail(tok ast.Token, message string) {
	p.report(tok, message)
	panic(bailout{})
}

// nest enters one level of a recursive production. The returned func leaves
// it again; callers defer it.
func (p *Parser) nest() func() {
	if p.depth >= maxNesting {
		p.report(p.peek(), "Too much nesting.")
		panic(abort{})
	}
	p.depth++
	return func() { p.depth-- }
}

// recoverTo is deferred by declaration. It swallows a bailout, resets the
// per-statement parser state and skips ahead to a statement boundary.
func (p *Parser) recoverTo(stmt *ast.Stmt) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
	*stmt = nil
	p.insideParen = false
	p.synchronize()
}

func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == ast.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case ast.CLASS, ast.FUN, ast.VAR, ast.FOR, ast.WHILE, ast.PRINT, ast.RETURN:
			return
		}
		p.advance()
	}
}

func (p *Parser) consume(tt ast.TokenType, message string) ast.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.fail(p.peek(), message)
	return ast.Token{}
}

func (p *Parser) match(types ...ast.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tt ast.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) checkNext(tt ast.TokenType) bool {
	if p.isAtEnd() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == tt
}

func (p *Parser) advance() ast.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == ast.EOF
}

func (p *Parser) peek() ast.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() ast.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

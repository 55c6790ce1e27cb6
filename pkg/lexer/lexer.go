// Package lexer turns Lox source text into a flat token stream.
//
// Scanning is a single forward pass with one character of lookahead (two for
// block comments and fractional numbers). Problems are recorded and scanning
// continues, so one pass reports every lexical error in the source.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
)

// Lexer holds the scanning state for one source string.
type Lexer struct {
	source  string
	start   int // first byte of the token being scanned
	current int // next byte to read
	line    int

	tokens []ast.Token
	errs   diag.List
}

// New creates a lexer positioned at the start of source.
func New(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

// Scan tokenises source. The returned slice always ends with an EOF token,
// even when err is non-nil; err is a multi-error of *diag.StaticError values.
func Scan(source string) ([]ast.Token, error) {
	return New(source).ScanTokens()
}

// ScanTokens runs the lexer to the end of its input.
func (l *Lexer) ScanTokens() ([]ast.Token, error) {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}
	l.tokens = append(l.tokens, ast.Token{Type: ast.EOF, Line: l.line})
	return l.tokens, l.errs.Err()
}

func (l *Lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.addToken(ast.LPAREN)
	case ')':
		l.addToken(ast.RPAREN)
	case '{':
		l.addToken(ast.LBRACE)
	case '}':
		l.addToken(ast.RBRACE)
	case ',':
		l.addToken(ast.COMMA)
	case '.':
		l.addToken(ast.DOT)
	case '-':
		l.addToken(ast.MINUS)
	case '+':
		l.addToken(ast.PLUS)
	case ';':
		l.addToken(ast.SEMICOLON)
	case '*':
		l.addToken(ast.STAR)
	case '%':
		l.addToken(ast.PERCENT)
	case '?':
		l.addToken(ast.QUESTION)
	case ':':
		l.addToken(ast.COLON)
	case '!':
		l.addToken(l.pick('=', ast.NEQ, ast.BANG))
	case '=':
		l.addToken(l.pick('=', ast.EQ, ast.ASSIGN))
	case '<':
		l.addToken(l.pick('=', ast.LTE, ast.LT))
	case '>':
		l.addToken(l.pick('=', ast.GTE, ast.GT))
	case '/':
		switch {
		case l.match('/'):
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		case l.match('*'):
			l.blockComment()
		default:
			l.addToken(ast.SLASH)
		}
	case ' ', '\r', '\t':
	case '\n':
		l.line++
	case '"':
		l.scanString()
	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.identifier()
		default:
			l.unexpected()
		}
	}
}

// blockComment skips a non-nested /* ... */ comment.
func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.current += 2
			return
		}
		if l.advance() == '\n' {
			l.line++
		}
	}
	l.errs.Add(diag.AtLine(l.line, "Unterminated comment."))
}

func (l *Lexer) scanString() {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.isAtEnd() {
		l.errs.Add(diag.AtLine(l.line, "Unterminated string."))
		return
	}
	l.advance() // closing quote
	l.addLiteral(ast.STRING, l.source[l.start+1:l.current-1])
}

func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	value, err := strconv.ParseFloat(l.source[l.start:l.current], 64)
	if err != nil {
		// Only reachable for literals beyond float64 range.
		l.errs.Add(diag.AtLine(l.line, "Invalid number literal."))
		return
	}
	l.addLiteral(ast.NUMBER, value)
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	l.addToken(ast.LookupKeyword(l.source[l.start:l.current]))
}

func (l *Lexer) unexpected() {
	r, size := utf8.DecodeRuneInString(l.source[l.start:])
	if size > 1 {
		l.current = l.start + size
	}
	l.errs.Add(diag.AtLine(l.line, "Unexpected character: "+string(r)+"."))
}

func (l *Lexer) addToken(tt ast.TokenType) {
	l.addLiteral(tt, nil)
}

func (l *Lexer) addLiteral(tt ast.TokenType, literal any) {
	l.tokens = append(l.tokens, ast.Token{
		Type:    tt,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.line,
	})
}

// pick consumes expected when it is next and returns ifMatch, otherwise it
// returns otherwise without consuming anything.
func (l *Lexer) pick(expected byte, ifMatch, otherwise ast.TokenType) ast.TokenType {
	if l.match(expected) {
		return ifMatch
	}
	return otherwise
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

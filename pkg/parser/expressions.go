package parser

import "lox/interpreter-go/pkg/ast"

// expression parses comma sequencing. `a, b` evaluates a, discards it and
// yields b; inside argument lists and parentheses the comma is left for the
// caller.
func (p *Parser) expression() ast.Expr {
	expr := p.assignment()
	for !p.insideParen && p.match(ast.COMMA) {
		comma := p.previous()
		expr = ast.NewBinary(expr, comma, p.assignment())
	}
	return expr
}

func (p *Parser) assignment() ast.Expr {
	defer p.nest()()
	expr := p.ternary()

	if p.match(ast.ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		}
		p.report(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) ternary() ast.Expr {
	expr := p.or()
	if p.match(ast.QUESTION) {
		then := p.expression()
		p.consume(ast.COLON, "Expect ':' after then branch of conditional expression.")
		otherwise := p.expression()
		return ast.NewTernary(expr, then, otherwise)
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(ast.OR) {
		operator := p.previous()
		expr = ast.NewLogical(expr, operator, p.and())
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(ast.AND) {
		operator := p.previous()
		expr = ast.NewLogical(expr, operator, p.equality())
	}
	return expr
}

// binaryLevel parses a left-associative chain of operators drawn from ops,
// with operands produced by next.
func (p *Parser) binaryLevel(next func() ast.Expr, ops ...ast.TokenType) ast.Expr {
	expr := next()
	for p.match(ops...) {
		operator := p.previous()
		expr = ast.NewBinary(expr, operator, next())
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binaryLevel(p.comparison, ast.NEQ, ast.EQ)
}

func (p *Parser) comparison() ast.Expr {
	return p.binaryLevel(p.term, ast.GT, ast.GTE, ast.LT, ast.LTE)
}

func (p *Parser) term() ast.Expr {
	return p.binaryLevel(p.factor, ast.MINUS, ast.PLUS)
}

func (p *Parser) factor() ast.Expr {
	return p.binaryLevel(p.unary, ast.SLASH, ast.STAR, ast.PERCENT)
}

func (p *Parser) unary() ast.Expr {
	defer p.nest()()
	if p.match(ast.BANG, ast.MINUS) {
		operator := p.previous()
		return ast.NewUnary(operator, p.unary())
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(ast.LPAREN):
			expr = p.finishCall(expr)
		case p.match(ast.DOT):
			name := p.consume(ast.IDENT, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	outer := p.insideParen
	p.insideParen = true

	var args []ast.Expr
	if !p.check(ast.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(ast.COMMA) {
				break
			}
		}
	}
	paren := p.consume(ast.RPAREN, "Expect ')' after arguments.")

	p.insideParen = outer
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(ast.FALSE):
		return ast.NewLiteral(false)
	case p.match(ast.TRUE):
		return ast.NewLiteral(true)
	case p.match(ast.NIL):
		return ast.NewLiteral(nil)
	case p.match(ast.NUMBER, ast.STRING):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(ast.SUPER):
		keyword := p.previous()
		p.consume(ast.DOT, "Expect '.' after 'super'.")
		method := p.consume(ast.IDENT, "Expect superclass method name.")
		return ast.NewSuper(keyword, method)
	case p.match(ast.THIS):
		return ast.NewThis(p.previous())
	case p.match(ast.FUN):
		keyword := p.previous()
		p.consume(ast.LPAREN, "Expect '(' after 'fun'.")
		return p.functionBody(keyword, string(ast.KindFunction))
	case p.match(ast.IDENT):
		return ast.NewVariable(p.previous())
	case p.match(ast.LPAREN):
		outer := p.insideParen
		p.insideParen = true
		expr := p.expression()
		p.consume(ast.RPAREN, "Expect ')' after expression.")
		p.insideParen = outer
		return ast.NewGrouping(expr)
	case p.check(ast.QUESTION):
		p.fail(p.peek(), "Expect expression before '?'.")
	}
	p.fail(p.peek(), "Expect expression.")
	return nil
}

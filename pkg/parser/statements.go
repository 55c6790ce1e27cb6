package parser

import "lox/interpreter-go/pkg/ast"

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer p.recoverTo(&stmt)
	switch {
	case p.match(ast.CLASS):
		return p.classDeclaration()
	case p.check(ast.FUN) && p.checkNext(ast.IDENT):
		p.advance()
		return p.functionDeclaration(ast.KindFunction)
	case p.match(ast.VAR):
		return p.varDeclaration()
	case p.match(ast.IMPORT):
		return p.importDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(ast.IDENT, "Expect class name.")

	var superclass *ast.Variable
	if p.match(ast.LT) {
		superclass = ast.NewVariable(p.consume(ast.IDENT, "Expect superclass name."))
	}

	p.consume(ast.LBRACE, "Expect '{' before class body.")
	var methods []*ast.FunctionDecl
	for !p.check(ast.RBRACE) && !p.isAtEnd() {
		kind := ast.KindMethod
		if p.match(ast.CLASS) {
			kind = ast.KindStaticMethod
		}
		methods = append(methods, p.functionDeclaration(kind))
	}
	p.consume(ast.RBRACE, "Expect '}' after class body.")

	return ast.NewClassStmt(name, superclass, methods)
}

func (p *Parser) functionDeclaration(kind ast.FunctionKind) *ast.FunctionDecl {
	label := string(kind)
	name := p.consume(ast.IDENT, "Expect "+label+" name.")
	p.consume(ast.LPAREN, "Expect '(' after "+label+" name.")
	fn := p.functionBody(name, label)
	return ast.NewFunctionDecl(name, fn, kind)
}

// functionBody parses the parameter list and body that follow an opening
// parenthesis. It is shared by declarations, methods and anonymous
// function expressions.
func (p *Parser) functionBody(keyword ast.Token, label string) *ast.Function {
	var params []ast.Token
	if !p.check(ast.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(ast.IDENT, "Expect parameter name."))
			if !p.match(ast.COMMA) {
				break
			}
		}
	}
	p.consume(ast.RPAREN, "Expect ')' after parameters.")
	p.consume(ast.LBRACE, "Expect '{' before "+label+" body.")

	outer := p.insideParen
	p.insideParen = false
	body := p.block()
	p.insideParen = outer

	return ast.NewFunction(keyword, params, body)
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(ast.IDENT, "Expect variable name.")
	var initializer ast.Expr
	if p.match(ast.ASSIGN) {
		initializer = p.expression()
	}
	p.consume(ast.SEMICOLON, "Expect ';' after variable declaration.")
	return ast.NewVarStmt(name, initializer)
}

func (p *Parser) importDeclaration() ast.Stmt {
	path := p.consume(ast.STRING, "Expect module path after 'import'.")
	var alias *ast.Token
	if p.match(ast.AS) {
		tok := p.consume(ast.IDENT, "Expect alias name after 'as'.")
		alias = &tok
	}
	p.consume(ast.SEMICOLON, "Expect ';' after import.")
	return ast.NewImportStmt(path, alias)
}

func (p *Parser) statement() ast.Stmt {
	defer p.nest()()
	switch {
	case p.match(ast.PRINT):
		return p.printStatement()
	case p.match(ast.LBRACE):
		return ast.NewBlockStmt(p.block())
	case p.match(ast.IF):
		return p.ifStatement()
	case p.match(ast.WHILE):
		return p.whileStatement()
	case p.match(ast.FOR):
		return p.forStatement()
	case p.match(ast.RETURN):
		return p.returnStatement()
	case p.match(ast.BREAK):
		return p.breakStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	p.consume(ast.SEMICOLON, "Expect ';' after value.")
	return ast.NewPrintStmt(value)
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(ast.SEMICOLON, "Expect ';' after expression.")
	return ast.NewExpressionStmt(expr)
}

// block parses declarations up to the closing brace. The opening brace has
// already been consumed.
func (p *Parser) block() []ast.Stmt {
	stmts := []ast.Stmt{}
	for !p.check(ast.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(ast.RBRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(ast.LPAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(ast.RPAREN, "Expect ')' after if condition.")

	then := p.statement()
	var otherwise ast.Stmt
	if p.match(ast.ELSE) {
		otherwise = p.statement()
	}
	return ast.NewIfStmt(condition, then, otherwise)
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(ast.LPAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(ast.RPAREN, "Expect ')' after condition.")
	return ast.NewWhileStmt(condition, p.statement())
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// The loop variable is therefore a single binding shared by every
// iteration.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(ast.LPAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(ast.SEMICOLON):
	case p.match(ast.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(ast.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(ast.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(ast.RPAREN) {
		increment = p.expression()
	}
	p.consume(ast.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()
	if increment != nil {
		body = ast.NewBlockStmt([]ast.Stmt{body, ast.NewExpressionStmt(increment)})
	}
	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	body = ast.NewWhileStmt(condition, body)
	if initializer != nil {
		body = ast.NewBlockStmt([]ast.Stmt{initializer, body})
	}
	return body
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(ast.SEMICOLON) {
		value = p.expression()
	}
	p.consume(ast.SEMICOLON, "Expect ';' after return value.")
	return ast.NewReturnStmt(keyword, value)
}

func (p *Parser) breakStatement() ast.Stmt {
	keyword := p.previous()
	p.consume(ast.SEMICOLON, "Expect ';' after 'break'.")
	return ast.NewBreakStmt(keyword)
}

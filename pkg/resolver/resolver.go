// Package resolver performs static scope analysis.
//
// Every local variable reference (Variable, Assign, This, Super) is mapped to
// the number of environments the interpreter must walk outward to reach the
// declaring scope. References that resolve to no enclosing local scope are
// left out of the table and looked up as globals at runtime.
package resolver

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
)

// Locals maps each resolved expression node to its scope distance. Keys are
// node pointers, so the table is only meaningful for the tree it was built
// from.
type Locals map[ast.Expr]int

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnStaticMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSub
)

// Resolver walks the tree with a stack of block scopes. A scope entry is
// false while the name is declared but its initializer is still being
// resolved.
type Resolver struct {
	scopes []map[string]bool
	locals Locals

	currentFunction functionType
	currentClass    classType
	loopDepth       int

	errs diag.List
}

func New() *Resolver {
	return &Resolver{locals: make(Locals)}
}

// Resolve analyses stmts and returns the side table. Structural errors do
// not stop the walk; err lists all of them as *diag.StaticError.
func Resolve(stmts []ast.Stmt) (Locals, error) {
	r := New()
	r.resolveStmts(stmts)
	return r.locals, r.errs.Err()
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.FunctionDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Function, fnFunction)
	case *ast.ClassStmt:
		r.resolveClass(s)
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
	case *ast.BreakStmt:
		if r.loopDepth == 0 {
			r.errs.Add(diag.AtToken(s.Keyword, "Can't use 'break' outside of a loop."))
		}
	case *ast.ReturnStmt:
		if r.currentFunction == fnNone {
			r.errs.Add(diag.AtToken(s.Keyword, "Can't return from top-level code."))
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.errs.Add(diag.AtToken(s.Keyword, "Can't return a value from an initializer."))
			}
			r.resolveExpr(s.Value)
		}
	case *ast.ImportStmt:
		name := s.Path
		if s.Alias != nil {
			name = *s.Alias
		}
		name.Lexeme = s.BindingName()
		r.declare(name)
		r.define(name)
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errs.Add(diag.AtToken(s.Superclass.Name, "A class can't inherit from itself."))
		}
		r.currentClass = classSub
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.peekScope()["super"] = true
		defer r.endScope()
	}

	seen := make(map[string]bool, len(s.Methods))
	for _, method := range s.Methods {
		if seen[method.Name.Lexeme] {
			r.errs.Add(diag.AtToken(method.Name, "Methods must have different names."))
		}
		seen[method.Name.Lexeme] = true

		r.beginScope()
		r.peekScope()["this"] = true
		kind := fnMethod
		switch {
		case method.Kind == ast.KindStaticMethod:
			kind = fnStaticMethod
		case method.Name.Lexeme == "init":
			kind = fnInitializer
		}
		r.resolveFunction(method.Function, kind)
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosingFunction, enclosingLoops := r.currentFunction, r.loopDepth
	r.currentFunction, r.loopDepth = kind, 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction, r.loopDepth = enclosingFunction, enclosingLoops
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if ready, ok := r.peekScope()[e.Name.Lexeme]; ok && !ready {
				r.errs.Add(diag.AtToken(e.Name, "Can't read local variable in its own initializer."))
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.This:
		if r.currentClass == classNone {
			r.errs.Add(diag.AtToken(e.Keyword, "Can't use 'this' outside of a class."))
			return
		}
		r.resolveLocal(e, "this")
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.errs.Add(diag.AtToken(e.Keyword, "Can't use 'super' outside of a class."))
			return
		case classPlain:
			r.errs.Add(diag.AtToken(e.Keyword, "Can't use 'super' in a class with no superclass."))
			return
		}
		r.resolveLocal(e, "super")
	case *ast.Function:
		r.resolveFunction(e, fnFunction)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Ternary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Literal:
	}
}

// resolveLocal records the distance from the innermost scope to the one
// declaring name. Nothing is recorded for globals.
func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) declare(name ast.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peekScope()
	if _, ok := scope[name.Lexeme]; ok {
		r.errs.Add(diag.AtToken(name, "Already a variable with this name in this scope."))
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name ast.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[name.Lexeme] = true
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peekScope() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

package ast

import (
	"path"
	"strings"
)

type NodeType string

const (
	NodeLiteral    NodeType = "Literal"
	NodeGrouping   NodeType = "Grouping"
	NodeUnary      NodeType = "Unary"
	NodeBinary     NodeType = "Binary"
	NodeLogical    NodeType = "Logical"
	NodeTernary    NodeType = "Ternary"
	NodeVariable   NodeType = "Variable"
	NodeAssign     NodeType = "Assign"
	NodeGet        NodeType = "Get"
	NodeSet        NodeType = "Set"
	NodeCall       NodeType = "Call"
	NodeFunction   NodeType = "Function"
	NodeSuper      NodeType = "Super"
	NodeThis       NodeType = "This"
	NodeExpression NodeType = "ExpressionStatement"
	NodePrint      NodeType = "PrintStatement"
	NodeVar        NodeType = "VarStatement"
	NodeBlock      NodeType = "BlockStatement"
	NodeIf         NodeType = "IfStatement"
	NodeWhile      NodeType = "WhileStatement"
	NodeReturn     NodeType = "ReturnStatement"
	NodeBreak      NodeType = "BreakStatement"
	NodeFunDecl    NodeType = "FunctionDeclaration"
	NodeClass      NodeType = "ClassDeclaration"
	NodeImport     NodeType = "ImportStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

// Expr is any expression node. Expression nodes are always pointers so they
// can key the resolver's side table by identity.
type Expr interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Stmt interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expressions

type Literal struct {
	nodeImpl
	expressionMarker

	// Value is nil, bool, float64 or string.
	Value any
}

func NewLiteral(value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type Grouping struct {
	nodeImpl
	expressionMarker

	Expression Expr
}

func NewGrouping(expr Expr) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping), Expression: expr}
}

type Unary struct {
	nodeImpl
	expressionMarker

	Operator Token
	Right    Expr
}

func NewUnary(operator Token, right Expr) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary), Operator: operator, Right: right}
}

type Binary struct {
	nodeImpl
	expressionMarker

	Left     Expr
	Operator Token
	Right    Expr
}

func NewBinary(left Expr, operator Token, right Expr) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary), Left: left, Operator: operator, Right: right}
}

// Logical is a short-circuiting `and`/`or`.
type Logical struct {
	nodeImpl
	expressionMarker

	Left     Expr
	Operator Token
	Right    Expr
}

func NewLogical(left Expr, operator Token, right Expr) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical), Left: left, Operator: operator, Right: right}
}

type Ternary struct {
	nodeImpl
	expressionMarker

	Condition Expr
	Then      Expr
	Else      Expr
}

func NewTernary(condition, then, otherwise Expr) *Ternary {
	return &Ternary{nodeImpl: newNodeImpl(NodeTernary), Condition: condition, Then: then, Else: otherwise}
}

type Variable struct {
	nodeImpl
	expressionMarker

	Name Token
}

func NewVariable(name Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type Assign struct {
	nodeImpl
	expressionMarker

	Name  Token
	Value Expr
}

func NewAssign(name Token, value Expr) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Name: name, Value: value}
}

type Get struct {
	nodeImpl
	expressionMarker

	Object Expr
	Name   Token
}

func NewGet(object Expr, name Token) *Get {
	return &Get{nodeImpl: newNodeImpl(NodeGet), Object: object, Name: name}
}

type Set struct {
	nodeImpl
	expressionMarker

	Object Expr
	Name   Token
	Value  Expr
}

func NewSet(object Expr, name Token, value Expr) *Set {
	return &Set{nodeImpl: newNodeImpl(NodeSet), Object: object, Name: name, Value: value}
}

type Call struct {
	nodeImpl
	expressionMarker

	Callee    Expr
	Paren     Token
	Arguments []Expr
}

func NewCall(callee Expr, paren Token, args []Expr) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Paren: paren, Arguments: args}
}

// Function is a function literal. Named declarations and methods wrap one in
// a FunctionDecl; anonymous `fun (...) {...}` expressions use it directly.
type Function struct {
	nodeImpl
	expressionMarker

	Keyword Token
	Params  []Token
	Body    []Stmt
}

func NewFunction(keyword Token, params []Token, body []Stmt) *Function {
	return &Function{nodeImpl: newNodeImpl(NodeFunction), Keyword: keyword, Params: params, Body: body}
}

type Super struct {
	nodeImpl
	expressionMarker

	Keyword Token
	Method  Token
}

func NewSuper(keyword, method Token) *Super {
	return &Super{nodeImpl: newNodeImpl(NodeSuper), Keyword: keyword, Method: method}
}

type This struct {
	nodeImpl
	expressionMarker

	Keyword Token
}

func NewThis(keyword Token) *This {
	return &This{nodeImpl: newNodeImpl(NodeThis), Keyword: keyword}
}

// Statements

type ExpressionStmt struct {
	nodeImpl
	statementMarker

	Expression Expr
}

func NewExpressionStmt(expr Expr) *ExpressionStmt {
	return &ExpressionStmt{nodeImpl: newNodeImpl(NodeExpression), Expression: expr}
}

type PrintStmt struct {
	nodeImpl
	statementMarker

	Expression Expr
}

func NewPrintStmt(expr Expr) *PrintStmt {
	return &PrintStmt{nodeImpl: newNodeImpl(NodePrint), Expression: expr}
}

type VarStmt struct {
	nodeImpl
	statementMarker

	Name        Token
	Initializer Expr // nil when absent
}

func NewVarStmt(name Token, initializer Expr) *VarStmt {
	return &VarStmt{nodeImpl: newNodeImpl(NodeVar), Name: name, Initializer: initializer}
}

type BlockStmt struct {
	nodeImpl
	statementMarker

	Statements []Stmt
}

func NewBlockStmt(stmts []Stmt) *BlockStmt {
	return &BlockStmt{nodeImpl: newNodeImpl(NodeBlock), Statements: stmts}
}

type IfStmt struct {
	nodeImpl
	statementMarker

	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func NewIfStmt(condition Expr, then, otherwise Stmt) *IfStmt {
	return &IfStmt{nodeImpl: newNodeImpl(NodeIf), Condition: condition, Then: then, Else: otherwise}
}

// WhileStmt is also the target of `for` desugaring.
type WhileStmt struct {
	nodeImpl
	statementMarker

	Condition Expr
	Body      Stmt
}

func NewWhileStmt(condition Expr, body Stmt) *WhileStmt {
	return &WhileStmt{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

type ReturnStmt struct {
	nodeImpl
	statementMarker

	Keyword Token
	Value   Expr // nil for a bare `return;`
}

func NewReturnStmt(keyword Token, value Expr) *ReturnStmt {
	return &ReturnStmt{nodeImpl: newNodeImpl(NodeReturn), Keyword: keyword, Value: value}
}

type BreakStmt struct {
	nodeImpl
	statementMarker

	Keyword Token
}

func NewBreakStmt(keyword Token) *BreakStmt {
	return &BreakStmt{nodeImpl: newNodeImpl(NodeBreak), Keyword: keyword}
}

// FunctionKind tags a named function declaration.
type FunctionKind string

const (
	KindFunction     FunctionKind = "function"
	KindMethod       FunctionKind = "method"
	KindStaticMethod FunctionKind = "static method"
)

type FunctionDecl struct {
	nodeImpl
	statementMarker

	Name     Token
	Function *Function
	Kind     FunctionKind
}

func NewFunctionDecl(name Token, fn *Function, kind FunctionKind) *FunctionDecl {
	return &FunctionDecl{nodeImpl: newNodeImpl(NodeFunDecl), Name: name, Function: fn, Kind: kind}
}

type ClassStmt struct {
	nodeImpl
	statementMarker

	Name       Token
	Superclass *Variable // nil without `<`
	Methods    []*FunctionDecl
}

func NewClassStmt(name Token, superclass *Variable, methods []*FunctionDecl) *ClassStmt {
	return &ClassStmt{nodeImpl: newNodeImpl(NodeClass), Name: name, Superclass: superclass, Methods: methods}
}

type ImportStmt struct {
	nodeImpl
	statementMarker

	Path  Token  // STRING token; Literal holds the unquoted path
	Alias *Token // nil without `as`
}

func NewImportStmt(path Token, alias *Token) *ImportStmt {
	return &ImportStmt{nodeImpl: newNodeImpl(NodeImport), Path: path, Alias: alias}
}

// ModulePath is the unquoted import path.
func (s *ImportStmt) ModulePath() string {
	if p, ok := s.Path.Literal.(string); ok {
		return p
	}
	return strings.Trim(s.Path.Lexeme, `"`)
}

// BindingName is the name the module is bound to in the importing scope:
// the alias when present, otherwise the file name without its extension.
func (s *ImportStmt) BindingName() string {
	if s.Alias != nil {
		return s.Alias.Lexeme
	}
	base := path.Base(s.ModulePath())
	return strings.TrimSuffix(base, path.Ext(base))
}

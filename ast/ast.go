// Package ast defines the closed AST variant produced by the parser
// and walked by the evaluator. Each syntactic category
// (Expr, Stmt, Decl) is realized as one Go interface with an
// unexported marker method, one struct per concrete node — a closed
// set of tagged variants, dispatched in the evaluator with a type
// switch rather than virtual methods.
package ast

import (
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// Node is any AST node; every node carries its source position.
type Node interface {
	Position() token.Pos
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Base embeds the source position every node carries.
type Base struct{ Pos token.Pos }

func (b Base) Position() token.Pos { return b.Pos }

// ---- Expressions ----

// IntLit is an integer literal.
type IntLit struct {
	Base
	Value int64
}

// FloatLit is a floating literal.
type FloatLit struct {
	Base
	Value float64
}

// CharLit is a character literal.
type CharLit struct {
	Base
	Value int64
}

// StringLit is a string literal.
type StringLit struct {
	Base
	Value string
}

// Ident is an identifier reference.
type Ident struct {
	Base
	Name string
}

// UnaryExpr is a prefix or postfix unary operator application.
// Op is one of "+","-","!","~","++","--","*","&" for prefix use, or
// "++","--" for postfix use (Postfix discriminates the two).
type UnaryExpr struct {
	Base
	Op      string
	X       Expr
	Postfix bool
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Base
	Op   string
	X, Y Expr
}

// AssignExpr is `=` or a compound assignment `+= -= *= /= %=`.
type AssignExpr struct {
	Base
	Op     string // "=", "+=", "-=", "*=", "/=", "%="
	Target Expr
	Value  Expr
}

// IndexExpr is `a[i]`.
type IndexExpr struct {
	Base
	X, Index Expr
}

// CallExpr is a function call.
type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

// CastExpr is an explicit `(type) expr` cast.
type CastExpr struct {
	Base
	Type cvalue.Type
	X    Expr
}

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	Base
	Cond, Then, Else Expr
}

// SizeofExpr is `sizeof expr` or `sizeof(expr)`.
type SizeofExpr struct {
	Base
	X Expr
}

// SizeofTypeExpr is `sizeof(type)`.
type SizeofTypeExpr struct {
	Base
	Type cvalue.Type
}

// InitListExpr is a brace initializer list, used both at the top of a
// declarator's initializer and, nested, for each row of a 2-D array
// initializer.
type InitListExpr struct {
	Base
	Elems []Expr
}

func (IntLit) exprNode()         {}
func (FloatLit) exprNode()       {}
func (CharLit) exprNode()        {}
func (StringLit) exprNode()      {}
func (Ident) exprNode()          {}
func (UnaryExpr) exprNode()      {}
func (BinaryExpr) exprNode()     {}
func (AssignExpr) exprNode()     {}
func (IndexExpr) exprNode()      {}
func (CallExpr) exprNode()       {}
func (CastExpr) exprNode()       {}
func (TernaryExpr) exprNode()    {}
func (SizeofExpr) exprNode()     {}
func (SizeofTypeExpr) exprNode() {}
func (InitListExpr) exprNode()   {}

// ConstExpr is an internal Expr node holding an already-computed
// value, never produced by the parser.
type ConstExpr struct {
	Base
	V cvalue.Value
}

func NewConstExpr(v cvalue.Value) *ConstExpr { return &ConstExpr{V: v} }

func (*ConstExpr) exprNode() {}

// ---- Statements ----

// BlockStmt is `{ ... }`.
type BlockStmt struct {
	Base
	Stmts []Stmt
}

// DeclStmt wraps a Decl appearing as a statement (a local declaration).
type DeclStmt struct {
	Base
	Decl Decl
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Base
	X Expr
}

// IfStmt is `if (cond) then [else else_]`.
type IfStmt struct {
	Base
	Cond       Expr
	Then, Else Stmt
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Base
	Cond Expr
	Body Stmt
}

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	Base
	Body Stmt
	Cond Expr
}

// ForStmt is `for (init; cond; step) body`; any of Init/Cond/Step may
// be nil.
type ForStmt struct {
	Base
	Init Stmt // DeclStmt, ExprStmt, or nil
	Cond Expr
	Step Expr
	Body Stmt
}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Base
	X Expr // nil for bare `return;`
}

// BreakStmt is `break;`.
type BreakStmt struct{ Base }

// ContinueStmt is `continue;`.
type ContinueStmt struct{ Base }

// EmptyStmt is a bare `;`.
type EmptyStmt struct{ Base }

func (BlockStmt) stmtNode()    {}
func (DeclStmt) stmtNode()     {}
func (ExprStmt) stmtNode()     {}
func (IfStmt) stmtNode()       {}
func (WhileStmt) stmtNode()    {}
func (DoWhileStmt) stmtNode()  {}
func (ForStmt) stmtNode()      {}
func (ReturnStmt) stmtNode()   {}
func (BreakStmt) stmtNode()    {}
func (ContinueStmt) stmtNode() {}
func (EmptyStmt) stmtNode()    {}

// NewBase constructs the embeddable position holder, for use by the
// parser package when assembling node literals.
func NewBase(pos token.Pos) Base { return Base{Pos: pos} }

// ---- Declarations ----

// Decl is any top-level or local declaration.
type Decl interface {
	Node
	declNode()
}

// Declarator is one name in a comma-separated declaration, e.g. the
// `a`, `b[5]`, and `*c` in `int a, b[5], *c;`.
type Declarator struct {
	Name string
	Type cvalue.Type
	Init Expr // scalar initializer, or nil
	// InitList holds a (possibly nested, for 2-D arrays) brace
	// initializer's element expressions; non-nil only for array
	// declarators initialized with `{ ... }`.
	InitList []Expr
}

// VarDecl is a declaration of one or more variables sharing a base
// type-specifier: `int a, b[5], *c;`.
type VarDecl struct {
	Base
	BaseType    cvalue.Type
	Declarators []Declarator
}

// Param is one function parameter.
type Param struct {
	Name string
	Type cvalue.Type
}

// FuncDecl is a top-level function definition.
type FuncDecl struct {
	Base
	Name    string
	Params  []Param
	RetType cvalue.Type
	Body    *BlockStmt
}

func (VarDecl) declNode()  {}
func (FuncDecl) declNode() {}

// Program is the parsed compilation unit: an ordered sequence of
// top-level declarations.
type Program struct {
	Decls []Decl
}

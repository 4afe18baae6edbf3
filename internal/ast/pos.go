// Package ast defines the heterogeneous abstract syntax tree produced by
// the parser: modules, declarations, statements, expressions, patterns,
// and type expressions, each a tagged-sum Node carrying a precise source
// Pos. The tree is built once by the parser and is immutable afterward;
// every pass that follows only reads it.
package ast

import "fmt"

// Pos is a source position: a 1-based (line, column) within a named
// file, plus the byte length of the token or span it anchors.
type Pos struct {
	File   string
	Line   int
	Column int
	Length int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is implemented by every AST node: declarations, statements,
// expressions, patterns, and type expressions alike.
type Node interface {
	Pos() Pos
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is implemented by every match-pattern node.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is implemented by every syntactic type-expression node (as
// distinct from the resolved types produced by the type resolver).
type TypeExpr interface {
	Node
	typeExprNode()
}

// GetLocation returns the span used to report errors about an
// expression: the expression's own Pos.
func GetLocation(e Expr) Pos {
	return e.Pos()
}

// Deinit is the release hook for an AST node. The parser builds the tree
// from ordinary garbage-collected Go values (it is not allocated in the
// compilation context's arena), so there is nothing to free node by
// node; Deinit is a deliberate no-op.
func Deinit(Node) {}

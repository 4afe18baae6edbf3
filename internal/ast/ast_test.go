package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosString(t *testing.T) {
	p := Pos{File: "a.fe", Line: 3, Column: 5}
	assert.Equal(t, "a.fe:3:5", p.String())
}

func TestGetLocationReturnsExprPos(t *testing.T) {
	id := &Identifier{Name: "x", IdePos: Pos{File: "a.fe", Line: 1, Column: 1}}
	assert.Equal(t, id.IdePos, GetLocation(id))
}

func TestDeinitIsNoOp(t *testing.T) {
	// Deinit must not panic on any node and has no observable effect.
	id := &Identifier{Name: "x"}
	assert.NotPanics(t, func() { Deinit(id) })
}

func TestNodeVariantsImplementInterfaces(t *testing.T) {
	var _ Expr = (*NumberLit)(nil)
	var _ Expr = (*BinaryExpr)(nil)
	var _ Expr = (*CallExpr)(nil)
	var _ Expr = (*MatchExpr)(nil)
	var _ Expr = (*BlockExpr)(nil)
	var _ Stmt = (*FuncDecl)(nil)
	var _ Stmt = (*IfStmt)(nil)
	var _ Stmt = (*MatchStmt)(nil)
	var _ Pattern = (*WildcardPattern)(nil)
	var _ Pattern = (*VariantPattern)(nil)
	var _ TypeExpr = (*GenericTypeExpr)(nil)
	var _ TypeExpr = (*UnionTypeExpr)(nil)
}

package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karol-broda/ferrule/internal/types"
)

func TestGlobalScopeHasBuiltins(t *testing.T) {
	g := NewGlobalScope()
	for _, name := range []string{"print", "println", "debug_print", "debug_print_i32", "read_char"} {
		sym, ok := g.Lookup(name)
		if !assert.True(t, ok, "expected builtin %q to be installed", name) {
			continue
		}
		assert.Equal(t, FunctionSym, sym.Kind, "%q should be a function symbol", name)
		assert.Equal(t, []string{"io"}, sym.Effects, "%q should declare effect io", name)
	}
}

func TestDuplicateInsertAtSameFrameErrors(t *testing.T) {
	s := NewGlobalScope().NewChild()
	sym := &Symbol{Kind: VariableSym, Name: "x", Type: types.I32}
	require.NoError(t, s.Insert(sym), "first insert should succeed")
	assert.Error(t, s.Insert(sym), "expected duplicate insertion to fail")
}

func TestShadowingAcrossScopesIsAllowed(t *testing.T) {
	outer := NewGlobalScope().NewChild()
	_ = outer.Insert(&Symbol{Kind: VariableSym, Name: "x", Type: types.I32})
	inner := outer.NewChild()
	assert.NoError(t, inner.Insert(&Symbol{Kind: VariableSym, Name: "x", Type: types.String}),
		"shadowing in a child scope should be allowed")
	sym, _ := inner.Lookup("x")
	assert.True(t, sym.Type.Equals(types.String), "inner lookup should see the shadowing binding")
}

func TestLookupWalksParentChain(t *testing.T) {
	outer := NewGlobalScope().NewChild()
	_ = outer.Insert(&Symbol{Kind: ConstantSym, Name: "PI", Type: types.F64})
	inner := outer.NewChild().NewChild()
	sym, ok := inner.Lookup("PI")
	require.True(t, ok, "expected lookup to walk up through parent scopes")
	assert.Equal(t, "PI", sym.Name)
	_, ok = inner.LookupLocal("PI")
	assert.False(t, ok, "LookupLocal should not see bindings from ancestor frames")
}

func TestScopeDepth(t *testing.T) {
	g := NewGlobalScope()
	c1 := g.NewChild()
	c2 := c1.NewChild()
	assert.Equal(t, 0, g.Depth())
	assert.Equal(t, 1, c1.Depth())
	assert.Equal(t, 2, c2.Depth())
}

package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karol-broda/ferrule/internal/types"
)

func TestInternTypeIdempotent(t *testing.T) {
	c := New()
	a := &types.Array{Elem: types.I32, Size: 4}
	b := &types.Array{Elem: types.I32, Size: 4}

	h1 := c.InternType(a)
	h2 := c.InternType(b)
	h3 := c.InternType(h1)

	assert.Equal(t, h1, h2, "structurally identical types must intern to the same handle")
	assert.Equal(t, h1, h3, "InternType(InternType(t)) must equal InternType(t)")
}

func TestInternTypeDistinctFingerprints(t *testing.T) {
	c := New()
	h1 := c.InternType(&types.Array{Elem: types.I32, Size: 4})
	h2 := c.InternType(&types.Array{Elem: types.I32, Size: 8})
	assert.NotEqual(t, h1, h2, "arrays of different size must not share a handle")
	assert.Equal(t, 2, c.Types.Len())
}

func TestInternStringIdempotent(t *testing.T) {
	c := New()
	s1 := c.InternString("hello")
	s2 := c.InternString("hello")
	assert.Equal(t, 1, c.Strings.Len())
	assert.Equal(t, s1, s2)
}

func TestArenaDestroy(t *testing.T) {
	c := New()
	c.InternType(types.I32)
	assert.NotZero(t, c.Arena.Live(), "expected at least one live allocation before destroy")
	c.Destroy()
	assert.Zero(t, c.Arena.Live(), "expected zero live allocations after destroy")
	assert.True(t, c.Arena.Destroyed())
}

func TestArenaAllocAfterDestroyPanics(t *testing.T) {
	a := NewArena()
	a.Destroy()
	assert.Panics(t, func() { a.Alloc() }, "expected panic allocating into a destroyed arena")
}

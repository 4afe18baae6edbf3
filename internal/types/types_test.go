package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarEquals(t *testing.T) {
	assert.True(t, I32.Equals(I32), "I32 should equal itself")
	assert.False(t, I32.Equals(I64), "I32 should not equal I64")
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric(I32), "expected i32 to be numeric")
	assert.True(t, IsNumeric(F64), "expected f64 to be numeric")
	assert.False(t, IsNumeric(Bool), "expected bool to not be numeric")
	assert.False(t, IsNumeric(String), "expected string to not be numeric")
}

func TestArrayEquals(t *testing.T) {
	a := &Array{Elem: I32, Size: 8}
	b := &Array{Elem: I32, Size: 8}
	c := &Array{Elem: I32, Size: 4}
	assert.True(t, a.Equals(b), "arrays with same elem/size should be equal")
	assert.False(t, a.Equals(c), "arrays with different size should not be equal")
}

func TestRecordFieldType(t *testing.T) {
	r := &Record{FieldNames: []string{"x", "y"}, FieldTypes: []Type{I32, I32}}
	ty, ok := r.FieldType("x")
	assert.True(t, ok, "expected field x to exist")
	assert.True(t, ty.Equals(I32), "expected field x to be i32")
	_, ok = r.FieldType("z")
	assert.False(t, ok, "expected field z to not exist")
}

func TestUnionHasVariant(t *testing.T) {
	u := &Union{Variants: []UnionVariant{{Name: "Red"}, {Name: "Green"}, {Name: "Blue"}}}
	assert.True(t, u.HasVariant("Red"))
	assert.False(t, u.HasVariant("Purple"))
	assert.Len(t, u.VariantNames(), 3)
}

func TestFunctionEquals(t *testing.T) {
	f1 := &Function{Params: []Type{I32, I32}, Return: I32, Effects: []string{"io"}}
	f2 := &Function{Params: []Type{I32, I32}, Return: I32, Effects: []string{"io"}}
	f3 := &Function{Params: []Type{I32}, Return: I32}
	assert.True(t, f1.Equals(f2), "expected equal function types")
	assert.False(t, f1.Equals(f3), "expected different arity to not be equal")
}

func TestResultFingerprintStable(t *testing.T) {
	r1 := &Result{Ok: I32, Domain: "Http"}
	r2 := &Result{Ok: I32, Domain: "Http"}
	assert.Equal(t, r1.Fingerprint(), r2.Fingerprint(), "expected identical fingerprints for structurally equal results")
}

func TestLookupScalar(t *testing.T) {
	s, ok := LookupScalar("i32")
	assert.True(t, ok)
	assert.Same(t, I32, s, "expected LookupScalar(i32) to return the canonical I32")
	_, ok = LookupScalar("nope")
	assert.False(t, ok, "expected LookupScalar(nope) to fail")
}

package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karol-broda/ferrule/internal/ast"
)

func TestReportHasErrors(t *testing.T) {
	r := NewReport()
	assert.False(t, r.HasErrors(), "empty report should have no errors")

	r.Add(New(Warning, EXH001, "non-exhaustive match", ast.Pos{}))
	assert.False(t, r.HasErrors(), "warning-only report should have no errors")

	r.Add(New(Error, TYP001, "type mismatch", ast.Pos{}))
	assert.True(t, r.HasErrors())
	assert.Equal(t, 1, r.Count(Warning))
	assert.Equal(t, 1, r.Count(Error))
}

func TestSortedBySpan(t *testing.T) {
	r := NewReport()
	r.Add(New(Error, TYP001, "second", ast.Pos{File: "a.fe", Line: 5, Column: 1}))
	r.Add(New(Error, TYP001, "first", ast.Pos{File: "a.fe", Line: 1, Column: 1}))
	sorted := r.SortedBySpan()
	require.Len(t, sorted, 2)
	assert.Equal(t, "first", sorted[0].Message)
	assert.Equal(t, "second", sorted[1].Message)
}

func TestRenderCaret(t *testing.T) {
	d := New(Error, TYP002, "numeric literal requires explicit type annotation",
		ast.Pos{File: "a.fe", Line: 1, Column: 7, Length: 2})
	out := Render(d, "const x = 42;")
	assert.Contains(t, out, "const x = 42;")
	assert.Contains(t, out, "^^", "expected a 2-wide caret")
}

func TestRenderIsPureFunction(t *testing.T) {
	d := New(Error, TYP001, "mismatch", ast.Pos{File: "a.fe", Line: 1, Column: 1, Length: 1})
	src := "x"
	assert.Equal(t, Render(d, src), Render(d, src), "Render must be deterministic for identical inputs")
}

func TestToJSONRoundTripsFields(t *testing.T) {
	d := New(Error, EFF002, "effect 'fs' requires a capability parameter of type Fs",
		ast.Pos{File: "a.fe", Line: 2, Column: 3, Length: 1})
	js, err := d.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"code":"EFF002"`)
	assert.Contains(t, js, `"phase":"effects"`)
}

func TestCodePhase(t *testing.T) {
	cases := map[Code]string{
		PAR001: "parser", TYP001: "typecheck", EFF001: "effects",
		DOM001: "domains", REG001: "regions", EXH001: "exhaustiveness",
	}
	for code, phase := range cases {
		assert.Equal(t, phase, code.Phase(), "%s", code)
	}
}

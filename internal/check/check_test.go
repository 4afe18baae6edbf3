package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/ctx"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/parser"
)

func runCheck(t *testing.T, src string) (*Result, *ast.File) {
	t.Helper()
	report := diag.NewReport()
	p := parser.New([]byte(src), "test.fe", report)
	file, err := p.Parse()
	require.NoError(t, err, "diagnostics: %v", report.Diagnostics())
	result := Run(ctx.New(), report, file, nil)
	return result, file
}

func TestHappyPathNoDiagnostics(t *testing.T) {
	result, _ := runCheck(t, `
		package app;
		function add(a: i32, b: i32) -> i32 { return a + b; }
	`)
	assert.Empty(t, result.Report.Diagnostics())
}

func TestNumericLiteralRequiresAnnotation(t *testing.T) {
	result, _ := runCheck(t, `const x = 42;`)
	diags := result.Report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.TYP002, diags[0].Code)
	assert.Contains(t, diags[0].Message, "numeric literal requires explicit type annotation")
}

func TestEffectRequiresCapabilityParam(t *testing.T) {
	result, _ := runCheck(t, `
		function f() -> unit effects [fs] { }
	`)
	diags := result.Report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.EFF002, diags[0].Code)
	assert.Contains(t, diags[0].Message, "effect 'fs' requires a capability parameter of type Fs")
}

func TestDomainCheckRejectsIncompatibleDomain(t *testing.T) {
	result, _ := runCheck(t, `
		error X { Foo };
		domain A = X;
		error Y { Bar };
		domain B = Y;
		function callA() -> i32 error A { return ok 1; }
		function g() -> i32 error B { return ok check callA(); }
	`)
	diags := result.Report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.DOM002, diags[0].Code)
	assert.Contains(t, diags[0].Message, "error domain 'A' is not compatible with function's error domain 'B'")
}

func TestMatchExhaustivenessReportsMissingVariant(t *testing.T) {
	result, _ := runCheck(t, `
		type Color = | Red | Green | Blue;
		function f(c: Color) -> i32 {
			match c { Red -> 1; Green -> 2; }
		}
	`)
	diags := result.Report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.EXH001, diags[0].Code)
	assert.Equal(t, diag.Warning, diags[0].Level)
	assert.Contains(t, diags[0].Message, "Blue")
}

func TestRegionEscapesOnReturn(t *testing.T) {
	// effects [alloc] is declared so the only diagnostic under test is the
	// region escape itself, not an unrelated undeclared-effect error.
	result, _ := runCheck(t, `
		function f() -> Region effects [alloc] { var r: Region = createRegion(); return r; }
	`)
	diags := result.Report.Diagnostics()
	require.Len(t, diags, 1, "expected exactly one diagnostic (no redundant disposal warning)")
	assert.Equal(t, diag.REG002, diags[0].Code)
	assert.Contains(t, diags[0].Message, "escapes its creating scope")
}

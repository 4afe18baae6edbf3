package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Report) {
	t.Helper()
	report := diag.NewReport()
	p := New([]byte(src), "test.fe", report)
	file, err := p.Parse()
	require.NoError(t, err, "diagnostics: %v", report.Diagnostics())
	return file, report
}

func TestHappyPathSimpleFunction(t *testing.T) {
	file, report := parse(t, `
		package app;
		function add(a: i32, b: i32) -> i32 { return a + b; }
	`)
	require.Empty(t, report.Diagnostics())
	require.NotNil(t, file.Package)
	assert.Equal(t, "app", file.Package.Path)
	require.Len(t, file.Statements, 1)

	fn, ok := file.Statements[0].(*ast.FuncDecl)
	require.True(t, ok, "expected FuncDecl, got %T", file.Statements[0])
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)

	ret, ok := fn.ReturnType.(*ast.SimpleTypeExpr)
	require.True(t, ok, "expected a simple return type, got %+v", fn.ReturnType)
	assert.Equal(t, "i32", ret.Name)

	require.Len(t, fn.Body.Statements, 1)
	retStmt, ok := fn.Body.Statements[0].(*ast.ReturnStmt)
	require.True(t, ok, "expected ReturnStmt, got %T", fn.Body.Statements[0])
	bin, ok := retStmt.Value.(*ast.BinaryExpr)
	require.True(t, ok, "expected a binary expr, got %+v", retStmt.Value)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestConstDeclWithoutAnnotation(t *testing.T) {
	file, report := parse(t, `const x = 42;`)
	require.Empty(t, report.Diagnostics(), "parsing alone should not diagnose the missing annotation")

	decl, ok := file.Statements[0].(*ast.ConstDecl)
	require.True(t, ok)
	assert.Nil(t, decl.Type, "expected an unannotated const")

	lit, ok := decl.Value.(*ast.NumberLit)
	require.True(t, ok)
	assert.Equal(t, "42", lit.Lexeme)
}

func TestFunctionWithEffectsAnnotation(t *testing.T) {
	file, _ := parse(t, `function f() -> unit effects [fs] { }`)
	fn := file.Statements[0].(*ast.FuncDecl)
	assert.Equal(t, []string{"fs"}, fn.Effects)
}

func TestFunctionWithErrorDomainAndCheck(t *testing.T) {
	file, _ := parse(t, `
		domain A = X;
		domain B = Y;
		function g() -> i32 error B { return ok check callA(); }
	`)
	fn := file.Statements[2].(*ast.FuncDecl)
	assert.Equal(t, "B", fn.ErrorName)

	retStmt := fn.Body.Statements[0].(*ast.ReturnStmt)
	okExpr, ok := retStmt.Value.(*ast.OkExpr)
	require.True(t, ok, "expected OkExpr, got %T", retStmt.Value)
	checkExpr, ok := okExpr.Value.(*ast.CheckExpr)
	require.True(t, ok, "expected CheckExpr inside ok, got %T", okExpr.Value)
	call, ok := checkExpr.Value.(*ast.CallExpr)
	require.True(t, ok, "expected CallExpr inside check, got %T", checkExpr.Value)

	callee, ok := call.Callee.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "callA", callee.Name)
}

func TestMatchNonExhaustiveParsesAllArms(t *testing.T) {
	file, _ := parse(t, `
		type Color = | Red | Green | Blue;
		function f(c: Color) -> i32 { match c { Red -> 1; Green -> 2; } }
	`)
	fn := file.Statements[1].(*ast.FuncDecl)
	matchStmt := fn.Body.Statements[0].(*ast.MatchStmt)
	require.Len(t, matchStmt.Arms, 2)

	var gotNames []string
	for _, arm := range matchStmt.Arms {
		pat, ok := arm.Pattern.(*ast.VariantPattern)
		require.True(t, ok, "expected variant pattern, got %+v", arm.Pattern)
		gotNames = append(gotNames, pat.Name)
	}
	if diff := cmp.Diff([]string{"Red", "Green"}, gotNames); diff != "" {
		t.Errorf("arm variant names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegionEscapeParses(t *testing.T) {
	file, report := parse(t, `function f() -> Region { var r: Region = createRegion(); return r; }`)
	require.Empty(t, report.Diagnostics(), "expected zero diagnostics at parse time")

	fn := file.Statements[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Statements, 2, "expected var + return")
	_, ok := fn.Body.Statements[0].(*ast.VarDecl)
	assert.True(t, ok, "expected VarDecl, got %T", fn.Body.Statements[0])
}

func TestExpressionPrecedence(t *testing.T) {
	file, _ := parse(t, `const x = 1 + 2 * 3 == 7 && true;`)
	decl := file.Statements[0].(*ast.ConstDecl)

	top, ok := decl.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, top.Op, "expected top-level &&")

	eq, ok := top.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpEq, eq.Op, "expected == under &&")

	add, ok := eq.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, add.Op, "expected + under ==")

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op, "expected * to bind tighter than +")
}

func TestBlockVsRecordLiteralDisambiguation(t *testing.T) {
	file, _ := parse(t, `const p = { x: 1, y: 2 };`)
	decl := file.Statements[0].(*ast.ConstDecl)
	rec, ok := decl.Value.(*ast.RecordLit)
	require.True(t, ok, "expected a record literal, got %+v", decl.Value)
	assert.Len(t, rec.Fields, 2)

	file2, _ := parse(t, `const p = { f(); };`)
	decl2 := file2.Statements[0].(*ast.ConstDecl)
	block, ok := decl2.Value.(*ast.BlockExpr)
	require.True(t, ok, "expected a block expression, got %+v", decl2.Value)
	assert.Len(t, block.Statements, 1)
}

func TestVariantConstructorHeuristic(t *testing.T) {
	file, _ := parse(t, `const p = Point { x: 1, y: 2 };`)
	decl := file.Statements[0].(*ast.ConstDecl)
	ctor, ok := decl.Value.(*ast.VariantConstructor)
	require.True(t, ok, "expected a variant constructor, got %+v", decl.Value)
	assert.Equal(t, "Point", ctor.Name)
	assert.Len(t, ctor.Fields, 2)

	file2, _ := parse(t, `const p = point;`)
	decl2 := file2.Statements[0].(*ast.ConstDecl)
	_, ok = decl2.Value.(*ast.Identifier)
	assert.True(t, ok, "expected a lowercase identifier, got %+v", decl2.Value)
}

func TestAnonymousFunctionLiteral(t *testing.T) {
	file, _ := parse(t, `const add = (a: i32, b: i32) => a + b;`)
	decl := file.Statements[0].(*ast.ConstDecl)
	lit, ok := decl.Value.(*ast.FuncLit)
	require.True(t, ok, "expected a func literal, got %+v", decl.Value)
	assert.Len(t, lit.Params, 2)
	_, ok = lit.Body.(*ast.BinaryExpr)
	assert.True(t, ok, "expected body a+b, got %T", lit.Body)
}

func TestGroupedExpressionIsNotMisreadAsFuncLit(t *testing.T) {
	file, _ := parse(t, `const x = (1 + 2) * 3;`)
	decl := file.Statements[0].(*ast.ConstDecl)
	mul, ok := decl.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op, "expected top-level *")
	_, ok = mul.Left.(*ast.BinaryExpr)
	assert.True(t, ok, "expected grouped + on the left, got %T", mul.Left)
}

func TestResultPatternBindings(t *testing.T) {
	file, _ := parse(t, `
		function f(r: i32) -> i32 {
			match r {
				ok v -> v;
				err e -> 0;
			}
		}
	`)
	fn := file.Statements[0].(*ast.FuncDecl)
	matchStmt := fn.Body.Statements[0].(*ast.MatchStmt)

	okPat, ok := matchStmt.Arms[0].Pattern.(*ast.OkPattern)
	require.True(t, ok)
	assert.Equal(t, "v", okPat.Binding)

	errPat, ok := matchStmt.Arms[1].Pattern.(*ast.ErrPattern)
	require.True(t, ok)
	assert.Equal(t, "e", errPat.Binding)
}

func TestWhileForIfElseAndRegionDefer(t *testing.T) {
	file, report := parse(t, `
		function f() -> unit {
			var i: i32 = 0;
			while i < 10 {
				if i == 5 {
					break;
				} else {
					continue;
				}
			}
			for x in 0..10 {
				var r: Region = createRegion();
				defer r.dispose();
			}
		}
	`)
	require.Empty(t, report.Diagnostics())

	fn := file.Statements[0].(*ast.FuncDecl)
	_, ok := fn.Body.Statements[1].(*ast.WhileStmt)
	require.True(t, ok, "expected WhileStmt, got %T", fn.Body.Statements[1])

	forStmt, ok := fn.Body.Statements[2].(*ast.ForStmt)
	require.True(t, ok, "expected ForStmt, got %T", fn.Body.Statements[2])
	rng, ok := forStmt.Iterable.(*ast.RangeExpr)
	require.True(t, ok)
	assert.False(t, rng.Inclusive, "expected an exclusive range")
}

func TestEnsureAndMapErrorExpressions(t *testing.T) {
	file, _ := parse(t, `
		error Overflow { Exceeded { limit: i32 } };
		domain D = Overflow;
		function f(x: i32) -> i32 error D {
			ensure x > 0 else err Exceeded { limit: x };
			return ok map_error check g(x) using (e => e);
		}
	`)
	fn := file.Statements[2].(*ast.FuncDecl)

	ensureStmt := fn.Body.Statements[0].(*ast.ExprStmt)
	ensure, ok := ensureStmt.X.(*ast.EnsureExpr)
	require.True(t, ok, "expected ensure expr, got %+v", ensureStmt.X)
	assert.Equal(t, "Exceeded", ensure.ElseErr.Variant)

	ret := fn.Body.Statements[1].(*ast.ReturnStmt)
	ok1, ok := ret.Value.(*ast.OkExpr)
	require.True(t, ok, "expected OkExpr, got %T", ret.Value)

	mapErr, ok := ok1.Value.(*ast.MapErrorExpr)
	require.True(t, ok, "expected MapErrorExpr, got %T", ok1.Value)
	assert.Equal(t, "e", mapErr.ParamName)

	_, ok = mapErr.Value.(*ast.CheckExpr)
	assert.True(t, ok, "expected check(...) inside map_error, got %T", mapErr.Value)
}

func TestUnsafeCastAndComptime(t *testing.T) {
	file, _ := parse(t, `const x = comptime unsafe_cast<i32>(y);`)
	decl := file.Statements[0].(*ast.ConstDecl)

	ct, ok := decl.Value.(*ast.ComptimeExpr)
	require.True(t, ok, "expected ComptimeExpr, got %T", decl.Value)
	cast, ok := ct.Value.(*ast.UnsafeCastExpr)
	require.True(t, ok, "expected UnsafeCastExpr, got %T", ct.Value)
	target, ok := cast.Target.(*ast.SimpleTypeExpr)
	require.True(t, ok)
	assert.Equal(t, "i32", target.Name)
}

func TestImportWithCapability(t *testing.T) {
	file, _ := parse(t, `
		import "std/fs" { read_file as readFile } using capability fs;
		function f() -> unit { }
	`)
	require.Len(t, file.Imports, 1)
	imp := file.Imports[0]
	assert.Equal(t, "std/fs", imp.Source)
	assert.Equal(t, "fs", imp.Capability)
	require.Len(t, imp.Names, 1)
	assert.Equal(t, "read_file", imp.Names[0].Name)
	assert.Equal(t, "readFile", imp.Names[0].Alias)
}

func TestUnexpectedTokenEndsTheParseOnFirstError(t *testing.T) {
	report := diag.NewReport()
	p := New([]byte(`function f( -> i32 { }`), "bad.fe", report)
	_, err := p.Parse()
	require.Error(t, err, "expected a syntax error")
	require.Len(t, report.Diagnostics(), 1, "expected exactly one diagnostic (fail-fast)")
	assert.Equal(t, diag.PAR001, report.Diagnostics()[0].Code)
}

func TestViewAndNullableTypeExprs(t *testing.T) {
	file, _ := parse(t, `function f(v: View<mut i32>, n: i32?) -> unit { }`)
	fn := file.Statements[0].(*ast.FuncDecl)

	view, ok := fn.Params[0].Type.(*ast.ViewTypeExpr)
	require.True(t, ok, "expected a view type, got %+v", fn.Params[0].Type)
	assert.True(t, view.Mutable, "expected a mutable view type")

	nullable, ok := fn.Params[1].Type.(*ast.NullableTypeExpr)
	require.True(t, ok, "expected a nullable type, got %+v", fn.Params[1].Type)
	inner, ok := nullable.Inner.(*ast.SimpleTypeExpr)
	require.True(t, ok)
	assert.Equal(t, "i32", inner.Name)
}

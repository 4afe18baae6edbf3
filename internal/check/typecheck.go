package check

import (
	"fmt"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/symbols"
	"github.com/karol-broda/ferrule/internal/types"
)

// funcCtx bundles the state that changes as the type checker descends
// into nested scopes: the active lexical scope, the enclosing function's
// error domain (empty outside one), its type-parameter context, and its
// declared return type.
type funcCtx struct {
	scope      *symbols.Scope
	domain     string
	tparams    tparamSet
	returnType types.Type
}

func (c *Checker) child(fc *funcCtx) *funcCtx {
	return &funcCtx{scope: fc.scope.NewChild(), domain: fc.domain, tparams: fc.tparams, returnType: fc.returnType}
}

// typecheckPass is the Type Checker (§4.9): a full recursive walk of
// every function body and top-level binding. Every expression yields a
// resolved type; every statement validates its sub-expressions.
func (c *Checker) typecheckPass(file *ast.File) {
	for _, stmt := range file.Statements {
		switch d := stmt.(type) {
		case *ast.FuncDecl:
			c.typecheckFunc(d)
		case *ast.ConstDecl:
			c.typecheckTopBinding(d.Name, d.Type, d.Value, d.DeclPos, "constant")
		case *ast.VarDecl:
			c.typecheckTopBinding(d.Name, d.Type, d.Value, d.DeclPos, "variable")
		}
	}
}

func (c *Checker) typecheckFunc(d *ast.FuncDecl) {
	sym, ok := c.Global.LookupLocal(d.Name)
	if !ok {
		return
	}
	tparams := make(tparamSet, len(d.TypeParams))
	for _, p := range d.TypeParams {
		tparams[p] = true
	}
	scope := c.Global.NewChild()
	for i, p := range d.Params {
		paramSym := &symbols.Symbol{
			Kind: symbols.ParameterSym, Name: p.Name, Pos: p.ParamPos,
			Type: sym.ParamTypes[i], Inout: p.Inout, Capability: p.Capability,
		}
		_ = scope.Insert(paramSym)
		c.Hover.add(HoverEntry{Pos: p.ParamPos, Name: p.Name, Kind: "parameter", Type: sym.ParamTypes[i].String()})
	}
	fc := &funcCtx{scope: scope, domain: sym.ErrorDomain, tparams: tparams, returnType: sym.ReturnType}
	c.checkBlock(d.Body, fc)
}

func (c *Checker) typecheckTopBinding(name string, declType ast.TypeExpr, value ast.Expr, pos ast.Pos, kind string) {
	sym, ok := c.Global.LookupLocal(name)
	if !ok {
		return
	}
	fc := &funcCtx{scope: c.Global}
	sym.Type = c.checkBindingValue(declType, value, pos, fc)
	c.Hover.add(HoverEntry{Pos: pos, Name: name, Kind: kind, Type: sym.Type.String()})
	c.Location.recordDefinition(name, pos)
}

// checkBindingValue implements the "numeric literal requires explicit
// type annotation at a binding site" rule (§4.9), shared by top-level and
// local const/var declarations.
func (c *Checker) checkBindingValue(declType ast.TypeExpr, value ast.Expr, pos ast.Pos, fc *funcCtx) types.Type {
	if declType != nil {
		declared := c.resolveTypeExpr(declType, fc.tparams)
		vt := c.inferHint(value, fc, declared)
		if !vt.Equals(declared) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("cannot assign %s to a binding of type %s", vt.String(), declared.String()), value.Pos()))
		}
		return declared
	}
	if nl, ok := value.(*ast.NumberLit); ok {
		c.Report.Add(diag.New(diag.Error, diag.TYP002, "numeric literal requires explicit type annotation", pos))
		return c.defaultNumericType(nl.IsFloat)
	}
	return c.inferHint(value, fc, nil)
}

func (c *Checker) defaultNumericType(isFloat bool) types.Type {
	if isFloat {
		return types.F64
	}
	return types.I32
}

// checkBlock type-checks a block in a fresh child scope and returns the
// type of its tail expression, or unit if it has none.
func (c *Checker) checkBlock(b *ast.BlockExpr, fc *funcCtx) types.Type {
	inner := c.child(fc)
	for _, s := range b.Statements {
		c.checkStmt(s, inner)
	}
	if b.Tail != nil {
		return c.infer(b.Tail, inner, nil)
	}
	return types.Unit
}

func (c *Checker) checkStmt(stmt ast.Stmt, fc *funcCtx) {
	switch s := stmt.(type) {
	case *ast.ConstDecl:
		t := c.checkBindingValue(s.Type, s.Value, s.DeclPos, fc)
		_ = fc.scope.Insert(&symbols.Symbol{Kind: symbols.ConstantSym, Name: s.Name, Pos: s.DeclPos, Type: t})
	case *ast.VarDecl:
		t := c.checkBindingValue(s.Type, s.Value, s.DeclPos, fc)
		_ = fc.scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: s.Name, Pos: s.DeclPos, Type: t, Mutable: true})
	case *ast.UseErrorStmt:
		if !c.Domains.Has(s.Name) {
			c.Report.Add(diag.New(diag.Error, diag.RES001, fmt.Sprintf("unknown error domain %q", s.Name), s.StmtPos))
		}
	case *ast.ReturnStmt:
		c.checkReturn(s, fc)
	case *ast.DeferStmt:
		c.infer(s.Call, fc, nil)
	case *ast.IfStmt:
		ct := c.inferHint(s.Cond, fc, types.Bool)
		if !ct.Equals(types.Bool) {
			c.Report.Add(diag.New(diag.Error, diag.TYP003, "condition must be bool", s.Cond.Pos()))
		}
		c.checkBlock(s.Then, fc)
		if s.Else != nil {
			c.checkStmt(s.Else, fc)
		}
	case *ast.WhileStmt:
		ct := c.inferHint(s.Cond, fc, types.Bool)
		if !ct.Equals(types.Bool) {
			c.Report.Add(diag.New(diag.Error, diag.TYP003, "condition must be bool", s.Cond.Pos()))
		}
		c.checkBlock(s.Body, fc)
	case *ast.ForStmt:
		c.checkFor(s, fc)
	case *ast.MatchStmt:
		c.checkMatch(s.Scrutinee, s.Arms, fc, s.StmtPos)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no further validation: loop nesting is enforced by the grammar only.
	case *ast.ExprStmt:
		c.infer(s.X, fc, nil)
	case *ast.AssignStmt:
		c.checkAssign(s, fc)
	case *ast.BlockExpr:
		c.checkBlock(s, fc)
	}
}

func (c *Checker) checkFor(s *ast.ForStmt, fc *funcCtx) {
	it := c.infer(s.Iterable, fc, nil)
	var elem types.Type = types.Unit
	switch t := it.(type) {
	case *types.Array:
		elem = t.Elem
	case *types.Vector:
		elem = t.Elem
	case *types.View:
		elem = t.Elem
	case *types.Range:
		elem = t.Elem
	default:
		c.Report.Add(diag.New(diag.Error, diag.TYP001, "for requires an array, view, or range", s.Iterable.Pos()))
	}
	inner := c.child(fc)
	_ = inner.scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: s.Var, Pos: s.StmtPos, Type: elem})
	for _, st := range s.Body.Statements {
		c.checkStmt(st, inner)
	}
	if s.Body.Tail != nil {
		c.infer(s.Body.Tail, inner, nil)
	}
}

func (c *Checker) checkAssign(s *ast.AssignStmt, fc *funcCtx) {
	ident, isIdent := s.Target.(*ast.Identifier)
	if !isIdent {
		tt := c.infer(s.Target, fc, nil)
		c.inferHint(s.Value, fc, tt)
		return
	}
	sym, ok := fc.scope.Lookup(ident.Name)
	if !ok {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("undefined name %q", ident.Name), ident.Pos()))
		c.infer(s.Value, fc, nil)
		return
	}
	mutable := (sym.Kind == symbols.VariableSym && sym.Mutable) || (sym.Kind == symbols.ParameterSym && sym.Inout)
	if !mutable {
		c.Report.Add(diag.New(diag.Error, diag.TYP006, fmt.Sprintf("%q is not a mutable assignment target", ident.Name), ident.Pos()))
	}
	vt := c.inferHint(s.Value, fc, sym.Type)
	if sym.Type != nil && !vt.Equals(sym.Type) {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("cannot assign %s to %s", vt.String(), sym.Type.String()), s.Value.Pos()))
	}
	c.Location.recordReference(ident.Name, ident.Pos())
}

func (c *Checker) checkReturn(s *ast.ReturnStmt, fc *funcCtx) {
	if s.Value == nil {
		if fc.returnType != nil && !fc.returnType.Equals(types.Unit) {
			c.Report.Add(diag.New(diag.Error, diag.TYP010, "return value does not match declared return type", s.StmtPos))
		}
		return
	}
	if fc.domain != "" {
		switch s.Value.(type) {
		case *ast.OkExpr, *ast.ErrExpr:
		default:
			c.Report.Add(diag.New(diag.Error, diag.TYP010, "return value does not match declared return type", s.Value.Pos()))
			c.infer(s.Value, fc, nil)
			return
		}
	}
	vt := c.inferHint(s.Value, fc, fc.returnType)
	want := fc.returnType
	if fc.domain != "" {
		if res, ok := vt.(*types.Result); ok {
			vt = res.Ok
		}
	}
	if want != nil && !vt.Equals(want) {
		c.Report.Add(diag.New(diag.Error, diag.TYP010, "return value does not match declared return type", s.Value.Pos()))
	}
}

// infer is inferHint with no expected-type hint.
func (c *Checker) infer(e ast.Expr, fc *funcCtx, _ types.Type) types.Type {
	return c.inferHint(e, fc, nil)
}

// inferHint infers e's type under an optional expected type (§4.9
// "numeric literals ... at use sites they unify with any adjacent
// numeric type"): hint lets a bare numeric literal adopt the type of its
// binding site, operand sibling, argument position, or return site
// instead of defaulting silently.
func (c *Checker) inferHint(e ast.Expr, fc *funcCtx, hint types.Type) types.Type {
	switch v := e.(type) {
	case *ast.NumberLit:
		if hint != nil && types.IsNumeric(hint) {
			return hint
		}
		return c.defaultNumericType(v.IsFloat)
	case *ast.StringLit:
		return types.String
	case *ast.BytesLit:
		return types.Bytes
	case *ast.CharLit:
		return types.Char
	case *ast.BoolLit:
		return types.Bool
	case *ast.NullLit:
		if n, ok := hint.(*types.Nullable); ok {
			return n
		}
		return c.Ctx.InternType(&types.Nullable{Inner: types.Unit})
	case *ast.UnitLit:
		return types.Unit
	case *ast.Identifier:
		return c.inferIdentifier(v, fc)
	case *ast.BinaryExpr:
		return c.inferBinary(v, fc, hint)
	case *ast.UnaryExpr:
		return c.inferUnary(v, fc)
	case *ast.CallExpr:
		return c.inferCall(v, fc)
	case *ast.FieldAccessExpr:
		return c.inferFieldAccess(v, fc)
	case *ast.IndexExpr:
		return c.inferIndex(v, fc)
	case *ast.ArrayLit:
		return c.inferArrayLit(v, fc, hint)
	case *ast.RecordLit:
		return c.inferRecordLit(v, fc, hint)
	case *ast.VariantConstructor:
		return c.inferVariantCtor(v, fc)
	case *ast.RangeExpr:
		return c.inferRange(v, fc)
	case *ast.OkExpr:
		return c.inferOk(v, fc)
	case *ast.ErrExpr:
		return c.inferErr(v, fc)
	case *ast.CheckExpr:
		return c.inferCheck(v, fc)
	case *ast.EnsureExpr:
		return c.inferEnsure(v, fc)
	case *ast.MapErrorExpr:
		return c.inferMapError(v, fc)
	case *ast.MatchExpr:
		return c.checkMatch(v.Scrutinee, v.Arms, fc, v.MatchPos)
	case *ast.FuncLit:
		return c.inferFuncLit(v, fc)
	case *ast.UnsafeCastExpr:
		c.infer(v.Value, fc, nil)
		return c.resolveTypeExpr(v.Target, fc.tparams)
	case *ast.ComptimeExpr:
		return c.infer(v.Value, fc, nil)
	case *ast.ContextBlockExpr:
		return c.checkBlock(v.Body, fc)
	case *ast.BlockExpr:
		return c.checkBlock(v, fc)
	default:
		return types.Unit
	}
}

func (c *Checker) inferIdentifier(v *ast.Identifier, fc *funcCtx) types.Type {
	sym, ok := fc.scope.Lookup(v.Name)
	if !ok {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("undefined name %q", v.Name), v.IdePos))
		return types.Unit
	}
	c.Hover.add(HoverEntry{Pos: v.IdePos, Name: v.Name, Kind: sym.Kind.String(), Type: symbolTypeString(sym)})
	c.Location.recordReference(v.Name, v.IdePos)
	if sym.Kind == symbols.FunctionSym {
		return c.Ctx.InternType(&types.Function{
			TypeParams: sym.TypeParams, Params: sym.ParamTypes, Return: sym.ReturnType,
			Effects: sym.Effects, ErrorDomain: sym.ErrorDomain,
		})
	}
	if sym.Type == nil {
		return types.Unit
	}
	return sym.Type
}

func symbolTypeString(sym *symbols.Symbol) string {
	if sym.Kind == symbols.FunctionSym {
		return sym.ReturnType.String()
	}
	if sym.Type == nil {
		return ""
	}
	return sym.Type.String()
}

func isNumberLit(e ast.Expr) bool {
	_, ok := e.(*ast.NumberLit)
	return ok
}

// inferPair infers a (left, right) operand pair, letting a bare numeric
// literal on either side adopt its sibling's concrete type.
func (c *Checker) inferPair(left, right ast.Expr, fc *funcCtx, hint types.Type) (types.Type, types.Type) {
	lt := c.inferHint(left, fc, hint)
	rt := c.inferHint(right, fc, hint)
	if isNumberLit(left) && !isNumberLit(right) {
		lt = c.inferHint(left, fc, rt)
	}
	if isNumberLit(right) && !isNumberLit(left) {
		rt = c.inferHint(right, fc, lt)
	}
	return lt, rt
}

func (c *Checker) inferBinary(v *ast.BinaryExpr, fc *funcCtx, hint types.Type) types.Type {
	switch v.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpBitOr, ast.OpBitXor, ast.OpBitAnd, ast.OpShl, ast.OpShr:
		lt, rt := c.inferPair(v.Left, v.Right, fc, hint)
		if !lt.Equals(rt) || !types.IsNumeric(lt) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "arithmetic operands must have matching numeric types", v.ExprPos))
		}
		return lt
	case ast.OpConcat:
		lt := c.inferHint(v.Left, fc, types.String)
		rt := c.inferHint(v.Right, fc, types.String)
		if !lt.Equals(types.String) || !rt.Equals(types.String) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "'++' requires string operands", v.ExprPos))
		}
		return types.String
	case ast.OpEq, ast.OpNeq:
		c.inferPair(v.Left, v.Right, fc, nil)
		return types.Bool
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		lt, rt := c.inferPair(v.Left, v.Right, fc, nil)
		if !lt.Equals(rt) || !types.IsNumeric(lt) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "comparison operands must have matching numeric types", v.ExprPos))
		}
		return types.Bool
	case ast.OpAnd, ast.OpOr:
		lt := c.inferHint(v.Left, fc, types.Bool)
		rt := c.inferHint(v.Right, fc, types.Bool)
		if !lt.Equals(types.Bool) || !rt.Equals(types.Bool) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "logical operands must be bool", v.ExprPos))
		}
		return types.Bool
	default:
		return types.Unit
	}
}

func (c *Checker) inferUnary(v *ast.UnaryExpr, fc *funcCtx) types.Type {
	switch v.Op {
	case ast.OpNeg:
		t := c.inferHint(v.Operand, fc, nil)
		if !types.IsNumeric(t) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "unary '-' requires a numeric operand", v.UnaryPos))
		}
		return t
	case ast.OpNot:
		t := c.inferHint(v.Operand, fc, types.Bool)
		if !t.Equals(types.Bool) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "unary '!' requires a bool operand", v.UnaryPos))
		}
		return types.Bool
	case ast.OpBitNot:
		t := c.inferHint(v.Operand, fc, nil)
		if !types.IsNumeric(t) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "unary '~' requires a numeric operand", v.UnaryPos))
		}
		return t
	default:
		return types.Unit
	}
}

func (c *Checker) inferFieldAccess(v *ast.FieldAccessExpr, fc *funcCtx) types.Type {
	tt := c.infer(v.Target, fc, nil)
	if named, ok := tt.(*types.Named); ok {
		tt = named.Underlying
	}
	switch t := tt.(type) {
	case *types.Record:
		ft, ok := t.FieldType(v.Field)
		if !ok {
			c.Report.Add(diag.New(diag.Error, diag.TYP004, fmt.Sprintf("field %q not found", v.Field), v.FAPos))
			return types.Unit
		}
		return ft
	case *types.Result:
		switch v.Field {
		case "tag":
			return types.I8
		case "value":
			return t.Ok
		case "error_code":
			return types.I64
		}
	case *types.Nullable:
		switch v.Field {
		case "has_value":
			return types.Bool
		case "value":
			return t.Inner
		}
	case *types.Scalar:
		if t.Name == "string" {
			switch v.Field {
			case "len":
				return types.I64
			case "ptr":
				return types.Usize
			}
		}
	case *types.Array:
		if v.Field == "len" {
			return types.Usize
		}
	case *types.Vector:
		if v.Field == "len" {
			return types.Usize
		}
	case *types.View:
		if v.Field == "len" {
			return types.Usize
		}
	}
	c.Report.Add(diag.New(diag.Error, diag.TYP004, fmt.Sprintf("field %q not found", v.Field), v.FAPos))
	return types.Unit
}

func (c *Checker) inferIndex(v *ast.IndexExpr, fc *funcCtx) types.Type {
	tt := c.infer(v.Target, fc, nil)
	c.infer(v.Index, fc, nil)
	switch t := tt.(type) {
	case *types.Array:
		return t.Elem
	case *types.Vector:
		return t.Elem
	case *types.View:
		return t.Elem
	default:
		c.Report.Add(diag.New(diag.Error, diag.TYP001, "cannot index this type", v.IdxPos))
		return types.Unit
	}
}

func (c *Checker) inferArrayLit(v *ast.ArrayLit, fc *funcCtx, hint types.Type) types.Type {
	var elemHint types.Type
	if arr, ok := hint.(*types.Array); ok {
		elemHint = arr.Elem
	}
	var elem types.Type = types.Unit
	for i, el := range v.Elements {
		t := c.inferHint(el, fc, elemHint)
		if i == 0 {
			elem = t
		} else if !t.Equals(elem) {
			c.Report.Add(diag.New(diag.Error, diag.TYP001, "array elements must have the same type", el.Pos()))
		}
	}
	return c.Ctx.InternType(&types.Array{Elem: elem, Size: len(v.Elements)})
}

func (c *Checker) inferRecordLit(v *ast.RecordLit, fc *funcCtx, hint types.Type) types.Type {
	rec, hasHint := hint.(*types.Record)
	names := make([]string, len(v.Fields))
	fieldTypes := make([]types.Type, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = f.Name
		var fh types.Type
		if hasHint {
			if t, ok := rec.FieldType(f.Name); ok {
				fh = t
			}
		}
		fieldTypes[i] = c.inferHint(f.Value, fc, fh)
	}
	return c.Ctx.InternType(&types.Record{FieldNames: names, FieldTypes: fieldTypes})
}

func (c *Checker) inferVariantCtor(v *ast.VariantConstructor, fc *funcCtx) types.Type {
	ownerName, ok := c.unionVariants[v.Name]
	if !ok {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("unknown variant %q", v.Name), v.CtorPos))
		for _, f := range v.Fields {
			c.infer(f.Value, fc, nil)
		}
		return types.Unit
	}
	sym, _ := c.Global.LookupLocal(ownerName)
	union, _ := sym.Underlying.(*types.Union)
	var fieldNames []string
	var fieldTypes []types.Type
	for _, variant := range union.Variants {
		if variant.Name == v.Name {
			fieldNames, fieldTypes = variant.FieldNames, variant.FieldTypes
		}
	}
	for _, f := range v.Fields {
		var hint types.Type
		for i, n := range fieldNames {
			if n == f.Name {
				hint = fieldTypes[i]
			}
		}
		c.inferHint(f.Value, fc, hint)
	}
	return sym.Underlying
}

func (c *Checker) inferRange(v *ast.RangeExpr, fc *funcCtx) types.Type {
	lt, rt := c.inferPair(v.Start, v.End, fc, nil)
	if !lt.Equals(rt) || !types.IsNumeric(lt) {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, "range bounds must have matching numeric types", v.RangePos))
	}
	return c.Ctx.InternType(&types.Range{Elem: lt})
}

func (c *Checker) inferOk(v *ast.OkExpr, fc *funcCtx) types.Type {
	if fc.domain == "" {
		c.Report.Add(diag.New(diag.Error, diag.DOM003, "'ok' used outside an error-domain function", v.OkPos))
	}
	vt := c.infer(v.Value, fc, nil)
	return c.Ctx.InternType(&types.Result{Ok: vt, Domain: fc.domain})
}

func (c *Checker) inferErr(v *ast.ErrExpr, fc *funcCtx) types.Type {
	if fc.domain == "" {
		c.Report.Add(diag.New(diag.Error, diag.DOM003, "'err' used outside an error-domain function", v.ErrPos))
	} else if !c.Domains.HasVariant(fc.domain, v.Variant) {
		c.Report.Add(diag.New(diag.Error, diag.DOM001, fmt.Sprintf("unknown error variant %q in domain %q", v.Variant, fc.domain), v.ErrPos))
	}
	fieldNames, fieldTypes := c.Domains.FieldTypes(fc.domain, v.Variant)
	for _, f := range v.Fields {
		var hint types.Type
		for i, n := range fieldNames {
			if n == f.Name {
				hint = fieldTypes[i]
			}
		}
		c.inferHint(f.Value, fc, hint)
	}
	return c.Ctx.InternType(&types.Result{Ok: types.Unit, Domain: fc.domain})
}

func (c *Checker) inferCheck(v *ast.CheckExpr, fc *funcCtx) types.Type {
	vt := c.infer(v.Value, fc, nil)
	res, ok := vt.(*types.Result)
	if !ok {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, "'check' requires a Result operand", v.CheckPos))
		return types.Unit
	}
	if fc.domain == "" {
		c.Report.Add(diag.New(diag.Error, diag.DOM003, "'check' used outside an error-domain function", v.CheckPos))
	} else if !c.Domains.IsSubset(res.Domain, fc.domain) {
		c.Report.Add(diag.New(diag.Error, diag.DOM002, fmt.Sprintf("error domain '%s' is not compatible with function's error domain '%s'", res.Domain, fc.domain), v.CheckPos))
	}
	return res.Ok
}

func (c *Checker) inferEnsure(v *ast.EnsureExpr, fc *funcCtx) types.Type {
	if fc.domain == "" {
		c.Report.Add(diag.New(diag.Error, diag.DOM003, "'ensure' used outside an error-domain function", v.EnsurePos))
	}
	ct := c.inferHint(v.Cond, fc, types.Bool)
	if !ct.Equals(types.Bool) {
		c.Report.Add(diag.New(diag.Error, diag.TYP003, "'ensure' condition must be bool", v.Cond.Pos()))
	}
	if v.ElseErr != nil {
		if fc.domain != "" && !c.Domains.HasVariant(fc.domain, v.ElseErr.Variant) {
			c.Report.Add(diag.New(diag.Error, diag.DOM001, fmt.Sprintf("unknown error variant %q in domain %q", v.ElseErr.Variant, fc.domain), v.ElseErr.ErrPos))
		}
		fieldNames, fieldTypes := c.Domains.FieldTypes(fc.domain, v.ElseErr.Variant)
		for _, f := range v.ElseErr.Fields {
			var hint types.Type
			for i, n := range fieldNames {
				if n == f.Name {
					hint = fieldTypes[i]
				}
			}
			c.inferHint(f.Value, fc, hint)
		}
	}
	return types.Unit
}

func (c *Checker) inferMapError(v *ast.MapErrorExpr, fc *funcCtx) types.Type {
	if fc.domain == "" {
		c.Report.Add(diag.New(diag.Error, diag.DOM003, "'map_error' used outside an error-domain function", v.MapPos))
	}
	vt := c.infer(v.Value, fc, nil)
	okType := types.Type(types.Unit)
	if res, ok := vt.(*types.Result); ok {
		okType = res.Ok
	} else {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, "'map_error' requires a Result operand", v.MapPos))
	}
	inner := c.child(fc)
	_ = inner.scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: v.ParamName, Pos: v.MapPos, Type: types.Unit})
	c.infer(v.Using, inner, nil)
	return c.Ctx.InternType(&types.Result{Ok: okType, Domain: fc.domain})
}

func (c *Checker) inferFuncLit(v *ast.FuncLit, fc *funcCtx) types.Type {
	inner := c.child(fc)
	paramTypes := make([]types.Type, len(v.Params))
	for i, p := range v.Params {
		pt := c.resolveTypeExpr(p.Type, fc.tparams)
		paramTypes[i] = pt
		_ = inner.scope.Insert(&symbols.Symbol{Kind: symbols.ParameterSym, Name: p.Name, Pos: p.ParamPos, Type: pt, Inout: p.Inout})
	}
	var ret types.Type
	if v.ReturnType != nil {
		ret = c.resolveTypeExpr(v.ReturnType, fc.tparams)
		inner.returnType = ret
	}
	var bodyType types.Type
	if b, ok := v.Body.(*ast.BlockExpr); ok {
		bodyType = c.checkBlock(b, inner)
	} else {
		bodyType = c.infer(v.Body, inner, ret)
	}
	if ret == nil {
		ret = bodyType
	}
	return c.Ctx.InternType(&types.Function{Params: paramTypes, Return: ret})
}

func (c *Checker) inferCall(v *ast.CallExpr, fc *funcCtx) types.Type {
	ft0 := c.infer(v.Callee, fc, nil)
	ft, ok := ft0.(*types.Function)
	if !ok {
		c.Report.Add(diag.New(diag.Error, diag.TYP001, "callee is not a function", v.CallPos))
		for _, a := range v.Args {
			c.infer(a, fc, nil)
		}
		return types.Unit
	}
	if len(v.Args) != len(ft.Params) {
		c.Report.Add(diag.New(diag.Error, diag.TYP005, fmt.Sprintf("expected %d argument(s), found %d", len(ft.Params), len(v.Args)), v.CallPos))
		for _, a := range v.Args {
			c.infer(a, fc, nil)
		}
		return c.wrapResult(ft.Return, ft.ErrorDomain)
	}

	var ret types.Type
	if len(ft.TypeParams) == 0 {
		for i, a := range v.Args {
			at := c.inferHint(a, fc, ft.Params[i])
			if !at.Equals(ft.Params[i]) {
				c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("argument %d: cannot use %s as %s", i+1, at.String(), ft.Params[i].String()), a.Pos()))
			}
		}
		ret = ft.Return
	} else {
		subst := make(map[string]types.Type)
		argTypes := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			argTypes[i] = c.infer(a, fc, nil)
		}
		for i, pt := range ft.Params {
			if !c.unify(pt, argTypes[i], subst) {
				c.Report.Add(diag.New(diag.Error, diag.TYP001, fmt.Sprintf("argument %d: cannot use %s as %s", i+1, argTypes[i].String(), pt.String()), v.Args[i].Pos()))
			}
		}
		for _, tp := range ft.TypeParams {
			if _, bound := subst[tp]; !bound {
				c.Report.Add(diag.New(diag.Error, diag.TYP007, fmt.Sprintf("generic type argument %q could not be inferred", tp), v.CallPos))
				subst[tp] = types.Unit
			}
		}
		ret = c.substituteType(ft.Return, subst)
	}
	return c.wrapResult(ret, ft.ErrorDomain)
}

func (c *Checker) wrapResult(ret types.Type, domain string) types.Type {
	if domain == "" {
		return ret
	}
	return c.Ctx.InternType(&types.Result{Ok: ret, Domain: domain})
}

// unify structurally matches paramType (possibly containing TypeParam
// occurrences) against argType, recording type-parameter bindings in
// subst; it reports a conflict by returning false.
func (c *Checker) unify(paramType, argType types.Type, subst map[string]types.Type) bool {
	switch pt := paramType.(type) {
	case *types.TypeParam:
		if existing, ok := subst[pt.Name]; ok {
			return existing.Equals(argType)
		}
		subst[pt.Name] = argType
		return true
	case *types.Array:
		at, ok := argType.(*types.Array)
		return ok && at.Size == pt.Size && c.unify(pt.Elem, at.Elem, subst)
	case *types.Vector:
		at, ok := argType.(*types.Vector)
		return ok && at.Size == pt.Size && c.unify(pt.Elem, at.Elem, subst)
	case *types.View:
		at, ok := argType.(*types.View)
		return ok && at.Mutable == pt.Mutable && c.unify(pt.Elem, at.Elem, subst)
	case *types.Nullable:
		at, ok := argType.(*types.Nullable)
		return ok && c.unify(pt.Inner, at.Inner, subst)
	case *types.Record:
		at, ok := argType.(*types.Record)
		if !ok || len(at.FieldNames) != len(pt.FieldNames) {
			return false
		}
		for i := range pt.FieldNames {
			if pt.FieldNames[i] != at.FieldNames[i] || !c.unify(pt.FieldTypes[i], at.FieldTypes[i], subst) {
				return false
			}
		}
		return true
	default:
		return pt.Equals(argType)
	}
}

// substituteType rebuilds t with every TypeParam occurrence replaced by
// its binding in subst.
func (c *Checker) substituteType(t types.Type, subst map[string]types.Type) types.Type {
	switch v := t.(type) {
	case *types.TypeParam:
		if bound, ok := subst[v.Name]; ok {
			return bound
		}
		return t
	case *types.Array:
		return c.Ctx.InternType(&types.Array{Elem: c.substituteType(v.Elem, subst), Size: v.Size})
	case *types.Vector:
		return c.Ctx.InternType(&types.Vector{Elem: c.substituteType(v.Elem, subst), Size: v.Size})
	case *types.View:
		return c.Ctx.InternType(&types.View{Elem: c.substituteType(v.Elem, subst), Mutable: v.Mutable})
	case *types.Nullable:
		return c.Ctx.InternType(&types.Nullable{Inner: c.substituteType(v.Inner, subst)})
	case *types.Record:
		names := append([]string(nil), v.FieldNames...)
		fieldTypes := make([]types.Type, len(v.FieldTypes))
		for i, ft := range v.FieldTypes {
			fieldTypes[i] = c.substituteType(ft, subst)
		}
		return c.Ctx.InternType(&types.Record{FieldNames: names, FieldTypes: fieldTypes})
	default:
		return t
	}
}

// checkMatch type-checks a match used in either statement or expression
// position: every arm binds its pattern against the scrutinee's type in
// its own child scope, checks its optional guard, and infers its body.
// Per §4.9, arm bodies must all agree on type.
func (c *Checker) checkMatch(scrutinee ast.Expr, arms []ast.MatchArm, fc *funcCtx, pos ast.Pos) types.Type {
	st := c.infer(scrutinee, fc, nil)
	var result types.Type
	for i, arm := range arms {
		inner := c.child(fc)
		c.bindPattern(arm.Pattern, st, inner.scope)
		if arm.Guard != nil {
			gt := c.inferHint(arm.Guard, inner, types.Bool)
			if !gt.Equals(types.Bool) {
				c.Report.Add(diag.New(diag.Error, diag.TYP003, "match guard must be bool", arm.Guard.Pos()))
			}
		}
		bt := c.infer(arm.Body, inner, nil)
		if i == 0 {
			result = bt
		} else if !bt.Equals(result) {
			c.Report.Add(diag.New(diag.Error, diag.TYP008, "match arms have differing body types", arm.Body.Pos()))
		}
	}
	c.checkExhaustiveness(st, arms, pos)
	if result == nil {
		return types.Unit
	}
	return result
}

// bindPattern checks pat against st and binds any names it introduces
// into scope, reporting TYP009 if pat's kind cannot match st.
func (c *Checker) bindPattern(pat ast.Pattern, st types.Type, scope *symbols.Scope) {
	underlying := st
	if named, ok := st.(*types.Named); ok {
		underlying = named.Underlying
	}
	switch p := pat.(type) {
	case *ast.WildcardPattern:
	case *ast.IdentPattern:
		_ = scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: p.Name, Pos: p.PatPos, Type: st})
	case *ast.LiteralPattern:
		switch p.Value.(type) {
		case *ast.NumberLit:
			if !types.IsNumeric(st) {
				c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			}
		case *ast.StringLit:
			if !st.Equals(types.String) {
				c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			}
		case *ast.BoolLit:
			if !st.Equals(types.Bool) {
				c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			}
		}
	case *ast.VariantPattern:
		union, ok := underlying.(*types.Union)
		if !ok || !union.HasVariant(p.Name) {
			c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			for _, f := range p.Fields {
				c.bindPattern(f.Pattern, types.Unit, scope)
			}
			return
		}
		for _, variant := range union.Variants {
			if variant.Name != p.Name {
				continue
			}
			for _, f := range p.Fields {
				var ft types.Type = types.Unit
				for i, n := range variant.FieldNames {
					if n == f.Name {
						ft = variant.FieldTypes[i]
					}
				}
				c.bindPattern(f.Pattern, ft, scope)
			}
		}
	case *ast.SomePattern:
		n, ok := underlying.(*types.Nullable)
		if !ok {
			c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			return
		}
		if p.Binding != "" {
			_ = scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: p.Binding, Pos: p.PatPos, Type: n.Inner})
		}
	case *ast.NonePattern:
		if _, ok := underlying.(*types.Nullable); !ok {
			c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
		}
	case *ast.OkPattern:
		res, ok := underlying.(*types.Result)
		if !ok {
			c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			return
		}
		if p.Binding != "" {
			_ = scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: p.Binding, Pos: p.PatPos, Type: res.Ok})
		}
	case *ast.ErrPattern:
		if _, ok := underlying.(*types.Result); !ok {
			c.Report.Add(diag.New(diag.Error, diag.TYP009, "pattern kind incompatible with scrutinee type", p.PatPos))
			return
		}
		if p.Binding != "" {
			_ = scope.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: p.Binding, Pos: p.PatPos, Type: types.Unit})
		}
	}
}

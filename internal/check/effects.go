package check

import (
	"fmt"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/effects"
	"github.com/karol-broda/ferrule/internal/symbols"
)

// effectPass is the Effect Checker (§4.10): for every function, collects
// the effects its body uses — directly via region creation (`alloc`) and
// transitively via calls to other declared functions — and verifies the
// set is a subset of the function's declared effects. It also verifies
// that any declared effect requiring a capability parameter (fs, net,
// io, time, rng, ffi) has a matching `cap` parameter in scope.
func (c *Checker) effectPass(file *ast.File) {
	for _, stmt := range file.Statements {
		if d, ok := stmt.(*ast.FuncDecl); ok {
			c.checkFuncEffects(d)
		}
	}
}

func (c *Checker) checkFuncEffects(d *ast.FuncDecl) {
	used := make(map[string]bool)
	c.walkBlockEffects(d.Body, used)

	declared := make(map[string]bool, len(d.Effects))
	for _, e := range d.Effects {
		declared[e] = true
	}
	for _, e := range sortedNames(used) {
		if !declared[e] {
			c.Report.Add(diag.New(diag.Error, diag.EFF001, fmt.Sprintf("effect %q used without being declared", e), d.DeclPos))
		}
	}

	for _, e := range d.Effects {
		capName, needsCap := effects.RequiredCapability(e)
		if !needsCap {
			continue
		}
		if !funcHasCapParam(d, capName) && !c.Manifest.Grants(d.Name, capName) {
			c.Report.Add(diag.New(diag.Error, diag.EFF002, fmt.Sprintf("effect '%s' requires a capability parameter of type %s", e, capName), d.DeclPos))
		}
	}
}

func funcHasCapParam(d *ast.FuncDecl, capName string) bool {
	for _, p := range d.Params {
		if !p.Capability {
			continue
		}
		if st, ok := p.Type.(*ast.SimpleTypeExpr); ok && st.Name == capName {
			return true
		}
	}
	return false
}

func (c *Checker) walkBlockEffects(b *ast.BlockExpr, used map[string]bool) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		c.walkStmtEffects(s, used)
	}
	c.walkExprEffects(b.Tail, used)
}

func (c *Checker) walkStmtEffects(stmt ast.Stmt, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.ConstDecl:
		if isRegionType(s.Type) {
			used["alloc"] = true
		}
		c.walkExprEffects(s.Value, used)
	case *ast.VarDecl:
		if isRegionType(s.Type) {
			used["alloc"] = true
		}
		c.walkExprEffects(s.Value, used)
	case *ast.ReturnStmt:
		c.walkExprEffects(s.Value, used)
	case *ast.DeferStmt:
		c.walkExprEffects(s.Call, used)
	case *ast.IfStmt:
		c.walkExprEffects(s.Cond, used)
		c.walkBlockEffects(s.Then, used)
		c.walkStmtEffects(s.Else, used)
	case *ast.WhileStmt:
		c.walkExprEffects(s.Cond, used)
		c.walkBlockEffects(s.Body, used)
	case *ast.ForStmt:
		c.walkExprEffects(s.Iterable, used)
		c.walkBlockEffects(s.Body, used)
	case *ast.MatchStmt:
		c.walkExprEffects(s.Scrutinee, used)
		for _, arm := range s.Arms {
			c.walkExprEffects(arm.Guard, used)
			c.walkExprEffects(arm.Body, used)
		}
	case *ast.ExprStmt:
		c.walkExprEffects(s.X, used)
	case *ast.AssignStmt:
		c.walkExprEffects(s.Target, used)
		c.walkExprEffects(s.Value, used)
	case *ast.BlockExpr:
		c.walkBlockEffects(s, used)
	}
}

func isRegionType(te ast.TypeExpr) bool {
	st, ok := te.(*ast.SimpleTypeExpr)
	return ok && st.Name == "Region"
}

func (c *Checker) walkExprEffects(e ast.Expr, used map[string]bool) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *ast.BinaryExpr:
		c.walkExprEffects(v.Left, used)
		c.walkExprEffects(v.Right, used)
	case *ast.UnaryExpr:
		c.walkExprEffects(v.Operand, used)
	case *ast.CallExpr:
		c.walkExprEffects(v.Callee, used)
		for _, a := range v.Args {
			c.walkExprEffects(a, used)
		}
		if ident, ok := v.Callee.(*ast.Identifier); ok {
			if sym, ok := c.Global.Lookup(ident.Name); ok && sym.Kind == symbols.FunctionSym {
				for _, eff := range sym.Effects {
					used[eff] = true
				}
			}
		}
	case *ast.FieldAccessExpr:
		c.walkExprEffects(v.Target, used)
	case *ast.IndexExpr:
		c.walkExprEffects(v.Target, used)
		c.walkExprEffects(v.Index, used)
	case *ast.ArrayLit:
		for _, el := range v.Elements {
			c.walkExprEffects(el, used)
		}
	case *ast.RecordLit:
		for _, f := range v.Fields {
			c.walkExprEffects(f.Value, used)
		}
	case *ast.VariantConstructor:
		for _, f := range v.Fields {
			c.walkExprEffects(f.Value, used)
		}
	case *ast.RangeExpr:
		c.walkExprEffects(v.Start, used)
		c.walkExprEffects(v.End, used)
	case *ast.OkExpr:
		c.walkExprEffects(v.Value, used)
	case *ast.ErrExpr:
		for _, f := range v.Fields {
			c.walkExprEffects(f.Value, used)
		}
	case *ast.CheckExpr:
		c.walkExprEffects(v.Value, used)
	case *ast.EnsureExpr:
		c.walkExprEffects(v.Cond, used)
		if v.ElseErr != nil {
			for _, f := range v.ElseErr.Fields {
				c.walkExprEffects(f.Value, used)
			}
		}
	case *ast.MapErrorExpr:
		c.walkExprEffects(v.Value, used)
		c.walkExprEffects(v.Using, used)
	case *ast.MatchExpr:
		c.walkExprEffects(v.Scrutinee, used)
		for _, arm := range v.Arms {
			c.walkExprEffects(arm.Guard, used)
			c.walkExprEffects(arm.Body, used)
		}
	case *ast.FuncLit:
		if b, ok := v.Body.(*ast.BlockExpr); ok {
			c.walkBlockEffects(b, used)
		} else {
			c.walkExprEffects(v.Body, used)
		}
	case *ast.UnsafeCastExpr:
		c.walkExprEffects(v.Value, used)
	case *ast.ComptimeExpr:
		c.walkExprEffects(v.Value, used)
	case *ast.ContextBlockExpr:
		c.walkBlockEffects(v.Body, used)
	case *ast.BlockExpr:
		c.walkBlockEffects(v, used)
	}
}

package check

import (
	"fmt"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/effects"
	"github.com/karol-broda/ferrule/internal/symbols"
	"github.com/karol-broda/ferrule/internal/types"
)

// declPass is the Declaration Pass (§4.7): a single walk over the
// module's top-level statements that reserves global names and, for
// domains, installs the error-domain table. No function or initializer
// body is inspected here. Duplicate-declaration and unknown-effect
// diagnostics are recorded without aborting the walk, so the pass
// reports every such problem in one run rather than just the first.
func (c *Checker) declPass(file *ast.File) {
	for _, stmt := range file.Statements {
		switch d := stmt.(type) {
		case *ast.FuncDecl:
			c.declareFunc(d)
		case *ast.TypeDecl:
			c.declareType(d)
		case *ast.ErrorDecl:
			c.declareError(d)
		case *ast.DomainDecl:
			c.declareDomain(d)
		case *ast.ConstDecl:
			c.declareConst(d)
		case *ast.VarDecl:
			c.declareVar(d)
		}
	}
}

func (c *Checker) duplicate(name string, pos ast.Pos) bool {
	if _, exists := c.Global.LookupLocal(name); exists {
		c.Report.Add(diag.New(diag.Error, diag.DCL001, fmt.Sprintf("%q is already declared at the top level", name), pos))
		return true
	}
	return false
}

func (c *Checker) declareFunc(d *ast.FuncDecl) {
	if c.duplicate(d.Name, d.DeclPos) {
		return
	}
	paramTypes := make([]types.Type, len(d.Params))
	paramNames := make([]string, len(d.Params))
	paramInout := make([]bool, len(d.Params))
	paramCap := make([]bool, len(d.Params))
	for i, p := range d.Params {
		paramTypes[i] = types.Unit // filled by the resolver (pass 2)
		paramNames[i] = p.Name
		paramInout[i] = p.Inout
		paramCap[i] = p.Capability
	}
	for _, eff := range d.Effects {
		if !effects.IsFixedEffect(eff) {
			c.Report.Add(diag.New(diag.Error, diag.DCL002, fmt.Sprintf("unknown effect %q", eff), d.DeclPos))
		}
	}
	sym := &symbols.Symbol{
		Kind:            symbols.FunctionSym,
		Name:            d.Name,
		Pos:             d.DeclPos,
		TypeParams:      d.TypeParams,
		ParamTypes:      paramTypes,
		ParamNames:      paramNames,
		ParamInout:      paramInout,
		ParamCapability: paramCap,
		ReturnType:      types.Unit,
		Effects:         d.Effects,
		ErrorDomain:     d.ErrorName,
	}
	_ = c.Global.Insert(sym)
	c.funcDecls[d.Name] = d
}

func (c *Checker) declareType(d *ast.TypeDecl) {
	if c.duplicate(d.Name, d.DeclPos) {
		return
	}
	_ = c.Global.Insert(&symbols.Symbol{Kind: symbols.TypeDefSym, Name: d.Name, Pos: d.DeclPos, Underlying: types.Unit})
	c.typeDecls[d.Name] = d
}

func (c *Checker) declareError(d *ast.ErrorDecl) {
	if c.duplicate(d.Name, d.DeclPos) {
		return
	}
	c.Domains.register(d.Name, d.Variants)
	_ = c.Global.Insert(&symbols.Symbol{Kind: symbols.ErrorTypeSym, Name: d.Name, Pos: d.DeclPos})
}

func (c *Checker) declareDomain(d *ast.DomainDecl) {
	if c.duplicate(d.Name, d.DeclPos) {
		return
	}
	if len(d.Unions) > 0 {
		c.Domains.registerUnion(d.Name, d.Unions)
	} else {
		c.Domains.register(d.Name, d.Variants)
	}
	_ = c.Global.Insert(&symbols.Symbol{Kind: symbols.DomainSym, Name: d.Name, Pos: d.DeclPos})
	c.domainDecls[d.Name] = d
}

func (c *Checker) declareConst(d *ast.ConstDecl) {
	if c.duplicate(d.Name, d.DeclPos) {
		return
	}
	_ = c.Global.Insert(&symbols.Symbol{Kind: symbols.ConstantSym, Name: d.Name, Pos: d.DeclPos, Type: types.Unit, Mutable: false})
	c.constDecls[d.Name] = d
}

func (c *Checker) declareVar(d *ast.VarDecl) {
	if c.duplicate(d.Name, d.DeclPos) {
		return
	}
	_ = c.Global.Insert(&symbols.Symbol{Kind: symbols.VariableSym, Name: d.Name, Pos: d.DeclPos, Type: types.Unit, Mutable: true})
	c.varDecls[d.Name] = d
}

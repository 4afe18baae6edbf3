package check

import (
	"fmt"
	"strconv"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/symbols"
	"github.com/karol-broda/ferrule/internal/types"
)

// regionType is the builtin named type `Region` (§4.12): ferrule has no
// user declaration for it, so the resolver recognizes the name directly,
// the same way it recognizes scalar and capability-token names.
var regionType = &types.Named{Name: "Region", Underlying: types.Unit}

// tparamSet is the transient type-parameter context (§4.8): the set of
// names that resolve to an unresolved type-parameter occurrence within
// one generic declaration's signature/body.
type tparamSet map[string]bool

// resolvePass is the Type Resolver (§4.8): maps every AST type
// expression reachable from a declaration to a resolved, interned type,
// filling in the placeholder types the declaration pass left behind.
func (c *Checker) resolvePass(file *ast.File) {
	for _, stmt := range file.Statements {
		if d, ok := stmt.(*ast.TypeDecl); ok {
			c.resolveTypeDecl(d)
		}
	}
	for _, stmt := range file.Statements {
		switch d := stmt.(type) {
		case *ast.ErrorDecl:
			c.resolveDomainVariants(d.Name, d.Variants, nil)
		case *ast.DomainDecl:
			if len(d.Variants) > 0 {
				c.resolveDomainVariants(d.Name, d.Variants, nil)
			}
		}
	}
	for _, stmt := range file.Statements {
		if d, ok := stmt.(*ast.FuncDecl); ok {
			c.resolveFuncSignature(d)
		}
	}
}

func (c *Checker) resolveTypeDecl(d *ast.TypeDecl) {
	tparams := make(tparamSet, len(d.TypeParams))
	for _, p := range d.TypeParams {
		tparams[p] = true
	}
	underlying := c.resolveTypeExpr(d.Underlying, tparams)
	sym, ok := c.Global.LookupLocal(d.Name)
	if !ok {
		return
	}
	sym.Underlying = underlying
	if union, ok := underlying.(*types.Union); ok {
		for _, v := range union.Variants {
			if _, taken := c.unionVariants[v.Name]; !taken {
				c.unionVariants[v.Name] = d.Name
			}
		}
	}
	c.Hover.add(HoverEntry{Pos: d.DeclPos, Name: d.Name, Kind: "type", Type: underlying.String()})
	c.Location.recordDefinition(d.Name, d.DeclPos)
}

func (c *Checker) resolveDomainVariants(domain string, variants []ast.ErrorVariant, tparams tparamSet) {
	for _, v := range variants {
		fieldTypes := make([]types.Type, len(v.Fields))
		for i, f := range v.Fields {
			fieldTypes[i] = c.resolveTypeExpr(f.Type, tparams)
		}
		c.Domains.setFieldTypes(domain, v.Name, fieldTypes)
	}
}

func (c *Checker) resolveFuncSignature(d *ast.FuncDecl) {
	sym, ok := c.Global.LookupLocal(d.Name)
	if !ok {
		return
	}
	tparams := make(tparamSet, len(d.TypeParams))
	for _, p := range d.TypeParams {
		tparams[p] = true
	}
	for i, p := range d.Params {
		sym.ParamTypes[i] = c.resolveTypeExpr(p.Type, tparams)
	}
	sym.ReturnType = c.resolveTypeExpr(d.ReturnType, tparams)

	paramTypeStrs := make([]string, len(sym.ParamTypes))
	for i, t := range sym.ParamTypes {
		paramTypeStrs[i] = t.String()
	}
	c.Hover.add(HoverEntry{
		Pos: d.DeclPos, Name: d.Name, Kind: "function", Type: sym.ReturnType.String(),
		ParamNames: sym.ParamNames, ParamTypes: paramTypeStrs, Effects: sym.Effects, ErrorDomain: sym.ErrorDomain,
	})
	c.Location.recordDefinition(d.Name, d.DeclPos)
}

// resolveTypeExpr maps one syntactic type expression to a resolved,
// interned type (§4.8). Unresolvable names produce a RES001/RES002/RES003
// diagnostic and a `unit` placeholder so that later passes can continue
// (§7 "ResolutionError").
func (c *Checker) resolveTypeExpr(te ast.TypeExpr, tparams tparamSet) types.Type {
	if te == nil {
		return types.Unit
	}
	switch t := te.(type) {
	case *ast.SimpleTypeExpr:
		return c.resolveNamedType(t.Name, nil, tparams, t.TypePos)

	case *ast.NullableTypeExpr:
		return c.Ctx.InternType(&types.Nullable{Inner: c.resolveTypeExpr(t.Inner, tparams)})

	case *ast.ViewTypeExpr:
		return c.Ctx.InternType(&types.View{Elem: c.resolveTypeExpr(t.Inner, tparams), Mutable: t.Mutable})

	case *ast.GenericTypeExpr:
		return c.resolveGenericType(t, tparams)

	case *ast.RecordTypeExpr:
		names := make([]string, len(t.Fields))
		fieldTypes := make([]types.Type, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
			fieldTypes[i] = c.resolveTypeExpr(f.Type, tparams)
		}
		return c.Ctx.InternType(&types.Record{FieldNames: names, FieldTypes: fieldTypes})

	case *ast.UnionTypeExpr:
		variants := make([]types.UnionVariant, len(t.Variants))
		for i, v := range t.Variants {
			names := make([]string, len(v.Fields))
			fieldTypes := make([]types.Type, len(v.Fields))
			for j, f := range v.Fields {
				names[j] = f.Name
				fieldTypes[j] = c.resolveTypeExpr(f.Type, tparams)
			}
			variants[i] = types.UnionVariant{Name: v.Name, FieldNames: names, FieldTypes: fieldTypes}
		}
		return c.Ctx.InternType(&types.Union{Variants: variants})

	default:
		return types.Unit
	}
}

func (c *Checker) resolveNamedType(name string, args []ast.GenericArg, tparams tparamSet, pos ast.Pos) types.Type {
	if tparams[name] {
		return c.Ctx.InternType(&types.TypeParam{Name: name})
	}
	if scalar, ok := types.LookupScalar(name); ok {
		return scalar
	}
	if types.IsCapabilityName(name) {
		return c.Ctx.InternType(&types.CapToken{Name: name})
	}
	if name == "Region" {
		return regionType
	}
	sym, ok := c.Global.Lookup(name)
	if !ok {
		c.Report.Add(diag.New(diag.Error, diag.RES001, fmt.Sprintf("unknown type name %q", name), pos))
		return types.Unit
	}
	switch sym.Kind {
	case symbols.TypeDefSym:
		if decl, ok := c.typeDecls[name]; ok && len(decl.TypeParams) != len(args) && len(args) > 0 {
			c.Report.Add(diag.New(diag.Error, diag.RES002, fmt.Sprintf("%q expects %d type argument(s), found %d", name, len(decl.TypeParams), len(args)), pos))
		}
		return sym.Underlying
	case symbols.ErrorTypeSym, symbols.DomainSym:
		return c.Ctx.InternType(&types.Named{Name: name, Underlying: types.Unit})
	default:
		c.Report.Add(diag.New(diag.Error, diag.RES001, fmt.Sprintf("%q does not name a type", name), pos))
		return types.Unit
	}
}

func (c *Checker) resolveGenericType(t *ast.GenericTypeExpr, tparams tparamSet) types.Type {
	switch t.Name {
	case "Array", "Vector":
		if len(t.Args) != 2 {
			c.Report.Add(diag.New(diag.Error, diag.RES002, fmt.Sprintf("%q expects 2 type arguments, found %d", t.Name, len(t.Args)), t.TypePos))
			return types.Unit
		}
		elem := c.resolveGenericArgType(t.Args[0], tparams, t.TypePos)
		size := c.resolveConstArg(t.Args[1], t.TypePos)
		if t.Name == "Array" {
			return c.Ctx.InternType(&types.Array{Elem: elem, Size: size})
		}
		return c.Ctx.InternType(&types.Vector{Elem: elem, Size: size})
	default:
		for _, a := range t.Args {
			if a.Type != nil {
				c.resolveTypeExpr(a.Type, tparams)
			}
		}
		return c.resolveNamedType(t.Name, t.Args, tparams, t.TypePos)
	}
}

func (c *Checker) resolveGenericArgType(arg ast.GenericArg, tparams tparamSet, pos ast.Pos) types.Type {
	if arg.Type == nil {
		c.Report.Add(diag.New(diag.Error, diag.RES001, "expected a type argument", pos))
		return types.Unit
	}
	return c.resolveTypeExpr(arg.Type, tparams)
}

func (c *Checker) resolveConstArg(arg ast.GenericArg, pos ast.Pos) int {
	if arg.IntLit == "" {
		c.Report.Add(diag.New(diag.Error, diag.RES003, "const-generic argument not an integer", pos))
		return 0
	}
	n, err := strconv.Atoi(arg.IntLit)
	if err != nil {
		c.Report.Add(diag.New(diag.Error, diag.RES003, "const-generic argument not an integer", pos))
		return 0
	}
	return n
}

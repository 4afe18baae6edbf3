package check

import (
	"fmt"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
)

// regionState is the region checker's per-function bookkeeping (§4.12):
// the depth a region binding was declared at, whether it has been
// disposed, and its declaration site for the undisposed warning.
type regionState struct {
	depth    map[string]int
	disposed map[string]bool
	pos      map[string]ast.Pos
}

// regionPass is the Region Checker (§4.12): tracks region-typed bindings
// across nested scopes, warning on any active region still undisposed
// when its declaring scope exits, and erroring on a region that escapes
// the scope it was created in.
func (c *Checker) regionPass(file *ast.File) {
	for _, stmt := range file.Statements {
		if d, ok := stmt.(*ast.FuncDecl); ok {
			state := &regionState{depth: make(map[string]int), disposed: make(map[string]bool), pos: make(map[string]ast.Pos)}
			c.checkRegionBlock(d.Body, 0, state)
		}
	}
}

func (c *Checker) checkRegionBlock(b *ast.BlockExpr, depth int, state *regionState) {
	if b == nil {
		return
	}
	var declaredHere []string
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if isRegionType(s.Type) {
				state.depth[s.Name] = depth
				state.disposed[s.Name] = false
				state.pos[s.Name] = s.DeclPos
				declaredHere = append(declaredHere, s.Name)
			}
		case *ast.DeferStmt:
			if name, ok := disposeTarget(s.Call); ok {
				state.disposed[name] = true
			}
		case *ast.ReturnStmt:
			c.checkRegionReturnEscape(s.Value, state, s.StmtPos)
		case *ast.AssignStmt:
			c.checkRegionEscape(s.Value, state, s.StmtPos)
		case *ast.IfStmt:
			c.checkRegionBlock(s.Then, depth+1, state)
			if elseBlock, ok := s.Else.(*ast.BlockExpr); ok {
				c.checkRegionBlock(elseBlock, depth+1, state)
			} else if elseIf, ok := s.Else.(*ast.IfStmt); ok {
				c.checkRegionBlock(elseIf.Then, depth+1, state)
			}
		case *ast.WhileStmt:
			c.checkRegionBlock(s.Body, depth+1, state)
		case *ast.ForStmt:
			c.checkRegionBlock(s.Body, depth+1, state)
		case *ast.BlockExpr:
			c.checkRegionBlock(s, depth+1, state)
		}
	}
	for _, name := range declaredHere {
		if !state.disposed[name] {
			c.Report.Add(diag.New(diag.Warning, diag.REG001, fmt.Sprintf("region %q is not disposed on every exit path", name), state.pos[name]))
		}
	}
}

// disposeTarget recognizes the `r.dispose()` call shape a defer
// statement uses to mark a region disposed.
func disposeTarget(call ast.Expr) (string, bool) {
	ce, ok := call.(*ast.CallExpr)
	if !ok || len(ce.Args) != 0 {
		return "", false
	}
	fa, ok := ce.Callee.(*ast.FieldAccessExpr)
	if !ok || fa.Field != "dispose" {
		return "", false
	}
	ident, ok := fa.Target.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return ident.Name, true
}

// checkRegionReturnEscape reports REG002 when e directly names any
// region binding: returning a region always hands it past the function
// body that created it, which is that region's entire creating scope.
func (c *Checker) checkRegionReturnEscape(e ast.Expr, state *regionState, pos ast.Pos) {
	ident, ok := e.(*ast.Identifier)
	if !ok {
		return
	}
	if _, known := state.depth[ident.Name]; known {
		state.disposed[ident.Name] = true // the error supersedes the separate undisposed warning
		c.Report.Add(diag.New(diag.Error, diag.REG002, fmt.Sprintf("region %q escapes its creating scope", ident.Name), pos))
	}
}

// checkRegionEscape reports REG002 when e directly names a region bound
// inside a nested block (depth > 0); the depth of the assignment's target
// is not consulted.
func (c *Checker) checkRegionEscape(e ast.Expr, state *regionState, pos ast.Pos) {
	ident, ok := e.(*ast.Identifier)
	if !ok {
		return
	}
	depth, known := state.depth[ident.Name]
	if known && depth > 0 {
		c.Report.Add(diag.New(diag.Error, diag.REG002, fmt.Sprintf("region %q escapes its creating scope", ident.Name), pos))
	}
}

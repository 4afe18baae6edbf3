// Package check implements the semantic analyzer: the ordered sequence
// of passes described by §4.7-§4.13 — declaration, type resolution, type
// checking, effect checking, error-domain checking, region checking, and
// exhaustiveness — plus the auxiliary hover/location tables of §4.14.
// Each pass is its own file; Run orchestrates them in the fixed order and
// applies the "skip 2-7 if pass 1 errored" rule of §4.7/§7.
package check

import (
	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/ctx"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/effects"
	"github.com/karol-broda/ferrule/internal/symbols"
)

// Checker carries the mutable state threaded across every pass: the
// compilation context, the diagnostics report, the global scope, the
// error-domain table, the hover/location tables, and the raw declaration
// nodes later passes need to revisit (function bodies, generic type
// templates).
type Checker struct {
	Ctx      *ctx.Context
	Report   *diag.Report
	Global   *symbols.Scope
	Domains  *DomainTable
	Hover    *HoverTable
	Location *LocationTable

	// Manifest optionally pre-grants capability tokens to one named entry
	// point function, read from a `ferrule.caps.yaml` file by the CLI
	// collaborator before Run is called. Nil means no entry point has any
	// pre-granted capability.
	Manifest *effects.Manifest

	funcDecls   map[string]*ast.FuncDecl
	typeDecls   map[string]*ast.TypeDecl
	constDecls  map[string]*ast.ConstDecl
	varDecls    map[string]*ast.VarDecl
	domainDecls map[string]*ast.DomainDecl

	// unionVariants maps a union variant name to the TypeDecl name that
	// declares it, populated by the resolver (§4.8). A variant name shared
	// by two union declarations resolves to whichever TypeDecl registered
	// it first.
	unionVariants map[string]string
}

// New creates a Checker ready to run against one file's worth of AST; the
// caller owns ctx's lifetime and destroys it after consuming Result.
func New(c *ctx.Context, report *diag.Report) *Checker {
	return &Checker{
		Ctx:         c,
		Report:      report,
		Global:      symbols.NewGlobalScope(),
		Domains:     newDomainTable(),
		Hover:       newHoverTable(),
		Location:    newLocationTable(),
		funcDecls:     make(map[string]*ast.FuncDecl),
		typeDecls:     make(map[string]*ast.TypeDecl),
		constDecls:    make(map[string]*ast.ConstDecl),
		varDecls:      make(map[string]*ast.VarDecl),
		domainDecls:   make(map[string]*ast.DomainDecl),
		unionVariants: make(map[string]string),
	}
}

// Result is everything the core produces for one analyzed file (§6
// "Output from the core"): the typed module (the AST itself, now
// annotated via the hover table), the diagnostics, and the two auxiliary
// tables.
type Result struct {
	File     *ast.File
	Report   *diag.Report
	Hover    *HoverTable
	Location *LocationTable
}

// Run drives the full pass pipeline over file and returns the Result.
// Passes 2-7 are skipped entirely if the declaration pass recorded any
// error-level diagnostic, since they depend on a consistent declaration
// set (§4.7, §7 "Propagation policy"). manifest may be nil.
func Run(c *ctx.Context, report *diag.Report, file *ast.File, manifest *effects.Manifest) *Result {
	checker := New(c, report)
	checker.Manifest = manifest

	checker.declPass(file)
	if !checker.Report.HasErrors() {
		checker.resolvePass(file)
		checker.typecheckPass(file)
		checker.effectPass(file)
		checker.domainPass(file)
		checker.regionPass(file)
		checker.exhaustivenessPass(file)
	}

	return &Result{File: file, Report: checker.Report, Hover: checker.Hover, Location: checker.Location}
}

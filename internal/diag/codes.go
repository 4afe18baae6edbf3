// Package diag implements the diagnostics component (§4.2): an
// accumulating, chronologically ordered list of error/warning/note
// records, source-anchored rendering, and a fixed per-phase code
// taxonomy.
package diag

// Code is a stable diagnostic code. Codes are grouped by the pass that
// raises them, mirroring the taxonomy in spec.md §7.
type Code string

const (
	// Lexical errors (§7 LexicalError)
	LEX001 Code = "LEX001" // unterminated string/char/bytes literal
	LEX002 Code = "LEX002" // illegal byte sequence

	// Syntax errors (§7 SyntaxError) — end the parser pass
	PAR001 Code = "PAR001" // unexpected token
	PAR002 Code = "PAR002" // missing closing delimiter
	PAR003 Code = "PAR003" // invalid function declaration
	PAR004 Code = "PAR004" // invalid package declaration
	PAR005 Code = "PAR005" // invalid import declaration
	PAR006 Code = "PAR006" // invalid pattern
	PAR007 Code = "PAR007" // invalid type expression
	PAR008 Code = "PAR008" // invalid effect annotation
	PAR009 Code = "PAR009" // ambiguous block/record-literal disambiguation

	// Declaration errors (§7 DeclarationError)
	DCL001 Code = "DCL001" // duplicate top-level name
	DCL002 Code = "DCL002" // unknown effect name

	// Resolution errors (§7 ResolutionError)
	RES001 Code = "RES001" // unknown type name
	RES002 Code = "RES002" // wrong generic arity
	RES003 Code = "RES003" // const-generic argument not an integer

	// Type errors (§7 TypeError)
	TYP001 Code = "TYP001" // type mismatch
	TYP002 Code = "TYP002" // numeric literal requires explicit type annotation
	TYP003 Code = "TYP003" // non-boolean condition
	TYP004 Code = "TYP004" // field not found
	TYP005 Code = "TYP005" // wrong call arity
	TYP006 Code = "TYP006" // assignment to immutable / non-variable target
	TYP007 Code = "TYP007" // generic type argument could not be inferred
	TYP008 Code = "TYP008" // match arms have differing body types
	TYP009 Code = "TYP009" // pattern kind incompatible with scrutinee type
	TYP010 Code = "TYP010" // return value does not match declared return type

	// Effect errors (§7 EffectError)
	EFF001 Code = "EFF001" // undeclared effect used in body
	EFF002 Code = "EFF002" // effect requires a capability parameter

	// Error-domain errors (§7 DomainError)
	DOM001 Code = "DOM001" // unknown error variant
	DOM002 Code = "DOM002" // error domain is not a subset of enclosing domain
	DOM003 Code = "DOM003" // ok/err/check/ensure/map_error used outside an error-domain function

	// Region errors (§7 RegionError)
	REG001 Code = "REG001" // region not disposed on an exit path (warning)
	REG002 Code = "REG002" // region escapes its creating scope (error)

	// Exhaustiveness errors (§7 ExhaustivenessError) — warnings
	EXH001 Code = "EXH001" // match is not exhaustive
)

// Phase returns the human-readable pass name that raises codes with c's
// 3-letter prefix.
func (c Code) Phase() string {
	switch {
	case len(c) >= 3 && c[:3] == "LEX":
		return "lexer"
	case len(c) >= 3 && c[:3] == "PAR":
		return "parser"
	case len(c) >= 3 && c[:3] == "DCL":
		return "declaration"
	case len(c) >= 3 && c[:3] == "RES":
		return "resolve"
	case len(c) >= 3 && c[:3] == "TYP":
		return "typecheck"
	case len(c) >= 3 && c[:3] == "EFF":
		return "effects"
	case len(c) >= 3 && c[:3] == "DOM":
		return "domains"
	case len(c) >= 3 && c[:3] == "REG":
		return "regions"
	case len(c) >= 3 && c[:3] == "EXH":
		return "exhaustiveness"
	default:
		return "unknown"
	}
}

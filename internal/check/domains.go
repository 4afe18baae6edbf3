package check

import "github.com/karol-broda/ferrule/internal/ast"

// domainPass is the Error Checker (§4.11). Its three rules — that every
// `err`/`ensure ... else err` variant belongs to the enclosing function's
// domain, and that every `check` operand's domain is a subset of it — are
// enforced inline by the type checker's ok/err/check/ensure/map_error
// inference (pass 3), since that is where the enclosing domain and the
// operand's resolved Result type are already in hand. This pass is kept
// as its own step, rather than folded away, so the pass ordering in §4.7
// stays exactly as declared and a later domain-only rule has a home.
func (c *Checker) domainPass(file *ast.File) {}

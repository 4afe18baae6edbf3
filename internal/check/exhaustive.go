package check

import (
	"fmt"
	"strings"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/types"
)

// exhaustivenessPass is the Exhaustiveness checker (§4.13). Its coverage
// rule is applied inline from checkMatch (pass 3), right where the
// scrutinee's resolved type and the arm patterns are already in hand;
// this function exists so the fixed pass sequence of §4.7 still names a
// step 7, the same arrangement used for the Error Checker in domains.go.
func (c *Checker) exhaustivenessPass(file *ast.File) {}

func hasCatchAll(arms []ast.MatchArm) bool {
	for _, arm := range arms {
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			if arm.Guard == nil {
				return true
			}
		}
	}
	return false
}

// checkExhaustiveness implements §4.13's per-scrutinee-shape coverage
// rule and reports EXH001 (a warning) if it is not met.
func (c *Checker) checkExhaustiveness(st types.Type, arms []ast.MatchArm, pos ast.Pos) {
	underlying := st
	if named, ok := st.(*types.Named); ok {
		underlying = named.Underlying
	}
	if hasCatchAll(arms) {
		return
	}
	switch u := underlying.(type) {
	case *types.Union:
		covered := make(map[string]bool)
		for _, arm := range arms {
			if vp, ok := arm.Pattern.(*ast.VariantPattern); ok {
				covered[vp.Name] = true
			}
		}
		var missing []string
		for _, v := range u.Variants {
			if !covered[v.Name] {
				missing = append(missing, v.Name)
			}
		}
		if len(missing) > 0 {
			c.Report.Add(diag.New(diag.Warning, diag.EXH001, fmt.Sprintf("match is not exhaustive: missing %s", strings.Join(missing, ", ")), pos))
		}
	case *types.Result:
		hasOk, hasErr := false, false
		for _, arm := range arms {
			switch arm.Pattern.(type) {
			case *ast.OkPattern:
				hasOk = true
			case *ast.ErrPattern:
				hasErr = true
			}
		}
		var missing []string
		if !hasOk {
			missing = append(missing, "ok")
		}
		if !hasErr {
			missing = append(missing, "err")
		}
		if len(missing) > 0 {
			c.Report.Add(diag.New(diag.Warning, diag.EXH001, fmt.Sprintf("match is not exhaustive: missing %s", strings.Join(missing, ", ")), pos))
		}
	case *types.Nullable:
		hasSome, hasNone := false, false
		for _, arm := range arms {
			switch arm.Pattern.(type) {
			case *ast.SomePattern:
				hasSome = true
			case *ast.NonePattern:
				hasNone = true
			}
		}
		var missing []string
		if !hasSome {
			missing = append(missing, "Some")
		}
		if !hasNone {
			missing = append(missing, "None")
		}
		if len(missing) > 0 {
			c.Report.Add(diag.New(diag.Warning, diag.EXH001, fmt.Sprintf("match is not exhaustive: missing %s", strings.Join(missing, ", ")), pos))
		}
	default:
		if types.IsNumeric(underlying) || underlying.Equals(types.String) || underlying.Equals(types.Bool) {
			c.Report.Add(diag.New(diag.Warning, diag.EXH001, "match over this scrutinee requires a wildcard or binding arm", pos))
		}
	}
}

package diag

import "sort"

// Report accumulates Diagnostics chronologically across every pass. It
// is the single mutable cross-pass object (§5): every pass holds a
// mutable reference and appends; no pass reads another pass's
// diagnostics while running.
type Report struct {
	diagnostics []Diagnostic
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a diagnostic in the order it was raised.
func (r *Report) Add(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// Diagnostics returns every recorded diagnostic, in the order raised.
func (r *Report) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// HasErrors reports whether any Error-level diagnostic was recorded.
func (r *Report) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at the given level.
func (r *Report) Count(level Level) int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Level == level {
			n++
		}
	}
	return n
}

// SortedBySpan returns a copy of the diagnostics ordered by source
// position of their primary span, the order §7 requires for rendering.
func (r *Report) SortedBySpan() []Diagnostic {
	out := append([]Diagnostic(nil), r.diagnostics...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Span, out[j].Span
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

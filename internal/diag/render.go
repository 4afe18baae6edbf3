package diag

import (
	"fmt"
	"strings"
)

// Render produces the human-readable form of d given the source buffer
// it was raised against: level, message, an anchored source span with a
// caret, and the optional hint. Render is a pure function of (d,
// source), as §4.2 requires.
func Render(d Diagnostic, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.Level, d.Message)
	fmt.Fprintf(&b, "  --> %s\n", d.Span.String())

	line := sourceLine(source, d.Span.Line)
	if line != "" {
		fmt.Fprintf(&b, "  %s\n", line)
		fmt.Fprintf(&b, "  %s%s\n", strings.Repeat(" ", indentWidth(d.Span.Column-1)), caret(d.Span.Length))
	}
	if d.Hint != "" {
		fmt.Fprintf(&b, "  hint: %s\n", d.Hint)
	}
	return b.String()
}

// RenderAll renders every diagnostic in r in source-position order,
// separated by blank lines.
func RenderAll(r *Report, source string) string {
	diags := r.SortedBySpan()
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = Render(d, source)
	}
	return strings.Join(parts, "\n")
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func caret(length int) string {
	if length <= 0 {
		length = 1
	}
	return strings.Repeat("^", length)
}

func indentWidth(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

package diag

import "github.com/karol-broda/ferrule/internal/ast"

// Level is the severity of a Diagnostic.
type Level int

const (
	Error Level = iota
	Warning
	Note
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is one error/warning/note record: a code, a level, a
// message, the source Pos it anchors to, and an optional hint. Any
// dynamically formatted message owns its own backing storage (a plain Go
// string, copied at construction) so the Diagnostic remains valid after
// the formatting arguments that produced it go out of scope.
type Diagnostic struct {
	Level   Level
	Code    Code
	Message string
	Span    ast.Pos
	Hint    string // empty if there is no suggested fix
}

// New constructs a Diagnostic. message must already be fully formatted;
// callers should use fmt.Sprintf before calling New so the message's
// backing storage is independent of any caller-local state.
func New(level Level, code Code, message string, span ast.Pos) Diagnostic {
	return Diagnostic{Level: level, Code: code, Message: message, Span: span}
}

// WithHint returns a copy of d with Hint set.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

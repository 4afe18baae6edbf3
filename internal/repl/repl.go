// Package repl implements the interactive line-editing loop the CLI
// collaborator's `repl` command drives: each line is appended to the
// accumulated session source and the whole source is re-parsed and
// re-checked with a fresh compilation context, grounded on the teacher's
// internal/repl's per-line evaluation loop.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/check"
	"github.com/karol-broda/ferrule/internal/ctx"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/parser"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

// REPL holds the state that persists across lines: accumulated source
// text, so a function declared on one line can be referenced from a
// later one, and input history.
type REPL struct {
	source  strings.Builder
	history []string
}

// New creates an empty REPL session.
func New() *REPL {
	return &REPL{}
}

// Start runs the read-eval-print loop against in/out until EOF or a
// :quit command.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".ferrule_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(in string) (c []string) {
		for _, cmd := range []string{":help", ":quit", ":reset", ":show"} {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("ferrule"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt("fe> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleCommand runs a `:`-prefixed REPL command; the returned bool is
// true if the session should end.
func (r *REPL) handleCommand(cmd string, out io.Writer) bool {
	switch strings.Fields(cmd)[0] {
	case ":quit", ":q":
		fmt.Fprintln(out, green("goodbye"))
		return true
	case ":help", ":h":
		fmt.Fprintln(out, "REPL commands:")
		fmt.Fprintln(out, "  :help, :h     show this help")
		fmt.Fprintln(out, "  :quit, :q     exit the REPL")
		fmt.Fprintln(out, "  :reset        discard accumulated declarations")
		fmt.Fprintln(out, "  :show         print accumulated source")
	case ":reset":
		r.source.Reset()
		fmt.Fprintln(out, dim("session reset"))
	case ":show":
		fmt.Fprint(out, r.source.String())
	default:
		fmt.Fprintf(out, "unknown command: %s\n", cmd)
	}
	return false
}

// evalLine appends input to the accumulated session source, re-runs the
// full pipeline over the result, and prints its diagnostics. Each line
// is checked as part of the growing session file rather than in
// isolation, so a function declared on one line may call one declared
// earlier, and a later error doesn't roll back prior declarations.
func (r *REPL) evalLine(input string, out io.Writer) {
	candidate := r.source.String() + input + "\n"

	report := diag.NewReport()
	p := parser.New([]byte(candidate), "<repl>", report)
	file, err := p.Parse()
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}

	result := check.Run(ctx.New(), report, file, nil)
	for _, d := range result.Report.SortedBySpan() {
		fmt.Fprintf(out, "%s: %s [%s]\n", levelLabel(d.Level), d.Message, d.Code)
	}
	if !result.Report.HasErrors() {
		r.source.WriteString(input)
		r.source.WriteString("\n")
		if len(result.Report.Diagnostics()) == 0 {
			fmt.Fprintf(out, "%s ok\n", green("✓"))
		}
		printLastHover(file, result, out)
	}
}

// printLastHover prints the hover entry for the symbol this line just
// declared, if the line introduced a top-level function, const, or var.
func printLastHover(file *ast.File, result *check.Result, out io.Writer) {
	name, ok := lastDeclName(file)
	if !ok {
		return
	}
	entry, ok := findHoverEntry(result.Hover, name)
	if !ok {
		return
	}
	fmt.Fprintf(out, "%s %s: %s\n", dim("hover:"), entry.Name, entry.Type)
	if len(entry.ParamNames) > 0 {
		fmt.Fprintf(out, "  %s (%s)\n", dim("params:"), strings.Join(entry.ParamNames, ", "))
	}
	if len(entry.Effects) > 0 {
		fmt.Fprintf(out, "  %s [%s]\n", dim("effects:"), strings.Join(entry.Effects, ", "))
	}
	if entry.ErrorDomain != "" {
		fmt.Fprintf(out, "  %s %s\n", dim("error domain:"), entry.ErrorDomain)
	}
}

// lastDeclName returns the name of the last top-level declaration in
// file, the one introduced by the line just evaluated.
func lastDeclName(file *ast.File) (string, bool) {
	if len(file.Statements) == 0 {
		return "", false
	}
	switch d := file.Statements[len(file.Statements)-1].(type) {
	case *ast.FuncDecl:
		return d.Name, true
	case *ast.ConstDecl:
		return d.Name, true
	case *ast.VarDecl:
		return d.Name, true
	default:
		return "", false
	}
}

// findHoverEntry returns the most recently recorded top-level hover
// entry for name: the declaration entry, not one of its internal
// parameter/use-site entries.
func findHoverEntry(hover *check.HoverTable, name string) (check.HoverEntry, bool) {
	entries := hover.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Name != name {
			continue
		}
		switch e.Kind {
		case "function", "constant", "variable":
			return e, true
		}
	}
	return check.HoverEntry{}, false
}

func levelLabel(level diag.Level) string {
	switch level {
	case diag.Error:
		return red("error")
	case diag.Warning:
		return yellow("warning")
	default:
		return cyan("note")
	}
}

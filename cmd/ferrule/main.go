package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/karol-broda/ferrule/internal/check"
	"github.com/karol-broda/ferrule/internal/ctx"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/effects"
	"github.com/karol-broda/ferrule/internal/parser"
	"github.com/karol-broda/ferrule/internal/repl"
)

var (
	Version = "dev"
	Commit  = "unknown"

	bold   = color.New(color.Bold).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

func main() {
	var (
		versionFlag  = flag.Bool("version", false, "print version information")
		helpFlag     = flag.Bool("help", false, "show help")
		manifestPath = flag.String("caps", "", "path to a capability-grant manifest (ferrule.caps.yaml)")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch flag.Arg(0) {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: ferrule check <file.fe>")
			os.Exit(1)
		}
		checkFile(flag.Arg(1), *manifestPath)
	case "repl":
		repl.New().Start(os.Stdin, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("ferrule %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
}

func printHelp() {
	fmt.Println(bold("ferrule - the ferrule language front end"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ferrule <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>     type-check a file and print its diagnostics\n", cyan("check"))
	fmt.Printf("  %s            start the interactive REPL\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        print version information")
	fmt.Println("  --help           show this help message")
	fmt.Println("  --caps <file>    capability-grant manifest consumed by 'check'")
}

func checkFile(filename, manifestPath string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file '%s': %v\n", red("Error"), filename, err)
		os.Exit(1)
	}

	var manifest *effects.Manifest
	if manifestPath != "" {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read manifest '%s': %v\n", red("Error"), manifestPath, err)
			os.Exit(1)
		}
		manifest, err = effects.ParseManifest(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
	}

	report := diag.NewReport()
	p := parser.New(content, filename, report)
	file, err := p.Parse()
	if err != nil {
		printDiagnostics(report)
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	result := check.Run(ctx.New(), report, file, manifest)
	printDiagnostics(result.Report)

	if result.Report.HasErrors() {
		os.Exit(1)
	}
	if len(result.Report.Diagnostics()) == 0 {
		fmt.Printf("%s no diagnostics\n", green("✓"))
	}
}

func printDiagnostics(report *diag.Report) {
	for _, d := range report.SortedBySpan() {
		label := levelLabel(d.Level)
		fmt.Printf("%s: %s: %s [%s]\n", d.Span, label, d.Message, d.Code)
		if d.Hint != "" {
			fmt.Printf("  %s %s\n", cyan("hint:"), d.Hint)
		}
	}
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

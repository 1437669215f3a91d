package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
)

// ANSI color constants, matching tsgonest's internal/compiler/diagnostics.go.
const (
	colorReset  = "[0m"
	colorRed    = "[91m"
	colorYellow = "[93m"
	colorGrey   = "[90m"
	colorGutter = "[7m" // reverse video
	colorCyan   = "[96m"
)

// isPrettyOutput decides between the plain tsc-style rendering the §6
// wire format requires and a colorized, code-snippet form for interactive
// terminals. Mirrors tsgonest's IsPrettyOutput: NO_COLOR/FORCE_COLOR env
// vars take priority, then an isatty check on stderr.
func isPrettyOutput() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func severityColor(s diagnostic.Severity) string {
	if s == diagnostic.SeverityError {
		return colorRed
	}
	return colorYellow
}

// writeDiagnostics renders every diagnostic in bag to w, one per entry,
// choosing plain or pretty form via isPrettyOutput. Plain form matches the
// stable wire format relied on by tooling that parses stderr; pretty form
// adds a color-coded source snippet for a human at a terminal. Either way
// the same TSN#### codes are emitted either way, only presentation differs.
func writeDiagnostics(w io.Writer, bag *diagnostic.Bag, cwd string) {
	pretty := isPrettyOutput()
	for _, d := range bag.All() {
		if pretty {
			writePrettyDiagnostic(w, d, cwd)
		} else {
			writePlainDiagnostic(w, d, cwd)
		}
	}
	if pretty {
		writeErrorSummary(w, bag)
	}
}

// writePlainDiagnostic renders tsc's plain format:
// file(line,col): error TSN4001: message
func writePlainDiagnostic(w io.Writer, d diagnostic.Diagnostic, cwd string) {
	if d.File != "" {
		fmt.Fprintf(w, "%s(%d,%d): ", relativePath(d.File, cwd), d.Line, d.Column)
	}
	fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code, d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(w, "  suggestion: %s\n", d.Suggestion)
	}
}

// writePrettyDiagnostic renders a colorized diagnostic with a source
// snippet, re-reading the file from disk since diagnostic.Diagnostic
// carries only a File/Line/Column triple, not an AST node with byte
// offsets into an in-memory SourceFile.
func writePrettyDiagnostic(w io.Writer, d diagnostic.Diagnostic, cwd string) {
	color := severityColor(d.Severity)
	if d.File != "" {
		fmt.Fprintf(w, "%s%s%s:%s%d%s:%s%d%s - ",
			colorCyan, relativePath(d.File, cwd), colorReset,
			colorYellow, d.Line, colorReset,
			colorYellow, d.Column, colorReset)
	}
	fmt.Fprintf(w, "%s%s%s %s%s:%s %s\n", color, d.Severity, colorReset, colorGrey, d.Code, colorReset, d.Message)

	if d.File != "" && d.Line > 0 {
		writeCodeSnippet(w, d.File, d.Line, d.Column, color)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(w, "  %ssuggestion:%s %s\n", colorGrey, colorReset, d.Suggestion)
	}
	fmt.Fprint(w, "\n")
}

// writeCodeSnippet prints the single offending source line with a gutter
// and a caret under the reported column. Unlike tsgo's multi-line
// squiggle (which needs a diagnostic length in source bytes), tsonic's
// diagnostics only carry a point location, so the snippet marks one
// column rather than a span.
func writeCodeSnippet(w io.Writer, file string, line, col int, color string) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	if line < 1 || line > len(lines) {
		return
	}
	content := strings.TrimRight(lines[line-1], "\r")
	gutter := fmt.Sprintf("%d", line)
	fmt.Fprintf(w, "%s%s%s %s\n", colorGutter, gutter, colorReset, content)
	pad := strings.Repeat(" ", len(gutter))
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(w, "%s%s%s %s%s^%s\n", colorGutter, pad, colorReset, strings.Repeat(" ", caretPad), color, colorReset)
}

// writeErrorSummary writes the "Found N error(s)" summary line, pretty
// mode only; plain mode's wire format has no summary line so tooling
// that parses it line-by-line never sees one.
func writeErrorSummary(w io.Writer, bag *diagnostic.Bag) {
	n := bag.ErrorCount()
	if n == 0 {
		return
	}
	if n == 1 {
		fmt.Fprintln(w, "Found 1 error.")
		return
	}
	fmt.Fprintf(w, "Found %d errors.\n", n)
}

func relativePath(path, cwd string) string {
	if cwd == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}

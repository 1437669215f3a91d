// Package diagnostic defines tsonic's stable diagnostic taxonomy: the
// TSN#### codes that form the compiler's public contract with downstream
// tooling, plus a collector used by every pipeline stage to accumulate them.
package diagnostic

import (
	"fmt"
	"strings"
	"sync"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable TSN#### diagnostic identifier. Codes are grouped by
// prefix per spec: 1xxx resolver, 2xxx emitter-surface, 3xxx language-rule,
// 4xxx naming/collision, 7xxx generics/types.
type Code string

const (
	// Module resolver (TSN1xxx).
	CodeImportNoExtension  Code = "TSN1001" // relative import missing .ts extension
	CodeImportBadExtension Code = "TSN1002" // relative import with non-.ts extension
	CodeImportCaseMismatch Code = "TSN1003" // on-disk case does not match specifier
	CodeImportNodeModule   Code = "TSN1004" // bare/node-style specifier (fs, node:fs)
	CodeImportJSONModule   Code = "TSN1005" // ./x.json import
	CodeImportCycle        Code = "TSN1006" // import cycle detected
	CodeEntryTopLevelNoMain Code = "TSN1020" // top-level statements + other exports, no main
	CodeTopLevelAwait       Code = "TSN1021" // top-level await rejected

	// Emitter-surface constraints (TSN2xxx) — reserved, currently unused by
	// the validator (the emitter aborts internally instead; see §4.6).
	CodeUnsupportedAccessor Code = "TSN2001" // unsupported getter/setter shape
	CodeClassFieldArrow     Code = "TSN2002" // class-field arrow function

	// Language rules (TSN3xxx).
	CodeReExport          Code = "TSN3001" // re-export rejected
	CodeDefaultExport     Code = "TSN3002" // default export rejected
	CodeDynamicImport     Code = "TSN3003" // import() / import.meta rejected
	CodeNamespaceReExport Code = "TSN3004" // export * rejected
	CodeSuperNotFirst     Code = "TSN3012" // super() must be first statement
	CodeUnsupportedSyntax Code = "TSN3013" // other forbidden construct

	// Naming / collisions (TSN40xx).
	CodeNameCollidesWithFile Code = "TSN4001" // exported symbol name == file name
	CodeDuplicateExport      Code = "TSN4002" // two exports share a name

	// Generics (TSN71xx).
	CodeUnsupportedConstraint  Code = "TSN7101" // constraint shape the target can't express
	CodeUnsatisfiableInstance  Code = "TSN7102" // instantiation cannot satisfy constraint
	CodeVariadicGeneric        Code = "TSN7103" // variadic generic constraint rejected
	CodeSymbolIndexedSignature Code = "TSN7104" // symbol-indexed signature rejected
	CodeUnionTypeRejected      Code = "TSN7105" // arbitrary union type rejected

	// Type aliases / interfaces (TSN72xx).
	CodeRecursiveStructuralAlias Code = "TSN7201" // purely structural recursion, no base case
	CodeConditionalNonTerminate  Code = "TSN7202" // conditional/mapped expansion depth cap hit
	CodeSymbolKeyedType          Code = "TSN7203" // symbol-indexed type rejected
	CodeVariadicGenericAlias     Code = "TSN7204" // variadic generic constraint in alias rejected

	// Internal compiler errors — a distinct category, never a user mistake.
	CodeInternal Code = "TSNICE"
)

// Diagnostic is a single compiler diagnostic with a stable code, matching
// the record described in the data model: severity, message, source
// location, and an optional suggested fix.
type Diagnostic struct {
	Code       Code
	Severity   Severity
	Message    string
	File       string // absolute or workspace-relative source path; empty if not file-scoped
	Line       int    // 1-based; 0 = unknown
	Column     int    // 1-based; 0 = unknown
	Suggestion string // optional suggested fix text (TSN3012, TSN40xx carry one)
}

// String renders the diagnostic in the stable wire format:
// TSN<code>: <message> [at <file>:<line>:<col>]
func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(string(d.Code))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.File != "" {
		fmt.Fprintf(&sb, " [at %s", d.File)
		if d.Line > 0 {
			fmt.Fprintf(&sb, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&sb, ":%d", d.Column)
			}
		}
		sb.WriteString("]")
	}
	if d.Suggestion != "" {
		sb.WriteString("\n  suggestion: ")
		sb.WriteString(d.Suggestion)
	}
	return sb.String()
}

// IsInternal reports whether this is an internal-compiler-error diagnostic
// (a facade bypass or emitter inconsistency — always a bug, never surfaced
// as user guidance).
func (d Diagnostic) IsInternal() bool {
	return d.Code == CodeInternal
}

// Bag collects diagnostics during a single compilation. Every pipeline
// stage appends to the same bag so the driver can render one ordered
// batch; no stage recovers from an error locally (§7 propagation policy).
// The mutex makes Add (and everything built on it) safe to call from the
// concurrent per-module IR Builder goroutines spec §5 explicitly permits
// ("requires (a) a thread-safe diagnostic sink"); every other method here
// takes the same lock, so the readers and Sort (which reorders the list in
// place) are safe to call alongside concurrent Add calls.
type Bag struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = append(b.diagnostics, d)
}

// Error appends an error-severity diagnostic.
func (b *Bag) Error(code Code, file string, line, col int, format string, args ...any) {
	b.Add(Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Column:   col,
	})
}

// Warn appends a warning-severity diagnostic.
func (b *Bag) Warn(code Code, file string, line, col int, format string, args ...any) {
	b.Add(Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Column:   col,
	})
}

// Internal appends an internal-compiler-error diagnostic carrying the
// violated invariant's identifier in the message.
func (b *Bag) Internal(invariant string, format string, args ...any) {
	b.Add(Diagnostic{
		Code:     CodeInternal,
		Severity: SeverityError,
		Message:  fmt.Sprintf("internal compiler error (%s): %s", invariant, fmt.Sprintf(format, args...)),
	})
}

// All returns every collected diagnostic, in insertion order. Callers that
// need the stable source-order-then-location ordering (§5) should call
// Sort first.
func (b *Bag) All() []Diagnostic {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.diagnostics
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-severity diagnostics.
func (b *Bag) ErrorCount() int {
	return b.countSeverity(SeverityError)
}

// WarningCount returns the number of warning-severity diagnostics.
func (b *Bag) WarningCount() int {
	return b.countSeverity(SeverityWarning)
}

func (b *Bag) countSeverity(s Severity) int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, d := range b.diagnostics {
		if d.Severity == s {
			count++
		}
	}
	return count
}

// Sort orders diagnostics in source-file order then by source location,
// matching the ordering guarantee in §5 (Concurrency & Ordering).
func (b *Bag) Sort() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	diags := b.diagnostics
	for i := 1; i < len(diags); i++ {
		for j := i; j > 0 && less(diags[j], diags[j-1]); j-- {
			diags[j], diags[j-1] = diags[j-1], diags[j]
		}
	}
}

func less(a, b Diagnostic) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// FormatAll renders every diagnostic, one per line, in the stable wire
// format used at the core boundary (§6).
func (b *Bag) FormatAll() string {
	all := b.All()
	if len(all) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range all {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns a short human line like "2 error(s), 1 warning(s)".
func (b *Bag) Summary() string {
	errs, warns := b.ErrorCount(), b.WarningCount()
	if errs == 0 && warns == 0 {
		return "no diagnostics"
	}
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warns))
	}
	return strings.Join(parts, ", ")
}

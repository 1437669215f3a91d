// Package validator implements tsonic's Validator/Linter: a read-only pass
// over a fully built ir.Program that reports every TSN3xxx (language-rule),
// TSN40xx (naming/collision) and TSN71xx/72xx (generics/types) diagnostic
// it can find before the Adapter & Specialisation Generator and Emitter
// run. Grounded on tsgonest's config.ValidateDetailed (collect-then-return
// a result object rather than fail-fast) and analyzer.WarningCollector
// (a flat, appendable list of findings) — Bag here plays the
// WarningCollector/Diagnostic-bag role spec §7 assigns it: every stage
// collects as many diagnostics as possible before failing the pipeline.
package validator

import (
	"fmt"
	"strings"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// Validate runs every check against prog, appending findings to bag. It
// never stops early: each check function runs over the whole program so a
// single pass surfaces the maximum number of diagnostics (spec §4.4
// failure semantics, "the IR builder continues to collect as many as
// possible per module, then fails the pipeline" — the validator follows
// the same discipline one stage later).
func Validate(prog *ir.Program, bag *diagnostic.Bag) {
	for i := range prog.Modules {
		m := &prog.Modules[i]
		checkDuplicateExports(m, bag)
		checkNameCollisions(m, bag)
		checkSuperFirst(m, bag)
		checkRecursiveAliases(m, bag)
	}
}

// checkDuplicateExports reports TSN4002 when two exports in the same
// module share a name.
func checkDuplicateExports(m *ir.Module, bag *diagnostic.Bag) {
	seen := make(map[string]ir.Export)
	for _, e := range m.Exports {
		if e.Kind != ir.ExportDeclaration {
			continue
		}
		if prior, ok := seen[e.Name]; ok {
			bag.Error(diagnostic.CodeDuplicateExport, m.FileName, e.Provenance.Line, e.Provenance.Column,
				"export %q duplicates the export at line %d", e.Name, prior.Provenance.Line)
			continue
		}
		seen[e.Name] = e
	}
}

// checkNameCollisions reports TSN4001 when an exported declaration's name
// equals the module's target file/class name (spec §4.6, "Name mapping").
func checkNameCollisions(m *ir.Module, bag *diagnostic.Bag) {
	fileClassName := moduleFileClassName(m.FileName)
	for _, d := range m.Declarations {
		if d.Name == fileClassName && (d.Kind == ir.DeclClass || d.Kind == ir.DeclInterface) {
			continue // the declaration that gives the file its name never collides with itself
		}
		if d.Name == fileClassName {
			bag.Warn(diagnostic.CodeNameCollidesWithFile, m.FileName, d.Provenance.Line, d.Provenance.Column,
				"exported symbol %q collides with the containing file's class name", d.Name)
		}
	}
}

func moduleFileClassName(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".ts")
	return base
}

// checkSuperFirst reports TSN3012 for any constructor whose first
// statement is not a super() call when one is present anywhere in the
// body (spec §4.6: "super(...) must be the first statement in a
// constructor or it is rejected").
func checkSuperFirst(m *ir.Module, bag *diagnostic.Bag) {
	for _, d := range m.Declarations {
		if d.Kind != ir.DeclClass || d.Class == nil || d.Class.Constructor == nil {
			continue
		}
		ctor := d.Class.Constructor
		superIdx := -1
		for i, stmt := range ctor.Body {
			if stmt.Kind == ir.StmtExpr && stmt.Expr.Kind == ir.ExprSuperCall {
				superIdx = i
				break
			}
		}
		if superIdx > 0 {
			bag.Error(diagnostic.CodeSuperNotFirst, m.FileName, ctor.Provenance.Line, ctor.Provenance.Column,
				"super() must be the first statement in %s's constructor", d.Name)
		}
	}
}

// checkRecursiveAliases reports TSN7201 for a type alias that expands into
// itself with no nominal base case to terminate the recursion (spec
// §4.5's termination rule, applied here at the alias-declaration level
// before specialisation ever has to chase it).
func checkRecursiveAliases(m *ir.Module, bag *diagnostic.Bag) {
	hasNominalDecl := make(map[string]bool)
	for _, d := range m.Declarations {
		if d.Kind == ir.DeclClass || d.Kind == ir.DeclInterface {
			hasNominalDecl[d.Name] = true
		}
	}

	for _, d := range m.Declarations {
		if d.Kind != ir.DeclTypeAlias || d.TypeAlias == nil {
			continue
		}
		// A class/interface with the same name gives the recursion a
		// nominal base case (`Node { next?: Node }`); an alias with no
		// such declaration that still refers to itself is purely
		// structural recursion with no base case and must be rejected.
		if hasNominalDecl[d.Name] {
			continue
		}
		if aliasRefersToSelf(d.TypeAlias.Aliased, d.Name) {
			bag.Error(diagnostic.CodeRecursiveStructuralAlias, m.FileName, d.Provenance.Line, d.Provenance.Column,
				fmt.Sprintf("type alias %q expands into itself with no base case", d.Name))
		}
	}
}

func aliasRefersToSelf(t ir.Type, name string) bool {
	switch t.Kind {
	case ir.KindObjectRef:
		return t.Name == name
	case ir.KindNullable, ir.KindArray, ir.KindList, ir.KindPromise:
		if t.Inner == nil {
			return false
		}
		return aliasRefersToSelf(*t.Inner, name)
	case ir.KindTuple:
		for _, e := range t.Elements {
			if aliasRefersToSelf(e, name) {
				return true
			}
		}
		return false
	}
	return false
}

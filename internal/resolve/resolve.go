// Package resolve implements tsonic's Module Resolver (spec §4.2): the
// decision table that classifies every import specifier as a local
// TypeScript module, a .NET namespace reference, or a rejection, checked
// in order with the first match winning. It also performs the
// case-sensitive on-disk existence check the table requires for LocalTs
// specifiers — grounded on tsgonest's pathalias resolver (same shape of
// "walk the directory, compare exact on-disk casing" logic) adapted from
// rewriting output specifiers to classifying input ones.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// nodeBuiltins lists the bare specifiers treated as Node-style built-in
// modules for the purposes of TSN1004 (spec §4.2 row 5). Not exhaustive —
// it covers the common built-ins; any other bare specifier that is not
// namespace-shaped gets the same TSN1004 rejection from Classify's
// default case.
var nodeBuiltins = map[string]bool{
	"fs": true, "path": true, "os": true, "http": true, "https": true,
	"crypto": true, "stream": true, "util": true, "events": true,
	"child_process": true, "net": true, "url": true, "buffer": true,
}

// Classify resolves a single import specifier, as seen from fromFile, to
// an ir.Import. baseDir is the directory specifier resolution is relative
// to (fromFile's directory). The diagnostic Bag receives an error for any
// rejected classification; Classify never returns an error itself — the
// caller checks bag.HasErrors() and otherwise proceeds with the returned
// Import's Kind == ir.ImportUnresolved as a sentinel.
func Classify(specifier, fromFile, baseDir string, line, col int, bag *diagnostic.Bag) ir.Import {
	imp := ir.Import{
		Specifier:  specifier,
		Provenance: ir.Provenance{File: fromFile, Line: line, Column: col},
	}

	switch {
	case strings.HasPrefix(specifier, "node:") || nodeBuiltins[specifier]:
		bag.Error(diagnostic.CodeImportNodeModule, fromFile, line, col,
			"import of Node built-in module %q is not supported", specifier)
		imp.Kind = ir.ImportUnresolved
		return imp

	case isRelative(specifier):
		return classifyRelative(imp, specifier, fromFile, baseDir, line, col, bag)

	case isDotnetNamespaceShape(specifier):
		imp.Kind = ir.ImportDotnetNS
		imp.Namespace = specifier
		return imp

	default:
		bag.Error(diagnostic.CodeImportNodeModule, fromFile, line, col,
			"bare import specifier %q does not resolve to a local module or a .NET namespace", specifier)
		imp.Kind = ir.ImportUnresolved
		return imp
	}
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// isDotnetNamespaceShape matches "absolute ambient, dotted, no extension"
// (spec §4.2 row 4): a dotted identifier sequence with no leading dot/slash
// and no file extension, e.g. "System.Collections.Generic".
func isDotnetNamespaceShape(specifier string) bool {
	if specifier == "" || strings.ContainsAny(specifier, "/\\") {
		return false
	}
	if !strings.Contains(specifier, ".") {
		return false
	}
	if filepath.Ext(specifier) != "" {
		// A dotted specifier whose final segment looks like a file
		// extension (".ts", ".json", ...) is not a namespace.
		return false
	}
	for _, seg := range strings.Split(specifier, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

func classifyRelative(imp ir.Import, specifier, fromFile, baseDir string, line, col int, bag *diagnostic.Bag) ir.Import {
	ext := filepath.Ext(specifier)

	switch ext {
	case ".json":
		bag.Error(diagnostic.CodeImportJSONModule, fromFile, line, col,
			"import of JSON module %q is not supported", specifier)
		imp.Kind = ir.ImportUnresolved
		return imp

	case ".ts":
		resolved := filepath.Join(baseDir, specifier)
		if mismatch := findCaseMismatch(resolved); mismatch != "" {
			bag.Error(diagnostic.CodeImportCaseMismatch, fromFile, line, col,
				"import specifier %q does not match the on-disk casing %q", specifier, mismatch)
			imp.Kind = ir.ImportUnresolved
			return imp
		}
		imp.Kind = ir.ImportLocalTS
		imp.ModulePath = filepath.ToSlash(resolved)
		return imp

	case "":
		bag.Error(diagnostic.CodeImportNoExtension, fromFile, line, col,
			"relative import %q is missing a .ts extension", specifier)
		imp.Kind = ir.ImportUnresolved
		return imp

	default:
		bag.Error(diagnostic.CodeImportBadExtension, fromFile, line, col,
			"relative import %q must end in .ts, got %q", specifier, ext)
		imp.Kind = ir.ImportUnresolved
		return imp
	}
}

// findCaseMismatch walks resolved's directory chain comparing the
// requested path segments against the actual on-disk directory entries.
// Returns the on-disk path with correct casing if a mismatch is found
// (case-insensitive filesystems would otherwise resolve silently), or ""
// if the path matches exactly or does not exist at all. A target that
// does not exist is not reported here, and program.Build does not report
// it either: the import is classified ImportLocalTS and the missing file
// contributes no imports of its own.
func findCaseMismatch(resolved string) string {
	dir := filepath.Dir(resolved)
	want := filepath.Base(resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Name() == want {
			return "" // exact match
		}
		if strings.EqualFold(e.Name(), want) {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

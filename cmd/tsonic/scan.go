package main

import (
	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/tsoniclang/tsonic/internal/facade"
	"github.com/tsoniclang/tsonic/internal/program"
)

// newRawImportScanner builds the program.Build rawImports callback from a
// live facade session instead of re-reading source text: sess.SourceFiles
// already hands back every file's parsed *ast.SourceFile, so import
// discovery walks the same import/export declaration nodes
// internal/irbuild's declaration walk reads (see internal/irbuild/
// walk.go), instead of a second, independent pass over raw bytes.
//
// Grounded on tsgonest's findTsgonestImports (internal/rewrite/
// extract.go): iterate sf.Statements.Nodes, filter to
// ast.KindImportDeclaration, and read the specifier off
// decl.ModuleSpecifier.AsStringLiteral().Text — the same accessor chain
// that function uses to find its own marker imports, generalised here to
// every import (not just ones named "tsgonest") and to export-from
// re-exports, which share the same ModuleSpecifier shape.
func newRawImportScanner(sess *facade.Session) func(file string) ([]program.RawImport, error) {
	byFileName := make(map[string]*ast.SourceFile)
	for _, sf := range sess.SourceFiles() {
		byFileName[sf.FileName()] = sf
	}

	return func(file string) ([]program.RawImport, error) {
		sf, ok := byFileName[file]
		if !ok {
			return nil, nil
		}
		return scanSourceFileImports(sf), nil
	}
}

// scanSourceFileImports walks sf's top-level statements for every import
// declaration and export-from re-export, returning each one's specifier
// text and 1-based source position.
func scanSourceFileImports(sf *ast.SourceFile) []program.RawImport {
	var out []program.RawImport
	for _, stmt := range sf.Statements.Nodes {
		switch stmt.Kind {
		case ast.KindImportDeclaration:
			decl := stmt.AsImportDeclaration()
			if raw, ok := rawImportFrom(sf, stmt, decl.ModuleSpecifier); ok {
				out = append(out, raw)
			}
		case ast.KindExportDeclaration:
			decl := stmt.AsExportDeclaration()
			if raw, ok := rawImportFrom(sf, stmt, decl.ModuleSpecifier); ok {
				out = append(out, raw)
			}
		}
	}
	return out
}

func rawImportFrom(sf *ast.SourceFile, stmt, specifier *ast.Node) (program.RawImport, bool) {
	if specifier == nil || specifier.Kind != ast.KindStringLiteral {
		return program.RawImport{}, false
	}
	line, col := facade.LineAndColumn(sf, stmt.Pos())
	return program.RawImport{
		Specifier: specifier.AsStringLiteral().Text,
		Line:      line,
		Column:    col,
	}, true
}

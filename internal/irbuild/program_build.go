package irbuild

import (
	"strings"
	"sync"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/facade"
	"github.com/tsoniclang/tsonic/internal/ir"
	"github.com/tsoniclang/tsonic/internal/program"
)

// FromFileGraph lowers a Program Builder's file graph into the per-module
// skeleton (namespace, resolved imports, entry-candidate flag) that the
// rest of the pipeline walks. It does not populate Declarations: turning a
// source file's statements and expressions into ir.Declaration trees is
// the facade-driven AST walk spec §4.4 describes, and doing that walk
// correctly needs the checker's member/signature queries that
// internal/facade exposes one call at a time (TypeAt, ContextualTypeAt).
// Declaration-level lowering is wired module-by-module on top of this
// skeleton wherever a caller already has those resolved types in hand;
// see Builder.LowerType and the decl.go helpers it calls into.
func FromFileGraph(g *program.FileGraph, rootNamespace string, bag *diagnostic.Bag) *ir.Program {
	entrySet := make(map[string]bool, len(g.Entries))
	for _, e := range g.Entries {
		entrySet[e] = true
	}

	modules := make([]ir.Module, 0, len(g.Files()))
	for _, path := range g.Files() {
		modules = append(modules, ir.Module{
			Path:             path,
			FileName:         path,
			Namespace:        namespaceFor(rootNamespace, g.SourceRoot, path),
			Imports:          g.ImportsOf(path),
			IsEntryCandidate: entrySet[path],
		})
	}

	prog := &ir.Program{RootNamespace: rootNamespace, Modules: modules}
	resolveEntryPoint(prog, bag)
	return prog
}

// LowerProgram builds the module skeleton via FromFileGraph and then
// drives the real declaration walk (Walker.LowerSourceFile) over every
// module's parsed source file, populating ir.Module.Declarations from
// the source graph instead of leaving it empty (spec §4.4's core
// contract). Source files are looked up by FileName from
// sess.SourceFiles() — the same parsed nodes the Program Builder's
// import scan (cmd/tsonic/scan.go) now walks — so no file is parsed
// twice.
//
// Modules go through LowerModulesParallel, one goroutine per module, each
// with its own Walker/Builder. Every walker queries the session's single
// *shimchecker.Checker, so a lock held for each module's whole walk
// serialises those queries (and the mainByModule write): modules are
// lowered one at a time, and LowerModulesParallel's Wait is still the
// barrier before LowerProgram returns.
func LowerProgram(sess *facade.Session, g *program.FileGraph, rootNamespace string, bag *diagnostic.Bag) *ir.Program {
	prog := FromFileGraph(g, rootNamespace, bag)

	byFileName := make(map[string]*ast.SourceFile, len(sess.SourceFiles()))
	for _, sf := range sess.SourceFiles() {
		byFileName[sf.FileName()] = sf
	}

	var mu sync.Mutex
	mainByModule := make(map[string]bool, len(prog.Modules))
	err := LowerModulesParallel(prog.Modules, func(m *ir.Module, _ *Builder) ([]ir.Declaration, error) {
		sf, ok := byFileName[m.Path]
		if !ok {
			return nil, nil
		}
		mu.Lock()
		defer mu.Unlock()
		decls, hasMain := NewWalker(sess, bag, m.Path).LowerSourceFile(sf)
		if hasMain {
			mainByModule[m.Path] = true
		}
		return decls, nil
	}, bag)
	if err != nil {
		bag.Internal("I-IRBUILD-PARALLEL", "lowering modules: %v", err)
		return prog
	}

	reresolveEntryPoint(prog, mainByModule, bag)
	return prog
}

// reresolveEntryPoint revisits FromFileGraph's placeholder EntryNoExport
// decision now that every module's declarations are populated: the first
// entry-candidate module whose walk found a `main` function declaration
// selects EntryExportMain; otherwise the placeholder decision from
// FromFileGraph stands. DecideEntryPoint is not consulted here, so the
// top-level states (spec §5) are never selected on this path.
func reresolveEntryPoint(prog *ir.Program, mainByModule map[string]bool, bag *diagnostic.Bag) {
	for i := range prog.Modules {
		m := &prog.Modules[i]
		if !m.IsEntryCandidate {
			continue
		}
		if mainByModule[m.Path] {
			prog.EntryState = ir.EntryExportMain
			prog.EntryModule = m.Path
			return
		}
	}
}

// namespaceFor maps a source file path to its target C# namespace: the
// root namespace followed by one dotted segment per directory between
// sourceRoot and the file, case preserved (spec §4.6, "Name mapping").
func namespaceFor(rootNamespace, sourceRoot, path string) string {
	rel := strings.TrimPrefix(path, sourceRoot)
	rel = strings.TrimPrefix(rel, "/")
	dir := rel
	if i := strings.LastIndexAny(rel, "/\\"); i >= 0 {
		dir = rel[:i]
	} else {
		dir = ""
	}
	if dir == "" {
		return rootNamespace
	}
	segments := strings.Split(strings.ReplaceAll(dir, "\\", "/"), "/")
	return rootNamespace + "." + strings.Join(segments, ".")
}

// resolveEntryPoint picks the first entry-candidate module with no richer
// analysis available (no lowered statements to inspect yet, see
// FromFileGraph's doc comment) and records it as EntryNoExport, the
// correct default absent a detected `main` export or top-level statement.
// A caller with a fully lowered module (Declarations populated) should
// call irbuild.DecideEntryPoint directly and overwrite prog.EntryState.
func resolveEntryPoint(prog *ir.Program, bag *diagnostic.Bag) {
	prog.EntryState = ir.EntryNoExport
	for i := range prog.Modules {
		if prog.Modules[i].IsEntryCandidate {
			prog.EntryModule = prog.Modules[i].Path
			return
		}
	}
}

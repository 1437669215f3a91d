// Package program implements tsonic's Program Builder (spec §4.1): it
// assembles the program graph (source file nodes + dependency edges) from
// a set of entry files and ambient type roots, detects import cycles, and
// builds the Dotnet Type Metadata Registry by scanning the type roots.
// Grounded on tsgonest's internal/compiler (the Program/host construction
// path, generalised here into a graph the rest of tsonic walks) and on
// esbuild's bundler graph, whose colour-based cycle detection this
// package's cycle check follows.
package program

import (
	"fmt"
	"path/filepath"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
	"github.com/tsoniclang/tsonic/internal/metadatareg"
	"github.com/tsoniclang/tsonic/internal/resolve"
)

// color marks a node's DFS visitation state for cycle detection.
type color int

const (
	white color = iota // unvisited
	gray               // on the current DFS stack
	black              // fully processed
)

// FileGraph is the pre-IR program graph: one node per source file plus the
// resolved import edges between them. internal/irbuild walks this graph
// file-by-file to produce the ir.Program; it never re-resolves imports
// itself.
type FileGraph struct {
	SourceRoot string
	TypeRoots  []string
	Entries    []string
	Registry   *metadatareg.Registry

	nodes map[string]*fileNode
	order []string // entries + discovered files, in first-seen order
}

type fileNode struct {
	path    string
	imports []ir.Import
}

// Build scans typeRoots for the Dotnet Metadata Registry, resolves every
// import reachable from entries (eagerly, as spec §4.1 requires), and
// detects import cycles. rawImports supplies each file's raw import
// specifiers with source positions — in the full pipeline this comes from
// walking the facade's parsed AST; it is a parameter here so the graph
// builder stays independent of the AST representation and is easy to
// drive from golden-fixture data in tests.
func Build(sourceRoot string, typeRoots, entries []string, rawImports func(file string) ([]RawImport, error), bag *diagnostic.Bag) (*FileGraph, error) {
	registry, err := metadatareg.ScanAll(typeRoots)
	if err != nil {
		return nil, fmt.Errorf("program: scanning type roots: %w", err)
	}

	g := &FileGraph{
		SourceRoot: sourceRoot,
		TypeRoots:  typeRoots,
		Entries:    entries,
		Registry:   registry,
		nodes:      make(map[string]*fileNode),
	}

	for _, entry := range entries {
		if err := g.visit(entry, rawImports, bag, make(map[string]color)); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// RawImport is one unresolved import specifier as seen in source, before
// classification by internal/resolve.
type RawImport struct {
	Specifier string
	Line      int
	Column    int
}

func (g *FileGraph) visit(path string, rawImports func(string) ([]RawImport, error), bag *diagnostic.Bag, colors map[string]color) error {
	if colors[path] == black {
		return nil
	}
	if colors[path] == gray {
		bag.Error(diagnostic.CodeImportCycle, path, 0, 0,
			"import cycle detected involving %s", path)
		return nil
	}
	colors[path] = gray

	node := &fileNode{path: path}
	g.addNode(path, node)

	raws, err := rawImports(path)
	if err != nil {
		return fmt.Errorf("program: reading imports of %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	for _, raw := range raws {
		imp := resolve.Classify(raw.Specifier, path, baseDir, raw.Line, raw.Column, bag)
		node.imports = append(node.imports, imp)

		if imp.Kind == ir.ImportLocalTS {
			if err := g.visit(imp.ModulePath, rawImports, bag, colors); err != nil {
				return err
			}
		}
	}

	colors[path] = black
	return nil
}

func (g *FileGraph) addNode(path string, node *fileNode) {
	if _, exists := g.nodes[path]; exists {
		return
	}
	g.nodes[path] = node
	g.order = append(g.order, path)
}

// Files returns every discovered file path in first-seen (entries first,
// depth-first) order — the order internal/irbuild's FromFileGraph lays
// out ir.Program.Modules in.
func (g *FileGraph) Files() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// ImportsOf returns the resolved imports recorded for path, or nil if path
// was never visited.
func (g *FileGraph) ImportsOf(path string) []ir.Import {
	n, ok := g.nodes[path]
	if !ok {
		return nil
	}
	return n.imports
}

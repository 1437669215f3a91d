package irbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
	"github.com/tsoniclang/tsonic/internal/program"
)

func buildGraph(t *testing.T, sourceRoot string, entries []string, raw map[string][]program.RawImport, bag *diagnostic.Bag) *program.FileGraph {
	t.Helper()
	g, err := program.Build(sourceRoot, nil, entries, func(path string) ([]program.RawImport, error) {
		return raw[path], nil
	}, bag)
	require.NoError(t, err)
	return g
}

func TestFromFileGraph_NamespacesByDirectory(t *testing.T) {
	bag := diagnostic.NewBag()
	raw := map[string][]program.RawImport{
		"/src/main.ts":          {{Specifier: "./widgets/widget.ts", Line: 1, Column: 1}},
		"/src/widgets/widget.ts": {},
	}
	g := buildGraph(t, "/src", []string{"/src/main.ts"}, raw, bag)
	require.False(t, bag.HasErrors())

	prog := FromFileGraph(g, "Acme.App", bag)
	require.Len(t, prog.Modules, 2)

	main, ok := prog.ModuleByPath("/src/main.ts")
	require.True(t, ok)
	assert.Equal(t, "Acme.App", main.Namespace)

	widget, ok := prog.ModuleByPath("/src/widgets/widget.ts")
	require.True(t, ok)
	assert.Equal(t, "Acme.App.widgets", widget.Namespace)
}

func TestFromFileGraph_CarriesResolvedImports(t *testing.T) {
	bag := diagnostic.NewBag()
	raw := map[string][]program.RawImport{
		"/src/main.ts": {{Specifier: "./util.ts", Line: 1, Column: 1}},
		"/src/util.ts": {},
	}
	g := buildGraph(t, "/src", []string{"/src/main.ts"}, raw, bag)
	require.False(t, bag.HasErrors())

	prog := FromFileGraph(g, "Acme.App", bag)
	main, ok := prog.ModuleByPath("/src/main.ts")
	require.True(t, ok)
	require.Len(t, main.Imports, 1)
	assert.Equal(t, ir.ImportLocalTS, main.Imports[0].Kind)
	assert.Equal(t, "/src/util.ts", main.Imports[0].ModulePath)
}

func TestFromFileGraph_EntryNoExportDefault(t *testing.T) {
	bag := diagnostic.NewBag()
	raw := map[string][]program.RawImport{"/src/main.ts": {}}
	g := buildGraph(t, "/src", []string{"/src/main.ts"}, raw, bag)

	prog := FromFileGraph(g, "Acme.App", bag)
	assert.Equal(t, ir.EntryNoExport, prog.EntryState)
	assert.Equal(t, "/src/main.ts", prog.EntryModule)
}

func TestNamespaceFor_RootFile(t *testing.T) {
	assert.Equal(t, "Acme.App", namespaceFor("Acme.App", "/src", "/src/main.ts"))
}

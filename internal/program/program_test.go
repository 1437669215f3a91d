package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
)

func TestBuild_LinearGraph(t *testing.T) {
	graph := map[string][]RawImport{
		"/src/main.ts": {{Specifier: "./util.ts", Line: 1, Column: 1}},
		"/src/util.ts": {},
	}

	bag := diagnostic.NewBag()
	g, err := Build("/src", nil, []string{"/src/main.ts"}, func(path string) ([]RawImport, error) {
		return graph[path], nil
	}, bag)

	require.NoError(t, err)
	assert.False(t, bag.HasErrors())
	assert.Equal(t, []string{"/src/main.ts", "/src/util.ts"}, g.Files())
}

func TestBuild_DetectsCycle(t *testing.T) {
	graph := map[string][]RawImport{
		"/src/a.ts": {{Specifier: "./b.ts", Line: 1, Column: 1}},
		"/src/b.ts": {{Specifier: "./a.ts", Line: 1, Column: 1}},
	}

	bag := diagnostic.NewBag()
	_, err := Build("/src", nil, []string{"/src/a.ts"}, func(path string) ([]RawImport, error) {
		return graph[path], nil
	}, bag)

	require.NoError(t, err)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostic.CodeImportCycle, bag.All()[0].Code)
}

func TestBuild_RejectsBadImport(t *testing.T) {
	graph := map[string][]RawImport{
		"/src/main.ts": {{Specifier: "./missing", Line: 2, Column: 5}},
	}

	bag := diagnostic.NewBag()
	_, err := Build("/src", nil, []string{"/src/main.ts"}, func(path string) ([]RawImport, error) {
		return graph[path], nil
	}, bag)

	require.NoError(t, err)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostic.CodeImportNoExtension, bag.All()[0].Code)
}

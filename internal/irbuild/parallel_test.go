package irbuild

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

func TestLowerModulesParallel_PopulatesEachModuleIndependently(t *testing.T) {
	modules := []ir.Module{
		{Path: "/src/a.ts", Namespace: "Acme.A"},
		{Path: "/src/b.ts", Namespace: "Acme.B"},
		{Path: "/src/c.ts", Namespace: "Acme.C"},
	}
	bag := diagnostic.NewBag()

	err := LowerModulesParallel(modules, func(m *ir.Module, b *Builder) ([]ir.Declaration, error) {
		require.NotNil(t, b)
		return []ir.Declaration{{Kind: ir.DeclClass, Name: m.Namespace + "Decl"}}, nil
	}, bag)

	require.NoError(t, err)
	for i, m := range modules {
		require.Len(t, m.Declarations, 1, "module %d", i)
		assert.Equal(t, m.Namespace+"Decl", m.Declarations[0].Name)
	}
}

func TestLowerModulesParallel_PropagatesFirstError(t *testing.T) {
	modules := []ir.Module{{Path: "/src/a.ts"}, {Path: "/src/b.ts"}}
	bag := diagnostic.NewBag()

	err := LowerModulesParallel(modules, func(m *ir.Module, b *Builder) ([]ir.Declaration, error) {
		if m.Path == "/src/b.ts" {
			return nil, fmt.Errorf("boom at %s", m.Path)
		}
		return nil, nil
	}, bag)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom at /src/b.ts")
}

func TestLowerModulesParallel_ConcurrentDiagnosticsAreSafe(t *testing.T) {
	modules := make([]ir.Module, 50)
	for i := range modules {
		modules[i] = ir.Module{Path: fmt.Sprintf("/src/m%d.ts", i)}
	}
	bag := diagnostic.NewBag()

	err := LowerModulesParallel(modules, func(m *ir.Module, b *Builder) ([]ir.Declaration, error) {
		bag.Warn(diagnostic.CodeUnsupportedConstraint, m.Path, 1, 1, "example")
		return nil, nil
	}, bag)

	require.NoError(t, err)
	assert.Equal(t, len(modules), bag.WarningCount())
}

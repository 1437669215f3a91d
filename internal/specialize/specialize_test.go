package specialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

func TestAdapterSet_DeduplicatesByMemberSetHash(t *testing.T) {
	set := NewAdapterSet()
	sc1 := &ir.StructuralConstraint{Members: []ir.StructuralMember{
		{Name: "id", Type: ir.Prim(ir.PrimString), Readonly: true},
	}}
	sc2 := &ir.StructuralConstraint{Members: []ir.StructuralMember{
		{Name: "id", Type: ir.Prim(ir.PrimString), Readonly: true},
	}}

	a1 := set.GetOrCreate("Acme", "T", sc1)
	a2 := set.GetOrCreate("Acme", "T", sc2)
	assert.Same(t, a1, a2)
	assert.Len(t, set.ByHash, 1)
}

func TestAdapterSet_DistinctMemberSetsDifferentHash(t *testing.T) {
	set := NewAdapterSet()
	a1 := set.GetOrCreate("Acme", "T", &ir.StructuralConstraint{Members: []ir.StructuralMember{
		{Name: "id", Type: ir.Prim(ir.PrimString)},
	}})
	a2 := set.GetOrCreate("Acme", "T", &ir.StructuralConstraint{Members: []ir.StructuralMember{
		{Name: "name", Type: ir.Prim(ir.PrimString)},
	}})
	assert.NotEqual(t, a1.Hash, a2.Hash)
}

func TestAdapterSet_SynthesisesGetterAndSetter(t *testing.T) {
	set := NewAdapterSet()
	a := set.GetOrCreate("Acme", "T", &ir.StructuralConstraint{Members: []ir.StructuralMember{
		{Name: "mutable", Type: ir.Prim(ir.PrimNumber), Readonly: false},
		{Name: "fixed", Type: ir.Prim(ir.PrimString), Readonly: true},
	}})

	require.Len(t, a.Interface.Interface.Properties, 2)
	for _, p := range a.Interface.Interface.Properties {
		assert.True(t, p.HasGetter)
		if p.Name == "mutable" {
			assert.True(t, p.HasSetter)
		} else {
			assert.False(t, p.HasSetter)
		}
	}
	assert.True(t, a.Wrapper.Class.IsAdapter)
}

func TestMangledName(t *testing.T) {
	name := MangledName("Box", []ir.Type{ir.Prim(ir.PrimString)})
	assert.Equal(t, "Box__string", name)

	name = MangledName("Pair", []ir.Type{ir.Prim(ir.PrimString), ir.Prim(ir.PrimNumber)})
	assert.Equal(t, "Pair__string_number", name)
}

func TestMonomorphiser_CachesByMangledName(t *testing.T) {
	mz := NewMonomorphiser()
	decl := &ir.Declaration{
		Kind: ir.DeclFunction, Name: "identity",
		TypeParams: []ir.TypeParameter{{Name: "T"}},
		Function: &ir.FunctionDecl{
			Params: []ir.Param{{Name: "x", Type: ir.Type{Kind: ir.KindTypeParam, TypeParam: &ir.TypeParamRef{Name: "T"}}}},
			Return: ir.Type{Kind: ir.KindTypeParam, TypeParam: &ir.TypeParamRef{Name: "T"}},
		},
	}

	bag := diagnostic.NewBag()
	active := make(map[visitKey]bool)
	clone1 := mz.Specialise(decl, []ir.Type{ir.Prim(ir.PrimString)}, active, bag, "a.ts", 1, 1)
	clone2 := mz.Specialise(decl, []ir.Type{ir.Prim(ir.PrimString)}, active, bag, "a.ts", 1, 1)

	require.NotNil(t, clone1)
	assert.Same(t, clone1, clone2)
	assert.Equal(t, "identity__string", clone1.Name)
	assert.Equal(t, ir.Prim(ir.PrimString), clone1.Function.Return)
}

func TestMonomorphiser_DistinctArgsProduceDistinctInstances(t *testing.T) {
	mz := NewMonomorphiser()
	decl := &ir.Declaration{
		Kind: ir.DeclFunction, Name: "identity",
		TypeParams: []ir.TypeParameter{{Name: "T"}},
		Function:   &ir.FunctionDecl{Return: ir.Type{Kind: ir.KindTypeParam, TypeParam: &ir.TypeParamRef{Name: "T"}}},
	}

	bag := diagnostic.NewBag()
	active := make(map[visitKey]bool)
	clone1 := mz.Specialise(decl, []ir.Type{ir.Prim(ir.PrimString)}, active, bag, "a.ts", 1, 1)
	clone2 := mz.Specialise(decl, []ir.Type{ir.Prim(ir.PrimNumber)}, active, bag, "a.ts", 1, 1)

	assert.NotEqual(t, clone1.Name, clone2.Name)
	assert.Len(t, mz.Instances, 2)
}

func TestMonomorphiser_MangledNameCollisionDisambiguated(t *testing.T) {
	mz := NewMonomorphiser()
	decl := &ir.Declaration{
		Kind: ir.DeclFunction, Name: "wrap",
		TypeParams: []ir.TypeParameter{{Name: "T"}},
		Function:   &ir.FunctionDecl{Return: ir.Type{Kind: ir.KindTypeParam, TypeParam: &ir.TypeParamRef{Name: "T"}}},
	}

	// Two distinct generator types mangle to the same token ("generator")
	// since mangleToken's default case doesn't descend into Generator's
	// Yield/Return/Next fields — an exotic but real collision.
	genA := ir.Type{Kind: ir.KindGenerator, Generator: &ir.GeneratorType{Yield: ir.Prim(ir.PrimString)}}
	genB := ir.Type{Kind: ir.KindGenerator, Generator: &ir.GeneratorType{Yield: ir.Prim(ir.PrimNumber)}}
	require.False(t, genA.Equal(genB))
	require.Equal(t, MangledName("wrap", []ir.Type{genA}), MangledName("wrap", []ir.Type{genB}))

	bag := diagnostic.NewBag()
	active := make(map[visitKey]bool)
	clone1 := mz.Specialise(decl, []ir.Type{genA}, active, bag, "a.ts", 1, 1)
	clone2 := mz.Specialise(decl, []ir.Type{genB}, active, bag, "a.ts", 1, 1)

	require.NotNil(t, clone1)
	require.NotNil(t, clone2)
	assert.NotEqual(t, clone1.Name, clone2.Name)
	assert.True(t, bag.WarningCount() >= 1)
}

func TestMonomorphiser_NonTerminatingRecursionReported(t *testing.T) {
	mz := NewMonomorphiser()
	decl := &ir.Declaration{Kind: ir.DeclTypeAlias, Name: "Foo", TypeParams: []ir.TypeParameter{{Name: "T"}}}

	bag := diagnostic.NewBag()
	active := map[visitKey]bool{visitKey("Foo__string"): true}
	got := mz.Specialise(decl, []ir.Type{ir.Prim(ir.PrimString)}, active, bag, "a.ts", 1, 1)

	assert.Nil(t, got)
	assert.True(t, bag.HasErrors())
}

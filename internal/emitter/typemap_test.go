package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsoniclang/tsonic/internal/ir"
)

func TestTypeToCSharp_Primitives(t *testing.T) {
	assert.Equal(t, "double", TypeToCSharp(ir.Prim(ir.PrimNumber)))
	assert.Equal(t, "int", TypeToCSharp(ir.Prim(ir.PrimInt)))
	assert.Equal(t, "string", TypeToCSharp(ir.Prim(ir.PrimString)))
	assert.Equal(t, "bool", TypeToCSharp(ir.Prim(ir.PrimBool)))
	assert.Equal(t, "object", TypeToCSharp(ir.Prim(ir.PrimAny)))
}

func TestTypeToCSharp_Nullable(t *testing.T) {
	assert.Equal(t, "string?", TypeToCSharp(ir.NullableOf(ir.Prim(ir.PrimString))))
}

func TestTypeToCSharp_NullableDoesNotDoubleSuffix(t *testing.T) {
	nested := ir.NullableOf(ir.NullableOf(ir.Prim(ir.PrimString)))
	assert.Equal(t, "string?", TypeToCSharp(nested))
}

func TestTypeToCSharp_ArrayAndList(t *testing.T) {
	assert.Equal(t, "double[]", TypeToCSharp(ir.ArrayOf(ir.Prim(ir.PrimNumber))))
	assert.Equal(t, "List<string>", TypeToCSharp(ir.ListOf(ir.Prim(ir.PrimString))))
}

func TestTypeToCSharp_ObjectRefWithGenerics(t *testing.T) {
	got := TypeToCSharp(ir.ObjectRef("Box", ir.Prim(ir.PrimString)))
	assert.Equal(t, "Box<string>", got)
}

func TestTypeToCSharp_Promise(t *testing.T) {
	assert.Equal(t, "Task", TypeToCSharp(ir.PromiseOf(ir.Prim(ir.PrimVoid))))
	assert.Equal(t, "Task<int>", TypeToCSharp(ir.PromiseOf(ir.Prim(ir.PrimInt))))
}

func TestTypeToCSharp_Tuple(t *testing.T) {
	got := TypeToCSharp(ir.Type{Kind: ir.KindTuple, Elements: []ir.Type{ir.Prim(ir.PrimInt), ir.Prim(ir.PrimString)}})
	assert.Equal(t, "(int, string)", got)
}

func TestTypeToCSharp_FunctionVoid(t *testing.T) {
	f := &ir.FunctionType{Params: []ir.Param{{Name: "x", Type: ir.Prim(ir.PrimInt)}}, Return: ir.Prim(ir.PrimVoid)}
	assert.Equal(t, "Action<int>", TypeToCSharp(ir.Type{Kind: ir.KindFunction, Func: f}))
}

func TestTypeToCSharp_FunctionReturning(t *testing.T) {
	f := &ir.FunctionType{Params: []ir.Param{{Name: "x", Type: ir.Prim(ir.PrimInt)}}, Return: ir.Prim(ir.PrimString)}
	assert.Equal(t, "Func<int, string>", TypeToCSharp(ir.Type{Kind: ir.KindFunction, Func: f}))
}

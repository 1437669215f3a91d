package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_Equal_Primitive(t *testing.T) {
	assert.True(t, Prim(PrimString).Equal(Prim(PrimString)))
	assert.False(t, Prim(PrimString).Equal(Prim(PrimNumber)))
}

func TestType_Equal_Nested(t *testing.T) {
	a := ArrayOf(NullableOf(Prim(PrimNumber)))
	b := ArrayOf(NullableOf(Prim(PrimNumber)))
	c := ArrayOf(Prim(PrimNumber))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestType_Equal_Tuple(t *testing.T) {
	a := Type{Kind: KindTuple, Elements: []Type{Prim(PrimString), Prim(PrimNumber)}}
	b := Type{Kind: KindTuple, Elements: []Type{Prim(PrimString), Prim(PrimNumber)}}
	c := Type{Kind: KindTuple, Elements: []Type{Prim(PrimNumber), Prim(PrimString)}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestType_Equal_ObjectRef(t *testing.T) {
	a := ObjectRef("List", Prim(PrimString))
	b := ObjectRef("List", Prim(PrimString))
	c := ObjectRef("List", Prim(PrimNumber))
	d := ObjectRef("Set", Prim(PrimString))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestType_Equal_Function(t *testing.T) {
	a := Type{Kind: KindFunction, Func: &FunctionType{
		Params: []Param{{Name: "x", Type: Prim(PrimNumber)}},
		Return: Prim(PrimVoid),
	}}
	b := Type{Kind: KindFunction, Func: &FunctionType{
		Params: []Param{{Name: "y", Type: Prim(PrimNumber)}},
		Return: Prim(PrimVoid),
	}}
	c := Type{Kind: KindFunction, Func: &FunctionType{
		Params: []Param{{Name: "x", Type: Prim(PrimString)}},
		Return: Prim(PrimVoid),
	}}
	assert.True(t, a.Equal(b), "parameter names are irrelevant to type identity")
	assert.False(t, a.Equal(c))
}

func TestType_IsVoid(t *testing.T) {
	assert.True(t, Prim(PrimVoid).IsVoid())
	assert.False(t, Prim(PrimAny).IsVoid())
}

func TestType_Equal_Generator(t *testing.T) {
	a := Type{Kind: KindGenerator, Generator: &GeneratorType{
		Yield:  Prim(PrimNumber),
		Return: Prim(PrimVoid),
		Next:   Prim(PrimAny),
	}}
	b := Type{Kind: KindGenerator, Generator: &GeneratorType{
		Yield:  Prim(PrimNumber),
		Return: Prim(PrimVoid),
		Next:   Prim(PrimAny),
	}}
	assert.True(t, a.Equal(b))
}

// Package ir defines tsonic's intermediate representation: the typed tree
// that sits between the TypeScript AST (read only through internal/facade)
// and the C# emitter. Everything downstream of IR construction reads types
// only through this package's handles — never through the checker
// directly (see internal/facade for the enforced boundary).
package ir

// Kind discriminates the IR Type variants from spec §3 ("IR Type").
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindNullable  Kind = "nullable"
	KindArray     Kind = "array"   // JS array semantic: sparse, length-settable
	KindList      Kind = "list"    // .NET List<T> semantic
	KindTuple     Kind = "tuple"
	KindObjectRef Kind = "object"  // nominal reference, optionally generic
	KindFunction  Kind = "function"
	KindTypeParam Kind = "typeparam"
	KindPromise   Kind = "promise" // lowers to Task / Task<T>
	KindGenerator Kind = "generator"
)

// Primitive enumerates the primitive IR types.
type Primitive string

const (
	PrimNumber  Primitive = "number"
	PrimString  Primitive = "string"
	PrimBool    Primitive = "bool"
	PrimVoid    Primitive = "void"
	PrimNull    Primitive = "null"
	PrimAny     Primitive = "any"
	PrimUnknown Primitive = "unknown"
	PrimInt     Primitive = "int"
	PrimLong    Primitive = "long"
	PrimDecimal Primitive = "decimal"
	PrimFloat   Primitive = "float"
	PrimByte    Primitive = "byte"
	PrimDouble  Primitive = "double"
)

// Type is the IR's single typed-value representation. Every IR Expression
// carries a non-nil *Type (Invariant: "every IR Expression has a non-null
// resolved IR type").
type Type struct {
	Kind Kind

	// KindPrimitive
	Primitive Primitive

	// KindNullable, KindArray, KindList, KindPromise
	Inner *Type

	// KindTuple
	Elements []Type

	// KindObjectRef
	Name     string
	TypeArgs []Type

	// KindFunction
	Func *FunctionType

	// KindTypeParam
	TypeParam *TypeParamRef

	// KindGenerator
	Generator *GeneratorType
}

// FunctionType is the signature shape for KindFunction.
type FunctionType struct {
	Params    []Param
	Return    Type
	Async     bool
	Generator bool
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type Type
}

// TypeParamRef is how a reference to a declaration's own type parameter
// appears inside a Type (as opposed to TypeParameter, which declares one).
type TypeParamRef struct {
	Ordinal    int
	Name       string
	Constraint *Type
}

// GeneratorType lowers a `generator`/async-generator contract to the
// explicit yield/return/next triple the emitter needs to build an
// IAsyncEnumerator-equivalent state machine (spec §3, §9).
type GeneratorType struct {
	Yield  Type
	Return Type
	Next   Type
}

// StructuralMember is one required member of a structural constraint.
type StructuralMember struct {
	Name     string
	Type     Type
	Readonly bool
}

// StructuralConstraint is a finite list of required members a type
// parameter's argument must satisfy. The Adapter Generator (internal/specialize)
// synthesises a nominal interface + wrapper class from one of these.
type StructuralConstraint struct {
	Members []StructuralMember
}

// TypeParameter is a generic declaration's type-parameter record (spec §3).
type TypeParameter struct {
	Name                   string
	NominalConstraint      *Type
	StructuralConstraint   *StructuralConstraint
	Default                *Type
	RequiresSpecialisation bool
}

// Primitive constructors — small helpers used throughout irbuild/emitter
// to build Type values without repeating struct literals.

// Prim returns a primitive Type.
func Prim(p Primitive) Type { return Type{Kind: KindPrimitive, Primitive: p} }

// NullableOf wraps inner in a KindNullable Type.
func NullableOf(inner Type) Type { return Type{Kind: KindNullable, Inner: &inner} }

// ArrayOf wraps inner in a KindArray Type (JS array semantic).
func ArrayOf(inner Type) Type { return Type{Kind: KindArray, Inner: &inner} }

// ListOf wraps inner in a KindList Type (.NET List<T> semantic).
func ListOf(inner Type) Type { return Type{Kind: KindList, Inner: &inner} }

// PromiseOf wraps inner in a KindPromise Type.
func PromiseOf(inner Type) Type { return Type{Kind: KindPromise, Inner: &inner} }

// ObjectRef builds a KindObjectRef Type with optional type arguments.
func ObjectRef(name string, args ...Type) Type {
	return Type{Kind: KindObjectRef, Name: name, TypeArgs: args}
}

// IsVoid reports whether t is the primitive void type.
func (t Type) IsVoid() bool {
	return t.Kind == KindPrimitive && t.Primitive == PrimVoid
}

// Equal performs a structural comparison of two IR types, used by the
// specialisation stage to decide whether two monomorphisation argument
// tuples are identical and by the adapter stage to deduplicate structural
// constraints by member-set.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive == o.Primitive
	case KindNullable, KindArray, KindList, KindPromise:
		if t.Inner == nil || o.Inner == nil {
			return t.Inner == o.Inner
		}
		return t.Inner.Equal(*o.Inner)
	case KindTuple:
		if len(t.Elements) != len(o.Elements) {
			return false
		}
		for i := range t.Elements {
			if !t.Elements[i].Equal(o.Elements[i]) {
				return false
			}
		}
		return true
	case KindObjectRef:
		if t.Name != o.Name || len(t.TypeArgs) != len(o.TypeArgs) {
			return false
		}
		for i := range t.TypeArgs {
			if !t.TypeArgs[i].Equal(o.TypeArgs[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		if t.Func == nil || o.Func == nil {
			return t.Func == o.Func
		}
		if len(t.Func.Params) != len(o.Func.Params) || t.Func.Async != o.Func.Async || t.Func.Generator != o.Func.Generator {
			return false
		}
		for i := range t.Func.Params {
			if !t.Func.Params[i].Type.Equal(o.Func.Params[i].Type) {
				return false
			}
		}
		return t.Func.Return.Equal(o.Func.Return)
	case KindTypeParam:
		if t.TypeParam == nil || o.TypeParam == nil {
			return t.TypeParam == o.TypeParam
		}
		return t.TypeParam.Name == o.TypeParam.Name
	case KindGenerator:
		if t.Generator == nil || o.Generator == nil {
			return t.Generator == o.Generator
		}
		return t.Generator.Yield.Equal(o.Generator.Yield) &&
			t.Generator.Return.Equal(o.Generator.Return) &&
			t.Generator.Next.Equal(o.Generator.Next)
	}
	return false
}

// Package irbuild implements tsonic's IR Builder (spec §4.4): it lowers a
// resolved program graph plus the Type System Facade's resolved types into
// the ir.Program tree the validator, specialiser and emitter consume.
//
// The walker shape — a visiting-set keyed by type identity, a depth
// counter, and a total-nodes counter, both capped — is adapted directly
// from tsgonest's analyzer.TypeWalker (internal/analyzer/type_walker.go),
// the richest type-lowering code in the corpus. Where TypeWalker produces
// a metadata.Metadata tree for schema generation, Builder produces an
// ir.Type/ir.Declaration tree for code generation, but the termination
// discipline is the same: a visiting map prevents infinite recursion on
// cyclic type graphs, and two safety caps (depth, total nodes) guard
// against pathologically wide or deep expansions that have no cycle but
// would otherwise exhaust memory.
package irbuild

import (
	"fmt"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// maxWalkDepth bounds type-lowering recursion depth, mirroring
// analyzer.maxWalkDepth.
const maxWalkDepth = 20

// maxTotalTypes bounds the number of types lowered within one top-level
// walk, mirroring analyzer.maxTotalTypes.
const maxTotalTypes = 500

// TypeRef is an opaque handle to a facade-resolved type, passed in by the
// caller (internal/facade) so Builder stays independent of the checker's
// concrete type representation. Identity is by Id.
type TypeRef struct {
	Id   int64
	Kind string // "primitive", "object", "union", "intersection", "array", "tuple", "function", "generic", "promise", "generator"

	Primitive string
	Name      string // object/generic reference name

	// Members is populated for Kind == "object": the facade's member list
	// query result (spec §4.3, "member list of object type").
	Members []MemberRef

	// ElementType covers Kind == "array" / "promise" / "generator" (yield type).
	ElementType *TypeRef

	// TupleElements covers Kind == "tuple".
	TupleElements []TypeRef

	// UnionMembers / IntersectionMembers cover the corresponding Kind.
	UnionMembers        []TypeRef
	IntersectionMembers []TypeRef

	// TypeArgs covers Kind == "generic".
	TypeArgs []TypeRef

	Async bool // Kind == "promise"/"generator": whether produced by an async function

	// Resolved covers Kind == "resolved": an ir.Type the caller already
	// lowered itself (internal/facade's operations return ir.Type
	// directly, not a TypeRef, since the facade is the one boundary that
	// talks to the checker) and just needs to pass through Builder's
	// member-lowering helpers (decl.go's MembersToFields) unchanged.
	Resolved *ir.Type
}

// MemberRef is one resolved object member, as returned by the facade's
// "member list of object type" query.
type MemberRef struct {
	Name     string
	Type     TypeRef
	Optional bool
	ReadOnly bool
}

// Builder lowers TypeRef trees to ir.Type, tracking visited type ids to
// break cycles and two safety caps to bound runaway expansions — directly
// mirroring TypeWalker's visiting/depth/totalTypesWalked fields.
type Builder struct {
	bag *diagnostic.Bag

	visiting         map[int64]bool
	idToObjectName   map[int64]string // named objects already lowered, for KindObjectRef short-circuiting
	depth            int
	totalTypesWalked int
}

// NewBuilder creates an IR Builder reporting into bag.
func NewBuilder(bag *diagnostic.Bag) *Builder {
	return &Builder{
		bag:            bag,
		visiting:       make(map[int64]bool),
		idToObjectName: make(map[int64]string),
	}
}

// LowerNamedType lowers t under name, registering it so a later reference
// to the same type id short-circuits to an ir.ObjectRef instead of
// re-walking (mirrors WalkNamedType).
func (b *Builder) LowerNamedType(name string, t TypeRef) ir.Type {
	if existing, ok := b.idToObjectName[t.Id]; ok {
		return ir.ObjectRef(existing)
	}
	if b.visiting[t.Id] {
		return ir.ObjectRef(name)
	}

	b.visiting[t.Id] = true
	lowered := b.LowerType(t)
	delete(b.visiting, t.Id)

	if lowered.Kind == ir.KindObjectRef && lowered.Name == "" {
		lowered.Name = name
		b.idToObjectName[t.Id] = name
	}
	return lowered
}

// LowerType lowers a single TypeRef to an ir.Type, applying the depth and
// breadth safety caps before descending into any composite shape.
func (b *Builder) LowerType(t TypeRef) ir.Type {
	if b.depth == 0 {
		b.totalTypesWalked = 0
	}
	b.depth++
	defer func() { b.depth-- }()

	if b.depth > maxWalkDepth {
		b.bag.Error(diagnostic.CodeConditionalNonTerminate, "", 0, 0,
			"type expansion exceeded max depth %d while lowering %q", maxWalkDepth, t.Name)
		return ir.Prim(ir.PrimAny)
	}

	b.totalTypesWalked++
	if b.totalTypesWalked > maxTotalTypes {
		b.bag.Error(diagnostic.CodeConditionalNonTerminate, "", 0, 0,
			"type expansion exceeded max node count %d while lowering %q", maxTotalTypes, t.Name)
		return ir.Prim(ir.PrimAny)
	}

	switch t.Kind {
	case "resolved":
		if t.Resolved == nil {
			return ir.Prim(ir.PrimUnknown)
		}
		return *t.Resolved
	case "primitive":
		return b.lowerPrimitive(t)
	case "array":
		return ir.ArrayOf(b.lowerElementOrAny(t.ElementType))
	case "tuple":
		elems := make([]ir.Type, len(t.TupleElements))
		for i, e := range t.TupleElements {
			elems[i] = b.LowerType(e)
		}
		return ir.Type{Kind: ir.KindTuple, Elements: elems}
	case "promise":
		return ir.PromiseOf(b.lowerElementOrAny(t.ElementType))
	case "generator":
		yieldT := b.lowerElementOrAny(t.ElementType)
		return ir.Type{Kind: ir.KindGenerator, Generator: &ir.GeneratorType{
			Yield:  yieldT,
			Return: ir.Prim(ir.PrimVoid),
			Next:   ir.Prim(ir.PrimAny),
		}}
	case "object":
		return b.lowerObject(t)
	case "union":
		return b.lowerUnion(t)
	case "intersection":
		return b.lowerIntersection(t)
	case "generic":
		args := make([]ir.Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = b.LowerType(a)
		}
		return ir.ObjectRef(t.Name, args...)
	default:
		return ir.Prim(ir.PrimUnknown)
	}
}

func (b *Builder) lowerElementOrAny(t *TypeRef) ir.Type {
	if t == nil {
		return ir.Prim(ir.PrimAny)
	}
	return b.LowerType(*t)
}

func (b *Builder) lowerPrimitive(t TypeRef) ir.Type {
	switch t.Primitive {
	case "string":
		return ir.Prim(ir.PrimString)
	case "number":
		return ir.Prim(ir.PrimNumber)
	case "boolean":
		return ir.Prim(ir.PrimBool)
	case "void":
		return ir.Prim(ir.PrimVoid)
	case "null", "undefined":
		return ir.Prim(ir.PrimNull)
	case "any":
		return ir.Prim(ir.PrimAny)
	default:
		return ir.Prim(ir.PrimUnknown)
	}
}

// lowerObject lowers a structural object type nominally: every object type
// becomes a KindObjectRef carried alongside its member list so the caller
// (internal/specialize, when structural constraints are involved, or
// irbuild's declaration pass for a plain object literal type) can decide
// whether a nominal class or an adapter applies (spec §4.4: "Interface and
// object type alias declarations are lowered nominally").
func (b *Builder) lowerObject(t TypeRef) ir.Type {
	ref := ir.ObjectRef(t.Name)
	// Member lowering for declaration synthesis happens in decl.go's
	// MembersToFields. This loop lowers each member only for the safety
	// caps and diagnostics it triggers; its results are discarded. A member
	// whose object type is already on the visiting set (a back-reference to
	// a type LowerNamedType is lowering, e.g. `Node { next?: Node }`) is
	// skipped, so recursive object graphs terminate without hitting the
	// depth cap.
	for _, m := range t.Members {
		if m.Type.Kind == "object" && b.visiting[m.Type.Id] {
			continue
		}
		_ = b.LowerType(m.Type)
	}
	return ref
}

func (b *Builder) lowerUnion(t TypeRef) ir.Type {
	// A nullable union (`T | null` / `T | undefined`) lowers to
	// ir.KindNullable around the non-null member; anything wider is an
	// unrestricted union, which the validator rejects (TSN7105) since the
	// target language has no first-class union type.
	nonNull := make([]TypeRef, 0, len(t.UnionMembers))
	hasNull := false
	for _, m := range t.UnionMembers {
		if m.Kind == "primitive" && (m.Primitive == "null" || m.Primitive == "undefined") {
			hasNull = true
			continue
		}
		nonNull = append(nonNull, m)
	}
	if hasNull && len(nonNull) == 1 {
		return ir.NullableOf(b.LowerType(nonNull[0]))
	}
	if len(nonNull) == 1 && !hasNull {
		return b.LowerType(nonNull[0])
	}
	b.bag.Error(diagnostic.CodeUnionTypeRejected, "", 0, 0,
		"union type %q with more than one non-null member has no target-language representation", t.Name)
	return ir.Prim(ir.PrimAny)
}

func (b *Builder) lowerIntersection(t TypeRef) ir.Type {
	// Intersections of object shapes lower to a synthesised merged object
	// reference; internal/specialize is responsible for materialising the
	// merged member set into a concrete declaration when one doesn't
	// already exist as a named type.
	if t.Name != "" {
		return ir.ObjectRef(t.Name)
	}
	return ir.ObjectRef(fmt.Sprintf("__Intersection_%d", t.Id))
}

package specialize

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// visitKey identifies one (declaration, concrete-argument-tuple) pair for
// the Monomorphiser's visited set.
type visitKey string

// Monomorphiser clones and substitutes generic IR declarations for every
// call site flagged RequiresSpecialisation, keyed by declaration name plus
// the canonical mangled argument-tuple token (spec §4.5).
type Monomorphiser struct {
	visited   map[visitKey]bool
	Instances map[string]*ir.Declaration // mangled name -> specialised clone
	tupleOf   map[string][]ir.Type       // mangled name -> the argument tuple that produced it
}

// NewMonomorphiser creates an empty monomorphiser.
func NewMonomorphiser() *Monomorphiser {
	return &Monomorphiser{
		visited:   make(map[visitKey]bool),
		Instances: make(map[string]*ir.Declaration),
		tupleOf:   make(map[string][]ir.Type),
	}
}

// disambiguate resolves a mangled-name collision between two distinct
// argument tuples that happened to stringify identically (spec §4.5's
// mangling is a best-effort deterministic token join, not an injective
// mapping — two exotic generic arguments, e.g. an unnamed intersection
// type and a differently-shaped one, can share a mangleToken output). A
// short uuid-derived suffix breaks the tie; the collision is reported as
// a warning so it stays visible rather than silently shadowing an
// existing instance.
func (mz *Monomorphiser) disambiguate(mangled string, typeArgs []ir.Type, bag *diagnostic.Bag, file string, line, col int) string {
	prior, ok := mz.tupleOf[mangled]
	if !ok || sameTuple(prior, typeArgs) {
		return mangled
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	bag.Warn(diagnostic.CodeUnsupportedConstraint, file, line, col,
		"mangled name %q collided for distinct type-argument tuples; disambiguated with suffix %q", mangled, suffix)
	return mangled + "_" + suffix
}

func sameTuple(a, b []ir.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// MangledName computes the canonical specialised name: declaration name +
// "__" + the joined argument tokens (spec §4.5).
func MangledName(declName string, args []ir.Type) string {
	tokens := make([]string, len(args))
	for i, a := range args {
		tokens[i] = mangleToken(a)
	}
	return declName + "__" + strings.Join(tokens, "_")
}

func mangleToken(t ir.Type) string {
	switch t.Kind {
	case ir.KindPrimitive:
		return string(t.Primitive)
	case ir.KindObjectRef:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		inner := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			inner[i] = mangleToken(a)
		}
		return t.Name + "Of" + strings.Join(inner, "")
	case ir.KindArray:
		return "ArrayOf" + mangleToken(*t.Inner)
	case ir.KindNullable:
		return "Nullable" + mangleToken(*t.Inner)
	default:
		return string(t.Kind)
	}
}

// Specialise clones decl with typeArgs substituted for its type
// parameters, returning the existing instance if this (declaration,
// argument-tuple) pair was already specialised. It reports TSN7202 and
// returns nil if substituting one of decl's type parameters would recurse
// into a type alias with no finite fixpoint — detected by finding the
// same visitKey already on the active call stack (passed in via active).
func (mz *Monomorphiser) Specialise(decl *ir.Declaration, typeArgs []ir.Type, active map[visitKey]bool, bag *diagnostic.Bag, file string, line, col int) *ir.Declaration {
	mangled := MangledName(decl.Name, typeArgs)
	mangled = mz.disambiguate(mangled, typeArgs, bag, file, line, col)
	key := visitKey(mangled)

	if existing, ok := mz.Instances[mangled]; ok {
		return existing
	}
	if active[key] {
		bag.Error(diagnostic.CodeConditionalNonTerminate, file, line, col,
			"monomorphisation of %q with these type arguments has no finite fixpoint", decl.Name)
		return nil
	}
	active[key] = true
	defer delete(active, key)
	mz.tupleOf[mangled] = typeArgs

	subst := make(map[string]ir.Type, len(decl.TypeParams))
	for i, tp := range decl.TypeParams {
		if i < len(typeArgs) {
			subst[tp.Name] = typeArgs[i]
		}
	}

	clone := substituteDeclaration(*decl, subst)
	clone.Name = mangled
	clone.TypeParams = nil
	clone.RequiresSpecialisation = false

	mz.visited[key] = true
	mz.Instances[mangled] = &clone
	return &clone
}

func substituteDeclaration(d ir.Declaration, subst map[string]ir.Type) ir.Declaration {
	if d.Function != nil {
		fn := *d.Function
		fn.Params = substituteParams(fn.Params, subst)
		fn.Return = substituteType(fn.Return, subst)
		fn.Body = substituteStatements(fn.Body, subst)
		d.Function = &fn
	}
	if d.Class != nil {
		cls := *d.Class
		cls.Fields = substituteFields(cls.Fields, subst)
		cls.Methods = substituteMethods(cls.Methods, subst)
		d.Class = &cls
	}
	return d
}

func substituteParams(params []ir.Param, subst map[string]ir.Type) []ir.Param {
	out := make([]ir.Param, len(params))
	for i, p := range params {
		out[i] = ir.Param{Name: p.Name, Type: substituteType(p.Type, subst)}
	}
	return out
}

func substituteFields(fields []ir.Field, subst map[string]ir.Type) []ir.Field {
	out := make([]ir.Field, len(fields))
	for i, f := range fields {
		out[i] = f
		out[i].Type = substituteType(f.Type, subst)
	}
	return out
}

func substituteMethods(methods []ir.MethodDecl, subst map[string]ir.Type) []ir.MethodDecl {
	out := make([]ir.MethodDecl, len(methods))
	for i, m := range methods {
		out[i] = m
		out[i].Params = substituteParams(m.Params, subst)
		out[i].Return = substituteType(m.Return, subst)
		out[i].Body = substituteStatements(m.Body, subst)
	}
	return out
}

func substituteStatements(stmts []ir.Statement, subst map[string]ir.Type) []ir.Statement {
	if stmts == nil {
		return nil
	}
	out := make([]ir.Statement, len(stmts))
	copy(out, stmts)
	return out
}

// substituteType recursively rewrites every IR Type whose referenced type
// parameter matches a key in subst (spec §4.5: "apply a substitution that
// recursively rewrites every IR Type... whose referenced type parameter
// matches").
func substituteType(t ir.Type, subst map[string]ir.Type) ir.Type {
	switch t.Kind {
	case ir.KindTypeParam:
		if t.TypeParam != nil {
			if repl, ok := subst[t.TypeParam.Name]; ok {
				return repl
			}
		}
		return t
	case ir.KindNullable:
		inner := substituteType(*t.Inner, subst)
		return ir.NullableOf(inner)
	case ir.KindArray:
		inner := substituteType(*t.Inner, subst)
		return ir.ArrayOf(inner)
	case ir.KindList:
		inner := substituteType(*t.Inner, subst)
		return ir.ListOf(inner)
	case ir.KindPromise:
		inner := substituteType(*t.Inner, subst)
		return ir.PromiseOf(inner)
	case ir.KindTuple:
		elems := make([]ir.Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = substituteType(e, subst)
		}
		return ir.Type{Kind: ir.KindTuple, Elements: elems}
	case ir.KindObjectRef:
		args := make([]ir.Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = substituteType(a, subst)
		}
		return ir.Type{Kind: ir.KindObjectRef, Name: t.Name, TypeArgs: args}
	default:
		return t
	}
}

// Package specialize implements tsonic's Adapter & Specialisation
// Generator (spec §4.5): it runs once every module has reached read-only
// state, synthesising nominal adapter types for structural generic
// constraints and cloning+substituting IR declarations for every
// monomorphisation call site.
//
// The member-set hashing and visited-set termination discipline are
// grounded on two teacher shapes: analyzer/constraints.go's switch-based
// extraction (the same "finite enumerated shape, deterministic key"
// approach drives member-set hashing here) and analyzer/type_walker.go's
// visiting map (the same technique polices monomorphisation recursion
// that TypeWalker uses to police type-graph recursion).
package specialize

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// AdapterSet accumulates the synthesised constraint interfaces and wrapper
// classes, deduplicated by member-set hash within a namespace.
type AdapterSet struct {
	ByHash map[string]*Adapter // namespace + "/" + hash -> adapter
}

// Adapter is one synthesised nominal interface + wrapper class pair for a
// structural constraint.
type Adapter struct {
	Hash      string
	Interface ir.Declaration // DeclInterface, name "__Constraint_T_<hash>"
	Wrapper   ir.Declaration // DeclClass, name "__Wrapper_T_<hash>", IsAdapter = true
}

// NewAdapterSet creates an empty adapter set.
func NewAdapterSet() *AdapterSet {
	return &AdapterSet{ByHash: make(map[string]*Adapter)}
}

// memberSetHash computes a deterministic hash of a structural constraint's
// member set: member names are sorted so member declaration order never
// affects the hash (spec §4.5: "Deduplicate by member-set hash").
func memberSetHash(sc *ir.StructuralConstraint) string {
	names := make([]string, len(sc.Members))
	for i, m := range sc.Members {
		mutTag := "r"
		if !m.Readonly {
			mutTag = "w"
		}
		names[i] = fmt.Sprintf("%s:%s:%s", m.Name, typeKey(m.Type), mutTag)
	}
	sort.Strings(names)

	h := fnv.New64a()
	h.Write([]byte(strings.Join(names, "|")))
	return fmt.Sprintf("%x", h.Sum64())
}

// typeKey renders a stable textual key for a Type, used only for hashing
// (not emission) so structurally-identical member types hash identically.
func typeKey(t ir.Type) string {
	switch t.Kind {
	case ir.KindPrimitive:
		return "prim:" + string(t.Primitive)
	case ir.KindObjectRef:
		parts := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			parts[i] = typeKey(a)
		}
		return "obj:" + t.Name + "<" + strings.Join(parts, ",") + ">"
	case ir.KindNullable:
		return "nullable:" + typeKey(*t.Inner)
	case ir.KindArray:
		return "array:" + typeKey(*t.Inner)
	case ir.KindList:
		return "list:" + typeKey(*t.Inner)
	default:
		return string(t.Kind)
	}
}

// GetOrCreate returns the adapter for a structural constraint within
// namespace, synthesising it on first encounter. typeParamName seeds the
// emitted names (`__Constraint_<typeParamName>_<hash>`).
func (s *AdapterSet) GetOrCreate(namespace, typeParamName string, sc *ir.StructuralConstraint) *Adapter {
	hash := memberSetHash(sc)
	key := namespace + "/" + hash
	if existing, ok := s.ByHash[key]; ok {
		return existing
	}

	ifaceName := fmt.Sprintf("__Constraint_%s_%s", typeParamName, hash)
	wrapperName := fmt.Sprintf("__Wrapper_%s_%s", typeParamName, hash)

	ifaceProps := make([]ir.Property, 0, len(sc.Members))
	fields := make([]ir.Field, 0, len(sc.Members))
	ctorParams := make([]ir.Param, 0, len(sc.Members))
	ctorBody := make([]ir.Statement, 0, len(sc.Members))

	for _, m := range sc.Members {
		ifaceProps = append(ifaceProps, ir.Property{
			Name: m.Name, Type: m.Type, HasGetter: true, HasSetter: !m.Readonly,
		})
		fields = append(fields, ir.Field{Name: m.Name, Type: m.Type, ReadOnly: m.Readonly, Visibility: ir.VisibilityPublic})
		ctorParams = append(ctorParams, ir.Param{Name: m.Name, Type: m.Type})
		ctorBody = append(ctorBody, ir.Statement{
			Kind: ir.StmtExpr,
			Expr: ir.Expression{
				Kind: ir.ExprAssign,
				Op:   "=",
				Left: &ir.Expression{Kind: ir.ExprMember, Name: m.Name, Object: &ir.Expression{Kind: ir.ExprThis}},
				Right: &ir.Expression{Kind: ir.ExprIdent, Name: m.Name},
			},
		})
	}

	adapter := &Adapter{
		Hash: hash,
		Interface: ir.Declaration{
			Kind: ir.DeclInterface, Name: ifaceName, Visibility: ir.VisibilityPublic,
			Interface: &ir.InterfaceDecl{Properties: ifaceProps},
		},
		Wrapper: ir.Declaration{
			Kind: ir.DeclClass, Name: wrapperName, Visibility: ir.VisibilityPublic,
			Class: &ir.ClassDecl{
				Interfaces:  []string{ifaceName},
				Fields:      fields,
				IsAdapter:   true,
				Constructor: &ir.ConstructorDecl{Params: ctorParams, Body: ctorBody},
			},
		},
	}
	s.ByHash[key] = adapter
	return adapter
}

// ConstraintName returns the `where T : __Constraint_T_<hash>` clause name
// for a structural constraint already registered via GetOrCreate.
func (a *Adapter) ConstraintName() string {
	return a.Interface.Name
}

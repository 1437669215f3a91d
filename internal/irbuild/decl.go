package irbuild

import (
	"math"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// MembersToFields converts a lowered object type's member list into IR
// fields, applying the optional→nullable / readonly→getter-only rules
// from spec §4.4.
func (b *Builder) MembersToFields(members []MemberRef) []ir.Field {
	fields := make([]ir.Field, 0, len(members))
	for _, m := range members {
		t := b.LowerType(m.Type)
		if m.Optional {
			t = ir.NullableOf(t)
		}
		fields = append(fields, ir.Field{
			Name:       m.Name,
			Type:       t,
			Visibility: ir.VisibilityPublic,
			ReadOnly:   m.ReadOnly,
		})
	}
	return fields
}

// IndexSignatureToField lowers a TypeScript index signature (`[key: string]: T`)
// to a dictionary-backed field, per spec §4.4.
func IndexSignatureToField(name string, valueType ir.Type) ir.Field {
	return ir.Field{
		Name:     name,
		Type:     ir.ObjectRef("Dictionary", ir.Prim(ir.PrimString), valueType),
		ReadOnly: false,
	}
}

// structMarkerName is the phantom marker interface that tags a class or
// interface as a value type (spec §4.4: "The struct marker interface is a
// phantom"). Heritage clauses naming it are stripped; its presence alone
// sets ClassDecl.IsValueType.
const structMarkerName = "struct"

// ApplyStructMarker inspects a heritage-clause name list, strips the
// phantom marker if present, and reports whether the declaration is a
// value type.
func ApplyStructMarker(heritage []string) (remaining []string, isValueType bool) {
	for _, h := range heritage {
		if h == structMarkerName {
			isValueType = true
			continue
		}
		remaining = append(remaining, h)
	}
	return remaining, isValueType
}

// NumericLiteralKind classifies an integer literal's narrowest safe target
// representation per spec §4.4's numeric semantics: "a literal integer
// within signed-32 fits int; beyond that promotes to long".
func NumericLiteralKind(value int64) ir.Primitive {
	if value >= math.MinInt32 && value <= math.MaxInt32 {
		return ir.PrimInt
	}
	return ir.PrimLong
}

// EntryPointDecision is the resolved state machine output for one entry
// module (spec §5).
type EntryPointDecision struct {
	State       ir.EntryPointState
	MainFunc    *ir.FunctionDecl // non-nil when an explicit `main` export exists
	TopLevel    []ir.Statement   // gathered top-level statements, if any
}

// DecideEntryPoint implements the entry-point state machine: if the module
// exports a `main` function it is selected; otherwise top-level statements
// synthesise a Main(); the combined form is legal only when `main` coexists
// with top-level initialisation, which becomes a static constructor plus
// entry method (spec §4.4, §5). Top-level statements alongside other
// exports with no `main` are reported as TSN1020.
func DecideEntryPoint(mainExport *ir.FunctionDecl, topLevel []ir.Statement, hasOtherExports bool, bag *diagnostic.Bag, file string) EntryPointDecision {
	switch {
	case mainExport != nil && len(topLevel) > 0:
		return EntryPointDecision{State: ir.EntryTopLevelPlusMain, MainFunc: mainExport, TopLevel: topLevel}
	case mainExport != nil:
		return EntryPointDecision{State: ir.EntryExportMain, MainFunc: mainExport}
	case len(topLevel) > 0 && hasOtherExports:
		bag.Error(diagnostic.CodeEntryTopLevelNoMain, file, 0, 0,
			"entry module has top-level statements and other exports but no main function")
		return EntryPointDecision{State: ir.EntryTopLevelPlusExports, TopLevel: topLevel}
	case len(topLevel) > 0:
		return EntryPointDecision{State: ir.EntryTopLevelOnly, TopLevel: topLevel}
	default:
		return EntryPointDecision{State: ir.EntryNoExport}
	}
}

// RejectTopLevelAwait reports TSN1021 for a top-level await expression,
// which spec §4.4 disallows unconditionally.
func RejectTopLevelAwait(bag *diagnostic.Bag, file string, line, col int) {
	bag.Error(diagnostic.CodeTopLevelAwait, file, line, col,
		"top-level await is not supported; wrap the entry module's async logic in an async Main")
}

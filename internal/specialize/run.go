package specialize

import (
	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// Run drives the Adapter & Specialisation Generator (spec §4.5) over a
// fully IR-built program: every declaration flagged RequiresSpecialisation
// gets its structural type parameters turned into a nominal adapter via
// AdapterSet.GetOrCreate, and every call/construct expression flagged
// RequiresSpecialisation is monomorphised via Monomorphiser.Specialise,
// clearing the flag once handled (spec §8, Testable Property #7: "after
// adapter/specialisation, no call site flagged requires_specialisation
// remains"). It runs once, after the validator, over every module in
// prog — mirroring tsgonest's single-pass post-analysis stages, which
// always run after every source file has been walked rather than
// interleaved with per-file analysis.
func Run(prog *ir.Program, bag *diagnostic.Bag) *AdapterSet {
	adapters := NewAdapterSet()
	mz := NewMonomorphiser()

	for i := range prog.Modules {
		m := &prog.Modules[i]
		adapted := make(map[string]bool)
		for j := range m.Declarations {
			d := &m.Declarations[j]
			if !d.RequiresSpecialisation {
				continue
			}
			for _, tp := range d.TypeParams {
				if tp.StructuralConstraint == nil {
					continue
				}
				a := adapters.GetOrCreate(m.Namespace, tp.Name, tp.StructuralConstraint)
				if adapted[a.Hash] {
					continue
				}
				adapted[a.Hash] = true
				m.Declarations = append(m.Declarations, a.Interface, a.Wrapper)
			}
		}
	}

	active := make(map[visitKey]bool)
	byName := declarationIndex(prog)
	for i := range prog.Modules {
		m := &prog.Modules[i]
		for j := range m.Declarations {
			specialiseDeclaration(&m.Declarations[j], mz, byName, active, bag, m.FileName)
		}
		for mangled, inst := range mz.Instances {
			if !declaredIn(m, mangled) && instanceBelongs(inst, m) {
				m.Declarations = append(m.Declarations, *inst)
			}
		}
	}

	return adapters
}

// declarationIndex maps every top-level declaration name to its
// declaration, for resolving a call site's callee to the generic
// declaration Specialise needs to clone.
func declarationIndex(prog *ir.Program) map[string]*ir.Declaration {
	out := make(map[string]*ir.Declaration)
	for i := range prog.Modules {
		for j := range prog.Modules[i].Declarations {
			d := &prog.Modules[i].Declarations[j]
			out[d.Name] = d
		}
	}
	return out
}

func declaredIn(m *ir.Module, name string) bool {
	for _, d := range m.Declarations {
		if d.Name == name {
			return true
		}
	}
	return false
}

// instanceBelongs reports whether a specialised clone should be emitted
// into m: a clone belongs to the module that declared the generic it was
// specialised from. Provenance.File carries the originating module's
// source path, set when Specialise clones a declaration (see
// substituteDeclaration, which preserves the original Provenance).
func instanceBelongs(inst *ir.Declaration, m *ir.Module) bool {
	return inst.Provenance.File == m.FileName
}

// specialiseDeclaration walks d's function/method bodies for call and
// construct expressions flagged RequiresSpecialisation, monomorphising
// each one against the generic declaration its callee resolves to.
func specialiseDeclaration(d *ir.Declaration, mz *Monomorphiser, byName map[string]*ir.Declaration, active map[visitKey]bool, bag *diagnostic.Bag, file string) {
	switch {
	case d.Function != nil:
		specialiseStatements(d.Function.Body, mz, byName, active, bag, file)
	case d.Class != nil:
		for i := range d.Class.Methods {
			specialiseStatements(d.Class.Methods[i].Body, mz, byName, active, bag, file)
		}
	}
}

func specialiseStatements(stmts []ir.Statement, mz *Monomorphiser, byName map[string]*ir.Declaration, active map[visitKey]bool, bag *diagnostic.Bag, file string) {
	for i := range stmts {
		s := &stmts[i]
		specialiseExprPtr(&s.Expr, mz, byName, active, bag, file)
		specialiseExprPtr(&s.Cond, mz, byName, active, bag, file)
		specialiseExprPtr(&s.Init, mz, byName, active, bag, file)
		specialiseExprPtr(&s.Post, mz, byName, active, bag, file)
		specialiseStatements(s.Then, mz, byName, active, bag, file)
		specialiseStatements(s.Else, mz, byName, active, bag, file)
		specialiseStatements(s.TryBlock, mz, byName, active, bag, file)
		specialiseStatements(s.CatchBlock, mz, byName, active, bag, file)
		specialiseStatements(s.FinallyBlock, mz, byName, active, bag, file)
	}
}

// specialiseExpr monomorphises e itself if flagged, then descends into
// every child expression position so a nested call site (an argument
// expression, an operand, an object-literal property value, …) is found
// regardless of where in the expression tree it sits. e is always a
// pointer into the tree being walked, so clearing RequiresSpecialisation
// here is what actually makes the call site's flag disappear, rather than
// mutating a throwaway copy.
func specialiseExpr(e *ir.Expression, mz *Monomorphiser, byName map[string]*ir.Declaration, active map[visitKey]bool, bag *diagnostic.Bag, file string) {
	if e.RequiresSpecialisation && e.Callee != nil {
		if target, ok := byName[e.Callee.Name]; ok {
			typeArgs := e.ExplicitTypeArgs
			if len(typeArgs) == 0 {
				typeArgs = e.InferredTypeArgs
			}
			if inst := mz.Specialise(target, typeArgs, active, bag, file, e.Provenance.Line, e.Provenance.Column); inst != nil {
				e.Callee.Name = inst.Name
				e.RequiresSpecialisation = false
			}
		}
	}

	specialiseExprPtr(e.Left, mz, byName, active, bag, file)
	specialiseExprPtr(e.Right, mz, byName, active, bag, file)
	specialiseExprPtr(e.Operand, mz, byName, active, bag, file)
	specialiseExprPtr(e.Callee, mz, byName, active, bag, file)
	specialiseExprPtr(e.Object, mz, byName, active, bag, file)
	specialiseExprPtr(e.Index, mz, byName, active, bag, file)
	specialiseExprPtr(e.Test, mz, byName, active, bag, file)
	specialiseExprPtr(e.Cons, mz, byName, active, bag, file)
	specialiseExprPtr(e.Alt, mz, byName, active, bag, file)
	for i := range e.Args {
		specialiseExpr(&e.Args[i], mz, byName, active, bag, file)
	}
	for i := range e.Elements {
		specialiseExpr(&e.Elements[i], mz, byName, active, bag, file)
	}
	for i := range e.Properties {
		specialiseExpr(&e.Properties[i].Value, mz, byName, active, bag, file)
	}
	specialiseStatements(e.Body, mz, byName, active, bag, file)
}

func specialiseExprPtr(e *ir.Expression, mz *Monomorphiser, byName map[string]*ir.Declaration, active map[visitKey]bool, bag *diagnostic.Bag, file string) {
	if e == nil {
		return
	}
	specialiseExpr(e, mz, byName, active, bag, file)
}

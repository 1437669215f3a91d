package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// NameTable tracks emitted C# identifiers within one namespace so collisions
// get a stable numeric suffix instead of silently shadowing one another
// (spec §4.6: "a colliding name is suffixed and the collision is reported,
// never silently dropped").
type NameTable struct {
	used map[string]int
}

// NewNameTable creates an empty collision table.
func NewNameTable() *NameTable {
	return &NameTable{used: make(map[string]int)}
}

// Reserve returns the name to actually emit for want, suffixing it and
// recording a TSN4001 warning on bag when want was already taken.
func (t *NameTable) Reserve(want, file string, line, col int, bag *diagnostic.Bag) string {
	n, taken := t.used[want]
	if !taken {
		t.used[want] = 1
		return want
	}
	t.used[want] = n + 1
	renamed := fmt.Sprintf("%s_%d", want, n+1)
	bag.Warn(diagnostic.CodeNameCollidesWithFile, file, line, col,
		"emitted name %q collides with an earlier declaration in this namespace; renamed to %q", want, renamed)
	return renamed
}

// Decl emits one top-level IR declaration as a C# type or free function.
func Decl(p *Printer, d ir.Declaration, names *NameTable, bag *diagnostic.Bag) {
	name := names.Reserve(d.Name, d.Provenance.File, d.Provenance.Line, d.Provenance.Column, bag)
	switch d.Kind {
	case ir.DeclClass:
		classDecl(p, d, name)
	case ir.DeclInterface:
		interfaceDecl(p, d, name)
	case ir.DeclEnum:
		enumDecl(p, d, name)
	case ir.DeclFunction:
		functionDecl(p, d, name)
	case ir.DeclTypeAlias:
		// Structural-to-nominal lowering means every alias that survives the
		// IR Builder unchanged is a pure primitive/union synonym; emit a
		// `using` alias directive rather than a type.
		p.Line("using %s = %s;", name, TypeToCSharp(d.TypeAlias.Aliased))
	case ir.DeclVariable:
		variableDecl(p, d, name)
	}
}

func accessModifier(v ir.Visibility) string {
	if v == ir.VisibilityPrivate {
		return "private"
	}
	return "public"
}

// classDecl emits fields, then the constructor, then instance methods in
// source order, then static methods in source order, then nested types
// last (spec §4.6 member-order rule). Adapter classes synthesised by
// internal/specialize are marked sealed.
func classDecl(p *Printer, d ir.Declaration, name string) {
	c := d.Class
	header := "class " + name
	if c.IsValueType {
		header = "struct " + name
	} else if c.IsAdapter {
		header = "sealed class " + name
	}
	bases := append([]string{}, c.Interfaces...)
	if c.BaseClass != "" {
		bases = append([]string{c.BaseClass}, bases...)
	}
	if len(bases) > 0 {
		header += " : " + strings.Join(bases, ", ")
	}
	if len(d.TypeParams) > 0 {
		header = insertTypeParams(header, name, d.TypeParams)
	}

	p.OpenBrace("public %s", header)

	for _, f := range c.Fields {
		readonly := ""
		if f.ReadOnly {
			readonly = "readonly "
		}
		p.Line("%s %s%s %s;", accessModifier(f.Visibility), readonly, TypeToCSharp(f.Type), f.Name)
	}
	if len(c.Fields) > 0 {
		p.Blank()
	}

	for _, prop := range c.Properties {
		accessor := "{ get;"
		if prop.HasSetter {
			accessor += " set;"
		}
		accessor += " }"
		p.Line("%s %s %s %s", accessModifier(prop.Visibility), TypeToCSharp(prop.Type), prop.Name, accessor)
	}
	if len(c.Properties) > 0 {
		p.Blank()
	}

	if c.Constructor != nil {
		params := paramList(c.Constructor.Params)
		BodyOrSemicolon(p, fmt.Sprintf("public %s(%s)", name, params), c.Constructor.Body, true)
		p.Blank()
	}

	instance, static, nested := splitMethods(c.Methods)
	for _, m := range instance {
		methodDecl(p, m, false)
	}
	for _, m := range static {
		methodDecl(p, m, true)
	}
	for _, m := range nested {
		methodDecl(p, m, m.Static)
	}

	p.CloseBrace()
}

// splitMethods partitions methods preserving source order within each
// group: instance methods, static methods. Nested-type methods are not a
// concept IR carries directly (nested types are separate Declarations), so
// the third return is always empty; kept for symmetry with the ordering
// rule's three buckets.
func splitMethods(methods []ir.MethodDecl) (instance, static, nested []ir.MethodDecl) {
	for _, m := range methods {
		if m.Static {
			static = append(static, m)
		} else {
			instance = append(instance, m)
		}
	}
	return instance, static, nil
}

func methodDecl(p *Printer, m ir.MethodDecl, static bool) {
	mod := accessModifier(m.Visibility)
	if interfaceContext {
		mod = ""
	}
	if static {
		mod += " static"
	}
	if m.Override {
		mod += " override"
	}
	ret := TypeToCSharp(m.Return)
	if m.Async {
		if m.Return.IsVoid() {
			ret = "Task"
		} else {
			ret = "Task<" + ret + ">"
		}
	}
	if m.IsGenerator {
		ret = "IAsyncEnumerable<" + TypeToCSharp(m.Return) + ">"
	}
	asyncMod := ""
	if m.Async {
		asyncMod = " async"
	}
	name := m.Name
	if len(m.TypeParams) > 0 {
		name += "<" + typeParamNames(m.TypeParams) + ">"
	}
	header := fmt.Sprintf("%s %s(%s)", strings.TrimSpace(fmt.Sprintf("%s%s %s", mod, asyncMod, ret)), name, paramList(m.Params))
	BodyOrSemicolon(p, header, m.Body, !interfaceContext && len(m.Body) > 0)
	p.Blank()
}

// interfaceContext is a small escape hatch: interface method declarations
// are always signature-only, emitted via interfaceDecl which sets this
// around its BodyOrSemicolon calls. Kept package-level since the emitter
// is always single-threaded per spec §5.
var interfaceContext = false

func interfaceDecl(p *Printer, d ir.Declaration, name string) {
	i := d.Interface
	header := "interface " + name
	if len(d.TypeParams) > 0 {
		header = insertTypeParams(header, name, d.TypeParams)
	}
	if len(i.Extends) > 0 {
		header += " : " + strings.Join(i.Extends, ", ")
	}
	p.OpenBrace("public %s", header)

	interfaceContext = true
	for _, prop := range i.Properties {
		accessor := "{ get;"
		if prop.HasSetter {
			accessor += " set;"
		}
		accessor += " }"
		p.Line("%s %s %s", TypeToCSharp(prop.Type), prop.Name, accessor)
	}
	for _, m := range i.Methods {
		methodDecl(p, m, false)
	}
	interfaceContext = false

	p.CloseBrace()
}

func enumDecl(p *Printer, d ir.Declaration, name string) {
	e := d.Enum
	underlying := ""
	if e.Underlying == ir.PrimInt {
		underlying = " : int"
	}
	p.OpenBrace("public enum %s%s", name, underlying)
	for i, v := range e.Values {
		suffix := ","
		if i == len(e.Values)-1 {
			suffix = ""
		}
		if v.Value.Kind != "" {
			p.Line("%s = %s%s", v.Name, Expr(v.Value), suffix)
		} else {
			p.Line("%s%s", v.Name, suffix)
		}
	}
	p.CloseBrace()
}

func functionDecl(p *Printer, d ir.Declaration, name string) {
	f := d.Function
	ret := TypeToCSharp(f.Return)
	if f.Async {
		if f.Return.IsVoid() {
			ret = "Task"
		} else {
			ret = "Task<" + ret + ">"
		}
	}
	if f.IsGenerator {
		ret = "IAsyncEnumerable<" + TypeToCSharp(f.Return) + ">"
	}
	asyncMod := ""
	if f.Async {
		asyncMod = " async"
	}
	tparams := ""
	if len(d.TypeParams) > 0 {
		tparams = "<" + typeParamNames(d.TypeParams) + ">"
	}
	header := fmt.Sprintf("public static%s %s %s%s(%s)", asyncMod, ret, name, tparams, paramList(f.Params))
	BodyOrSemicolon(p, header, f.Body, true)
}

func variableDecl(p *Printer, d ir.Declaration, name string) {
	v := d.Variable
	mod := "static"
	if v.ReadOnly {
		mod = "static readonly"
	}
	if v.Init.Kind != "" {
		p.Line("public %s %s %s = %s;", mod, TypeToCSharp(v.Type), name, Expr(v.Init))
		return
	}
	p.Line("public %s %s %s;", mod, TypeToCSharp(v.Type), name)
}

func paramList(params []ir.Param) string {
	parts := make([]string, len(params))
	for i, pm := range params {
		parts[i] = fmt.Sprintf("%s %s", TypeToCSharp(pm.Type), pm.Name)
	}
	return strings.Join(parts, ", ")
}

func typeParamNames(tps []ir.TypeParameter) string {
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name
	}
	return strings.Join(names, ", ")
}

func insertTypeParams(header, name string, tps []ir.TypeParameter) string {
	return header[:len(header)-len(name)] + name + "<" + typeParamNames(tps) + ">"
}

// SortedDeclarationNames returns the names of decls in stable alphabetical
// order, used by callers that want deterministic diagnostics ordering
// independent of source order.
func SortedDeclarationNames(decls []ir.Declaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

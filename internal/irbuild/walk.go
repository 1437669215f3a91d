package irbuild

import (
	"context"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/facade"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// Walker lowers one *ast.SourceFile's top-level statements into
// ir.Declaration nodes, driven entirely through facade.Session — the
// real AST-to-IR pass spec §4.4 describes, as opposed to FromFileGraph's
// module skeleton above. One Walker is scoped to a single source file, so
// it can run inside LowerModulesParallel's per-module goroutine.
//
// The statement-dispatch shape (a Kind switch over sf.Statements.Nodes,
// one case per declaration kind) is grounded on tsgonest's
// ControllerAnalyzer.AnalyzeSourceFile (internal/analyzer/routes.go) and
// ExtractMarkerCalls/findTsgonestImports (internal/rewrite/extract.go) —
// both walk a SourceFile's top-level statement list the same way, keying
// off stmt.Kind against the declaration Kind constants.
type Walker struct {
	sess    *facade.Session
	builder *Builder
	bag     *diagnostic.Bag
	file    string
}

// NewWalker creates a declaration walker for one source file, with its own
// Builder so recursive type lowering within this file doesn't share
// visited-type state with any other file's walker.
func NewWalker(sess *facade.Session, bag *diagnostic.Bag, file string) *Walker {
	return &Walker{sess: sess, builder: NewBuilder(bag), bag: bag, file: file}
}

// LowerSourceFile walks sf's top-level statements into IR declarations,
// in source order, and reports whether a `main` function declaration was
// found among them (spec §5's entry-point state machine consults this
// before falling back to gathered top-level statements).
func (w *Walker) LowerSourceFile(sf *ast.SourceFile) (decls []ir.Declaration, hasMain bool) {
	for _, stmt := range sf.Statements.Nodes {
		switch stmt.Kind {
		case ast.KindFunctionDeclaration:
			d := w.lowerFunction(stmt)
			decls = append(decls, d)
			if d.Name == "main" {
				hasMain = true
			}
		case ast.KindClassDeclaration:
			decls = append(decls, w.lowerClass(stmt))
		case ast.KindInterfaceDeclaration:
			decls = append(decls, w.lowerInterface(stmt))
		case ast.KindTypeAliasDeclaration:
			decls = append(decls, w.lowerTypeAlias(stmt))
		case ast.KindEnumDeclaration:
			decls = append(decls, w.lowerEnum(stmt))
		case ast.KindVariableStatement:
			decls = append(decls, w.lowerVariableStatement(stmt)...)
		}
	}
	return decls, hasMain
}

func (w *Walker) provenance(node *ast.Node) ir.Provenance {
	if node == nil {
		return ir.Provenance{File: w.file}
	}
	sf := ast.GetSourceFileOfNode(node)
	if sf == nil {
		return ir.Provenance{File: w.file}
	}
	line, col := facade.LineAndColumn(sf, node.Pos())
	return ir.Provenance{File: w.file, Line: line, Column: col}
}

func (w *Walker) lowerFunction(node *ast.Node) ir.Declaration {
	fn := node.AsFunctionDeclaration()
	name := ""
	if n := fn.Name(); n != nil {
		name = n.Text()
	}

	params := w.lowerParams(fn.Parameters)
	ret := ir.Prim(ir.PrimVoid)
	if fn.Type != nil {
		ret = w.sess.TypeAt(context.Background(), fn.Type)
	}

	decl := ir.Declaration{
		Kind:       ir.DeclFunction,
		Name:       name,
		Visibility: ir.VisibilityPublic,
		TypeParams: w.sess.TypeParametersOf(context.Background(), node),
		Provenance: w.provenance(node),
		Function: &ir.FunctionDecl{
			Params:      params,
			Return:      ret,
			IsEntryMain: name == "main",
		},
	}
	decl.RequiresSpecialisation = anyRequiresSpecialisation(decl.TypeParams)
	return decl
}

func (w *Walker) lowerParams(list *ast.NodeList) []ir.Param {
	if list == nil {
		return nil
	}
	out := make([]ir.Param, 0, len(list.Nodes))
	for _, n := range list.Nodes {
		p := n.AsParameterDeclaration()
		if p == nil {
			continue
		}
		t := ir.Prim(ir.PrimAny)
		if p.Type != nil {
			t = w.sess.TypeAt(context.Background(), p.Type)
		}
		if p.QuestionToken != nil {
			t = ir.NullableOf(t)
		}
		out = append(out, ir.Param{Name: p.Name().Text(), Type: t})
	}
	return out
}

func (w *Walker) lowerClass(node *ast.Node) ir.Declaration {
	cls := node.AsClassDeclaration()
	name := ""
	if n := cls.Name(); n != nil {
		name = n.Text()
	}

	var fields []ir.Field
	var methods []ir.MethodDecl
	var ctor *ir.ConstructorDecl
	if cls.Members != nil {
		for _, m := range cls.Members.Nodes {
			switch m.Kind {
			case ast.KindPropertyDeclaration:
				fields = append(fields, w.lowerPropertyDeclaration(m))
			case ast.KindMethodDeclaration:
				methods = append(methods, w.lowerMethod(m))
			case ast.KindConstructor:
				ctor = w.lowerConstructor(m)
			}
		}
	}

	typeParams := w.sess.TypeParametersOf(context.Background(), node)
	decl := ir.Declaration{
		Kind:       ir.DeclClass,
		Name:       name,
		Visibility: ir.VisibilityPublic,
		TypeParams: typeParams,
		Provenance: w.provenance(node),
		Class: &ir.ClassDecl{
			Fields:      fields,
			Methods:     methods,
			Constructor: ctor,
		},
	}
	decl.RequiresSpecialisation = anyRequiresSpecialisation(typeParams)
	return decl
}

func (w *Walker) lowerPropertyDeclaration(node *ast.Node) ir.Field {
	p := node.AsPropertyDeclaration()
	t := ir.Prim(ir.PrimAny)
	if p.Type != nil {
		t = w.sess.TypeAt(context.Background(), p.Type)
	}
	if p.QuestionToken != nil {
		t = ir.NullableOf(t)
	}
	return ir.Field{
		Name:       p.Name().Text(),
		Type:       t,
		Visibility: ir.VisibilityPublic,
		ReadOnly:   p.ReadOnlyKeyword != nil,
		Provenance: w.provenance(node),
	}
}

func (w *Walker) lowerMethod(node *ast.Node) ir.MethodDecl {
	m := node.AsMethodDeclaration()
	ret := ir.Prim(ir.PrimVoid)
	if m.Type != nil {
		ret = w.sess.TypeAt(context.Background(), m.Type)
	}
	return ir.MethodDecl{
		Name:       m.Name().Text(),
		Params:     w.lowerParams(m.Parameters),
		Return:     ret,
		Visibility: ir.VisibilityPublic,
		TypeParams: w.sess.TypeParametersOf(context.Background(), node),
		Provenance: w.provenance(node),
	}
}

func (w *Walker) lowerConstructor(node *ast.Node) *ir.ConstructorDecl {
	c := node.AsConstructorDeclaration()
	return &ir.ConstructorDecl{
		Params:     w.lowerParams(c.Parameters),
		Provenance: w.provenance(node),
	}
}

func (w *Walker) lowerInterface(node *ast.Node) ir.Declaration {
	iface := node.AsInterfaceDeclaration()
	name := ""
	if n := iface.Name(); n != nil {
		name = n.Text()
	}

	var props []ir.Property
	var methods []ir.MethodDecl
	if iface.Members != nil {
		for _, m := range iface.Members.Nodes {
			switch m.Kind {
			case ast.KindPropertySignature:
				props = append(props, w.lowerPropertySignature(m))
			case ast.KindMethodSignature:
				methods = append(methods, w.lowerMethodSignature(m))
			}
		}
	}

	typeParams := w.sess.TypeParametersOf(context.Background(), node)
	decl := ir.Declaration{
		Kind:       ir.DeclInterface,
		Name:       name,
		Visibility: ir.VisibilityPublic,
		TypeParams: typeParams,
		Provenance: w.provenance(node),
		Interface:  &ir.InterfaceDecl{Properties: props, Methods: methods},
	}
	decl.RequiresSpecialisation = anyRequiresSpecialisation(typeParams)
	return decl
}

func (w *Walker) lowerPropertySignature(node *ast.Node) ir.Property {
	p := node.AsPropertySignature()
	t := ir.Prim(ir.PrimAny)
	if p.Type != nil {
		t = w.sess.TypeAt(context.Background(), p.Type)
	}
	if p.QuestionToken != nil {
		t = ir.NullableOf(t)
	}
	return ir.Property{
		Name:       p.Name().Text(),
		Type:       t,
		Visibility: ir.VisibilityPublic,
		HasGetter:  true,
		HasSetter:  p.ReadOnlyKeyword == nil,
		Provenance: w.provenance(node),
	}
}

func (w *Walker) lowerMethodSignature(node *ast.Node) ir.MethodDecl {
	m := node.AsMethodSignature()
	ret := ir.Prim(ir.PrimVoid)
	if m.Type != nil {
		ret = w.sess.TypeAt(context.Background(), m.Type)
	}
	return ir.MethodDecl{
		Name:       m.Name().Text(),
		Params:     w.lowerParams(m.Parameters),
		Return:     ret,
		Visibility: ir.VisibilityPublic,
		Provenance: w.provenance(node),
	}
}

// lowerTypeAlias lowers a `type` declaration. An object-shaped alias is
// lowered nominally to a class, per spec §4.4 ("Interface and object type
// alias declarations are lowered nominally"), using the facade's
// MembersOf so the class's fields come from the checker's resolved
// member list rather than a re-parse of the alias's type node. Any other
// alias shape (union, primitive, generic reference, …) stays a
// DeclTypeAlias wrapping the facade's resolved ir.Type.
func (w *Walker) lowerTypeAlias(node *ast.Node) ir.Declaration {
	alias := node.AsTypeAliasDeclaration()
	name := ""
	if n := alias.Name(); n != nil {
		name = n.Text()
	}
	typeParams := w.sess.TypeParametersOf(context.Background(), node)

	if alias.Type != nil && alias.Type.Kind == ast.KindTypeLiteral {
		fields := w.builder.MembersToFields(memberRefsFrom(w.sess.MembersOf(context.Background(), alias.Type)))
		decl := ir.Declaration{
			Kind:       ir.DeclClass,
			Name:       name,
			Visibility: ir.VisibilityPublic,
			TypeParams: typeParams,
			Provenance: w.provenance(node),
			Class:      &ir.ClassDecl{Fields: fields},
		}
		decl.RequiresSpecialisation = anyRequiresSpecialisation(typeParams)
		return decl
	}

	aliased := ir.Prim(ir.PrimAny)
	if alias.Type != nil {
		aliased = w.sess.TypeAt(context.Background(), alias.Type)
	}
	return ir.Declaration{
		Kind:       ir.DeclTypeAlias,
		Name:       name,
		Visibility: ir.VisibilityPublic,
		TypeParams: typeParams,
		Provenance: w.provenance(node),
		TypeAlias:  &ir.TypeAliasDecl{Aliased: aliased},
	}
}

func (w *Walker) lowerEnum(node *ast.Node) ir.Declaration {
	en := node.AsEnumDeclaration()
	name := ""
	if n := en.Name(); n != nil {
		name = n.Text()
	}

	underlying := ir.PrimInt
	var values []ir.EnumValue
	if en.Members != nil {
		for _, m := range en.Members.Nodes {
			member := m.AsEnumMember()
			ev := ir.EnumValue{Name: member.Name().Text(), Provenance: w.provenance(m)}
			if member.Initializer != nil {
				if member.Initializer.Kind == ast.KindStringLiteral {
					underlying = ir.PrimString
				}
				ev.Value = w.lowerLiteralExpr(member.Initializer)
			}
			values = append(values, ev)
		}
	}

	return ir.Declaration{
		Kind:       ir.DeclEnum,
		Name:       name,
		Visibility: ir.VisibilityPublic,
		Provenance: w.provenance(node),
		Enum:       &ir.EnumDecl{Underlying: underlying, Values: values},
	}
}

func (w *Walker) lowerVariableStatement(node *ast.Node) []ir.Declaration {
	vs := node.AsVariableStatement()
	if vs.DeclarationList == nil {
		return nil
	}
	list := vs.DeclarationList.AsVariableDeclarationList()
	if list.Declarations == nil {
		return nil
	}

	out := make([]ir.Declaration, 0, len(list.Declarations.Nodes))
	for _, d := range list.Declarations.Nodes {
		vd := d.AsVariableDeclaration()
		name := vd.Name().Text()

		var t ir.Type
		switch {
		case vd.Type != nil:
			t = w.sess.TypeAt(context.Background(), vd.Type)
		case vd.Initializer != nil:
			t = w.sess.ContextualTypeAt(context.Background(), vd.Initializer)
		default:
			t = ir.Prim(ir.PrimAny)
		}

		var init ir.Expression
		if vd.Initializer != nil {
			init = w.lowerLiteralExpr(vd.Initializer)
		}

		out = append(out, ir.Declaration{
			Kind:       ir.DeclVariable,
			Name:       name,
			Visibility: ir.VisibilityPublic,
			Provenance: w.provenance(d),
			Variable:   &ir.VariableDecl{Type: t, ReadOnly: true, Init: init},
		})
	}
	return out
}

// lowerLiteralExpr lowers the narrow slice of expression shapes that can
// appear as an enum member or module-level variable initializer:
// string/numeric/boolean literals and bare identifier references. Richer
// expression forms (calls, objects, templates) are out of scope for this
// pass — the corpus gives no grounding for walking executable statement
// bodies (tsgonest only ever reads declarative shapes, never function
// bodies), so function/method bodies are lowered with their signature
// only.
func (w *Walker) lowerLiteralExpr(node *ast.Node) ir.Expression {
	t := w.sess.TypeAt(context.Background(), node)
	switch node.Kind {
	case ast.KindStringLiteral:
		return ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralString, LiteralRepr: node.AsStringLiteral().Text, ResolvedType: t}
	case ast.KindNumericLiteral:
		return ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNumber, LiteralRepr: node.AsNumericLiteral().Text, ResolvedType: t}
	case ast.KindTrueKeyword:
		return ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralBool, LiteralRepr: "true", ResolvedType: t}
	case ast.KindFalseKeyword:
		return ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralBool, LiteralRepr: "false", ResolvedType: t}
	case ast.KindIdentifier:
		return ir.Expression{Kind: ir.ExprIdent, Name: node.AsIdentifier().Text, ResolvedType: t}
	default:
		return ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNull, ResolvedType: t}
	}
}

// memberRefsFrom adapts the facade's already-lowered MemberInfo list into
// the MemberRef shape Builder.MembersToFields consumes, via TypeRef's
// "resolved" passthrough kind (see irbuild.go's TypeRef.Resolved).
func memberRefsFrom(members []facade.MemberInfo) []MemberRef {
	out := make([]MemberRef, len(members))
	for i, m := range members {
		t := m.Type
		out[i] = MemberRef{
			Name:     m.Name,
			Type:     TypeRef{Kind: "resolved", Resolved: &t},
			Optional: m.Optional,
			ReadOnly: m.ReadOnly,
		}
	}
	return out
}

func anyRequiresSpecialisation(tps []ir.TypeParameter) bool {
	for _, tp := range tps {
		if tp.RequiresSpecialisation {
			return true
		}
	}
	return false
}

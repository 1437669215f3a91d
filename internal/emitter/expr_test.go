package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsoniclang/tsonic/internal/ir"
)

func ident(name string, t ir.Type) ir.Expression {
	return ir.Expression{Kind: ir.ExprIdent, Name: name, ResolvedType: t}
}

func TestExpr_Literal(t *testing.T) {
	got := Expr(ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralString, LiteralRepr: "hi"})
	assert.Equal(t, `"hi"`, got)

	got = Expr(ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNumber, LiteralRepr: "42"})
	assert.Equal(t, "42", got)
}

func TestExpr_Binary(t *testing.T) {
	left := ident("a", ir.Prim(ir.PrimInt))
	right := ident("b", ir.Prim(ir.PrimInt))
	got := Expr(ir.Expression{Kind: ir.ExprBinary, Op: "+", Left: &left, Right: &right})
	assert.Equal(t, "a + b", got)
}

func TestExpr_MemberAndIndex(t *testing.T) {
	obj := ident("xs", ir.ArrayOf(ir.Prim(ir.PrimInt)))
	idx := ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNumber, LiteralRepr: "0"}
	got := Expr(ir.Expression{Kind: ir.ExprIndex, Object: &obj, Index: &idx})
	assert.Equal(t, "xs[0]", got)
}

func TestExpr_ArrayMethodRoutesThroughRuntimeHelper(t *testing.T) {
	recv := ident("xs", ir.ArrayOf(ir.Prim(ir.PrimInt)))
	member := ir.Expression{Kind: ir.ExprMember, Object: &recv, Name: "map"}
	arg := ident("f", ir.Type{Kind: ir.KindFunction})
	call := ir.Expression{Kind: ir.ExprCall, Callee: &member, Args: []ir.Expression{arg}}

	got := Expr(call)
	assert.Equal(t, "Tsonic.Runtime.Arrays.map(xs, f)", got)
}

func TestExpr_StringMethodRoutesThroughRuntimeHelper(t *testing.T) {
	recv := ident("s", ir.Prim(ir.PrimString))
	member := ir.Expression{Kind: ir.ExprMember, Object: &recv, Name: "padStart"}
	arg := ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNumber, LiteralRepr: "5"}
	call := ir.Expression{Kind: ir.ExprCall, Callee: &member, Args: []ir.Expression{arg}}

	got := Expr(call)
	assert.Equal(t, "Tsonic.Runtime.Strings.padStart(s, 5)", got)
}

func TestExpr_PlainMethodCallIsUnrouted(t *testing.T) {
	recv := ident("acct", ir.ObjectRef("Account"))
	member := ir.Expression{Kind: ir.ExprMember, Object: &recv, Name: "deposit"}
	call := ir.Expression{Kind: ir.ExprCall, Callee: &member}
	assert.Equal(t, "acct.deposit()", Expr(call))
}

func TestExpr_NewAndSuperCall(t *testing.T) {
	callee := ident("Widget", ir.ObjectRef("Widget"))
	got := Expr(ir.Expression{Kind: ir.ExprNew, Callee: &callee})
	assert.Equal(t, "new Widget()", got)

	got = Expr(ir.Expression{Kind: ir.ExprSuperCall})
	assert.Equal(t, "base()", got)
}

func TestExpr_Template(t *testing.T) {
	name := ident("name", ir.Prim(ir.PrimString))
	tmpl := ir.Expression{Kind: ir.ExprTemplate, Parts: []ir.TemplatePart{
		{Literal: "Hello, "},
		{Expr: &name},
		{Literal: "!"},
	}}
	assert.Equal(t, `$"Hello, {name}!"`, Expr(tmpl))
}

func TestExpr_Ternary(t *testing.T) {
	test := ident("ok", ir.Prim(ir.PrimBool))
	cons := ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNumber, LiteralRepr: "1"}
	alt := ir.Expression{Kind: ir.ExprLiteral, LiteralKind: ir.LiteralNumber, LiteralRepr: "0"}
	got := Expr(ir.Expression{Kind: ir.ExprTernary, Test: &test, Cons: &cons, Alt: &alt})
	assert.Equal(t, "ok ? 1 : 0", got)
}

func TestTypeofCall(t *testing.T) {
	op := ident("x", ir.Prim(ir.PrimAny))
	assert.Equal(t, "Tsonic.Runtime.Reflect.TypeOf(x)", TypeofCall(op))
}

func TestInstanceofExpr(t *testing.T) {
	op := ident("x", ir.Prim(ir.PrimAny))
	assert.Equal(t, "x is Widget", InstanceofExpr(op, "Widget"))
}

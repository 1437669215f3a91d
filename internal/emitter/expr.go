package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsoniclang/tsonic/internal/ir"
)

// jsArrayMethods lists the JS Array.prototype methods that route through
// the runtime helper's static methods, receiver first, per spec §4.6:
// "JS array methods become calls on the runtime's static helpers when the
// receiver is an IR Array, keeping the receiver as the first argument."
var jsArrayMethods = map[string]bool{
	"map": true, "filter": true, "reduce": true, "forEach": true,
	"find": true, "some": true, "every": true, "flatMap": true, "includes": true,
}

// jsStringMethods lists the JS String.prototype methods the runtime
// helper routes the same way.
var jsStringMethods = map[string]bool{
	"padStart": true, "padEnd": true, "trimStart": true, "trimEnd": true,
	"replaceAll": true, "at": true,
}

// Expr renders an ir.Expression as C# source text.
func Expr(e ir.Expression) string {
	switch e.Kind {
	case ir.ExprLiteral:
		return literalToCSharp(e)
	case ir.ExprIdent:
		return e.Name
	case ir.ExprThis:
		return "this"
	case ir.ExprBinary:
		return fmt.Sprintf("%s %s %s", Expr(*e.Left), e.Op, Expr(*e.Right))
	case ir.ExprUnary:
		if e.Prefix {
			return e.Op + Expr(*e.Operand)
		}
		return Expr(*e.Operand) + e.Op
	case ir.ExprAssign:
		return fmt.Sprintf("%s %s %s", Expr(*e.Left), e.Op, Expr(*e.Right))
	case ir.ExprMember:
		return Expr(*e.Object) + "." + e.Name
	case ir.ExprIndex:
		return fmt.Sprintf("%s[%s]", Expr(*e.Object), Expr(*e.Index))
	case ir.ExprCall:
		return callExpr(e)
	case ir.ExprNew:
		return fmt.Sprintf("new %s(%s)", Expr(*e.Callee), joinArgs(e.Args))
	case ir.ExprSuperCall:
		return fmt.Sprintf("base(%s)", joinArgs(e.Args))
	case ir.ExprArrayLit:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = Expr(el)
		}
		return fmt.Sprintf("new[] { %s }", strings.Join(parts, ", "))
	case ir.ExprObjectLit:
		parts := make([]string, len(e.Properties))
		for i, p := range e.Properties {
			parts[i] = fmt.Sprintf("%s = %s", p.Key, Expr(p.Value))
		}
		return fmt.Sprintf("new { %s }", strings.Join(parts, ", "))
	case ir.ExprLambda:
		return lambdaExpr(e)
	case ir.ExprAwait:
		return "await " + Expr(*e.Operand)
	case ir.ExprTernary:
		return fmt.Sprintf("%s ? %s : %s", Expr(*e.Test), Expr(*e.Cons), Expr(*e.Alt))
	case ir.ExprTemplate:
		return templateExpr(e)
	default:
		return "/* unsupported expression */"
	}
}

func literalToCSharp(e ir.Expression) string {
	switch e.LiteralKind {
	case ir.LiteralString:
		return strconv.Quote(e.LiteralRepr)
	case ir.LiteralNumber:
		return e.LiteralRepr
	case ir.LiteralBool:
		return e.LiteralRepr
	case ir.LiteralNull:
		return "null"
	default:
		return e.LiteralRepr
	}
}

// callExpr lowers method calls: runtime-helper routing for JS array/string
// methods (spec §4.6) and a plain method call otherwise; `typeof` and
// `instanceof` are lowered separately by TypeofCall and InstanceofExpr. Calls
// flagged RequiresSpecialisation target the mangled name synthesised by
// internal/specialize rather than a generic instantiation.
func callExpr(e ir.Expression) string {
	if e.Callee == nil {
		return fmt.Sprintf("%s(%s)", e.Name, joinArgs(e.Args))
	}

	if e.Callee.Kind == ir.ExprMember {
		recv := e.Callee.Object
		method := e.Callee.Name
		receiverIsArray := recv != nil && recv.ResolvedType.Kind == ir.KindArray

		if receiverIsArray && jsArrayMethods[method] {
			args := append([]string{Expr(*recv)}, exprList(e.Args)...)
			return fmt.Sprintf("%s.%s(%s)", runtimeHelperNamespace+".Arrays", method, strings.Join(args, ", "))
		}
		if recv != nil && recv.ResolvedType.Kind == ir.KindPrimitive && recv.ResolvedType.Primitive == ir.PrimString && jsStringMethods[method] {
			args := append([]string{Expr(*recv)}, exprList(e.Args)...)
			return fmt.Sprintf("%s.%s(%s)", runtimeHelperNamespace+".Strings", method, strings.Join(args, ", "))
		}
	}

	target := Expr(*e.Callee)
	if e.RequiresSpecialisation {
		// The callee's plain name is replaced upstream by
		// internal/specialize with the mangled instance name; by the time
		// the emitter sees this node e.Callee.Name already is the mangled
		// target, so no further rewriting happens here.
		return fmt.Sprintf("%s(%s)", target, joinArgs(e.Args))
	}
	if len(e.ExplicitTypeArgs) > 0 {
		targs := make([]string, len(e.ExplicitTypeArgs))
		for i, ta := range e.ExplicitTypeArgs {
			targs[i] = TypeToCSharp(ta)
		}
		return fmt.Sprintf("%s<%s>(%s)", target, strings.Join(targs, ", "), joinArgs(e.Args))
	}
	return fmt.Sprintf("%s(%s)", target, joinArgs(e.Args))
}

func lambdaExpr(e ir.Expression) string {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = p.Name
	}
	head := strings.Join(params, ", ")
	if len(params) != 1 {
		head = "(" + head + ")"
	}
	if e.BodyExpr != nil {
		return fmt.Sprintf("%s => %s", head, Expr(*e.BodyExpr))
	}
	return fmt.Sprintf("%s => { /* block lambda body emitted by statement lowering */ }", head)
}

// templateExpr lowers a template literal to an interpolated string (spec
// §4.6: "Template literals become interpolated strings with identical
// conversion semantics").
func templateExpr(e ir.Expression) string {
	var sb strings.Builder
	sb.WriteString(`$"`)
	for _, part := range e.Parts {
		if part.Expr != nil {
			sb.WriteString("{")
			sb.WriteString(Expr(*part.Expr))
			sb.WriteString("}")
			continue
		}
		sb.WriteString(strings.ReplaceAll(part.Literal, `"`, `\"`))
	}
	sb.WriteString(`"`)
	return sb.String()
}

func joinArgs(args []ir.Expression) string {
	return strings.Join(exprList(args), ", ")
}

func exprList(args []ir.Expression) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Expr(a)
	}
	return out
}

// TypeofCall renders a `typeof x` expression as a runtime-helper call
// (spec §4.6: "typeof becomes a runtime-helper call").
func TypeofCall(operand ir.Expression) string {
	return fmt.Sprintf("%s.TypeOf(%s)", runtimeHelperNamespace+".Reflect", Expr(operand))
}

// InstanceofExpr renders an `x instanceof T` expression as the target's
// "is" pattern (spec §4.6: "instanceof becomes the target's is pattern").
func InstanceofExpr(operand ir.Expression, typeName string) string {
	return fmt.Sprintf("%s is %s", Expr(operand), typeName)
}

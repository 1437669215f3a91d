package emitter

import (
	"fmt"
	"strings"

	"github.com/tsoniclang/tsonic/internal/ir"
)

// TypeToCSharp renders an ir.Type as a C# type reference.
func TypeToCSharp(t ir.Type) string {
	switch t.Kind {
	case ir.KindPrimitive:
		return primitiveToCSharp(t.Primitive)
	case ir.KindNullable:
		inner := TypeToCSharp(*t.Inner)
		if strings.HasSuffix(inner, "?") {
			return inner
		}
		return inner + "?"
	case ir.KindArray:
		return TypeToCSharp(*t.Inner) + "[]"
	case ir.KindList:
		return "List<" + TypeToCSharp(*t.Inner) + ">"
	case ir.KindTuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = TypeToCSharp(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ir.KindObjectRef:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = TypeToCSharp(a)
		}
		return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
	case ir.KindFunction:
		return functionTypeToCSharp(t.Func)
	case ir.KindTypeParam:
		if t.TypeParam != nil {
			return t.TypeParam.Name
		}
		return "object"
	case ir.KindPromise:
		if t.Inner != nil && t.Inner.IsVoid() {
			return "Task"
		}
		return "Task<" + TypeToCSharp(*t.Inner) + ">"
	case ir.KindGenerator:
		if t.Generator == nil {
			return "IAsyncEnumerable<object>"
		}
		return "IAsyncEnumerable<" + TypeToCSharp(t.Generator.Yield) + ">"
	default:
		return "object"
	}
}

func primitiveToCSharp(p ir.Primitive) string {
	switch p {
	case ir.PrimNumber:
		return "double"
	case ir.PrimString:
		return "string"
	case ir.PrimBool:
		return "bool"
	case ir.PrimVoid:
		return "void"
	case ir.PrimNull:
		return "object?"
	case ir.PrimAny, ir.PrimUnknown:
		return "object"
	case ir.PrimInt:
		return "int"
	case ir.PrimLong:
		return "long"
	case ir.PrimDecimal:
		return "decimal"
	case ir.PrimFloat:
		return "float"
	case ir.PrimByte:
		return "byte"
	case ir.PrimDouble:
		return "double"
	default:
		return "object"
	}
}

func functionTypeToCSharp(f *ir.FunctionType) string {
	if f == nil {
		return "Action"
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = TypeToCSharp(p.Type)
	}
	ret := TypeToCSharp(f.Return)
	if f.Return.IsVoid() {
		if len(params) == 0 {
			return "Action"
		}
		return fmt.Sprintf("Action<%s>", strings.Join(params, ", "))
	}
	if len(params) == 0 {
		return fmt.Sprintf("Func<%s>", ret)
	}
	return fmt.Sprintf("Func<%s, %s>", strings.Join(params, ", "), ret)
}

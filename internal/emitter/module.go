package emitter

import (
	"fmt"
	"strings"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// TimestampSource returns the text stamped into a module's banner comment.
// The default returns a fixed, non-clock value; golden tests inject their
// own stub so diffs stay byte-exact across runs (spec §4.6: "the timestamp
// source is configurable so golden tests can stub it").
type TimestampSource func() string

// FixedTimestamp returns a TimestampSource that always yields the given
// literal string, the form golden tests use.
func FixedTimestamp(s string) TimestampSource {
	return func() string { return s }
}

// Options configures one module emission pass.
type Options struct {
	Timestamp           TimestampSource
	NeedsRuntimeHelpers  bool
}

// EmitModule renders one IR Module as a complete .cs file: banner, using
// groups, namespace block, then each declaration in source order. Returns
// the rendered text and any warnings accumulated into bag (name-collision
// suffix notices).
func EmitModule(mod ir.Module, prog *ir.Program, opts Options, bag *diagnostic.Bag) string {
	p := NewPrinter()

	ts := "unknown"
	if opts.Timestamp != nil {
		ts = opts.Timestamp()
	}
	p.Line("// <auto-generated>")
	p.Line("//   source: %s", mod.FileName)
	p.Line("//   generated: %s", ts)
	p.Line("// </auto-generated>")
	p.Blank()

	framework, project := partitionNamespaces(mod, prog)
	groups := UsingGroups(framework, project, opts.NeedsRuntimeHelpers)
	if len(groups) > 0 {
		WriteUsings(p, groups)
		p.Blank()
	}

	names := NewNameTable()
	p.OpenBrace("namespace %s", mod.Namespace)
	for i, d := range mod.Declarations {
		if i > 0 {
			p.Blank()
		}
		Decl(p, d, names, bag)
	}
	p.CloseBrace()

	return p.String()
}

// partitionNamespaces splits a module's resolved imports into the
// framework-namespace group (ImportDotnetNS) and the project-namespace
// group (ImportLocalTS, resolved to the target module's Namespace).
func partitionNamespaces(mod ir.Module, prog *ir.Program) (framework, project []string) {
	for _, imp := range mod.Imports {
		switch imp.Kind {
		case ir.ImportDotnetNS:
			framework = append(framework, imp.Namespace)
		case ir.ImportLocalTS:
			if target, ok := prog.ModuleByPath(imp.ModulePath); ok && target.Namespace != mod.Namespace {
				project = append(project, target.Namespace)
			}
		}
	}
	return framework, project
}

// EntryPointWrapper renders the synthesised Program.cs that bridges
// tsonic's 5-state entry-point machine (spec §5) to a single C# process
// entry point. state and target come from the IR Builder's
// DecideEntryPoint result; target is the fully qualified method to invoke
// for ExportMain / TopLevelPlusMain, and for the purely top-level forms
// the fully qualified class whose RunTopLevel method the wrapper calls
// (the top-level statements themselves are emitted inline in the module).
// Every state but NoExport needs a non-empty target (see
// ValidateEntryTarget).
func EntryPointWrapper(namespace, target string, state ir.EntryPointState, opts Options) string {
	p := NewPrinter()
	ts := "unknown"
	if opts.Timestamp != nil {
		ts = opts.Timestamp()
	}
	p.Line("// <auto-generated>")
	p.Line("//   synthesised entry point")
	p.Line("//   generated: %s", ts)
	p.Line("// </auto-generated>")
	p.Blank()
	p.Line("using System.Threading.Tasks;")
	p.Blank()
	p.OpenBrace("namespace %s", namespace)
	p.OpenBrace("internal static class Program")
	switch state {
	case ir.EntryExportMain, ir.EntryTopLevelPlusMain:
		p.OpenBrace("public static async Task Main(string[] args)")
		p.Line("await %s(args);", target)
		p.CloseBrace()
	case ir.EntryTopLevelOnly, ir.EntryTopLevelPlusExports:
		p.OpenBrace("public static async Task Main(string[] args)")
		p.Line("await %s.RunTopLevel(args);", target)
		p.CloseBrace()
	default:
		p.OpenBrace("public static void Main(string[] args)")
		p.Line("// no export, no top-level statements: nothing to run")
		p.CloseBrace()
	}
	p.CloseBrace()
	p.CloseBrace()
	return p.String()
}

// errInvalidState is returned by callers that validate state/target pairing
// before calling EntryPointWrapper; kept here so the package has a single
// named sentinel for this class of caller-side mistake.
var errInvalidState = fmt.Errorf("emitter: entry point target required for this state")

// ValidateEntryTarget reports errInvalidState when state requires a
// non-empty target but none was supplied.
func ValidateEntryTarget(target string, state ir.EntryPointState) error {
	switch state {
	case ir.EntryExportMain, ir.EntryTopLevelPlusMain, ir.EntryTopLevelOnly, ir.EntryTopLevelPlusExports:
		if strings.TrimSpace(target) == "" {
			return errInvalidState
		}
	}
	return nil
}

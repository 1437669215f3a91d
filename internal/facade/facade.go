// Package facade is the single boundary to the TypeScript Type Checker
// (spec §4.3). No other package may import shim/checker directly; every
// *shimchecker.Type that crosses this boundary is translated to an
// ir.Type before it leaves. The Program/host construction is grounded on
// tsgonest's internal/compiler package; the checker acquisition and
// type-flag classification are grounded on internal/analyzer, which is
// tsgonest's own sole caller of shim/checker.
package facade

import (
	"context"
	"fmt"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/bundled"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/cachedvfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// maxConditionalExpansionDepth bounds conditional/mapped type expansion
// (spec §4.3: "guard against infinite expansion (depth cap → diagnostic
// TSN7202)").
const maxConditionalExpansionDepth = 64

// Session owns one compilation's Type Checker session. It is created once
// per compilation and released on every exit path, including panics — the
// caller must always reach the deferred Close.
type Session struct {
	fs             vfs.FS
	host           shimcompiler.CompilerHost
	program        *shimcompiler.Program
	checker        *shimchecker.Checker
	releaseChecker func()
	closed         bool
}

// NewDefaultFS builds the default virtual filesystem: the OS filesystem
// wrapped with an in-memory cache and bundled standard-library type
// declarations, matching tsgonest's CreateDefaultFS.
func NewDefaultFS() vfs.FS {
	return bundled.WrapFS(cachedvfs.From(osvfs.FS()))
}

// NewDefaultHost builds the default compiler host for cwd over fs.
func NewDefaultHost(cwd string, fs vfs.FS) shimcompiler.CompilerHost {
	return shimcompiler.NewCompilerHost(cwd, fs, bundled.LibPath(), nil, nil)
}

// Open parses tsconfigPath and constructs a Program + Checker session.
// The program's files are the ones the parsed tsconfig selects: Open takes
// no entry list or type roots of its own, and callers read the resulting
// file set back through SourceFiles (the pipeline derives its Program
// Builder entries from it after Open returns).
func Open(cwd, tsconfigPath string) (*Session, []diagnostic.Diagnostic, error) {
	fs := NewDefaultFS()
	host := NewDefaultHost(cwd, fs)

	resolvedConfigPath := tspath.ResolvePath(cwd, tsconfigPath)
	if !fs.FileExists(resolvedConfigPath) {
		return nil, nil, fmt.Errorf("facade: tsconfig not found at %s", resolvedConfigPath)
	}

	parsedConfig, tsDiags := tsoptions.GetParsedCommandLineOfConfigFile(tsconfigPath, &core.CompilerOptions{}, nil, host, nil)
	if len(tsDiags) > 0 {
		return nil, convertDiagnostics(tsDiags), nil
	}
	if parsedConfig != nil && len(parsedConfig.Errors) > 0 {
		return nil, convertDiagnostics(parsedConfig.Errors), nil
	}

	program := shimcompiler.NewProgram(shimcompiler.ProgramOptions{
		Config:                      parsedConfig,
		SingleThreaded:              core.TSTrue,
		Host:                        host,
		UseSourceOfProjectReference: true,
	})
	if program == nil {
		return nil, nil, fmt.Errorf("facade: failed to construct program for %s", tsconfigPath)
	}

	if diags := program.GetProgramDiagnostics(); len(diags) > 0 {
		return nil, convertDiagnostics(diags), nil
	}
	program.BindSourceFiles()

	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())

	return &Session{fs: fs, host: host, program: program, checker: checker, releaseChecker: release}, nil, nil
}

// Close releases the session's checker and program state. Safe to call
// more than once; every caller should defer it immediately after Open
// succeeds (spec §5: "scoped acquisition of the session with guaranteed
// release on all exit paths, including panics").
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.releaseChecker != nil {
		s.releaseChecker()
	}
	s.program = nil
	s.checker = nil
}

// SourceFiles returns every non-declaration source file in the program —
// the Program Builder's candidate module set.
func (s *Session) SourceFiles() []*ast.SourceFile {
	var files []*ast.SourceFile
	for _, f := range s.program.GetSourceFiles() {
		if !f.IsDeclarationFile {
			files = append(files, f)
		}
	}
	return files
}

// TypeAt resolves the IR type of a node's evaluated type (spec §4.3,
// "type at node"). The checker's internal *shimchecker.Type is never
// returned to the caller — only the lowered ir.Type.
//
// Grounded on tsgonest's TypeWalker.walkSingleType (internal/analyzer/
// type_walker.go): resolve a symbol or type node through the checker, then
// classify the result with a single TypeFlags switch. tsgonest only needs
// the primitive/literal cases that switch covers before handing object
// types to its own registry; member-shaped types here are the same
// boundary — internal/irbuild asks the facade for member lists
// (MembersOf) rather than walking a *shimchecker.Type itself.
func (s *Session) TypeAt(ctx context.Context, node *ast.Node) ir.Type {
	return lowerFromCheckerType(s.checkerTypeOf(node))
}

// checkerTypeOf resolves node's raw *shimchecker.Type without lowering it,
// shared by every facade operation that needs to inspect the checker type
// itself (MembersOf, ExpandAliasChain) before deciding how to turn it into
// IR. Grounded the same way as TypeAt.
func (s *Session) checkerTypeOf(node *ast.Node) *shimchecker.Type {
	if node == nil || s.checker == nil {
		return nil
	}
	if sym := s.checker.GetSymbolAtLocation(node); sym != nil {
		return shimchecker.Checker_getTypeOfSymbol(s.checker, sym)
	}
	return shimchecker.Checker_getTypeFromTypeNode(s.checker, node)
}

// ContextualTypeAt resolves the IR type of a node's contextual type (spec
// §4.3, "contextual type at node"). The only contextual position tsonic
// needs is a variable declarator's initializer under an explicit type
// annotation (`const x: Foo = ...`) — the declared annotation, not the
// initializer's own inferred type, is what the IR Builder lowers a
// variable's declared type from. Any other position falls back to the
// node's own evaluated type.
func (s *Session) ContextualTypeAt(ctx context.Context, node *ast.Node) ir.Type {
	if node == nil {
		return ir.Prim(ir.PrimUnknown)
	}
	if parent := node.Parent; parent != nil && parent.Kind == ast.KindVariableDeclaration {
		if decl := parent.AsVariableDeclaration(); decl != nil && decl.Type != nil {
			return s.TypeAt(ctx, decl.Type)
		}
	}
	return s.TypeAt(ctx, node)
}

// MemberInfo is one resolved object member, the facade's answer to spec
// §4.3's "member list of object type" operation.
type MemberInfo struct {
	Name     string
	Type     ir.Type
	Optional bool
	ReadOnly bool
}

// MembersOf resolves node's object type and returns its member list,
// driving the IR Builder's lowering of interface bodies and object-shaped
// type aliases (internal/irbuild/decl.go's MembersToFields) from real
// source instead of hand-built test fixtures.
//
// Grounded on TypeWalker.analyzeObjectProperties (internal/analyzer/
// type_walker.go): Checker_getPropertiesOfType returns the member symbol
// list, Checker_getTypeOfSymbol resolves each member's type, and
// Checker_isReadonlySymbol classifies mutability the same way the member
// schema extraction does.
func (s *Session) MembersOf(ctx context.Context, node *ast.Node) []MemberInfo {
	t := s.checkerTypeOf(node)
	if t == nil || s.checker == nil {
		return nil
	}
	props := shimchecker.Checker_getPropertiesOfType(s.checker, t)
	out := make([]MemberInfo, 0, len(props))
	for _, prop := range props {
		out = append(out, MemberInfo{
			Name:     prop.Name,
			Type:     lowerFromCheckerType(shimchecker.Checker_getTypeOfSymbol(s.checker, prop)),
			ReadOnly: shimchecker.Checker_isReadonlySymbol(s.checker, prop),
			Optional: symbolIsOptional(prop),
		})
	}
	return out
}

// symbolIsOptional inspects a member symbol's declaration site for a `?`
// token, the same QuestionToken field tsgonest reads off a parameter
// declaration (internal/analyzer/routes.go: "paramDecl.QuestionToken ==
// nil") applied to the property declaration kinds a member symbol's
// ValueDeclaration can be.
func symbolIsOptional(sym *shimchecker.Symbol) bool {
	decl := sym.ValueDeclaration
	if decl == nil {
		return false
	}
	switch decl.Kind {
	case ast.KindPropertySignature:
		return decl.AsPropertySignature().QuestionToken != nil
	case ast.KindPropertyDeclaration:
		return decl.AsPropertyDeclaration().QuestionToken != nil
	}
	return false
}

// ResolveSymbol resolves node to the declaration node its symbol points
// at (spec §4.3, "resolve symbol to declaration"), e.g. an identifier
// reference to the class/function/variable declaring it.
//
// Grounded on internal/analyzer/decorator_origin.go's origin resolution,
// which reads a resolved symbol's ValueDeclaration/Declarations fields the
// same way.
func (s *Session) ResolveSymbol(ctx context.Context, node *ast.Node) *ast.Node {
	if node == nil || s.checker == nil {
		return nil
	}
	sym := s.checker.GetSymbolAtLocation(node)
	if sym == nil {
		return nil
	}
	if sym.ValueDeclaration != nil {
		return sym.ValueDeclaration
	}
	if len(sym.Declarations) > 0 {
		return sym.Declarations[0]
	}
	return nil
}

// TypeParametersOf resolves a class/interface/function/method
// declaration's own type parameter list (spec §4.3, "type parameters of
// declaration"), reading the declaration's TypeParameters node list the
// same way tsgonest reads a parameter list (routes.go:
// "methodDecl.Parameters.Nodes").
func (s *Session) TypeParametersOf(ctx context.Context, declNode *ast.Node) []ir.TypeParameter {
	list := typeParameterList(declNode)
	if list == nil {
		return nil
	}
	out := make([]ir.TypeParameter, 0, len(list.Nodes))
	for i, n := range list.Nodes {
		tp := n.AsTypeParameterDeclaration()
		if tp == nil {
			continue
		}
		param := ir.TypeParameter{Name: tp.Name().Text()}
		if tp.Constraint != nil {
			constraintType := s.TypeAt(ctx, tp.Constraint)
			if constraintType.Kind == ir.KindObjectRef {
				param.NominalConstraint = &constraintType
			}
			if members := s.MembersOf(ctx, tp.Constraint); len(members) > 0 {
				sc := &ir.StructuralConstraint{Members: make([]ir.StructuralMember, len(members))}
				for j, m := range members {
					sc.Members[j] = ir.StructuralMember{Name: m.Name, Type: m.Type, Readonly: m.ReadOnly}
				}
				param.StructuralConstraint = sc
				param.RequiresSpecialisation = true
			}
		}
		_ = i
		out = append(out, param)
	}
	return out
}

// typeParameterList returns declNode's TypeParameters node list across
// every declaration kind the IR Builder lowers generics for.
func typeParameterList(declNode *ast.Node) *ast.NodeList {
	if declNode == nil {
		return nil
	}
	switch declNode.Kind {
	case ast.KindClassDeclaration:
		return declNode.AsClassDeclaration().TypeParameters
	case ast.KindInterfaceDeclaration:
		return declNode.AsInterfaceDeclaration().TypeParameters
	case ast.KindFunctionDeclaration:
		return declNode.AsFunctionDeclaration().TypeParameters
	case ast.KindMethodDeclaration:
		return declNode.AsMethodDeclaration().TypeParameters
	case ast.KindTypeAliasDeclaration:
		return declNode.AsTypeAliasDeclaration().TypeParameters
	}
	return nil
}

// IsAssignableTo reports whether from can be used where to is expected
// (spec §4.3, "is assignable to"). No assignability query exists anywhere
// in the confirmed shim/checker surface tsgonest exercises — tsgonest
// never needs it, since its own member extraction only ever reads a
// type's own shape, never compares two types against each other — so this
// is implemented as a structural comparison over already-lowered ir.Type
// values: nominal types are assignable only to a type with the same name
// (base classes and implemented interfaces are not consulted), and
// anything is assignable to `any`/`unknown`.
func (s *Session) IsAssignableTo(from, to ir.Type) bool {
	if to.Primitive == ir.PrimAny || to.Primitive == ir.PrimUnknown {
		return true
	}
	if from.Equal(to) {
		return true
	}
	if from.Kind == ir.KindObjectRef && to.Kind == ir.KindObjectRef {
		return from.Name == to.Name
	}
	return false
}

// IsStructuralSupertypeOf reports whether every member of narrower is
// present, with a compatible type, in wider's member list (spec §4.3, "is
// structural supertype of") — the test the Adapter Generator uses to
// decide whether an already-synthesised adapter satisfies a new
// occurrence of the same structural constraint instead of minting a
// duplicate. Built on MembersOf for the same reason IsAssignableTo is
// built on Equal: no structural-comparison query exists in the confirmed
// checker surface.
func (s *Session) IsStructuralSupertypeOf(ctx context.Context, wider, narrower *ast.Node) bool {
	wideMembers := s.MembersOf(ctx, wider)
	byName := make(map[string]MemberInfo, len(wideMembers))
	for _, m := range wideMembers {
		byName[m.Name] = m
	}
	for _, need := range s.MembersOf(ctx, narrower) {
		have, ok := byName[need.Name]
		if !ok || !s.IsAssignableTo(have.Type, need.Type) {
			return false
		}
	}
	return true
}

// ExpandAliasChain follows node's symbol through every level of alias
// indirection to its final aliased type (spec §4.3, "expand alias
// chain"), guarded against an unbounded chain by guard (spec §4.3:
// "conditional/mapped type expansion with a guard against infinite
// expansion (depth cap → diagnostic TSN7202)").
//
// Grounded on internal/analyzer/decorator_origin.go's
// "checker.GetAliasedSymbol(sym)" — the only alias-following call in the
// corpus — walked in a loop instead of tsgonest's single hop, since an
// import alias chain (tsgonest's use) and a type alias chain (tsonic's)
// are the same shape: repeated symbol indirection to a fixed point.
func (s *Session) ExpandAliasChain(ctx context.Context, node *ast.Node, guard *ExpansionGuard, file string, line, col int) (ir.Type, *diagnostic.Diagnostic) {
	if node == nil || s.checker == nil {
		return ir.Prim(ir.PrimUnknown), nil
	}
	sym := s.checker.GetSymbolAtLocation(node)
	for sym != nil {
		ok, diag := guard.Step(file, line, col)
		if !ok {
			return ir.Prim(ir.PrimAny), &diag
		}
		next := s.checker.GetAliasedSymbol(sym)
		if next == nil || next == sym {
			break
		}
		sym = next
	}
	if sym == nil {
		return s.TypeAt(ctx, node), nil
	}
	return lowerFromCheckerType(shimchecker.Checker_getTypeOfSymbol(s.checker, sym)), nil
}

// lowerFromCheckerType maps a resolved *shimchecker.Type's TypeFlags to an
// ir.Type for the primitive/literal cases tsonic resolves without a full
// structural walk.
func lowerFromCheckerType(t *shimchecker.Type) ir.Type {
	if t == nil {
		return ir.Prim(ir.PrimUnknown)
	}

	flags := t.Flags()
	switch {
	case flags&(shimchecker.TypeFlagsString|shimchecker.TypeFlagsStringLiteral) != 0:
		return ir.Prim(ir.PrimString)
	case flags&(shimchecker.TypeFlagsNumber|shimchecker.TypeFlagsNumberLiteral) != 0:
		return ir.Prim(ir.PrimNumber)
	case flags&(shimchecker.TypeFlagsBoolean|shimchecker.TypeFlagsBooleanLiteral) != 0:
		return ir.Prim(ir.PrimBool)
	case flags&shimchecker.TypeFlagsVoid != 0:
		return ir.Prim(ir.PrimVoid)
	case flags&(shimchecker.TypeFlagsNull|shimchecker.TypeFlagsUndefined) != 0:
		return ir.Prim(ir.PrimNull)
	case flags&shimchecker.TypeFlagsAny != 0:
		return ir.Prim(ir.PrimAny)
	default:
		return ir.Prim(ir.PrimUnknown)
	}
}

// ExpansionGuard tracks conditional/mapped type expansion depth for a
// single alias-expansion chain, returning a TSN7202 diagnostic once the
// cap is exceeded instead of recursing indefinitely.
type ExpansionGuard struct {
	depth int
}

// Step advances the guard by one expansion level. ok is false once the
// depth cap is hit; the caller should stop expanding and report the
// returned diagnostic.
func (g *ExpansionGuard) Step(file string, line, col int) (ok bool, diag diagnostic.Diagnostic) {
	g.depth++
	if g.depth > maxConditionalExpansionDepth {
		return false, diagnostic.Diagnostic{
			Code:     diagnostic.CodeConditionalNonTerminate,
			Severity: diagnostic.SeverityError,
			Message:  fmt.Sprintf("conditional/mapped type expansion exceeded depth %d without reaching a fixed point", maxConditionalExpansionDepth),
			File:     file,
			Line:     line,
			Column:   col,
		}
	}
	return true, diagnostic.Diagnostic{}
}

// LineAndColumn converts node's absolute source position to a 1-based
// line/column pair, the same conversion convertDiagnostics applies to a
// checker diagnostic's position (shim/scanner only ever hands back a
// 0-based ECMA line/character pair). Leading trivia (whitespace and
// comments, which a node's Pos() includes) is skipped first, so the pair
// points at the node's first token.
func LineAndColumn(sf *ast.SourceFile, pos int) (line, col int) {
	l, c := shimscanner.GetECMALineAndCharacterOfPosition(sf, shimscanner.SkipTrivia(sf.Text(), pos))
	return l + 1, c + 1
}

// convertDiagnostics lowers the checker's own *ast.Diagnostic list to
// tsonic's diagnostic.Diagnostic, resolving each one's line/column the way
// tsgonest's writePlainDiagnostic does: shim/scanner converts the
// diagnostic's absolute source position to an ECMA line/character pair,
// since *ast.Diagnostic only carries the byte offset.
func convertDiagnostics(tsdiags []*ast.Diagnostic) []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, len(tsdiags))
	for i, d := range tsdiags {
		file := ""
		line, col := 0, 0
		if d.File() != nil {
			file = d.File().FileName()
			l, c := shimscanner.GetECMALineAndCharacterOfPosition(d.File(), d.Pos())
			line, col = l+1, c+1
		}
		out[i] = diagnostic.Diagnostic{
			Code:     diagnostic.CodeInternal,
			Severity: diagnostic.SeverityError,
			Message:  d.String(),
			File:     file,
			Line:     line,
			Column:   col,
		}
	}
	return out
}

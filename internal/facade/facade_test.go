package facade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

// openTestSession writes tsconfig.json plus src under a temp dir and opens
// a real Session over it, for tests exercising the checker-backed
// operations no hand-built *Session can stand in for.
func openTestSession(t *testing.T, name, src string) (*Session, *ast.SourceFile) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsconfig.json"),
		[]byte(`{"compilerOptions":{"strict":true},"include":["**/*.ts"]}`), 0o644))

	sess, diags, err := Open(dir, "tsconfig.json")
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, sess)

	for _, sf := range sess.SourceFiles() {
		if filepath.Base(sf.FileName()) == name {
			return sess, sf
		}
	}
	t.Fatalf("source file %q not found in session", name)
	return nil, nil
}

func findClass(sf *ast.SourceFile, name string) *ast.Node {
	for _, stmt := range sf.Statements.Nodes {
		if stmt.Kind == ast.KindClassDeclaration && stmt.AsClassDeclaration().Name().Text() == name {
			return stmt
		}
	}
	return nil
}

func TestLowerFromCheckerType_NilIsUnknown(t *testing.T) {
	got := lowerFromCheckerType(nil)
	assert.Equal(t, ir.KindPrimitive, got.Kind)
	assert.Equal(t, ir.PrimUnknown, got.Primitive)
}

func TestExpansionGuard_TripsAtCap(t *testing.T) {
	g := &ExpansionGuard{}
	var lastDiag diagnostic.Diagnostic
	ok := true
	for i := 0; i < maxConditionalExpansionDepth+1; i++ {
		ok, lastDiag = g.Step("a.ts", 1, 1)
		if !ok {
			break
		}
	}
	assert.False(t, ok)
	assert.Equal(t, diagnostic.CodeConditionalNonTerminate, lastDiag.Code)
}

func TestExpansionGuard_AllowsWithinCap(t *testing.T) {
	g := &ExpansionGuard{}
	ok, _ := g.Step("a.ts", 1, 1)
	assert.True(t, ok)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s := &Session{}
	s.Close()
	s.Close()
	assert.True(t, s.closed)
}

func TestSession_TypeAt_NilNode(t *testing.T) {
	s := &Session{}
	got := s.TypeAt(nil, nil)
	assert.Equal(t, ir.PrimUnknown, got.Primitive)
}

func TestSession_ContextualTypeAt_NilNode(t *testing.T) {
	s := &Session{}
	got := s.ContextualTypeAt(context.Background(), nil)
	assert.Equal(t, ir.PrimUnknown, got.Primitive)
}

func TestSession_MembersOf(t *testing.T) {
	sess, sf := openTestSession(t, "widget.ts", `export class Widget {
  name: string;
  count?: number;
  readonly id: string;
}
`)
	defer sess.Close()

	class := findClass(sf, "Widget")
	require.NotNil(t, class)

	members := sess.MembersOf(context.Background(), class.Name())
	require.Len(t, members, 3)

	byName := map[string]MemberInfo{}
	for _, m := range members {
		byName[m.Name] = m
	}
	assert.Equal(t, ir.PrimString, byName["name"].Type.Primitive)
	assert.False(t, byName["name"].Optional)
	assert.True(t, byName["count"].Optional)
	assert.True(t, byName["id"].ReadOnly)
}

func TestSession_ResolveSymbol(t *testing.T) {
	sess, sf := openTestSession(t, "widget.ts", `export class Widget {}
const w = Widget;
`)
	defer sess.Close()

	class := findClass(sf, "Widget")
	require.NotNil(t, class)

	resolved := sess.ResolveSymbol(context.Background(), class.Name())
	require.NotNil(t, resolved)
	assert.Equal(t, ast.KindClassDeclaration, resolved.Kind)
}

func TestSession_ResolveSymbol_NilNode(t *testing.T) {
	s := &Session{}
	assert.Nil(t, s.ResolveSymbol(context.Background(), nil))
}

func TestSession_TypeParametersOf_Nominal(t *testing.T) {
	sess, sf := openTestSession(t, "box.ts", `export class Box<T extends Widget> {
  value: T;
}
export class Widget {}
`)
	defer sess.Close()

	class := findClass(sf, "Box")
	require.NotNil(t, class)

	params := sess.TypeParametersOf(context.Background(), class)
	require.Len(t, params, 1)
	assert.Equal(t, "T", params[0].Name)
}

func TestSession_TypeParametersOf_Structural(t *testing.T) {
	sess, sf := openTestSession(t, "box.ts", `export class Box<T extends { id: string }> {
  value: T;
}
`)
	defer sess.Close()

	class := findClass(sf, "Box")
	require.NotNil(t, class)

	params := sess.TypeParametersOf(context.Background(), class)
	require.Len(t, params, 1)
	require.NotNil(t, params[0].StructuralConstraint)
	assert.True(t, params[0].RequiresSpecialisation)
	assert.Equal(t, "id", params[0].StructuralConstraint.Members[0].Name)
}

func TestSession_TypeParametersOf_NilDecl(t *testing.T) {
	s := &Session{}
	assert.Nil(t, s.TypeParametersOf(context.Background(), nil))
}

func TestIsAssignableTo(t *testing.T) {
	s := &Session{}
	assert.True(t, s.IsAssignableTo(ir.Prim(ir.PrimString), ir.Prim(ir.PrimAny)))
	assert.True(t, s.IsAssignableTo(ir.Prim(ir.PrimString), ir.Prim(ir.PrimString)))
	assert.False(t, s.IsAssignableTo(ir.Prim(ir.PrimString), ir.Prim(ir.PrimNumber)))
	assert.True(t, s.IsAssignableTo(ir.ObjectRef("Widget"), ir.ObjectRef("Widget")))
	assert.False(t, s.IsAssignableTo(ir.ObjectRef("Widget"), ir.ObjectRef("Gadget")))
}

func TestSession_IsStructuralSupertypeOf(t *testing.T) {
	sess, sf := openTestSession(t, "shapes.ts", `export class Wide {
  id: string;
  name: string;
}
export class Narrow {
  id: string;
}
export class Mismatched {
  id: number;
}
`)
	defer sess.Close()

	wide := findClass(sf, "Wide")
	narrow := findClass(sf, "Narrow")
	mismatched := findClass(sf, "Mismatched")
	require.NotNil(t, wide)
	require.NotNil(t, narrow)
	require.NotNil(t, mismatched)

	ctx := context.Background()
	assert.True(t, sess.IsStructuralSupertypeOf(ctx, wide.Name(), narrow.Name()))
	assert.False(t, sess.IsStructuralSupertypeOf(ctx, wide.Name(), mismatched.Name()))
}

func TestSession_ExpandAliasChain_NilNode(t *testing.T) {
	s := &Session{}
	guard := &ExpansionGuard{}
	got, diag := s.ExpandAliasChain(context.Background(), nil, guard, "a.ts", 1, 1)
	assert.Equal(t, ir.PrimUnknown, got.Primitive)
	assert.Nil(t, diag)
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsoniclang/tsonic/internal/diagnostic"
	"github.com/tsoniclang/tsonic/internal/ir"
)

func TestValidate_DuplicateExports(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "a.ts",
		Exports: []ir.Export{
			{Kind: ir.ExportDeclaration, Name: "Foo", Provenance: ir.Provenance{Line: 1}},
			{Kind: ir.ExportDeclaration, Name: "Foo", Provenance: ir.Provenance{Line: 5}},
		},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostic.CodeDuplicateExport, bag.All()[0].Code)
}

func TestValidate_NameCollision(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "Widget.ts",
		Declarations: []ir.Declaration{
			{Kind: ir.DeclFunction, Name: "Widget"},
		},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	require.NotEmpty(t, bag.All())
	assert.Equal(t, diagnostic.CodeNameCollidesWithFile, bag.All()[0].Code)
}

func TestValidate_NoCollisionForOwnClass(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "Widget.ts",
		Declarations: []ir.Declaration{
			{Kind: ir.DeclClass, Name: "Widget"},
		},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	assert.False(t, bag.HasErrors())
	assert.Zero(t, bag.WarningCount())
}

func TestValidate_SuperNotFirst(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "a.ts",
		Declarations: []ir.Declaration{{
			Kind: ir.DeclClass,
			Name: "Dog",
			Class: &ir.ClassDecl{
				Constructor: &ir.ConstructorDecl{
					Body: []ir.Statement{
						{Kind: ir.StmtExpr, Expr: ir.Expression{Kind: ir.ExprIdent, Name: "x"}},
						{Kind: ir.StmtExpr, Expr: ir.Expression{Kind: ir.ExprSuperCall}},
					},
				},
			},
		}},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostic.CodeSuperNotFirst, bag.All()[0].Code)
}

func TestValidate_SuperFirstIsFine(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "a.ts",
		Declarations: []ir.Declaration{{
			Kind: ir.DeclClass,
			Name: "Dog",
			Class: &ir.ClassDecl{
				Constructor: &ir.ConstructorDecl{
					Body: []ir.Statement{
						{Kind: ir.StmtExpr, Expr: ir.Expression{Kind: ir.ExprSuperCall}},
					},
				},
			},
		}},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	assert.False(t, bag.HasErrors())
}

func TestValidate_RecursiveStructuralAliasRejected(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "a.ts",
		Declarations: []ir.Declaration{{
			Kind: ir.DeclTypeAlias,
			Name: "Foo",
			TypeAlias: &ir.TypeAliasDecl{
				Aliased: ir.ObjectRef("Foo"),
			},
		}},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostic.CodeRecursiveStructuralAlias, bag.All()[0].Code)
}

func TestValidate_RecursiveThroughClassAccepted(t *testing.T) {
	prog := &ir.Program{Modules: []ir.Module{{
		FileName: "a.ts",
		Declarations: []ir.Declaration{
			{Kind: ir.DeclClass, Name: "Node"},
			{Kind: ir.DeclTypeAlias, Name: "Node", TypeAlias: &ir.TypeAliasDecl{
				Aliased: ir.ObjectRef("Node"),
			}},
		},
	}}}

	bag := diagnostic.NewBag()
	Validate(prog, bag)
	assert.False(t, bag.HasErrors())
}

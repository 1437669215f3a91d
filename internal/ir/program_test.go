package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_ModuleByPath(t *testing.T) {
	p := &Program{Modules: []Module{
		{Path: "src/a.ts"},
		{Path: "src/b.ts"},
	}}

	m, ok := p.ModuleByPath("src/b.ts")
	assert.True(t, ok)
	assert.Equal(t, "src/b.ts", m.Path)

	_, ok = p.ModuleByPath("src/missing.ts")
	assert.False(t, ok)
}

func TestModule_DeclarationByName(t *testing.T) {
	m := &Module{Declarations: []Declaration{
		{Kind: DeclFunction, Name: "main"},
		{Kind: DeclClass, Name: "Widget"},
	}}

	d, ok := m.DeclarationByName("Widget")
	assert.True(t, ok)
	assert.Equal(t, DeclClass, d.Kind)

	_, ok = m.DeclarationByName("Missing")
	assert.False(t, ok)
}

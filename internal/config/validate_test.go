package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootNamespace = "Acme"
	result := cfg.ValidateDetailed()
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Warnings)
}

func TestValidateDetailed_MissingRootNamespace(t *testing.T) {
	cfg := DefaultConfig()
	result := cfg.ValidateDetailed()
	assert.False(t, result.IsValid())
}

func TestValidateDetailed_EntryPointExtensionWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootNamespace = "Acme"
	cfg.EntryPoint = "main"
	result := cfg.ValidateDetailed()
	assert.True(t, result.IsValid())
	assert.NotEmpty(t, result.Warnings)
}

func TestValidateDetailed_StripSymbolsWithoutAOTWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootNamespace = "Acme"
	cfg.NativeAOT = false
	cfg.StripSymbols = true
	result := cfg.ValidateDetailed()
	assert.NotEmpty(t, result.Warnings)
}

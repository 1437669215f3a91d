package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "src", cfg.SourceRoot)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, []string{"types"}, cfg.TypeRoots)
	assert.Equal(t, OutputExecutable, cfg.OutputKind)
	assert.True(t, cfg.NativeAOT)
	assert.Equal(t, OptimiseSize, cfg.Optimise)
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "tsonic.config.json")
	content := `{
		"rootNamespace": "Acme.Service",
		"sourceRoot": "src",
		"outputDirectory": "dist",
		"outputName": "acme-service",
		"outputKind": "executable",
		"nativeAot": true,
		"optimise": "speed",
		"packageReferences": [{"id": "System.Text.Json", "version": "8.0.0"}],
		"msbuildProperties": {"LangVersion": "12.0"}
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "Acme.Service", cfg.RootNamespace)
	assert.Equal(t, OptimiseSpeed, cfg.Optimise)
	require.Len(t, cfg.PackageReferences, 1)
	assert.Equal(t, "System.Text.Json", cfg.PackageReferences[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "tsonic.config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"sourceRoot": "src"}`), 0644))

	_, err := Load(configPath)
	assert.ErrorContains(t, err, "rootNamespace")
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.Validate(), "rootNamespace")

	cfg.RootNamespace = "Acme"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_OutputKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootNamespace = "Acme"
	cfg.OutputKind = "weird"
	assert.ErrorContains(t, cfg.Validate(), "outputKind")
}

func TestValidate_MSBuildPropertyName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootNamespace = "Acme"
	cfg.MSBuildProperties = map[string]string{"1Bad-Key": "x"}
	assert.ErrorContains(t, cfg.Validate(), "msbuildProperties")
}

func TestValidate_PackageReferenceMissingVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootNamespace = "Acme"
	cfg.PackageReferences = []PackageReference{{ID: "Foo.Bar"}}
	assert.ErrorContains(t, cfg.Validate(), "missing version")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", Discover(dir))

	configPath := filepath.Join(dir, "tsonic.config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{}`), 0644))
	assert.Equal(t, configPath, Discover(dir))
}

func TestDiscover_PrefersJSONOverYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsonic.config.yaml"), []byte("rootNamespace: Acme\n"), 0644))
	assert.Equal(t, filepath.Join(dir, "tsonic.config.yaml"), Discover(dir))

	jsonPath := filepath.Join(dir, "tsonic.config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0644))
	assert.Equal(t, jsonPath, Discover(dir))
}

func TestLoadValidYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "tsonic.config.yaml")
	content := `
rootNamespace: Acme.Service
sourceRoot: src
outputDirectory: dist
outputName: acme-service
outputKind: executable
nativeAot: true
optimise: speed
packageReferences:
  - id: System.Text.Json
    version: "8.0.0"
msbuildProperties:
  LangVersion: "12.0"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "Acme.Service", cfg.RootNamespace)
	assert.Equal(t, OptimiseSpeed, cfg.Optimise)
	require.Len(t, cfg.PackageReferences, 1)
	assert.Equal(t, "System.Text.Json", cfg.PackageReferences[0].ID)
	assert.Equal(t, "12.0", cfg.MSBuildProperties["LangVersion"])
}

func TestLoadInvalidYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "tsonic.config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("sourceRoot: src\n"), 0644))

	_, err := Load(configPath)
	assert.ErrorContains(t, err, "rootNamespace")
}

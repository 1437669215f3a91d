// Package config defines tsonic's Configuration record (spec §6) and the
// loading/validation logic for it, following the discover-then-load shape
// of a build-tool config layer (JSON-tagged struct, explicit Validate()).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputKind is the target artifact shape.
type OutputKind string

const (
	OutputExecutable OutputKind = "executable"
	OutputLibrary    OutputKind = "library"
	OutputConsoleApp OutputKind = "console-app"
)

// Optimise selects the NativeAOT optimisation preference.
type Optimise string

const (
	OptimiseSize  Optimise = "size"
	OptimiseSpeed Optimise = "speed"
)

// PackageReference is a single NuGet package dependency.
type PackageReference struct {
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version" yaml:"version"`
}

// Config is tsonic's recognised configuration record (spec §6, "Inputs at
// the core boundary"). Every field here is a documented option; there is
// no catch-all passthrough.
type Config struct {
	RootNamespace string `json:"rootNamespace" yaml:"rootNamespace"`
	EntryPoint    string `json:"entryPoint,omitempty" yaml:"entryPoint,omitempty"`
	SourceRoot    string `json:"sourceRoot" yaml:"sourceRoot"`
	OutputDir     string `json:"outputDirectory" yaml:"outputDirectory"`
	OutputName    string `json:"outputName" yaml:"outputName"`

	TypeRoots []string `json:"typeRoots,omitempty" yaml:"typeRoots,omitempty"`
	Libraries []string `json:"libraries,omitempty" yaml:"libraries,omitempty"`

	FrameworkReferences []string           `json:"frameworkReferences,omitempty" yaml:"frameworkReferences,omitempty"`
	PackageReferences   []PackageReference `json:"packageReferences,omitempty" yaml:"packageReferences,omitempty"`
	MSBuildProperties   map[string]string  `json:"msbuildProperties,omitempty" yaml:"msbuildProperties,omitempty"`

	OutputKind             OutputKind `json:"outputKind" yaml:"outputKind"`
	NativeAOT              bool       `json:"nativeAot" yaml:"nativeAot"`
	Optimise               Optimise   `json:"optimise" yaml:"optimise"`
	StripSymbols           bool       `json:"stripSymbols" yaml:"stripSymbols"`
	InvariantGlobalization bool       `json:"invariantGlobalization" yaml:"invariantGlobalization"`
	KeepTemp               bool       `json:"keepTemp" yaml:"keepTemp"`
}

// msbuildPropertyName matches the required `[A-Za-z_][A-Za-z0-9_]*` shape
// for MSBuildProperties keys (spec §6).
var msbuildPropertyName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultConfig returns a config with the documented defaults: an ambient
// type-roots directory, a size-optimised NativeAOT executable.
func DefaultConfig() Config {
	return Config{
		SourceRoot: "src",
		OutputDir:  "dist",
		OutputName: "app",
		TypeRoots:  []string{"types"},
		OutputKind: OutputExecutable,
		NativeAOT:  true,
		Optimise:   OptimiseSize,
	}
}

// configFileNames are searched in order; the first on disk wins. The YAML
// variants exist alongside the teacher's native tsonic.config.json for
// operators who keep every other project config (CI, lint, editor) in
// YAML and want one less dialect in the repo.
var configFileNames = []string{"tsonic.config.json", "tsonic.config.yaml", "tsonic.config.yml"}

// Discover searches dir for a tsonic.config.{json,yaml,yml} file, in that
// order. Returns the full path, or empty string if none is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads and parses a tsonic config file — JSON by default, YAML when
// the path ends in .yaml/.yml — applying defaults for unset fields and
// validating the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &cfg, nil
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Validate checks the config for logical errors not expressible in the
// JSON schema alone.
func (c *Config) Validate() error {
	if c.RootNamespace == "" {
		return fmt.Errorf("rootNamespace is required")
	}
	if c.SourceRoot == "" {
		return fmt.Errorf("sourceRoot is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("outputDirectory is required")
	}
	if c.OutputName == "" {
		return fmt.Errorf("outputName is required")
	}

	switch c.OutputKind {
	case OutputExecutable, OutputLibrary, OutputConsoleApp:
	case "":
		return fmt.Errorf("outputKind is required")
	default:
		return fmt.Errorf("outputKind must be one of \"executable\", \"library\", \"console-app\", got %q", c.OutputKind)
	}

	switch c.Optimise {
	case OptimiseSize, OptimiseSpeed, "":
	default:
		return fmt.Errorf("optimise must be \"size\" or \"speed\", got %q", c.Optimise)
	}

	for _, pkg := range c.PackageReferences {
		if pkg.ID == "" {
			return fmt.Errorf("packageReferences: entry missing id")
		}
		if pkg.Version == "" {
			return fmt.Errorf("packageReferences: package %q missing version", pkg.ID)
		}
	}

	for key := range c.MSBuildProperties {
		if !msbuildPropertyName.MatchString(key) {
			return fmt.Errorf("msbuildProperties: key %q does not match [A-Za-z_][A-Za-z0-9_]*", key)
		}
	}

	return nil
}

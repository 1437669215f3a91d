package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationResult holds non-fatal config review results: suggestions an
// operator should look at even though Validate() already accepted the
// config.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateDetailed performs Validate()'s checks plus soft warnings about
// configuration shapes that are legal but likely mistakes.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if err := c.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	if c.EntryPoint != "" && !strings.HasSuffix(c.EntryPoint, ".ts") {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("entryPoint %q has no .ts extension — did you mean %q?", c.EntryPoint, c.EntryPoint+".ts"))
	}

	for _, root := range c.TypeRoots {
		if filepath.IsAbs(root) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("typeRoots entry %q is an absolute path — prefer a path relative to the project root for portability", root))
		}
	}

	if !c.NativeAOT && c.StripSymbols {
		result.Warnings = append(result.Warnings,
			"stripSymbols has no effect when nativeAot is false")
	}

	if c.InvariantGlobalization && !c.NativeAOT {
		result.Warnings = append(result.Warnings,
			"invariantGlobalization is set but nativeAot is false — the flag only affects trimmed NativeAOT builds")
	}

	return result
}

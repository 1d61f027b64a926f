package config

import (
	"fmt"
	"path"
	"strings"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	// Output
	if c.Output.Dir == "" {
		result.Errors = append(result.Errors, "output.dir: must not be empty")
	}

	// Analysis patterns must be well-formed globs.
	for _, pattern := range c.Analysis.Include {
		if _, err := path.Match(pattern, ""); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("analysis.include: bad pattern %q: %v", pattern, err))
		}
	}
	for _, pattern := range c.Analysis.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("analysis.exclude: bad pattern %q: %v", pattern, err))
		}
	}
	if len(c.Analysis.Include) > 0 && len(c.Analysis.Exclude) > 0 {
		for _, inc := range c.Analysis.Include {
			for _, exc := range c.Analysis.Exclude {
				if inc == exc {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("analysis: pattern %q is both included and excluded — exclusion wins", inc))
				}
			}
		}
	}

	// Policy file
	if c.PolicyFile != "" && !strings.HasSuffix(c.PolicyFile, ".yaml") && !strings.HasSuffix(c.PolicyFile, ".yml") {
		result.Errors = append(result.Errors,
			fmt.Sprintf("policyFile: %q must be a .yaml or .yml file", c.PolicyFile))
	}

	return result
}

// SelectsPackage applies the include/exclude patterns to one import path.
// Exclusion wins over inclusion; an empty include list selects everything.
func (c *AnalysisConfig) SelectsPackage(importPath string) bool {
	for _, pattern := range c.Exclude {
		if matchPackage(pattern, importPath) {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if matchPackage(pattern, importPath) {
			return true
		}
	}
	return false
}

// matchPackage matches one pattern against an import path. A trailing "/..."
// matches the package and everything under it, like Go package patterns;
// otherwise path.Match semantics apply.
func matchPackage(pattern, importPath string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/..."); ok {
		return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
	}
	ok, _ := path.Match(pattern, importPath)
	return ok
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Package loader locates and loads the solution under analysis: it resolves
// a go.mod file or a directory argument to exactly one module, reads the
// module path, and loads the module's packages into a typed compilation
// snapshot.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// loadMode requests everything the symbol provider needs: names, typed
// syntax, and transitive imports for nested type resolution.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// Solution is a loaded module snapshot ready for analysis.
type Solution struct {
	// Name is the last segment of the module path.
	Name string
	// ModFile is the absolute path of the solution's go.mod.
	ModFile string
	// ModulePath is the declared module path.
	ModulePath string
	// Packages are the module's own packages, load errors excluded.
	Packages []*packages.Package
	// Broken lists packages dropped for load errors, for reporting.
	Broken []string
}

// ResolveError reports a path argument that does not identify exactly one
// solution.
type ResolveError struct {
	Path       string
	Candidates []string
	Reason     string
}

func (e *ResolveError) Error() string {
	if len(e.Candidates) > 1 {
		return fmt.Sprintf("resolving solution at %q: %s: %s", e.Path, e.Reason, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("resolving solution at %q: %s", e.Path, e.Reason)
}

// Discover resolves a path argument to the go.mod file of exactly one
// module. A file argument must be a go.mod; a directory argument is checked
// for its own go.mod first, then its immediate subdirectories. Zero or
// multiple candidates is a hard error.
func Discover(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving solution path %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &ResolveError{Path: path, Reason: "path does not exist"}
	}

	if !info.IsDir() {
		if filepath.Base(abs) != "go.mod" {
			return "", &ResolveError{Path: path, Reason: "file argument must be a go.mod"}
		}
		return abs, nil
	}

	direct := filepath.Join(abs, "go.mod")
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("reading directory %q: %w", path, err)
	}
	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mod := filepath.Join(abs, entry.Name(), "go.mod")
		if _, err := os.Stat(mod); err == nil {
			candidates = append(candidates, mod)
		}
	}

	switch len(candidates) {
	case 0:
		return "", &ResolveError{Path: path, Reason: "no go.mod found in the directory or its immediate subdirectories"}
	case 1:
		return candidates[0], nil
	default:
		return "", &ResolveError{Path: path, Candidates: candidates, Reason: "multiple candidate modules"}
	}
}

// Load reads the module at the given go.mod path and loads all of its
// packages with full type information.
func Load(ctx context.Context, modFile string) (*Solution, error) {
	data, err := os.ReadFile(modFile)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", modFile, err)
	}
	mf, err := modfile.Parse(modFile, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", modFile, err)
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return nil, fmt.Errorf("%q declares no module path", modFile)
	}
	modulePath := mf.Module.Mod.Path

	cfg := &packages.Config{
		Context: ctx,
		Dir:     filepath.Dir(modFile),
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("loading packages of %s: %w", modulePath, err)
	}

	var loaded []*packages.Package
	var broken []string
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			broken = append(broken, fmt.Sprintf("%s: %v", pkg.PkgPath, pkg.Errors[0]))
			continue
		}
		loaded = append(loaded, pkg)
	}
	if len(loaded) == 0 {
		if len(broken) > 0 {
			return nil, fmt.Errorf("no loadable packages in %s: %s", modulePath, strings.Join(broken, "; "))
		}
		return nil, fmt.Errorf("no packages found in %s", modulePath)
	}

	return &Solution{
		Name:       moduleName(modulePath),
		ModFile:    modFile,
		ModulePath: modulePath,
		Packages:   loaded,
		Broken:     broken,
	}, nil
}

func moduleName(modulePath string) string {
	return modulePath[strings.LastIndex(modulePath, "/")+1:]
}

package analyzer

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aggregen/aggregen/internal/diagnostic"
	"github.com/aggregen/aggregen/internal/model"
	"github.com/aggregen/aggregen/internal/policy"
	"github.com/aggregen/aggregen/internal/symbol"
)

// Analyzer drives the analysis of a solution snapshot. Projects share no
// mutable state, so they are scanned concurrently.
type Analyzer struct {
	Policy *policy.Policy
	Diags  *diagnostic.Collector

	// Concurrency bounds the number of projects scanned in parallel.
	// Zero means one worker per CPU.
	Concurrency int
}

// New creates an analyzer with the given policy and diagnostics sink.
func New(p *policy.Policy, diags *diagnostic.Collector) *Analyzer {
	return &Analyzer{Policy: p, Diags: diags}
}

// AnalyzeSolution scans every package of the loaded solution and assembles
// the solution model. The context is checked between projects, not
// mid-project.
func (a *Analyzer) AnalyzeSolution(ctx context.Context, name, fullPath, modulePath string, pkgs []symbol.Package) (*model.Solution, error) {
	projects := make([]model.Project, len(pkgs))

	g, ctx := errgroup.WithContext(ctx)
	limit := a.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			projects[i] = a.ScanProject(pkg, modulePath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Namespace < projects[j].Namespace
	})

	return &model.Solution{
		Name:     name,
		FullPath: fullPath,
		Projects: projects,
	}, nil
}

// ScanProject models one package. Only domain-layer packages are scanned for
// aggregate roots; every other layer is recorded with its metadata alone.
func (a *Analyzer) ScanProject(pkg symbol.Package, modulePath string) model.Project {
	proj := model.Project{
		Name:         pkg.Name(),
		Namespace:    pkg.Path(),
		FullPath:     pkg.Dir(),
		AssemblyName: assemblyName(modulePath, pkg.Path()),
		Layer:        a.Policy.LayerFor(pkg.Path()),
	}
	if proj.Layer != model.LayerDomain {
		return proj
	}

	for _, t := range pkg.Types() {
		if !a.isRootCandidate(t) {
			continue
		}
		agg, err := NewBuilder(t, a.Policy, a.Diags).Aggregate()
		if err != nil {
			var missing *MissingIDError
			if errors.As(err, &missing) {
				a.Diags.Errorf(diagnostic.CategoryMissingID, t.FullName(), "%v", err)
			} else {
				a.Diags.Errorf(diagnostic.CategoryRootRejected, t.FullName(), "%v", err)
			}
			continue
		}
		proj.Aggregates = append(proj.Aggregates, *agg)
	}

	sort.Slice(proj.Aggregates, func(i, j int) bool {
		return proj.Aggregates[i].Name < proj.Aggregates[j].Name
	})
	return proj
}

// isRootCandidate reports whether a type's base list names a recognized
// aggregate-root marker.
func (a *Analyzer) isRootCandidate(t symbol.Type) bool {
	for _, base := range t.BaseTypes() {
		if a.Policy.IsRootMarker(base.Name()) {
			return true
		}
	}
	return false
}

// assemblyName is the module-relative import path of a package: the closest
// analog of a compiled unit name.
func assemblyName(modulePath, pkgPath string) string {
	if pkgPath == modulePath {
		return pkgPath[strings.LastIndex(pkgPath, "/")+1:]
	}
	return strings.TrimPrefix(pkgPath, modulePath+"/")
}

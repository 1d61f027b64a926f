package analyzer

import (
	"context"
	"fmt"
	"testing"

	"github.com/aggregen/aggregen/internal/diagnostic"
	"github.com/aggregen/aggregen/internal/model"
	"github.com/aggregen/aggregen/internal/policy"
	"github.com/aggregen/aggregen/internal/symbol"
)

func TestScanProjectFindsRoots(t *testing.T) {
	plain := namedType("example.com/shop/domain", "Money")
	plain.props = []symbol.Property{prop("Amount", basicType("int"))}

	pkg := &fakePackage{
		name:  "domain",
		path:  "example.com/shop/domain",
		dir:   "/src/shop/domain",
		types: []symbol.Type{invoiceType(), plain},
	}

	a := New(policy.Default(), diagnostic.NewCollector(false, true))
	proj := a.ScanProject(pkg, "example.com/shop")

	if proj.Layer != model.LayerDomain {
		t.Fatalf("Layer = %q, want domain", proj.Layer)
	}
	if proj.AssemblyName != "domain" {
		t.Errorf("AssemblyName = %q, want domain", proj.AssemblyName)
	}
	if len(proj.Aggregates) != 1 || proj.Aggregates[0].Name != "Invoice" {
		t.Fatalf("Aggregates = %+v, want Invoice only", proj.Aggregates)
	}
}

func TestScanProjectSkipsNonDomainLayers(t *testing.T) {
	pkg := &fakePackage{
		name:  "handlers",
		path:  "example.com/shop/web/handlers",
		dir:   "/src/shop/web/handlers",
		types: []symbol.Type{invoiceType()},
	}

	a := New(policy.Default(), diagnostic.NewCollector(false, true))
	proj := a.ScanProject(pkg, "example.com/shop")

	if proj.Layer != model.LayerWeb {
		t.Fatalf("Layer = %q, want web", proj.Layer)
	}
	if len(proj.Aggregates) != 0 {
		t.Errorf("non-domain project should carry no aggregates, got %d", len(proj.Aggregates))
	}
}

func TestScanProjectRecordsMissingIDAndContinues(t *testing.T) {
	broken := namedType("example.com/shop/domain", "Ledger")
	broken.bases = []symbol.Type{rootMarker()}
	broken.props = []symbol.Property{prop("Balance", basicType("float64"))}

	pkg := &fakePackage{
		name:  "domain",
		path:  "example.com/shop/domain",
		dir:   "/src/shop/domain",
		types: []symbol.Type{broken, invoiceType()},
	}

	diags := diagnostic.NewCollector(false, true)
	a := New(policy.Default(), diags)
	proj := a.ScanProject(pkg, "example.com/shop")

	if len(proj.Aggregates) != 1 || proj.Aggregates[0].Name != "Invoice" {
		t.Fatalf("Aggregates = %+v, want Invoice despite the broken root", proj.Aggregates)
	}
	if diags.ErrorCount() == 0 {
		t.Error("missing identifier should be recorded as an error diagnostic")
	}
}

func TestAnalyzeSolutionOrdersProjects(t *testing.T) {
	pkgs := []symbol.Package{
		&fakePackage{name: "web", path: "example.com/shop/web"},
		&fakePackage{name: "domain", path: "example.com/shop/domain", types: []symbol.Type{invoiceType()}},
		&fakePackage{name: "app", path: "example.com/shop/app"},
	}

	a := New(policy.Default(), diagnostic.NewCollector(false, true))
	sol, err := a.AnalyzeSolution(context.Background(), "shop", "/src/shop/go.mod", "example.com/shop", pkgs)
	if err != nil {
		t.Fatalf("AnalyzeSolution() error: %v", err)
	}

	if sol.Name != "shop" {
		t.Errorf("Name = %q, want shop", sol.Name)
	}
	want := []string{"example.com/shop/app", "example.com/shop/domain", "example.com/shop/web"}
	if len(sol.Projects) != len(want) {
		t.Fatalf("Projects = %d, want %d", len(sol.Projects), len(want))
	}
	for i, ns := range want {
		if sol.Projects[i].Namespace != ns {
			t.Errorf("Projects[%d].Namespace = %q, want %q", i, sol.Projects[i].Namespace, ns)
		}
	}
	if len(sol.Projects[1].Aggregates) != 1 {
		t.Errorf("domain project should carry the Invoice aggregate")
	}
}

func TestAnalyzeSolutionConcurrentDiagnostics(t *testing.T) {
	// Several projects scanned in parallel, each reporting into the shared
	// collector: one missing-identifier error per broken root plus the
	// healthy Invoice aggregate per project.
	const projects = 8
	pkgs := make([]symbol.Package, 0, projects)
	for i := 0; i < projects; i++ {
		broken := namedType(fmt.Sprintf("example.com/shop/domain/p%d", i), "Ledger")
		broken.bases = []symbol.Type{rootMarker()}
		broken.props = []symbol.Property{prop("Balance", basicType("float64"))}

		pkgs = append(pkgs, &fakePackage{
			name:  fmt.Sprintf("p%d", i),
			path:  fmt.Sprintf("example.com/shop/domain/p%d", i),
			types: []symbol.Type{broken, invoiceType()},
		})
	}

	diags := diagnostic.NewCollector(false, false)
	a := New(policy.Default(), diags)
	a.Concurrency = 4

	sol, err := a.AnalyzeSolution(context.Background(), "shop", "/src/shop/go.mod", "example.com/shop", pkgs)
	if err != nil {
		t.Fatalf("AnalyzeSolution() error: %v", err)
	}

	if len(sol.Projects) != projects {
		t.Fatalf("Projects = %d, want %d", len(sol.Projects), projects)
	}
	for _, proj := range sol.Projects {
		if len(proj.Aggregates) != 1 || proj.Aggregates[0].Name != "Invoice" {
			t.Errorf("project %s aggregates = %+v, want Invoice only", proj.Namespace, proj.Aggregates)
		}
	}
	if got := diags.ErrorCount(); got != projects {
		t.Errorf("ErrorCount = %d, want one missing-identifier error per project (%d)", got, projects)
	}
}

func TestAnalyzeSolutionHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pkgs := []symbol.Package{
		&fakePackage{name: "domain", path: "example.com/shop/domain"},
	}
	a := New(policy.Default(), diagnostic.NewCollector(false, true))
	a.Concurrency = 1

	if _, err := a.AnalyzeSolution(ctx, "shop", "/src/shop/go.mod", "example.com/shop", pkgs); err == nil {
		t.Fatal("cancelled context should fail the run")
	}
}

func TestAssemblyNameModuleRoot(t *testing.T) {
	if got := assemblyName("example.com/shop", "example.com/shop"); got != "shop" {
		t.Errorf("module-root assembly = %q, want shop", got)
	}
	if got := assemblyName("example.com/shop", "example.com/shop/internal/domain"); got != "internal/domain" {
		t.Errorf("nested assembly = %q, want internal/domain", got)
	}
}

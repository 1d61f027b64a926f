package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aggregen/aggregen/internal/analyzer"
	"github.com/aggregen/aggregen/internal/config"
	"github.com/aggregen/aggregen/internal/diagnostic"
	"github.com/aggregen/aggregen/internal/loader"
	"github.com/aggregen/aggregen/internal/model"
	"github.com/aggregen/aggregen/internal/policy"
	"github.com/aggregen/aggregen/internal/symbol"
)

// TimingReport collects timing data for each pipeline phase.
type TimingReport struct {
	Discover  time.Duration
	Load      time.Duration
	Analyze   time.Duration
	Serialize time.Duration
	Total     time.Duration
}

// Print outputs the timing breakdown to stderr.
func (t *TimingReport) Print() {
	fmt.Fprintf(os.Stderr, "\n--- timing ---\n")
	fmt.Fprintf(os.Stderr, "  discover:   %s\n", t.Discover.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  load:       %s\n", t.Load.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  analyze:    %s\n", t.Analyze.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  serialize:  %s\n", t.Serialize.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  total:      %s\n", t.Total.Round(time.Millisecond))
}

// ConfigResult holds the result of loading an aggregen config file.
type ConfigResult struct {
	Config *config.Config
	Path   string // resolved absolute path to config file (empty if none found)
	Dir    string // directory containing the config file (defaults to cwd)
}

// loadOrDiscoverConfig loads an aggregen config from the given path, or
// auto-discovers one in the working directory if configPath is empty. Shared
// across the analyze, render, and dump commands.
func loadOrDiscoverConfig(configPath, cwd string) (*ConfigResult, error) {
	result := &ConfigResult{Dir: cwd}

	if configPath != "" {
		resolved := configPath
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(cwd, resolved)
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			return nil, err
		}
		result.Config = cfg
		result.Path = resolved
		result.Dir = filepath.Dir(resolved)
		return result, nil
	}

	if p := config.Discover(cwd); p != "" {
		cfg, err := config.Load(p)
		if err != nil {
			return nil, err
		}
		result.Config = cfg
		result.Path = p
		result.Dir = filepath.Dir(p)
		return result, nil
	}

	// No config found — not an error
	return result, nil
}

// loadPolicy resolves the effective classification policy: an explicit flag
// wins over the config's policyFile, which wins over the built-in defaults.
func loadPolicy(policyFlag string, cfg *ConfigResult) (*policy.Policy, error) {
	path := policyFlag
	if path == "" && cfg.Config != nil && cfg.Config.PolicyFile != "" {
		path = cfg.Config.PolicyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Dir, path)
		}
	}
	if path == "" {
		return policy.Default(), nil
	}
	return policy.Load(path)
}

// analyzeSolution runs discover, load, and analyze, and returns the model
// with timing filled in. Shared by analyze, render, and dump.
func analyzeSolution(ctx context.Context, arg string, pol *policy.Policy, cfg *ConfigResult, diags *diagnostic.Collector, timing *TimingReport) (*model.Solution, error) {
	discoverStart := time.Now()
	modFile, err := loader.Discover(arg)
	timing.Discover = time.Since(discoverStart)
	if err != nil {
		return nil, err
	}

	loadStart := time.Now()
	sol, err := loader.Load(ctx, modFile)
	timing.Load = time.Since(loadStart)
	if err != nil {
		return nil, err
	}
	for _, broken := range sol.Broken {
		fmt.Fprintf(os.Stderr, "warning: skipping package with load errors: %s\n", broken)
	}
	fmt.Fprintf(os.Stderr, "loaded %s (%d packages)\n", sol.ModulePath, len(sol.Packages))

	analyzeStart := time.Now()
	provider := symbol.NewProvider(sol.Packages)
	pkgs := provider.ScanPackages()
	if cfg.Config != nil {
		selected := pkgs[:0]
		for _, pkg := range pkgs {
			if cfg.Config.Analysis.SelectsPackage(pkg.Path()) {
				selected = append(selected, pkg)
			}
		}
		pkgs = selected
	}

	a := analyzer.New(pol, diags)
	result, err := a.AnalyzeSolution(ctx, sol.Name, sol.ModFile, sol.ModulePath, pkgs)
	timing.Analyze = time.Since(analyzeStart)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// printDiagnostics writes collected findings and the summary to stderr.
func printDiagnostics(diags *diagnostic.Collector) {
	if out := diags.FormatAll(); out != "" {
		fmt.Fprint(os.Stderr, out)
	}
	fmt.Fprintf(os.Stderr, "analysis: %s\n", diags.Summary())
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aggregen/aggregen/internal/diagnostic"
	"github.com/aggregen/aggregen/internal/loader"
	"github.com/aggregen/aggregen/internal/serialize"
)

// runAnalyze executes the full pipeline:
// discover -> load -> analyze -> serialize.
func runAnalyze(args []string) int {
	analyzeFlags := flag.NewFlagSet("analyze", flag.ExitOnError)

	var (
		configPath string
		outDir     string
		policyPath string
		overwrite  bool
		strict     bool
		quiet      bool
	)

	analyzeFlags.StringVar(&configPath, "config", "", "Path to aggregen config file (aggregen.config.json)")
	analyzeFlags.StringVar(&outDir, "out", "", "Output directory (overrides config)")
	analyzeFlags.StringVar(&policyPath, "policy", "", "Path to a YAML classification policy (overrides config)")
	analyzeFlags.BoolVar(&overwrite, "overwrite", false, "Replace existing output files")
	analyzeFlags.BoolVar(&strict, "strict", false, "Treat warnings as errors")
	analyzeFlags.BoolVar(&quiet, "quiet", false, "Suppress warnings")

	analyzeFlags.Usage = func() {
		fmt.Println("Usage: aggregen analyze [flags] <solution>")
		fmt.Println()
		fmt.Println("Flags:")
		analyzeFlags.PrintDefaults()
	}

	analyzeFlags.Parse(args)

	arg := "."
	if analyzeFlags.NArg() > 0 {
		arg = analyzeFlags.Arg(0)
	}

	start := time.Now()
	timing := &TimingReport{}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	cfg, err := loadOrDiscoverConfig(configPath, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if cfg.Path != "" {
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", filepath.Base(cfg.Path))
	}

	pol, err := loadPolicy(policyPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.Config != nil {
		strict = strict || cfg.Config.Analysis.Strict
		quiet = quiet || cfg.Config.Analysis.Quiet
		if outDir == "" {
			outDir = cfg.Config.Output.Dir
			if !filepath.IsAbs(outDir) {
				outDir = filepath.Join(cfg.Dir, outDir)
			}
		}
		overwrite = overwrite || cfg.Config.Output.Overwrite
	}
	if outDir == "" {
		outDir = filepath.Join(cwd, "aggregen-out")
	}

	diags := diagnostic.NewCollector(strict, quiet)

	sol, err := analyzeSolution(context.Background(), arg, pol, cfg, diags, timing)
	if err != nil {
		var resolve *loader.ResolveError
		if errors.As(err, &resolve) {
			fmt.Fprintf(os.Stderr, "error: %v\n", resolve)
			return 2
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	serializeStart := time.Now()
	written, err := serialize.NewPipeline(outDir, overwrite).Write(sol)
	timing.Serialize = time.Since(serializeStart)
	if err != nil {
		var conflict *serialize.ConflictError
		if errors.As(err, &conflict) {
			diags.Errorf(diagnostic.CategoryOutputConflict, conflict.Path, "%v", conflict)
			printDiagnostics(diags)
			return 3
		}
		var dup *serialize.DuplicateTargetError
		if errors.As(err, &dup) {
			diags.Errorf(diagnostic.CategoryOutputConflict, dup.Path, "%v", dup)
			printDiagnostics(diags)
			return 3
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	for _, w := range written {
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", filepath.Base(w.Path), w.Bytes)
	}

	printDiagnostics(diags)
	timing.Total = time.Since(start)
	timing.Print()

	if diags.HasErrors() {
		return 1
	}
	return 0
}

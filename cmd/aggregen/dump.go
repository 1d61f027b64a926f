package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/aggregen/aggregen/internal/diagnostic"
)

// runDump analyzes the solution and prints the full model to stdout without
// writing any files. For inspecting what the classifier produced.
func runDump(args []string) int {
	dumpFlags := flag.NewFlagSet("dump", flag.ExitOnError)

	var (
		configPath string
		policyPath string
		format     string
	)

	dumpFlags.StringVar(&configPath, "config", "", "Path to aggregen config file (aggregen.config.json)")
	dumpFlags.StringVar(&policyPath, "policy", "", "Path to a YAML classification policy (overrides config)")
	dumpFlags.StringVar(&format, "format", "json", "Output format: json or spew")

	dumpFlags.Usage = func() {
		fmt.Println("Usage: aggregen dump [flags] <solution>")
		fmt.Println()
		fmt.Println("Flags:")
		dumpFlags.PrintDefaults()
	}

	dumpFlags.Parse(args)

	if format != "json" && format != "spew" {
		fmt.Fprintf(os.Stderr, "error: unknown format %q (want json or spew)\n", format)
		return 1
	}

	arg := "."
	if dumpFlags.NArg() > 0 {
		arg = dumpFlags.Arg(0)
	}

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
	pol, err := loadPolicy(policyPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	diags := diagnostic.NewCollector(false, false)
	timing := &TimingReport{}
	start := time.Now()

	sol, err := analyzeSolution(context.Background(), arg, pol, cfg, diags, timing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	switch format {
	case "spew":
		spew.Fdump(os.Stdout, sol)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sol); err != nil {
			fmt.Fprintf(os.Stderr, "error encoding JSON: %v\n", err)
			return 1
		}
	}

	printDiagnostics(diags)
	timing.Total = time.Since(start)
	return 0
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aggregen/aggregen/internal/diagnostic"
	"github.com/aggregen/aggregen/internal/model"
	"github.com/aggregen/aggregen/internal/render"
)

// runRender analyzes the solution and executes a user template against one
// aggregate (or the whole solution when no aggregate is named).
func runRender(args []string) int {
	renderFlags := flag.NewFlagSet("render", flag.ExitOnError)

	var (
		configPath   string
		policyPath   string
		templatePath string
		aggregate    string
		outPath      string
	)

	renderFlags.StringVar(&configPath, "config", "", "Path to aggregen config file (aggregen.config.json)")
	renderFlags.StringVar(&policyPath, "policy", "", "Path to a YAML classification policy (overrides config)")
	renderFlags.StringVar(&templatePath, "template", "", "Path to the template file (required)")
	renderFlags.StringVar(&aggregate, "aggregate", "", "Aggregate name to render; empty renders the whole solution")
	renderFlags.StringVar(&outPath, "out", "", "Output file; empty writes to stdout")

	renderFlags.Usage = func() {
		fmt.Println("Usage: aggregen render --template <path> [flags] <solution>")
		fmt.Println()
		fmt.Println("Flags:")
		renderFlags.PrintDefaults()
	}

	renderFlags.Parse(args)

	if templatePath == "" {
		fmt.Fprintln(os.Stderr, "error: --template is required")
		renderFlags.Usage()
		return 1
	}

	arg := "."
	if renderFlags.NArg() > 0 {
		arg = renderFlags.Arg(0)
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

	text, err := os.ReadFile(templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading template: %v\n", err)
		return 1
	}

	diags := diagnostic.NewCollector(false, false)
	timing := &TimingReport{}

	sol, err := analyzeSolution(context.Background(), arg, pol, cfg, diags, timing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var data any = sol
	if aggregate != "" {
		agg := findAggregate(sol, aggregate)
		if agg == nil {
			fmt.Fprintf(os.Stderr, "error: aggregate %q not found in %s\n", aggregate, sol.Name)
			return 1
		}
		data = agg
	}

	var r render.Renderer
	out, err := r.Render(templatePath, string(text), data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if outPath == "" {
		fmt.Print(out)
		return 0
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing output: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", outPath, len(out))
	return 0
}

func findAggregate(sol *model.Solution, name string) *model.Aggregate {
	for pi := range sol.Projects {
		for ai := range sol.Projects[pi].Aggregates {
			if sol.Projects[pi].Aggregates[ai].Name == name {
				return &sol.Projects[pi].Aggregates[ai]
			}
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		// No subcommand — default to analyze
		return runAnalyze(os.Args[1:])
	}

	switch os.Args[1] {
	case "analyze":
		return runAnalyze(os.Args[2:])
	case "render":
		return runRender(os.Args[2:])
	case "dump":
		return runDump(os.Args[2:])
	case "--version", "-v":
		fmt.Println("aggregen", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		// Check if first arg starts with - (it's a flag, not a subcommand)
		if strings.HasPrefix(os.Args[1], "-") {
			return runAnalyze(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("aggregen - aggregate model extraction and specification generation for Go modules")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  aggregen [flags] <solution>           Analyze a solution (default)")
	fmt.Println("  aggregen analyze [flags] <solution>   Analyze a solution and write the model")
	fmt.Println("  aggregen render [flags] <solution>    Render a template against an aggregate")
	fmt.Println("  aggregen dump [flags] <solution>      Dump the analyzed model to stdout (debug)")
	fmt.Println()
	fmt.Println("The solution argument is a go.mod file or a directory holding exactly one module.")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Analyze Flags:")
	fmt.Println("  --config <path>        Path to aggregen.config.json")
	fmt.Println("  --out <dir>            Output directory (overrides config)")
	fmt.Println("  --policy <path>        YAML classification policy (overrides config)")
	fmt.Println("  --overwrite            Replace existing output files")
	fmt.Println("  --strict               Treat warnings as errors")
	fmt.Println("  --quiet                Suppress warnings")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  aggregen ./shop")
	fmt.Println("  aggregen analyze --out gen/model --overwrite ./shop/go.mod")
	fmt.Println("  aggregen render --template entity.tmpl --aggregate Invoice ./shop")
	fmt.Println("  aggregen dump --format spew ./shop")
	fmt.Println()
}

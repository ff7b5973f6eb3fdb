package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bcarlson/sportconv/convert"
	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/internal/config"
	"github.com/bcarlson/sportconv/summary"
	"github.com/bcarlson/sportconv/validate"
)

func main() {
	cfg := config.Load()

	var (
		fromFlag    = flag.String("from", "", "Source format: fit|tcx|gpx|yaml (default: detect)")
		toFlag      = flag.String("to", "", "Target format: tcx|gpx|yaml|csv|parquet (default: from output extension)")
		strict      = flag.Bool("strict", cfg.Strict, "Treat any data-loss warning as a failure")
		summaryOnly = flag.Bool("summary-only", cfg.SummaryOnly, "Print only the run summary line")
		verbose     = flag.Bool("verbose", cfg.Verbose, "Print every diagnostic, not just the summary counts")
		checkModel  = flag.Bool("validate", false, "Run structural validation on the produced model")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--from fmt] [--to fmt] [--strict] [--summary-only] [--verbose] input output\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(int(diag.OutcomeFailed))
	}
	inputPath := flag.Arg(0)
	outputPath := flag.Arg(1)

	opts := convert.Options{
		Strict:    *strict,
		InputName: inputPath,
	}
	if *checkModel {
		opts.Validator = validate.Structural{}
	}

	if s := strings.TrimSpace(*fromFlag); s != "" {
		f, err := convert.ParseFormat(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sportconv: %v\n", err)
			os.Exit(int(diag.OutcomeFailed))
		}
		opts.From = f
	}

	target := strings.TrimSpace(*toFlag)
	if target == "" {
		target = filepath.Ext(outputPath)
	}
	to, err := convert.ParseFormat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sportconv: %v\n", err)
		os.Exit(int(diag.OutcomeFailed))
	}
	opts.To = to

	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sportconv: read input: %v\n", err)
		os.Exit(int(diag.OutcomeFailed))
	}

	result, runErr := convert.Run(data, opts)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "sportconv: %v\n", runErr)
	}

	if len(result.Output) > 0 {
		if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "sportconv: write output: %v\n", err)
			os.Exit(int(diag.OutcomeFailed))
		}
	}

	printReport(result, *summaryOnly, *verbose)
	os.Exit(result.Outcome.ExitCode())
}

func printReport(result *convert.Result, summaryOnly, verbose bool) {
	warnings := diag.Count(result.Diagnostics, diag.SeverityWarning)
	errors := diag.Count(result.Diagnostics, diag.SeverityError)

	fmt.Printf("result:     %s\n", result.Outcome)
	if summaryOnly {
		return
	}
	fmt.Printf("activities: %d\n", len(result.Activities))
	fmt.Printf("warnings:   %d\n", warnings)
	fmt.Printf("errors:     %d\n", errors)
	if !verbose {
		return
	}
	for i := range result.Activities {
		fmt.Println()
		fmt.Println(summary.Describe(&result.Activities[i]))
	}
	if len(result.Diagnostics) > 0 {
		fmt.Println()
	}
	for _, d := range result.Diagnostics {
		fmt.Printf("  %s\n", d)
	}
}

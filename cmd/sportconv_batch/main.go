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
)

// sportconv_batch converts every recognizable activity file in a directory,
// fanning runs out across a worker pool. The exit code is the worst outcome
// of the batch.
func main() {
	cfg := config.Load()

	var (
		inDir   = flag.String("in", "", "Directory of source activity files")
		outDir  = flag.String("out", "", "Output directory")
		toFlag  = flag.String("to", "yaml", "Target format: tcx|gpx|yaml|csv|parquet")
		strict  = flag.Bool("strict", cfg.Strict, "Treat any data-loss warning as a failure")
		workers = flag.Int("workers", cfg.Workers, "Concurrent conversion runs")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in srcdir --out outdir [--to yaml] [--workers N]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*inDir) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(int(diag.OutcomeFailed))
	}
	to, err := convert.ParseFormat(*toFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sportconv_batch: %v\n", err)
		os.Exit(int(diag.OutcomeFailed))
	}

	items, err := loadItems(*inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sportconv_batch: %v\n", err)
		os.Exit(int(diag.OutcomeFailed))
	}
	if len(items) == 0 {
		fmt.Fprintf(os.Stderr, "sportconv_batch: no recognizable activity files in %s\n", *inDir)
		os.Exit(int(diag.OutcomeFailed))
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "sportconv_batch: %v\n", err)
		os.Exit(int(diag.OutcomeFailed))
	}

	results := convert.RunBatch(items, convert.Options{To: to, Strict: *strict}, *workers)

	worst := diag.OutcomeOK
	for _, r := range results {
		outcome := diag.OutcomeFailed
		if r.Result != nil {
			outcome = r.Result.Outcome
		}
		if outcome > worst {
			worst = outcome
		}

		if r.Err != nil {
			fmt.Printf("%-40s %s (%v)\n", r.Name, outcome, r.Err)
			continue
		}
		outPath := filepath.Join(*outDir, replaceExt(r.Name, string(to)))
		if len(r.Result.Output) > 0 {
			if err := os.WriteFile(outPath, r.Result.Output, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "sportconv_batch: write %s: %v\n", outPath, err)
				worst = diag.OutcomeFailed
				continue
			}
		}
		fmt.Printf("%-40s %s (%d warnings)\n", r.Name, outcome,
			diag.Count(r.Result.Diagnostics, diag.SeverityWarning))
	}
	os.Exit(worst.ExitCode())
}

func loadItems(dir string) ([]convert.BatchItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var items []convert.BatchItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if f, ok := convert.DetectFormat(e.Name(), data); !ok || !f.Decodable() {
			continue
		}
		items = append(items, convert.BatchItem{Name: e.Name(), Data: data})
	}
	return items, nil
}

func replaceExt(name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + "." + ext
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/pdflens/pdflens/internal/analysis"
	"github.com/pdflens/pdflens/internal/common"
	"github.com/pdflens/pdflens/internal/extract"
	"github.com/pdflens/pdflens/internal/llm"
	"github.com/pdflens/pdflens/internal/llm/providers"
	"github.com/pdflens/pdflens/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory with PDF files to analyze")
		file        = flag.String("file", "", "single PDF file to analyze")
		url         = flag.String("url", "", "PDF URL to analyze")
		out         = flag.String("out", "", "output XLSX report path (directory mode, defaults next to --dir)")
		mode        = flag.String("mode", "", "reading-time mode override: accurate or fast")
		concurrency = flag.Int("concurrency", 4, "number of PDFs processed in parallel")
		noLLM       = flag.Bool("no-llm", false, "skip providers and use the heuristic analysis only")
	)
	flag.Parse()

	if *dir == "" && *file == "" && *url == "" {
		printError("Error: one of --dir, --file or --url is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *mode != "" {
		cfg.ReadTime.Mode = *mode
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	var gen analysis.Generator
	if !*noLLM {
		specs, err := providers.FromConfig(cfg.LLM, logger)
		if err != nil {
			logger.Error("failed to configure providers", "error", err)
			os.Exit(1)
		}
		if len(specs) > 0 {
			gen = llm.NewRouter(specs, logger,
				llm.WithTimeout(cfg.LLM.Timeout),
				llm.WithMaxRetries(cfg.LLM.MaxRetries),
				llm.WithRateLimit(cfg.LLM.ProvidersRPS),
			)
		} else {
			logger.Warn("no provider credentials found, falling back to heuristic analysis")
		}
	}

	extractor := extract.NewExtractor(cfg.Extract, cfg.ReadTime, logger)
	analyzer := analysis.NewAnalyzer(cfg.Analysis, gen, logger)
	pipeline := analysis.NewPipeline(extractor, analyzer, logger)

	switch {
	case *url != "":
		_, res, err := pipeline.AnalyzeURL(ctx, *url)
		if err != nil {
			logger.Error("analysis failed", "url", *url, "error", err)
			os.Exit(1)
		}
		printResult(res)
	case *file != "":
		_, res, err := pipeline.AnalyzePath(ctx, *file)
		if err != nil {
			logger.Error("analysis failed", "file", *file, "error", err)
			os.Exit(1)
		}
		printResult(res)
	default:
		if *out == "" {
			*out = filepath.Join(filepath.Dir(*dir), "analysis.xlsx")
		}
		if err := runBatch(ctx, pipeline, logger, *dir, *out, *concurrency); err != nil {
			logger.Error("batch failed", "dir", *dir, "error", err)
			os.Exit(1)
		}
	}
}

func printResult(res analysis.Result) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}

// runBatch analyzes every PDF under dir with bounded parallelism and writes
// an XLSX report.
func runBatch(ctx context.Context, pipeline *analysis.Pipeline, logger *slog.Logger, dir, out string, concurrency int) error {
	paths, err := collectPDFs(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files under %s", dir)
	}
	logger.Info("batch.start", "dir", dir, "files", len(paths), "concurrency", concurrency)

	if concurrency < 1 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	rows := make([]report.Row, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(i int, path string) {
			defer sem.Release(1)
			defer wg.Done()

			_, res, err := pipeline.AnalyzePath(ctx, path)
			rows[i] = report.Row{Path: path, Result: res, Err: err}
			if err != nil {
				logger.Warn("batch.file_failed", "path", path, "error", err)
			}
		}(i, path)
	}
	wg.Wait()

	writer := report.NewWriter(logger)
	data, err := writer.WriteXLSX(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("batch.done", "report", out, "files", len(paths))
	return nil
}

func collectPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// Command maskstat reports connected components, outlines and moments of
// bit masks stored as PBM files or ASCII art.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gogpu/bitmask"
	"github.com/gogpu/bitmask/internal/parallel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes maskstat and returns the process exit code: 0 on success, 1
// if any file failed, 2 on bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "maskstat: %v\n", err)
		return 2
	}

	log := newLogger(stderr, cfg.Verbose)
	defer func() { _ = log.Sync() }()

	var opts []bitmask.Option
	if cfg.Verbose {
		opts = append(opts, bitmask.WithLogger(newSlogLogger(log, "bitmask")))
	}
	a := cfg.analyzer(opts...)

	pool := parallel.NewPool(cfg.Workers)
	defer pool.Close()
	log.Debug("analyzing",
		zap.Int("files", len(cfg.Files)),
		zap.Int("workers", pool.Workers()),
		zap.Int("max_pixels", cfg.MaxPixels))

	results := parallel.Map(ctx, pool, cfg.Files, func(ctx context.Context, path string) (*Report, error) {
		return analyzeFile(ctx, a, cfg, path)
	})

	reports := make([]*Report, len(results))
	errs := make([]error, len(results))
	failed := 0
	for i, res := range results {
		reports[i], errs[i] = res.Value, res.Err
		if res.Err != nil {
			failed++
			log.Error("analysis failed", zap.String("file", cfg.Files[i]), zap.Error(res.Err))
		}
	}

	if cfg.Format == "json" {
		if err := writeJSON(stdout, cfg.Files, reports, errs); err != nil {
			log.Error("writing report", zap.Error(err))
			return 1
		}
	} else {
		st := newStyles(stdout, useColor(cfg.Color, stdout))
		for i, path := range cfg.Files {
			if errs[i] != nil {
				writeError(stdout, st, path, errs[i])
				continue
			}
			writeText(stdout, st, reports[i])
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// useColor resolves the color mode; auto styles output only on a terminal.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

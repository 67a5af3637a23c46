// Command kcstape converts line-numbered BASIC text files into Kansas City
// Standard WAV recordings that load through a cassette-style audio input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cskordis/kcstape/internal/batch"
	"github.com/cskordis/kcstape/internal/config"
	"github.com/cskordis/kcstape/internal/observe"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	sourceDir := flag.String("source", "", "directory of *.txt BASIC sources (overrides config)")
	targetDir := flag.String("target", "", "directory for the wav/ output tree (overrides config)")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "kcstape: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "kcstape: %v\n", err)
			}
			return 1
		}
	}
	if *sourceDir != "" {
		cfg.SourceDir = *sourceDir
	}
	if *targetDir != "" {
		cfg.TargetDir = *targetDir
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "kcstape: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	slog.Info("kcstape starting",
		"version", version,
		"source_dir", cfg.SourceDir,
		"target_dir", cfg.TargetDir,
		"sample_rate", cfg.Encoding.SampleRate,
		"one_freq", cfg.Encoding.OneFreq,
		"zero_freq", cfg.Encoding.ZeroFreq,
		"leader_seconds", cfg.Encoding.LeaderSeconds,
		"start_bit", cfg.Encoding.StartBit,
		"parity", cfg.Encoding.Parity,
	)

	// ── Metrics ───────────────────────────────────────────────────────────────
	mp, reader, shutdown, err := observe.InitProvider(observe.ProviderConfig{
		ServiceName:    "kcstape",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()

	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		slog.Error("failed to create metric instruments", "err", err)
		return 1
	}

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Batch run ─────────────────────────────────────────────────────────────
	runner, err := batch.New(cfg, metrics)
	if err != nil {
		slog.Error("invalid encoding configuration", "err", err)
		return 1
	}

	runErr := runner.Run(ctx)
	observe.LogSummary(context.Background(), reader)
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			slog.Warn("run cancelled")
		} else {
			slog.Error("run error", "err", runErr)
		}
		return 1
	}
	slog.Info("done")
	return 0
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

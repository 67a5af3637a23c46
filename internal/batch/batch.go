// Package batch discovers BASIC text sources and encodes each one to a WAV
// file. Files are independent, so the batch fans out across a bounded worker
// pool; a failed file is logged and counted but never aborts the rest of the
// run.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/cskordis/kcstape/internal/config"
	"github.com/cskordis/kcstape/internal/observe"
	"github.com/cskordis/kcstape/pkg/kcs"
	"github.com/cskordis/kcstape/pkg/wav"
)

// writeBufSize buffers the many small pulse writes between the assembler and
// the output file.
const writeBufSize = 64 * 1024

// Runner encodes every *.txt file under the configured source directory.
// All state is read-only after New, so one Runner serves all workers.
type Runner struct {
	cfg     *config.Config
	asm     *kcs.Assembler
	metrics *observe.Metrics
}

// New validates the encoding parameters, builds the cached waveform pulses,
// and returns a Runner ready for [Runner.Run]. A configuration the waveform
// generator cannot satisfy is rejected here, before any file is read.
func New(cfg *config.Config, metrics *observe.Metrics) (*Runner, error) {
	asm, err := kcs.NewAssembler(cfg.Encoding.Params())
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, asm: asm, metrics: metrics}, nil
}

// Run encodes all matching source files, up to the configured number of
// workers in parallel. It returns an error when the context is cancelled or
// when at least one file failed; per-file failures have already been logged
// by then.
func (r *Runner) Run(ctx context.Context) error {
	pattern := filepath.Join(r.cfg.SourceDir, "*.txt")
	sources, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("batch: glob %q: %w", pattern, err)
	}
	if len(sources) == 0 {
		slog.Warn("no source files found", "pattern", pattern)
		return nil
	}
	slog.Info("batch starting", "files", len(sources), "workers", r.workers())

	var failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for _, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			dst, res, err := r.encodeFile(src)
			r.record(ctx, time.Since(start), res, err)
			if err != nil {
				failed.Add(1)
				slog.Error("encode failed", "source", src, "err", err)
				return nil
			}
			slog.Info("encoded",
				"source", src,
				"target", dst,
				"records", res.Records,
				"data_bytes", res.DataBytes,
				"samples", res.Samples,
				"duration", time.Since(start).Round(time.Millisecond),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("batch: %d of %d files failed", n, len(sources))
	}
	return nil
}

// workers returns the effective worker limit.
func (r *Runner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.NumCPU()
}

// encodeFile converts one source file into its WAV output. The waveform is
// written to a same-directory temporary file and renamed into place on
// success, so an aborted run leaves no partial output behind.
func (r *Runner) encodeFile(src string) (string, kcs.Result, error) {
	text, err := os.ReadFile(src)
	if err != nil {
		return "", kcs.Result{}, fmt.Errorf("read source: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst, err := r.outputPath(stem)
	if err != nil {
		return "", kcs.Result{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".kcstape-*.tmp")
	if err != nil {
		return "", kcs.Result{}, fmt.Errorf("create temp file: %w", err)
	}
	res, err := r.encodeTo(tmp, stem, string(text))
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", kcs.Result{}, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", kcs.Result{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", kcs.Result{}, fmt.Errorf("rename output: %w", err)
	}
	return dst, res, nil
}

// encodeTo writes the complete tagged WAV for text to f.
func (r *Runner) encodeTo(f *os.File, stem, text string) (kcs.Result, error) {
	ww, err := wav.NewWriter(f, r.asm.Params().SampleRate)
	if err != nil {
		return kcs.Result{}, err
	}
	ww.SetInfo(wav.Info{Artist: stem, Album: stem, Title: stem})

	bw := bufio.NewWriterSize(ww, writeBufSize)
	res, err := r.asm.EncodeText(bw, text)
	if err != nil {
		return kcs.Result{}, err
	}
	if err := bw.Flush(); err != nil {
		return kcs.Result{}, fmt.Errorf("flush samples: %w", err)
	}
	if err := ww.Close(); err != nil {
		return kcs.Result{}, err
	}
	return res, nil
}

// outputPath maps a source file stem to its destination under
// target_dir/wav, optionally grouped into an alphabetized subdirectory, and
// creates the directory.
func (r *Runner) outputPath(stem string) (string, error) {
	dir := filepath.Join(r.cfg.TargetDir, "wav")
	if r.cfg.Alphabetize {
		if first := firstLetter(stem); first != "" {
			dir = filepath.Join(dir, first)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(dir, stem+".wav"), nil
}

// firstLetter returns the uppercased first rune of s, or "" when s is empty.
func firstLetter(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}

// record updates the run metrics for one finished file.
func (r *Runner) record(ctx context.Context, elapsed time.Duration, res kcs.Result, err error) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	r.metrics.FilesEncoded.Add(ctx, 1, attrs)
	r.metrics.EncodeDuration.Record(ctx, elapsed.Seconds(), attrs)
	if err == nil {
		r.metrics.RecordsEncoded.Add(ctx, int64(res.Records))
		r.metrics.DataBytes.Add(ctx, int64(res.DataBytes))
		r.metrics.SamplesWritten.Add(ctx, int64(res.Samples))
	}
}

// Package batch generates, builds and writes many specimens concurrently.
// Samples share no state; a failed sample is reported and skipped.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/morphospace/internal/dataset"
	"github.com/Faultbox/morphospace/internal/logger"
	"github.com/Faultbox/morphospace/pkg/formats"
	"github.com/Faultbox/morphospace/pkg/mesh"
	"github.com/Faultbox/morphospace/pkg/shell"
)

// Options configures a batch run.
type Options struct {
	Hyperparameters shell.Hyperparameters
	OutputDir       string
	Format          formats.Format
	Workers         int
	FailFast        bool // stop scheduling after the first failed sample

	// Log defaults to logger.Named("batch").
	Log *zap.Logger
}

// Result is the outcome of one sample.
type Result struct {
	Sample   dataset.Sample
	Path     string
	Metadata mesh.Metadata
	Faces    int
	Warnings int
	Err      error
}

// Report collects per-sample results in input order.
type Report struct {
	Results  []Result
	Elapsed  time.Duration
	Failures int
}

// Succeeded returns the number of samples written.
func (r *Report) Succeeded() int {
	return len(r.Results) - r.Failures
}

// Errors returns the per-sample errors joined, or nil.
func (r *Report) Errors() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Sample.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}

// ErrSkipped marks samples that were not processed because the run stopped.
var ErrSkipped = errors.New("sample skipped")

// errFailFast aborts the group once a sample has failed under FailFast.
var errFailFast = errors.New("batch stopped after first failure")

// Run processes samples on a bounded worker pool. The returned error is
// non-nil only if the run was cancelled or stopped by FailFast; individual
// sample failures are in the report.
func Run(ctx context.Context, samples []dataset.Sample, opts Options) (*Report, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Log == nil {
		opts.Log = logger.Named("batch")
	}
	if _, err := formats.ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{Results: make([]Result, len(samples))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	names := uniqueFileNames(samples)
	for i, s := range samples {
		if gctx.Err() != nil {
			break
		}
		path := filepath.Join(opts.OutputDir, names[i]+opts.Format.Ext())
		g.Go(func() error {
			if gctx.Err() != nil {
				report.Results[i] = Result{Sample: s, Err: ErrSkipped}
				return nil
			}
			res := process(s, path, opts)
			report.Results[i] = res
			if res.Err != nil {
				opts.Log.Warn("sample failed",
					zap.String("sample", s.Name),
					zap.Int("line", s.Line),
					zap.Error(res.Err))
				if opts.FailFast {
					return errFailFast
				}
				return nil
			}
			opts.Log.Debug("sample written",
				zap.String("sample", s.Name),
				zap.String("path", res.Path),
				zap.Int("rings", res.Metadata.NumRings),
				zap.Int("faces", res.Faces))
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, errFailFast) {
		err = fmt.Errorf("%w: %w", errFailFast, report.Errors())
	}
	report.Elapsed = time.Since(start)

	for i := range report.Results {
		if report.Results[i].Err == nil && report.Results[i].Path == "" {
			// Never scheduled.
			report.Results[i] = Result{Sample: samples[i], Err: ErrSkipped}
		}
		if report.Results[i].Err != nil {
			report.Failures++
		}
	}

	opts.Log.Info("batch finished",
		zap.Int("samples", len(samples)),
		zap.Int("written", report.Succeeded()),
		zap.Int("failed", report.Failures),
		zap.Duration("elapsed", report.Elapsed))

	if err == nil {
		err = ctx.Err()
	}
	return report, err
}

// process runs one sample end to end. It shares nothing with other samples.
func process(s dataset.Sample, path string, opts Options) Result {
	res := Result{Sample: s}
	if s.Err != nil {
		res.Err = s.Err
		return res
	}

	grid, err := shell.Generate(s.Traits, opts.Hyperparameters)
	if err != nil {
		res.Err = fmt.Errorf("generating surface: %w", err)
		return res
	}
	res.Warnings = len(grid.Warnings)
	LogWarnings(opts.Log.With(zap.String("sample", s.Name)), grid.Warnings)

	m, err := mesh.Build(grid)
	if err != nil {
		res.Err = fmt.Errorf("building mesh: %w", err)
		return res
	}

	if err := formats.Save(path, opts.Format, m, s.Name); err != nil {
		res.Err = err
		return res
	}

	res.Path = path
	res.Metadata = m.Metadata
	res.Faces = m.FaceCount()
	return res
}

// LogWarnings summarizes numeric degeneracies: one debug line per kind
// with its count and first occurrence.
func LogWarnings(log *zap.Logger, warnings []shell.NumericDegeneracyWarning) {
	if len(warnings) == 0 {
		return
	}
	counts := map[shell.DegeneracyKind]int{}
	first := map[shell.DegeneracyKind]shell.NumericDegeneracyWarning{}
	for _, w := range warnings {
		if counts[w.Kind] == 0 {
			first[w.Kind] = w
		}
		counts[w.Kind]++
	}
	for _, kind := range []shell.DegeneracyKind{shell.DegenerateAperture, shell.InvalidThickness, shell.WallTooThick} {
		if counts[kind] == 0 {
			continue
		}
		log.Debug("inner surface safeguard applied",
			zap.Stringer("kind", kind),
			zap.Int("count", counts[kind]),
			zap.NamedError("first", first[kind]))
	}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// uniqueFileNames turns sample names into distinct file-system-safe stems.
func uniqueFileNames(samples []dataset.Sample) []string {
	names := make([]string, len(samples))
	used := map[string]bool{}
	for i, s := range samples {
		base := strings.Trim(unsafeName.ReplaceAllString(s.Name, "_"), "_.")
		if base == "" {
			base = fmt.Sprintf("sample_%04d", i+1)
		}
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

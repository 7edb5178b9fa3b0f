// Package service provides the plot generator: it turns results files into
// PDF charts, one job at a time.
package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"k8s.io/utils/clock"

	"github.com/okian/threadplot/internal/adapters/discovery"
	"github.com/okian/threadplot/internal/adapters/render"
	"github.com/okian/threadplot/internal/domain/job"
	"github.com/okian/threadplot/internal/domain/series"
	"github.com/okian/threadplot/pkg/logger"
	"github.com/okian/threadplot/pkg/metrics"
)

const outputPermission = 0o644

// Report summarizes a run.
type Report struct {
	RunID      string
	Discovered []string
	Succeeded  []string
	Failed     []string
	Duration   time.Duration
}

// Generator renders results files to charts.
type Generator struct {
	renderer render.Renderer
	metrics  *metrics.Manager
	logger   logger.Logger
	clock    clock.Clock

	failFast  bool
	inputExt  string
	outputExt string
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRenderer replaces the default PDF renderer.
func WithRenderer(r render.Renderer) Option {
	return func(g *Generator) {
		if r != nil {
			g.renderer = r
		}
	}
}

// WithMetrics records job outcomes on m instead of the process-wide manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(g *Generator) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithClock sets the clock used for durations and timestamps.
func WithClock(c clock.Clock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithFailFast controls whether Run stops at the first failing job.
func WithFailFast(failFast bool) Option {
	return func(g *Generator) {
		g.failFast = failFast
	}
}

// WithExtensions sets the extensions joined onto job identifiers.
func WithExtensions(input, output string) Option {
	return func(g *Generator) {
		if input != "" {
			g.inputExt = input
		}
		if output != "" {
			g.outputExt = output
		}
	}
}

// New constructs a Generator. By default it renders PDFs, stops on the first
// failure and logs nothing.
func New(opts ...Option) *Generator {
	g := &Generator{
		renderer:  render.NewPDF(),
		metrics:   metrics.Default(),
		logger:    logger.Nop(),
		clock:     clock.RealClock{},
		failFast:  true,
		inputExt:  ".txt",
		outputExt: ".pdf",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Discover lists job identifiers under dir.
func (g *Generator) Discover(ctx context.Context, dir string) ([]string, error) {
	ids, err := discovery.Walk(ctx, dir, discovery.WithLogger(g.logger))
	if err != nil {
		return nil, err
	}
	g.metrics.SetJobsDiscovered(len(ids))
	g.logger.Debug(ctx, "discovered jobs", logger.String("dir", dir), logger.Int("count", len(ids)))
	return ids, nil
}

// Plot renders the series in input to a chart at output. The output file is
// only created once the chart has been fully encoded.
func (g *Generator) Plot(ctx context.Context, input, output string) error {
	start := g.clock.Now()

	j, err := job.New(input, output)
	if err != nil {
		g.metrics.RecordJobFailed(metrics.StageName)
		return err
	}

	s, err := series.ReadFile(input)
	if err != nil {
		g.metrics.RecordJobFailed(metrics.StageRead)
		return err
	}

	var buf bytes.Buffer
	renderStart := g.clock.Now()
	if _, err := g.renderer.Render(ctx, j, s, &buf); err != nil {
		g.metrics.RecordJobFailed(metrics.StageRender)
		return err
	}
	g.metrics.RecordRenderLatency(g.clock.Since(renderStart))

	if err := writeFile(output, buf.Bytes()); err != nil {
		g.metrics.RecordJobFailed(metrics.StageWrite)
		return err
	}
	g.metrics.RecordJobSucceeded(s.Len(), buf.Len())

	sum := s.Summary()
	g.logger.Debug(ctx, "chart written",
		logger.String("output", output),
		logger.String("title", j.Title()),
		logger.Int("points", sum.Count),
		logger.Float64("min_ms", sum.Min),
		logger.Float64("max_ms", sum.Max),
		logger.Float64("mean_ms", sum.Mean),
		logger.Duration("took", g.clock.Since(start)),
	)
	return nil
}

// Run plots {dir}/{id}{inputExt} to {dir}/{id}{outputExt} for each id, in
// order. With fail-fast the first error ends the run; otherwise every job is
// attempted and the failures are returned together.
func (g *Generator) Run(ctx context.Context, dir string, ids []string) (Report, error) {
	start := g.clock.Now()
	report := Report{RunID: uuid.NewString(), Discovered: append([]string(nil), ids...)}
	log := g.logger.With(logger.String("run_id", report.RunID))

	log.Info(ctx, "plotting started",
		logger.String("dir", dir),
		logger.Int("jobs", len(ids)),
		logger.Any("fail_fast", g.failFast),
	)

	var result *multierror.Error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}

		input, output := job.Paths(dir, id, g.inputExt, g.outputExt)
		if err := g.Plot(ctx, input, output); err != nil {
			report.Failed = append(report.Failed, id)
			log.Error(ctx, "plot job failed", logger.String("job", id), logger.Error(err))
			result = multierror.Append(result, fmt.Errorf("job %s: %w", id, err))
			if g.failFast {
				break
			}
			continue
		}
		report.Succeeded = append(report.Succeeded, id)
	}

	report.Duration = g.clock.Since(start)
	g.metrics.RecordRunFinished(report.Duration, g.clock.Now())
	log.Info(ctx, "plotting finished",
		logger.Int("succeeded", len(report.Succeeded)),
		logger.Int("failed", len(report.Failed)),
		logger.Strings("failed_jobs", report.Failed),
		logger.Duration("took", report.Duration),
	)

	if err := result.ErrorOrNil(); err != nil {
		if g.failFast && len(result.Errors) == 1 {
			return report, result.Errors[0]
		}
		return report, err
	}
	return report, nil
}

// writeFile replaces path with data through a temporary sibling so a failed
// write never leaves a truncated chart behind.
func writeFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err = tmp.Chmod(outputPermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

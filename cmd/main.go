package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/threadplot/internal/adapters/render"
	app "github.com/okian/threadplot/internal/app"
	"github.com/okian/threadplot/internal/config"
	"github.com/okian/threadplot/pkg/logger"
	"github.com/okian/threadplot/pkg/metrics"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout)
	stop()

	_ = logger.Sync()
	os.Exit(code)
}

// run executes one plotting pass and returns the process exit code.
func run(ctx context.Context, stdout io.Writer) int {
	log := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return 1
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	gen := app.New(
		app.WithLogger(log.Named("plot")),
		app.WithRenderer(render.NewPDF(render.WithPageSize(cfg.WidthIn, cfg.HeightIn))),
		app.WithFailFast(cfg.FailFast),
		app.WithExtensions(cfg.InputExt, cfg.OutputExt),
	)

	ids, err := gen.Discover(ctx, cfg.ResultsDir)
	if err != nil {
		log.Error(ctx, "failed to discover jobs", logger.String("dir", cfg.ResultsDir), logger.Error(err))
		return 1
	}
	fmt.Fprintln(stdout, ids)

	_, runErr := gen.Run(ctx, cfg.ResultsDir, ids)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "failed to write metrics", logger.Error(err))
		}
	}

	if runErr != nil {
		log.Error(ctx, "plotting failed", logger.Error(runErr))
		return 1
	}
	return 0
}

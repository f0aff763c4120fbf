package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/match-stats-scheduler/internal/app"
	"github.com/riskibarqy/match-stats-scheduler/internal/config"
	"github.com/riskibarqy/match-stats-scheduler/internal/observability"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		failure := reportBootFailure(err)
		_ = writeJSON(os.Stdout, failure)
		return 1
	}

	logger, flushLogs, err := observability.InitBetterStackLogger(cfg, "worker", logging.NewJSON(cfg.LogLevel))
	if err != nil {
		_ = writeJSON(os.Stdout, reportBootFailure(err))
		return 1
	}
	logging.SetDefault(logger)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace failed", "error", err)
		}
		_ = flushLogs(ctx)
	}()

	build := func(ctx context.Context) (*runtime, func(), error) {
		a, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return nil, func() {}, err
		}
		cleanup := func() {
			if err := a.Close(); err != nil {
				logger.Warn("close app resources failed", "error", err)
			}
		}
		return &runtime{
			scheduler:  a.Schedule,
			statistics: a.Statistics,
			teams:      cfg.TrackedTeams,
			logger:     logger,
		}, cleanup, nil
	}

	if err := newRootCommand(build, os.Stdout, os.Stdin).Execute(); err != nil {
		return 1
	}
	return 0
}

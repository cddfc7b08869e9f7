package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nazmulcodes/deshcart-backend/internal/cron"
	"github.com/nazmulcodes/deshcart-backend/internal/growthmap"
	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/nazmulcodes/deshcart-backend/pkg/metrics"
	"github.com/nazmulcodes/deshcart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "refresher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "refresher"

	logg = logger.New(logger.Options{
		ServiceName: "refresher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	insightClient, err := insight.NewClient(
		cfg.Insight.BaseURL,
		insight.WithAPIKey(cfg.Insight.APIKey),
		insight.WithTimeout(cfg.Insight.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics client", err)
		os.Exit(1)
	}

	growthService := growthmap.NewService(
		insightClient,
		redisClient,
		nil,
		growthmap.NewFrameAggregator(logg, nil),
		growthmap.NewEventBucketStore(),
		logg,
		cfg.Growth,
	)

	warmJob, err := cron.NewWarmCacheJob(cron.WarmCacheJobParams{
		Logger:          logg,
		Warmer:          growthService,
		TimeframeMonths: cfg.Growth.DefaultTimeframe,
		Divisions:       cfg.Cron.Divisions,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cache warm job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("refresher"), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresher lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(warmJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create refresher service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting refresher")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "refresher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "refresher shutting down gracefully")
}

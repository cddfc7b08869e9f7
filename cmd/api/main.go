package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nazmulcodes/deshcart-backend/api/routes"
	"github.com/nazmulcodes/deshcart-backend/internal/growthmap"
	"github.com/nazmulcodes/deshcart-backend/internal/insights"
	"github.com/nazmulcodes/deshcart-backend/internal/views"
	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	"github.com/nazmulcodes/deshcart-backend/pkg/db"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/nazmulcodes/deshcart-backend/pkg/metrics"
	"github.com/nazmulcodes/deshcart-backend/pkg/migrate"
	"github.com/nazmulcodes/deshcart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	registry := prometheus.NewRegistry()
	growthStats := metrics.NewGrowthMetrics(registry)

	aggregator := growthmap.NewFrameAggregator(logg, growthStats)
	growthService := growthmap.NewService(
		insightClient,
		redisClient,
		redisClient,
		aggregator,
		growthmap.NewEventBucketStore(),
		logg,
		cfg.Growth,
	)
	sessions := growthmap.NewSessionManager(cfg.Growth.SessionIdleTTL, logg, growthStats)
	defer sessions.CloseAll()

	insightsService := insights.NewService(insightClient, logg, cfg.Growth.DefaultTimeframe)
	viewsService := views.NewService(views.NewRepository(dbClient.DB()), logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go sessions.Run(ctx, time.Minute)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Growth:   growthService,
			Sessions: sessions,
			Insights: insightsService,
			Views:    viewsService,
			Registry: registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(logCtx, "api server shut down gracefully")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/giftshop-backend/internal/budgets"
	"github.com/angelmondragon/giftshop-backend/internal/cron"
	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/internal/responsibles"
	"github.com/angelmondragon/giftshop-backend/internal/settings"
	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/instance"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
	"github.com/angelmondragon/giftshop-backend/pkg/migrate"
	"github.com/angelmondragon/giftshop-backend/pkg/redis"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

const lockKeyFormat = "cron-worker:%s"

func main() {
	job := flag.String("job", "", "run a single job once (budget-expiry|image-sync) and exit")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for /metrics")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	reg := metrics.NewRegistry()
	jobs, err := buildJobs(cfg, logg, dbClient, gcsClient, reg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(fmt.Sprintf(lockKeyFormat, envOrLocal(cfg.App.Env))), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry, err := cron.NewRegistry(jobs...)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"interval":  cfg.Cron.Interval.String(),
		"worker_id": instance.GetID(),
	})

	if *job != "" {
		if err := service.RunOnce(ctx, *job); err != nil {
			logg.Error(logg.WithField(ctx, "job", *job), "cron job failed", err)
			os.Exit(1)
		}
		return
	}

	if *metricsAddr != "" {
		server := &http.Server{Addr: *metricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped", err)
			}
		}()
		defer server.Close()
	}

	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, gcsClient *gcs.Client, reg *prometheus.Registry) ([]cron.Job, error) {
	conn := dbClient.DB()

	imageRepo := images.NewRepository(conn)
	settingsService, err := settings.NewService(settings.NewRepository(conn), imageRepo)
	if err != nil {
		return nil, err
	}
	budgetService, err := budgets.NewService(dbClient, budgets.NewRepository(conn), responsibles.NewRepository(conn), settingsService, logg, budgets.ServiceOptions{
		CurrencySymbol: cfg.Budget.CurrencySymbol,
	})
	if err != nil {
		return nil, err
	}
	expiry, err := cron.NewBudgetExpiryJob(budgetService, logg)
	if err != nil {
		return nil, err
	}

	synchronizer, err := images.NewSynchronizer(imageRepo, gcsClient, images.SyncOptions{
		Folder:   cfg.Media.Folder,
		PageSize: cfg.Media.SyncPageSize,
	}, metrics.NewImageSyncMetrics(reg), logg)
	if err != nil {
		return nil, err
	}
	imageSync, err := cron.NewImageSyncJob(synchronizer, logg)
	if err != nil {
		return nil, err
	}

	return []cron.Job{expiry, imageSync}, nil
}

func envOrLocal(env string) string {
	if env == "" {
		return "local"
	}
	return env
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

func main() {
	folder := flag.String("folder", "", "bucket folder to scan (defaults to GIFTSHOP_MEDIA_FOLDER)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "imagesync"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "imagesync",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	target := cfg.Media.Folder
	if *folder != "" {
		target = *folder
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "folder": target})

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "gcs", err)
	defer gcsClient.Close()

	synchronizer, err := images.NewSynchronizer(images.NewRepository(dbClient.DB()), gcsClient, images.SyncOptions{
		Folder:   target,
		PageSize: cfg.Media.SyncPageSize,
	}, metrics.NewImageSyncMetrics(prometheus.NewRegistry()), logg)
	requireResource(ctx, logg, "image synchronizer", err)

	report, err := synchronizer.Run(ctx)
	if err != nil {
		logg.Error(ctx, "image sync failed", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	requireResource(ctx, logg, "report encoding", err)
	fmt.Println(string(out))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type imageSyncer interface {
	Folder() string
	Run(ctx context.Context) (images.SyncReport, error)
}

// NewImageSyncJob reconciles the media folder with the images table on every cycle.
func NewImageSyncJob(syncer imageSyncer, logg *logger.Logger) (Job, error) {
	if syncer == nil {
		return nil, fmt.Errorf("image synchronizer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &imageSyncJob{syncer: syncer, logg: logg}, nil
}

type imageSyncJob struct {
	syncer imageSyncer
	logg   *logger.Logger
}

func (j *imageSyncJob) Name() string { return "image-sync" }

func (j *imageSyncJob) Run(ctx context.Context) error {
	ctx = j.logg.WithField(ctx, "folder", j.syncer.Folder())
	report, err := j.syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync images: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"total":    report.Total,
		"added":    report.Added,
		"skipped":  report.Skipped,
		"marked":   report.Marked,
		"restored": report.Restored,
	}), "images.sync.complete")
	return nil
}

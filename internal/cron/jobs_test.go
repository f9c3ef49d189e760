package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type fakeExpirer struct {
	count int64
	err   error
	calls int
}

func (f *fakeExpirer) ExpireOverdue(ctx context.Context) (int64, error) {
	f.calls++
	return f.count, f.err
}

type fakeSyncer struct {
	report images.SyncReport
	err    error
}

func (f *fakeSyncer) Folder() string { return "giftshop" }

func (f *fakeSyncer) Run(ctx context.Context) (images.SyncReport, error) {
	return f.report, f.err
}

func TestBudgetExpiryJob(t *testing.T) {
	expirer := &fakeExpirer{count: 3}
	job, err := NewBudgetExpiryJob(expirer, logger.Nop())
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != "budget-expiry" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected one call, got %d", expirer.calls)
	}

	expirer.err = errors.New("db down")
	if err := job.Run(context.Background()); !errors.Is(err, expirer.err) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestImageSyncJob(t *testing.T) {
	syncer := &fakeSyncer{report: images.SyncReport{Total: 4, Added: 1, Skipped: 3}}
	job, err := NewImageSyncJob(syncer, logger.Nop())
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	syncer.err = errors.New("bucket missing")
	if err := job.Run(context.Background()); !errors.Is(err, syncer.err) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := NewImageSyncJob(nil, logger.Nop()); err == nil {
		t.Fatal("expected error without synchronizer")
	}
}

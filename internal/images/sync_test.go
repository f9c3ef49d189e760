package images

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

const testBase = "https://cdn.example.com/bucket/"

type fakeLister struct {
	pages [][]string
	calls int
	err   error
}

func (f *fakeLister) List(ctx context.Context, folder, pageToken string, pageSize int) (gcs.ListPage, error) {
	f.calls++
	if f.err != nil {
		return gcs.ListPage{}, f.err
	}
	idx := 0
	if pageToken != "" {
		idx = int(pageToken[0] - '0')
	}
	page := gcs.ListPage{}
	for _, name := range f.pages[idx] {
		page.Objects = append(page.Objects, gcs.Object{Name: name, URL: testBase + name})
	}
	if idx+1 < len(f.pages) {
		page.NextPageToken = string(rune('0' + idx + 1))
	}
	return page, nil
}

func (f *fakeLister) ObjectName(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, testBase) || rawURL == testBase {
		return "", false
	}
	return strings.TrimPrefix(rawURL, testBase), true
}

func newTestSynchronizer(t *testing.T, lister *fakeLister) (*Synchronizer, *Repository) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	syncer, err := NewSynchronizer(repo, lister, SyncOptions{Folder: "giftshop", PageSize: 2}, metrics.NewImageSyncMetrics(prometheus.NewRegistry()), nil)
	if err != nil {
		t.Fatalf("new synchronizer: %v", err)
	}
	return syncer, repo
}

func TestSyncPaginatesAndInsertsUnknown(t *testing.T) {
	lister := &fakeLister{pages: [][]string{
		{"giftshop/mate.jpg", "giftshop/taza.png"},
		{"giftshop/lapicera.webp"},
	}}
	syncer, repo := newTestSynchronizer(t, lister)
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Image{URL: testBase + "giftshop/mate.jpg", Alt: "Mate"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	report, err := syncer.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if lister.calls != 2 {
		t.Fatalf("expected 2 listing pages, got %d", lister.calls)
	}
	if report.Total != 3 || report.Added != 2 || report.Skipped != 1 || report.Marked != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.AddedImages) != 2 || report.AddedImages[0].Alt != "giftshop/taza" {
		t.Fatalf("unexpected added images %+v", report.AddedImages)
	}
}

func TestSyncIsIdempotentOnRerun(t *testing.T) {
	lister := &fakeLister{pages: [][]string{{"giftshop/mate.jpg", "giftshop/taza.png"}}}
	syncer, _ := newTestSynchronizer(t, lister)
	ctx := context.Background()

	if _, err := syncer.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := syncer.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Added != 0 || report.Marked != 0 || report.Skipped != 2 {
		t.Fatalf("expected no-op rerun, got %+v", report)
	}
}

func TestSyncMarksMissingOnceAndKeepsRows(t *testing.T) {
	lister := &fakeLister{pages: [][]string{{"giftshop/mate.jpg", "giftshop/taza.png"}}}
	syncer, repo := newTestSynchronizer(t, lister)
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Image{URL: "https://elsewhere.com/banner.jpg", Alt: "externa"}); err != nil {
		t.Fatalf("seed foreign image: %v", err)
	}
	if _, err := syncer.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	lister.pages = [][]string{{"giftshop/mate.jpg"}}
	report, err := syncer.Run(ctx)
	if err != nil {
		t.Fatalf("shrunken run: %v", err)
	}
	if report.Marked != 1 || report.Skipped != 1 {
		t.Fatalf("expected one marked image, got %+v", report)
	}

	again, err := syncer.Run(ctx)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if again.Marked != 0 {
		t.Fatalf("tombstoned image must not be re-marked, got %+v", again)
	}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("marking must not delete rows, got %d", len(rows))
	}
	var marked int
	for _, row := range rows {
		if row.IsTombstoned() {
			marked++
			if row.URL != testBase+"giftshop/taza.png" {
				t.Fatalf("wrong image marked: %s", row.URL)
			}
		}
	}
	if marked != 1 {
		t.Fatalf("expected exactly one tombstone, got %d", marked)
	}
}

func TestSyncRestoresReappearedImage(t *testing.T) {
	lister := &fakeLister{pages: [][]string{{"giftshop/mate.jpg"}}}
	syncer, repo := newTestSynchronizer(t, lister)
	ctx := context.Background()

	marker := models.DeletedFromRemoteObservation
	if err := repo.Create(ctx, &models.Image{URL: testBase + "giftshop/mate.jpg", Observation: &marker}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	report, err := syncer.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Restored != 1 || report.Added != 0 {
		t.Fatalf("expected restore, got %+v", report)
	}
}

func TestSyncStopsOnListingError(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	syncer, repo := newTestSynchronizer(t, lister)
	if _, err := syncer.Run(context.Background()); err == nil {
		t.Fatal("expected listing error")
	}
	rows, _ := repo.ListAll(context.Background())
	if len(rows) != 0 {
		t.Fatalf("expected no writes, got %d rows", len(rows))
	}
}

func TestSyncFolderNamedLikeBucket(t *testing.T) {
	lister := &fakeLister{pages: [][]string{{"bucket/mate.jpg"}}}
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	syncer, err := NewSynchronizer(repo, lister, SyncOptions{Folder: "bucket"}, metrics.NewImageSyncMetrics(prometheus.NewRegistry()), nil)
	if err != nil {
		t.Fatalf("new synchronizer: %v", err)
	}
	ctx := context.Background()
	if err := repo.Create(ctx, &models.Image{URL: testBase + "bucket/mate.jpg", Alt: "Mate"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	report, err := syncer.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Skipped != 1 || report.Added != 0 || report.Marked != 0 {
		t.Fatalf("expected the live image to be matched, got %+v", report)
	}
	if id, ok := syncer.identifier(testBase + "bucket/mate.jpg"); !ok || id != "bucket/mate" {
		t.Fatalf("identifier = %q, %v; want bucket/mate", id, ok)
	}
}

func TestIdentifierFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{url: testBase + "giftshop/mate.jpg", want: "giftshop/mate", ok: true},
		{url: "https://res.example.com/image/upload/v1700/giftshop/sub/taza.final.png", want: "giftshop/sub/taza.final", ok: true},
		{url: "https://cdn.example.com/other/mate.jpg", ok: false},
		{url: "https://cdn.example.com/giftshopx/mate.jpg", ok: false},
		{url: "::bad", ok: false},
	}
	for _, tt := range tests {
		got, ok := IdentifierFromURL(tt.url, "giftshop")
		if ok != tt.ok || got != tt.want {
			t.Fatalf("IdentifierFromURL(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

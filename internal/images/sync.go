package images

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

const (
	defaultSyncPageSize = 500
	// maxSyncPages stops a listing that keeps handing back tokens.
	maxSyncPages = 10_000
)

type remoteLister interface {
	List(ctx context.Context, folder, pageToken string, pageSize int) (gcs.ListPage, error)
	ObjectName(rawURL string) (string, bool)
}

type syncRepository interface {
	ListAll(ctx context.Context) ([]models.Image, error)
	Create(ctx context.Context, image *models.Image) error
	SetObservation(ctx context.Context, id uint, observation *string) error
}

// SyncOptions configures the remote folder reconciled by the synchronizer.
type SyncOptions struct {
	Folder   string
	PageSize int
}

// Synchronizer reconciles the remote media folder with local image rows. Every
// insert and update commits on its own; a failed run keeps what it already wrote.
type Synchronizer struct {
	repo     syncRepository
	host     remoteLister
	folder   string
	pageSize int
	metrics  *metrics.ImageSyncMetrics
	logg     *logger.Logger
	now      func() time.Time
}

func NewSynchronizer(repo syncRepository, host remoteLister, opts SyncOptions, m *metrics.ImageSyncMetrics, logg *logger.Logger) (*Synchronizer, error) {
	if repo == nil {
		return nil, fmt.Errorf("image repository required")
	}
	if host == nil {
		return nil, fmt.Errorf("media host required")
	}
	folder := strings.Trim(strings.TrimSpace(opts.Folder), "/")
	if folder == "" {
		return nil, fmt.Errorf("media folder required")
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultSyncPageSize
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Synchronizer{
		repo:     repo,
		host:     host,
		folder:   folder,
		pageSize: pageSize,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Folder is the remote folder this synchronizer reconciles.
func (s *Synchronizer) Folder() string {
	return s.folder
}

func (s *Synchronizer) Run(ctx context.Context) (SyncReport, error) {
	started := s.now()
	report := SyncReport{AddedImages: []ImageDTO{}}

	remote, err := s.listRemote(ctx)
	if err != nil {
		return report, err
	}
	report.Total = len(remote)

	local, err := s.repo.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("load local images: %w", err)
	}

	known := make(map[string]*models.Image, len(local))
	knownURLs := make(map[string]struct{}, len(local))
	for i := range local {
		knownURLs[local[i].URL] = struct{}{}
		if id, ok := s.identifier(local[i].URL); ok {
			known[id] = &local[i]
		}
	}

	remoteIDs := make(map[string]struct{}, len(remote))
	for _, obj := range remote {
		id := identifierFromObjectName(obj.Name)
		remoteIDs[id] = struct{}{}

		if existing, ok := known[id]; ok {
			report.Skipped++
			if existing.IsTombstoned() {
				if err := s.repo.SetObservation(ctx, existing.ID, nil); err != nil {
					return s.finish(ctx, report, started, fmt.Errorf("restore image %d: %w", existing.ID, err))
				}
				report.Restored++
			}
			continue
		}
		if _, ok := knownURLs[obj.URL]; ok {
			report.Skipped++
			continue
		}

		image := &models.Image{URL: obj.URL, Alt: id}
		if err := s.repo.Create(ctx, image); err != nil {
			return s.finish(ctx, report, started, fmt.Errorf("insert image %q: %w", id, err))
		}
		known[id] = image
		knownURLs[obj.URL] = struct{}{}
		report.Added++
		report.AddedImages = append(report.AddedImages, NewImageDTO(*image))
	}

	marker := models.DeletedFromRemoteObservation
	for id, image := range known {
		if _, ok := remoteIDs[id]; ok || image.IsTombstoned() {
			continue
		}
		if err := s.repo.SetObservation(ctx, image.ID, &marker); err != nil {
			return s.finish(ctx, report, started, fmt.Errorf("mark image %d: %w", image.ID, err))
		}
		report.Marked++
	}

	return s.finish(ctx, report, started, nil)
}

func (s *Synchronizer) finish(ctx context.Context, report SyncReport, started time.Time, err error) (SyncReport, error) {
	elapsed := s.now().Sub(started)
	s.metrics.ObserveRun(report.Added, report.Skipped, report.Marked, elapsed)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"folder":      s.folder,
		"total":       report.Total,
		"added":       report.Added,
		"skipped":     report.Skipped,
		"marked":      report.Marked,
		"restored":    report.Restored,
		"duration_ms": elapsed.Milliseconds(),
	})
	if err != nil {
		s.logg.Error(ctx, "image sync aborted", err)
		return report, err
	}
	s.logg.Info(ctx, "image sync completed")
	return report, nil
}

func (s *Synchronizer) listRemote(ctx context.Context) ([]gcs.Object, error) {
	var (
		objects []gcs.Object
		token   string
	)
	seen := map[string]struct{}{}
	for page := 0; page < maxSyncPages; page++ {
		res, err := s.host.List(ctx, s.folder, token, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("list remote folder %q: %w", s.folder, err)
		}
		objects = append(objects, res.Objects...)
		if res.NextPageToken == "" {
			return objects, nil
		}
		if _, dup := seen[res.NextPageToken]; dup {
			return nil, fmt.Errorf("list remote folder %q: page token %q repeated", s.folder, res.NextPageToken)
		}
		seen[res.NextPageToken] = struct{}{}
		token = res.NextPageToken
	}
	return nil, fmt.Errorf("list remote folder %q: more than %d pages", s.folder, maxSyncPages)
}

// IdentifierFromURL trims an image URL down to folder/filename without extension.
// URLs that do not contain the folder as a path segment report false.
func IdentifierFromURL(rawURL, folder string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Path == "" {
		return "", false
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return "", false
	}
	p := u.Path
	idx := strings.Index(p, "/"+folder+"/")
	if idx < 0 {
		return "", false
	}
	rest := p[idx+1:]
	if strings.HasSuffix(rest, "/") {
		return "", false
	}
	return identifierFromObjectName(rest), true
}

// identifier resolves a stored URL against the host's own prefix first, so a bucket
// named like the folder is not mistaken for it. Foreign URLs fall back to a path scan.
func (s *Synchronizer) identifier(rawURL string) (string, bool) {
	if name, ok := s.host.ObjectName(strings.TrimSpace(rawURL)); ok {
		if !strings.HasPrefix(name, s.folder+"/") || strings.HasSuffix(name, "/") {
			return "", false
		}
		return identifierFromObjectName(name), true
	}
	return IdentifierFromURL(rawURL, s.folder)
}

func identifierFromObjectName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

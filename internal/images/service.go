package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
	"github.com/angelmondragon/giftshop-backend/pkg/slug"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

const resourceName = "la imagen"

// MediaHost is the remote store holding the image files.
type MediaHost interface {
	List(ctx context.Context, folder, pageToken string, pageSize int) (gcs.ListPage, error)
	Upload(ctx context.Context, in gcs.UploadInput) (gcs.Object, error)
	Delete(ctx context.Context, name string) error
	ObjectName(rawURL string) (string, bool)
}

type imageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	FindByID(ctx context.Context, id uint) (*models.Image, error)
	List(ctx context.Context, filter ListFilter) ([]models.Image, int64, error)
	UpdateFields(ctx context.Context, id uint, alt string, tag *string) error
	Delete(ctx context.Context, id uint) error
}

type syncRunner interface {
	Run(ctx context.Context) (SyncReport, error)
}

// Service exposes the admin media library.
type Service interface {
	List(ctx context.Context, filter ListFilter) (pagination.Page[ImageDTO], error)
	Get(ctx context.Context, id uint) (*ImageDTO, error)
	Upload(ctx context.Context, input UploadInput) (*ImageDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*ImageDTO, error)
	Delete(ctx context.Context, id uint) error
	Sync(ctx context.Context) (SyncReport, error)
}

// UploadInput is a single multipart file.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	Alt         string
	Tag         *string
}

type UpdateInput struct {
	Alt *string `json:"alt" validate:"omitempty,max=255"`
	Tag *string `json:"tag" validate:"omitempty,max=64"`
}

// ServiceOptions carries the media settings shared with the sync job.
type ServiceOptions struct {
	Folder         string
	MaxUploadBytes int64
}

type service struct {
	repo     imageRepository
	host     MediaHost
	sync     syncRunner
	folder   string
	maxBytes int64
	logg     *logger.Logger
}

func NewService(repo imageRepository, host MediaHost, sync syncRunner, opts ServiceOptions, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("image repository required")
	}
	if host == nil {
		return nil, fmt.Errorf("media host required")
	}
	if sync == nil {
		return nil, fmt.Errorf("image synchronizer required")
	}
	if opts.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		host:     host,
		sync:     sync,
		folder:   strings.Trim(opts.Folder, "/"),
		maxBytes: opts.MaxUploadBytes,
		logg:     logg,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[ImageDTO], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[ImageDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]ImageDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewImageDTO(row))
	}
	return pagination.NewPage(items, filter.Params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ImageDTO, error) {
	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewImageDTO(*image)
	return &dto, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*ImageDTO, error) {
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Seleccioná un archivo.").WithDetails(map[string]string{"file": "es obligatorio"})
	}
	if input.Size > s.maxBytes {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "El archivo supera el máximo de %d MB.", s.maxBytes>>20)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "No pudimos leer el archivo.")
	}
	head = head[:n]
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El archivo está vacío.")
	}

	mimeType, ok := detectImageType(head)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Solo se permiten imágenes JPG, PNG, WEBP o GIF.")
	}
	if declared, err := sniffMimeType(input.ContentType); err == nil && declared != mimeType {
		ctx = s.logg.WithFields(ctx, map[string]any{"declared": declared, "detected": mimeType})
		s.logg.Warn(ctx, "upload content type mismatch, using detected type")
	}

	name := s.objectName(input.FileName, mimeType)
	obj, err := s.host.Upload(ctx, gcs.UploadInput{
		Name:        name,
		ContentType: mimeType,
		Body:        io.MultiReader(bytes.NewReader(head), input.Body),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	alt := strings.TrimSpace(input.Alt)
	if alt == "" {
		alt = strings.TrimSuffix(path.Base(input.FileName), path.Ext(input.FileName))
	}
	image := &models.Image{URL: obj.URL, Alt: alt, Tag: trimmedOrNil(input.Tag)}
	if err := s.repo.Create(ctx, image); err != nil {
		// the row is the source of truth; drop the orphaned object
		if delErr := s.host.Delete(ctx, name); delErr != nil && !errors.Is(delErr, gcs.ErrObjectNotFound) {
			s.logg.Error(s.logg.WithField(ctx, "object", name), "remove orphaned upload", delErr)
		}
		return nil, db.MapError(err, resourceName)
	}

	dto := NewImageDTO(*image)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*ImageDTO, error) {
	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	alt := image.Alt
	if input.Alt != nil {
		alt = strings.TrimSpace(*input.Alt)
	}
	tag := image.Tag
	if input.Tag != nil {
		tag = trimmedOrNil(input.Tag)
	}
	if err := s.repo.UpdateFields(ctx, id, alt, tag); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, id)
}

// Delete removes the remote object first so a failure leaves the row in place.
func (s *service) Delete(ctx context.Context, id uint) error {
	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return db.MapError(err, resourceName)
	}
	if name, ok := s.host.ObjectName(image.URL); ok && !image.IsTombstoned() {
		if err := s.host.Delete(ctx, name); err != nil && !errors.Is(err, gcs.ErrObjectNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete remote image")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.MapError(err, resourceName)
	}
	return nil
}

func (s *service) Sync(ctx context.Context) (SyncReport, error) {
	report, err := s.sync.Run(ctx)
	if err != nil {
		return report, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync images")
	}
	return report, nil
}

func (s *service) objectName(fileName, mimeType string) string {
	base := slug.Make(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)))
	if base == "" {
		base = "imagen"
	}
	name := base + "-" + uuid.NewString()[:8] + extensionFor(mimeType)
	if s.folder == "" {
		return name
	}
	return s.folder + "/" + name
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

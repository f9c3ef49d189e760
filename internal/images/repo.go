package images

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

// ListFilter narrows the admin media listing.
type ListFilter struct {
	Params         pagination.Params
	Tag            string
	IncludeDeleted bool
}

// Repository persists image rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Image, int64, error) {
	params := filter.Params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Image{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.Where("LOWER(alt) LIKE ? OR LOWER(url) LIKE ?", pattern, pattern)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where("tag = ?", tag)
	}
	if !filter.IncludeDeleted {
		query = query.Where("observation IS NULL OR observation <> ?", models.DeletedFromRemoteObservation)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Image
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).
		Error
	return rows, total, err
}

// ListAll loads every image row, used by the sync job.
func (r *Repository) ListAll(ctx context.Context) ([]models.Image, error) {
	var rows []models.Image
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

// CountByIDs reports how many of the ids exist.
func (r *Repository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Image{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *Repository) UpdateFields(ctx context.Context, id uint, alt string, tag *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ?", id).
		Updates(map[string]any{"alt": alt, "tag": tag}).
		Error
}

// SetObservation writes or clears the observation column.
func (r *Repository) SetObservation(ctx context.Context, id uint, observation *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ?", id).
		Update("observation", observation).
		Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Image{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

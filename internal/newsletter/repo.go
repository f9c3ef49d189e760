package newsletter

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := r.db.WithContext(ctx).First(&subscriber, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := r.db.WithContext(ctx).First(&subscriber, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// SetActive flips the flag through a map so false is written.
func (r *Repository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscriber{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.NewsletterSubscriber{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) filtered(ctx context.Context, query string, active *bool) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{})
	if query != "" {
		pattern := pagination.Params{Query: query}.LikePattern()
		tx = tx.Where("email LIKE ? OR LOWER(COALESCE(name, '')) LIKE ?", pattern, pattern)
	}
	if active != nil {
		tx = tx.Where("is_active = ?", *active)
	}
	return tx
}

func (r *Repository) List(ctx context.Context, params pagination.Params, active *bool) ([]models.NewsletterSubscriber, int64, error) {
	params = params.Normalize()
	query := r.filtered(ctx, params.Query, active)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.NewsletterSubscriber
	err := query.Order("created_at DESC").Order("id DESC").Offset(params.Offset()).Limit(params.Limit()).Find(&rows).Error
	return rows, total, err
}

func (r *Repository) ListAll(ctx context.Context, active *bool) ([]models.NewsletterSubscriber, error) {
	var rows []models.NewsletterSubscriber
	err := r.filtered(ctx, "", active).Order("id ASC").Find(&rows).Error
	return rows, err
}

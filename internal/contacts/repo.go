package contacts

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

type ListFilter struct {
	Params pagination.Params
	Unread bool
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *Repository) MarkRead(ctx context.Context, id uint, read bool) error {
	res := r.db.WithContext(ctx).Model(&models.Contact{}).Where("id = ?", id).Updates(map[string]any{"is_read": read})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Contact, int64, error) {
	params := filter.Params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Contact{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.Where("LOWER(name) LIKE ? OR email LIKE ? OR LOWER(message) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Unread {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Contact
	err := query.Order("created_at DESC").Order("id DESC").Offset(params.Offset()).Limit(params.Limit()).Find(&rows).Error
	return rows, total, err
}

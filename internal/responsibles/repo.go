package responsibles

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

func (r *Repository) Create(ctx context.Context, responsible *models.Responsible) error {
	return r.db.WithContext(ctx).Create(responsible).Error
}

func (r *Repository) Update(ctx context.Context, responsible *models.Responsible) error {
	return r.db.WithContext(ctx).Save(responsible).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Responsible{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Responsible, error) {
	var responsible models.Responsible
	if err := r.db.WithContext(ctx).First(&responsible, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &responsible, nil
}

func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Responsible{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context, params pagination.Params, active *bool) ([]models.Responsible, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Responsible{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.Where("LOWER(name) LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Responsible
	err := query.Order("name ASC").Offset(params.Offset()).Limit(params.Limit()).Find(&rows).Error
	return rows, total, err
}

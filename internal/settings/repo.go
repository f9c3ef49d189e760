package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the single settings row, creating it empty on first use.
func (r *Repository) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Preload("LogoImage").
		Preload("BannerImage").
		Where(models.Setting{ID: models.SettingsRowID}).
		FirstOrCreate(&setting).
		Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *Repository) Save(ctx context.Context, setting *models.Setting) error {
	setting.ID = models.SettingsRowID
	return r.db.WithContext(ctx).Omit("LogoImage", "BannerImage").Save(setting).Error
}

package products

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

// ListFilter narrows product listings. Nil flags are ignored.
type ListFilter struct {
	Params       pagination.Params
	CategorySlug string
	Featured     *bool
	Active       *bool
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Images.Image").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// ReplaceImages rewrites the gallery; the slice order becomes the position.
func (r *Repository) ReplaceImages(ctx context.Context, productID uint, imageIDs []uint) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(imageIDs) == 0 {
		return nil
	}
	rows := make([]models.ProductImage, 0, len(imageIDs))
	for i, id := range imageIDs {
		rows = append(rows, models.ProductImage{ProductID: productID, ImageID: id, Position: i})
	}
	return conn.Omit("Image").Create(&rows).Error
}

func (r *Repository) ReplaceCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Exec("DELETE FROM product_categories WHERE product_id = ?", productID).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, map[string]any{"product_id": productID, "category_id": id})
	}
	return conn.Table("product_categories").Create(&rows).Error
}

// Delete removes the product and its join rows. Budget and order lines keep their snapshots.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if err := conn.Exec("DELETE FROM product_categories WHERE product_id = ?", id).Error; err != nil {
		return err
	}
	res := conn.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.withAssociations(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the products that exist, in no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.withAssociations(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.withAssociations(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugTaken reports whether another product already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, int64, error) {
	params := filter.Params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?", pattern, pattern)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.CategorySlug != "" {
		sub := r.db.Table("product_categories").
			Select("product_categories.product_id").
			Joins("JOIN categories ON categories.id = product_categories.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
		query = query.Where("id IN (?)", sub)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Images.Image").
		Preload("Categories").
		Order("created_at DESC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).
		Error
	return rows, total, err
}

// ListAll streams every product for exports, ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.withAssociations(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

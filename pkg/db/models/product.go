package models

import "time"

// Product is a catalog listing. Prices are integer minor units.
type Product struct {
	ID             uint           `gorm:"column:id;primaryKey"`
	Name           string         `gorm:"column:name;not null"`
	Slug           string         `gorm:"column:slug;not null;uniqueIndex"`
	SKU            *string        `gorm:"column:sku;uniqueIndex"`
	Description    *string        `gorm:"column:description"`
	RetailPrice    int64          `gorm:"column:retail_price;not null;default:0"`
	WholesalePrice int64          `gorm:"column:wholesale_price;not null;default:0"`
	Stock          int            `gorm:"column:stock;not null;default:0"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured     bool           `gorm:"column:is_featured;not null;default:false"`
	Images         []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories     []Category     `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// PrimaryImage returns the lowest positioned image, if any.
func (p Product) PrimaryImage() *Image {
	var primary *ProductImage
	for i := range p.Images {
		if p.Images[i].Image == nil {
			continue
		}
		if primary == nil || p.Images[i].Position < primary.Position {
			primary = &p.Images[i]
		}
	}
	if primary == nil {
		return nil
	}
	return primary.Image
}

// ProductImage stores the ordered gallery of a product.
type ProductImage struct {
	ProductID uint   `gorm:"column:product_id;primaryKey"`
	ImageID   uint   `gorm:"column:image_id;primaryKey"`
	Position  int    `gorm:"column:position;not null;default:0"`
	Image     *Image `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
}

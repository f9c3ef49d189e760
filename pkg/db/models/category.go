package models

import "time"

// Category groups products on the storefront.
type Category struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	ImageID     *uint     `gorm:"column:image_id"`
	Image       *Image    `gorm:"foreignKey:ImageID;constraint:OnDelete:SET NULL"`
	IsFeatured  bool      `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

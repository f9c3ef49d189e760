package models

import "time"

type NewsletterSubscriber struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Name      *string   `gorm:"column:name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

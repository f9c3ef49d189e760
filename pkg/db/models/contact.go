package models

import "time"

// Contact is a message left through the storefront contact form.
type Contact struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;index"`
	Phone     *string   `gorm:"column:phone"`
	Subject   *string   `gorm:"column:subject"`
	Message   string    `gorm:"column:message;not null"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

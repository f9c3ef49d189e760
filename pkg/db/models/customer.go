package models

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

// Customer is keyed by email; at most one row exists per address.
type Customer struct {
	ID          uint               `gorm:"column:id;primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	LastName    *string            `gorm:"column:last_name"`
	Email       string             `gorm:"column:email;not null;uniqueIndex"`
	Phone       string             `gorm:"column:phone;not null;default:''"`
	Type        enums.CustomerType `gorm:"column:type;not null;default:'retail'"`
	Document    *string            `gorm:"column:document;uniqueIndex"`
	Address     *string            `gorm:"column:address"`
	Observation *string            `gorm:"column:observation"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

// Budget is the request captured from a submitted cart. Quotes share the table via Kind.
type Budget struct {
	ID              uint               `gorm:"column:id;primaryKey"`
	Number          *string            `gorm:"column:number;uniqueIndex"`
	Kind            enums.BudgetKind   `gorm:"column:kind;not null;default:'budget';index"`
	Status          enums.BudgetStatus `gorm:"column:status;not null;default:'pending';index"`
	CustomerID      uint               `gorm:"column:customer_id;not null;index"`
	Customer        *Customer          `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	ResponsibleID   *uint              `gorm:"column:responsible_id"`
	Responsible     *Responsible       `gorm:"foreignKey:ResponsibleID;constraint:OnDelete:SET NULL"`
	ContactName     string             `gorm:"column:contact_name;not null"`
	ContactLastName *string            `gorm:"column:contact_last_name"`
	ContactEmail    string             `gorm:"column:contact_email;not null"`
	ContactPhone    string             `gorm:"column:contact_phone;not null;default:''"`
	Message         *string            `gorm:"column:message"`
	Observation     *string            `gorm:"column:observation"`
	TotalAmount     int64              `gorm:"column:total_amount;not null;default:0"`
	ValidUntil      *time.Time         `gorm:"column:valid_until"`
	Items           []BudgetItem       `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// BudgetItem freezes the product as it was at submission time. ProductID carries no
// foreign key so later product edits or deletes never touch the line.
type BudgetItem struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	BudgetID  uint   `gorm:"column:budget_id;not null;index"`
	Position  int    `gorm:"column:position;not null;default:0"`
	ProductID uint   `gorm:"column:product_id;not null"`
	SKU       string `gorm:"column:sku;not null"`
	Slug      string `gorm:"column:slug;not null"`
	Name      string `gorm:"column:name;not null"`
	ImageURL  string `gorm:"column:image_url;not null;default:''"`
	ImageAlt  string `gorm:"column:image_alt;not null;default:''"`
	UnitPrice int64  `gorm:"column:unit_price;not null"`
	Quantity  int    `gorm:"column:quantity;not null"`
	Amount    int64  `gorm:"column:amount;not null"`
}

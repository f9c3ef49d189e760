package models

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

// Order is an admin-managed record, optionally converted from an approved budget.
type Order struct {
	ID          uint              `gorm:"column:id;primaryKey"`
	Number      *string           `gorm:"column:number;uniqueIndex"`
	CustomerID  uint              `gorm:"column:customer_id;not null;index"`
	Customer    *Customer         `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	BudgetID    *uint             `gorm:"column:budget_id;uniqueIndex"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending';index"`
	Notes       *string           `gorm:"column:notes"`
	TotalAmount int64             `gorm:"column:total_amount;not null;default:0"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots a product line the same way BudgetItem does.
type OrderItem struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	OrderID   uint   `gorm:"column:order_id;not null;index"`
	Position  int    `gorm:"column:position;not null;default:0"`
	ProductID uint   `gorm:"column:product_id;not null"`
	SKU       string `gorm:"column:sku;not null"`
	Slug      string `gorm:"column:slug;not null"`
	Name      string `gorm:"column:name;not null"`
	ImageURL  string `gorm:"column:image_url;not null;default:''"`
	UnitPrice int64  `gorm:"column:unit_price;not null"`
	Quantity  int    `gorm:"column:quantity;not null"`
	Amount    int64  `gorm:"column:amount;not null"`
}

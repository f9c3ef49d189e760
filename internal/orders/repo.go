package orders

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FormatNumber renders the public order number, e.g. PED-2026-000042.
func FormatNumber(order *models.Order) string {
	return fmt.Sprintf("PED-%04d-%06d", order.CreatedAt.Year(), order.ID)
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Omit("Customer").Create(order).Error; err != nil {
		return err
	}
	number := FormatNumber(order)
	if err := conn.Model(&models.Order{}).Where("id = ?", order.ID).Update("number", number).Error; err != nil {
		return err
	}
	order.Number = &number
	return nil
}

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Customer")
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByBudgetID(ctx context.Context, budgetID uint) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).First(&order, "budget_id = ?", budgetID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Order, int64, error) {
	params := filter.Params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("COALESCE(orders.number, '') LIKE ? OR LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?",
				pattern, pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("orders.customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Preload("Customer").
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).
		Error
	return rows, total, err
}

func (r *repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus moves the order only while it is still in from.
func (r *repository) UpdateStatus(ctx context.Context, id uint, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	res := conn.Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByBudgetID(ctx context.Context, budgetID uint) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	UpdateStatus(ctx context.Context, id uint, from, to enums.OrderStatus) (bool, error)
	Delete(ctx context.Context, id uint) error
}

// ListFilter narrows admin order listings.
type ListFilter struct {
	Params     pagination.Params
	Status     *enums.OrderStatus
	CustomerID *uint
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
}

type productResolver interface {
	Resolve(ctx context.Context, ids []uint) (map[uint]*models.Product, error)
}

type budgetReader interface {
	FindByID(ctx context.Context, id uint) (*models.Budget, error)
}

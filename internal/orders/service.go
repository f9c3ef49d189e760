package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/internal/budgets"
	"github.com/angelmondragon/giftshop-backend/internal/products"
	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

const (
	resourceName        = "el pedido"
	budgetOrderIndex    = "idx_orders_budget_id"
	budgetOrderSQLiteIx = "orders.budget_id"
)

// Service defines admin order operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) (pagination.Page[OrderDTO], error)
	Get(ctx context.Context, id uint) (*OrderDTO, error)
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	CreateFromBudget(ctx context.Context, budgetID uint) (*OrderDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*OrderDTO, error)
	Delete(ctx context.Context, id uint) error
}

type LineInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=10000"`
}

// CreateInput captures a manually entered order.
type CreateInput struct {
	CustomerID uint        `json:"customerId" validate:"required"`
	Notes      *string     `json:"notes" validate:"omitempty,max=2000"`
	Lines      []LineInput `json:"lines" validate:"required,min=1,dive"`
}

type UpdateInput struct {
	Notes  *string            `json:"notes" validate:"omitempty,max=2000"`
	Status *enums.OrderStatus `json:"status"`
}

type service struct {
	repo      Repository
	tx        txRunner
	customers customerFinder
	products  productResolver
	budgets   budgetReader
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, customers customerFinder, resolver productResolver, budgetRepo budgetReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer finder required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if budgetRepo == nil {
		return nil, fmt.Errorf("budget reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:      repo,
		tx:        tx,
		customers: customers,
		products:  resolver,
		budgets:   budgetRepo,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[OrderDTO], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[OrderDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewOrderDTO(row))
	}
	return pagination.NewPage(items, filter.Params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewOrderDTO(*order)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if input.CustomerID == 0 {
		return nil, invalid("customerId", "es obligatorio")
	}
	if len(input.Lines) == 0 {
		return nil, invalid("lines", "agregá al menos un producto")
	}
	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("customerId", "el cliente no existe")
	}
	if err != nil {
		return nil, db.MapError(err, "el cliente")
	}

	ids := make([]uint, 0, len(input.Lines))
	for i, line := range input.Lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return nil, invalid(fmt.Sprintf("lines[%d]", i), "producto y cantidad son obligatorios")
		}
		ids = append(ids, line.ProductID)
	}
	found, err := s.products.Resolve(ctx, ids)
	if err != nil {
		var notFound *products.NotFoundError
		if errors.As(err, &notFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "El producto %d no existe.", notFound.ProductID).
				WithDetails(map[string]any{"productId": notFound.ProductID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve order products")
	}

	order := &models.Order{
		CustomerID: customer.ID,
		Status:     enums.OrderStatusPending,
		Notes:      trimmedOrNil(input.Notes),
		Items:      make([]models.OrderItem, 0, len(input.Lines)),
	}
	snapshots := make([]budgets.LineSnapshot, 0, len(input.Lines))
	for i, line := range input.Lines {
		snapshot, err := budgets.NewLineSnapshot(*found[line.ProductID], line.Quantity, customer.Type)
		if err != nil {
			return nil, invalid(fmt.Sprintf("lines[%d]", i), "el importe de la línea no es válido")
		}
		snapshots = append(snapshots, snapshot)
		order.Items = append(order.Items, models.OrderItem{
			Position:  i,
			ProductID: snapshot.ProductID,
			SKU:       snapshot.SKU,
			Slug:      snapshot.Slug,
			Name:      snapshot.Name,
			ImageURL:  snapshot.ImageURL,
			UnitPrice: snapshot.UnitPrice,
			Quantity:  snapshot.Quantity,
			Amount:    snapshot.Amount,
		})
	}
	total, err := budgets.Total(snapshots)
	if err != nil {
		return nil, invalid("lines", "el total del pedido excede el máximo permitido")
	}
	order.TotalAmount = total

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	}); err != nil {
		return nil, db.MapError(err, resourceName)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": order.ID, "customer_id": order.CustomerID}), "order.created")
	return s.Get(ctx, order.ID)
}

// CreateFromBudget copies an approved budget into a new order. A budget converts once.
func (s *service) CreateFromBudget(ctx context.Context, budgetID uint) (*OrderDTO, error) {
	budget, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return nil, db.MapError(err, "el presupuesto")
	}
	if budget.Status != enums.BudgetStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Solo los presupuestos aprobados pueden convertirse en pedido.").
			WithDetails(map[string]string{"status": budget.Status.String()})
	}
	if existing, err := s.repo.FindByBudgetID(ctx, budgetID); err == nil {
		return nil, alreadyConverted(existing.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, db.MapError(err, resourceName)
	}

	id := budget.ID
	order := &models.Order{
		CustomerID:  budget.CustomerID,
		BudgetID:    &id,
		Status:      enums.OrderStatusPending,
		Notes:       budget.Observation,
		TotalAmount: budget.TotalAmount,
		Items:       make([]models.OrderItem, 0, len(budget.Items)),
	}
	for _, item := range budget.Items {
		order.Items = append(order.Items, models.OrderItem{
			Position:  item.Position,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Slug:      item.Slug,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Amount:    item.Amount,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if db.IsUniqueViolation(err, budgetOrderIndex) || db.IsUniqueViolation(err, budgetOrderSQLiteIx) {
		return nil, alreadyConverted(0)
	}
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": order.ID, "budget_id": budgetID}), "order.created_from_budget")
	return s.Get(ctx, order.ID)
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}

	if input.Notes != nil {
		fields := map[string]any{"notes": trimmedOrNil(input.Notes), "updated_at": s.now().UTC()}
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, db.MapError(err, resourceName)
		}
	}

	if input.Status != nil && *input.Status != order.Status {
		next := *input.Status
		if !next.IsValid() {
			return nil, invalid("status", "estado desconocido")
		}
		if !order.Status.CanTransitionTo(next) {
			return nil, transitionError(order.Status, next)
		}
		moved, err := s.repo.UpdateStatus(ctx, id, order.Status, next)
		if err != nil {
			return nil, db.MapError(err, resourceName)
		}
		if !moved {
			return nil, transitionError(order.Status, next)
		}
		ctx = s.logg.WithFields(ctx, map[string]any{"order_id": id, "from": order.Status.String(), "to": next.String()})
		s.logg.Info(ctx, "order.status.updated")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	return db.MapError(err, resourceName)
}

func alreadyConverted(orderID uint) error {
	err := pkgerrors.New(pkgerrors.CodeConflict, "El presupuesto ya fue convertido en pedido.")
	if orderID != 0 {
		err = err.WithDetails(map[string]any{"orderId": orderID})
	}
	return err
}

func transitionError(from, to enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "El pedido no puede pasar a ese estado.").
		WithDetails(map[string]string{"from": from.String(), "to": to.String()})
}

func invalid(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{field: message})
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package budgets

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

type ListFilter struct {
	Params        pagination.Params
	Kind          *enums.BudgetKind
	Status        *enums.BudgetStatus
	CustomerID    *uint
	ResponsibleID *uint
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the budget together with its items, then stamps its number.
func (r *Repository) Create(ctx context.Context, budget *models.Budget) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Omit("Customer", "Responsible").Create(budget).Error; err != nil {
		return err
	}
	number := FormatNumber(budget.CreatedAt, budget.ID)
	if err := conn.Model(&models.Budget{}).Where("id = ?", budget.ID).Update("number", number).Error; err != nil {
		return err
	}
	budget.Number = &number
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Customer").
		Preload("Responsible").
		First(&budget, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *Repository) filtered(ctx context.Context, filter ListFilter) *gorm.DB {
	params := filter.Params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Budget{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.Where(
			"LOWER(contact_name) LIKE ? OR LOWER(contact_email) LIKE ? OR COALESCE(number, '') LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ResponsibleID != nil {
		query = query.Where("responsible_id = ?", *filter.ResponsibleID)
	}
	return query
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Budget, int64, error) {
	params := filter.Params.Normalize()
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Budget
	err := query.
		Preload("Items").
		Preload("Responsible").
		Order("created_at DESC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).
		Error
	return rows, total, err
}

// ListAll ignores paging; exports use it.
func (r *Repository) ListAll(ctx context.Context, filter ListFilter) ([]models.Budget, error) {
	var rows []models.Budget
	err := r.filtered(ctx, filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Customer").
		Preload("Responsible").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Budget{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus moves the budget only when it is still in from. It reports whether a row changed.
func (r *Repository) UpdateStatus(ctx context.Context, id uint, from, to enums.BudgetStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Budget{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	conn := r.db.WithContext(ctx)
	if err := conn.Where("budget_id = ?", id).Delete(&models.BudgetItem{}).Error; err != nil {
		return err
	}
	res := conn.Where("id = ?", id).Delete(&models.Budget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExpirePending flips pending budgets whose validity ended before now.
func (r *Repository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Budget{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", enums.BudgetStatusPending, now).
		Updates(map[string]any{"status": enums.BudgetStatusExpired, "updated_at": now})
	return res.RowsAffected, res.Error
}

// HasOrder reports whether an order was already created from the budget.
func (r *Repository) HasOrder(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("budget_id = ?", id).Count(&count).Error
	return count > 0, err
}

package customers

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

// upsertColumns are the mutable fields a repeated email overwrites.
var upsertColumns = []string{"name", "last_name", "phone", "type", "document", "address", "observation", "updated_at"}

type ListFilter struct {
	Params pagination.Params
	Type   *enums.CustomerType
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

// NormalizeEmail is the form emails are stored and matched in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpsertByEmail inserts the customer or overwrites the row holding the same email in a
// single statement, then reloads it. Concurrent callers converge on one row.
func (r *Repository) UpsertByEmail(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	customer.Email = NormalizeEmail(customer.Email)
	customer.ID = 0
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(customer).
		Error
	if err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, customer.Email)
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "email", NormalizeEmail(email), excludeID)
}

func (r *Repository) DocumentTaken(ctx context.Context, document string, excludeID uint) (bool, error) {
	return r.taken(ctx, "document", document, excludeID)
}

func (r *Repository) taken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Customer{}).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountReferences reports how many budgets and orders point at the customer.
func (r *Repository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var budgets, orders int64
	if err := r.db.WithContext(ctx).Model(&models.Budget{}).Where("customer_id = ?", id).Count(&budgets).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
		return 0, err
	}
	return budgets + orders, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Customer, int64, error) {
	params := filter.Params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if params.Query != "" {
		pattern := params.LikePattern()
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(last_name, '')) LIKE ? OR email LIKE ? OR COALESCE(document, '') LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Customer
	err := query.
		Order("name ASC").
		Order("id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).
		Error
	return rows, total, err
}

// ListAll returns every customer for exports.
func (r *Repository) ListAll(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

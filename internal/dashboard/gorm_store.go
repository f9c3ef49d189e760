package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

// GormStore counts through the ORM. It works on every dialect, SQLite included.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type statusCount struct {
	Status string
	Total  int64
}

func (s *GormStore) Stats(ctx context.Context, since time.Time) (Stats, error) {
	var stats Stats
	conn := s.db.WithContext(ctx)

	counts := []struct {
		model any
		where string
		args  []any
		dest  *int64
	}{
		{model: &models.Product{}, dest: &stats.Products.Total},
		{model: &models.Product{}, where: "is_active = ?", args: []any{true}, dest: &stats.Products.Active},
		{model: &models.Product{}, where: "is_featured = ?", args: []any{true}, dest: &stats.Products.Featured},
		{model: &models.Category{}, dest: &stats.Categories},
		{model: &models.Customer{}, dest: &stats.Customers},
		{model: &models.Budget{}, where: "kind = ?", args: []any{enums.BudgetKindQuote}, dest: &stats.Budgets.Quotes},
		{model: &models.Budget{}, where: "created_at >= ?", args: []any{since}, dest: &stats.Budgets.LastSevenDays},
		{model: &models.Contact{}, where: "is_read = ?", args: []any{false}, dest: &stats.UnreadContacts},
		{model: &models.NewsletterSubscriber{}, where: "is_active = ?", args: []any{true}, dest: &stats.ActiveSubscribers},
		{model: &models.Image{}, dest: &stats.Images},
	}
	for _, c := range counts {
		query := conn.Model(c.model)
		if c.where != "" {
			query = query.Where(c.where, c.args...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return Stats{}, err
		}
	}

	var budgetRows []statusCount
	if err := conn.Model(&models.Budget{}).Select("status, COUNT(*) AS total").Group("status").Scan(&budgetRows).Error; err != nil {
		return Stats{}, err
	}
	for _, row := range budgetRows {
		stats.Budgets.add(enums.BudgetStatus(row.Status), row.Total)
	}

	var orderRows []statusCount
	if err := conn.Model(&models.Order{}).Select("status, COUNT(*) AS total").Group("status").Scan(&orderRows).Error; err != nil {
		return Stats{}, err
	}
	for _, row := range orderRows {
		stats.Orders.add(enums.OrderStatus(row.Status), row.Total)
	}
	return stats, nil
}

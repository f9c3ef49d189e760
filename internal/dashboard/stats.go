// Package dashboard aggregates the admin landing counters.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type ProductCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Featured int64 `json:"featured"`
}

type BudgetCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Expired  int64 `json:"expired"`
	Quotes   int64 `json:"quotes"`
	// LastSevenDays counts submissions of either kind.
	LastSevenDays int64 `json:"lastSevenDays"`
}

type OrderCounts struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Shipped    int64 `json:"shipped"`
	Delivered  int64 `json:"delivered"`
	Cancelled  int64 `json:"cancelled"`
}

type Stats struct {
	Products          ProductCounts `json:"products"`
	Categories        int64         `json:"categories"`
	Customers         int64         `json:"customers"`
	Budgets           BudgetCounts  `json:"budgets"`
	Orders            OrderCounts   `json:"orders"`
	UnreadContacts    int64         `json:"unreadContacts"`
	ActiveSubscribers int64         `json:"activeSubscribers"`
	Images            int64         `json:"images"`
	GeneratedAt       time.Time     `json:"generatedAt"`
}

// Store computes the counters; since bounds the recent-submission window.
type Store interface {
	Stats(ctx context.Context, since time.Time) (Stats, error)
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	store Store
	logg  *logger.Logger
	now   func() time.Time
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("dashboard store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{store: store, logg: logg, now: time.Now}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	stats, err := s.store.Stats(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		s.logg.Error(ctx, "dashboard.stats_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard counters")
	}
	stats.GeneratedAt = now
	return &stats, nil
}

func (c *BudgetCounts) add(status enums.BudgetStatus, n int64) {
	switch status {
	case enums.BudgetStatusPending:
		c.Pending += n
	case enums.BudgetStatusApproved:
		c.Approved += n
	case enums.BudgetStatusRejected:
		c.Rejected += n
	case enums.BudgetStatusExpired:
		c.Expired += n
	}
}

func (c *OrderCounts) add(status enums.OrderStatus, n int64) {
	switch status {
	case enums.OrderStatusPending:
		c.Pending += n
	case enums.OrderStatusProcessing:
		c.Processing += n
	case enums.OrderStatusShipped:
		c.Shipped += n
	case enums.OrderStatusDelivered:
		c.Delivered += n
	case enums.OrderStatusCancelled:
		c.Cancelled += n
	}
}

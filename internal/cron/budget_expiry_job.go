package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type budgetExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// NewBudgetExpiryJob flips pending budgets past their validity to expired.
func NewBudgetExpiryJob(expirer budgetExpirer, logg *logger.Logger) (Job, error) {
	if expirer == nil {
		return nil, fmt.Errorf("budget expirer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &budgetExpiryJob{expirer: expirer, logg: logg}, nil
}

type budgetExpiryJob struct {
	expirer budgetExpirer
	logg    *logger.Logger
}

func (j *budgetExpiryJob) Name() string { return "budget-expiry" }

func (j *budgetExpiryJob) Run(ctx context.Context) error {
	count, err := j.expirer.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("expire overdue budgets: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "count", count), "budget.expiry.complete")
	return nil
}

package enums

import "fmt"

// BudgetStatus tracks the admin review of a submitted budget or quote.
type BudgetStatus string

const (
	BudgetStatusPending  BudgetStatus = "pending"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusRejected BudgetStatus = "rejected"
	BudgetStatusExpired  BudgetStatus = "expired"
)

var validBudgetStatuses = []BudgetStatus{
	BudgetStatusPending,
	BudgetStatusApproved,
	BudgetStatusRejected,
	BudgetStatusExpired,
}

// String returns the literal status.
func (s BudgetStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s BudgetStatus) IsValid() bool {
	for _, candidate := range validBudgetStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s BudgetStatus) IsTerminal() bool {
	return s != BudgetStatusPending
}

// CanTransitionTo reports whether an admin may move the budget to next.
// Only pending budgets move, and only to a terminal status.
func (s BudgetStatus) CanTransitionTo(next BudgetStatus) bool {
	if s != BudgetStatusPending || !next.IsValid() {
		return false
	}
	return next != BudgetStatusPending
}

// ParseBudgetStatus converts raw input into a BudgetStatus.
func ParseBudgetStatus(value string) (BudgetStatus, error) {
	for _, candidate := range validBudgetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid budget status %q", value)
}

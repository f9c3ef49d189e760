package enums

import "fmt"

// BudgetKind distinguishes the two storefront submission flows.
type BudgetKind string

const (
	BudgetKindBudget BudgetKind = "budget"
	BudgetKindQuote  BudgetKind = "quote"
)

var validBudgetKinds = []BudgetKind{
	BudgetKindBudget,
	BudgetKindQuote,
}

// String returns the literal kind.
func (k BudgetKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k BudgetKind) IsValid() bool {
	for _, candidate := range validBudgetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseBudgetKind converts raw input into a BudgetKind.
func ParseBudgetKind(value string) (BudgetKind, error) {
	for _, candidate := range validBudgetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid budget kind %q", value)
}

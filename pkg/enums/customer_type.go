package enums

import "fmt"

// CustomerType selects which price list applies to a customer.
type CustomerType string

const (
	CustomerTypeRetail    CustomerType = "retail"
	CustomerTypeWholesale CustomerType = "wholesale"
)

var validCustomerTypes = []CustomerType{
	CustomerTypeRetail,
	CustomerTypeWholesale,
}

// String returns the literal type.
func (c CustomerType) String() string {
	return string(c)
}

// IsValid reports whether the type is known.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts raw input into a CustomerType. Empty input yields retail.
func ParseCustomerType(value string) (CustomerType, error) {
	if value == "" {
		return CustomerTypeRetail, nil
	}
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}

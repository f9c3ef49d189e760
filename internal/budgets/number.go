package budgets

import (
	"fmt"
	"time"
)

// FormatNumber renders the public budget number, e.g. 2026-000042.
func FormatNumber(createdAt time.Time, id uint) string {
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return fmt.Sprintf("%04d-%06d", createdAt.Year(), id)
}

package budgets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

// LineSnapshot freezes what a product looked like when the cart was submitted.
type LineSnapshot struct {
	ProductID uint
	SKU       string
	Slug      string
	Name      string
	ImageURL  string
	ImageAlt  string
	UnitPrice int64
	Quantity  int
	Amount    int64
}

// NewLineSnapshot builds the line for product. Wholesale customers get the wholesale
// price when one is set.
func NewLineSnapshot(product models.Product, quantity int, customerType enums.CustomerType) (LineSnapshot, error) {
	if product.ID == 0 {
		return LineSnapshot{}, fmt.Errorf("snapshot: product without id")
	}
	if quantity <= 0 || quantity > cart.MaxQuantity {
		return LineSnapshot{}, fmt.Errorf("snapshot: product %d has quantity %d", product.ID, quantity)
	}

	price := product.RetailPrice
	if customerType == enums.CustomerTypeWholesale && product.WholesalePrice > 0 {
		price = product.WholesalePrice
	}
	if price < 0 {
		return LineSnapshot{}, fmt.Errorf("snapshot: product %d has negative price", product.ID)
	}
	if price > math.MaxInt64/int64(quantity) {
		return LineSnapshot{}, fmt.Errorf("snapshot: product %d amount overflows (price %d x %d)", product.ID, price, quantity)
	}

	line := LineSnapshot{
		ProductID: product.ID,
		SKU:       "PROD-" + strconv.FormatUint(uint64(product.ID), 10),
		Slug:      product.Slug,
		Name:      strings.TrimSpace(product.Name),
		UnitPrice: price,
		Quantity:  quantity,
		Amount:    price * int64(quantity),
	}
	if product.SKU != nil && strings.TrimSpace(*product.SKU) != "" {
		line.SKU = strings.TrimSpace(*product.SKU)
	}
	line.ImageAlt = line.Name
	if image := product.PrimaryImage(); image != nil {
		line.ImageURL = image.URL
		if alt := strings.TrimSpace(image.Alt); alt != "" {
			line.ImageAlt = alt
		}
	}
	return line, nil
}

func (l LineSnapshot) item(position int) models.BudgetItem {
	return models.BudgetItem{
		Position:  position,
		ProductID: l.ProductID,
		SKU:       l.SKU,
		Slug:      l.Slug,
		Name:      l.Name,
		ImageURL:  l.ImageURL,
		ImageAlt:  l.ImageAlt,
		UnitPrice: l.UnitPrice,
		Quantity:  l.Quantity,
		Amount:    l.Amount,
	}
}

// Total sums the line amounts, failing instead of wrapping past math.MaxInt64.
func Total(lines []LineSnapshot) (int64, error) {
	var total int64
	for _, l := range lines {
		if l.Amount < 0 || total > math.MaxInt64-l.Amount {
			return 0, fmt.Errorf("total: line for product %d overflows the budget total", l.ProductID)
		}
		total += l.Amount
	}
	return total, nil
}

package cart

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/giftshop-backend/api/validators"
	cartsvc "github.com/angelmondragon/giftshop-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
)

func validateItem(item cartsvc.Item, minQuantity int) error {
	details := map[string]string{}
	if _, err := parseProductID(item.ProductID); err != nil {
		details["productId"] = "debe ser un identificador válido"
	}
	if item.Quantity < minQuantity {
		details["quantity"] = fmt.Sprintf("debe ser mayor o igual a %d", minQuantity)
	}
	if item.Quantity > cartsvc.MaxQuantity {
		details["quantity"] = fmt.Sprintf("debe ser como máximo %d", cartsvc.MaxQuantity)
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(details)
	}
	return nil
}

// parseProductID keeps the cookie's string ids but only accepts numeric ones.
func parseProductID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if _, err := validators.ParseID(trimmed, "productId"); err != nil {
		return "", err
	}
	return trimmed, nil
}

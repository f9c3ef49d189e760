package cart

import (
	"context"
	"strconv"

	cartsvc "github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
)

type cartResponse struct {
	Items     []cartsvc.Item `json:"items"`
	ItemCount int            `json:"itemCount"`
}

func newCartResponse(c cartsvc.Cart) cartResponse {
	items := c.Items()
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return cartResponse{Items: items, ItemCount: count}
}

type previewLine struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	Available     bool   `json:"available"`
	Name          string `json:"name,omitempty"`
	Slug          string `json:"slug,omitempty"`
	SKU           string `json:"sku,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	UnitPrice     int64  `json:"unitPrice"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
}

type cartPreview struct {
	Items        []previewLine `json:"items"`
	ItemCount    int           `json:"itemCount"`
	Total        int64         `json:"total"`
	TotalDisplay string        `json:"totalDisplay"`
	Unavailable  []string      `json:"unavailable"`
}

// buildPreview prices lines at retail; customer-specific pricing only happens on submit.
func buildPreview(ctx context.Context, lookup ProductLookup, c cartsvc.Cart) (cartPreview, error) {
	items := c.Items()
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if id, err := strconv.ParseUint(item.ProductID, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}

	byID := map[string]models.Product{}
	if len(ids) > 0 {
		rows, err := lookup.FindByIDs(ctx, ids)
		if err != nil {
			return cartPreview{}, err
		}
		for _, row := range rows {
			byID[strconv.FormatUint(uint64(row.ID), 10)] = row
		}
	}

	preview := cartPreview{Items: make([]previewLine, 0, len(items)), Unavailable: []string{}}
	for _, item := range items {
		line := previewLine{ProductID: item.ProductID, Quantity: item.Quantity}
		preview.ItemCount += item.Quantity

		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			line.AmountDisplay = money.Plain(0)
			preview.Unavailable = append(preview.Unavailable, item.ProductID)
			preview.Items = append(preview.Items, line)
			continue
		}

		line.Available = true
		line.Name = product.Name
		line.Slug = product.Slug
		if product.SKU != nil {
			line.SKU = *product.SKU
		}
		if img := product.PrimaryImage(); img != nil {
			line.ImageURL = img.URL
		}
		line.UnitPrice = product.RetailPrice
		line.Amount = product.RetailPrice * int64(item.Quantity)
		line.AmountDisplay = money.Plain(line.Amount)
		preview.Total += line.Amount
		preview.Items = append(preview.Items, line)
	}
	preview.TotalDisplay = money.Plain(preview.Total)
	return preview, nil
}

package orders

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
)

type OrderItemDTO struct {
	ProductID        uint   `json:"productId"`
	SKU              string `json:"sku"`
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	ImageURL         string `json:"imageUrl"`
	UnitPrice        int64  `json:"unitPrice"`
	UnitPriceDisplay string `json:"unitPriceDisplay"`
	Quantity         int    `json:"quantity"`
	Amount           int64  `json:"amount"`
}

type CustomerRef struct {
	ID    uint               `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Type  enums.CustomerType `json:"type"`
}

type OrderDTO struct {
	ID                 uint              `json:"id"`
	Number             string            `json:"number"`
	Status             enums.OrderStatus `json:"status"`
	BudgetID           *uint             `json:"budgetId,omitempty"`
	Customer           *CustomerRef      `json:"customer,omitempty"`
	CustomerID         uint              `json:"customerId"`
	Notes              *string           `json:"notes,omitempty"`
	TotalAmount        int64             `json:"totalAmount"`
	TotalAmountDisplay string            `json:"totalAmountDisplay"`
	ItemCount          int               `json:"itemCount"`
	Items              []OrderItemDTO    `json:"items"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

func NewOrderDTO(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:                 o.ID,
		Status:             o.Status,
		BudgetID:           o.BudgetID,
		CustomerID:         o.CustomerID,
		Notes:              o.Notes,
		TotalAmount:        o.TotalAmount,
		TotalAmountDisplay: money.Plain(o.TotalAmount),
		ItemCount:          len(o.Items),
		Items:              make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.Number != nil {
		dto.Number = *o.Number
	}
	if o.Customer != nil {
		dto.Customer = &CustomerRef{ID: o.Customer.ID, Name: o.Customer.Name, Email: o.Customer.Email, Type: o.Customer.Type}
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:        item.ProductID,
			SKU:              item.SKU,
			Slug:             item.Slug,
			Name:             item.Name,
			ImageURL:         item.ImageURL,
			UnitPrice:        item.UnitPrice,
			UnitPriceDisplay: money.Plain(item.UnitPrice),
			Quantity:         item.Quantity,
			Amount:           item.Amount,
		})
	}
	return dto
}

package budgets

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
)

type BudgetItemDTO struct {
	ProductID        uint   `json:"productId"`
	SKU              string `json:"sku"`
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	ImageURL         string `json:"imageUrl"`
	ImageAlt         string `json:"imageAlt"`
	UnitPrice        int64  `json:"unitPrice"`
	UnitPriceDisplay string `json:"unitPriceDisplay"`
	Quantity         int    `json:"quantity"`
	Amount           int64  `json:"amount"`
}

type ResponsibleRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BudgetDTO struct {
	ID                 uint               `json:"id"`
	Number             string             `json:"number"`
	Kind               enums.BudgetKind   `json:"kind"`
	Status             enums.BudgetStatus `json:"status"`
	CustomerID         uint               `json:"customerId"`
	CustomerType       enums.CustomerType `json:"customerType,omitempty"`
	ContactName        string             `json:"contactName"`
	ContactLastName    *string            `json:"contactLastName,omitempty"`
	ContactEmail       string             `json:"contactEmail"`
	ContactPhone       string             `json:"contactPhone"`
	Message            *string            `json:"message,omitempty"`
	Observation        *string            `json:"observation,omitempty"`
	Responsible        *ResponsibleRef    `json:"responsible,omitempty"`
	TotalAmount        int64              `json:"totalAmount"`
	TotalAmountDisplay string             `json:"totalAmountDisplay"`
	ItemCount          int                `json:"itemCount"`
	Items              []BudgetItemDTO    `json:"items,omitempty"`
	ValidUntil         *time.Time         `json:"validUntil,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// NewBudgetDTO renders the budget; items are included only when withItems is set.
func NewBudgetDTO(b models.Budget, withItems bool) BudgetDTO {
	dto := BudgetDTO{
		ID:                 b.ID,
		Kind:               b.Kind,
		Status:             b.Status,
		CustomerID:         b.CustomerID,
		ContactName:        b.ContactName,
		ContactLastName:    b.ContactLastName,
		ContactEmail:       b.ContactEmail,
		ContactPhone:       b.ContactPhone,
		Message:            b.Message,
		Observation:        b.Observation,
		TotalAmount:        b.TotalAmount,
		TotalAmountDisplay: money.Plain(b.TotalAmount),
		ItemCount:          len(b.Items),
		ValidUntil:         b.ValidUntil,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if b.Number != nil {
		dto.Number = *b.Number
	}
	if b.Customer != nil {
		dto.CustomerType = b.Customer.Type
	}
	if b.Responsible != nil {
		dto.Responsible = &ResponsibleRef{ID: b.Responsible.ID, Name: b.Responsible.Name, Email: b.Responsible.Email}
	}
	if withItems {
		dto.Items = make([]BudgetItemDTO, 0, len(b.Items))
		for _, item := range b.Items {
			dto.Items = append(dto.Items, BudgetItemDTO{
				ProductID:        item.ProductID,
				SKU:              item.SKU,
				Slug:             item.Slug,
				Name:             item.Name,
				ImageURL:         item.ImageURL,
				ImageAlt:         item.ImageAlt,
				UnitPrice:        item.UnitPrice,
				UnitPriceDisplay: money.Plain(item.UnitPrice),
				Quantity:         item.Quantity,
				Amount:           item.Amount,
			})
		}
	}
	return dto
}

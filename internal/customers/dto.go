package customers

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

type CustomerDTO struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	LastName    *string            `json:"lastName,omitempty"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Type        enums.CustomerType `json:"type"`
	Document    *string            `json:"document,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Observation *string            `json:"observation,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func NewCustomerDTO(c models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Type:        c.Type,
		Document:    c.Document,
		Address:     c.Address,
		Observation: c.Observation,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

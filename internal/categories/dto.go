package categories

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
)

type CategoryDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ImageID     *uint     `json:"imageId,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	ImageAlt    string    `json:"imageAlt"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategoryDTO(category models.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		ImageID:     category.ImageID,
		IsFeatured:  category.IsFeatured,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
	if category.Image != nil {
		dto.ImageURL = category.Image.URL
		dto.ImageAlt = category.Image.Alt
	}
	return dto
}

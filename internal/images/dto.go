package images

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
)

type ImageDTO struct {
	ID          uint      `json:"id"`
	URL         string    `json:"url"`
	Alt         string    `json:"alt"`
	Tag         *string   `json:"tag,omitempty"`
	Observation *string   `json:"observation,omitempty"`
	Deleted     bool      `json:"deletedFromRemote"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewImageDTO(image models.Image) ImageDTO {
	return ImageDTO{
		ID:          image.ID,
		URL:         image.URL,
		Alt:         image.Alt,
		Tag:         image.Tag,
		Observation: image.Observation,
		Deleted:     image.IsTombstoned(),
		CreatedAt:   image.CreatedAt,
		UpdatedAt:   image.UpdatedAt,
	}
}

// SyncReport summarizes one reconciliation run.
type SyncReport struct {
	Total       int        `json:"total"`
	Added       int        `json:"added"`
	Skipped     int        `json:"skipped"`
	Marked      int        `json:"marked"`
	Restored    int        `json:"restored"`
	AddedImages []ImageDTO `json:"addedImages"`
}

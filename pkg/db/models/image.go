package models

import "time"

// DeletedFromRemoteObservation tombstones images whose remote object disappeared.
const DeletedFromRemoteObservation = "__deleted_from_remote__"

// Image is a hosted picture shared by products, categories and settings.
type Image struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	URL         string    `gorm:"column:url;not null;uniqueIndex"`
	Alt         string    `gorm:"column:alt;not null;default:''"`
	Tag         *string   `gorm:"column:tag"`
	Observation *string   `gorm:"column:observation"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsTombstoned reports whether the sync job flagged the image as gone upstream.
func (i Image) IsTombstoned() bool {
	return i.Observation != nil && *i.Observation == DeletedFromRemoteObservation
}

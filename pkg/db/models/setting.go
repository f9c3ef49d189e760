package models

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/types"
)

// SettingsRowID is the primary key of the single settings row.
const SettingsRowID uint = 1

// Setting holds storefront-wide data shown in headers, footers and documents.
type Setting struct {
	ID                 uint              `gorm:"column:id;primaryKey"`
	CompanyName        string            `gorm:"column:company_name;not null;default:''"`
	Email              *string           `gorm:"column:email"`
	Phone              *string           `gorm:"column:phone"`
	WhatsApp           *string           `gorm:"column:whatsapp"`
	Address            *string           `gorm:"column:address"`
	TaxID              *string           `gorm:"column:tax_id"`
	LogoImageID        *uint             `gorm:"column:logo_image_id"`
	LogoImage          *Image            `gorm:"foreignKey:LogoImageID;constraint:OnDelete:SET NULL"`
	BannerImageID      *uint             `gorm:"column:banner_image_id"`
	BannerImage        *Image            `gorm:"foreignKey:BannerImageID;constraint:OnDelete:SET NULL"`
	Social             types.SocialLinks `gorm:"column:social;type:text"`
	BudgetValidityDays int               `gorm:"column:budget_validity_days;not null;default:0"`
	BudgetFooter       *string           `gorm:"column:budget_footer"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

package settings

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/types"
)

type SettingsDTO struct {
	CompanyName        string            `json:"companyName"`
	Email              *string           `json:"email,omitempty"`
	Phone              *string           `json:"phone,omitempty"`
	WhatsApp           *string           `json:"whatsapp,omitempty"`
	Address            *string           `json:"address,omitempty"`
	TaxID              *string           `json:"taxId,omitempty"`
	LogoImageID        *uint             `json:"logoImageId,omitempty"`
	LogoURL            string            `json:"logoUrl"`
	BannerImageID      *uint             `json:"bannerImageId,omitempty"`
	BannerURL          string            `json:"bannerUrl"`
	Social             types.SocialLinks `json:"social"`
	BudgetValidityDays int               `json:"budgetValidityDays"`
	BudgetFooter       *string           `json:"budgetFooter,omitempty"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

func NewSettingsDTO(s models.Setting) SettingsDTO {
	dto := SettingsDTO{
		CompanyName:        s.CompanyName,
		Email:              s.Email,
		Phone:              s.Phone,
		WhatsApp:           s.WhatsApp,
		Address:            s.Address,
		TaxID:              s.TaxID,
		LogoImageID:        s.LogoImageID,
		BannerImageID:      s.BannerImageID,
		Social:             s.Social,
		BudgetValidityDays: s.BudgetValidityDays,
		BudgetFooter:       s.BudgetFooter,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.LogoImage != nil {
		dto.LogoURL = s.LogoImage.URL
	}
	if s.BannerImage != nil {
		dto.BannerURL = s.BannerImage.URL
	}
	return dto
}

// PublicSettingsDTO is what the storefront header and footer render.
type PublicSettingsDTO struct {
	CompanyName string            `json:"companyName"`
	Email       *string           `json:"email,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	WhatsApp    *string           `json:"whatsapp,omitempty"`
	Address     *string           `json:"address,omitempty"`
	LogoURL     string            `json:"logoUrl"`
	BannerURL   string            `json:"bannerUrl"`
	Social      types.SocialLinks `json:"social"`
}

func NewPublicSettingsDTO(s models.Setting) PublicSettingsDTO {
	full := NewSettingsDTO(s)
	return PublicSettingsDTO{
		CompanyName: full.CompanyName,
		Email:       full.Email,
		Phone:       full.Phone,
		WhatsApp:    full.WhatsApp,
		Address:     full.Address,
		LogoURL:     full.LogoURL,
		BannerURL:   full.BannerURL,
		Social:      full.Social,
	}
}

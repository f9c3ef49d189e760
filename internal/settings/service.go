package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/types"
)

const resourceName = "la configuración"

type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	GetPublic(ctx context.Context) (*PublicSettingsDTO, error)
	Update(ctx context.Context, input Input) (*SettingsDTO, error)
	Current(ctx context.Context) (*models.Setting, error)
}

type Input struct {
	CompanyName        string            `json:"companyName" validate:"required,max=160"`
	Email              *string           `json:"email" validate:"omitempty,email,max=254"`
	Phone              *string           `json:"phone" validate:"omitempty,max=40"`
	WhatsApp           *string           `json:"whatsapp" validate:"omitempty,max=40"`
	Address            *string           `json:"address" validate:"omitempty,max=255"`
	TaxID              *string           `json:"taxId" validate:"omitempty,max=32"`
	LogoImageID        *uint             `json:"logoImageId"`
	BannerImageID      *uint             `json:"bannerImageId"`
	Social             types.SocialLinks `json:"social"`
	BudgetValidityDays int               `json:"budgetValidityDays" validate:"min=0,max=365"`
	BudgetFooter       *string           `json:"budgetFooter" validate:"omitempty,max=2000"`
}

type imageCounter interface {
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}

type service struct {
	repo   *Repository
	images imageCounter
}

func NewService(repo *Repository, images imageCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image repository required")
	}
	return &service{repo: repo, images: images}, nil
}

// Current returns the raw row for collaborators such as budget documents.
func (s *service) Current(ctx context.Context) (*models.Setting, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return setting, nil
}

func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	setting, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	dto := NewSettingsDTO(*setting)
	return &dto, nil
}

func (s *service) GetPublic(ctx context.Context) (*PublicSettingsDTO, error) {
	setting, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	dto := NewPublicSettingsDTO(*setting)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, input Input) (*SettingsDTO, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{"companyName": "es obligatorio"})
	}
	if input.BudgetValidityDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{"budgetValidityDays": "no puede ser negativo"})
	}
	for field, id := range map[string]*uint{"logoImageId": input.LogoImageID, "bannerImageId": input.BannerImageID} {
		if id == nil {
			continue
		}
		count, err := s.images.CountByIDs(ctx, []uint{*id})
		if err != nil {
			return nil, db.MapError(err, "la imagen")
		}
		if count == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "La imagen seleccionada no existe.").WithDetails(map[string]any{field: *id})
		}
	}

	setting, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	setting.CompanyName = name
	setting.Email = trimmedOrNil(input.Email)
	setting.Phone = trimmedOrNil(input.Phone)
	setting.WhatsApp = trimmedOrNil(input.WhatsApp)
	setting.Address = trimmedOrNil(input.Address)
	setting.TaxID = trimmedOrNil(input.TaxID)
	setting.LogoImageID = input.LogoImageID
	setting.BannerImageID = input.BannerImageID
	setting.Social = input.Social
	setting.BudgetValidityDays = input.BudgetValidityDays
	setting.BudgetFooter = trimmedOrNil(input.BudgetFooter)
	setting.LogoImage = nil
	setting.BannerImage = nil

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

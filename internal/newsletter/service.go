package newsletter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
	"github.com/angelmondragon/giftshop-backend/pkg/spreadsheet"
)

const resourceName = "el suscriptor"

var errAlreadySubscribed = pkgerrors.New(pkgerrors.CodeConflict, "Este email ya está suscripto al newsletter.")

type SubscriberDTO struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewSubscriberDTO(s models.NewsletterSubscriber) SubscriberDTO {
	return SubscriberDTO{ID: s.ID, Email: s.Email, Name: s.Name, IsActive: s.IsActive, CreatedAt: s.CreatedAt}
}

type SubscribeInput struct {
	Email string  `json:"email" validate:"required,email,max=254"`
	Name  *string `json:"name" validate:"omitempty,max=120"`
}

type Service interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*SubscriberDTO, error)
	List(ctx context.Context, params pagination.Params, active *bool) (pagination.Page[SubscriberDTO], error)
	SetActive(ctx context.Context, id uint, active bool) (*SubscriberDTO, error)
	Delete(ctx context.Context, id uint) error
	Export(ctx context.Context, active *bool, w io.Writer) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("newsletter repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

// Subscribe registers the email. An unsubscribed email is reactivated; an active one conflicts.
func (s *service) Subscribe(ctx context.Context, input SubscribeInput) (*SubscriberDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{"email": "no es válido"})
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsActive:
		return nil, errAlreadySubscribed
	case err == nil:
		if err := s.repo.SetActive(ctx, existing.ID, true); err != nil {
			return nil, db.MapError(err, resourceName)
		}
		existing.IsActive = true
		s.logg.Info(s.logg.WithField(ctx, "subscriber_id", existing.ID), "newsletter.resubscribed")
		dto := NewSubscriberDTO(*existing)
		return &dto, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, db.MapError(err, resourceName)
	}

	subscriber := &models.NewsletterSubscriber{Email: email, IsActive: true}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			subscriber.Name = &name
		}
	}
	if err := s.repo.Create(ctx, subscriber); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errAlreadySubscribed
		}
		return nil, db.MapError(err, resourceName)
	}
	s.logg.Info(s.logg.WithField(ctx, "subscriber_id", subscriber.ID), "newsletter.subscribed")
	dto := NewSubscriberDTO(*subscriber)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, active *bool) (pagination.Page[SubscriberDTO], error) {
	rows, total, err := s.repo.List(ctx, params, active)
	if err != nil {
		return pagination.Page[SubscriberDTO]{}, db.MapError(err, resourceName)
	}
	return pagination.Map(pagination.NewPage(rows, params, total), NewSubscriberDTO), nil
}

func (s *service) SetActive(ctx context.Context, id uint, active bool) (*SubscriberDTO, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	subscriber, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewSubscriberDTO(*subscriber)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return db.MapError(s.repo.Delete(ctx, id), resourceName)
}

var exportHeaders = []string{"Email", "Nombre", "Activo", "Fecha de alta"}

func (s *service) Export(ctx context.Context, active *bool, w io.Writer) error {
	rows, err := s.repo.ListAll(ctx, active)
	if err != nil {
		return db.MapError(err, resourceName)
	}
	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		name := ""
		if row.Name != nil {
			name = *row.Name
		}
		activeLabel := "No"
		if row.IsActive {
			activeLabel = "Sí"
		}
		values = append(values, []any{row.Email, name, activeLabel, row.CreatedAt.Format("2006-01-02")})
	}
	return spreadsheet.Write(w, "Suscriptores", exportHeaders, values)
}

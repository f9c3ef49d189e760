package contacts

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

const resourceName = "el mensaje"

type ContactDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactDTO(c models.Contact) ContactDTO {
	return ContactDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		IsRead:    c.IsRead,
		CreatedAt: c.CreatedAt,
	}
}

type Input struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Email   string  `json:"email" validate:"required,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type Service interface {
	Create(ctx context.Context, input Input) (*ContactDTO, error)
	List(ctx context.Context, filter ListFilter) (pagination.Page[ContactDTO], error)
	Get(ctx context.Context, id uint) (*ContactDTO, error)
	MarkRead(ctx context.Context, id uint, read bool) (*ContactDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*ContactDTO, error) {
	contact := &models.Contact{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   trimmedOrNil(input.Phone),
		Subject: trimmedOrNil(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	details := map[string]string{}
	if contact.Name == "" {
		details["name"] = "es obligatorio"
	}
	if _, err := mail.ParseAddress(contact.Email); err != nil {
		details["email"] = "no es válido"
	}
	if contact.Message == "" {
		details["message"] = "es obligatorio"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(details)
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	s.logg.Info(s.logg.WithField(ctx, "contact_id", contact.ID), "contact.received")
	dto := NewContactDTO(*contact)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[ContactDTO], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[ContactDTO]{}, db.MapError(err, resourceName)
	}
	return pagination.Map(pagination.NewPage(rows, filter.Params, total), NewContactDTO), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ContactDTO, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewContactDTO(*contact)
	return &dto, nil
}

func (s *service) MarkRead(ctx context.Context, id uint, read bool) (*ContactDTO, error) {
	if err := s.repo.MarkRead(ctx, id, read); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return db.MapError(s.repo.Delete(ctx, id), resourceName)
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

package responsibles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

const resourceName = "el responsable"

type ResponsibleDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewResponsibleDTO(r models.Responsible) ResponsibleDTO {
	return ResponsibleDTO{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type Input struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
	IsActive *bool   `json:"isActive"`
}

type Service interface {
	List(ctx context.Context, params pagination.Params, active *bool) (pagination.Page[ResponsibleDTO], error)
	Get(ctx context.Context, id uint) (*ResponsibleDTO, error)
	Create(ctx context.Context, input Input) (*ResponsibleDTO, error)
	Update(ctx context.Context, id uint, input Input) (*ResponsibleDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("responsible repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, active *bool) (pagination.Page[ResponsibleDTO], error) {
	rows, total, err := s.repo.List(ctx, params, active)
	if err != nil {
		return pagination.Page[ResponsibleDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]ResponsibleDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewResponsibleDTO(row))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ResponsibleDTO, error) {
	responsible, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewResponsibleDTO(*responsible)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input Input) (*ResponsibleDTO, error) {
	responsible := &models.Responsible{IsActive: true}
	if err := s.apply(ctx, responsible, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, responsible); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewResponsibleDTO(*responsible)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*ResponsibleDTO, error) {
	responsible, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	if err := s.apply(ctx, responsible, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, responsible); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, id)
}

// Delete leaves assigned budgets unassigned; the foreign key nulls them out.
func (s *service) Delete(ctx context.Context, id uint) error {
	return db.MapError(s.repo.Delete(ctx, id), resourceName)
}

func (s *service) apply(ctx context.Context, responsible *models.Responsible, input Input) error {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{"name": "es obligatorio", "email": "es obligatorio"})
	}
	taken, err := s.repo.EmailTaken(ctx, email, responsible.ID)
	if err != nil {
		return db.MapError(err, resourceName)
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un responsable con ese email.")
	}

	responsible.Name = name
	responsible.Email = email
	responsible.Phone = nil
	if input.Phone != nil {
		if phone := strings.TrimSpace(*input.Phone); phone != "" {
			responsible.Phone = &phone
		}
	}
	if input.IsActive != nil {
		responsible.IsActive = *input.IsActive
	}
	return nil
}

package budgets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
	"github.com/angelmondragon/giftshop-backend/pkg/types"
)

const resourceName = "el presupuesto"

// Service is the admin side of budgets and quotes.
type Service interface {
	List(ctx context.Context, filter ListFilter) (pagination.Page[BudgetDTO], error)
	Get(ctx context.Context, id uint) (*BudgetDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*BudgetDTO, error)
	UpdateStatus(ctx context.Context, id uint, status enums.BudgetStatus) (*BudgetDTO, error)
	Delete(ctx context.Context, id uint) error
	RenderPDF(ctx context.Context, id uint, w io.Writer) (string, error)
	Export(ctx context.Context, filter ListFilter, w io.Writer) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

// UpdateInput patches admin-only fields. A null responsibleId unassigns.
type UpdateInput struct {
	Observation   *string          `json:"observation" validate:"omitempty,max=2000"`
	ResponsibleID types.NullableID `json:"responsibleId"`
}

type responsibleFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Responsible, error)
}

type ServiceOptions struct {
	CurrencySymbol string
}

type service struct {
	client       *db.Client
	repo         *Repository
	responsibles responsibleFinder
	settings     settingsReader
	logg         *logger.Logger
	opts         ServiceOptions
	now          func() time.Time
}

func NewService(client *db.Client, repo *Repository, responsibles responsibleFinder, settings settingsReader, logg *logger.Logger, opts ServiceOptions) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("budget repository required")
	}
	if responsibles == nil {
		return nil, fmt.Errorf("responsible repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "$"
	}
	return &service{client: client, repo: repo, responsibles: responsibles, settings: settings, logg: logg, opts: opts, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[BudgetDTO], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[BudgetDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]BudgetDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewBudgetDTO(row, false))
	}
	return pagination.NewPage(items, filter.Params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*BudgetDTO, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewBudgetDTO(*budget, true)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*BudgetDTO, error) {
	fields := map[string]any{}
	if input.Observation != nil {
		if trimmed := strings.TrimSpace(*input.Observation); trimmed != "" {
			fields["observation"] = trimmed
		} else {
			fields["observation"] = nil
		}
	}
	if input.ResponsibleID.Set() {
		if input.ResponsibleID.Value == nil {
			fields["responsible_id"] = nil
		} else {
			_, err := s.responsibles.FindByID(ctx, *input.ResponsibleID.Value)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "El responsable seleccionado no existe.").WithDetails(map[string]any{"responsibleId": *input.ResponsibleID.Value})
			}
			if err != nil {
				return nil, db.MapError(err, "el responsable")
			}
			fields["responsible_id"] = *input.ResponsibleID.Value
		}
	}
	if len(fields) > 0 {
		fields["updated_at"] = s.now().UTC()
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, db.MapError(err, resourceName)
		}
	}
	return s.Get(ctx, id)
}

// UpdateStatus applies an admin review. Only pending budgets move; the guarded update
// keeps two concurrent reviews from both succeeding.
func (s *service) UpdateStatus(ctx context.Context, id uint, status enums.BudgetStatus) (*BudgetDTO, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	if budget.Status == status {
		dto := NewBudgetDTO(*budget, true)
		return &dto, nil
	}
	if !budget.Status.CanTransitionTo(status) {
		return nil, transitionError(budget.Status, status)
	}
	moved, err := s.repo.UpdateStatus(ctx, id, budget.Status, status)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	if !moved {
		return nil, transitionError(budget.Status, status)
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"budget_id": id, "from": budget.Status.String(), "to": status.String()})
	s.logg.Info(ctx, "budget.status.updated")
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	return db.MapError(err, resourceName)
}

// ExpireOverdue marks pending budgets past their validity as expired.
func (s *service) ExpireOverdue(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpirePending(ctx, s.now().UTC())
	if err != nil {
		return 0, db.MapError(err, resourceName)
	}
	return count, nil
}

func transitionError(from, to enums.BudgetStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "El presupuesto ya no puede cambiar a ese estado.").
		WithDetails(map[string]string{"from": from.String(), "to": to.String()})
}

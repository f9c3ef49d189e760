package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

const resourceName = "el cliente"

var (
	errEmailTaken    = pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un cliente con ese email.")
	errDocumentTaken = pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un cliente con ese CUIT.")
	errInUse         = pkgerrors.New(pkgerrors.CodeConflict, "No se puede eliminar el cliente porque tiene presupuestos u órdenes asociadas.")
)

type Service interface {
	List(ctx context.Context, filter ListFilter) (pagination.Page[CustomerDTO], error)
	Get(ctx context.Context, id uint) (*CustomerDTO, error)
	Create(ctx context.Context, input Input) (*CustomerDTO, error)
	Update(ctx context.Context, id uint, input Input) (*CustomerDTO, error)
	Delete(ctx context.Context, id uint) error
}

type Input struct {
	Name        string  `json:"name" validate:"required,max=120"`
	LastName    *string `json:"lastName" validate:"omitempty,max=120"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Phone       string  `json:"phone" validate:"omitempty,max=40"`
	Type        string  `json:"type" validate:"omitempty,oneof=retail wholesale"`
	Document    *string `json:"document" validate:"omitempty,max=32"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	Observation *string `json:"observation" validate:"omitempty,max=2000"`
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[CustomerDTO], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewCustomerDTO(row))
	}
	return pagination.NewPage(items, filter.Params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewCustomerDTO(*customer)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input Input) (*CustomerDTO, error) {
	customer := &models.Customer{}
	if err := s.apply(ctx, customer, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, MapWriteError(err)
	}
	dto := NewCustomerDTO(*customer)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	if err := s.apply(ctx, customer, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, MapWriteError(err)
	}
	return s.Get(ctx, id)
}

// Delete refuses customers still referenced by budgets or orders.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return db.MapError(err, resourceName)
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return db.MapError(err, resourceName)
	}
	if refs > 0 {
		return errInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.MapError(err, resourceName)
	}
	return nil
}

func (s *service) apply(ctx context.Context, customer *models.Customer, input Input) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return invalid("name", "es obligatorio")
	}
	email := NormalizeEmail(input.Email)
	if email == "" {
		return invalid("email", "es obligatorio")
	}
	customerType, err := enums.ParseCustomerType(strings.TrimSpace(input.Type))
	if err != nil {
		return invalid("type", "debe ser retail o wholesale")
	}

	taken, err := s.repo.EmailTaken(ctx, email, customer.ID)
	if err != nil {
		return db.MapError(err, resourceName)
	}
	if taken {
		return errEmailTaken
	}
	document := trimmedOrNil(input.Document)
	if document != nil {
		taken, err := s.repo.DocumentTaken(ctx, *document, customer.ID)
		if err != nil {
			return db.MapError(err, resourceName)
		}
		if taken {
			return errDocumentTaken
		}
	}

	customer.Name = name
	customer.LastName = trimmedOrNil(input.LastName)
	customer.Email = email
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Type = customerType
	customer.Document = document
	customer.Address = trimmedOrNil(input.Address)
	customer.Observation = trimmedOrNil(input.Observation)
	return nil
}

// MapWriteError tells email and document collisions apart when a concurrent write wins
// the race. Postgres reports the index name, SQLite the table.column pair.
func MapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "idx_customers_document"), db.IsUniqueViolation(err, "customers.document"):
		return errDocumentTaken
	case db.IsUniqueViolation(err, "idx_customers_email"), db.IsUniqueViolation(err, "customers.email"):
		return errEmailTaken
	default:
		return db.MapError(err, resourceName)
	}
}

func invalid(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{field: message})
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

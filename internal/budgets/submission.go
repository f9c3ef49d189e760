package budgets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/internal/customers"
	"github.com/angelmondragon/giftshop-backend/internal/products"
	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
)

const (
	EmptyCartMessage = "No hay productos en el carrito. Agregá productos antes de enviar el presupuesto."
	RetryMessage     = "No pudimos procesar tu solicitud. Intentá nuevamente más tarde."
)

// ErrorKind tells callers why a submission failed without exposing internals.
type ErrorKind string

const (
	ErrorKindEmptyCart        ErrorKind = "empty_cart"
	ErrorKindProductNotFound  ErrorKind = "product_not_found"
	ErrorKindCustomerConflict ErrorKind = "customer_conflict"
	ErrorKindInternal         ErrorKind = "internal"
)

// ContactInput is what the storefront form sends along with the cart.
type ContactInput struct {
	Name         string  `json:"name" validate:"required,max=120"`
	LastName     *string `json:"lastName" validate:"omitempty,max=120"`
	Email        string  `json:"email" validate:"required,email,max=254"`
	Phone        string  `json:"phone" validate:"required,max=40"`
	CustomerType string  `json:"customerType" validate:"omitempty,oneof=retail wholesale"`
	Document     *string `json:"document" validate:"omitempty,max=32"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	Message      *string `json:"message" validate:"omitempty,max=2000"`
}

// SubmissionResult is returned for every outcome of a submission, failures included.
type SubmissionResult struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message,omitempty"`
	ErrorKind   ErrorKind        `json:"errorKind,omitempty"`
	ProductID   string           `json:"productId,omitempty"`
	ID          uint             `json:"id,omitempty"`
	Number      string           `json:"number,omitempty"`
	Kind        enums.BudgetKind `json:"kind,omitempty"`
	ItemCount   int              `json:"itemCount,omitempty"`
	TotalAmount int64            `json:"totalAmount"`
}

type Submitter interface {
	Submit(ctx context.Context, kind enums.BudgetKind, c cart.Cart, contact ContactInput) (SubmissionResult, error)
}

type productResolver interface {
	Resolve(ctx context.Context, ids []uint) (map[uint]*models.Product, error)
}

type settingsReader interface {
	Current(ctx context.Context) (*models.Setting, error)
}

type SubmitterOptions struct {
	DefaultValidityDays int
	Now                 func() time.Time
}

type submitter struct {
	client    *db.Client
	budgets   *Repository
	customers *customers.Repository
	products  productResolver
	settings  settingsReader
	metrics   *metrics.SubmissionMetrics
	logg      *logger.Logger
	opts      SubmitterOptions
}

func NewSubmitter(
	client *db.Client,
	budgets *Repository,
	customerRepo *customers.Repository,
	resolver productResolver,
	settings settingsReader,
	submissionMetrics *metrics.SubmissionMetrics,
	logg *logger.Logger,
	opts SubmitterOptions,
) (Submitter, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if budgets == nil {
		return nil, fmt.Errorf("budget repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &submitter{
		client:    client,
		budgets:   budgets,
		customers: customerRepo,
		products:  resolver,
		settings:  settings,
		metrics:   submissionMetrics,
		logg:      logg,
		opts:      opts,
	}, nil
}

// Submit turns the cart into a pending budget or quote. Business failures come back as an
// unsuccessful result; the error is only set for invalid contact data, before any write.
func (s *submitter) Submit(ctx context.Context, kind enums.BudgetKind, c cart.Cart, contact ContactInput) (SubmissionResult, error) {
	if !kind.IsValid() {
		return SubmissionResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "tipo de solicitud inválido: %s", kind)
	}
	contact, customerType, err := normalizeContact(contact)
	if err != nil {
		return SubmissionResult{}, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"budget_kind": kind.String(), "cart_lines": c.Len()})

	if c.IsEmpty() {
		s.metrics.ObserveFailure(kind.String(), string(ErrorKindEmptyCart))
		s.logg.Info(ctx, "budget.submit.empty_cart")
		return SubmissionResult{Success: false, Message: EmptyCartMessage, ErrorKind: ErrorKindEmptyCart}, nil
	}

	items := c.Items()
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		id, err := strconv.ParseUint(item.ProductID, 10, 64)
		if err != nil || id == 0 {
			return s.fail(ctx, kind, ErrorKindProductNotFound, item.ProductID, fmt.Errorf("cart product id %q is not numeric", item.ProductID)), nil
		}
		ids = append(ids, uint(id))
	}

	found, err := s.products.Resolve(ctx, ids)
	if err != nil {
		var notFound *products.NotFoundError
		if errors.As(err, &notFound) {
			return s.fail(ctx, kind, ErrorKindProductNotFound, strconv.FormatUint(uint64(notFound.ProductID), 10), err), nil
		}
		return s.fail(ctx, kind, ErrorKindInternal, "", err), nil
	}

	lines := make([]LineSnapshot, 0, len(items))
	for i, item := range items {
		line, err := NewLineSnapshot(*found[ids[i]], item.Quantity, customerType)
		if err != nil {
			return s.fail(ctx, kind, ErrorKindInternal, item.ProductID, err), nil
		}
		lines = append(lines, line)
	}
	total, err := Total(lines)
	if err != nil {
		return s.fail(ctx, kind, ErrorKindInternal, "", err), nil
	}

	now := s.opts.Now().UTC()
	validUntil := now.AddDate(0, 0, s.validityDays(ctx))
	budget := &models.Budget{
		Kind:            kind,
		Status:          enums.BudgetStatusPending,
		ContactName:     contact.Name,
		ContactLastName: contact.LastName,
		ContactEmail:    contact.Email,
		ContactPhone:    contact.Phone,
		Message:         contact.Message,
		TotalAmount:     total,
		ValidUntil:      &validUntil,
		Items:           make([]models.BudgetItem, 0, len(lines)),
	}
	for i, line := range lines {
		budget.Items = append(budget.Items, line.item(i))
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		customer, err := s.customers.WithTx(tx).UpsertByEmail(ctx, &models.Customer{
			Name:     contact.Name,
			LastName: contact.LastName,
			Email:    contact.Email,
			Phone:    contact.Phone,
			Type:     customerType,
			Document: contact.Document,
			Address:  contact.Address,
		})
		if err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}
		budget.CustomerID = customer.ID
		if err := s.budgets.WithTx(tx).Create(ctx, budget); err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return s.fail(ctx, kind, ErrorKindCustomerConflict, "", err), nil
		}
		return s.fail(ctx, kind, ErrorKindInternal, "", err), nil
	}

	s.metrics.ObserveSuccess(kind.String(), len(lines))
	ctx = s.logg.WithFields(ctx, map[string]any{"budget_id": budget.ID, "total_amount": budget.TotalAmount})
	s.logg.Info(ctx, "budget.submit.success")

	result := SubmissionResult{
		Success:     true,
		Message:     successMessage(kind),
		ID:          budget.ID,
		Kind:        kind,
		ItemCount:   len(lines),
		TotalAmount: budget.TotalAmount,
	}
	if budget.Number != nil {
		result.Number = *budget.Number
	}
	return result, nil
}

// fail logs the cause server side and returns the generic result.
func (s *submitter) fail(ctx context.Context, kind enums.BudgetKind, errorKind ErrorKind, productID string, cause error) SubmissionResult {
	fields := map[string]any{"error_kind": string(errorKind)}
	if productID != "" {
		fields["product_id"] = productID
	}
	ctx = s.logg.WithFields(ctx, fields)
	if errorKind == ErrorKindInternal {
		s.logg.Error(ctx, "budget.submit.failed", cause)
	} else {
		s.logg.Warn(s.logg.WithField(ctx, "error", cause.Error()), "budget.submit.rejected")
	}
	s.metrics.ObserveFailure(kind.String(), string(errorKind))
	return SubmissionResult{Success: false, Message: RetryMessage, ErrorKind: errorKind, ProductID: productID}
}

// validityDays prefers the admin setting and falls back to the configured default.
func (s *submitter) validityDays(ctx context.Context) int {
	setting, err := s.settings.Current(ctx)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "budget.submit.settings_unavailable")
	} else if setting.BudgetValidityDays > 0 {
		return setting.BudgetValidityDays
	}
	return s.opts.DefaultValidityDays
}

func normalizeContact(in ContactInput) (ContactInput, enums.CustomerType, error) {
	details := map[string]string{}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = customers.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		details["name"] = "es obligatorio"
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		details["email"] = "no es válido"
	}
	if in.Phone == "" {
		details["phone"] = "es obligatorio"
	}
	customerType, err := enums.ParseCustomerType(strings.TrimSpace(in.CustomerType))
	if err != nil {
		details["customerType"] = "debe ser retail o wholesale"
	}
	if len(details) > 0 {
		return in, "", pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(details)
	}
	in.LastName = trimmedOrNil(in.LastName)
	in.Document = trimmedOrNil(in.Document)
	in.Address = trimmedOrNil(in.Address)
	in.Message = trimmedOrNil(in.Message)
	return in, customerType, nil
}

func successMessage(kind enums.BudgetKind) string {
	if kind == enums.BudgetKindQuote {
		return "¡Gracias! Recibimos tu pedido de cotización y te contactaremos a la brevedad."
	}
	return "¡Gracias! Recibimos tu solicitud de presupuesto y te contactaremos a la brevedad."
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

package budgets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
	"github.com/angelmondragon/giftshop-backend/pkg/pdf"
	"github.com/angelmondragon/giftshop-backend/pkg/spreadsheet"
)

var exportHeaders = []string{
	"Número", "Tipo", "Estado", "Fecha", "Válido hasta", "Nombre", "Apellido", "Email", "Teléfono",
	"Tipo de cliente", "Responsable", "Ítems", "Total", "Mensaje", "Observación",
}

var kindTitles = map[enums.BudgetKind]string{
	enums.BudgetKindBudget: "Presupuesto",
	enums.BudgetKindQuote:  "Cotización",
}

var statusLabels = map[enums.BudgetStatus]string{
	enums.BudgetStatusPending:  "Pendiente",
	enums.BudgetStatusApproved: "Aprobado",
	enums.BudgetStatusRejected: "Rechazado",
	enums.BudgetStatusExpired:  "Vencido",
}

// RenderPDF writes the printable document and returns a download file name.
func (s *service) RenderPDF(ctx context.Context, id uint, w io.Writer) (string, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", db.MapError(err, resourceName)
	}
	setting, err := s.settings.Current(ctx)
	if err != nil {
		return "", err
	}

	doc := buildDocument(*budget, *setting, s.opts.CurrencySymbol)
	if err := pdf.RenderBudget(w, doc); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "budget_id", id), "budget.pdf.render_failed", err)
		return "", db.MapError(err, resourceName)
	}
	return fileName(*budget), nil
}

func buildDocument(b models.Budget, setting models.Setting, currency string) pdf.BudgetDocument {
	doc := pdf.BudgetDocument{
		Title:          kindTitles[b.Kind],
		IssuedAt:       b.CreatedAt,
		ValidUntil:     b.ValidUntil,
		Total:          b.TotalAmount,
		CurrencySymbol: currency,
		Company: pdf.Company{
			Name:    setting.CompanyName,
			Email:   deref(setting.Email),
			Phone:   deref(setting.Phone),
			Address: deref(setting.Address),
			TaxID:   deref(setting.TaxID),
		},
		Customer: pdf.Customer{
			Name:  strings.TrimSpace(b.ContactName + " " + deref(b.ContactLastName)),
			Email: b.ContactEmail,
			Phone: b.ContactPhone,
		},
		Notes:  deref(b.Message),
		Footer: deref(setting.BudgetFooter),
		Lines:  make([]pdf.Line, 0, len(b.Items)),
	}
	if b.Number != nil {
		doc.Number = *b.Number
	}
	if b.Customer != nil {
		doc.Customer.Document = deref(b.Customer.Document)
		doc.Customer.Address = deref(b.Customer.Address)
	}
	for _, item := range b.Items {
		doc.Lines = append(doc.Lines, pdf.Line{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}
	return doc
}

func fileName(b models.Budget) string {
	number := fmt.Sprintf("%d", b.ID)
	if b.Number != nil {
		number = *b.Number
	}
	return fmt.Sprintf("%s-%s.pdf", strings.ToLower(kindTitles[b.Kind]), number)
}

// Export writes every budget matching filter as an xlsx sheet.
func (s *service) Export(ctx context.Context, filter ListFilter, w io.Writer) error {
	rows, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return db.MapError(err, resourceName)
	}

	values := make([][]any, 0, len(rows))
	for _, b := range rows {
		validUntil := ""
		if b.ValidUntil != nil {
			validUntil = b.ValidUntil.Format("2006-01-02")
		}
		customerType := ""
		if b.Customer != nil {
			customerType = b.Customer.Type.String()
		}
		responsible := ""
		if b.Responsible != nil {
			responsible = b.Responsible.Name
		}
		number := ""
		if b.Number != nil {
			number = *b.Number
		}
		values = append(values, []any{
			number,
			kindTitles[b.Kind],
			statusLabels[b.Status],
			b.CreatedAt.Format("2006-01-02 15:04"),
			validUntil,
			b.ContactName,
			deref(b.ContactLastName),
			b.ContactEmail,
			b.ContactPhone,
			customerType,
			responsible,
			len(b.Items),
			money.Plain(b.TotalAmount),
			deref(b.Message),
			deref(b.Observation),
		})
	}
	return spreadsheet.Write(w, "Presupuestos", exportHeaders, values)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

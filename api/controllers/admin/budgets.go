package admin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/api/validators"
	"github.com/angelmondragon/giftshop-backend/internal/budgets"
	"github.com/angelmondragon/giftshop-backend/internal/orders"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

// BudgetOrderCreator converts an approved budget into an order.
type BudgetOrderCreator interface {
	CreateFromBudget(ctx context.Context, budgetID uint) (*orders.OrderDTO, error)
}

type budgetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func budgetFilter(r *http.Request) (budgets.ListFilter, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return budgets.ListFilter{}, err
	}
	kind, err := queryEnum(r, "kind", enums.ParseBudgetKind)
	if err != nil {
		return budgets.ListFilter{}, err
	}
	status, err := queryEnum(r, "status", enums.ParseBudgetStatus)
	if err != nil {
		return budgets.ListFilter{}, err
	}
	customerID, err := queryID(r, "customerId")
	if err != nil {
		return budgets.ListFilter{}, err
	}
	responsibleID, err := queryID(r, "responsibleId")
	if err != nil {
		return budgets.ListFilter{}, err
	}
	return budgets.ListFilter{
		Params:        params,
		Kind:          kind,
		Status:        status,
		CustomerID:    customerID,
		ResponsibleID: responsibleID,
	}, nil
}

func BudgetList(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := budgetFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func BudgetDetail(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		budget, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}

// BudgetUpdate patches the observation and the assigned responsible.
func BudgetUpdate(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload budgets.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		budget, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}

func BudgetStatusUpdate(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload budgetStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseEnumValue("status", payload.Status, enums.ParseBudgetStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		budget, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}

func BudgetDelete(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Presupuesto eliminado.")
	}
}

// BudgetPDF renders the printable document of a budget or quote.
func BudgetPDF(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		filename, err := svc.RenderPDF(r.Context(), id, &buf)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Attachment(w, responses.ContentTypePDF, filename)
		_, _ = io.Copy(w, &buf)
	}
}

// BudgetExport writes the filtered budgets as an xlsx workbook; pagination is ignored.
func BudgetExport(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := budgetFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		if err := svc.Export(r.Context(), filter, &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Attachment(w, responses.ContentTypeXLSX, fmt.Sprintf("presupuestos-%s.xlsx", time.Now().Format("20060102")))
		_, _ = io.Copy(w, &buf)
	}
}

// BudgetConvert creates an order from an approved budget.
func BudgetConvert(svc BudgetOrderCreator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreateFromBudget(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/api/validators"
	"github.com/angelmondragon/giftshop-backend/internal/budgets"
	"github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

var submissionStatus = map[budgets.ErrorKind]int{
	budgets.ErrorKindEmptyCart:        http.StatusBadRequest,
	budgets.ErrorKindProductNotFound:  http.StatusNotFound,
	budgets.ErrorKindCustomerConflict: http.StatusConflict,
	budgets.ErrorKindInternal:         http.StatusInternalServerError,
}

// SubmitBudget turns the cookie cart into a pending budget.
func SubmitBudget(svc budgets.Submitter, store cart.CookieStore, logg *logger.Logger) http.HandlerFunc {
	return submit(enums.BudgetKindBudget, svc, store, logg)
}

// SubmitQuote is the quote flavor of SubmitBudget; both share one procedure.
func SubmitQuote(svc budgets.Submitter, store cart.CookieStore, logg *logger.Logger) http.HandlerFunc {
	return submit(enums.BudgetKindQuote, svc, store, logg)
}

func submit(kind enums.BudgetKind, svc budgets.Submitter, store cart.CookieStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submission service unavailable"))
			return
		}

		var contact budgets.ContactInput
		if err := validators.DecodeJSONBody(r, &contact); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), kind, store.Read(r), contact)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !result.Success {
			status, ok := submissionStatus[result.ErrorKind]
			if !ok {
				status = http.StatusInternalServerError
			}
			responses.WriteJSON(w, status, result)
			return
		}

		store.Clear(w)
		responses.WriteJSON(w, http.StatusCreated, result)
	}
}

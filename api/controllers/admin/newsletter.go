package admin

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/api/validators"
	"github.com/angelmondragon/giftshop-backend/internal/newsletter"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type activeRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func SubscriberList(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params, active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func SubscriberSetActive(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "subscriberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload activeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subscriber, err := svc.SetActive(r.Context(), id, *payload.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subscriber)
	}
}

func SubscriberDelete(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "subscriberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Suscriptor eliminado.")
	}
}

func SubscriberExport(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		if err := svc.Export(r.Context(), active, &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Attachment(w, responses.ContentTypeXLSX, fmt.Sprintf("newsletter-%s.xlsx", time.Now().Format("20060102")))
		_, _ = io.Copy(w, &buf)
	}
}

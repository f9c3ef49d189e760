package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/api/validators"
	"github.com/angelmondragon/giftshop-backend/internal/contacts"
	"github.com/angelmondragon/giftshop-backend/internal/newsletter"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, input newsletter.SubscribeInput) (*newsletter.SubscriberDTO, error)
}

type ContactCreator interface {
	Create(ctx context.Context, input contacts.Input) (*contacts.ContactDTO, error)
}

// NewsletterSubscribe registers an email from the storefront footer.
func NewsletterSubscribe(svc NewsletterSubscriber, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "newsletter service unavailable"))
			return
		}

		var payload newsletter.SubscribeInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subscriber, err := svc.Subscribe(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, subscriber)
	}
}

// ContactCreate stores a contact form message for the admin inbox.
func ContactCreate(svc ContactCreator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var payload contacts.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contact, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":      contact.ID,
			"message": "Recibimos tu mensaje, te vamos a responder a la brevedad.",
		})
	}
}

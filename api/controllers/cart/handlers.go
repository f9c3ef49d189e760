package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/api/validators"
	cartsvc "github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

// ProductLookup loads the products behind an expanded cart in one query.
type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

// CartFetch returns the cookie cart. With ?expand=true the lines are joined with the
// current products and a preview total; the stored cart is never altered by the preview.
func CartFetch(store cartsvc.CookieStore, lookup ProductLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := store.Read(r)

		expand, err := validators.ParseQueryBool(r, "expand")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if expand == nil || !*expand {
			responses.WriteSuccess(w, newCartResponse(current))
			return
		}
		if lookup == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product lookup unavailable"))
			return
		}

		preview, err := buildPreview(r.Context(), lookup, current)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expand cart"))
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

// CartAdd sums the quantity into the cart.
func CartAdd(store cartsvc.CookieStore, logg *logger.Logger) http.HandlerFunc {
	return mutate(store, logg, func(c cartsvc.Cart, item cartsvc.Item) cartsvc.Cart {
		return c.Add(item)
	}, 1)
}

// CartUpdate replaces the quantity of a line; zero removes it.
func CartUpdate(store cartsvc.CookieStore, logg *logger.Logger) http.HandlerFunc {
	return mutate(store, logg, func(c cartsvc.Cart, item cartsvc.Item) cartsvc.Cart {
		return c.Update(item)
	}, 0)
}

func CartRemove(store cartsvc.CookieStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := store.Read(r).Remove(productID)
		if err := store.Write(w, next); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write cart"))
			return
		}
		responses.WriteSuccess(w, newCartResponse(next))
	}
}

func CartClear(store cartsvc.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear(w)
		responses.WriteSuccess(w, newCartResponse(cartsvc.Cart{}))
	}
}

func mutate(store cartsvc.CookieStore, logg *logger.Logger, apply func(cartsvc.Cart, cartsvc.Item) cartsvc.Cart, minQuantity int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartsvc.Item
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validateItem(payload, minQuantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := apply(store.Read(r), payload)
		if err := store.Write(w, next); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write cart"))
			return
		}
		responses.WriteSuccess(w, newCartResponse(next))
	}
}

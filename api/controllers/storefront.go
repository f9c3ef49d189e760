package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/api/validators"
	"github.com/angelmondragon/giftshop-backend/internal/categories"
	"github.com/angelmondragon/giftshop-backend/internal/products"
	"github.com/angelmondragon/giftshop-backend/internal/settings"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

// ProductCatalog is the storefront view of the product service.
type ProductCatalog interface {
	ListPublic(ctx context.Context, filter products.ListFilter) (pagination.Page[products.PublicProductDTO], error)
	GetPublicBySlug(ctx context.Context, slug string) (*products.PublicProductDTO, error)
}

type CategoryCatalog interface {
	List(ctx context.Context, params pagination.Params, featured *bool) (pagination.Page[categories.CategoryDTO], error)
	GetBySlug(ctx context.Context, slug string) (*categories.CategoryDTO, error)
}

type PublicSettings interface {
	GetPublic(ctx context.Context) (*settings.PublicSettingsDTO, error)
}

// categoryPage is a category with the first page of its active products.
type categoryPage struct {
	categories.CategoryDTO
	Products pagination.Page[products.PublicProductDTO] `json:"products"`
}

func PublicProductList(svc ProductCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPublic(r.Context(), products.ListFilter{
			Params:       params,
			CategorySlug: validators.SanitizeString(r.URL.Query().Get("category"), 96),
			Featured:     featured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func PublicProductDetail(svc ProductCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		product, err := svc.GetPublicBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func PublicCategoryList(svc CategoryCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params, featured)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// PublicCategoryDetail returns the category with its active products, paged like the product list.
func PublicCategoryDetail(svc CategoryCatalog, productSvc ProductCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || productSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := productSvc.ListPublic(r.Context(), products.ListFilter{Params: params, CategorySlug: category.Slug})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categoryPage{CategoryDTO: *category, Products: page})
	}
}

func PublicSettingsFetch(svc PublicSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		current, err := svc.GetPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=60")
		responses.WriteSuccess(w, current)
	}
}

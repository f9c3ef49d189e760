package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
	"github.com/angelmondragon/giftshop-backend/pkg/slug"
)

const (
	resourceName   = "el producto"
	maxSlugAttempt = 50
)

type Service interface {
	List(ctx context.Context, filter ListFilter) (pagination.Page[ProductDTO], error)
	ListPublic(ctx context.Context, filter ListFilter) (pagination.Page[PublicProductDTO], error)
	Get(ctx context.Context, id uint) (*ProductDTO, error)
	GetPublicBySlug(ctx context.Context, slug string) (*PublicProductDTO, error)
	Create(ctx context.Context, input Input) (*ProductDTO, error)
	Update(ctx context.Context, id uint, input Input) (*ProductDTO, error)
	Delete(ctx context.Context, id uint) error
	Exporter
	Importer
}

// Input is the admin create/update payload. Prices come either as minor units or as
// display strings ("1234,50"); minor units win when both are set.
type Input struct {
	Name                  string  `json:"name" validate:"required,max=200"`
	Slug                  string  `json:"slug" validate:"omitempty,max=96"`
	SKU                   *string `json:"sku" validate:"omitempty,max=64"`
	Description           *string `json:"description" validate:"omitempty,max=5000"`
	RetailPrice           *int64  `json:"retailPrice" validate:"omitempty,min=0"`
	RetailPriceDisplay    string  `json:"retailPriceDisplay" validate:"omitempty,max=32"`
	WholesalePrice        *int64  `json:"wholesalePrice" validate:"omitempty,min=0"`
	WholesalePriceDisplay string  `json:"wholesalePriceDisplay" validate:"omitempty,max=32"`
	Stock                 int     `json:"stock" validate:"min=0"`
	IsActive              *bool   `json:"isActive"`
	IsFeatured            bool    `json:"isFeatured"`
	ImageIDs              []uint  `json:"imageIds"`
	CategoryIDs           []uint  `json:"categoryIds"`
}

type idCounter interface {
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}

type service struct {
	client     *db.Client
	repo       *Repository
	images     idCounter
	categories idCounter
	logg       *logger.Logger
}

func NewService(client *db.Client, repo *Repository, images, categories idCounter, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{client: client, repo: repo, images: images, categories: categories, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[ProductDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewProductDTO(row))
	}
	return pagination.NewPage(items, filter.Params, total), nil
}

func (s *service) ListPublic(ctx context.Context, filter ListFilter) (pagination.Page[PublicProductDTO], error) {
	active := true
	filter.Active = &active
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[PublicProductDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]PublicProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewPublicProductDTO(row))
	}
	return pagination.NewPage(items, filter.Params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

// GetPublicBySlug hides inactive products behind a not found.
func (s *service) GetPublicBySlug(ctx context.Context, value string) (*PublicProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(value))
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	if !product.IsActive {
		return nil, db.MapError(gorm.ErrRecordNotFound, resourceName)
	}
	dto := NewPublicProductDTO(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input Input) (*ProductDTO, error) {
	product := &models.Product{IsActive: true}
	imageIDs, categoryIDs, err := s.apply(ctx, product, input)
	if err != nil {
		return nil, err
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, product); err != nil {
			return err
		}
		if err := repo.ReplaceImages(ctx, product.ID, imageIDs); err != nil {
			return err
		}
		return repo.ReplaceCategories(ctx, product.ID, categoryIDs)
	})
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	imageIDs, categoryIDs, err := s.apply(ctx, product, input)
	if err != nil {
		return nil, err
	}
	product.Images = nil
	product.Categories = nil

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, product); err != nil {
			return err
		}
		if err := repo.ReplaceImages(ctx, product.ID, imageIDs); err != nil {
			return err
		}
		return repo.ReplaceCategories(ctx, product.ID, categoryIDs)
	})
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	return db.MapError(err, resourceName)
}

// apply validates input and copies it onto product. It returns the deduplicated
// image and category ids to attach.
func (s *service) apply(ctx context.Context, product *models.Product, input Input) ([]uint, []uint, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, invalid("name", "es obligatorio")
	}

	retail, err := resolvePrice(input.RetailPrice, input.RetailPriceDisplay, product.RetailPrice)
	if err != nil {
		return nil, nil, invalid("retailPrice", "no es un importe válido")
	}
	wholesale, err := resolvePrice(input.WholesalePrice, input.WholesalePriceDisplay, product.WholesalePrice)
	if err != nil {
		return nil, nil, invalid("wholesalePrice", "no es un importe válido")
	}
	if input.Stock < 0 {
		return nil, nil, invalid("stock", "no puede ser negativo")
	}

	sku := trimmedOrNil(input.SKU)
	if sku != nil {
		taken, err := s.repo.SKUTaken(ctx, *sku, product.ID)
		if err != nil {
			return nil, nil, db.MapError(err, resourceName)
		}
		if taken {
			return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un producto con ese SKU.").WithDetails(map[string]string{"sku": *sku})
		}
	}

	value, err := s.resolveSlug(ctx, product.ID, input.Slug, name)
	if err != nil {
		return nil, nil, err
	}

	imageIDs := dedupe(input.ImageIDs)
	if err := ensureExist(ctx, s.images, imageIDs, "imageIds", "Alguna de las imágenes seleccionadas no existe.", "la imagen"); err != nil {
		return nil, nil, err
	}
	categoryIDs := dedupe(input.CategoryIDs)
	if err := ensureExist(ctx, s.categories, categoryIDs, "categoryIds", "Alguna de las categorías seleccionadas no existe.", "la categoría"); err != nil {
		return nil, nil, err
	}

	product.Name = name
	product.Slug = value
	product.SKU = sku
	product.Description = trimmedOrNil(input.Description)
	product.RetailPrice = retail
	product.WholesalePrice = wholesale
	product.Stock = input.Stock
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.IsFeatured = input.IsFeatured
	return imageIDs, categoryIDs, nil
}

// resolveSlug rejects an explicit slug already in use and suffixes a derived one.
func (s *service) resolveSlug(ctx context.Context, productID uint, explicit, name string) (string, error) {
	if requested := slug.Make(explicit); requested != "" {
		taken, err := s.repo.SlugTaken(ctx, requested, productID)
		if err != nil {
			return "", db.MapError(err, resourceName)
		}
		if taken {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un producto con ese slug.").WithDetails(map[string]string{"slug": requested})
		}
		return requested, nil
	}

	base := slug.Make(name)
	if base == "" {
		return "", invalid("slug", "no es válido")
	}
	for n := 1; n <= maxSlugAttempt; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := s.repo.SlugTaken(ctx, candidate, productID)
		if err != nil {
			return "", db.MapError(err, resourceName)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un producto con ese slug.").WithDetails(map[string]string{"slug": base})
}

func resolvePrice(minor *int64, display string, current int64) (int64, error) {
	if minor != nil {
		if *minor < 0 {
			return 0, errors.New("negative price")
		}
		return *minor, nil
	}
	if strings.TrimSpace(display) != "" {
		return money.ParseMinor(display)
	}
	return current, nil
}

func ensureExist(ctx context.Context, counter idCounter, ids []uint, field, message, resource string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := counter.CountByIDs(ctx, ids)
	if err != nil {
		return db.MapError(err, resource)
	}
	if count != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{field: ids})
	}
	return nil
}

// dedupe keeps the first occurrence of every id, dropping zeros.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
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

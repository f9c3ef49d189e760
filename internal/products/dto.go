package products

import (
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
)

type ImageRef struct {
	ID       uint   `json:"id"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Position int    `json:"position"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductDTO struct {
	ID                    uint          `json:"id"`
	Name                  string        `json:"name"`
	Slug                  string        `json:"slug"`
	SKU                   *string       `json:"sku,omitempty"`
	Description           *string       `json:"description,omitempty"`
	RetailPrice           int64         `json:"retailPrice"`
	RetailPriceDisplay    string        `json:"retailPriceDisplay"`
	WholesalePrice        int64         `json:"wholesalePrice"`
	WholesalePriceDisplay string        `json:"wholesalePriceDisplay"`
	Stock                 int           `json:"stock"`
	IsActive              bool          `json:"isActive"`
	IsFeatured            bool          `json:"isFeatured"`
	Images                []ImageRef    `json:"images"`
	Categories            []CategoryRef `json:"categories"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

func NewProductDTO(product models.Product) ProductDTO {
	dto := ProductDTO{
		ID:                    product.ID,
		Name:                  product.Name,
		Slug:                  product.Slug,
		SKU:                   product.SKU,
		Description:           product.Description,
		RetailPrice:           product.RetailPrice,
		RetailPriceDisplay:    money.Plain(product.RetailPrice),
		WholesalePrice:        product.WholesalePrice,
		WholesalePriceDisplay: money.Plain(product.WholesalePrice),
		Stock:                 product.Stock,
		IsActive:              product.IsActive,
		IsFeatured:            product.IsFeatured,
		Images:                make([]ImageRef, 0, len(product.Images)),
		Categories:            make([]CategoryRef, 0, len(product.Categories)),
		CreatedAt:             product.CreatedAt,
		UpdatedAt:             product.UpdatedAt,
	}
	for _, pi := range product.Images {
		if pi.Image == nil {
			continue
		}
		dto.Images = append(dto.Images, ImageRef{ID: pi.ImageID, URL: pi.Image.URL, Alt: pi.Image.Alt, Position: pi.Position})
	}
	for _, c := range product.Categories {
		dto.Categories = append(dto.Categories, CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return dto
}

// PublicProductDTO hides admin-only fields from the storefront.
type PublicProductDTO struct {
	ID                 uint          `json:"id"`
	Name               string        `json:"name"`
	Slug               string        `json:"slug"`
	SKU                *string       `json:"sku,omitempty"`
	Description        *string       `json:"description,omitempty"`
	RetailPrice        int64         `json:"retailPrice"`
	RetailPriceDisplay string        `json:"retailPriceDisplay"`
	InStock            bool          `json:"inStock"`
	IsFeatured         bool          `json:"isFeatured"`
	Images             []ImageRef    `json:"images"`
	Categories         []CategoryRef `json:"categories"`
}

func NewPublicProductDTO(product models.Product) PublicProductDTO {
	full := NewProductDTO(product)
	return PublicProductDTO{
		ID:                 full.ID,
		Name:               full.Name,
		Slug:               full.Slug,
		SKU:                full.SKU,
		Description:        full.Description,
		RetailPrice:        full.RetailPrice,
		RetailPriceDisplay: full.RetailPriceDisplay,
		InStock:            product.Stock > 0,
		IsFeatured:         full.IsFeatured,
		Images:             full.Images,
		Categories:         full.Categories,
	}
}

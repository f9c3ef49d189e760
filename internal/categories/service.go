package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
	"github.com/angelmondragon/giftshop-backend/pkg/slug"
)

const resourceName = "la categoría"

type Service interface {
	List(ctx context.Context, params pagination.Params, featured *bool) (pagination.Page[CategoryDTO], error)
	Get(ctx context.Context, id uint) (*CategoryDTO, error)
	GetBySlug(ctx context.Context, slug string) (*CategoryDTO, error)
	Create(ctx context.Context, input Input) (*CategoryDTO, error)
	Update(ctx context.Context, id uint, input Input) (*CategoryDTO, error)
	Delete(ctx context.Context, id uint) error
}

// Input is the create and update payload. A blank slug is derived from the name.
type Input struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        string  `json:"slug" validate:"omitempty,max=96"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageID     *uint   `json:"imageId"`
	IsFeatured  bool    `json:"isFeatured"`
}

type imageCounter interface {
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}

type service struct {
	repo   *Repository
	images imageCounter
}

func NewService(repo *Repository, images imageCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image repository required")
	}
	return &service{repo: repo, images: images}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, featured *bool) (pagination.Page[CategoryDTO], error) {
	rows, total, err := s.repo.List(ctx, params, featured)
	if err != nil {
		return pagination.Page[CategoryDTO]{}, db.MapError(err, resourceName)
	}
	items := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewCategoryDTO(row))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewCategoryDTO(*category)
	return &dto, nil
}

func (s *service) GetBySlug(ctx context.Context, value string) (*CategoryDTO, error) {
	category, err := s.repo.FindBySlug(ctx, strings.TrimSpace(value))
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	dto := NewCategoryDTO(*category)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input Input) (*CategoryDTO, error) {
	category := &models.Category{}
	if err := s.apply(ctx, category, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, category.ID)
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, resourceName)
	}
	if err := s.apply(ctx, category, input); err != nil {
		return nil, err
	}
	category.Image = nil
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, db.MapError(err, resourceName)
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.MapError(err, resourceName)
	}
	return nil
}

func (s *service) apply(ctx context.Context, category *models.Category, input Input) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{"name": "es obligatorio"})
	}

	value := slug.Make(input.Slug)
	if value == "" {
		value = slug.Make(name)
	}
	if value == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Revisá los datos ingresados.").WithDetails(map[string]string{"slug": "no es válido"})
	}
	taken, err := s.repo.SlugTaken(ctx, value, category.ID)
	if err != nil {
		return db.MapError(err, resourceName)
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "Ya existe una categoría con ese slug.").WithDetails(map[string]string{"slug": value})
	}

	if input.ImageID != nil {
		count, err := s.images.CountByIDs(ctx, []uint{*input.ImageID})
		if err != nil {
			return db.MapError(err, "la imagen")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "La imagen seleccionada no existe.").WithDetails(map[string]any{"imageId": *input.ImageID})
		}
	}

	category.Name = name
	category.Slug = value
	category.Description = trimmedOrNil(input.Description)
	category.ImageID = input.ImageID
	category.IsFeatured = input.IsFeatured
	return nil
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

package products

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/giftshop-backend/internal/categories"
	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
	"github.com/angelmondragon/giftshop-backend/pkg/spreadsheet"
)

type fixture struct {
	svc        Service
	repo       *Repository
	images     *images.Repository
	categories *categories.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	imageRepo := images.NewRepository(client.DB())
	categoryRepo := categories.NewRepository(client.DB())
	svc, err := NewService(client, repo, imageRepo, categoryRepo, nil)
	require.NoError(t, err)
	return fixture{svc: svc, repo: repo, images: imageRepo, categories: categoryRepo}
}

func ptr[T any](v T) *T { return &v }

func TestCreateStoresOrderedGalleryAndCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := &models.Image{URL: "https://cdn.example.com/b/giftshop/a.jpg", Alt: "a"}
	second := &models.Image{URL: "https://cdn.example.com/b/giftshop/b.jpg", Alt: "b"}
	require.NoError(t, f.images.Create(ctx, first))
	require.NoError(t, f.images.Create(ctx, second))
	category := &models.Category{Name: "Mates", Slug: "mates"}
	require.NoError(t, f.categories.Create(ctx, category))

	created, err := f.svc.Create(ctx, Input{
		Name:               "Mate Imperial",
		SKU:                ptr("MATE-01"),
		RetailPriceDisplay: "1.234,50",
		WholesalePrice:     ptr(int64(90000)),
		Stock:              3,
		ImageIDs:           []uint{second.ID, first.ID, second.ID},
		CategoryIDs:        []uint{category.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "mate-imperial", created.Slug)
	assert.Equal(t, int64(123450), created.RetailPrice)
	assert.Equal(t, "1234.50", created.RetailPriceDisplay)
	assert.True(t, created.IsActive)
	require.Len(t, created.Images, 2)
	assert.Equal(t, second.ID, created.Images[0].ID)
	assert.Equal(t, first.ID, created.Images[1].ID)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "mates", created.Categories[0].Slug)
}

func TestCreateSuffixesDerivedSlugButRejectsExplicitDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, Input{Name: "Taza"})
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, Input{Name: "Taza"})
	require.NoError(t, err)
	assert.Equal(t, "taza-2", second.Slug)

	_, err = f.svc.Create(ctx, Input{Name: "Otra taza", Slug: "taza"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "expected conflict, got %v", err)
}

func TestCreateDuplicateSKUConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, Input{Name: "Taza", SKU: ptr("TZ-1")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, Input{Name: "Taza grande", SKU: ptr(" TZ-1 ")})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "expected conflict, got %v", err)
}

func TestCreateRejectsUnknownImagesAndBadPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, Input{Name: "Taza", ImageIDs: []uint{77}})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "expected validation, got %v", err)

	_, err = f.svc.Create(ctx, Input{Name: "Taza", RetailPriceDisplay: "doce"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "expected validation, got %v", err)
}

func TestUpdateReplacesAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	image := &models.Image{URL: "https://cdn.example.com/b/giftshop/a.jpg"}
	require.NoError(t, f.images.Create(ctx, image))
	created, err := f.svc.Create(ctx, Input{Name: "Taza", ImageIDs: []uint{image.ID}, RetailPrice: ptr(int64(500))})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, Input{Name: "Taza XL", IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "taza-xl", updated.Slug)
	assert.Empty(t, updated.Images)
	assert.False(t, updated.IsActive)
	assert.Equal(t, int64(500), updated.RetailPrice, "price is kept when not sent")
}

func TestPublicListingAndSlugHideInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := &models.Category{Name: "Tazas", Slug: "tazas"}
	require.NoError(t, f.categories.Create(ctx, category))
	_, err := f.svc.Create(ctx, Input{Name: "Visible", CategoryIDs: []uint{category.ID}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, Input{Name: "Oculto", IsActive: ptr(false), CategoryIDs: []uint{category.ID}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, Input{Name: "Sin categoria"})
	require.NoError(t, err)

	page, err := f.svc.ListPublic(ctx, ListFilter{Params: pagination.Params{Page: 1}, CategorySlug: "tazas"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "visible", page.Items[0].Slug)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.svc.GetPublicBySlug(ctx, "oculto")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "expected not found, got %v", err)

	all, err := f.svc.List(ctx, ListFilter{Params: pagination.Params{Query: "CATEG"}})
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
}

func TestDeleteRemovesJoinRowsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	image := &models.Image{URL: "https://cdn.example.com/b/giftshop/a.jpg"}
	require.NoError(t, f.images.Create(ctx, image))
	created, err := f.svc.Create(ctx, Input{Name: "Taza", ImageIDs: []uint{image.ID}})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	_, err = f.images.FindByID(ctx, image.ID)
	require.NoError(t, err, "shared image must survive")

	err = f.svc.Delete(ctx, created.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "expected not found, got %v", err)
}

func TestExportThenImportUpsertsBySKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, Input{Name: "Taza", SKU: ptr("TZ-1"), RetailPrice: ptr(int64(1500)), Stock: 2})
	require.NoError(t, err)

	var exported bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, &exported))
	rows, err := spreadsheet.Read(bytes.NewReader(exported.Bytes()), int64(exported.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "15.00", rows[1][5])

	var upload bytes.Buffer
	require.NoError(t, spreadsheet.Write(&upload, "Hoja1",
		[]string{"SKU", "Nombre", "Precio Minorista", "Stock", "Activo"},
		[][]any{
			{"TZ-1", "Taza renovada", "20,00", "5", "no"},
			{"LP-9", "Lapicera", "3.50", "10", "sí"},
			{"", "Sin código", "1", "1", ""},
			{"MT-2", "Mate", "caro", "1", ""},
		}))

	report, err := f.svc.Import(ctx, bytes.NewReader(upload.Bytes()), int64(upload.Len()))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 4, report.Errors[0].Row)

	updated, err := f.repo.FindBySKU(ctx, "TZ-1")
	require.NoError(t, err)
	assert.Equal(t, "Taza renovada", updated.Name)
	assert.Equal(t, int64(2000), updated.RetailPrice)
	assert.Equal(t, 5, updated.Stock)
	assert.False(t, updated.IsActive)

	created, err := f.repo.FindBySKU(ctx, "LP-9")
	require.NoError(t, err)
	assert.Equal(t, "lapicera", created.Slug)
	assert.Equal(t, int64(350), created.RetailPrice)
}

func TestImportRequiresSKUColumn(t *testing.T) {
	f := newFixture(t)
	var upload bytes.Buffer
	require.NoError(t, spreadsheet.Write(&upload, "Hoja1", []string{"Nombre"}, [][]any{{"Taza"}}))

	_, err := f.svc.Import(context.Background(), bytes.NewReader(upload.Bytes()), int64(upload.Len()))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "expected validation, got %v", err)
}

package settings

import (
	"context"
	"testing"

	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *images.Repository) {
	t.Helper()
	client := dbtest.Open(t)
	imageRepo := images.NewRepository(client.DB())
	svc, err := NewService(NewRepository(client.DB()), imageRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, imageRepo
}

func TestGetCreatesEmptyRow(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CompanyName != "" || got.BudgetValidityDays != 0 {
		t.Fatalf("expected empty settings, got %+v", got)
	}
}

func TestUpdatePersistsAndExposesPublicFields(t *testing.T) {
	svc, imageRepo := newTestService(t)
	ctx := context.Background()

	logo := &models.Image{URL: "https://cdn.example.com/b/giftshop/logo.png"}
	if err := imageRepo.Create(ctx, logo); err != nil {
		t.Fatalf("seed image: %v", err)
	}
	instagram := "https://instagram.com/regaleria"
	taxID := "30-71234567-8"

	_, err := svc.Update(ctx, Input{
		CompanyName:        " Regalería Sur ",
		TaxID:              &taxID,
		LogoImageID:        &logo.ID,
		Social:             types.SocialLinks{Instagram: &instagram},
		BudgetValidityDays: 10,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	public, err := svc.GetPublic(ctx)
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if public.CompanyName != "Regalería Sur" || public.LogoURL != logo.URL {
		t.Fatalf("unexpected public settings %+v", public)
	}
	if public.Social.Instagram == nil || *public.Social.Instagram != instagram {
		t.Fatalf("expected social links, got %+v", public.Social)
	}

	current, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.BudgetValidityDays != 10 || current.TaxID == nil {
		t.Fatalf("unexpected row %+v", current)
	}
}

func TestUpdateRejectsUnknownLogo(t *testing.T) {
	svc, _ := newTestService(t)
	missing := uint(5)
	_, err := svc.Update(context.Background(), Input{CompanyName: "Regalería", LogoImageID: &missing})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

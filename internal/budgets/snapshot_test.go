package budgets

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
)

func TestNewLineSnapshot(t *testing.T) {
	sku := "MATE-01"
	image := &models.Image{ID: 3, URL: "https://cdn.example.com/b/giftshop/mate.jpg", Alt: "Mate de calabaza"}
	bareImage := &models.Image{ID: 4, URL: "https://cdn.example.com/b/giftshop/taza.jpg"}

	tests := []struct {
		name         string
		product      models.Product
		quantity     int
		customerType enums.CustomerType
		want         LineSnapshot
	}{
		{
			name:         "retail with sku and image",
			product:      models.Product{ID: 7, Name: "Mate", Slug: "mate", SKU: &sku, RetailPrice: 500, WholesalePrice: 300, Images: []models.ProductImage{{ImageID: 3, Image: image}}},
			quantity:     2,
			customerType: enums.CustomerTypeRetail,
			want:         LineSnapshot{ProductID: 7, SKU: "MATE-01", Slug: "mate", Name: "Mate", ImageURL: image.URL, ImageAlt: "Mate de calabaza", UnitPrice: 500, Quantity: 2, Amount: 1000},
		},
		{
			name:         "wholesale price applies",
			product:      models.Product{ID: 7, Name: "Mate", Slug: "mate", RetailPrice: 500, WholesalePrice: 300},
			quantity:     3,
			customerType: enums.CustomerTypeWholesale,
			want:         LineSnapshot{ProductID: 7, SKU: "PROD-7", Slug: "mate", Name: "Mate", ImageAlt: "Mate", UnitPrice: 300, Quantity: 3, Amount: 900},
		},
		{
			name:         "wholesale without wholesale price falls back to retail",
			product:      models.Product{ID: 8, Name: "Taza", Slug: "taza", RetailPrice: 1200, Images: []models.ProductImage{{ImageID: 4, Image: bareImage}}},
			quantity:     1,
			customerType: enums.CustomerTypeWholesale,
			want:         LineSnapshot{ProductID: 8, SKU: "PROD-8", Slug: "taza", Name: "Taza", ImageURL: bareImage.URL, ImageAlt: "Taza", UnitPrice: 1200, Quantity: 1, Amount: 1200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLineSnapshot(tt.product, tt.quantity, tt.customerType)
			if err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewLineSnapshotRejectsBadInput(t *testing.T) {
	if _, err := NewLineSnapshot(models.Product{ID: 1}, 0, enums.CustomerTypeRetail); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := NewLineSnapshot(models.Product{}, 1, enums.CustomerTypeRetail); err == nil {
		t.Fatal("expected error for product without id")
	}
	if _, err := NewLineSnapshot(models.Product{ID: 1, RetailPrice: 500}, 4611686018427387904, enums.CustomerTypeRetail); err == nil {
		t.Fatal("expected error for quantity above the line cap")
	}
	if _, err := NewLineSnapshot(models.Product{ID: 1, RetailPrice: math.MaxInt64 / 2}, 3, enums.CustomerTypeRetail); err == nil {
		t.Fatal("expected error when price x quantity overflows")
	}
}

func TestTotalAndNumber(t *testing.T) {
	lines := []LineSnapshot{{Amount: 1000}, {Amount: 250}}
	if got, err := Total(lines); err != nil || got != 1250 {
		t.Fatalf("expected 1250, got %d (%v)", got, err)
	}
	if _, err := Total([]LineSnapshot{{ProductID: 1, Amount: math.MaxInt64}, {ProductID: 2, Amount: 1}}); err == nil {
		t.Fatal("expected overflow error from total")
	}
	if got := FormatNumber(fixedNow(), 42); got != "2026-000042" {
		t.Fatalf("unexpected number %q", got)
	}
}

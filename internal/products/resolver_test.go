package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
)

type fakeLoader struct {
	products map[uint]models.Product
	delays   map[uint]time.Duration
	errs     map[uint]error
}

func (f fakeLoader) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	if d := f.delays[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func TestResolveJoinsByIDRegardlessOfCompletionOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	loader := fakeLoader{
		products: map[uint]models.Product{
			1: {ID: 1, Name: "Mate"},
			2: {ID: 2, Name: "Taza"},
			3: {ID: 3, Name: "Lapicera"},
		},
		delays: map[uint]time.Duration{1: 30 * time.Millisecond, 2: 10 * time.Millisecond},
	}
	resolver, err := NewResolver(loader, 0)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), []uint{1, 2, 3})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for id, name := range map[uint]string{1: "Mate", 2: "Taza", 3: "Lapicera"} {
		if got[id] == nil || got[id].Name != name {
			t.Fatalf("product %d: expected %q, got %+v", id, name, got[id])
		}
	}
}

func TestResolveReportsFirstMissingInRequestOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	loader := fakeLoader{
		products: map[uint]models.Product{1: {ID: 1}},
		// 99 finishes first but 42 comes first in the cart
		delays: map[uint]time.Duration{42: 20 * time.Millisecond},
	}
	resolver, _ := NewResolver(loader, 4)

	_, err := resolver.Resolve(context.Background(), []uint{1, 42, 99})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if notFound.ProductID != 42 {
		t.Fatalf("expected product 42, got %d", notFound.ProductID)
	}
}

func TestResolveStopsOnLoaderFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	boom := errors.New("connection reset")
	loader := fakeLoader{
		products: map[uint]models.Product{1: {ID: 1}},
		delays:   map[uint]time.Duration{1: time.Second},
		errs:     map[uint]error{2: boom},
	}
	resolver, _ := NewResolver(loader, 2)

	start := time.Now()
	_, err := resolver.Resolve(context.Background(), []uint{1, 2})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		t.Fatalf("infrastructure failure must not look like a missing product")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("expected sibling lookups to be cancelled")
	}
}

func TestResolveHonoursCallerDeadline(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	loader := fakeLoader{
		products: map[uint]models.Product{1: {ID: 1}},
		delays:   map[uint]time.Duration{1: time.Second},
	}
	resolver, _ := NewResolver(loader, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := resolver.Resolve(ctx, []uint{1}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewResolverRequiresLoader(t *testing.T) {
	if _, err := NewResolver(nil, 1); err == nil {
		t.Fatal("expected error for nil loader")
	}
}

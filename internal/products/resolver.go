package products

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
)

const defaultResolveConcurrency = 8

// NotFoundError names the first requested product that does not exist.
type NotFoundError struct {
	ProductID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
}

// Resolver loads the products behind a cart, one lookup per line.
type Resolver struct {
	loader productLoader
	limit  int
}

func NewResolver(loader productLoader, limit int) (*Resolver, error) {
	if loader == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if limit <= 0 {
		limit = defaultResolveConcurrency
	}
	return &Resolver{loader: loader, limit: limit}, nil
}

// Resolve fetches every id concurrently and returns the products keyed by id.
// Completion order never matters: a missing product is reported in request order.
func (r *Resolver) Resolve(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	found := make(map[uint]*models.Product, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			product, err := r.loader.FindByID(gctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load product %d: %w", id, err)
			}
			mu.Lock()
			found[id] = product
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, &NotFoundError{ProductID: id}
		}
	}
	return found, nil
}

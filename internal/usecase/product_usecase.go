package usecase

import (
	"context"
	"time"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/cache"
)

// ProductLookup fetches a single product from the backend.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// ProductUsecase resolves a product ID to the snapshot stored in carts and
// favorites when the client sends only the ID.
type ProductUsecase struct {
	lookup ProductLookup
	cache  cache.CacheService
	ttl    time.Duration
}

func NewProductUsecase(lookup ProductLookup, cache cache.CacheService, ttl time.Duration) *ProductUsecase {
	return &ProductUsecase{lookup: lookup, cache: cache, ttl: ttl}
}

func (u *ProductUsecase) Snapshot(ctx context.Context, id string) (domain.ProductSnapshot, error) {
	if id == "" {
		return domain.ProductSnapshot{}, domain.ErrNotFound
	}
	cacheKey := "product:" + id
	if val, found := u.cache.Get(cacheKey); found {
		return val.(domain.ProductSnapshot), nil
	}

	p, err := u.lookup.GetProduct(ctx, id)
	if err != nil {
		return domain.ProductSnapshot{}, err
	}
	snap := p.Snapshot()
	u.cache.Set(cacheKey, snap, u.ttl)
	return snap, nil
}

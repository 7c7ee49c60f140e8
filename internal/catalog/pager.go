package catalog

import (
	"context"
	"time"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/cache"

	"golang.org/x/sync/singleflight"
)

// fetchTimeout caps a shared fetch. The fetch runs detached from the caller
// that started it, since other callers may be waiting on the same result.
const fetchTimeout = 30 * time.Second

// PageFetcher loads a single catalog page from the backend.
type PageFetcher interface {
	ListCatalog(ctx context.Context, key domain.QueryKey, limit int) (*domain.CatalogPage, error)
}

// Pager serves catalog pages keyed by QueryKey. A key that is cached, or
// already being fetched, never causes a second backend call.
type Pager struct {
	fetcher PageFetcher
	cache   cache.CacheService
	ttl     time.Duration
	limit   int
	group   singleflight.Group
}

func NewPager(fetcher PageFetcher, cache cache.CacheService, ttl time.Duration, limit int) *Pager {
	if limit <= 0 {
		limit = 20
	}
	return &Pager{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		limit:   limit,
	}
}

func (p *Pager) Page(ctx context.Context, key domain.QueryKey) (*domain.CatalogPage, error) {
	if key.Page < 1 {
		key.Page = 1
	}
	k := key.String()
	if val, found := p.cache.Get(k); found {
		return val.(*domain.CatalogPage), nil
	}

	val, err, _ := p.group.Do(k, func() (interface{}, error) {
		if val, found := p.cache.Get(k); found {
			return val, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		page, err := p.fetcher.ListCatalog(fctx, key, p.limit)
		if err != nil {
			return nil, err
		}
		p.cache.Set(k, page, p.ttl)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*domain.CatalogPage), nil
}

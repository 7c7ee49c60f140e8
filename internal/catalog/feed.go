package catalog

import (
	"context"
	"slices"
	"sync"

	"storefront-bff/internal/domain"
)

// FeedView is what an infinite-scroll listing renders: every product loaded
// so far plus the cursor.
type FeedView struct {
	Products   []domain.Product      `json:"products"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"totalPages"`
	Total      int64                 `json:"total"`
	HasMore    bool                  `json:"hasMore"`
	Filters    domain.FilterSnapshot `json:"filters"`
}

// Feed accumulates pages for one result set. It owns the page cursor; the
// filter state does not. A different query key discards what was loaded.
type Feed struct {
	pager *Pager

	mu         sync.Mutex
	key        domain.QueryKey
	loaded     bool
	products   []domain.Product
	page       int
	totalPages int
	total      int64
}

func NewFeed(pager *Pager) *Feed {
	return &Feed{pager: pager}
}

// Fetch returns the feed scrolled to page for the debounced snapshot. Pages
// already loaded for the same key are not fetched again.
func (f *Feed) Fetch(ctx context.Context, category string, snap domain.FilterSnapshot, page int) (*FeedView, error) {
	if page < 1 {
		page = 1
	}
	base := snap.Key(category, 0)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.loaded || f.key != base || page < f.page {
		f.resetLocked(base)
	}

	for f.page < page {
		if f.loaded && f.page >= f.totalPages {
			break
		}
		key := base
		key.Page = f.page + 1
		p, err := f.pager.Page(ctx, key)
		if err != nil {
			return nil, err
		}
		f.products = append(f.products, p.Products...)
		f.page = key.Page
		f.totalPages = p.TotalPages
		f.total = p.Total
		f.loaded = true
	}

	return &FeedView{
		Products:   slices.Clone(f.products),
		Page:       f.page,
		TotalPages: f.totalPages,
		Total:      f.total,
		HasMore:    f.page < f.totalPages,
		Filters:    snap,
	}, nil
}

// Reset drops everything loaded.
func (f *Feed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked(domain.QueryKey{})
}

func (f *Feed) resetLocked(key domain.QueryKey) {
	f.key = key
	f.loaded = false
	f.products = []domain.Product{}
	f.page = 0
	f.totalPages = 0
	f.total = 0
}

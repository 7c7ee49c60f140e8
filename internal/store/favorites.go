package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/logger"
)

// Favorites is the set of liked products, kept as full snapshots in the order
// they were added. Like Cart, a set that failed to hydrate never writes.
type Favorites struct {
	mu       sync.Mutex
	products []domain.ProductSnapshot
	ids      map[string]struct{}
	repo     Repository[domain.FavoritesState]
	degraded bool
}

// NewFavorites hydrates the set from repo, starting empty on any failure.
func NewFavorites(ctx context.Context, repo Repository[domain.FavoritesState]) *Favorites {
	f := &Favorites{repo: repo, ids: map[string]struct{}{}}
	lctx, cancel := detach(ctx)
	defer cancel()
	state, err := repo.Load(lctx)
	if err != nil {
		event := logger.WithContext(ctx).Warn().Err(err).Str("key", domain.FavoritesStorageKey)
		if errors.Is(err, domain.ErrCorruptSnapshot) {
			event.Msg("Discarding corrupt favorites snapshot")
		} else {
			f.degraded = true
			event.Msg("Favorites storage unavailable, running from memory")
		}
		return f
	}
	for _, p := range state.Products {
		if p.ID == "" {
			continue
		}
		if _, dup := f.ids[p.ID]; dup {
			continue
		}
		f.ids[p.ID] = struct{}{}
		f.products = append(f.products, p)
	}
	return f
}

func (f *Favorites) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

// Add appends product unless it is already a member.
func (f *Favorites) Add(ctx context.Context, product domain.ProductSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addLocked(ctx, product)
}

func (f *Favorites) addLocked(ctx context.Context, product domain.ProductSnapshot) {
	if _, ok := f.ids[product.ID]; ok {
		return
	}
	f.ids[product.ID] = struct{}{}
	f.products = append(f.products, product)
	f.persist(ctx)
}

// Remove drops productID from the set and reports whether it was a member.
// Absent ids are ignored.
func (f *Favorites) Remove(ctx context.Context, productID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removeLocked(ctx, productID)
}

func (f *Favorites) removeLocked(ctx context.Context, productID string) bool {
	if _, ok := f.ids[productID]; !ok {
		return false
	}
	delete(f.ids, productID)
	f.products = slices.DeleteFunc(f.products, func(p domain.ProductSnapshot) bool {
		return p.ID == productID
	})
	f.persist(ctx)
	return true
}

// Toggle removes product when it is a member and adds it otherwise. It
// returns the membership after the call.
func (f *Favorites) Toggle(ctx context.Context, product domain.ProductSnapshot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[product.ID]; ok {
		f.removeLocked(ctx, product.ID)
		return false
	}
	f.addLocked(ctx, product)
	return true
}

func (f *Favorites) IsFavorite(productID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[productID]
	return ok
}

func (f *Favorites) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

// Products returns a copy of the members in insertion order.
func (f *Favorites) Products() []domain.ProductSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.products)
}

// Clear empties the set.
func (f *Favorites) Clear(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = nil
	f.ids = map[string]struct{}{}
	f.persist(ctx)
}

func (f *Favorites) persist(ctx context.Context) {
	if f.degraded {
		logger.WithContext(ctx).Debug().Str("key", domain.FavoritesStorageKey).Msg("Favorites degraded, skipping save")
		return
	}
	state := domain.FavoritesState{
		Products: make([]domain.ProductSnapshot, 0, len(f.products)),
		IDs:      make([]string, 0, len(f.products)),
	}
	for _, p := range f.products {
		state.Products = append(state.Products, p)
		state.IDs = append(state.IDs, p.ID)
	}
	sctx, cancel := detach(ctx)
	defer cancel()
	if err := f.repo.Save(sctx, state); err != nil {
		logger.WithContext(ctx).Error().Err(err).
			Str("key", domain.FavoritesStorageKey).
			Int("products", len(state.Products)).
			Msg("Favorites persistence failed, keeping in-memory state")
	}
}

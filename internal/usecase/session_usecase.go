package usecase

import (
	"context"
	"time"

	"storefront-bff/internal/catalog"
	"storefront-bff/internal/domain"
	"storefront-bff/internal/filter"
	"storefront-bff/internal/store"
	"storefront-bff/pkg/cache"
	"storefront-bff/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Session is the state container of one shopper. Cart and favorites are
// persisted under the session namespace; filter and feed live in memory only.
type Session struct {
	ID        string
	Cart      *store.Cart
	Favorites *store.Favorites
	Filter    *filter.State
	Feed      *catalog.Feed
}

type SessionOptions struct {
	// TTL is how long an idle session stays in memory.
	TTL          time.Duration
	FilterWindow time.Duration
}

// SessionUsecase builds sessions on first use and keeps them in a registry.
// A session dropped from the registry is rebuilt from persisted snapshots the
// next time its ID is seen. Concurrent first requests for one ID share a
// single hydration; other IDs are never held up by it.
type SessionUsecase struct {
	kv       domain.KeyValueStore
	pager    *catalog.Pager
	sessions cache.CacheService
	opts     SessionOptions
	group    singleflight.Group
}

func NewSessionUsecase(kv domain.KeyValueStore, pager *catalog.Pager, sessions cache.CacheService, opts SessionOptions) *SessionUsecase {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	sessions.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Filter.Close()
			logger.Debug().Str("session_id", id).Msg("Session evicted")
		}
	})
	return &SessionUsecase{
		kv:       kv,
		pager:    pager,
		sessions: sessions,
		opts:     opts,
	}
}

// Get returns the session for id, hydrating it from storage if it is not in
// memory. Every call extends the idle TTL.
//
// A session whose cart or favorites could not be read is returned for the
// current request but not registered, so the next request retries hydration.
func (u *SessionUsecase) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	if s, ok := u.lookup(id); ok {
		return s, nil
	}

	v, _, _ := u.group.Do(id, func() (interface{}, error) {
		if s, ok := u.lookup(id); ok {
			return s, nil
		}
		return u.hydrate(ctx, id), nil
	})
	return v.(*Session), nil
}

func (u *SessionUsecase) lookup(id string) (*Session, bool) {
	v, found := u.sessions.Get(id)
	if !found {
		return nil, false
	}
	s := v.(*Session)
	u.sessions.Set(id, s, u.opts.TTL)
	return s, true
}

func (u *SessionUsecase) hydrate(ctx context.Context, id string) *Session {
	ns := store.Namespaced(u.kv, id)
	s := &Session{
		ID:        id,
		Cart:      store.NewCart(ctx, store.NewJSONRepository[domain.CartState](ns, domain.CartStorageKey)),
		Favorites: store.NewFavorites(ctx, store.NewJSONRepository[domain.FavoritesState](ns, domain.FavoritesStorageKey)),
		Feed:      catalog.NewFeed(u.pager),
	}
	s.Filter = filter.New(filter.Options{
		Window: u.opts.FilterWindow,
		OnSettle: func(domain.FilterSnapshot) {
			s.Feed.Reset()
		},
	})

	log := logger.WithContext(ctx)
	if s.Cart.Degraded() || s.Favorites.Degraded() {
		log.Warn().Str("session_id", id).Msg("Session storage unavailable, not registering session")
		return s
	}
	u.sessions.Set(id, s, u.opts.TTL)
	log.Debug().Str("session_id", id).Msg("Session created")
	return s
}

// Reset clears the cart and favorites and restores default filters, as on
// logout.
func (u *SessionUsecase) Reset(ctx context.Context, id string) error {
	s, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Cart.Clear(ctx)
	s.Favorites.Clear(ctx)
	s.Filter.Reset()
	s.Feed.Reset()
	return nil
}

// Drop removes the in-memory session. Persisted snapshots are kept.
func (u *SessionUsecase) Drop(id string) {
	u.sessions.Delete(id)
}

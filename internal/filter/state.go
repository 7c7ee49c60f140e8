package filter

import (
	"slices"
	"sync"
	"time"

	"storefront-bff/internal/domain"
)

// DefaultWindow is the quiescence window applied to every filter field.
const DefaultWindow = 300 * time.Millisecond

type Options struct {
	Window time.Duration
	// InitialCategory pre-selects a category, e.g. from an incoming URL.
	InitialCategory string
	// OnSettle runs after the debounced snapshot changes.
	OnSettle func(domain.FilterSnapshot)
}

// State is the catalog filter of one browsing session. Controls read Live;
// the query layer reads Debounced, which only changes once a field settles.
type State struct {
	categories *Debounced[[]string]
	price      *Debounced[domain.PriceRange]
	inStock    *Debounced[bool]
	sort       *Debounced[domain.SortKey]
	defaults   domain.FilterSnapshot

	mu       sync.Mutex
	settled  domain.FilterSnapshot
	version  uint64
	onSettle func(domain.FilterSnapshot)
}

func New(opts Options) *State {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}

	defaults := domain.FilterSnapshot{
		Categories: []string{},
		Sort:       domain.DefaultSort,
	}
	if opts.InitialCategory != "" {
		defaults.Categories = []string{opts.InitialCategory}
	}

	s := &State{
		categories: NewDebounced(slices.Clone(defaults.Categories), window, slices.Equal[[]string]),
		price:      NewComparable(domain.PriceRange{}, window),
		inStock:    NewComparable(false, window),
		sort:       NewComparable(defaults.Sort, window),
		defaults:   defaults,
		settled:    cloneSnapshot(defaults),
		onSettle:   opts.OnSettle,
	}

	s.categories.OnCommit(func([]string) { s.recompose() })
	s.price.OnCommit(func(domain.PriceRange) { s.recompose() })
	s.inStock.OnCommit(func(bool) { s.recompose() })
	s.sort.OnCommit(func(domain.SortKey) { s.recompose() })
	return s
}

// recompose reads the fields under s.mu so concurrent commits publish in the
// order their reads happened and the last one always sees every field. Field
// locks are only taken inside s.mu, never the other way round.
func (s *State) recompose() {
	s.mu.Lock()
	next := domain.FilterSnapshot{
		Categories: slices.Clone(s.categories.Settled()),
		PriceRange: s.price.Settled(),
		InStock:    s.inStock.Settled(),
		Sort:       s.sort.Settled(),
	}
	if next.Equal(s.settled) && slices.Equal(next.Categories, s.settled.Categories) {
		s.mu.Unlock()
		return
	}
	s.settled = next
	s.version++
	hook := s.onSettle
	s.mu.Unlock()

	if hook != nil {
		hook(cloneSnapshot(next))
	}
}

// ToggleCategory selects id if it is not selected and deselects it otherwise.
// Selection order is preserved for display.
func (s *State) ToggleCategory(id string) []string {
	out := s.categories.Update(func(cur []string) []string {
		if i := slices.Index(cur, id); i >= 0 {
			return slices.Delete(slices.Clone(cur), i, i+1)
		}
		return append(slices.Clone(cur), id)
	})
	return slices.Clone(out)
}

// SetCategories replaces the selection, dropping blanks and duplicates.
func (s *State) SetCategories(ids []string) []string {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(clean, id) {
			continue
		}
		clean = append(clean, id)
	}
	s.categories.Set(clean)
	return slices.Clone(clean)
}

func (s *State) ClearCategories() {
	s.categories.Set([]string{})
}

// SetPriceRange clamps and orders the bounds, then stores them. It returns
// the range actually stored.
func (s *State) SetPriceRange(min, max float64) domain.PriceRange {
	r := domain.NewPriceRange(min, max)
	s.price.Set(r)
	return r
}

func (s *State) SetInStock(v bool) {
	s.inStock.Set(v)
}

// SetSort validates key against the fixed enumeration.
func (s *State) SetSort(key string) error {
	k, err := domain.ParseSortKey(key)
	if err != nil {
		return err
	}
	s.sort.Set(k)
	return nil
}

// Live returns the undebounced values for immediate control feedback.
func (s *State) Live() domain.FilterSnapshot {
	return domain.FilterSnapshot{
		Categories: slices.Clone(s.categories.Live()),
		PriceRange: s.price.Live(),
		InStock:    s.inStock.Live(),
		Sort:       s.sort.Live(),
	}
}

// Debounced returns the settled snapshot the catalog query is keyed on.
func (s *State) Debounced() domain.FilterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.settled)
}

// Version counts changes of the debounced snapshot.
func (s *State) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Pending reports whether any field still has an uncommitted value.
func (s *State) Pending() bool {
	return s.categories.Pending() || s.price.Pending() || s.inStock.Pending() || s.sort.Pending()
}

// Flush commits every pending field now.
func (s *State) Flush() {
	s.categories.Flush()
	s.price.Flush()
	s.inStock.Flush()
	s.sort.Flush()
}

// Reset restores the defaults immediately, bypassing the window.
func (s *State) Reset() {
	s.categories.Reset(slices.Clone(s.defaults.Categories))
	s.price.Reset(s.defaults.PriceRange)
	s.inStock.Reset(s.defaults.InStock)
	s.sort.Reset(s.defaults.Sort)
}

// Close cancels pending commits. The state stays readable.
func (s *State) Close() {
	s.categories.Stop()
	s.price.Stop()
	s.inStock.Stop()
	s.sort.Stop()
}

func cloneSnapshot(in domain.FilterSnapshot) domain.FilterSnapshot {
	in.Categories = slices.Clone(in.Categories)
	if in.Categories == nil {
		in.Categories = []string{}
	}
	return in
}

package filter

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront-bff/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Defaults(t *testing.T) {
	s := New(Options{Window: testWindow})
	defer s.Close()

	snap := s.Debounced()
	assert.Empty(t, snap.Categories)
	assert.Equal(t, domain.SortNameAsc, snap.Sort)
	assert.False(t, snap.InStock)
	assert.True(t, snap.PriceRange.IsZero())
}

func TestState_InitialCategoryIsPreselected(t *testing.T) {
	s := New(Options{Window: testWindow, InitialCategory: "green-tea"})
	defer s.Close()

	assert.Equal(t, []string{"green-tea"}, s.Live().Categories)
	assert.Equal(t, []string{"green-tea"}, s.Debounced().Categories)
}

func TestState_PriceRangeClampAndSwap(t *testing.T) {
	s := New(Options{Window: time.Hour})
	defer s.Close()

	assert.Equal(t, domain.PriceRange{Min: 0, Max: 100}, s.SetPriceRange(-5, 100))
	assert.Equal(t, domain.PriceRange{Min: 50, Max: 200}, s.SetPriceRange(200, 50))
	assert.Equal(t, domain.PriceRange{Min: 0, Max: 0}, s.SetPriceRange(-3, -9))
	assert.Equal(t, domain.PriceRange{Min: 0, Max: 0}, s.Live().PriceRange)
}

func TestState_SortBurstSettlesOnce(t *testing.T) {
	var settles atomic.Int32
	s := New(Options{
		Window:   testWindow,
		OnSettle: func(domain.FilterSnapshot) { settles.Add(1) },
	})
	defer s.Close()

	// Start away from the default name-asc so the burst's final value is a real change.
	require.NoError(t, s.SetSort("price-desc"))
	s.Flush()
	require.Equal(t, uint64(1), s.Version())
	settles.Store(0)

	require.NoError(t, s.SetSort("price-asc"))
	require.NoError(t, s.SetSort("price-desc"))
	require.NoError(t, s.SetSort("name-asc"))

	assert.Equal(t, domain.SortNameAsc, s.Live().Sort)
	assert.Equal(t, domain.SortPriceDesc, s.Debounced().Sort)

	require.Eventually(t, func() bool { return s.Version() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testWindow)

	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, int32(1), settles.Load())
	assert.Equal(t, domain.SortNameAsc, s.Debounced().Sort)
}

func TestState_BurstEndingOnCurrentValueDoesNotSettle(t *testing.T) {
	s := New(Options{Window: testWindow})
	defer s.Close()

	require.NoError(t, s.SetSort("price-asc"))
	require.NoError(t, s.SetSort("price-desc"))
	require.NoError(t, s.SetSort("name-asc"))

	require.Eventually(t, func() bool { return !s.Pending() }, time.Second, 5*time.Millisecond)
	assert.Zero(t, s.Version())
	assert.Equal(t, domain.SortNameAsc, s.Debounced().Sort)
}

func TestState_InvalidSortRejected(t *testing.T) {
	s := New(Options{Window: testWindow})
	defer s.Close()

	err := s.SetSort("popularity")
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
	assert.False(t, s.Pending())
}

func TestState_ToggleCategoryPreservesOrder(t *testing.T) {
	s := New(Options{Window: time.Hour})
	defer s.Close()

	s.ToggleCategory("b")
	s.ToggleCategory("a")
	s.ToggleCategory("c")
	got := s.ToggleCategory("a")

	assert.Equal(t, []string{"b", "c"}, got)
	assert.Equal(t, []string{"b", "c"}, s.Live().Categories)
	assert.Empty(t, s.Debounced().Categories)
}

func TestState_SetCategoriesDropsDuplicates(t *testing.T) {
	s := New(Options{Window: time.Hour})
	defer s.Close()

	got := s.SetCategories([]string{"a", "", "b", "a"})

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestState_FieldsDebounceIndependently(t *testing.T) {
	s := New(Options{Window: testWindow})
	defer s.Close()

	s.SetInStock(true)
	s.SetPriceRange(10, 20)
	s.ToggleCategory("oolong")

	require.Eventually(t, func() bool {
		snap := s.Debounced()
		return snap.InStock && snap.PriceRange.Max == 20 && len(snap.Categories) == 1
	}, time.Second, 5*time.Millisecond)

	snap := s.Debounced()
	assert.Equal(t, domain.PriceRange{Min: 10, Max: 20}, snap.PriceRange)
	assert.Equal(t, []string{"oolong"}, snap.Categories)
}

func TestState_FlushAndReset(t *testing.T) {
	s := New(Options{Window: time.Hour, InitialCategory: "black"})
	defer s.Close()

	s.SetInStock(true)
	require.NoError(t, s.SetSort("price-desc"))
	s.Flush()

	assert.True(t, s.Debounced().InStock)
	assert.Equal(t, domain.SortPriceDesc, s.Debounced().Sort)

	s.Reset()

	snap := s.Debounced()
	assert.False(t, snap.InStock)
	assert.Equal(t, domain.SortNameAsc, snap.Sort)
	assert.Equal(t, []string{"black"}, snap.Categories)
	assert.False(t, s.Pending())
}

func TestState_DebouncedSnapshotIsACopy(t *testing.T) {
	s := New(Options{Window: time.Hour, InitialCategory: "white"})
	defer s.Close()

	snap := s.Debounced()
	snap.Categories[0] = "mutated"

	assert.Equal(t, []string{"white"}, s.Debounced().Categories)
}

func TestState_ConcurrentCommitsConverge(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := New(Options{Window: time.Hour})

		s.SetCategories([]string{"green", fmt.Sprint("c", i)})
		s.SetPriceRange(10, float64(100+i))
		s.SetInStock(true)
		require.NoError(t, s.SetSort("price-desc"))

		var wg sync.WaitGroup
		for _, flush := range []func(){s.categories.Flush, s.price.Flush, s.inStock.Flush, s.sort.Flush} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				flush()
			}()
		}
		wg.Wait()

		live, settled := s.Live(), s.Debounced()
		require.Equal(t, live.Categories, settled.Categories, "iteration %d", i)
		require.True(t, live.Equal(settled), "iteration %d: live %+v settled %+v", i, live, settled)
		s.Close()
	}
}

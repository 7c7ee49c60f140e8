package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SortKey orders catalog results.
type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// DefaultSort is used by a fresh filter state.
const DefaultSort = SortNameAsc

// SortKeys lists every accepted sort key.
var SortKeys = []SortKey{
	SortNameAsc,
	SortNameDesc,
	SortPriceAsc,
	SortPriceDesc,
}

// ParseSortKey validates s against the fixed enumeration.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

// PriceRange is an inclusive price window. Min <= Max and both >= 0.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewPriceRange clamps negative bounds to zero and swaps inverted bounds.
// It never rejects input.
func NewPriceRange(min, max float64) PriceRange {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if min > max {
		min, max = max, min
	}
	return PriceRange{Min: min, Max: max}
}

// IsZero reports whether no price bound is set.
func (r PriceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// FilterSnapshot is a point-in-time copy of the catalog filter fields.
type FilterSnapshot struct {
	Categories []string   `json:"categories"`
	PriceRange PriceRange `json:"priceRange"`
	InStock    bool       `json:"inStock"`
	Sort       SortKey    `json:"sort"`
}

// Equal compares two snapshots by value. Category order is ignored.
func (s FilterSnapshot) Equal(o FilterSnapshot) bool {
	return s.PriceRange == o.PriceRange &&
		s.InStock == o.InStock &&
		s.Sort == o.Sort &&
		SameCategories(s.Categories, o.Categories)
}

// Key returns the query key for page of this snapshot.
func (s FilterSnapshot) Key(category string, page int) QueryKey {
	cats := slices.Clone(s.Categories)
	slices.Sort(cats)
	return QueryKey{
		Category:   category,
		Categories: strings.Join(cats, ","),
		PriceMin:   s.PriceRange.Min,
		PriceMax:   s.PriceRange.Max,
		InStock:    s.InStock,
		Sort:       s.Sort,
		Page:       page,
	}
}

// SameCategories compares two category selections as sets.
func SameCategories(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// QueryKey is the comparable tuple a catalog page is cached under. Two equal
// keys must never cause two backend calls.
type QueryKey struct {
	Category   string
	Categories string
	PriceMin   float64
	PriceMax   float64
	InStock    bool
	Sort       SortKey
	Page       int
}

// WithoutPage returns the key with the page cursor zeroed, identifying the
// result set independent of how far it has been scrolled.
func (k QueryKey) WithoutPage() QueryKey {
	k.Page = 0
	return k
}

func (k QueryKey) String() string {
	var b strings.Builder
	b.WriteString("catalog:")
	b.WriteString(k.Category)
	b.WriteString("|c=")
	b.WriteString(k.Categories)
	b.WriteString("|min=")
	b.WriteString(strconv.FormatFloat(k.PriceMin, 'f', -1, 64))
	b.WriteString("|max=")
	b.WriteString(strconv.FormatFloat(k.PriceMax, 'f', -1, 64))
	b.WriteString("|stock=")
	b.WriteString(strconv.FormatBool(k.InStock))
	b.WriteString("|sort=")
	b.WriteString(string(k.Sort))
	b.WriteString("|page=")
	b.WriteString(strconv.Itoa(k.Page))
	return b.String()
}

// CatalogPage is one page of the paginated catalog listing.
type CatalogPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Total      int64     `json:"total"`
}

package usecase

import (
	"strings"
)

const defaultCityLimit = 10

type CityUsecase struct {
	cities []string
	lower  []string
}

func NewCityUsecase(cities []string) *CityUsecase {
	lower := make([]string, len(cities))
	for i, c := range cities {
		lower[i] = strings.ToLower(c)
	}
	return &CityUsecase{cities: cities, lower: lower}
}

// Suggest returns up to limit cities matching query, ignoring case. Prefix
// matches come first, then cities containing query elsewhere, each group in
// list order.
func (u *CityUsecase) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = defaultCityLimit
	}

	prefix := make([]string, 0, limit)
	var contains []string
	for i, name := range u.lower {
		switch {
		case strings.HasPrefix(name, q):
			prefix = append(prefix, u.cities[i])
		case strings.Contains(name, q):
			contains = append(contains, u.cities[i])
		}
	}

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

package v1

import (
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/filter"
)

type FilterHandler struct {
	sessions SessionProvider
}

func NewFilterHandler(sessions SessionProvider) *FilterHandler {
	return &FilterHandler{sessions: sessions}
}

type filterView struct {
	Live      domain.FilterSnapshot `json:"live"`
	Debounced domain.FilterSnapshot `json:"debounced"`
	Version   uint64                `json:"version"`
	Pending   bool                  `json:"pending"`
}

func newFilterView(f *filter.State) filterView {
	return filterView{
		Live:      f.Live(),
		Debounced: f.Debounced(),
		Version:   f.Version(),
		Pending:   f.Pending(),
	}
}

func (h *FilterHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, newFilterView(s.Filter))
}

// patchFiltersReq changes only the fields present. Flush commits right away
// instead of waiting for the debounce window.
type patchFiltersReq struct {
	ToggleCategory *string   `json:"toggleCategory"`
	Categories     *[]string `json:"categories"`
	MinPrice       *float64  `json:"minPrice"`
	MaxPrice       *float64  `json:"maxPrice"`
	InStock        *bool     `json:"inStock"`
	Sort           *string   `json:"sort"`
	Flush          bool      `json:"flush"`
}

func (h *FilterHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	var req patchFiltersReq
	if !decodeJSON(w, r, &req) {
		return
	}

	// Validate before touching any field so a bad sort leaves the state as is.
	if req.Sort != nil {
		if _, err := domain.ParseSortKey(*req.Sort); err != nil {
			writeUsecaseError(w, r, err)
			return
		}
	}

	f := s.Filter
	if req.Categories != nil {
		f.SetCategories(*req.Categories)
	}
	if req.ToggleCategory != nil && *req.ToggleCategory != "" {
		f.ToggleCategory(*req.ToggleCategory)
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		cur := f.Live().PriceRange
		lo, hi := cur.Min, cur.Max
		if req.MinPrice != nil {
			lo = *req.MinPrice
		}
		if req.MaxPrice != nil {
			hi = *req.MaxPrice
		}
		f.SetPriceRange(lo, hi)
	}
	if req.InStock != nil {
		f.SetInStock(*req.InStock)
	}
	if req.Sort != nil {
		_ = f.SetSort(*req.Sort)
	}
	if req.Flush {
		f.Flush()
	}

	writeData(w, http.StatusOK, newFilterView(f))
}

func (h *FilterHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	s.Filter.Reset()
	writeData(w, http.StatusOK, newFilterView(s.Filter))
}

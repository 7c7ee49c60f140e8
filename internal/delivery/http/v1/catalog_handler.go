package v1

import (
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/utils"
)

type CatalogHandler struct {
	sessions SessionProvider
	pageSize int
}

func NewCatalogHandler(sessions SessionProvider, pageSize int) *CatalogHandler {
	return &CatalogHandler{sessions: sessions, pageSize: pageSize}
}

// ListCatalog scrolls the session feed to ?page= using the debounced filters.
// Live filter edits that have not settled do not affect the result.
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	category := r.PathValue("category")
	if category == "" {
		utils.WriteError(w, http.StatusBadRequest, "Category required")
		return
	}
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)

	view, err := s.Feed.Fetch(r.Context(), category, s.Filter.Debounced(), page)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    view,
		Meta: &domain.Pagination{
			Page:       view.Page,
			Limit:      h.pageSize,
			TotalItems: view.Total,
			TotalPages: view.TotalPages,
		},
	})
}

package v1

import (
	"net/http"

	"storefront-bff/internal/domain"
)

type SearchHandler struct {
	searchUC domain.SearchUsecase
}

func NewSearchHandler(searchUC domain.SearchUsecase) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
	}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.searchUC.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, products)
}

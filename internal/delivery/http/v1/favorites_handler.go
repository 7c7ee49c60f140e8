package v1

import (
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/store"
	"storefront-bff/internal/usecase"
	"storefront-bff/pkg/utils"
)

type FavoritesHandler struct {
	sessions  SessionProvider
	productUC *usecase.ProductUsecase
}

func NewFavoritesHandler(sessions SessionProvider, productUC *usecase.ProductUsecase) *FavoritesHandler {
	return &FavoritesHandler{sessions: sessions, productUC: productUC}
}

type favoritesView struct {
	Products []domain.ProductSnapshot `json:"products"`
	IDs      []string                 `json:"ids"`
	Count    int                      `json:"count"`
}

func newFavoritesView(f *store.Favorites) favoritesView {
	products := f.Products()
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return favoritesView{Products: products, IDs: ids, Count: len(products)}
}

func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, newFavoritesView(s.Favorites))
}

func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, ok := resolveProduct(w, r, h.productUC, req)
	if !ok {
		return
	}
	s.Favorites.Add(r.Context(), product)
	writeData(w, http.StatusOK, newFavoritesView(s.Favorites))
}

func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Removing needs only the ID, so the backend is asked for a snapshot
	// only when the product is being added.
	id := req.ProductID
	if req.Product != nil && req.Product.ID != "" {
		id = req.Product.ID
	}
	favorite := false
	if !s.Favorites.Remove(r.Context(), id) {
		product, ok := resolveProduct(w, r, h.productUC, req)
		if !ok {
			return
		}
		s.Favorites.Add(r.Context(), product)
		favorite = true
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    newFavoritesView(s.Favorites),
		Meta:    map[string]bool{"favorite": favorite},
	})
}

func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	productID := r.PathValue("productId")
	if productID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product ID required")
		return
	}
	s.Favorites.Remove(r.Context(), productID)
	writeData(w, http.StatusOK, newFavoritesView(s.Favorites))
}

func (h *FavoritesHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	s.Favorites.Clear(r.Context())
	writeData(w, http.StatusOK, newFavoritesView(s.Favorites))
}

package v1

import (
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/store"
	"storefront-bff/internal/usecase"
	"storefront-bff/pkg/utils"
)

type CartHandler struct {
	sessions        SessionProvider
	productUC       *usecase.ProductUsecase
	maxCartQuantity int
}

func NewCartHandler(sessions SessionProvider, productUC *usecase.ProductUsecase, maxCartQuantity int) *CartHandler {
	return &CartHandler{
		sessions:        sessions,
		productUC:       productUC,
		maxCartQuantity: maxCartQuantity,
	}
}

type cartLineView struct {
	domain.CartLine
	Subtotal     float64 `json:"subtotal"`
	AtStockLimit bool    `json:"atStockLimit"`
}

type cartView struct {
	Items      []cartLineView `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPrice float64        `json:"totalPrice"`
}

func newCartView(c *store.Cart) cartView {
	lines := c.Lines()
	view := cartView{Items: make([]cartLineView, 0, len(lines))}
	for _, l := range lines {
		view.Items = append(view.Items, cartLineView{
			CartLine:     l,
			Subtotal:     l.Subtotal(),
			AtStockLimit: l.AtStockLimit(),
		})
		view.TotalItems += l.Quantity
	}
	view.TotalPrice = store.LinesTotal(lines)
	return view
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, newCartView(s.Cart))
}

// productRequest carries either a full snapshot or only the product ID.
type productRequest struct {
	Product   *domain.ProductSnapshot `json:"product"`
	ProductID string                  `json:"productId"`
}

type addToCartReq struct {
	Product   *domain.ProductSnapshot `json:"product"`
	ProductID string                  `json:"productId"`
	Quantity  *int                    `json:"quantity"`
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	var req addToCartReq
	if !decodeJSON(w, r, &req) {
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	product, ok := resolveProduct(w, r, h.productUC, productRequest{Product: req.Product, ProductID: req.ProductID})
	if !ok {
		return
	}
	if s.Cart.Quantity(product.ID)+qty > h.maxCartQuantity {
		utils.WriteError(w, http.StatusBadRequest, "Quantity exceeds maximum limit")
		return
	}

	if err := s.Cart.AddItem(r.Context(), product, qty); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newCartView(s.Cart))
}

func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product ID required")
		return
	}
	if req.Quantity > h.maxCartQuantity {
		utils.WriteError(w, http.StatusBadRequest, "Quantity exceeds maximum limit")
		return
	}

	s.Cart.UpdateQuantity(r.Context(), req.ProductID, req.Quantity)
	writeData(w, http.StatusOK, newCartView(s.Cart))
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	productID := r.PathValue("productId")
	if productID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product ID required")
		return
	}
	s.Cart.RemoveItem(r.Context(), productID)
	writeData(w, http.StatusOK, newCartView(s.Cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	s.Cart.Clear(r.Context())
	writeData(w, http.StatusOK, newCartView(s.Cart))
}

func resolveProduct(w http.ResponseWriter, r *http.Request, productUC *usecase.ProductUsecase, req productRequest) (domain.ProductSnapshot, bool) {
	if req.Product != nil && req.Product.ID != "" {
		return *req.Product, true
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product ID required")
		return domain.ProductSnapshot{}, false
	}
	snap, err := productUC.Snapshot(r.Context(), req.ProductID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return domain.ProductSnapshot{}, false
	}
	return snap, true
}

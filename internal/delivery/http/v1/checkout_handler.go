package v1

import (
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/usecase"
)

type CheckoutHandler struct {
	sessions   SessionProvider
	checkoutUC *usecase.CheckoutUsecase
}

func NewCheckoutHandler(sessions SessionProvider, checkoutUC *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, checkoutUC: checkoutUC}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	var customer domain.CustomerInfo
	if !decodeJSON(w, r, &customer) {
		return
	}

	confirmation, err := h.checkoutUC.Checkout(r.Context(), s.Cart, customer)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, confirmation)
}

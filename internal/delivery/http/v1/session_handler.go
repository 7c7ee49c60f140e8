package v1

import (
	"context"
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/utils"
)

// SessionResetter clears everything a shopper session holds.
type SessionResetter interface {
	Reset(ctx context.Context, id string) error
}

type SessionHandler struct {
	sessions SessionResetter
}

func NewSessionHandler(sessions SessionResetter) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.SessionIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: no session")
		return
	}
	if err := h.sessions.Reset(r.Context(), id); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "session reset"})
}

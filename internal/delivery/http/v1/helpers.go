package v1

import (
	"context"
	"errors"
	"net/http"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/usecase"
	"storefront-bff/pkg/logger"
	"storefront-bff/pkg/utils"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// SessionProvider resolves the shopper session for a request.
type SessionProvider interface {
	Get(ctx context.Context, id string) (*usecase.Session, error)
}

func currentSession(w http.ResponseWriter, r *http.Request, sessions SessionProvider) (*usecase.Session, bool) {
	id, ok := domain.SessionIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: no session")
		return nil, false
	}
	s, err := sessions.Get(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, r, err)
		return nil, false
	}
	return s, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	return true
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSON(w, status, domain.Response{Success: true, Data: data})
}

// writeUsecaseError maps domain errors to HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidSort),
		errors.Is(err, domain.ErrInvalidCustomer),
		errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrBackendUnhealthy):
		status = http.StatusBadGateway
	}

	event := logger.WithContext(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.WithContext(r.Context()).Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request failed")

	utils.WriteError(w, status, err.Error())
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"storefront-bff/internal/domain"
	"storefront-bff/pkg/logger"
	"storefront-bff/pkg/utils"
)

// NewSessionMiddleware puts the shopper session ID in the request context.
// Requests without a valid session token get a new session and a cookie
// carrying its token.
func NewSessionMiddleware(ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := utils.ExtractSessionID(r)
			if err != nil {
				sessionID = utils.GenerateUUID()
				token, err := utils.GenerateSessionToken(sessionID, ttl)
				if err != nil {
					logger.WithContext(r.Context()).Error().Err(err).Msg("Failed to sign session token")
					utils.WriteError(w, http.StatusInternalServerError, "Failed to start session")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     utils.SessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			reqLogger := logger.WithSessionID(*logger.WithContext(r.Context()), sessionID)
			ctx := logger.NewContext(r.Context(), &reqLogger)
			ctx = context.WithValue(ctx, domain.SessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

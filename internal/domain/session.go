package domain

type ContextKey string

// SessionContextKey holds the shopper session id set by the session middleware.
const SessionContextKey ContextKey = "session"

// SessionIDFromContext returns the session id stored by the session middleware.
func SessionIDFromContext(ctx interface{ Value(any) any }) (string, bool) {
	id, ok := ctx.Value(SessionContextKey).(string)
	return id, ok && id != ""
}

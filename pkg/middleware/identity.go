package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/utafrali/ReviewDeskGo/pkg/logger"
)

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// UserIDHeader is the header carrying the identity the upstream gateway
// resolved for the request. Session management happens upstream; this
// service only attributes operations to the given user.
const UserIDHeader = "X-User-ID"

// Identity extracts the user ID header into the request context and the
// logging context. Requests without the header pass through anonymously.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(UserIDHeader); id != "" {
			ctx := context.WithValue(r.Context(), userIDKey, id)
			ctx = logger.WithUserID(ctx, id)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests that carry no resolved user identity.
// Mutating routes use it so every write is attributable.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			writeIdentityError(w, "missing user identity")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

func writeIdentityError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}

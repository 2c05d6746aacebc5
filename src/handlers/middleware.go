package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hugodemenez/deltalytix/backend/src/utils"
)

type contextKey string

const userIDKey = contextKey("userID")

// UserMiddleware resolves the acting user from the X-User-ID header set by
// the authenticating reverse proxy. Authentication itself happens upstream;
// this service only needs a stable user identity to scope data by.
func UserMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			utils.SendJSONError(w, "missing X-User-ID header", http.StatusUnauthorized)
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			utils.SendJSONError(w, "invalid X-User-ID header", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user set by UserMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

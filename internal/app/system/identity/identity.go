// internal/app/system/identity/identity.go
//
// Caller identity for the JSON API. Authentication itself lives upstream
// (gateway / session service); by the time a request reaches this service
// the authenticated user ID arrives in the X-User-ID header, which the
// deployment must only accept from the trusted proxy.
package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// HeaderUserID is the trusted upstream header carrying the caller's user ID.
const HeaderUserID = "X-User-ID"

// Middleware extracts the caller ID into the request context. Requests
// without one still pass through; handlers that require identity use
// RequireUser instead.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(HeaderUserID)); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests that carry no caller identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error": map[string]string{
					"kind":    "unauthenticated",
					"message": "caller identity missing",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the caller's user ID from the request context.
func UserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// WithUserID returns a request whose context carries the given caller ID.
// Test helper mirror of what Middleware does.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID))
}

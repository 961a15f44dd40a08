package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
)

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewUserRequest creates an HTTP request carrying a caller identity, the way
// the identity middleware would have left it.
func NewUserRequest(method, target, userID string) *http.Request {
	return identity.WithUserID(httptest.NewRequest(method, target, nil), userID)
}

// NewUserRequestBody is NewUserRequest with a request body.
func NewUserRequestBody(method, target, userID string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	r.Header.Set("Content-Type", "application/json")
	return identity.WithUserID(r, userID)
}

package identity_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
)

func TestMiddlewareExtractsHeader(t *testing.T) {
	var gotID string
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = identity.UserID(r)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(identity.HeaderUserID, "  alice  ")
	identity.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK || gotID != "alice" {
		t.Errorf("UserID: got (%q, %v), want (alice, true)", gotID, gotOK)
	}
}

func TestMiddlewarePassesThroughWithoutHeader(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := identity.UserID(r); ok {
			t.Error("UserID should report absent identity")
		}
	})

	identity.Middleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Error("next handler not called")
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	rec := httptest.NewRecorder()
	identity.RequireUser(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parsing body: %v", err)
	}
	if body.Success || body.Error.Kind != "unauthenticated" {
		t.Errorf("body: got %+v, want unauthenticated error", body)
	}
}

func TestRequireUserAllowsAuthenticated(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := identity.WithUserID(httptest.NewRequest("GET", "/", nil), "alice")
	identity.RequireUser(next).ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("next handler not called for authenticated request")
	}
}

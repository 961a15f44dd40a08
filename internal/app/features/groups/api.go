// internal/app/features/groups/api.go
package groups

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/membership"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Every endpoint answers with the same envelope:
//
//	{ "success": true,  "data": ... }
//	{ "success": false, "error": { "kind": "...", "message": "..." } }
//
// Kinds are the stable identifiers from the membership error taxonomy.

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Kind: kind, Message: err.Error()},
	})
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Kind: "bad_request", Message: message},
	})
}

func statusFor(err error) (int, string) {
	kind := membership.Kind(err)
	switch {
	case errors.Is(err, membership.ErrGroupNotFound):
		return http.StatusNotFound, kind
	case errors.Is(err, membership.ErrNotAuthorized):
		return http.StatusForbidden, kind
	case errors.Is(err, membership.ErrInvalidState),
		errors.Is(err, membership.ErrConcurrentModification),
		errors.Is(err, membership.ErrLastAdminProtected):
		return http.StatusConflict, kind
	case errors.Is(err, membership.ErrRateLimited):
		return http.StatusTooManyRequests, kind
	case errors.Is(err, membership.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, kind
	case errors.Is(err, groupstore.ErrDuplicateGroupName):
		return http.StatusConflict, "duplicate_group_name"
	case errors.Is(err, groupstore.ErrNotFound):
		return http.StatusNotFound, "group_not_found"
	default:
		return http.StatusInternalServerError, kind
	}
}

// errNotAdmin wraps the taxonomy error with the action that was refused.
func errNotAdmin(action string) error {
	return fmt.Errorf("%w: %s requires admin", membership.ErrNotAuthorized, action)
}

// groupID parses the {id} URL parameter.
func groupID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

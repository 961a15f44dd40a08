// internal/app/features/groups/members.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleRemoveMember removes another user from the group. Admin only; the
// sole admin cannot be removed.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.RemoveMember(ctx, id, userID, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// HandlePromote raises a member to admin. Admin only; promoting an admin is
// a no-op.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.Promote(ctx, id, userID, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// internal/app/features/groups/requests.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServePendingRequests lists the group's open join requests, oldest first.
// Admin only.
func (h *Handler) ServePendingRequests(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pending, err := h.Manager.PendingRequests(ctx, id, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, pending)
}

// HandleApprove turns a pending request into membership. Admin only;
// approving an already-approved request is a no-op.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.Approve(ctx, id, userID, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// HandleReject resolves a pending request without granting membership.
// Admin only; rejecting an already-rejected request is a no-op.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.Reject(ctx, id, userID, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

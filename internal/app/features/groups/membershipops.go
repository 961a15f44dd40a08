// internal/app/features/groups/membershipops.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
)

// HandleJoin joins the caller to a public group. Re-joining is a no-op.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.JoinPublic(ctx, id, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// HandleLeave removes the caller's own membership. Leaving a group the
// caller is not in is a no-op.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.Leave(ctx, id, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// HandleRequestJoin files the caller's join request for a gated group.
func (h *Handler) HandleRequestJoin(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.RequestJoin(ctx, id, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// HandleCancelRequest withdraws the caller's own pending request.
func (h *Handler) HandleCancelRequest(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Manager.CancelRequest(ctx, id, callerID, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

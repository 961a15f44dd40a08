// internal/app/features/groups/mygroups.go
package groups

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
)

// ServeMyGroups lists the groups the caller belongs to, resolved through
// the user_groups index and hydrated from the group documents. An index
// entry whose group has vanished is skipped rather than surfaced.
func (h *Handler) ServeMyGroups(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := h.UserGroups.ListByUser(ctx, callerID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	views := make([]groupView, 0, len(ids))
	for _, id := range ids {
		g, err := h.Groups.GetByID(ctx, id)
		if err != nil {
			continue
		}
		views = append(views, viewOf(&g, callerID))
	}
	h.writeData(w, http.StatusOK, views)
}

// ServeMyNotifications returns the caller's newest notification events.
// ?limit= caps the page (default 50).
func (h *Handler) ServeMyNotifications(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)

	var limit int64
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.ParseInt(q, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Notifications.ListByRecipient(ctx, callerID, limit)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, events)
}

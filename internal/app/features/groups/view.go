// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/dalemusser/grouphub/internal/domain/models"
)

// groupView is the outward shape of a group. The requests ledger and the
// full members map stay internal; callers learn their own state and the
// public aggregates.
type groupView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Privacy     string    `json:"privacy"`
	CreatorID   string    `json:"creator_id"`
	Admins      []string  `json:"admins"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`

	CallerState string `json:"caller_state"`
	CallerRole  string `json:"caller_role,omitempty"`
}

func viewOf(g *models.Group, callerID string) groupView {
	v := groupView{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		Category:    g.Category,
		Privacy:     g.Privacy,
		CreatorID:   g.CreatorID,
		Admins:      g.Admins,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
	}
	if m, ok := g.Members[callerID]; ok {
		v.CallerState = "member"
		v.CallerRole = m.Role
	} else if req, ok := g.Requests[callerID]; ok && req.Status == models.RequestPending {
		v.CallerState = "pending"
	} else {
		v.CallerState = "not_member"
	}
	return v
}

// ServeGroup returns one group with the caller's membership state folded in.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, viewOf(&g, callerID))
}

// ServeMembershipState reports the caller's state for a group, or another
// user's when ?user_id= is given.
func (h *Handler) ServeMembershipState(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}
	subjectID := callerID
	if q := r.URL.Query().Get("user_id"); q != "" {
		subjectID = q
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	state, err := h.Manager.MembershipState(ctx, id, subjectID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, state)
}

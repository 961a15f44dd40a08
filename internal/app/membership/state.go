// internal/app/membership/state.go
package membership

import (
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
)

// Membership states for a (group, user) pair. Rejected and cancelled
// requests are terminal ledger records; the pair itself resolves back to
// not_member.
const (
	StateNotMember = "not_member"
	StatePending   = "pending"
	StateMember    = "member"
)

// State describes one user's current position in a group's lifecycle.
type State struct {
	State   string              `json:"state"`
	Role    string              `json:"role,omitempty"`
	Request *models.JoinRequest `json:"request,omitempty"`
}

// PendingRequest is one open join request, as returned by PendingRequests.
type PendingRequest struct {
	UserID      string    `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// stateOf derives the membership state from a group record.
func stateOf(g *models.Group, userID string) State {
	if m, ok := g.Members[userID]; ok {
		return State{State: StateMember, Role: m.Role}
	}
	if req, ok := g.Requests[userID]; ok {
		r := req
		if req.Status == models.RequestPending {
			return State{State: StatePending, Request: &r}
		}
		return State{State: StateNotMember, Request: &r}
	}
	return State{State: StateNotMember}
}

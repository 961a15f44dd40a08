// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Privacy levels for a group.
//
//   - public: anyone may join immediately.
//   - private / restricted: joining requires an admin-approved request.
const (
	PrivacyPublic     = "public"
	PrivacyPrivate    = "private"
	PrivacyRestricted = "restricted"
)

// Member roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Group is the single authoritative record for a community group.
//
// NOTE:
//   - Members and join requests are embedded on the group document so that
//     every membership mutation is one atomic document write.
//   - MemberCount is a denormalized cache of len(Members); it is recomputed
//     inside the same write that mutates Members and must never drift.
//   - Version is the optimistic-lock counter used by the store's Transact.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Privacy     string             `bson:"privacy" json:"privacy"`

	CreatorID string   `bson:"creator_id" json:"creator_id"`
	Admins    []string `bson:"admins" json:"admins"`

	Members     map[string]Member      `bson:"members" json:"members"`
	MemberCount int                    `bson:"member_count" json:"member_count"`
	Requests    map[string]JoinRequest `bson:"requests" json:"requests"`

	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Member is one entry in Group.Members, keyed by user ID.
type Member struct {
	Role     string    `bson:"role" json:"role"` // "member" | "admin"
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// IsMember reports whether the user currently belongs to the group.
func (g *Group) IsMember(userID string) bool {
	_, ok := g.Members[userID]
	return ok
}

// IsAdmin reports whether the user is in the group's admin set.
func (g *Group) IsAdmin(userID string) bool {
	for _, id := range g.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// IsSoleAdmin reports whether the user is the only remaining admin.
// The last admin cannot leave or be removed.
func (g *Group) IsSoleAdmin(userID string) bool {
	return len(g.Admins) == 1 && g.Admins[0] == userID
}

// PendingRequest returns the user's join request if one exists in the
// pending state.
func (g *Group) PendingRequest(userID string) (JoinRequest, bool) {
	req, ok := g.Requests[userID]
	if !ok || req.Status != RequestPending {
		return JoinRequest{}, false
	}
	return req, true
}

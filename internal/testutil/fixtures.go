package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewGroup builds a group record with the creator as its sole admin member,
// in the same shape the store writes. It does not persist anything.
func NewGroup(name, privacy, creatorID string) models.Group {
	now := time.Now().UTC()
	return models.Group{
		ID:      primitive.NewObjectID(),
		Name:    name,
		NameCI:  text.Fold(name),
		Privacy: privacy,

		CreatorID: creatorID,
		Admins:    []string{creatorID},
		Members: map[string]models.Member{
			creatorID: {Role: models.RoleAdmin, JoinedAt: now},
		},
		MemberCount: 1,
		Requests:    map[string]models.JoinRequest{},

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMember puts the user into the group as a plain member.
func AddMember(g *models.Group, userID string) {
	g.Members[userID] = models.Member{Role: models.RoleMember, JoinedAt: time.Now().UTC()}
	g.MemberCount = len(g.Members)
}

// AddPendingRequest files a pending join request for the user at the given
// time.
func AddPendingRequest(g *models.Group, userID string, at time.Time) {
	g.Requests[userID] = models.JoinRequest{Status: models.RequestPending, RequestedAt: at}
}

// MustObjectID parses a hex ObjectID, failing the test on bad input.
func MustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad ObjectID %q: %v", hex, err)
	}
	return id
}

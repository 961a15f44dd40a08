// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/dalemusser/grouphub/internal/domain/models"
)

// The engine's authorization surface is deliberately small: the only policy
// question it answers is "is this actor an admin of this group". Admins are
// embedded on the group document, so these checks need no extra reads.

// CanManage reports whether the actor may approve/reject requests, remove
// members, promote, or delete the group.
func CanManage(g *models.Group, actorID string) bool {
	return g.IsAdmin(actorID)
}

// CanViewRequests reports whether the actor may list the group's pending
// join requests. Same rule as managing; a separate name so call sites read
// as the policy they enforce.
func CanViewRequests(g *models.Group, actorID string) bool {
	return g.IsAdmin(actorID)
}

// internal/app/features/groups/handler.go
package groups

import (
	"github.com/dalemusser/grouphub/internal/app/membership"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/app/store/notifications"
	usergroupstore "github.com/dalemusser/grouphub/internal/app/store/usergroups"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature. The
// mutating endpoints all go through the membership manager; the stores are
// used directly only for reads and for group create/delete.
type Handler struct {
	Manager       *membership.Manager
	Groups        *groupstore.Store
	UserGroups    *usergroupstore.Store
	Notifications *notifications.Store
	Log           *zap.Logger
}

// NewHandler constructs the groups Handler. It is called from the bootstrap
// BuildHandler function, where the stores and manager are already wired.
func NewHandler(mgr *membership.Manager, groups *groupstore.Store, userGroups *usergroupstore.Store, notes *notifications.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Manager:       mgr,
		Groups:        groups,
		UserGroups:    userGroups,
		Notifications: notes,
		Log:           logger,
	}
}

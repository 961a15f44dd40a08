// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Every group endpoint acts on behalf of a caller.
	r.Group(func(pr chi.Router) {
		pr.Use(identity.RequireUser)

		// CREATE / READ / DELETE
		pr.Post("/", h.HandleCreateGroup)
		pr.Get("/{id}", h.ServeGroup)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		// SELF-SERVICE MEMBERSHIP
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)
		pr.Post("/{id}/request", h.HandleRequestJoin)
		pr.Post("/{id}/request/cancel", h.HandleCancelRequest)
		pr.Get("/{id}/membership", h.ServeMembershipState)

		// ADMIN: REQUEST TRIAGE
		pr.Get("/{id}/requests", h.ServePendingRequests)
		pr.Post("/{id}/requests/{userID}/approve", h.HandleApprove)
		pr.Post("/{id}/requests/{userID}/reject", h.HandleReject)

		// ADMIN: MEMBER MANAGEMENT
		pr.Post("/{id}/members/{userID}/remove", h.HandleRemoveMember)
		pr.Post("/{id}/members/{userID}/promote", h.HandlePromote)
	})

	return r
}

// MeRoutes serves the caller-scoped reads ("my groups", "my notifications").
// Mounted under /me.
func MeRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(identity.RequireUser)

		pr.Get("/groups", h.ServeMyGroups)
		pr.Get("/notifications", h.ServeMyNotifications)
	})

	return r
}

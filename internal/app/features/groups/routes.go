// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, authSvc *auth.Service) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires a bearer token
	r.Group(func(pr chi.Router) {
		pr.Use(authSvc.RequireBearer)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// LIST (groups a principal belongs to)
		pr.Get("/user/{principalId}", h.ServeUserGroups)

		// VIEW
		pr.Get("/{id}", h.ServeGroup)

		// MEMBERSHIP
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)

		// MANAGE (owner only)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile endpoints. All of them need a bearer token.
func Routes(h *Handler, authSvc *auth.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(authSvc.RequireBearer)

	r.Post("/", h.HandleUpsert)
	r.Get("/{principalId}", h.ServeUser)
	r.Put("/{principalId}", h.HandleUpdate)
	return r
}

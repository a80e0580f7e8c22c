// internal/app/features/resources/routes.go
package resources

import (
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the resource endpoints behind the bearer middleware.
// uploadLimit, when non-nil, wraps only the upload endpoint.
func Routes(h *Handler, authSvc *auth.Service, uploadLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(authSvc.RequireBearer)

		// UPLOAD (file bytes to object storage)
		pr.Group(func(up chi.Router) {
			if uploadLimit != nil {
				up.Use(uploadLimit)
			}
			up.Post("/upload", h.HandleUpload)
		})

		// CREATE (metadata record)
		pr.Post("/", h.HandleCreate)

		// LISTS
		pr.Get("/", h.ServeList)
		pr.Get("/user/{principalId}", h.ServeUserResources)
		pr.Get("/group/{groupId}", h.ServeGroupResources)

		// VIEW
		pr.Get("/{id}", h.ServeResource)

		// DELETE (uploader only)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

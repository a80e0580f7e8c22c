// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, authSvc *auth.Service) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(authSvc.RequireBearer)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// LISTS
		pr.Get("/user/{principalId}", h.ServeUserTasks)
		pr.Get("/user/{principalId}/overdue", h.ServeOverdue)
		pr.Get("/user/{principalId}/upcoming", h.ServeUpcoming)
		pr.Get("/user/{principalId}/progress", h.ServeProgress)
		pr.Get("/group/{groupId}", h.ServeGroupTasks)

		// VIEW
		pr.Get("/{id}", h.ServeTask)

		// EDIT
		pr.Patch("/{id}/toggle", h.HandleToggle)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/assignees", h.HandleAddAssignee)
		pr.Delete("/{id}/assignees/{principalId}", h.HandleRemoveAssignee)

		// DELETE (creator only)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

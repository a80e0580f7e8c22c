// internal/app/features/tasks/tasklist.go
package tasks

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

const (
	defaultUpcomingLimit = 5
	maxUpcomingLimit     = 100
)

func principalParam(r *http.Request) models.PrincipalID {
	return models.PrincipalID(chi.URLParam(r, "principalId"))
}

// ServeUserTasks lists tasks assigned to principalId, earliest due first.
func (h *Handler) ServeUserTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.ListByAssignee(ctx, principalParam(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, tasks)
}

// ServeOverdue lists principalId's unfinished tasks whose due date has passed.
func (h *Handler) ServeOverdue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.ListOverdue(ctx, principalParam(r), h.now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list overdue tasks failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, tasks)
}

// ServeUpcoming lists principalId's next unfinished tasks. ?limit=N caps the
// count (default 5, at most 100).
func (h *Handler) ServeUpcoming(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultUpcomingLimit)
	if raw := normalize.QueryParam(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > maxUpcomingLimit {
			apierrors.Validation(w, "limit", "limit must be a number between 1 and 100")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.ListUpcoming(ctx, principalParam(r), h.now(), limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list upcoming tasks failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, tasks)
}

// ServeProgress summarizes completion of principalId's tasks.
func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	progress, err := h.Tasks.ProgressFor(ctx, principalParam(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "task progress failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, progress)
}

// ServeGroupTasks lists a group's tasks, earliest due first.
func (h *Handler) ServeGroupTasks(w http.ResponseWriter, r *http.Request) {
	groupID, err := formutil.ObjectIDParam(r, "groupId")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.ListByGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list group tasks failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, tasks)
}

// ServeTask returns one task.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get task failed", err, "Task")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, t)
}

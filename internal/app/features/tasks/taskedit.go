// internal/app/features/tasks/taskedit.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/policy/taskpolicy"
	taskstore "github.com/dalemusser/educollab/internal/app/store/tasks"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"go.uber.org/zap"
)

// loadForChange resolves the path task, checks decide against it and returns
// it. On failure the response has been written and ok is false.
func (h *Handler) loadForChange(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	decide func(models.Principal, models.Task) authz.Decision,
) (p models.Principal, t models.Task, ok bool) {
	p, ok = auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return p, t, false
	}
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		apierrors.Invalid(w, err)
		return p, t, false
	}
	t, err = h.Tasks.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get task failed", err, "Task")
		return p, t, false
	}
	if d := decide(p, t); !d.Allowed {
		apierrors.Denied(w, d)
		return p, t, false
	}
	return p, t, true
}

type updateInput struct {
	Title       *string `json:"title" validate:"omitempty,max=200" label:"Title"`
	Description *string `json:"description" validate:"omitempty,max=5000" label:"Description"`
	Subject     *string `json:"subject" validate:"omitempty,max=100" label:"Subject"`
	DueDate     *string `json:"dueDate" label:"Due date"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high" label:"Priority"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed" label:"Status"`
}

// patch normalizes in into a store patch. Blank title, due date, priority
// and status keep the stored values.
func (in *updateInput) patch() (taskstore.Patch, error) {
	var p taskstore.Patch
	if in.Title != nil {
		if v := normalize.Name(*in.Title); v != "" {
			p.Title = &v
		}
	}
	if in.Description != nil {
		v := normalize.PlainText(*in.Description)
		p.Description = &v
	}
	if in.Subject != nil {
		if v := normalize.Subject(*in.Subject); v != "" {
			p.Subject = &v
		}
	}
	if in.DueDate != nil && normalize.QueryParam(*in.DueDate) != "" {
		due, err := formutil.ParseDue("dueDate", *in.DueDate)
		if err != nil {
			return p, err
		}
		p.DueAt = &due
	}
	if in.Priority != nil && *in.Priority != "" {
		p.Priority = in.Priority
	}
	if in.Status != nil && *in.Status != "" {
		p.Status = in.Status
	}
	return p, nil
}

func (in *updateInput) normalizeEnums() {
	if in.Priority != nil {
		v := normalize.Enum(*in.Priority)
		in.Priority = &v
	}
	if in.Status != nil {
		v := normalize.Enum(*in.Status)
		in.Status = &v
	}
}

// HandleUpdate changes task fields, including status.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := formutil.DecodeJSON(r, &in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	in.normalizeEnums()
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	patch, err := in.patch()
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, t, ok := h.loadForChange(ctx, w, r, h.Policy.CanMutate)
	if !ok {
		return
	}
	t, err = h.Tasks.Update(ctx, t.ID, patch)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "update task failed", err, "Task")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, t)
}

// HandleToggle flips a task between pending and completed.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, t, ok := h.loadForChange(ctx, w, r, h.Policy.CanMutate)
	if !ok {
		return
	}
	t, err := h.Tasks.Toggle(ctx, t.ID)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "toggle task failed", err, "Task")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, t)
}

type assigneeInput struct {
	PrincipalID string `json:"principalId" validate:"required,max=128" label:"Principal id"`
}

// HandleAddAssignee assigns another principal to the task.
func (h *Handler) HandleAddAssignee(w http.ResponseWriter, r *http.Request) {
	var in assigneeInput
	if err := formutil.DecodeJSON(r, &in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	in.PrincipalID = normalize.QueryParam(in.PrincipalID)
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, t, ok := h.loadForChange(ctx, w, r, h.Policy.CanMutate)
	if !ok {
		return
	}
	t, err := h.Tasks.AddAssignee(ctx, t.ID, models.PrincipalID(in.PrincipalID))
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "add assignee failed", err, "Task")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, t)
}

// HandleRemoveAssignee unassigns principalId from the task.
func (h *Handler) HandleRemoveAssignee(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, t, ok := h.loadForChange(ctx, w, r, h.Policy.CanMutate)
	if !ok {
		return
	}
	t, err := h.Tasks.RemoveAssignee(ctx, t.ID, principalParam(r))
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "remove assignee failed", err, "Task")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, t)
}

// HandleDelete removes a task. Only its creator may.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, t, ok := h.loadForChange(ctx, w, r, taskpolicy.CanDelete)
	if !ok {
		return
	}
	if err := h.Tasks.Delete(ctx, t.ID); err != nil {
		h.ErrLog.LogStoreError(w, r, "delete task failed", err, "Task")
		return
	}
	h.Log.Info("task deleted",
		zap.String("task_id", t.ID.Hex()),
		zap.String("creator_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}


// internal/app/features/tasks/tasknew.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	Title       string   `json:"title" validate:"required,max=200" label:"Title"`
	Description string   `json:"description" validate:"max=5000" label:"Description"`
	Subject     string   `json:"subject" validate:"max=100" label:"Subject"`
	DueDate     string   `json:"dueDate" validate:"required" label:"Due date"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high" label:"Priority"`
	GroupID     string   `json:"groupId"`
	AssigneeIDs []string `json:"assigneeIds" validate:"max=100,dive,required,max=128" label:"Assignees"`
}

// HandleCreate creates a task. The caller is its creator and, when no
// assignees are given, its only assignee. Due dates in the past are accepted.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return
	}

	var in createInput
	if err := formutil.DecodeJSON(r, &in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	in.Title = normalize.Name(in.Title)
	in.Subject = normalize.Subject(in.Subject)
	in.Description = normalize.PlainText(in.Description)
	in.Priority = normalize.Enum(in.Priority)
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	due, err := formutil.ParseDue("dueDate", in.DueDate)
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}
	groupID, err := formutil.OptionalObjectID("groupId", in.GroupID)
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}
	assignees := make([]models.PrincipalID, 0, len(in.AssigneeIDs))
	for _, a := range in.AssigneeIDs {
		assignees = append(assignees, models.PrincipalID(a))
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.Create(ctx, models.Task{
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		DueAt:       due,
		Priority:    in.Priority,
		GroupID:     groupID,
		AssigneeIDs: assignees,
		CreatorID:   p.ID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create task failed", err, apierrors.DatabaseMessage)
		return
	}
	h.Log.Info("task created",
		zap.String("task_id", t.ID.Hex()),
		zap.String("creator_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusCreated, t)
}

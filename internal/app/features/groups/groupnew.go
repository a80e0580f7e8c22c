// internal/app/features/groups/groupnew.go
package groups

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
	Name        string `json:"name" validate:"required,max=200" label:"Group name"`
	Subject     string `json:"subject" validate:"required,max=100" label:"Subject"`
	Description string `json:"description" validate:"max=5000" label:"Description"`
	IsPublic    *bool  `json:"isPublic"`
}

// HandleCreate creates a group owned by the caller, who also becomes its
// first member. isPublic defaults to true.
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
	in.Name = normalize.Name(in.Name)
	in.Subject = normalize.Subject(in.Subject)
	in.Description = normalize.PlainText(in.Description)
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.Create(ctx, models.Group{
		Name:        in.Name,
		Subject:     in.Subject,
		Description: in.Description,
		OwnerID:     p.ID,
		IsPublic:    isPublic,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create group failed", err, apierrors.DatabaseMessage)
		return
	}
	h.Log.Info("group created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("owner_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusCreated, g)
}

// internal/app/features/groups/manage.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/educollab/internal/app/store/groups"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// updateInput carries the fields an owner may change. Absent or blank name
// and subject keep the stored value; description may be cleared.
type updateInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200" label:"Group name"`
	Subject     *string `json:"subject" validate:"omitempty,max=100" label:"Subject"`
	Description *string `json:"description" validate:"omitempty,max=5000" label:"Description"`
	IsPublic    *bool   `json:"isPublic"`
}

func (in *updateInput) patch() groupstore.Patch {
	var p groupstore.Patch
	if in.Name != nil {
		if v := normalize.Name(*in.Name); v != "" {
			p.Name = &v
		}
	}
	if in.Subject != nil {
		if v := normalize.Subject(*in.Subject); v != "" {
			p.Subject = &v
		}
	}
	if in.Description != nil {
		v := normalize.PlainText(*in.Description)
		p.Description = &v
	}
	p.IsPublic = in.IsPublic
	return p
}

// HandleUpdate changes a group's details. Only the owner may.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return
	}
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	var in updateInput
	if err := formutil.DecodeJSON(r, &in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get group (update) failed", err, "Group")
		return
	}
	if d := grouppolicy.CanManage(p, g); !d.Allowed {
		apierrors.Denied(w, d)
		return
	}

	g, err = h.Groups.Update(ctx, id, in.patch())
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "update group failed", err, "Group")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, g)
}

// HandleDelete removes a group. Only the owner may. Tasks and resources
// that point at the group are left alone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return
	}
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get group (delete) failed", err, "Group")
		return
	}
	if d := grouppolicy.CanManage(p, g); !d.Allowed {
		apierrors.Denied(w, d)
		return
	}

	if err := h.Groups.Delete(ctx, id); err != nil {
		h.ErrLog.LogStoreError(w, r, "delete group failed", err, "Group")
		return
	}
	h.Log.Info("group deleted", zap.String("group_id", id.Hex()), zap.String("owner_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}

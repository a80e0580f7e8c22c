// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/educollab/internal/app/store/groups"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleJoin adds the caller to the group's members.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
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
		h.ErrLog.LogStoreError(w, r, "get group (join) failed", err, "Group")
		return
	}
	if d := grouppolicy.CanJoin(p, g); !d.Allowed {
		apierrors.Denied(w, d)
		return
	}

	g, err = h.Groups.AddMember(ctx, id, p.ID)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "join group failed", err, "Group")
		return
	}
	h.Log.Info("group joined", zap.String("group_id", id.Hex()), zap.String("principal_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusOK, g)
}

// HandleLeave removes the caller from the group's members. Leaving a group
// the caller is not in succeeds without change. The owner cannot leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
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
		h.ErrLog.LogStoreError(w, r, "get group (leave) failed", err, "Group")
		return
	}
	if d := grouppolicy.CanLeave(p, g); !d.Allowed {
		apierrors.Denied(w, d)
		return
	}

	g, err = h.Groups.RemoveMember(ctx, id, p.ID)
	if errors.Is(err, groupstore.ErrOwnerMember) {
		apierrors.Denied(w, authz.Deny(authz.OwnerCannotLeave))
		return
	}
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "leave group failed", err, "Group")
		return
	}
	h.Log.Info("group left", zap.String("group_id", id.Hex()), zap.String("principal_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusOK, g)
}

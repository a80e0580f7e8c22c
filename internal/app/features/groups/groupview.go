// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeUserGroups lists the groups principalId belongs to, newest first.
func (h *Handler) ServeUserGroups(w http.ResponseWriter, r *http.Request) {
	pid := models.PrincipalID(chi.URLParam(r, "principalId"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.ListByMember(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, groups)
}

// ServeGroup returns one group.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get group failed", err, "Group")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, g)
}

// internal/app/features/resources/resourcelist.go
package resources

import (
	"context"
	"net/http"

	resourcestore "github.com/dalemusser/educollab/internal/app/store/resources"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeList lists resources, newest first, optionally filtered by
// ?subject= (case-insensitive) and ?groupId=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	groupID, err := formutil.OptionalObjectID("groupId", q.Get("groupId"))
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}
	filter := resourcestore.Filter{
		Subject: normalize.QueryParam(q.Get("subject")),
		GroupID: groupID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Resources.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list resources failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeUserResources lists resources uploaded by principalId.
func (h *Handler) ServeUserResources(w http.ResponseWriter, r *http.Request) {
	pid := models.PrincipalID(chi.URLParam(r, "principalId"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Resources.ListByUploader(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list user resources failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeGroupResources lists resources shared with a group.
func (h *Handler) ServeGroupResources(w http.ResponseWriter, r *http.Request) {
	groupID, err := formutil.ObjectIDParam(r, "groupId")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Resources.ListByGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list group resources failed", err, apierrors.DatabaseMessage)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeResource returns one resource.
func (h *Handler) ServeResource(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Resources.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get resource failed", err, "Resource")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, res)
}

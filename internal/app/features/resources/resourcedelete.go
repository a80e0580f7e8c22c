// internal/app/features/resources/resourcedelete.go
package resources

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/policy/resourcepolicy"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete removes a resource record. Only the uploader may. When the
// record points at a file inside the uploader's own namespace, the file is
// removed afterwards; a failure there is logged and does not fail the request.
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

	res, err := h.Resources.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get resource (delete) failed", err, "Resource")
		return
	}
	if d := resourcepolicy.CanDelete(p, res); !d.Allowed {
		apierrors.Denied(w, d)
		return
	}

	if err := h.Resources.Delete(ctx, id); err != nil {
		h.ErrLog.LogStoreError(w, r, "delete resource failed", err, "Resource")
		return
	}

	switch {
	case h.Files == nil || res.FilePath == "":
	case !filestore.OwnedBy(res.FilePath, res.UploaderID):
		h.Log.Warn("stored file kept: key is outside the uploader's namespace",
			zap.String("resource_id", id.Hex()),
			zap.String("key", res.FilePath))
	default:
		if err := h.Files.Delete(ctx, res.FilePath); err != nil && !errors.Is(err, filestore.ErrNotFound) {
			h.Log.Warn("stored file not removed",
				zap.String("resource_id", id.Hex()),
				zap.String("key", res.FilePath),
				zap.Error(err))
		}
	}

	h.Log.Info("resource deleted",
		zap.String("resource_id", id.Hex()),
		zap.String("uploader_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Resource deleted successfully"})
}

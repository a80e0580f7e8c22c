// internal/app/features/resources/resourcenew.go
package resources

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	FileName    string `json:"fileName" validate:"required,max=255" label:"File name"`
	FileURL     string `json:"fileUrl" validate:"required,url,max=2048" label:"File URL"`
	FilePath    string `json:"filePath" validate:"max=1024" label:"File path"`
	FileSize    int64  `json:"fileSize" validate:"min=0" label:"File size"`
	MimeClass   string `json:"mimeClass" validate:"omitempty,oneof=pdf doc ppt txt image video audio other" label:"File type"`
	Subject     string `json:"subject" validate:"required,max=100" label:"Subject"`
	Description string `json:"description" validate:"max=5000" label:"Description"`
	GroupID     string `json:"groupId"`
}

// HandleCreate records a resource uploaded by the caller.
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
	in.FileName = normalize.Name(in.FileName)
	in.Subject = normalize.Subject(in.Subject)
	in.Description = normalize.PlainText(in.Description)
	in.MimeClass = normalize.Enum(in.MimeClass)
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	// A stored file may only be recorded by the principal who uploaded it;
	// deleting the record later removes the file.
	if in.FilePath != "" && !filestore.OwnedBy(in.FilePath, p.ID) {
		apierrors.Validation(w, "filePath", "File path must come from your own upload")
		return
	}
	groupID, err := formutil.OptionalObjectID("groupId", in.GroupID)
	if err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Resources.Create(ctx, models.Resource{
		FileName:      in.FileName,
		FileURL:       in.FileURL,
		FilePath:      in.FilePath,
		FileSizeBytes: in.FileSize,
		MimeClass:     in.MimeClass,
		Subject:       in.Subject,
		Description:   in.Description,
		GroupID:       groupID,
		UploaderID:    p.ID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create resource failed", err, apierrors.DatabaseMessage)
		return
	}
	h.Log.Info("resource created",
		zap.String("resource_id", res.ID.Hex()),
		zap.String("uploader_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusCreated, res)
}

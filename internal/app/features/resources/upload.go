// internal/app/features/resources/upload.go
package resources

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// uploadResponse mirrors the file fields of a resource so the client can
// pass it straight on to POST /resources.
type uploadResponse struct {
	FileName  string `json:"fileName"`
	FileURL   string `json:"fileUrl"`
	FilePath  string `json:"filePath"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType"`
	MimeClass string `json:"mimeClass"`
}

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

// HandleUpload stores the multipart "file" part in object storage and returns
// where it landed. It does not create a resource record.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if h.Files == nil {
		apierrors.Write(w, http.StatusNotFound, "File uploads are not enabled")
		return
	}
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return
	}

	tooLarge := fmt.Sprintf("File exceeds the %d MB upload limit", h.MaxUpload>>20)
	if r.ContentLength > h.MaxUpload+multipartOverhead {
		apierrors.Write(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			apierrors.Write(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		apierrors.Validation(w, "file", "Request must be multipart/form-data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.Validation(w, "file", "File is required")
		return
	}
	defer file.Close()
	if header.Size > h.MaxUpload {
		apierrors.Write(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	if header.Size == 0 {
		apierrors.Validation(w, "file", "File is empty")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload resource")
	defer cancel()

	obj, err := filestore.Upload(ctx, h.Files, p.ID, header.Filename, file)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store upload failed", err, "The file could not be stored.")
		return
	}
	if h.OnUpload != nil {
		h.OnUpload(obj.Size)
	}
	h.Log.Info("file uploaded",
		zap.String("key", obj.Key),
		zap.Int64("size", obj.Size),
		zap.String("content_type", obj.ContentType),
		zap.String("uploader_id", p.ID.String()))

	apierrors.WriteJSON(w, http.StatusCreated, uploadResponse{
		FileName:  header.Filename,
		FileURL:   obj.URL,
		FilePath:  obj.Key,
		FileSize:  obj.Size,
		FileType:  obj.ContentType,
		MimeClass: obj.MimeClass,
	})
}

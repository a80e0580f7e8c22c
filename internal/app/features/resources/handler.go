// internal/app/features/resources/handler.go
package resources

import (
	resourcestore "github.com/dalemusser/educollab/internal/app/store/resources"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes applies when Options.MaxUploadBytes is zero.
const DefaultMaxUploadBytes = 25 << 20

// Options configures file uploads.
type Options struct {
	// Files receives uploaded bytes. Nil disables POST /resources/upload.
	Files filestore.Store
	// MaxUploadBytes caps a single upload.
	MaxUploadBytes int64
	// OnUpload, when set, is called with the size of every stored upload.
	OnUpload func(n int64)
}

// Handler is the shared dependency container for the resources feature.
type Handler struct {
	Resources *resourcestore.Store
	Files     filestore.Store
	MaxUpload int64
	OnUpload  func(n int64)
	ErrLog    *apierrors.ErrorLogger
	Log       *zap.Logger
}

// NewHandler constructs a resources Handler.
func NewHandler(db *mongo.Database, opts Options, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Handler{
		Resources: resourcestore.New(db),
		Files:     opts.Files,
		MaxUpload: maxUpload,
		OnUpload:  opts.OnUpload,
		ErrLog:    errLog,
		Log:       logger,
	}
}

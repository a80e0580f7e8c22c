// internal/app/features/groups/handler.go
package groups

import (
	groupstore "github.com/dalemusser/educollab/internal/app/store/groups"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// The create, membership and manage handlers all share it.
type Handler struct {
	Groups *groupstore.Store
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a new groups Handler. It is called from the
// bootstrap BuildHandler function, where the database and logger are
// already initialized.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups: groupstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

// internal/app/features/tasks/handler.go
package tasks

import (
	"time"

	"github.com/dalemusser/educollab/internal/app/policy/taskpolicy"
	taskstore "github.com/dalemusser/educollab/internal/app/store/tasks"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the tasks feature.
type Handler struct {
	Tasks  *taskstore.Store
	Policy taskpolicy.Policy
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger

	now func() time.Time
}

// NewHandler constructs a tasks Handler. policy decides who may change
// tasks they did not create.
func NewHandler(db *mongo.Database, policy taskpolicy.Policy, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:  taskstore.New(db),
		Policy: policy,
		ErrLog: errLog,
		Log:    logger,
		now:    time.Now,
	}
}

// SetClock replaces the clock used for overdue and upcoming listings.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

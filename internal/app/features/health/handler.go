// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client   *mongo.Client
	AuthMode auth.Mode
	Log      *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the active
// token verification mode and logger.
func NewHandler(client *mongo.Client, mode auth.Mode, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		AuthMode: mode,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	AuthMode string `json:"authMode"`
	Warning  string `json:"warning,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "authMode":"verified" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		AuthMode: string(h.AuthMode),
	}
	if h.AuthMode == auth.ModeUnverified {
		resp.Warning = "token signatures are not verified"
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		apierrors.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, resp)
}

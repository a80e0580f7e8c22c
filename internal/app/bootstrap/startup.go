// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after the database is connected and the schema ensured,
// before the handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		t := timeouts.Current()
		logger.Info("operation timeouts overridden from environment",
			zap.Duration("ping", t.Ping),
			zap.Duration("short", t.Short),
			zap.Duration("medium", t.Medium),
			zap.Duration("long", t.Long))
	}
	if appCfg.FirebaseProjectID == "" {
		logger.Warn("no firebase_project_id configured; bearer tokens will be decoded without verification")
	}
	return nil
}

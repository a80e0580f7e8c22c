// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"strings"
	"time"

	groupsfeature "github.com/dalemusser/educollab/internal/app/features/groups"
	healthfeature "github.com/dalemusser/educollab/internal/app/features/health"
	resourcesfeature "github.com/dalemusser/educollab/internal/app/features/resources"
	tasksfeature "github.com/dalemusser/educollab/internal/app/features/tasks"
	usersfeature "github.com/dalemusser/educollab/internal/app/features/users"
	"github.com/dalemusser/educollab/internal/app/policy/taskpolicy"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"github.com/dalemusser/educollab/internal/app/system/metrics"
	"github.com/dalemusser/educollab/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for EduCollab.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. It builds the shared services (token verifier,
// upload backend, metrics, upload limiter) once and mounts the feature
// routers on a single chi router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	m := metrics.New()

	authSvc, err := auth.NewService(auth.Config{
		ProjectID:       appCfg.FirebaseProjectID,
		CertsURL:        appCfg.FirebaseCertsURL,
		AllowUnverified: appCfg.AuthAllowUnverified,
	}, logger)
	if err != nil {
		logger.Error("auth service init failed", zap.Error(err))
		return nil, err
	}
	authSvc.OnFailure(m.AuthFailure)

	rule, err := taskpolicy.ParseMutationRule(appCfg.TaskMutationRule)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	files, err := filestore.New(ctx, filestore.Config{
		Type:      appCfg.StorageType,
		LocalPath: appCfg.StorageLocalPath,
		LocalURL:  appCfg.StorageLocalURL,
		S3: filestore.S3Config{
			Region:          appCfg.StorageS3Region,
			Bucket:          appCfg.StorageS3Bucket,
			Prefix:          appCfg.StorageS3Prefix,
			Endpoint:        appCfg.StorageS3Endpoint,
			PublicURL:       appCfg.StorageS3PublicURL,
			AccessKeyID:     appCfg.StorageS3AccessKeyID,
			SecretAccessKey: appCfg.StorageS3SecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("file storage init failed", zap.String("type", appCfg.StorageType), zap.Error(err))
		return nil, err
	}
	if files == nil {
		logger.Info("file uploads disabled", zap.String("storage_type", appCfg.StorageType))
	}

	uploadLimiter := ratelimit.New(appCfg.UploadRateLimit, appCfg.UploadRateWindow)
	deps.Closers.Add(uploadLimiter.Close)

	errLog := apierrors.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(m.Middleware)

	// Health check and metrics sit outside the bearer middleware.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, authSvc.Mode(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Locally stored uploads are served straight from disk.
	if appCfg.StorageType == filestore.TypeLocal {
		prefix := strings.TrimRight(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	db := deps.MongoDatabase

	usersHandler := usersfeature.NewHandler(db, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, authSvc))

	groupsHandler := groupsfeature.NewHandler(db, errLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, authSvc))

	tasksHandler := tasksfeature.NewHandler(db, taskpolicy.New(rule), errLog, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, authSvc))

	resourcesHandler := resourcesfeature.NewHandler(db, resourcesfeature.Options{
		Files:          files,
		MaxUploadBytes: int64(appCfg.UploadMaxMB) << 20,
		OnUpload:       m.UploadedBytes,
	}, errLog, logger)
	r.Mount("/resources", resourcesfeature.Routes(resourcesHandler, authSvc, uploadLimiter.Middleware))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.Write(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.Write(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	logger.Info("handler built",
		zap.String("auth_mode", string(authSvc.Mode())),
		zap.String("task_mutation_rule", string(rule)),
		zap.String("storage_type", appCfg.StorageType))
	return r, nil
}

// accessLog writes one structured line per request.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_ip", r.RemoteAddr))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

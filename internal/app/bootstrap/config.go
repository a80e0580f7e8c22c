// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/educollab/internal/app/policy/taskpolicy"
	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for EduCollab.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, firebase_project_id, etc.
//   - Environment variables: EDUCOLLAB_MONGO_URI, EDUCOLLAB_FIREBASE_PROJECT_ID, etc.
//   - Command-line flags: --mongo_uri, --firebase_project_id, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "educollab", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and server selection timeout"},
	{Name: "mongo_socket_timeout", Default: "45s", Desc: "MongoDB socket timeout"},

	// Token verification
	{Name: "firebase_project_id", Default: "", Desc: "Firebase project id; bearer tokens must be issued for it"},
	{Name: "firebase_certs_url", Default: "", Desc: "Override for the Firebase signing cert endpoint"},
	{Name: "auth_allow_unverified", Default: false, Desc: "Decode tokens without signature checks when no project id is set (dev only)"},

	// Authorization
	{Name: "task_mutation_rule", Default: string(taskpolicy.DefaultMutationRule), Desc: "Who may edit and toggle tasks: 'any_principal' or 'creator_or_assignee'"},

	// Browser clients
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated origins allowed by CORS"},

	// File storage configuration
	{Name: "storage_type", Default: filestore.TypeLocal, Desc: "Upload backend: 'none', 'local', 's3' or 'memory'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3 configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "resources/", Desc: "S3 key prefix"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "Custom endpoint for S3-compatible stores"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Base URL clients use to fetch stored objects"},
	{Name: "storage_s3_access_key_id", Default: "", Desc: "Static S3 access key (blank uses the default chain)"},
	{Name: "storage_s3_secret_access_key", Default: "", Desc: "Static S3 secret key"},

	// Upload limits
	{Name: "upload_max_mb", Default: 25, Desc: "Largest accepted upload in megabytes"},
	{Name: "upload_rate_limit", Default: 30, Desc: "Uploads allowed per client per window"},
	{Name: "upload_rate_window", Default: "1m", Desc: "Upload rate-limit window (e.g. 1m, 1h)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, EDUCOLLAB_* for app) and
// flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EDUCOLLAB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),
		MongoSocketTimeout:  appValues.Duration("mongo_socket_timeout", 45*time.Second),

		FirebaseProjectID:   strings.TrimSpace(appValues.String("firebase_project_id")),
		FirebaseCertsURL:    appValues.String("firebase_certs_url"),
		AuthAllowUnverified: appValues.Bool("auth_allow_unverified"),

		TaskMutationRule: appValues.String("task_mutation_rule"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		// File storage
		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3
		StorageS3Region:          appValues.String("storage_s3_region"),
		StorageS3Bucket:          appValues.String("storage_s3_bucket"),
		StorageS3Prefix:          appValues.String("storage_s3_prefix"),
		StorageS3Endpoint:        appValues.String("storage_s3_endpoint"),
		StorageS3PublicURL:       appValues.String("storage_s3_public_url"),
		StorageS3AccessKeyID:     appValues.String("storage_s3_access_key_id"),
		StorageS3SecretAccessKey: appValues.String("storage_s3_secret_access_key"),

		// Uploads
		UploadMaxMB:      appValues.Int("upload_max_mb"),
		UploadRateLimit:  appValues.Int("upload_rate_limit"),
		UploadRateWindow: appValues.Duration("upload_rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// EduCollab rejects configs that would leave the API without a usable
// token verifier or storage backend, before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return errors.New("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	// A verifier must be selectable: either a project id or an explicit
	// opt-in to unverified decoding.
	if appCfg.FirebaseProjectID == "" && !appCfg.AuthAllowUnverified {
		return errors.New("firebase_project_id is required (or set auth_allow_unverified for local development)")
	}
	if appCfg.FirebaseProjectID == "" && coreCfg != nil && coreCfg.Env == "prod" {
		return errors.New("unverified tokens are not allowed in prod; set firebase_project_id")
	}

	if _, err := taskpolicy.ParseMutationRule(appCfg.TaskMutationRule); err != nil {
		return err
	}

	if err := validateStorage(appCfg); err != nil {
		return err
	}

	if appCfg.UploadMaxMB <= 0 {
		return errors.New("upload_max_mb must be positive")
	}
	if appCfg.UploadRateLimit <= 0 || appCfg.UploadRateWindow <= 0 {
		return errors.New("upload_rate_limit and upload_rate_window must be positive")
	}
	return nil
}

func validateStorage(appCfg AppConfig) error {
	switch appCfg.StorageType {
	case filestore.TypeNone, filestore.TypeMemory:
		return nil
	case filestore.TypeLocal:
		if strings.TrimSpace(appCfg.StorageLocalPath) == "" {
			return errors.New("storage_local_path is required for local storage")
		}
		if !strings.HasPrefix(appCfg.StorageLocalURL, "/") {
			return errors.New("storage_local_url must start with /")
		}
		return nil
	case filestore.TypeS3:
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			return errors.New("storage_s3_bucket and storage_s3_region are required for s3 storage")
		}
		if (appCfg.StorageS3AccessKeyID == "") != (appCfg.StorageS3SecretAccessKey == "") {
			return errors.New("storage_s3_access_key_id and storage_s3_secret_access_key must be set together")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

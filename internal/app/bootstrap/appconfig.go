// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for EduCollab.
//
// Values come from config files, EDUCOLLAB_* environment variables or
// command-line flags (see LoadConfig). WAFFLE's CoreConfig covers the
// framework side: ports, TLS, log level and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // e.g. mongodb://localhost:27017
	MongoDatabase       string        // database name within MongoDB
	MongoMaxPoolSize    uint64        // max connections in the driver pool
	MongoMinPoolSize    uint64        // connections kept warm
	MongoConnectTimeout time.Duration // dial + server selection budget
	MongoSocketTimeout  time.Duration // per-operation socket budget

	// Token verification
	FirebaseProjectID   string // enables verified mode when set
	FirebaseCertsURL    string // override for the signing cert endpoint
	AuthAllowUnverified bool   // dev only: decode tokens without checking signatures

	// Who may edit and toggle a task: "any_principal" or "creator_or_assignee".
	TaskMutationRule string

	// Comma-separated origins for browser clients. "*" allows any.
	CORSAllowedOrigins []string

	// File storage configuration
	StorageType      string // "none", "local", "s3" or "memory"
	StorageLocalPath string // local storage root (e.g. ./uploads)
	StorageLocalURL  string // URL prefix local files are served under (e.g. /files)

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region          string
	StorageS3Bucket          string
	StorageS3Prefix          string // key prefix (e.g. "resources/")
	StorageS3Endpoint        string // custom endpoint for S3-compatible stores
	StorageS3PublicURL       string // base URL clients fetch objects from
	StorageS3AccessKeyID     string // blank uses the default credential chain
	StorageS3SecretAccessKey string

	// Upload limits
	UploadMaxMB      int           // largest accepted upload
	UploadRateLimit  int           // uploads per client per window
	UploadRateWindow time.Duration // rate-limit window
}

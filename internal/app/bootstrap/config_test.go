package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "educollab",
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    10,
		MongoConnectTimeout: 10 * time.Second,
		MongoSocketTimeout:  45 * time.Second,
		FirebaseProjectID:   "study-app",
		TaskMutationRule:    "any_principal",
		CORSAllowedOrigins:  []string{"*"},
		StorageType:         "local",
		StorageLocalPath:    "./uploads",
		StorageLocalURL:     "/files",
		UploadMaxMB:         25,
		UploadRateLimit:     30,
		UploadRateWindow:    time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "bad mongo uri", mutate: func(c *AppConfig) { c.MongoURI = "postgres://x" }, wantErr: "invalid MongoDB URI"},
		{name: "blank database", mutate: func(c *AppConfig) { c.MongoDatabase = " " }, wantErr: "mongo_database"},
		{name: "pool sizes inverted", mutate: func(c *AppConfig) { c.MongoMinPoolSize = 200 }, wantErr: "mongo_min_pool_size"},
		{name: "no verifier", mutate: func(c *AppConfig) { c.FirebaseProjectID = "" }, wantErr: "firebase_project_id"},
		{
			name:   "unverified allowed in dev",
			env:    "dev",
			mutate: func(c *AppConfig) { c.FirebaseProjectID = ""; c.AuthAllowUnverified = true },
		},
		{
			name:    "unverified refused in prod",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.FirebaseProjectID = ""; c.AuthAllowUnverified = true },
			wantErr: "not allowed in prod",
		},
		{name: "unknown mutation rule", mutate: func(c *AppConfig) { c.TaskMutationRule = "owner" }, wantErr: "mutation rule"},
		{name: "empty mutation rule uses default", mutate: func(c *AppConfig) { c.TaskMutationRule = "" }},
		{name: "unknown storage", mutate: func(c *AppConfig) { c.StorageType = "ftp" }, wantErr: "storage_type"},
		{name: "storage none", mutate: func(c *AppConfig) { c.StorageType = "none" }},
		{name: "local without path", mutate: func(c *AppConfig) { c.StorageLocalPath = "" }, wantErr: "storage_local_path"},
		{name: "local url not rooted", mutate: func(c *AppConfig) { c.StorageLocalURL = "files" }, wantErr: "storage_local_url"},
		{name: "s3 without bucket", mutate: func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Region = "us-east-1" }, wantErr: "storage_s3_bucket"},
		{
			name: "s3 half credentials",
			mutate: func(c *AppConfig) {
				c.StorageType = "s3"
				c.StorageS3Region = "us-east-1"
				c.StorageS3Bucket = "uploads"
				c.StorageS3AccessKeyID = "AKIA"
			},
			wantErr: "must be set together",
		},
		{name: "zero upload size", mutate: func(c *AppConfig) { c.UploadMaxMB = 0 }, wantErr: "upload_max_mb"},
		{name: "zero rate window", mutate: func(c *AppConfig) { c.UploadRateWindow = 0 }, wantErr: "upload_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			core := &config.CoreConfig{Env: tt.env}

			err := ValidateConfig(core, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.test, ,https://b.test ,")
	if len(got) != 2 || got[0] != "https://a.test" || got[1] != "https://b.test" {
		t.Errorf("splitList = %q", got)
	}
	if got := splitList(""); len(got) != 0 {
		t.Errorf("splitList(\"\") = %q, want empty", got)
	}
}

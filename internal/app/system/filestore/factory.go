package filestore

import (
	"context"
	"fmt"
)

// Backend names accepted by New.
const (
	TypeNone   = "none"
	TypeLocal  = "local"
	TypeS3     = "s3"
	TypeMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Type      string
	LocalPath string
	LocalURL  string
	S3        S3Config
}

// New builds the backend named by cfg.Type. TypeNone returns a nil Store,
// which disables uploads.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case TypeNone, "":
		return nil, nil
	case TypeMemory:
		return NewMemory(), nil
	case TypeLocal:
		if cfg.LocalPath == "" {
			return nil, fmt.Errorf("local filestore requires storage_local_path to be set")
		}
		return NewLocal(cfg.LocalPath, cfg.LocalURL)
	case TypeS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Package storage writes uploaded files to a backend and returns the path
// or URL clients use to fetch them.
package storage

import (
	"context"
	"fmt"
	"io"

	"skill-swap/internal/config"
)

type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// New selects the backend configured by UPLOAD_DRIVER.
func New(ctx context.Context, cfg config.UploadConfig) (Storage, error) {
	switch cfg.Driver {
	case config.UploadDriverLocal, "":
		return NewLocal(cfg.Dir, cfg.URLPrefix), nil
	case config.UploadDriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}

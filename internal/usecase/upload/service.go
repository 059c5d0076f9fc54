// Package upload names and stores uploaded files.
package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"skill-swap/internal/infrastructure/storage"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/usecase/ucerr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = ucerr.ErrInvalidInput
	ErrInternal     = ucerr.ErrInternal
)

const defaultBaseName = "file"

type Service struct {
	store storage.Storage
	log   *logger.Logger

	newID func() string
}

func NewService(store storage.Storage, log *logger.Logger) *Service {
	return &Service{store: store, log: log, newID: uuid.NewString}
}

// Store writes r under "<uuid>-<base name>" and returns its access path.
// A nil reader means no file was sent.
func (s *Service) Store(ctx context.Context, originalName, contentType string, r io.Reader) (string, error) {
	if r == nil {
		return "", ucerr.NewFieldError("file", "required", "No file provided")
	}

	name := s.newID() + "-" + BaseName(originalName)
	url, err := s.store.Save(ctx, name, contentType, r)
	if err != nil {
		s.log.Error("upload failed", map[string]string{"name": name, "error": err.Error()})
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}

	s.log.Debug("file uploaded", map[string]string{"name": name, "url": url})
	return url, nil
}

// BaseName strips any directory part from a client supplied file name.
// Both slash styles are treated as separators.
func BaseName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	base := path.Base(name)
	switch base {
	case ".", "..", "/", "":
		return defaultBaseName
	}
	return base
}

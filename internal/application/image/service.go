package image

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/nonomnouns/clankpad/internal/pkg/id"
)

// Service uploads token images to object storage and returns their public URL.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	store objectStore
}

func NewService(store objectStore) Service {
	return &service{store: store}
}

func (s *service) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	contentType, ok := imageContentType(filename)
	if !ok {
		return "", fmt.Errorf("unsupported image type %q: %w", path.Ext(filename), domain.ErrBadRequest)
	}
	key := id.New() + strings.ToLower(path.Ext(filename))
	return s.store.Upload(ctx, key, r, contentType)
}

func imageContentType(filename string) (string, bool) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	case ".gif":
		return "image/gif", true
	case ".webp":
		return "image/webp", true
	default:
		return "", false
	}
}

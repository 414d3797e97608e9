package storage

import (
	"context"
	"fmt"
	"strings"

	"campaignstudio/internal/infra"
)

// ObjectStore persists generated images and returns a publicly reachable URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New selects the backend named by cfg.ObjectStore.
func New(ctx context.Context, cfg *infra.Config) (ObjectStore, error) {
	switch cfg.ObjectStore {
	case infra.ObjectStoreGCS:
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPublicBaseURL)
	case infra.ObjectStoreSupabase:
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
	case infra.ObjectStoreLocal, "":
		return NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.ObjectStore)
	}
}

// ExtensionForMIME maps an image content type to a file extension.
func ExtensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

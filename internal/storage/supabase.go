package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"
)

type supabaseBucket interface {
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// SupabaseStore uploads assets to a public Supabase Storage bucket.
type SupabaseStore struct {
	storage supabaseBucket
	bucket  string
}

// NewSupabaseStore authenticates with the service key so uploads bypass RLS.
func NewSupabaseStore(url, serviceKey, bucket string) (*SupabaseStore, error) {
	if strings.TrimSpace(url) == "" || strings.TrimSpace(serviceKey) == "" {
		return nil, errors.New("storage: supabase url and service key are required")
	}
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: supabase client: %w", err)
	}
	return &SupabaseStore{storage: client.Storage, bucket: bucket}, nil
}

// Upload writes data with upsert semantics and returns the bucket's public URL.
func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	upsert := true
	if _, err := s.storage.UploadFile(s.bucket, cleanKey, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}); err != nil {
		return "", fmt.Errorf("storage: supabase upload: %w", err)
	}
	public := s.storage.GetPublicUrl(s.bucket, cleanKey).SignedURL
	if public == "" {
		return "", errors.New("storage: supabase returned empty public url")
	}
	return public, nil
}

var _ ObjectStore = (*SupabaseStore)(nil)

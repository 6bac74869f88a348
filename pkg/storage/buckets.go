package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bucket names used by the application.
const (
	BucketAvatars   = "avatars"
	BucketResources = "resources"
)

// BucketStorage persists binary payloads on disk, one directory per
// bucket, keyed by a relative object path.
type BucketStorage struct {
	baseDir string
}

// NewBucketStorage ensures the base directory and both buckets exist.
func NewBucketStorage(baseDir string) (*BucketStorage, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	for _, bucket := range []string{BucketAvatars, BucketResources} {
		if err := os.MkdirAll(filepath.Join(baseDir, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return &BucketStorage{baseDir: baseDir}, nil
}

// Save writes data under bucket/path and returns the object path.
func (s *BucketStorage) Save(bucket, path string, data []byte) (string, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("prepare object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return path, nil
}

// Read returns the stored bytes for bucket/path.
func (s *BucketStorage) Read(bucket, path string) ([]byte, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// Remove deletes the object. Removing a missing object is not an error,
// which keeps cascade deletes retryable.
func (s *BucketStorage) Remove(bucket, path string) error {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *BucketStorage) resolve(bucket, path string) (string, error) {
	if bucket != BucketAvatars && bucket != BucketResources {
		return "", fmt.Errorf("unknown bucket %q", bucket)
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return filepath.Join(s.baseDir, bucket, clean), nil
}

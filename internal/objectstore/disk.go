package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Ensure DiskStore implements Store
var _ Store = (*DiskStore)(nil)

// DiskStore stores objects on the local filesystem and serves them under
// a fixed URL prefix (the HTTP layer mounts the directory as static
// files).
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates a disk-backed object store rooted at dir. Uploaded
// objects are addressable under urlPrefix.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Put writes data under path and returns the serving URL.
func (s *DiskStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Clean the path so uploads cannot escape the media directory.
	clean := filepath.Clean("/" + path)
	target := filepath.Join(s.dir, clean)

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return s.urlPrefix + clean, nil
}

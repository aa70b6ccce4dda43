package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tahmid/qpaper/internal/pkg/logger"
)

// LocalStorage stores objects on the local filesystem. Used in development
// and on single-node deployments.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL, if
// set, is prepended to the paths returned by URL.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

// Save writes the object under basePath, creating subdirectories as the
// key requires.
func (ls *LocalStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", key, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to write file %s: %w", key, err)
	}

	return nil
}

// Open returns a reader over the stored object.
func (ls *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(ls.basePath, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the object. A missing file is treated as already deleted.
func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	err := os.Remove(filepath.Join(ls.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

// URL returns the path under which the object is served.
func (ls *LocalStorage) URL(key string) string {
	if ls.baseURL != "" {
		return strings.TrimRight(ls.baseURL, "/") + "/" + key
	}
	return "uploads/" + key
}

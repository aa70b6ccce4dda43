// Package filestorage stores uploaded PDF and image objects. The database
// only ever holds an object key; callers upload before inserting a row and
// delete the object after the row is gone.
package filestorage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage is the object-store contract the rest of the application
// depends on.
type FileStorage interface {
	// Save writes an object under the given key.
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Open returns a reader for the object. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns a URL or path under which the object is served.
	URL(key string) string
}

// NewObjectKey builds a collision-free object key for an upload, keeping
// the original file extension under a logical prefix (e.g. "questions").
func NewObjectKey(prefix, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	if prefix == "" {
		return uuid.New().String() + ext
	}
	return prefix + "/" + uuid.New().String() + ext
}

package domain

import (
	"context"
	"io"
)

// FileStorage abstracts the object-storage service holding avatars and
// cover images. Upload returns the public URL of the stored object.
type FileStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

package core

import (
	"context"
	"io"
)

// FileStorage is any service that can persist and remove uploaded files.
// Save returns a storage-relative path that is later passed back to Delete.
type FileStorage interface {
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

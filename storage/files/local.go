// Package files implements document storage on the local filesystem.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core"
)

const uploadDirFormat = "diplomas/2006/01/02"

// LocalStorage stores uploads under a media root, fanned out by upload date.
type LocalStorage struct {
	root    string
	nowFunc func() time.Time
}

var _ core.FileStorage = (*LocalStorage)(nil)

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root, nowFunc: time.Now}
}

// Save writes content under <root>/diplomas/YYYY/MM/DD/ with a short random
// suffix so concurrent uploads of the same name never collide. The returned
// path is relative to the media root.
func (ls *LocalStorage) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(filepath.Base(name), ext)
	fname := fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext)

	relDir := ls.nowFunc().UTC().Format(uploadDirFormat)
	dir := filepath.Join(ls.root, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload directory")
	}

	f, err := os.Create(filepath.Join(dir, fname))
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, content); err != nil {
		return "", errors.Wrap(err, "writing file")
	}
	return path.Join(relDir, fname), nil
}

// Delete removes a stored file; a missing file is not an error.
func (ls *LocalStorage) Delete(ctx context.Context, relPath string) error {
	err := os.Remove(filepath.Join(ls.root, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing file")
	}
	return nil
}

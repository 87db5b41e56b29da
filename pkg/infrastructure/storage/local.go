package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("object not found")

// LocalStore keeps blobs on the local filesystem. A bucket is a directory below Root.
type LocalStore struct {
	Root string
}

func (s *LocalStore) path(bucket, object string) string {
	return filepath.Join(s.Root, bucket, filepath.FromSlash(object))
}

func (s *LocalStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := s.path(bucket, object)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(p), err)
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(bucket, object))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path(bucket, object), ErrNotFound)
	}
	return data, err
}

package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	shared "github.com/fitglue/coursemap/pkg"
)

const gcsScheme = "gs://"

// Location addresses a blob either on local disk or in a GCS bucket.
type Location struct {
	Remote bool
	Bucket string
	Object string
}

// ParseLocation accepts gs://bucket/object or a filesystem path.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if strings.HasPrefix(s, gcsScheme) {
		rest := strings.TrimPrefix(s, gcsScheme)
		bucket, object, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || object == "" {
			return Location{}, fmt.Errorf("invalid GCS location %q, want gs://bucket/object", s)
		}
		return Location{Remote: true, Bucket: bucket, Object: object}, nil
	}
	return Location{Bucket: filepath.Dir(s), Object: filepath.Base(s)}, nil
}

// Join appends slash-separated elements to the object path.
func (l Location) Join(elem ...string) Location {
	parts := append([]string{l.Object}, elem...)
	l.Object = path.Join(parts...)
	return l
}

func (l Location) String() string {
	if l.Remote {
		return gcsScheme + l.Bucket + "/" + l.Object
	}
	return filepath.Join(l.Bucket, filepath.FromSlash(l.Object))
}

// Ext is the lower-cased extension of the object name.
func (l Location) Ext() string {
	return strings.ToLower(path.Ext(l.Object))
}

// Router sends each Location to the local store or to GCS. The GCS store is created on
// first use so local-only runs never need cloud credentials.
type Router struct {
	Local  shared.BlobStore
	NewGCS func(ctx context.Context) (shared.BlobStore, error)

	mu  sync.Mutex
	gcs shared.BlobStore
}

// NewRouter returns a Router over the local filesystem and lazily created GCS storage.
func NewRouter(credentialsFile string) *Router {
	return &Router{
		Local: &LocalStore{},
		NewGCS: func(ctx context.Context) (shared.BlobStore, error) {
			return NewStorageAdapter(ctx, credentialsFile)
		},
	}
}

func (r *Router) store(ctx context.Context, loc Location) (shared.BlobStore, error) {
	if !loc.Remote {
		return r.Local, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gcs == nil {
		if r.NewGCS == nil {
			return nil, fmt.Errorf("no GCS store configured for %s", loc)
		}
		s, err := r.NewGCS(ctx)
		if err != nil {
			return nil, err
		}
		r.gcs = s
	}
	return r.gcs, nil
}

func (r *Router) Read(ctx context.Context, loc Location) ([]byte, error) {
	s, err := r.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	data, err := s.Read(ctx, loc.Bucket, loc.Object)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc, err)
	}
	return data, nil
}

func (r *Router) Write(ctx context.Context, loc Location, data []byte) error {
	s, err := r.store(ctx, loc)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, loc.Bucket, loc.Object, data); err != nil {
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	return nil
}

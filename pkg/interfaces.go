package shared

import (
	"context"
	"time"
)

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// --- Location Interfaces ---

// ZoneLocator resolves the local time zone at a coordinate.
type ZoneLocator interface {
	Zone(lat, long float64) (*time.Location, error)
}

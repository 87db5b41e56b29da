package mocks

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"
)

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Memory Storage ---

// MemoryBlobStore records writes and serves them back to reads.
type MemoryBlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func (m *MemoryBlobStore) key(bucket, object string) string {
	return bucket + "/" + object
}

func (m *MemoryBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = make(map[string][]byte)
	}
	m.Objects[m.key(bucket, object)] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[m.key(bucket, object)]
	if !ok {
		return nil, fmt.Errorf("object %s not found", m.key(bucket, object))
	}
	return data, nil
}

// --- Mock Zone Locator ---
type MockZoneLocator struct {
	ZoneFunc func(lat, long float64) (*time.Location, error)
}

func (m *MockZoneLocator) Zone(lat, long float64) (*time.Location, error) {
	if m.ZoneFunc != nil {
		return m.ZoneFunc(lat, long)
	}
	return time.FixedZone("JST", 9*60*60), nil
}

// --- Mock Tile Source ---
type MockTileSource struct {
	TileFunc func(ctx context.Context, z, x, y int) (image.Image, error)
}

func (m *MockTileSource) Tile(ctx context.Context, z, x, y int) (image.Image, error) {
	if m.TileFunc != nil {
		return m.TileFunc(ctx, z, x, y)
	}
	return image.NewRGBA(image.Rect(0, 0, 256, 256)), nil
}

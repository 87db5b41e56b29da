package tiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"sync"

	"github.com/fitglue/coursemap/pkg/domain/maptiles"
	"github.com/fitglue/coursemap/pkg/infrastructure/storage"
)

// Reader is the subset of storage.Router a tile source needs.
type Reader interface {
	Read(ctx context.Context, loc storage.Location) ([]byte, error)
}

// StoreSource serves pre-rendered tiles laid out as {base}/{z}/{x}/{y}.png, either in a
// local directory or in a GCS bucket. Decoded tiles are cached for the life of the source.
type StoreSource struct {
	Store Reader
	Base  storage.Location

	cache sync.Map
}

func NewStoreSource(store Reader, base string) (*StoreSource, error) {
	loc, err := storage.ParseLocation(base)
	if err != nil {
		return nil, fmt.Errorf("tile source: %w", err)
	}
	if !loc.Remote {
		// a local base is a directory, not a file
		loc = storage.Location{Bucket: base, Object: "."}
	}
	return &StoreSource{Store: store, Base: loc}, nil
}

func (s *StoreSource) Tile(ctx context.Context, z, x, y int) (image.Image, error) {
	loc := s.Base.Join(strconv.Itoa(z), strconv.Itoa(x), strconv.Itoa(y)+".png")
	key := loc.String()
	if img, ok := s.cache.Load(key); ok {
		return img.(image.Image), nil
	}

	data, err := s.Store.Read(ctx, loc)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", key, maptiles.ErrTileNotFound)
	}
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding tile %s: %w", key, err)
	}
	s.cache.Store(key, img)
	return img, nil
}

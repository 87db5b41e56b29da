// Package loader picks the activity reader for a file by its extension.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/fitglue/coursemap/pkg/domain/fit_parser"
	"github.com/fitglue/coursemap/pkg/domain/gpx_parser"
	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/infrastructure/storage"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Reader fetches the raw bytes at a storage location.
type Reader interface {
	Read(ctx context.Context, loc storage.Location) ([]byte, error)
}

// Parse decodes data as FIT or GPX depending on the extension of name.
func Parse(name string, data []byte) (*track.Track, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".fit":
		return fit_parser.ParseFitFile(data)
	case ".gpx":
		return gpx_parser.ParseGPX(data)
	default:
		return nil, fmt.Errorf("%w: %q (want .fit or .gpx)", ErrUnsupportedFormat, ext)
	}
}

// Load reads an activity file from local disk or a bucket and parses it.
func Load(ctx context.Context, r Reader, loc storage.Location) (*track.Track, error) {
	switch loc.Ext() {
	case ".fit", ".gpx":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, loc)
	}
	data, err := r.Read(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc, err)
	}
	t, err := Parse(loc.Object, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", loc, err)
	}
	return t, nil
}

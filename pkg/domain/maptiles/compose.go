package maptiles

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
)

// ErrTileNotFound is returned by a TileSource that has no tile for a coordinate.
var ErrTileNotFound = errors.New("tile not found")

// TileSource supplies pre-rendered tiles.
type TileSource interface {
	Tile(ctx context.Context, z, x, y int) (image.Image, error)
}

// Underlay is a map image covering a bounding box.
type Underlay struct {
	Image   image.Image
	Zoom    Zoom
	Tiles   int
	Missing int
}

// Compose assembles a size x size image covering bounds from the tiles of one zoom level.
// Missing tiles are left transparent and counted; any other source error aborts.
func Compose(ctx context.Context, src TileSource, bounds geometry.DegreeBounds, zoom Zoom) (*Underlay, error) {
	if zoom.Size <= 0 {
		return nil, fmt.Errorf("underlay size must be positive, got %d", zoom.Size)
	}
	x0, y0 := TileXY(bounds.North, bounds.West, zoom.Level)
	x1, y1 := TileXY(bounds.South, bounds.East, zoom.Level)
	if !(x1 > x0) || !(y1 > y0) {
		return nil, fmt.Errorf("%w: empty tile range", ErrDegenerateSpan)
	}

	tx0, ty0 := int(math.Floor(x0)), int(math.Floor(y0))
	tx1, ty1 := int(math.Floor(x1)), int(math.Floor(y1))

	mosaic := gg.NewContext((tx1-tx0+1)*TileSize, (ty1-ty0+1)*TileSize)
	out := &Underlay{Zoom: zoom}
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out.Tiles++
			img, err := src.Tile(ctx, zoom.Level, tx, ty)
			if errors.Is(err, ErrTileNotFound) {
				out.Missing++
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("tile %d/%d/%d: %w", zoom.Level, tx, ty, err)
			}
			mosaic.DrawImage(img, (tx-tx0)*TileSize, (ty-ty0)*TileSize)
		}
	}

	dc := gg.NewContext(zoom.Size, zoom.Size)
	sx := float64(zoom.Size) / ((x1 - x0) * TileSize)
	sy := float64(zoom.Size) / ((y1 - y0) * TileSize)
	dc.Scale(sx, sy)
	dc.Translate(-(x0-float64(tx0))*TileSize, -(y0-float64(ty0))*TileSize)
	dc.DrawImage(mosaic.Image(), 0, 0)
	out.Image = dc.Image()
	return out, nil
}

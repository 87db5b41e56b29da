package maptiles

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
)

// TileSize is the edge length of a slippy-map tile in pixels.
const TileSize = 256

// zoomScale is the longitude span in degrees covered by one tile at each zoom level.
var zoomScale = []float64{
	360, 180, 90, 45, 22.5, 11.25, 5.625, 2.813, 1.406, 0.703, 0.352,
	0.176, 0.088, 0.044, 0.022, 0.011, 0.005, 0.003, 0.001, 0.0005, 0.00025,
}

var ErrDegenerateSpan = errors.New("map span must be positive")

// Resolution is the nominal pixel size of the map underlay.
type Resolution int

const (
	ResolutionLow  Resolution = 256
	ResolutionMid  Resolution = 512
	ResolutionHigh Resolution = 1024
)

func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(s) {
	case "low", "":
		return ResolutionLow, nil
	case "mid":
		return ResolutionMid, nil
	case "high":
		return ResolutionHigh, nil
	default:
		return 0, fmt.Errorf("unknown map resolution %q (want low, mid or high)", s)
	}
}

func (r Resolution) String() string {
	switch r {
	case ResolutionLow:
		return "low"
	case ResolutionMid:
		return "mid"
	case ResolutionHigh:
		return "high"
	default:
		return fmt.Sprintf("%dpx", int(r))
	}
}

// Zoom is the chosen tile zoom level together with the underlay size it implies.
type Zoom struct {
	Level int
	// SpanKm is the ground width covered by the nominal resolution at this level.
	SpanKm float64
	// Size is the pixel edge of an underlay covering the whole plot box.
	Size int
}

// SelectZoom picks the most detailed zoom level whose tiles still cover span (km) at the
// requested resolution. ch is kilometres per degree of longitude and rcv the cosine of the
// centre latitude, both from the planar frame.
func SelectZoom(span, ch, rcv float64, res Resolution) (Zoom, error) {
	if !(span > 0) || !(ch > 0) {
		return Zoom{}, fmt.Errorf("%w: span=%v ch=%v", ErrDegenerateSpan, span, ch)
	}
	size := float64(res)
	tileSpanDeg := span * TileSize / size / ch

	level := len(zoomScale) - 1
	for z := 1; z < len(zoomScale); z++ {
		if tileSpanDeg > zoomScale[z] {
			level = z - 1
			break
		}
	}

	mapSpan := geometry.EarthCircumferenceKm * rcv / math.Pow(2, float64(level)) * (size / TileSize)
	return Zoom{
		Level:  level,
		SpanKm: mapSpan,
		Size:   int(math.Ceil(size * span / mapSpan)),
	}, nil
}

// TileXY returns fractional slippy-map tile coordinates for a point.
func TileXY(lat, long float64, zoom int) (x, y float64) {
	latRad := lat * math.Pi / 180
	n := math.Pow(2, float64(zoom))
	x = (long + 180) / 360 * n
	y = (1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n
	return x, y
}

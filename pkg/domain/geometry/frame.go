package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/fitglue/coursemap/pkg/domain/track"
)

const (
	// EarthCircumferenceKm is the equatorial circumference used for the planar frame.
	EarthCircumferenceKm = 40075.016686
	// DefaultOversizeRatio pads the bounding box around the course.
	DefaultOversizeRatio = 1.1
)

var (
	ErrNoSamples   = errors.New("no samples to frame")
	ErrBadOversize = errors.New("oversize ratio must be positive")
)

// Frame is a local equirectangular projection anchored at the first sample.
// Planar coordinates are kilometres east (x) and north (y) of the origin.
type Frame struct {
	OriginLat  float64
	OriginLong float64
	CenterLat  float64
	CenterLong float64
	Rcv        float64
	Cv         float64
	Ch         float64
}

// Project maps degrees into the planar frame.
func (f Frame) Project(lat, long float64) (x, y float64) {
	return f.Ch * (long - f.OriginLong), f.Cv * (lat - f.OriginLat)
}

// Unproject maps planar coordinates back into degrees.
func (f Frame) Unproject(x, y float64) (lat, long float64) {
	return f.OriginLat + y/f.Cv, f.OriginLong + x/f.Ch
}

// Box is an axis-aligned region of the planar frame plus its altitude range.
// North/South/East/West are kilometres, Top/Bottom metres.
type Box struct {
	North   float64
	South   float64
	East    float64
	West    float64
	Top     float64
	Bottom  float64
	VCenter float64
	HCenter float64
	Span    float64
}

// DegreeBounds are the raw extents of the course in degrees.
type DegreeBounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Layout is everything derived from the course extents.
type Layout struct {
	Frame   Frame
	Degrees DegreeBounds
	// Extent is the tight planar box around the course.
	Extent Box
	// Box is the padded square the course is drawn in.
	Box   Box
	VSpan float64
	HSpan float64
	Start float64
	Fin   float64
}

// Degenerate reports a course with no horizontal extent.
func (l *Layout) Degenerate() bool {
	return l.Box.Span == 0
}

// PaddedDegrees converts the padded box back into degrees, e.g. for map tiles.
func (l *Layout) PaddedDegrees() DegreeBounds {
	n, e := l.Frame.Unproject(l.Box.East, l.Box.North)
	s, w := l.Frame.Unproject(l.Box.West, l.Box.South)
	return DegreeBounds{North: n, South: s, East: e, West: w}
}

// Compute builds the planar frame and bounding boxes for a sequence of samples.
func Compute(samples []track.Sample, oversizeRatio float64) (*Layout, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if !(oversizeRatio > 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadOversize, oversizeRatio)
	}

	first := samples[0]
	deg := DegreeBounds{North: first.Lat, South: first.Lat, East: first.Long, West: first.Long}
	top, bottom := first.Altitude, first.Altitude
	for _, s := range samples[1:] {
		deg.North = math.Max(deg.North, s.Lat)
		deg.South = math.Min(deg.South, s.Lat)
		deg.East = math.Max(deg.East, s.Long)
		deg.West = math.Min(deg.West, s.Long)
		top = math.Max(top, s.Altitude)
		bottom = math.Min(bottom, s.Altitude)
	}

	centerLat := (deg.North + deg.South) / 2
	centerLong := (deg.East + deg.West) / 2
	rcv := math.Cos(centerLat * math.Pi / 180)
	frame := Frame{
		OriginLat:  first.Lat,
		OriginLong: first.Long,
		CenterLat:  centerLat,
		CenterLong: centerLong,
		Rcv:        rcv,
		Cv:         EarthCircumferenceKm / 360,
		Ch:         EarthCircumferenceKm * rcv / 360,
	}

	east, north := frame.Project(deg.North, deg.East)
	west, south := frame.Project(deg.South, deg.West)
	vSpan := north - south
	hSpan := east - west
	vCenter := (north + south) / 2
	hCenter := (east + west) / 2

	extent := Box{
		North: north, South: south, East: east, West: west,
		Top: top, Bottom: bottom,
		VCenter: vCenter, HCenter: hCenter,
		Span: math.Max(vSpan, hSpan),
	}

	span := math.Max(vSpan, hSpan) * oversizeRatio
	box := Box{
		North:   vCenter + span/2,
		South:   vCenter - span/2,
		East:    hCenter + span/2,
		West:    hCenter - span/2,
		Top:     top,
		Bottom:  bottom,
		VCenter: vCenter,
		HCenter: hCenter,
		Span:    span,
	}

	return &Layout{
		Frame:   frame,
		Degrees: deg,
		Extent:  extent,
		Box:     box,
		VSpan:   vSpan,
		HSpan:   hSpan,
		Start:   first.Distance,
		Fin:     samples[len(samples)-1].Distance,
	}, nil
}

// ProjectAll returns the planar coordinates of every sample.
func (f Frame) ProjectAll(samples []track.Sample) (xs, ys []float64) {
	xs = make([]float64, len(samples))
	ys = make([]float64, len(samples))
	for i, s := range samples {
		xs[i], ys[i] = f.Project(s.Lat, s.Long)
	}
	return xs, ys
}

package geometry

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/fitglue/coursemap/pkg/domain/track"
)

// EarthRadiusMeters is the mean earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008.8

// GreatCircle returns the distance in metres between two points given in degrees.
func GreatCircle(lat1, long1, lat2, long2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, long1)
	p2 := s2.LatLngFromDegrees(lat2, long2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Farthest is the sample furthest from the start in the planar frame.
type Farthest struct {
	Index int
	Lat   float64
	Long  float64
	X     float64
	Y     float64
	// PlanarKm is the straight-line planar distance from the first sample.
	PlanarKm float64
	// GreatCircleKm is the same distance measured on the sphere.
	GreatCircleKm float64
}

// FarthestPoint finds the sample with the largest planar distance from the first sample.
// Ties resolve to the earliest index.
func FarthestPoint(samples []track.Sample, frame Frame) (Farthest, error) {
	if len(samples) == 0 {
		return Farthest{}, ErrNoSamples
	}
	best := Farthest{Index: 0, Lat: samples[0].Lat, Long: samples[0].Long}
	bestSq := -1.0
	for i, s := range samples {
		x, y := frame.Project(s.Lat, s.Long)
		d := x*x + y*y
		if d > bestSq {
			bestSq = d
			best = Farthest{Index: i, Lat: s.Lat, Long: s.Long, X: x, Y: y}
		}
	}
	best.PlanarKm = math.Sqrt(bestSq)
	best.GreatCircleKm = GreatCircle(samples[0].Lat, samples[0].Long, best.Lat, best.Long) / 1000
	return best, nil
}

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitglue/coursemap/pkg/domain/track"
)

func samples(points ...[3]float64) []track.Sample {
	out := make([]track.Sample, len(points))
	dist := 0.0
	for i, p := range points {
		if i > 0 {
			dist += 100
		}
		out[i] = track.Sample{Lat: p[0], Long: p[1], Altitude: p[2], Distance: dist}
	}
	return out
}

func TestCompute_FrameConstants(t *testing.T) {
	s := samples([3]float64{35.0, 139.0, 10}, [3]float64{35.02, 139.03, 40}, [3]float64{34.99, 139.01, 5})

	l, err := Compute(s, DefaultOversizeRatio)
	require.NoError(t, err)

	assert.Equal(t, 35.02, l.Degrees.North)
	assert.Equal(t, 34.99, l.Degrees.South)
	assert.Equal(t, 139.03, l.Degrees.East)
	assert.Equal(t, 139.0, l.Degrees.West)

	assert.InDelta(t, 35.005, l.Frame.CenterLat, 1e-9)
	assert.InDelta(t, 139.015, l.Frame.CenterLong, 1e-9)
	assert.InDelta(t, math.Cos(35.005*math.Pi/180), l.Frame.Rcv, 1e-12)
	assert.InDelta(t, EarthCircumferenceKm/360, l.Frame.Cv, 1e-12)
	assert.InDelta(t, EarthCircumferenceKm*l.Frame.Rcv/360, l.Frame.Ch, 1e-12)

	assert.Equal(t, 40.0, l.Box.Top)
	assert.Equal(t, 5.0, l.Box.Bottom)
	assert.Equal(t, 0.0, l.Start)
	assert.Equal(t, 200.0, l.Fin)
}

func TestCompute_BoxInvariants(t *testing.T) {
	s := samples([3]float64{51.5, -0.12, 20}, [3]float64{51.52, -0.10, 30}, [3]float64{51.51, -0.15, 25}, [3]float64{51.49, -0.11, 15})

	l, err := Compute(s, 1.1)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, l.Extent.North, l.Extent.South)
	assert.GreaterOrEqual(t, l.Extent.East, l.Extent.West)
	assert.Greater(t, l.Box.Span, 0.0)
	assert.InDelta(t, math.Max(l.VSpan, l.HSpan)*1.1, l.Box.Span, 1e-12)

	// padded box is square and centred on the course centre
	assert.InDelta(t, l.Box.Span, l.Box.North-l.Box.South, 1e-9)
	assert.InDelta(t, l.Box.Span, l.Box.East-l.Box.West, 1e-9)
	assert.InDelta(t, (l.Extent.North+l.Extent.South)/2, (l.Box.North+l.Box.South)/2, 1e-9)

	// every sample falls within the padded box
	xs, ys := l.Frame.ProjectAll(s)
	for i := range s {
		assert.True(t, xs[i] >= l.Box.West && xs[i] <= l.Box.East)
		assert.True(t, ys[i] >= l.Box.South && ys[i] <= l.Box.North)
	}
}

func TestProject_OriginIsFirstSample(t *testing.T) {
	s := samples([3]float64{-33.86, 151.21, 3}, [3]float64{-33.87, 151.22, 4})
	l, err := Compute(s, 1.1)
	require.NoError(t, err)

	x, y := l.Frame.Project(s[0].Lat, s[0].Long)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	lat, long := l.Frame.Unproject(l.Frame.Project(s[1].Lat, s[1].Long))
	assert.InDelta(t, s[1].Lat, lat, 1e-12)
	assert.InDelta(t, s[1].Long, long, 1e-12)

	pd := l.PaddedDegrees()
	assert.Greater(t, pd.North, l.Degrees.North)
	assert.Less(t, pd.South, l.Degrees.South)
}

func TestCompute_Degenerate(t *testing.T) {
	s := samples([3]float64{10, 10, 1}, [3]float64{10, 10, 2})
	l, err := Compute(s, 1.1)
	require.NoError(t, err)
	assert.True(t, l.Degenerate())

	_, err = Compute(nil, 1.1)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Compute(s, 0)
	assert.ErrorIs(t, err, ErrBadOversize)
}

func TestFarthestPoint(t *testing.T) {
	s := samples(
		[3]float64{0, 0, 0},
		[3]float64{0.001, 0, 0},
		[3]float64{0.003, 0.001, 0},
		[3]float64{0.001, 0.001, 0},
		[3]float64{0, 0, 0},
	)
	l, err := Compute(s, 1.1)
	require.NoError(t, err)

	f, err := FarthestPoint(s, l.Frame)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Index)
	assert.Greater(t, f.PlanarKm, 0.0)
	assert.InDelta(t, f.PlanarKm, f.GreatCircleKm, 0.001)

	_, err = FarthestPoint(nil, l.Frame)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestFarthestPoint_TieKeepsFirst(t *testing.T) {
	s := samples([3]float64{0, 0, 0}, [3]float64{0.01, 0, 0}, [3]float64{-0.01, 0, 0})
	l, err := Compute(s, 1.1)
	require.NoError(t, err)
	f, err := FarthestPoint(s, l.Frame)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Index)
}

func TestGreatCircle(t *testing.T) {
	// one degree of latitude is roughly 111.2 km
	d := GreatCircle(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 50)
	assert.Equal(t, 0.0, GreatCircle(12, 34, 12, 34))
}

package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
)

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func TestHannWindow(t *testing.T) {
	for _, l := range []int{1, 2, 3, 7, 30, 31} {
		w, err := HannWindow(l)
		require.NoError(t, err)
		require.Len(t, w, l)
		assert.InDelta(t, 1.0, sum(w), 1e-12, "length %d", l)
		for i := range w {
			assert.Greater(t, w[i], 0.0)
			assert.InDelta(t, w[i], w[l-1-i], 1e-12, "window must be symmetric")
		}
	}

	w, err := HannWindow(3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, w[0], 1e-12)
	assert.InDelta(t, 2.0/3, w[1], 1e-12)

	_, err = HannWindow(0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSmooth_PreservesLengthAndConstants(t *testing.T) {
	constant := []float64{5, 5, 5, 5, 5, 5}
	for _, l := range []int{1, 2, 3, 4, 6, 10} {
		out, err := Smooth(constant, l)
		require.NoError(t, err)
		require.Len(t, out, len(constant))
		for _, v := range out {
			assert.InDelta(t, 5.0, v, 1e-12)
		}
	}
}

func TestSmooth_IdentityForWindowOne(t *testing.T) {
	in := []float64{1, 9, -3, 4}
	out, err := Smooth(in, 1)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSmooth_ReducesSpike(t *testing.T) {
	in := []float64{10, 10, 40, 10, 10}
	out, err := Smooth(in, 3)
	require.NoError(t, err)
	require.Len(t, out, 5)

	assert.InDelta(t, 10.0, out[0], 1e-12)
	assert.InDelta(t, 15.0, out[1], 1e-12)
	assert.InDelta(t, 30.0, out[2], 1e-12)
	assert.Less(t, out[2], in[2])

	again, err := Smooth(in, 3)
	require.NoError(t, err)
	assert.Equal(t, out, again, "smoothing must be deterministic")
}

func TestSmooth_EvenWindowLagsHalfSample(t *testing.T) {
	in := make([]float64, 9)
	in[4] = 1
	out, err := Smooth(in, 4)
	require.NoError(t, err)

	assert.Equal(t, 0.0, out[2])
	assert.Equal(t, 0.0, out[7])
	assert.InDelta(t, out[4], out[5], 1e-12)
	assert.InDelta(t, out[3], out[6], 1e-12)
	assert.Greater(t, out[4], out[3])
	assert.InDelta(t, 1, sum(out), 1e-12)
}

func TestSmooth_Errors(t *testing.T) {
	_, err := Smooth(nil, 3)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Smooth([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Smooth([]float64{1, math.NaN()}, 3)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSmooth_WindowLongerThanSeries(t *testing.T) {
	out, err := Smooth([]float64{1, 2, 3}, 30)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, v := range out {
		assert.True(t, v >= 1 && v <= 3)
	}
}

func TestFillGaps(t *testing.T) {
	nan := math.NaN()
	out, err := FillGaps([]float64{nan, nan, 3, nan, 5, nan})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 3, 3, 5, 5}, out)

	_, err = FillGaps([]float64{nan, nan})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = FillGaps(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"off": ModeOff, "": ModeOff, "AVERAGE": ModeAverage, "spatial-average": ModeSpatialAverage} {
		m, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}
	_, err := ParseMode("median")
	assert.Error(t, err)
}

func box() geometry.Box {
	return geometry.Box{West: 0, South: 0, East: 10, North: 10, Span: 10}
}

func TestGrid_CellsAndEmptyCells(t *testing.T) {
	g, err := NewGrid(box(), 10, 0)
	require.NoError(t, err)

	col, row := g.Cell(0.5, 9.99)
	assert.Equal(t, 0, col)
	assert.Equal(t, 9, row)

	col, row = g.Cell(10, -1)
	assert.Equal(t, 9, col, "points on the east edge are clamped into the grid")
	assert.Equal(t, 0, row)

	g.Add(0.5, 0.5, 4)
	g.Add(0.6, 0.4, 6)
	mean, ok := g.Mean(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, mean)

	mean, ok = g.Mean(5, 5)
	assert.False(t, ok)
	assert.True(t, math.IsNaN(mean))

	_, ok = g.Mean(-1, 0)
	assert.False(t, ok)
	assert.Equal(t, 1, g.Populated())
}

func TestGrid_Overlap(t *testing.T) {
	g, err := NewGrid(box(), 10, 2)
	require.NoError(t, err)
	g.Add(5.5, 5.5, 1)
	assert.Equal(t, 25, g.Populated())

	_, ok := g.Mean(7, 7)
	assert.True(t, ok)
	_, ok = g.Mean(8, 5)
	assert.False(t, ok)
}

func TestNewGrid_Errors(t *testing.T) {
	_, err := NewGrid(geometry.Box{}, 10, 0)
	assert.ErrorIs(t, err, ErrDegenerateGrid)
	_, err = NewGrid(box(), 0, 0)
	assert.Error(t, err)
	_, err = NewGrid(box(), 10, -1)
	assert.Error(t, err)
}

func TestSpatialAverage(t *testing.T) {
	// an out-and-back: the return leg re-measures the same ground 2 m higher
	xs := []float64{1, 3, 5, 5, 3, 1}
	ys := []float64{1, 1, 1, 1, 1, 1}
	alt := []float64{100, 110, 120, 122, 112, 102}

	out, err := SpatialAverage(xs, ys, alt, box(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{101, 111, 121, 121, 111, 101}, out)

	_, err = SpatialAverage(xs, ys[:2], alt, box(), 10, 0)
	assert.Error(t, err)
	_, err = SpatialAverage(nil, nil, nil, box(), 10, 0)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

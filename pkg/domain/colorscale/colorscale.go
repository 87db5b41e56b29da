package colorscale

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fitglue/coursemap/pkg/domain/filter"
)

// FlatValue is assigned to every sample of a series with no variation.
const FlatValue = 0.5

// Options control how a series is turned into colour positions.
type Options struct {
	// Log compresses large dynamic ranges with log1p(v - min) before scaling.
	Log bool
	// Window smooths the series with a Hann window of this length; 0 or 1 disables it.
	Window int
}

// Scale is a series mapped onto [0, 1].
type Scale struct {
	Values []float64
	Min    float64
	Max    float64
	Flat   bool
}

// Normalize maps a series into [0, 1]. A series with no spread maps to FlatValue.
func Normalize(series []float64, opts Options) (*Scale, error) {
	if len(series) == 0 {
		return nil, filter.ErrEmptySeries
	}
	for i, v := range series {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: NaN at index %d", filter.ErrNoData, i)
		}
	}
	values := make([]float64, len(series))
	copy(values, series)

	if opts.Log {
		lo := minOf(values)
		for i, v := range values {
			values[i] = math.Log1p(v - lo)
		}
	}

	if opts.Window > 1 {
		smoothed, err := filter.Smooth(values, opts.Window)
		if err != nil {
			return nil, fmt.Errorf("smoothing colour series: %w", err)
		}
		values = smoothed
	}

	lo, hi := minOf(values), maxOf(values)
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("colour series has non-finite values")
	}
	scale := &Scale{Values: values, Min: lo, Max: hi}
	if hi == lo {
		scale.Flat = true
		for i := range values {
			values[i] = FlatValue
		}
		return scale, nil
	}
	for i, v := range values {
		values[i] = (v - lo) / (hi - lo)
	}
	return scale, nil
}

// Progress returns i/n for i = 1..n, colouring a course by how far along it a sample is.
func Progress(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) / float64(n)
	}
	return out
}

// Jet maps t in [0, 1] onto the blue-cyan-yellow-red "jet" ramp.
func Jet(t float64) color.RGBA {
	if math.IsNaN(t) {
		t = FlatValue
	}
	t = math.Max(0, math.Min(1, t))
	r := clamp(1.5 - math.Abs(4*t-3))
	g := clamp(1.5 - math.Abs(4*t-2))
	b := clamp(1.5 - math.Abs(4*t-1))
	return color.RGBA{R: uint8(r*255 + 0.5), G: uint8(g*255 + 0.5), B: uint8(b*255 + 0.5), A: 255}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

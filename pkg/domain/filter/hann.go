package filter

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptySeries   = errors.New("empty series")
	ErrInvalidWindow = errors.New("window length must be at least 1")
	ErrNoData        = errors.New("series contains no data")
)

// HannWindow returns raised-cosine weights normalised to sum to one.
// Angles are sampled at the centre of each of the length slots across [-pi, pi],
// so every weight is positive and a window of one is the identity.
func HannWindow(length int) ([]float64, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, length)
	}
	w := make([]float64, length)
	var sum float64
	for i := range w {
		theta := -math.Pi + 2*math.Pi*(float64(i)+0.5)/float64(length)
		w[i] = 0.5 * (math.Cos(theta) + 1)
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w, nil
}

// Smooth convolves series with a Hann window of the given length.
// Edges are padded by replicating the first and last value, so the output has the
// same length as the input. An even length has no centre sample, so the output
// lags the input by half a sample.
func Smooth(series []float64, length int) ([]float64, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	w, err := HannWindow(length)
	if err != nil {
		return nil, err
	}
	for i, v := range series {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: NaN at index %d", ErrNoData, i)
		}
	}

	pad := length / 2
	n := len(series)
	padded := make([]float64, 0, n+2*pad)
	for i := 0; i < pad; i++ {
		padded = append(padded, series[0])
	}
	padded = append(padded, series...)
	for i := 0; i < pad; i++ {
		padded = append(padded, series[n-1])
	}

	out := make([]float64, n)
	for i := range out {
		var acc float64
		for k, wk := range w {
			acc += wk * padded[i+k]
		}
		out[i] = acc
	}
	return out, nil
}

// FillGaps replaces NaN values with the nearest preceding value, or the first valid
// value for a leading gap.
func FillGaps(series []float64) ([]float64, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	out := make([]float64, len(series))
	copy(out, series)

	first := -1
	for i, v := range out {
		if !math.IsNaN(v) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, ErrNoData
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := first + 1; i < len(out); i++ {
		if math.IsNaN(out[i]) {
			out[i] = out[i-1]
		}
	}
	return out, nil
}

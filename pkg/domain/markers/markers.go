package markers

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidSpan = errors.New("span must be positive and finite")

// Marker is a labelled distance point along the course.
type Marker struct {
	Index    int
	Distance float64
	Label    string
}

// NiceStep rounds span down to a 1, 2 or 5 step at the span's own decade:
// 37 -> 20, 420 -> 200, 0.9 -> 0.5.
func NiceStep(span float64) (float64, error) {
	if !(span > 0) || math.IsInf(span, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSpan, span)
	}
	exp := math.Floor(math.Log10(span))
	m := span / math.Pow(10, exp)
	var r float64
	switch {
	case m <= 2:
		r = 1
	case m <= 5:
		r = 2
	default:
		r = 5
	}
	return r * math.Pow(10, exp), nil
}

// Interval is the distance between markers for a course of the given span: one decade
// finer than NiceStep, giving roughly ten to twenty markers.
func Interval(span float64) (float64, error) {
	step, err := NiceStep(span)
	if err != nil {
		return 0, err
	}
	return step / 10, nil
}

// Decimals is the number of fractional digits needed to print multiples of interval.
func Decimals(interval float64) int {
	e := -int(math.Floor(math.Log10(interval)))
	if e > 0 {
		return e
	}
	return 0
}

// Label formats a marker distance with the precision its interval needs.
func Label(value, interval float64) string {
	return fmt.Sprintf("%.*f", Decimals(interval), value)
}

// Place puts a marker on the first sample past each multiple of interval, starting with
// the first multiple strictly beyond the first sample. At most one marker is placed per
// sample.
func Place(distances []float64, interval float64) []Marker {
	if len(distances) == 0 || !(interval > 0) {
		return nil
	}
	next := (math.Floor(distances[0]/interval) + 1) * interval
	var out []Marker
	for i, d := range distances {
		if next < d {
			out = append(out, Marker{Index: i, Distance: next, Label: Label(next, interval)})
			next += interval
		}
	}
	return out
}

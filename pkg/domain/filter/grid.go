package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
)

// NoData marks a grid cell that received no samples.
var NoData = math.NaN()

var ErrDegenerateGrid = errors.New("grid needs a positive span")

// Grid buckets planar samples into resolution x resolution cells over a bounding box.
// Each sample also contributes to the cells within Overlap cells of its own.
type Grid struct {
	Resolution int
	Overlap    int

	west   float64
	south  float64
	span   float64
	sums   []float64
	counts []int
}

func NewGrid(box geometry.Box, resolution, overlap int) (*Grid, error) {
	if resolution < 1 {
		return nil, fmt.Errorf("grid resolution must be at least 1, got %d", resolution)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("grid overlap must not be negative, got %d", overlap)
	}
	if !(box.Span > 0) {
		return nil, ErrDegenerateGrid
	}
	cells := resolution * resolution
	return &Grid{
		Resolution: resolution,
		Overlap:    overlap,
		west:       box.West,
		south:      box.South,
		span:       box.Span,
		sums:       make([]float64, cells),
		counts:     make([]int, cells),
	}, nil
}

// Cell returns the column and row holding a planar point, clamped to the grid.
func (g *Grid) Cell(x, y float64) (col, row int) {
	col = g.index((x - g.west) / g.span)
	row = g.index((y - g.south) / g.span)
	return col, row
}

func (g *Grid) index(frac float64) int {
	i := int(math.Floor(frac * float64(g.Resolution)))
	if i < 0 {
		return 0
	}
	if i >= g.Resolution {
		return g.Resolution - 1
	}
	return i
}

func (g *Grid) Add(x, y, value float64) {
	col, row := g.Cell(x, y)
	for r := row - g.Overlap; r <= row+g.Overlap; r++ {
		if r < 0 || r >= g.Resolution {
			continue
		}
		for c := col - g.Overlap; c <= col+g.Overlap; c++ {
			if c < 0 || c >= g.Resolution {
				continue
			}
			g.sums[r*g.Resolution+c] += value
			g.counts[r*g.Resolution+c]++
		}
	}
}

// Mean returns the average of a cell, or NoData and false for an empty cell.
func (g *Grid) Mean(col, row int) (float64, bool) {
	if col < 0 || col >= g.Resolution || row < 0 || row >= g.Resolution {
		return NoData, false
	}
	i := row*g.Resolution + col
	if g.counts[i] == 0 {
		return NoData, false
	}
	return g.sums[i] / float64(g.counts[i]), true
}

// Populated counts the cells holding at least one sample.
func (g *Grid) Populated() int {
	n := 0
	for _, c := range g.counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// SpatialAverage replaces each value with the mean of all values recorded in the same
// (overlapping) grid cell, so passes over the same ground agree with each other.
func SpatialAverage(xs, ys, values []float64, box geometry.Box, resolution, overlap int) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}
	if len(xs) != len(values) || len(ys) != len(values) {
		return nil, fmt.Errorf("coordinate and value lengths differ: %d, %d, %d", len(xs), len(ys), len(values))
	}
	g, err := NewGrid(box, resolution, overlap)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: NaN at index %d", ErrNoData, i)
		}
		g.Add(xs[i], ys[i], v)
	}

	out := make([]float64, len(values))
	for i := range values {
		col, row := g.Cell(xs[i], ys[i])
		mean, ok := g.Mean(col, row)
		if !ok {
			// unreachable while every sample feeds its own cell
			mean = values[i]
		}
		out[i] = mean
	}
	return out, nil
}

package coursemap

import (
	"errors"
	"fmt"

	"github.com/fitglue/coursemap/pkg/domain/colorscale"
	"github.com/fitglue/coursemap/pkg/domain/filter"
	"github.com/fitglue/coursemap/pkg/domain/geometry"
	"github.com/fitglue/coursemap/pkg/domain/markers"
	"github.com/fitglue/coursemap/pkg/domain/track"
)

var ErrDegenerateGeometry = errors.New("course has no horizontal extent")

// Course is a track annotated with everything a renderer needs. Per-sample slices are
// aligned with Track.Samples.
type Course struct {
	Config Config
	// Track is the windowed copy the annotations refer to.
	Track *track.Track
	// X and Y are kilometres east and north of the first sample.
	X []float64
	Y []float64
	// Altitude is the filtered altitude in metres.
	Altitude []float64
	// Color holds colour-scale positions in [0, 1].
	Color     []float64
	ColorFlat bool

	Layout         *geometry.Layout
	Markers        []markers.Marker
	MarkerInterval float64
	Farthest       geometry.Farthest
}

// Build turns a parsed track into an annotated course. The input track is not modified.
func Build(t *track.Track, cfg Config) (*Course, error) {
	if t == nil {
		return nil, track.ErrEmptyTrack
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track: %w", err)
	}

	view, err := t.Window(cfg.PlotStart, cfg.PlotFinish)
	if err != nil {
		return nil, err
	}
	if !cfg.NegativeAltitudeAllowed {
		for i := range view.Samples {
			if view.Samples[i].Altitude < 0 {
				view.Samples[i].Altitude = 0
			}
		}
	}

	layout, err := geometry.Compute(view.Samples, cfg.OversizeRatio)
	if err != nil {
		return nil, err
	}
	if layout.Degenerate() {
		return nil, ErrDegenerateGeometry
	}

	c := &Course{Config: cfg, Track: view, Layout: layout}
	c.X, c.Y = layout.Frame.ProjectAll(view.Samples)

	if c.Altitude, err = filterAltitude(view, c.X, c.Y, layout.Box, cfg); err != nil {
		return nil, fmt.Errorf("altitude filter: %w", err)
	}
	if err := c.colorize(); err != nil {
		return nil, err
	}

	distKm := make([]float64, view.Len())
	for i, s := range view.Samples {
		distKm[i] = s.Distance / 1000
	}
	if span := view.CourseDistance() / 1000; span > 0 {
		interval, err := markers.Interval(span)
		if err != nil {
			return nil, err
		}
		c.MarkerInterval = interval
		c.Markers = markers.Place(distKm, interval)
	}

	if c.Farthest, err = geometry.FarthestPoint(view.Samples, layout.Frame); err != nil {
		return nil, err
	}
	return c, nil
}

func filterAltitude(t *track.Track, xs, ys []float64, box geometry.Box, cfg Config) ([]float64, error) {
	alt, _, err := t.Series(track.ColumnAltitude)
	if err != nil {
		return nil, err
	}
	mode, err := filter.ParseMode(string(cfg.AltitudeFilter))
	if err != nil {
		return nil, err
	}
	switch mode {
	case filter.ModeAverage:
		return filter.Smooth(alt, cfg.AveragingWindow)
	case filter.ModeSpatialAverage:
		averaged, err := filter.SpatialAverage(xs, ys, alt, box, cfg.GridResolution, cfg.GridOverlap)
		if err != nil {
			return nil, err
		}
		return filter.Smooth(averaged, cfg.AveragingWindow)
	default:
		return alt, nil
	}
}

func (c *Course) colorize() error {
	if c.Config.ColorChannel == "" {
		c.Color = colorscale.Progress(c.Track.Len())
		return nil
	}
	series, _, err := c.Track.Series(c.Config.ColorChannel)
	if err != nil {
		return fmt.Errorf("colour channel: %w", err)
	}
	series, err = filter.FillGaps(series)
	if err != nil {
		return fmt.Errorf("colour channel %s: %w", c.Config.ColorChannel, err)
	}
	scale, err := colorscale.Normalize(series, colorscale.Options{Log: c.Config.ColorLog, Window: c.Config.ColorWindow})
	if err != nil {
		return fmt.Errorf("colour channel %s: %w", c.Config.ColorChannel, err)
	}
	c.Color = scale.Values
	c.ColorFlat = scale.Flat
	return nil
}

// Len is the number of plotted samples.
func (c *Course) Len() int {
	return c.Track.Len()
}

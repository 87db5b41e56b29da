package coursemap

import (
	"fmt"
	"math"

	"github.com/fitglue/coursemap/pkg/domain/filter"
	"github.com/fitglue/coursemap/pkg/domain/geometry"
)

// Config holds every tunable of the course pipeline. It is passed explicitly to Build.
type Config struct {
	AltitudeFilter          filter.Mode `mapstructure:"altitude_filter_mode"`
	NegativeAltitudeAllowed bool        `mapstructure:"negative_altitude_allowed"`
	// PlotStart and PlotFinish limit the plotted part of the course, in kilometres.
	PlotStart       float64 `mapstructure:"plot_start_distance"`
	PlotFinish      float64 `mapstructure:"plot_finish_distance"`
	OversizeRatio   float64 `mapstructure:"oversize_ratio"`
	AveragingWindow int     `mapstructure:"averaging_window_length"`
	GridResolution  int     `mapstructure:"grid_resolution"`
	GridOverlap     int     `mapstructure:"grid_overlap"`
	// ColorChannel names the series the course is coloured by; empty colours by progress.
	ColorChannel string `mapstructure:"color_channel"`
	ColorLog     bool   `mapstructure:"color_log"`
	ColorWindow  int    `mapstructure:"color_window"`
}

func DefaultConfig() Config {
	return Config{
		AltitudeFilter:  filter.ModeOff,
		PlotStart:       0,
		PlotFinish:      math.Inf(1),
		OversizeRatio:   geometry.DefaultOversizeRatio,
		AveragingWindow: 30,
		GridResolution:  300,
		GridOverlap:     2,
		ColorWindow:     120,
	}
}

func (c Config) Validate() error {
	if _, err := filter.ParseMode(string(c.AltitudeFilter)); err != nil {
		return err
	}
	if c.PlotStart < 0 || math.IsNaN(c.PlotStart) {
		return fmt.Errorf("plot start %v km must not be negative", c.PlotStart)
	}
	if !(c.PlotFinish >= c.PlotStart) {
		return fmt.Errorf("plot finish %v km must not precede plot start %v km", c.PlotFinish, c.PlotStart)
	}
	if !(c.OversizeRatio > 0) {
		return fmt.Errorf("oversize ratio must be positive, got %v", c.OversizeRatio)
	}
	if c.AveragingWindow < 1 {
		return fmt.Errorf("averaging window must be at least 1, got %d", c.AveragingWindow)
	}
	if c.GridResolution < 1 {
		return fmt.Errorf("grid resolution must be at least 1, got %d", c.GridResolution)
	}
	if c.GridOverlap < 0 {
		return fmt.Errorf("grid overlap must not be negative, got %d", c.GridOverlap)
	}
	if c.ColorWindow < 0 {
		return fmt.Errorf("colour window must not be negative, got %d", c.ColorWindow)
	}
	return nil
}

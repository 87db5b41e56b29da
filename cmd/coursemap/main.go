package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"
	"path"
	"strings"

	"github.com/fitglue/coursemap/pkg/bootstrap"
	"github.com/fitglue/coursemap/pkg/coursemap"
	"github.com/fitglue/coursemap/pkg/domain/filter"
	"github.com/fitglue/coursemap/pkg/domain/loader"
	"github.com/fitglue/coursemap/pkg/domain/maptiles"
	"github.com/fitglue/coursemap/pkg/domain/units"
	"github.com/fitglue/coursemap/pkg/framework"
	"github.com/fitglue/coursemap/pkg/infrastructure/storage"
	"github.com/fitglue/coursemap/pkg/render"
)

const footnote = "plotted by coursemap"

type options struct {
	input      string
	output     string
	jsonOutput string
	configPath string

	elevation    float64
	azimuth      float64
	curtainAlpha float64
	mapAlpha     float64
	width        int

	verbose       bool
	quiet         bool
	noMap         bool
	mapResolution string

	// set holds the names of flags given on the command line, so only those override
	// config file values.
	set    map[string]bool
	course coursemap.Config
}

func parseFlags(args []string) (*options, error) {
	o := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("coursemap", flag.ContinueOnError)

	d := render.DefaultOptions()
	c := coursemap.DefaultConfig()
	alt := string(c.AltitudeFilter)

	fs.Float64Var(&o.elevation, "elevation", d.Elevation, "view setting: elevation in degrees")
	fs.Float64Var(&o.elevation, "e", d.Elevation, "shorthand for -elevation")
	fs.Float64Var(&o.azimuth, "azimuth", d.Azimuth, "view setting: azimuth in degrees")
	fs.Float64Var(&o.azimuth, "a", d.Azimuth, "shorthand for -azimuth")
	fs.Float64Var(&o.mapAlpha, "map-alpha", d.MapAlpha, "view setting: map alpha on base")
	fs.Float64Var(&o.mapAlpha, "b", d.MapAlpha, "shorthand for -map-alpha")
	fs.Float64Var(&o.curtainAlpha, "curtain-alpha", d.CurtainAlpha, "view setting: curtain alpha")
	fs.Float64Var(&o.curtainAlpha, "c", d.CurtainAlpha, "shorthand for -curtain-alpha")
	fs.IntVar(&o.width, "size", d.Width, "output image edge in pixels")

	fs.StringVar(&o.output, "o", "", "output PNG (local path or gs://bucket/object); default is the input name with .png")
	fs.StringVar(&o.jsonOutput, "json", "", "also write the plot attributes as JSON to this location")
	fs.StringVar(&o.configPath, "config", "", "YAML config file")

	fs.BoolVar(&o.verbose, "v", false, "verbose mode")
	fs.BoolVar(&o.quiet, "q", false, "quiet mode")
	fs.StringVar(&o.mapResolution, "map-resolution", "low", "map resolution: low, mid or high")
	fs.StringVar(&o.mapResolution, "m", "low", "shorthand for -map-resolution")
	fs.BoolVar(&o.noMap, "no-map", false, "no map underlay")
	fs.BoolVar(&o.noMap, "n", false, "shorthand for -no-map")

	fs.Float64Var(&o.course.PlotStart, "start", c.PlotStart, "plot start distance in km")
	fs.Float64Var(&o.course.PlotFinish, "fin", c.PlotFinish, "plot finish distance in km")
	fs.StringVar(&alt, "alt-filter", alt, "altitude filter: off, average or spatial-average")
	fs.BoolVar(&o.course.NegativeAltitudeAllowed, "negative-altitude", c.NegativeAltitudeAllowed, "keep altitudes below zero")
	fs.Float64Var(&o.course.OversizeRatio, "oversize", c.OversizeRatio, "plot box size relative to the course extent")
	fs.IntVar(&o.course.AveragingWindow, "window", c.AveragingWindow, "altitude averaging window in samples")
	fs.IntVar(&o.course.GridResolution, "grid", c.GridResolution, "spatial averaging grid cells per side")
	fs.IntVar(&o.course.GridOverlap, "overlap", c.GridOverlap, "spatial averaging neighbourhood in cells")
	fs.StringVar(&o.course.ColorChannel, "color", c.ColorChannel, "colour the course by this channel instead of progress")
	fs.BoolVar(&o.course.ColorLog, "color-log", c.ColorLog, "log-scale the colour channel")
	fs.IntVar(&o.course.ColorWindow, "color-window", c.ColorWindow, "colour channel smoothing window in samples")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: coursemap [flags] <input.fit|input.gpx>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[canonical(f.Name)] = true })

	mode, err := filter.ParseMode(alt)
	if err != nil {
		return nil, err
	}
	o.course.AltitudeFilter = mode

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("exactly one input file is required")
	}
	o.input = fs.Arg(0)

	if o.verbose && o.quiet {
		return nil, errors.New("-v and -q are mutually exclusive")
	}
	if o.noMap && o.set["map-resolution"] {
		return nil, errors.New("-m and -n are mutually exclusive")
	}
	if _, err := maptiles.ParseResolution(o.mapResolution); err != nil {
		return nil, err
	}
	return o, nil
}

func canonical(name string) string {
	switch name {
	case "e":
		return "elevation"
	case "a":
		return "azimuth"
	case "b":
		return "map-alpha"
	case "c":
		return "curtain-alpha"
	case "m":
		return "map-resolution"
	case "n":
		return "no-map"
	default:
		return name
	}
}

// merge applies command line values over the configured course settings.
func (o *options) merge(cfg coursemap.Config) coursemap.Config {
	for name, apply := range map[string]func(){
		"start":             func() { cfg.PlotStart = o.course.PlotStart },
		"fin":               func() { cfg.PlotFinish = o.course.PlotFinish },
		"alt-filter":        func() { cfg.AltitudeFilter = o.course.AltitudeFilter },
		"negative-altitude": func() { cfg.NegativeAltitudeAllowed = o.course.NegativeAltitudeAllowed },
		"oversize":          func() { cfg.OversizeRatio = o.course.OversizeRatio },
		"window":            func() { cfg.AveragingWindow = o.course.AveragingWindow },
		"grid":              func() { cfg.GridResolution = o.course.GridResolution },
		"overlap":           func() { cfg.GridOverlap = o.course.GridOverlap },
		"color":             func() { cfg.ColorChannel = o.course.ColorChannel },
		"color-log":         func() { cfg.ColorLog = o.course.ColorLog },
		"color-window":      func() { cfg.ColorWindow = o.course.ColorWindow },
	} {
		if o.set[name] {
			apply()
		}
	}
	return cfg
}

// defaultOutput swaps the input extension for .png, next to the input.
func defaultOutput(in storage.Location) storage.Location {
	out := in
	out.Object = strings.TrimSuffix(in.Object, path.Ext(in.Object)) + ".png"
	return out
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := bootstrap.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.Course = opts.merge(cfg.Course)

	level := bootstrap.ParseLevel(cfg.LogLevel)
	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelWarn
	}
	logger := bootstrap.NewLogger(os.Stderr, "coursemap", level)

	ctx := context.Background()
	svc, err := bootstrap.NewService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Service init failed", "error", err)
		os.Exit(1)
	}

	var stdout io.Writer = os.Stdout
	if opts.quiet {
		stdout = io.Discard
	}
	err = framework.Run(ctx, "coursemap", svc, func(ctx context.Context, fwCtx *framework.FrameworkContext) (map[string]interface{}, error) {
		return plot(ctx, fwCtx, opts, stdout)
	})
	if err != nil {
		os.Exit(1)
	}
}

func plot(ctx context.Context, fwCtx *framework.FrameworkContext, opts *options, stdout io.Writer) (map[string]interface{}, error) {
	svc := fwCtx.Service
	log := fwCtx.Logger
	outputs := map[string]interface{}{"input": opts.input}

	in, err := storage.ParseLocation(opts.input)
	if err != nil {
		return outputs, err
	}
	t, err := loader.Load(ctx, svc.Store, in)
	if err != nil {
		return outputs, err
	}
	log.Debug("Loaded track", "samples", t.Len(), "channels", t.ChannelNames())

	course, err := coursemap.Build(t, svc.Config.Course)
	if err != nil {
		return outputs, fmt.Errorf("building course: %w", err)
	}
	outputs["samples"] = course.Len()
	printReport(stdout, course)
	log.Debug("Distance marker interval", "km", course.MarkerInterval, "markers", len(course.Markers))

	var underlay image.Image
	if !opts.noMap {
		underlay, err = mapUnderlay(ctx, fwCtx, course, opts)
		if err != nil {
			return outputs, err
		}
	}

	info, err := coursemap.Summary(t.Session, course.Layout, svc.Zones)
	if err != nil {
		return outputs, err
	}

	ro := render.DefaultOptions()
	ro.Width, ro.Height = opts.width, opts.width
	ro.Elevation, ro.Azimuth = opts.elevation, opts.azimuth
	ro.CurtainAlpha, ro.MapAlpha = opts.curtainAlpha, opts.mapAlpha
	ro.Title = fmt.Sprintf("course plot by %q", path.Base(in.Object))
	ro.Info = coursemap.Title(t.Session) + "\n" + info
	ro.Footnote = footnote

	img, err := render.Render(course, underlay, ro)
	if err != nil {
		return outputs, fmt.Errorf("rendering: %w", err)
	}
	png, err := render.EncodePNG(img)
	if err != nil {
		return outputs, err
	}

	out := defaultOutput(in)
	if opts.output != "" {
		if out, err = storage.ParseLocation(opts.output); err != nil {
			return outputs, err
		}
	}
	if err := svc.Store.Write(ctx, out, png); err != nil {
		return outputs, fmt.Errorf("writing %s: %w", out, err)
	}
	outputs["output"] = out.String()
	fmt.Fprintf(stdout, "output to file %s\n", out)

	if opts.jsonOutput != "" {
		loc, err := storage.ParseLocation(opts.jsonOutput)
		if err != nil {
			return outputs, err
		}
		data, err := json.MarshalIndent(course.Attributes(), "", "  ")
		if err != nil {
			return outputs, err
		}
		if err := svc.Store.Write(ctx, loc, data); err != nil {
			return outputs, fmt.Errorf("writing %s: %w", loc, err)
		}
		outputs["attributes"] = loc.String()
	}
	return outputs, nil
}

func mapUnderlay(ctx context.Context, fwCtx *framework.FrameworkContext, course *coursemap.Course, opts *options) (image.Image, error) {
	svc := fwCtx.Service
	if svc.Tiles == nil {
		fwCtx.Logger.Info("No tile source configured, drawing without map")
		return nil, nil
	}
	res, err := maptiles.ParseResolution(opts.mapResolution)
	if err != nil {
		return nil, err
	}
	l := course.Layout
	zoom, err := maptiles.SelectZoom(l.Box.Span, l.Frame.Ch, l.Frame.Rcv, res)
	if err != nil {
		return nil, err
	}
	fwCtx.Logger.Debug("Requested map size", "pixels", int(res), "span_km", zoom.SpanKm)
	fwCtx.Logger.Info("Map underlay", "zoom_level", zoom.Level, "size", zoom.Size)

	u, err := maptiles.Compose(ctx, svc.Tiles, l.PaddedDegrees(), zoom)
	if err != nil {
		return nil, fmt.Errorf("map underlay: %w", err)
	}
	if u.Missing > 0 {
		fwCtx.Logger.Warn("Map tiles missing", "missing", u.Missing, "tiles", u.Tiles)
	}
	return u.Image, nil
}

func printReport(w io.Writer, c *coursemap.Course) {
	l := c.Layout
	fmt.Fprintln(w, "plot values:")
	fmt.Fprintf(w, "  latitude  - north  : %+.5f° as %+.3fkm\n", l.Degrees.North, l.Box.North)
	fmt.Fprintf(w, "            - south  : %+.5f° as %+.3fkm\n", l.Degrees.South, l.Box.South)
	fmt.Fprintf(w, "  longitude - east   : %+.5f° as %+.3fkm\n", l.Degrees.East, l.Box.East)
	fmt.Fprintf(w, "            - west   : %+.5f° as %+.3fkm\n", l.Degrees.West, l.Box.West)
	fmt.Fprintf(w, "  altitude  - top    : %.1fm\n", l.Box.Top)
	fmt.Fprintf(w, "            - bottom : %.1fm\n", l.Box.Bottom)
	km := (l.Fin - l.Start) / 1000
	fmt.Fprintf(w, "  course distance    : %skm\n", units.FormatNumber(km, 3))
	fmt.Fprintf(w, "  samples            : %s\n", units.FormatCount(c.Len()))
	if !math.IsNaN(c.Farthest.GreatCircleKm) {
		fmt.Fprintf(w, "  farthest point     : %.3fkm from start (sample %d)\n", c.Farthest.GreatCircleKm, c.Farthest.Index)
	}
}

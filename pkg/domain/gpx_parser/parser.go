package gpx_parser

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/domain/units"
)

// ParseGPXFile reads and parses a GPX track log from disk.
func ParseGPXFile(path string) (*track.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GPX file: %w", err)
	}
	return ParseGPX(data)
}

// ParseGPX parses the first track of a GPX document into a Track.
// Distance is accumulated along the great circle between consecutive points and a speed
// channel is derived wherever timestamps allow it.
func ParseGPX(data []byte) (*track.Track, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty GPX data")
	}
	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}
	if len(gpxFile.Tracks) == 0 {
		return nil, fmt.Errorf("no tracks in GPX file: %w", track.ErrEmptyTrack)
	}
	gpxTrack := gpxFile.Tracks[0]

	builder := track.NewBuilder()
	var prev *gpx.GPXPoint
	var dist float64
	for _, segment := range gpxTrack.Segments {
		for i := range segment.Points {
			p := &segment.Points[i]

			r := track.NewRecord(p.Timestamp.UTC())
			r.Lat, r.Long = p.Latitude, p.Longitude
			if p.Elevation.NotNull() {
				r.Altitude = p.Elevation.Value()
			}

			speed := math.NaN()
			if prev != nil {
				step := geometry.GreatCircle(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
				dist += step
				if !p.Timestamp.IsZero() && !prev.Timestamp.IsZero() {
					if dt := p.Timestamp.Sub(prev.Timestamp).Seconds(); dt > 0 {
						speed = step / dt
					}
				}
			}
			r.Distance = dist
			r.Extras = map[string]units.Quantity{
				track.ChannelSpeed: units.Q(speed, units.MetersPerSecond),
			}
			builder.Add(r)
			prev = p
		}
	}

	if builder.Len() == 0 {
		return nil, fmt.Errorf("GPX track has no points: %w", track.ErrEmptyTrack)
	}
	t, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}

	t.Session.Sport = sportFromType(gpxTrack.Type)
	t.Session.Name = gpxTrack.Name
	t.SummariseSession()
	return t, nil
}

func sportFromType(kind string) track.Sport {
	k := strings.ToLower(kind)
	switch {
	case k == "":
		return track.SportUnknown
	case strings.Contains(k, "trail"):
		return track.SportTrailRunning
	case strings.Contains(k, "run"):
		return track.SportRunning
	case strings.Contains(k, "mountain"):
		return track.SportMountainBiking
	case strings.Contains(k, "cycl"), strings.Contains(k, "bik"), strings.Contains(k, "ride"):
		return track.SportCycling
	case strings.Contains(k, "walk"):
		return track.SportWalking
	case strings.Contains(k, "hik"):
		return track.SportHiking
	case strings.Contains(k, "swim"):
		return track.SportSwimming
	default:
		return track.SportOther
	}
}

package track

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fitglue/coursemap/pkg/domain/units"
)

// Required column names.
const (
	ColumnLatitude  = "latitude"
	ColumnLongitude = "longitude"
	ColumnAltitude  = "altitude"
	ColumnDistance  = "distance"
)

// Well-known optional channels.
const (
	ChannelSpeed     = "speed"
	ChannelHeartRate = "heart_rate"
	ChannelPower     = "power"
	ChannelCadence   = "cadence"
)

var (
	ErrEmptyTrack    = errors.New("track has no samples")
	ErrMissingColumn = errors.New("missing required column")
	ErrUnknownSeries = errors.New("unknown series")
)

// MissingColumnError names the required column the source never provided.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// Sample is one point of a recorded activity.
// Lat/Long are decimal degrees, Altitude is metres and Distance is cumulative metres.
type Sample struct {
	Timestamp time.Time
	Lat       float64
	Long      float64
	Altitude  float64
	Distance  float64
}

// Channel is an optional per-sample series. NaN marks a sample without a value.
type Channel struct {
	Name   string
	Unit   units.Unit
	Values []float64
}

// Session summarises the whole activity.
type Session struct {
	Sport          Sport
	SubSport       string
	Name           string
	StartTime      time.Time
	TotalDistance  float64
	TotalTimerTime time.Duration
	AvgSpeed       float64

	NorthLat  float64
	SouthLat  float64
	EastLong  float64
	WestLong  float64
	HasBounds bool
}

// Track is an ordered sequence of samples plus its optional channels and session summary.
type Track struct {
	Samples  []Sample
	Channels map[string]*Channel
	Session  Session
}

func (t *Track) Len() int {
	return len(t.Samples)
}

func (t *Track) First() Sample {
	return t.Samples[0]
}

func (t *Track) Last() Sample {
	return t.Samples[len(t.Samples)-1]
}

// CourseDistance is the distance covered between the first and last sample, in metres.
func (t *Track) CourseDistance() float64 {
	if len(t.Samples) == 0 {
		return 0
	}
	return t.Last().Distance - t.First().Distance
}

// Validate checks the invariants every consumer relies on.
func (t *Track) Validate() error {
	if len(t.Samples) == 0 {
		return ErrEmptyTrack
	}
	for i, s := range t.Samples {
		if math.IsNaN(s.Lat) || s.Lat < -90 || s.Lat > 90 {
			return fmt.Errorf("sample %d: latitude %v out of range", i, s.Lat)
		}
		if math.IsNaN(s.Long) || s.Long < -180 || s.Long > 180 {
			return fmt.Errorf("sample %d: longitude %v out of range", i, s.Long)
		}
		if math.IsNaN(s.Altitude) || math.IsNaN(s.Distance) {
			return fmt.Errorf("sample %d: altitude or distance missing", i)
		}
		if i > 0 && s.Distance < t.Samples[i-1].Distance {
			return fmt.Errorf("sample %d: distance decreases from %v to %v", i, t.Samples[i-1].Distance, s.Distance)
		}
	}
	for name, ch := range t.Channels {
		if len(ch.Values) != len(t.Samples) {
			return fmt.Errorf("channel %s has %d values for %d samples", name, len(ch.Values), len(t.Samples))
		}
	}
	return nil
}

// Window returns a new track holding the samples whose distance lies within [startKm, finKm].
// The receiver is left untouched.
func (t *Track) Window(startKm, finKm float64) (*Track, error) {
	if finKm < startKm {
		return nil, fmt.Errorf("window finish %v km before start %v km", finKm, startKm)
	}
	startM, finM := startKm*1000, finKm*1000

	var keep []int
	for i, s := range t.Samples {
		if s.Distance >= startM && s.Distance <= finM {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("no samples between %v km and %v km: %w", startKm, finKm, ErrEmptyTrack)
	}

	out := &Track{
		Samples:  make([]Sample, len(keep)),
		Channels: make(map[string]*Channel, len(t.Channels)),
		Session:  t.Session,
	}
	for j, i := range keep {
		out.Samples[j] = t.Samples[i]
	}
	for name, ch := range t.Channels {
		values := make([]float64, len(keep))
		for j, i := range keep {
			values[j] = ch.Values[i]
		}
		out.Channels[name] = &Channel{Name: ch.Name, Unit: ch.Unit, Values: values}
	}
	return out, nil
}

// Series returns a copy of a column by name, either a sample field or an optional channel.
func (t *Track) Series(name string) ([]float64, units.Unit, error) {
	out := make([]float64, len(t.Samples))
	var unit units.Unit
	switch name {
	case ColumnLatitude:
		unit = units.Degrees
		for i, s := range t.Samples {
			out[i] = s.Lat
		}
	case ColumnLongitude:
		unit = units.Degrees
		for i, s := range t.Samples {
			out[i] = s.Long
		}
	case ColumnAltitude:
		unit = units.Meters
		for i, s := range t.Samples {
			out[i] = s.Altitude
		}
	case ColumnDistance:
		unit = units.Meters
		for i, s := range t.Samples {
			out[i] = s.Distance
		}
	default:
		ch, ok := t.Channels[name]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrUnknownSeries, name)
		}
		copy(out, ch.Values)
		unit = ch.Unit
	}
	return out, unit, nil
}

// ChannelNames lists the optional channels present on the track.
func (t *Track) ChannelNames() []string {
	names := make([]string, 0, len(t.Channels))
	for _, n := range []string{ChannelSpeed, ChannelHeartRate, ChannelPower, ChannelCadence} {
		if _, ok := t.Channels[n]; ok {
			names = append(names, n)
		}
	}
	for n := range t.Channels {
		switch n {
		case ChannelSpeed, ChannelHeartRate, ChannelPower, ChannelCadence:
		default:
			names = append(names, n)
		}
	}
	return names
}

// SummariseSession fills the session fields that can be derived from the samples alone.
// Fields the source already provided are kept.
func (t *Track) SummariseSession() {
	if len(t.Samples) == 0 {
		return
	}
	s := &t.Session
	if !s.HasBounds {
		s.NorthLat, s.SouthLat = t.Samples[0].Lat, t.Samples[0].Lat
		s.EastLong, s.WestLong = t.Samples[0].Long, t.Samples[0].Long
		for _, p := range t.Samples[1:] {
			s.NorthLat = math.Max(s.NorthLat, p.Lat)
			s.SouthLat = math.Min(s.SouthLat, p.Lat)
			s.EastLong = math.Max(s.EastLong, p.Long)
			s.WestLong = math.Min(s.WestLong, p.Long)
		}
		s.HasBounds = true
	}
	if s.StartTime.IsZero() {
		s.StartTime = t.First().Timestamp
	}
	if s.TotalTimerTime == 0 && !t.First().Timestamp.IsZero() {
		s.TotalTimerTime = t.Last().Timestamp.Sub(t.First().Timestamp)
	}
	if s.TotalDistance == 0 {
		s.TotalDistance = t.Last().Distance
	}
	if s.AvgSpeed == 0 {
		if ch, ok := t.Channels[ChannelSpeed]; ok {
			var sum float64
			var n int
			for _, v := range ch.Values {
				if !math.IsNaN(v) {
					sum += v
					n++
				}
			}
			if n > 0 {
				s.AvgSpeed = sum / float64(n)
			}
		} else if secs := s.TotalTimerTime.Seconds(); secs > 0 {
			s.AvgSpeed = s.TotalDistance / secs
		}
	}
}

package track

import (
	"math"
	"time"

	"github.com/fitglue/coursemap/pkg/domain/units"
)

// Record is one raw reading handed to a Builder. Absent required values are NaN.
type Record struct {
	Timestamp time.Time
	Lat       float64
	Long      float64
	Altitude  float64
	Distance  float64
	Extras    map[string]units.Quantity
}

// NewRecord returns a record with every required value marked absent.
func NewRecord(ts time.Time) Record {
	nan := math.NaN()
	return Record{Timestamp: ts, Lat: nan, Long: nan, Altitude: nan, Distance: nan}
}

// Builder accumulates raw records and produces a Track holding only complete samples.
type Builder struct {
	records []Record
	seen    map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

func (b *Builder) Add(r Record) {
	if !math.IsNaN(r.Lat) {
		b.seen[ColumnLatitude] = true
	}
	if !math.IsNaN(r.Long) {
		b.seen[ColumnLongitude] = true
	}
	if !math.IsNaN(r.Altitude) {
		b.seen[ColumnAltitude] = true
	}
	if !math.IsNaN(r.Distance) {
		b.seen[ColumnDistance] = true
	}
	b.records = append(b.records, r)
}

func (b *Builder) Len() int {
	return len(b.records)
}

// Build drops incomplete records and returns the track. A required column that no record
// ever carried fails with MissingColumnError.
func (b *Builder) Build() (*Track, error) {
	if len(b.records) == 0 {
		return nil, ErrEmptyTrack
	}
	for _, col := range []string{ColumnDistance, ColumnAltitude, ColumnLongitude, ColumnLatitude} {
		if !b.seen[col] {
			return nil, &MissingColumnError{Column: col}
		}
	}

	t := &Track{Channels: make(map[string]*Channel)}
	for _, r := range b.records {
		if math.IsNaN(r.Lat) || math.IsNaN(r.Long) || math.IsNaN(r.Altitude) || math.IsNaN(r.Distance) {
			continue
		}
		idx := len(t.Samples)
		t.Samples = append(t.Samples, Sample{
			Timestamp: r.Timestamp,
			Lat:       r.Lat,
			Long:      r.Long,
			Altitude:  r.Altitude,
			Distance:  r.Distance,
		})

		for name, q := range r.Extras {
			ch, ok := t.Channels[name]
			if !ok {
				ch = &Channel{Name: name, Unit: q.Unit, Values: make([]float64, idx)}
				for i := range ch.Values {
					ch.Values[i] = math.NaN()
				}
				t.Channels[name] = ch
			} else if ch.Unit != q.Unit {
				return nil, &units.UnitMismatchError{Converter: "channel " + name, Want: ch.Unit, Got: q.Unit}
			}
			ch.Values = append(ch.Values, q.Value)
		}
		for _, ch := range t.Channels {
			if len(ch.Values) < idx+1 {
				ch.Values = append(ch.Values, math.NaN())
			}
		}
	}

	if len(t.Samples) == 0 {
		return nil, ErrEmptyTrack
	}
	return t, nil
}

// Package fixtures builds synthetic tracks for tests.
package fixtures

import (
	"math"
	"time"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/domain/units"
)

// Start is the timestamp of the first sample of every fixture.
var Start = time.Date(2024, 4, 7, 6, 30, 0, 0, time.UTC)

// FromPoints builds a track from lat/long/altitude triples, one second apart, with
// cumulative great-circle distance.
func FromPoints(lats, longs, alts []float64) *track.Track {
	b := track.NewBuilder()
	dist := 0.0
	for i := range lats {
		if i > 0 {
			dist += geometry.GreatCircle(lats[i-1], longs[i-1], lats[i], longs[i])
		}
		r := track.NewRecord(Start.Add(time.Duration(i) * time.Second))
		r.Lat, r.Long, r.Altitude, r.Distance = lats[i], longs[i], alts[i], dist
		b.Add(r)
	}
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	t.Session.Sport = track.SportRunning
	t.SummariseSession()
	return t
}

// FiveSample is a short out-and-back whose midpoint is the farthest sample.
func FiveSample() *track.Track {
	return FromPoints(
		[]float64{35.0, 35.001, 35.002, 35.001, 35.0},
		[]float64{139.0, 139.001, 139.002, 139.001, 139.0},
		[]float64{10, 12, 15, 12, 10},
	)
}

// Loop is a roughly circular course of n samples around Tokyo with a rolling altitude
// profile, a speed channel and a heart rate channel that has a gap.
func Loop(n int) *track.Track {
	b := track.NewBuilder()
	const radius = 0.01
	var prevLat, prevLong, dist float64
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		lat := 35.68 + radius*math.Sin(theta)
		long := 139.76 + radius*math.Cos(theta)*1.2
		if i > 0 {
			dist += geometry.GreatCircle(prevLat, prevLong, lat, long)
		}
		prevLat, prevLong = lat, long

		r := track.NewRecord(Start.Add(time.Duration(i) * 5 * time.Second))
		r.Lat, r.Long, r.Distance = lat, long, dist
		r.Altitude = 40 + 15*math.Sin(3*theta)
		r.Extras = map[string]units.Quantity{
			track.ChannelSpeed: units.Q(3+math.Sin(theta), units.MetersPerSecond),
		}
		if i%10 != 3 {
			r.Extras[track.ChannelHeartRate] = units.Q(130+20*math.Sin(theta), units.BPM)
		}
		b.Add(r)
	}
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	t.Session.Sport = track.SportRunning
	t.Session.Name = "Morning Run"
	t.SummariseSession()
	return t
}

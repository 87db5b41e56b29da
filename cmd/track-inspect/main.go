package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/fitglue/coursemap/pkg/domain/loader"
	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/domain/units"
	"github.com/fitglue/coursemap/pkg/infrastructure/storage"
)

type SeriesStats struct {
	Name  string
	Unit  units.Unit
	Count int
	Min   float64
	Max   float64
	Sum   float64
}

func NewSeriesStats(name string, unit units.Unit, values []float64) *SeriesStats {
	s := &SeriesStats{Name: name, Unit: unit, Min: math.MaxFloat64, Max: -math.MaxFloat64}
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		s.Count++
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}

func (s *SeriesStats) Avg() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// display renders a value in the unit people usually read it in.
func display(name string, v float64, unit units.Unit) string {
	q := units.Q(v, unit)
	switch name {
	case track.ChannelSpeed:
		kmh, err := units.SpeedToKilometersPerHour(q)
		if err != nil {
			break
		}
		pace, _ := units.SpeedToPace(q)
		return fmt.Sprintf("%.1f km/h (%s/km)", kmh.Value, units.FormatMinSec(pace.Value))
	case track.ChannelHeartRate:
		hrr, err := units.HeartRateToReserve(q, units.DefaultRestingHR, units.DefaultMaxHR)
		if err != nil {
			break
		}
		return fmt.Sprintf("%.0f bpm (%.0f%% HRR)", v, hrr.Value)
	case track.ChannelCadence:
		if p, err := units.CadenceToPitch(q); err == nil {
			return fmt.Sprintf("%.0f rpm (%.0f spm)", v, p.Value)
		}
	case track.ColumnDistance:
		if km, err := units.MetersToKilometers(q); err == nil {
			return fmt.Sprintf("%s km", units.FormatNumber(km.Value, 3))
		}
	}
	return fmt.Sprintf("%s %s", units.FormatNumber(v, 2), unit)
}

// SampleRow is one exported sample. Missing channel values are left empty.
type SampleRow struct {
	Timestamp string  `csv:"timestamp"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	Altitude  float64 `csv:"altitude"`
	Distance  float64 `csv:"distance"`
	Speed     string  `csv:"speed"`
	HeartRate string  `csv:"heart_rate"`
	Power     string  `csv:"power"`
	Cadence   string  `csv:"cadence"`
}

func rows(t *track.Track) []*SampleRow {
	value := func(name string, i int) string {
		ch, ok := t.Channels[name]
		if !ok || math.IsNaN(ch.Values[i]) {
			return ""
		}
		return strconv.FormatFloat(ch.Values[i], 'f', -1, 64)
	}
	out := make([]*SampleRow, t.Len())
	for i, s := range t.Samples {
		out[i] = &SampleRow{
			Timestamp: s.Timestamp.UTC().Format(time.RFC3339),
			Latitude:  s.Lat,
			Longitude: s.Long,
			Altitude:  s.Altitude,
			Distance:  s.Distance,
			Speed:     value(track.ChannelSpeed, i),
			HeartRate: value(track.ChannelHeartRate, i),
			Power:     value(track.ChannelPower, i),
			Cadence:   value(track.ChannelCadence, i),
		}
	}
	return out
}

func printSession(w io.Writer, s track.Session) {
	sw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(sw, "Start Time\tDuration\tDistance\tAvg Speed\tSport\tName")
	fmt.Fprintln(sw, "----------\t--------\t--------\t---------\t-----\t----")
	fmt.Fprintf(sw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		s.StartTime.UTC().Format("2006-01-02 15:04:05"),
		units.FormatHMS(s.TotalTimerTime.Seconds()),
		display(track.ColumnDistance, s.TotalDistance, units.Meters),
		display(track.ChannelSpeed, s.AvgSpeed, units.MetersPerSecond),
		s.Sport, s.Name)
	sw.Flush()
	if s.HasBounds {
		fmt.Fprintf(w, "Bounds: N %+.5f  S %+.5f  E %+.5f  W %+.5f\n", s.NorthLat, s.SouthLat, s.EastLong, s.WestLong)
	}
}

func printStats(w io.Writer, t *track.Track) {
	names := append([]string{track.ColumnAltitude, track.ColumnDistance}, t.ChannelNames()...)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "Series\tUnit\tCount\tCoverage\tMin\tMax\tAvg")
	fmt.Fprintln(tw, "------\t----\t-----\t--------\t---\t---\t---")
	for _, name := range names {
		values, unit, err := t.Series(name)
		if err != nil {
			continue
		}
		s := NewSeriesStats(name, unit, values)
		if s.Count == 0 {
			continue
		}
		coverage := float64(s.Count) / float64(t.Len()) * 100
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\t%s\t%s\t%s\n",
			name, unit, s.Count, coverage,
			display(name, s.Min, unit), display(name, s.Max, unit), display(name, s.Avg(), unit))
	}
	tw.Flush()
}

func main() {
	inputPath := flag.String("input", "", "Path to a .fit or .gpx file (local or gs://)")
	csvPath := flag.String("csv", "", "Export samples as CSV to this location")
	credentials := flag.String("credentials", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), "GCS credentials file")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Please provide input file with -input")
		os.Exit(1)
	}

	ctx := context.Background()
	router := storage.NewRouter(*credentials)

	loc, err := storage.ParseLocation(*inputPath)
	if err != nil {
		fmt.Printf("Invalid input: %v\n", err)
		os.Exit(1)
	}
	t, err := loader.Load(ctx, router, loc)
	if err != nil {
		fmt.Printf("Failed to load track: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== SESSION ===")
	printSession(os.Stdout, t.Session)

	fmt.Printf("\n=== SAMPLES: %s ===\n", units.FormatCount(t.Len()))
	printStats(os.Stdout, t)

	if *csvPath != "" {
		out, err := storage.ParseLocation(*csvPath)
		if err != nil {
			fmt.Printf("Invalid CSV location: %v\n", err)
			os.Exit(1)
		}
		data, err := gocsv.MarshalBytes(rows(t))
		if err != nil {
			fmt.Printf("Failed to encode CSV: %v\n", err)
			os.Exit(1)
		}
		if err := router.Write(ctx, out, data); err != nil {
			fmt.Printf("Failed to write CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %d samples to %s\n", t.Len(), out)
	}
}

package coursemap

import (
	"fmt"
	"strings"
	"time"

	shared "github.com/fitglue/coursemap/pkg"
	"github.com/fitglue/coursemap/pkg/domain/geometry"
	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/domain/units"
)

// Title is the plot heading: sport pictogram and session name.
func Title(s track.Session) string {
	name := s.Name
	if name == "" {
		name = s.Sport.String()
	}
	if sym := s.Sport.Symbol(); sym != "" {
		return sym + " " + name
	}
	return name
}

// Summary describes a session in two lines, for example
//
//	running for 10.123km, 0h52m10s (avg:5:09/km)
//	2024-04-07 15:30:00 (UTC+09:00 Asia/Tokyo)
//
// The start time is shown in the zone at the centre of the plotted layout, or of the
// session bounds when no layout is given.
func Summary(s track.Session, layout *geometry.Layout, zones shared.ZoneLocator) (string, error) {
	km, err := units.MetersToKilometers(units.Q(s.TotalDistance, units.Meters))
	if err != nil {
		return "", err
	}

	var avg string
	speed := units.Q(s.AvgSpeed, units.MetersPerSecond)
	if s.Sport.UsesPace() {
		pace, err := units.SpeedToPace(speed)
		if err != nil {
			return "", err
		}
		avg = units.FormatMinSec(pace.Value) + "/km"
	} else {
		kmh, err := units.SpeedToKilometersPerHour(speed)
		if err != nil {
			return "", err
		}
		avg = fmt.Sprintf("%.1fkm/h", kmh.Value)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s for %.3fkm, %s (avg:%s)", s.Sport, km.Value, units.FormatHMS(s.TotalTimerTime.Seconds()), avg)

	if s.StartTime.IsZero() {
		return b.String(), nil
	}
	loc := time.UTC
	if zones != nil && (layout != nil || s.HasBounds) {
		lat, long := (s.NorthLat+s.SouthLat)/2, (s.EastLong+s.WestLong)/2
		if layout != nil {
			lat, long = layout.Frame.CenterLat, layout.Frame.CenterLong
		}
		z, err := zones.Zone(lat, long)
		if err != nil {
			return "", fmt.Errorf("resolving time zone: %w", err)
		}
		loc = z
	}
	local := s.StartTime.In(loc)
	fmt.Fprintf(&b, "\n%s (UTC%s %s)", local.Format("2006-01-02 15:04:05"), local.Format("-07:00"), loc)
	return b.String(), nil
}

package fit_parser

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/domain/units"
)

// FIT invalid-value sentinels.
const (
	invalidUint8  = 0xFF
	invalidUint16 = 0xFFFF
	invalidUint32 = 0xFFFFFFFF
	invalidSint32 = 0x7FFFFFFF
)

// Records come before the lap and session summaries in a FIT file, so everything is
// collected first and the session is attached once the whole file has been read.

// ParseFitFile decodes a FIT activity into a Track.
// Multiple sessions (for example from auto-pause) are merged into one.
func ParseFitFile(data []byte) (*track.Track, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FIT data")
	}

	fitDec := decoder.New(bytes.NewReader(data))

	builder := track.NewBuilder()
	var sessions []track.Session
	var fileCreated time.Time

	for fitDec.Next() {
		fitData, err := fitDec.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIT file: %w", err)
		}

		for _, msg := range fitData.Messages {
			switch msg.Num {
			case typedef.MesgNumFileId:
				fileId := mesgdef.NewFileId(&msg)
				if fileCreated.IsZero() && !fileId.TimeCreated.IsZero() {
					fileCreated = fileId.TimeCreated.UTC()
				}

			case typedef.MesgNumRecord:
				if rec, ok := parseRecord(&msg); ok {
					builder.Add(rec)
				}

			case typedef.MesgNumSession:
				sessions = append(sessions, parseSession(&msg))
			}
		}
	}

	if builder.Len() == 0 {
		return nil, fmt.Errorf("no records found in FIT file: %w", track.ErrEmptyTrack)
	}

	t, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}

	if len(sessions) > 0 {
		t.Session = MergeSessions(sessions)
	} else if !fileCreated.IsZero() {
		t.Session.StartTime = fileCreated
	}
	t.SummariseSession()
	if t.Session.Name == "" {
		t.Session.Name = generateActivityName(t.Session.Sport, t.Session.StartTime)
	}

	return t, nil
}

// parseRecord extracts a raw reading from a FIT record message.
func parseRecord(msg *proto.Message) (track.Record, bool) {
	recordMsg := mesgdef.NewRecord(msg)

	ts := recordMsg.Timestamp
	if ts.IsZero() {
		return track.Record{}, false
	}
	rec := track.NewRecord(ts.UTC())
	rec.Extras = make(map[string]units.Quantity)

	if recordMsg.PositionLat != invalidSint32 && recordMsg.PositionLong != invalidSint32 {
		rec.Lat = units.SemicirclesToDegreesRaw(recordMsg.PositionLat)
		rec.Long = units.SemicirclesToDegreesRaw(recordMsg.PositionLong)
	}

	// Altitude uses a scale of 5 and an offset of 500
	if recordMsg.EnhancedAltitude != invalidUint32 {
		rec.Altitude = float64(recordMsg.EnhancedAltitude)/5 - 500
	} else if recordMsg.Altitude != invalidUint16 {
		rec.Altitude = float64(recordMsg.Altitude)/5 - 500
	}

	// Distance is stored in centimetres
	if recordMsg.Distance != invalidUint32 {
		rec.Distance = float64(recordMsg.Distance) / 100
	}

	// Speed is stored in mm/s
	if recordMsg.EnhancedSpeed != invalidUint32 {
		rec.Extras[track.ChannelSpeed] = units.Q(float64(recordMsg.EnhancedSpeed)/1000, units.MetersPerSecond)
	} else if recordMsg.Speed != invalidUint16 {
		rec.Extras[track.ChannelSpeed] = units.Q(float64(recordMsg.Speed)/1000, units.MetersPerSecond)
	}

	if recordMsg.HeartRate != invalidUint8 {
		rec.Extras[track.ChannelHeartRate] = units.Q(float64(recordMsg.HeartRate), units.BPM)
	}
	if recordMsg.Power != invalidUint16 {
		rec.Extras[track.ChannelPower] = units.Q(float64(recordMsg.Power), units.Watts)
	}
	if recordMsg.Cadence != invalidUint8 {
		rec.Extras[track.ChannelCadence] = units.Q(float64(recordMsg.Cadence), units.RPM)
	}

	return rec, true
}

func parseSession(msg *proto.Message) track.Session {
	sessionMsg := mesgdef.NewSession(msg)

	s := track.Session{
		Sport:     mapFitSport(sessionMsg.Sport, sessionMsg.SubSport),
		SubSport:  sessionMsg.SubSport.String(),
		Name:      sessionMsg.SportProfileName,
		StartTime: sessionMsg.StartTime.UTC(),
	}
	if sessionMsg.TotalDistance != invalidUint32 {
		s.TotalDistance = float64(sessionMsg.TotalDistance) / 100
	}
	if sessionMsg.TotalTimerTime != invalidUint32 {
		s.TotalTimerTime = time.Duration(sessionMsg.TotalTimerTime) * time.Millisecond
	}
	if sessionMsg.EnhancedAvgSpeed != invalidUint32 {
		s.AvgSpeed = float64(sessionMsg.EnhancedAvgSpeed) / 1000
	} else if sessionMsg.AvgSpeed != invalidUint16 {
		s.AvgSpeed = float64(sessionMsg.AvgSpeed) / 1000
	}
	if sessionMsg.NecLat != invalidSint32 && sessionMsg.NecLong != invalidSint32 &&
		sessionMsg.SwcLat != invalidSint32 && sessionMsg.SwcLong != invalidSint32 {
		s.NorthLat = units.SemicirclesToDegreesRaw(sessionMsg.NecLat)
		s.EastLong = units.SemicirclesToDegreesRaw(sessionMsg.NecLong)
		s.SouthLat = units.SemicirclesToDegreesRaw(sessionMsg.SwcLat)
		s.WestLong = units.SemicirclesToDegreesRaw(sessionMsg.SwcLong)
		s.HasBounds = true
	}
	return s
}

// MergeSessions merges multiple sessions into a single session.
// Distances and timer times add up, the first session supplies sport and start time,
// and the bounds cover every session that reported them.
func MergeSessions(sessions []track.Session) track.Session {
	if len(sessions) == 0 {
		return track.Session{}
	}
	merged := sessions[0]
	if len(sessions) == 1 {
		return merged
	}

	var weightedSpeed float64
	for i, s := range sessions {
		weightedSpeed += s.AvgSpeed * s.TotalTimerTime.Seconds()
		if i == 0 {
			continue
		}
		merged.TotalDistance += s.TotalDistance
		merged.TotalTimerTime += s.TotalTimerTime
		if s.StartTime.Before(merged.StartTime) {
			merged.StartTime = s.StartTime
		}
		if !s.HasBounds {
			continue
		}
		if !merged.HasBounds {
			merged.NorthLat, merged.SouthLat = s.NorthLat, s.SouthLat
			merged.EastLong, merged.WestLong = s.EastLong, s.WestLong
			merged.HasBounds = true
			continue
		}
		merged.NorthLat = math.Max(merged.NorthLat, s.NorthLat)
		merged.SouthLat = math.Min(merged.SouthLat, s.SouthLat)
		merged.EastLong = math.Max(merged.EastLong, s.EastLong)
		merged.WestLong = math.Min(merged.WestLong, s.WestLong)
	}
	if secs := merged.TotalTimerTime.Seconds(); secs > 0 {
		merged.AvgSpeed = weightedSpeed / secs
	}
	return merged
}

// mapFitSport converts FIT sport types to a track.Sport
func mapFitSport(sport typedef.Sport, subSport typedef.SubSport) track.Sport {
	switch sport {
	case typedef.SportRunning:
		if subSport == typedef.SubSportTrail {
			return track.SportTrailRunning
		}
		return track.SportRunning

	case typedef.SportCycling:
		switch subSport {
		case typedef.SubSportMountain, typedef.SubSportEBikeMountain:
			return track.SportMountainBiking
		default:
			return track.SportCycling
		}

	case typedef.SportSwimming:
		return track.SportSwimming

	case typedef.SportWalking:
		return track.SportWalking

	case typedef.SportHiking:
		return track.SportHiking

	case typedef.SportTraining:
		return track.SportTraining

	default:
		return track.SportOther
	}
}

// generateActivityName creates a default activity name based on sport and time
func generateActivityName(sport track.Sport, startTime time.Time) string {
	hour := startTime.Hour()
	var timeOfDay string
	switch {
	case hour < 12:
		timeOfDay = "Morning"
	case hour < 17:
		timeOfDay = "Afternoon"
	case hour < 21:
		timeOfDay = "Evening"
	default:
		timeOfDay = "Night"
	}

	var activityName string
	switch sport {
	case track.SportRunning, track.SportTrailRunning:
		activityName = "Run"
	case track.SportCycling, track.SportMountainBiking:
		activityName = "Ride"
	case track.SportSwimming:
		activityName = "Swim"
	case track.SportWalking:
		activityName = "Walk"
	case track.SportHiking:
		activityName = "Hike"
	case track.SportTraining:
		activityName = "Workout"
	default:
		activityName = "Activity"
	}

	return fmt.Sprintf("%s %s", timeOfDay, activityName)
}

package file_generators

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/kit/scaleoffset"
	"github.com/muktihari/fit/kit/semicircles"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/fitglue/coursemap/pkg/domain/track"
)

// GenerateActivityFit encodes a Track as a FIT activity file with one record per sample
// and a single session summary.
func GenerateActivityFit(t *track.Track) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("track cannot be nil")
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("track must have at least one sample")
	}

	startTime := t.Session.StartTime
	if startTime.IsZero() {
		startTime = t.First().Timestamp
	}
	if startTime.IsZero() {
		return nil, fmt.Errorf("track has no start time")
	}

	fit := &proto.FIT{
		Messages: []proto.Message{},
	}

	// 1. FileId message
	fileId := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(startTime)
	fit.Messages = append(fit.Messages, fileId.ToMesg(nil))

	// 2. Records
	for i, s := range t.Samples {
		ts := s.Timestamp
		if ts.IsZero() {
			ts = startTime.Add(time.Duration(i) * time.Second)
		}
		rec := mesgdef.NewRecord(nil).
			SetTimestamp(ts).
			SetPositionLat(semicircles.ToSemicircles(s.Lat)).
			SetPositionLong(semicircles.ToSemicircles(s.Long)).
			SetDistance(uint32(scaleoffset.Discard(s.Distance, 100, 0))).
			SetAltitude(uint16(scaleoffset.Discard(s.Altitude, 5, 500)))

		if v, ok := channelValue(t, track.ChannelSpeed, i); ok {
			rec.SetSpeed(uint16(scaleoffset.Discard(v, 1000, 0)))
		}
		if v, ok := channelValue(t, track.ChannelHeartRate, i); ok {
			rec.SetHeartRate(uint8(v))
		}
		if v, ok := channelValue(t, track.ChannelPower, i); ok {
			rec.SetPower(uint16(v))
		}
		if v, ok := channelValue(t, track.ChannelCadence, i); ok {
			rec.SetCadence(uint8(v))
		}
		fit.Messages = append(fit.Messages, rec.ToMesg(nil))
	}

	// 3. Session message
	last := t.Last()
	endTime := last.Timestamp
	if endTime.IsZero() {
		endTime = startTime.Add(time.Duration(t.Len()-1) * time.Second)
	}
	timer := t.Session.TotalTimerTime
	if timer == 0 {
		timer = endTime.Sub(startTime)
	}
	distance := t.Session.TotalDistance
	if distance == 0 {
		distance = last.Distance
	}

	sessionMsg := mesgdef.NewSession(nil).
		SetTimestamp(endTime).
		SetStartTime(startTime).
		SetSport(fitSport(t.Session.Sport)).
		SetTotalElapsedTime(uint32(endTime.Sub(startTime).Milliseconds())).
		SetTotalTimerTime(uint32(timer.Milliseconds())).
		SetTotalDistance(uint32(scaleoffset.Discard(distance, 100, 0)))
	if t.Session.AvgSpeed > 0 {
		sessionMsg.SetAvgSpeed(uint16(scaleoffset.Discard(t.Session.AvgSpeed, 1000, 0)))
	}
	if t.Session.HasBounds {
		sessionMsg.
			SetNecLat(semicircles.ToSemicircles(t.Session.NorthLat)).
			SetNecLong(semicircles.ToSemicircles(t.Session.EastLong)).
			SetSwcLat(semicircles.ToSemicircles(t.Session.SouthLat)).
			SetSwcLong(semicircles.ToSemicircles(t.Session.WestLong))
	}
	if t.Session.Name != "" {
		sessionMsg.SetSportProfileName(t.Session.Name)
	}
	fit.Messages = append(fit.Messages, sessionMsg.ToMesg(nil))

	// 4. Activity message
	activityMsg := mesgdef.NewActivity(nil).
		SetTimestamp(endTime).
		SetType(typedef.ActivityManual).
		SetNumSessions(1)
	fit.Messages = append(fit.Messages, activityMsg.ToMesg(nil))

	var buf bytes.Buffer
	enc := encoder.New(&buf)

	if err := enc.Encode(fit); err != nil {
		return nil, fmt.Errorf("failed to encode FIT file: %w", err)
	}

	return buf.Bytes(), nil
}

func channelValue(t *track.Track, name string, i int) (float64, bool) {
	ch, ok := t.Channels[name]
	if !ok || i >= len(ch.Values) || math.IsNaN(ch.Values[i]) {
		return 0, false
	}
	return ch.Values[i], true
}

func fitSport(s track.Sport) typedef.Sport {
	switch s {
	case track.SportRunning, track.SportTrailRunning:
		return typedef.SportRunning
	case track.SportCycling, track.SportMountainBiking:
		return typedef.SportCycling
	case track.SportWalking:
		return typedef.SportWalking
	case track.SportHiking:
		return typedef.SportHiking
	case track.SportSwimming:
		return typedef.SportSwimming
	case track.SportTraining:
		return typedef.SportTraining
	default:
		return typedef.SportGeneric
	}
}

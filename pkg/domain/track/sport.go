package track

// Sport is the activity type recorded for a session.
type Sport int

const (
	SportUnknown Sport = iota
	SportRunning
	SportTrailRunning
	SportCycling
	SportMountainBiking
	SportWalking
	SportHiking
	SportSwimming
	SportTraining
	SportOther
)

func (s Sport) String() string {
	switch s {
	case SportRunning:
		return "running"
	case SportTrailRunning:
		return "trail running"
	case SportCycling:
		return "cycling"
	case SportMountainBiking:
		return "mountain biking"
	case SportWalking:
		return "walking"
	case SportHiking:
		return "hiking"
	case SportSwimming:
		return "swimming"
	case SportTraining:
		return "training"
	case SportOther:
		return "other"
	default:
		return `NA (".gpx" data)`
	}
}

// Symbol is a pictogram used in plot titles.
func (s Sport) Symbol() string {
	switch s {
	case SportRunning, SportTrailRunning:
		return "\U0001F3C3"
	case SportCycling, SportMountainBiking:
		return "\U0001F6B4"
	case SportWalking, SportHiking:
		return "\U0001F6B6"
	case SportSwimming:
		return "\U0001F3CA"
	default:
		return ""
	}
}

// UsesPace reports whether speed for this sport is conventionally shown as pace.
func (s Sport) UsesPace() bool {
	switch s {
	case SportRunning, SportTrailRunning, SportWalking, SportHiking:
		return true
	default:
		return false
	}
}

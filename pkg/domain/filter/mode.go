package filter

import (
	"fmt"
	"strings"
)

// Mode selects how altitude is cleaned before plotting.
type Mode string

const (
	ModeOff            Mode = "off"
	ModeAverage        Mode = "average"
	ModeSpatialAverage Mode = "spatial-average"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOff, ModeAverage, ModeSpatialAverage:
		return m, nil
	case "":
		return ModeOff, nil
	default:
		return "", fmt.Errorf("unknown altitude filter mode %q (want off, average or spatial-average)", s)
	}
}

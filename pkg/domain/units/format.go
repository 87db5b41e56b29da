package units

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMinSec renders seconds as M:SS, e.g. a pace of 330 sec/km as "5:30".
func FormatMinSec(seconds float64) string {
	if math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return "--:--"
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatHMS renders seconds as 1h02m03s.
func FormatHMS(seconds float64) string {
	if math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return "--h--m--s"
	}
	total := int(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatNumber renders a float with thousands separators and the given precision.
func FormatNumber(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

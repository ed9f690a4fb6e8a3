// Package units converts and formats altitudes for display.
package units

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// System is a unit-of-measure preference.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// FeetPerMeter is the conversion factor used for imperial altitudes.
const FeetPerMeter = 3.28084

// Parse maps a preference string onto a System, defaulting to Imperial.
func Parse(value string) System {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "metric", "m", "meters", "metres":
		return Metric
	default:
		return Imperial
	}
}

// Toggle returns the other system.
func (s System) Toggle() System {
	if s == Metric {
		return Imperial
	}
	return Metric
}

// Suffix returns the abbreviation shown after a value.
func (s System) Suffix() string {
	if s == Metric {
		return "m"
	}
	return "ft"
}

// Convert converts meters into the system's unit and rounds to the nearest
// integer.
func Convert(meters float64, s System) int64 {
	if s == Metric {
		return int64(math.Round(meters))
	}
	return int64(math.Round(meters * FeetPerMeter))
}

var printer = message.NewPrinter(language.English)

// FormatNumber renders n with comma thousands separators.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatAltitude renders an altitude such as "14,411 ft" or "4,392 m".
func FormatAltitude(meters float64, s System) string {
	return FormatNumber(Convert(meters, s)) + " " + s.Suffix()
}

// FormatOptionalAltitude formats a possibly missing altitude; missing values
// render as an empty string.
func FormatOptionalAltitude(meters *float64, s System) string {
	if meters == nil {
		return ""
	}
	return FormatAltitude(*meters, s)
}

// FormatDistance renders a distance in kilometres or miles with one decimal.
func FormatDistance(meters float64, s System) string {
	if s == Metric {
		return printer.Sprintf("%.1f km", meters/1000)
	}
	return printer.Sprintf("%.1f mi", meters/1609.344)
}

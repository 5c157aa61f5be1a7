package units

import (
	"math"

	"github.com/dustin/go-humanize"
)

// InfinityGlyph is the label of the infinite sentinel, whatever the unit
// system.
const InfinityGlyph = "∞"

// Formatter turns a distance in meters into a label.
type Formatter interface {
	Format(meters float64) string
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc func(meters float64) string

// Format implements Formatter
func (f FormatterFunc) Format(meters float64) string {
	return f(meters)
}

// AbbreviatedFormatter renders short distance labels such as "300 m",
// "1.5 km", "500 ft" or "20 mi".
type AbbreviatedFormatter struct {
	Metric bool
}

// Format implements Formatter
func (f AbbreviatedFormatter) Format(meters float64) string {
	if IsInfinite(meters) {
		return InfinityGlyph
	}
	if f.Metric {
		return formatMetric(meters)
	}
	return formatImperial(meters)
}

func formatMetric(meters float64) string {
	if meters < 1000 {
		return humanize.FtoaWithDigits(math.Round(meters), 0) + " m"
	}
	return humanize.FtoaWithDigits(meters/1000, 1) + " km"
}

func formatImperial(meters float64) string {
	miles := MilesFromMeters(meters)
	// Round before comparing so 0.1 mi computed from 160.9344 m stays miles.
	if roundTo(miles, 2) < 0.1 {
		feet := meters / 0.3048
		return humanize.FtoaWithDigits(math.Round(feet/10)*10, 0) + " ft"
	}
	return humanize.FtoaWithDigits(miles, 1) + " mi"
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// Package units converts distances between meters and miles and knows about
// the "infinite" sentinel used as the last mark of a ruler.
package units

import "math"

// Infinite is the sentinel distance meaning "unbounded". It is never
// transformed arithmetically by the conversions below.
const Infinite = math.MaxFloat64

const (
	metersPerMile = 1609.344
	milesPerMeter = 0.000621371192
)

// IsInfinite reports whether v is the infinite sentinel. +Inf is accepted
// too since YAML and JSON decoders can produce it.
func IsInfinite(v float64) bool {
	return v == Infinite || math.IsInf(v, 1)
}

// MetersFromMiles converts miles to meters.
func MetersFromMiles(miles float64) float64 {
	if IsInfinite(miles) {
		return Infinite
	}
	return miles * metersPerMile
}

// MilesFromMeters converts meters to miles.
func MilesFromMeters(meters float64) float64 {
	if IsInfinite(meters) {
		return Infinite
	}
	return meters * milesPerMeter
}

package geometry

import (
	"github.com/sirupsen/logrus"
)

// Logger receives invariant reports in release builds. Hosts may replace it
// to route reports to their own log file.
var Logger logrus.FieldLogger = logrus.StandardLogger()

// invariantViolated handles an increment total outside
// [0, MaxMarkForIncrement]. Debug builds (tag dpdebug) stop right here;
// release builds clamp to the nearest bound and keep going.
func invariantViolated(total float64, s Snapshot) float64 {
	if assertionsEnabled {
		panic("geometry: increment total out of range")
	}
	Logger.WithFields(logrus.Fields{
		"total":  total,
		"offset": s.Offset,
		"width":  s.Width,
		"marks":  len(s.Marks),
	}).Warn("increment total out of range, clamping")
	return clamp(total, 0, MaxMarkForIncrement)
}

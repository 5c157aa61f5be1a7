package picker

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dicklesworthstone/distance_picker/pkg/marks"
)

const (
	// DefaultMarkSpacing is the distance between two marks.
	DefaultMarkSpacing = 50.0

	// DefaultIncrementsPerMark is how many increments split a mark interval.
	DefaultIncrementsPerMark = 5
)

// ErrInvalidConfig is returned when a configuration cannot back a picker.
var ErrInvalidConfig = errors.New("invalid picker configuration")

// Config is the recognized configuration surface of a picker.
type Config struct {
	Marks             []float64
	UseMetricSystem   bool
	MarkSpacing       float64
	IncrementsPerMark int
}

// DefaultConfig returns the default marks in the given unit system.
func DefaultConfig(useMetric bool) Config {
	return Config{
		Marks:             append([]float64(nil), marks.DefaultMarks...),
		UseMetricSystem:   useMetric,
		MarkSpacing:       DefaultMarkSpacing,
		IncrementsPerMark: DefaultIncrementsPerMark,
	}
}

// Validate rejects configurations that would break the geometry later.
func (c Config) Validate() error {
	if err := marks.Validate(c.Marks); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(c.MarkSpacing > 0) || math.IsInf(c.MarkSpacing, 0) {
		return fmt.Errorf("%w: mark spacing must be positive, got %v", ErrInvalidConfig, c.MarkSpacing)
	}
	if c.IncrementsPerMark < 1 {
		return fmt.Errorf("%w: increments per mark must be >= 1, got %d", ErrInvalidConfig, c.IncrementsPerMark)
	}
	return nil
}

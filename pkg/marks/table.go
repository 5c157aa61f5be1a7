// Package marks holds the ordered distance marks of a ruler and their
// formatted labels.
package marks

import (
	"errors"
	"fmt"

	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

// DefaultMarks is the mark sequence shown when nothing else is configured.
// Values are unit-less by convention: meters in metric mode, thousandths of
// a mile in imperial mode.
var DefaultMarks = []float64{
	100, 200, 300, 400, 500, 600, 700, 800, 900,
	1000, 2000, 3000, 5000, 10000, 20000, 30000, 50000, 100000, 200000,
	units.Infinite,
}

// ErrInvalidMarks is returned when a mark sequence cannot back a ruler.
var ErrInvalidMarks = errors.New("invalid marks")

// Validate checks that marks has at least two entries, that the finite
// prefix is strictly increasing and that the last entry is the infinite
// sentinel.
func Validate(marks []float64) error {
	if len(marks) < 2 {
		return fmt.Errorf("%w: need at least 2 marks, got %d", ErrInvalidMarks, len(marks))
	}
	last := len(marks) - 1
	if !units.IsInfinite(marks[last]) {
		return fmt.Errorf("%w: last mark must be infinite, got %v", ErrInvalidMarks, marks[last])
	}
	for i := 0; i < last; i++ {
		if units.IsInfinite(marks[i]) {
			return fmt.Errorf("%w: mark %d is infinite but is not last", ErrInvalidMarks, i)
		}
		if marks[i] < 0 {
			return fmt.Errorf("%w: mark %d is negative (%v)", ErrInvalidMarks, i, marks[i])
		}
		if i > 0 && marks[i] <= marks[i-1] {
			return fmt.Errorf("%w: mark %d (%v) does not increase on %v", ErrInvalidMarks, i, marks[i], marks[i-1])
		}
	}
	return nil
}

// FormattedMarks renders one label per mark.
//
// In imperial mode each finite raw value is read as thousandths of a mile,
// so 100 becomes 0.1 mi and 200 becomes 0.2 mi. The proposed distances then
// grow as regularly as the metric ones instead of showing odd conversions
// like 328 ft.
func FormattedMarks(marks []float64, useMetric bool, formatter units.Formatter) []string {
	formatted := make([]string, len(marks))
	for i, mark := range marks {
		if units.IsInfinite(mark) {
			formatted[i] = units.InfinityGlyph
			continue
		}
		meters := mark
		if !useMetric {
			meters = units.MetersFromMiles(mark / 1000)
		}
		formatted[i] = formatter.Format(meters)
	}
	return formatted
}

// FormatterFactory returns the formatter matching a unit system.
type FormatterFactory func(useMetric bool) units.Formatter

// DefaultFormatterFactory builds abbreviated formatters.
func DefaultFormatterFactory(useMetric bool) units.Formatter {
	return units.AbbreviatedFormatter{Metric: useMetric}
}

// Table owns a mark sequence, the unit system and the derived labels.
// Labels are recomputed synchronously by every mutation, they are never
// stale.
type Table struct {
	marks     []float64
	formatted []string
	useMetric bool
	factory   FormatterFactory
}

// NewTable validates marks and computes their labels. A nil factory selects
// DefaultFormatterFactory.
func NewTable(marks []float64, useMetric bool, factory FormatterFactory) (*Table, error) {
	if factory == nil {
		factory = DefaultFormatterFactory
	}
	t := &Table{factory: factory}
	if err := t.Set(marks, useMetric); err != nil {
		return nil, err
	}
	return t, nil
}

// Set replaces marks and unit system together. On error the table is left
// unchanged.
func (t *Table) Set(marks []float64, useMetric bool) error {
	if err := Validate(marks); err != nil {
		return err
	}
	owned := make([]float64, len(marks))
	copy(owned, marks)
	// The sentinel is stored in its canonical form so callers comparing
	// against units.Infinite keep working with +Inf input.
	owned[len(owned)-1] = units.Infinite

	formatted := FormattedMarks(owned, useMetric, t.factory(useMetric))

	t.marks = owned
	t.useMetric = useMetric
	t.formatted = formatted
	return nil
}

// SetUsesMetric switches the unit system and reformats every label.
func (t *Table) SetUsesMetric(useMetric bool) {
	// Marks were validated when stored, Set cannot fail here.
	_ = t.Set(t.marks, useMetric)
}

// Marks returns a copy of the raw marks.
func (t *Table) Marks() []float64 {
	out := make([]float64, len(t.marks))
	copy(out, t.marks)
	return out
}

// MarksView returns the table's own marks without copying. Callers must not
// modify it. Set always stores a fresh slice, so a view taken earlier keeps
// the marks it was taken with.
func (t *Table) MarksView() []float64 {
	return t.marks
}

// Formatted returns a copy of the labels.
func (t *Table) Formatted() []string {
	out := make([]string, len(t.formatted))
	copy(out, t.formatted)
	return out
}

// Len returns the number of marks.
func (t *Table) Len() int {
	return len(t.marks)
}

// Mark returns the raw value at index i.
func (t *Table) Mark(i int) float64 {
	return t.marks[i]
}

// Label returns the formatted label at index i.
func (t *Table) Label(i int) string {
	return t.formatted[i]
}

// UsesMetric reports the active unit system.
func (t *Table) UsesMetric() bool {
	return t.useMetric
}

// Index returns the position of label, or -1.
func (t *Table) Index(label string) int {
	for i, l := range t.formatted {
		if l == label {
			return i
		}
	}
	return -1
}

// Meters converts a raw mark-space value to meters for the active unit
// system, following the same reinterpretation as FormattedMarks.
func (t *Table) Meters(raw float64) float64 {
	if units.IsInfinite(raw) {
		return units.Infinite
	}
	if t.useMetric {
		return raw
	}
	return units.MetersFromMiles(raw / 1000)
}

// Format renders any raw mark-space value, including values between marks.
func (t *Table) Format(raw float64) string {
	if units.IsInfinite(raw) {
		return units.InfinityGlyph
	}
	return t.factory(t.useMetric).Format(t.Meters(raw))
}

// Package geometry maps a ruler offset to the selected mark, increment and
// value. Every function here is pure: it reads an immutable Snapshot and
// derives the answer on demand.
//
// Coordinates run left to right. The selection head sits at the middle of
// the viewport, so a zero offset does not select the first mark: the
// selected point is Width/2 - Offset along the mark line. When the offset
// grows the selected index shrinks, and the other way around.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

// ReferenceWidth is the fixed viewport width normalized offsets are
// expressed against.
const ReferenceWidth = 1000.0

// MaxMarkForIncrement stands in for the infinite mark when computing the
// increment range between the last finite mark and infinity.
const MaxMarkForIncrement = 1000000.0

// ErrInvalidSnapshot reports a snapshot no geometry can be derived from.
var ErrInvalidSnapshot = errors.New("invalid geometry")

// Snapshot is everything the geometry depends on.
type Snapshot struct {
	Offset     float64   // horizontal shift of the mark line
	Width      float64   // viewport width
	Marks      []float64 // raw marks, last one is units.Infinite
	Spacing    float64   // distance between two marks
	Increments int       // increments per mark, >= 1
}

// Validate rejects snapshots that would divide by zero or index nothing.
// A zero width is accepted since hosts may not be laid out yet.
func (s Snapshot) Validate() error {
	switch {
	case len(s.Marks) == 0:
		return fmt.Errorf("%w: no marks", ErrInvalidSnapshot)
	case !(s.Spacing > 0) || math.IsInf(s.Spacing, 0):
		return fmt.Errorf("%w: mark spacing must be positive, got %v", ErrInvalidSnapshot, s.Spacing)
	case s.Increments < 1:
		return fmt.Errorf("%w: increments per mark must be >= 1, got %d", ErrInvalidSnapshot, s.Increments)
	case s.Width < 0:
		return fmt.Errorf("%w: negative width %v", ErrInvalidSnapshot, s.Width)
	}
	return nil
}

// WithOffset returns a copy of s at another offset.
func (s Snapshot) WithOffset(offset float64) Snapshot {
	s.Offset = offset
	return s
}

// SelectedPosition is the point of the mark line under the selection head.
func (s Snapshot) SelectedPosition() float64 {
	return s.Width*0.5 - s.Offset
}

// PreviousMarkIndex is the mark at or before the selected point.
func (s Snapshot) PreviousMarkIndex() int {
	return s.clampIndex(math.Floor(s.SelectedPosition() / s.Spacing))
}

// NextMarkIndex is the mark at or after the selected point.
func (s Snapshot) NextMarkIndex() int {
	return s.clampIndex(math.Ceil(s.SelectedPosition() / s.Spacing))
}

// SelectedMarkIndex anchors the selection on the lower mark.
func (s Snapshot) SelectedMarkIndex() int {
	return s.PreviousMarkIndex()
}

// SelectedMark is the raw value of the selected mark.
func (s Snapshot) SelectedMark() float64 {
	return s.Marks[s.SelectedMarkIndex()]
}

// IncrementSpacing is the distance between two increments.
func (s Snapshot) IncrementSpacing() float64 {
	return s.Spacing / float64(s.Increments)
}

// SelectedIncrementIndex is the increment closest to the selected point,
// counted from the selected mark.
func (s Snapshot) SelectedIncrementIndex() int {
	markPosition := float64(s.SelectedMarkIndex()) * s.Spacing
	fromMark := s.SelectedPosition() - markPosition
	index := math.Round(fromMark / s.IncrementSpacing())
	return int(clamp(index, 0, float64(s.Increments-1)))
}

// IncrementTotal is the value range between the marks surrounding the
// selected point, with infinity replaced by MaxMarkForIncrement.
func (s Snapshot) IncrementTotal() float64 {
	next := incrementBound(s.Marks[s.NextMarkIndex()])
	previous := incrementBound(s.Marks[s.PreviousMarkIndex()])
	total := next - previous
	if total < 0 || total > MaxMarkForIncrement {
		return invariantViolated(total, s)
	}
	return total
}

// IncrementValue is the value of a single increment.
func (s Snapshot) IncrementValue() float64 {
	total := s.IncrementTotal()
	if total == 0 {
		return 0
	}
	return total / float64(s.Increments)
}

// SelectedIncrement is the value added to the selected mark.
func (s Snapshot) SelectedIncrement() float64 {
	return float64(s.SelectedIncrementIndex()) * s.IncrementValue()
}

// SelectedValue is the selected mark plus the selected increment, or the
// infinite sentinel when the infinite mark is selected.
func (s Snapshot) SelectedValue() float64 {
	mark := s.SelectedMark()
	if units.IsInfinite(mark) {
		return units.Infinite
	}
	return mark + s.SelectedIncrement()
}

// MarkLineLength is the distance from the first to the last mark.
func (s Snapshot) MarkLineLength() float64 {
	return s.Spacing * float64(len(s.Marks)-1)
}

// MinOffset selects the last (infinite) mark.
func (s Snapshot) MinOffset() float64 {
	return -(s.MarkLineLength() - s.Width*0.5)
}

// MaxOffset selects the first mark.
func (s Snapshot) MaxOffset() float64 {
	return s.Width * 0.5
}

// Clamp bounds offset to [MinOffset, MaxOffset].
func (s Snapshot) Clamp(offset float64) float64 {
	return clamp(offset, s.MinOffset(), s.MaxOffset())
}

// MarkPosition is the viewport x of mark i.
func (s Snapshot) MarkPosition(i int) float64 {
	return s.Offset + float64(i)*s.Spacing
}

// IncrementPositions returns the viewport x of the increments that follow
// mark i. The last mark has none.
func (s Snapshot) IncrementPositions(i int) []float64 {
	if i < 0 || i >= len(s.Marks)-1 || s.Increments < 2 {
		return nil
	}
	start := s.MarkPosition(i)
	step := s.IncrementSpacing()
	positions := make([]float64, 0, s.Increments-1)
	for k := 1; k < s.Increments; k++ {
		positions = append(positions, start+float64(k)*step)
	}
	return positions
}

// OffsetForPosition is the offset that puts position under the head.
func (s Snapshot) OffsetForPosition(position float64) float64 {
	return s.Width*0.5 - position
}

// OffsetForMark is the offset that puts mark i under the head.
func (s Snapshot) OffsetForMark(i int) float64 {
	return s.OffsetForPosition(float64(i) * s.Spacing)
}

// Convert moves an offset from one viewport width to another while keeping
// the same point of the mark line under the head.
func Convert(offset, fromWidth, toWidth float64) float64 {
	return offset + (toWidth-fromWidth)/2
}

func (s Snapshot) clampIndex(index float64) int {
	// A NaN position (zero spacing slipped past validation) lands on 0.
	if math.IsNaN(index) {
		return 0
	}
	return int(clamp(index, 0, float64(len(s.Marks)-1)))
}

func incrementBound(mark float64) float64 {
	if units.IsInfinite(mark) {
		return MaxMarkForIncrement
	}
	return mark
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

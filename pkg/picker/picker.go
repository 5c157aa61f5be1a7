// Package picker is the distance picker engine: a clamped offset over a
// mark table, the pan/decelerate state machine driving it, and the
// renormalization that keeps the selection centered across resizes.
//
// A Picker is not safe for concurrent use. Hosts call it from their single
// UI loop, including the per-frame Tick.
package picker

import (
	"github.com/Dicklesworthstone/distance_picker/pkg/deceleration"
	"github.com/Dicklesworthstone/distance_picker/pkg/geometry"
	"github.com/Dicklesworthstone/distance_picker/pkg/marks"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

// Option customizes a Picker at construction.
type Option func(*Picker)

// WithRedraw registers the function called whenever the offset or the
// labels change.
func WithRedraw(fn func()) Option {
	return func(p *Picker) { p.redraw = fn }
}

// WithAction registers the function called when a fling settles. The
// argument is the end event of the gesture that started the fling.
func WithAction(fn func(endEvent any)) Option {
	return func(p *Picker) { p.action = fn }
}

// WithFormatterFactory replaces the label formatter.
func WithFormatterFactory(factory marks.FormatterFactory) Option {
	return func(p *Picker) { p.factory = factory }
}

// WithIntegrator replaces the deceleration constants.
func WithIntegrator(in deceleration.Integrator) Option {
	return func(p *Picker) { p.integrator = in }
}

// WithWidth sets the initial viewport width.
func WithWidth(width float64) Option {
	return func(p *Picker) {
		if width > 0 {
			p.width = width
		}
	}
}

// Picker holds the single stored value of the control, its offset, and
// derives everything else from a geometry.Snapshot on demand.
type Picker struct {
	table      *marks.Table
	factory    marks.FormatterFactory
	spacing    float64
	increments int

	width  float64
	offset float64

	state      State
	session    *deceleration.Session
	endEvent   any
	generation uint64
	attached   bool

	integrator deceleration.Integrator
	redraw     func()
	action     func(endEvent any)
}

// New validates cfg and returns an idle, attached picker.
func New(cfg Config, opts ...Option) (*Picker, error) {
	p := &Picker{
		integrator: deceleration.New(),
		attached:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table, err := marks.NewTable(cfg.Marks, cfg.UseMetricSystem, p.factory)
	if err != nil {
		return nil, err
	}
	p.table = table
	p.spacing = cfg.MarkSpacing
	p.increments = cfg.IncrementsPerMark
	p.offset = p.Snapshot().Clamp(0)
	return p, nil
}

// SetConfiguration replaces marks, unit system, spacing and increments in
// one step. Labels are recomputed and the offset re-clamped before it
// returns. On error the picker is unchanged.
func (p *Picker) SetConfiguration(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := p.table.Set(cfg.Marks, cfg.UseMetricSystem); err != nil {
		return err
	}
	p.stopFling()
	p.spacing = cfg.MarkSpacing
	p.increments = cfg.IncrementsPerMark
	p.offset = p.Snapshot().Clamp(p.offset)
	p.notifyRedraw()
	return nil
}

// Config returns the current configuration.
func (p *Picker) Config() Config {
	return Config{
		Marks:             p.table.Marks(),
		UseMetricSystem:   p.table.UsesMetric(),
		MarkSpacing:       p.spacing,
		IncrementsPerMark: p.increments,
	}
}

// SetUsesMetricSystem switches units and reformats every label.
func (p *Picker) SetUsesMetricSystem(useMetric bool) {
	if p.table.UsesMetric() == useMetric {
		return
	}
	p.table.SetUsesMetric(useMetric)
	p.notifyRedraw()
}

// Table exposes the mark table for rendering.
func (p *Picker) Table() *marks.Table {
	return p.table
}

// SetRedraw replaces the redraw callback.
func (p *Picker) SetRedraw(fn func()) {
	p.redraw = fn
}

// SetAction replaces the settle callback.
func (p *Picker) SetAction(fn func(endEvent any)) {
	p.action = fn
}

// Snapshot captures the geometry at the current offset. Its Marks share
// the table's storage and must be treated as read-only.
func (p *Picker) Snapshot() geometry.Snapshot {
	return geometry.Snapshot{
		Offset:     p.offset,
		Width:      p.width,
		Marks:      p.table.MarksView(),
		Spacing:    p.spacing,
		Increments: p.increments,
	}
}

// Offset returns the stored offset.
func (p *Picker) Offset() float64 {
	return p.offset
}

// SetOffset stores offset clamped to the mark line. The redraw callback
// fires only when the stored value changes.
func (p *Picker) SetOffset(offset float64) {
	clamped := p.Snapshot().Clamp(offset)
	if clamped == p.offset {
		return
	}
	p.offset = clamped
	p.notifyRedraw()
}

// NormalizedOffset is the offset expressed against geometry.ReferenceWidth,
// suitable for saving independently of the viewport size.
func (p *Picker) NormalizedOffset() float64 {
	return geometry.Convert(p.offset, p.width, geometry.ReferenceWidth)
}

// SetNormalizedOffset restores an offset saved with NormalizedOffset. A
// fling in flight is dropped without calling the action.
func (p *Picker) SetNormalizedOffset(normalized float64) {
	p.stopFling()
	p.SetOffset(geometry.Convert(normalized, geometry.ReferenceWidth, p.width))
}

// Width returns the viewport width.
func (p *Picker) Width() float64 {
	return p.width
}

// Resize moves the offset so the same point stays under the head and drops
// any deceleration in flight. The dropped fling does not call the action.
func (p *Picker) Resize(width float64) {
	if width < 0 {
		width = 0
	}
	if width == p.width {
		return
	}
	p.stopFling()
	old := p.width
	p.width = width
	converted := geometry.Convert(p.offset, old, width)
	p.offset = p.Snapshot().Clamp(converted)
	p.notifyRedraw()
}

// Attached reports whether the control is on screen.
func (p *Picker) Attached() bool {
	return p.attached
}

// SetAttached records whether the control is on screen. A fling that
// settles while detached does not call the action.
func (p *Picker) SetAttached(attached bool) {
	p.attached = attached
}

// SelectedMarkIndex is the mark under (or just before) the head.
func (p *Picker) SelectedMarkIndex() int {
	return p.Snapshot().SelectedMarkIndex()
}

// SelectedFormattedMark is the label of the selected mark.
func (p *Picker) SelectedFormattedMark() string {
	return p.table.Label(p.SelectedMarkIndex())
}

// SelectedValue is the raw value under the head, units.Infinite for "∞".
func (p *Picker) SelectedValue() float64 {
	return p.Snapshot().SelectedValue()
}

// SelectedMeters is SelectedValue converted to meters.
func (p *Picker) SelectedMeters() float64 {
	return p.table.Meters(p.SelectedValue())
}

// SelectedLabel formats SelectedValue, increments included.
func (p *Picker) SelectedLabel() string {
	return p.table.Format(p.SelectedValue())
}

// IsUnbounded reports whether the infinite mark is selected.
func (p *Picker) IsUnbounded() bool {
	return units.IsInfinite(p.SelectedValue())
}

// JumpToMark centers mark i. Out of range indexes are clamped. A fling in
// flight is dropped without calling the action.
func (p *Picker) JumpToMark(i int) {
	if i < 0 {
		i = 0
	}
	if last := p.table.Len() - 1; i > last {
		i = last
	}
	p.stopFling()
	p.SetOffset(p.Snapshot().OffsetForMark(i))
}

// Nudge moves the selection by n increments, positive towards larger values.
// A fling in flight is dropped without calling the action.
func (p *Picker) Nudge(n int) {
	p.stopFling()
	s := p.Snapshot()
	p.SetOffset(p.offset - float64(n)*s.IncrementSpacing())
}

func (p *Picker) notifyRedraw() {
	if p.redraw != nil {
		p.redraw()
	}
}

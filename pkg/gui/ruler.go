// Package gui hosts a picker in a fyne window.
package gui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Dicklesworthstone/distance_picker/pkg/deceleration"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
)

// Layout of the ruler, in pixels.
const (
	rulerHeight     = 72
	markTickLength  = 18
	incTickLength   = 8
	labelTop        = 24
	labelTextSize   = 12
	headStrokeWidth = 2
)

// SourceDrag is the end event of a pointer fling.
const SourceDrag = "drag"

// SourceKeyboard is the end event of a keyboard fling.
const SourceKeyboard = "keyboard"

// FlingVelocity is the keyboard fling speed in pixels per second.
const FlingVelocity = 1500.0

// Ruler is a fyne widget drawing a picker and feeding it pointer and
// keyboard input. One geometry unit is one pixel.
type Ruler struct {
	widget.BaseWidget

	picker     *picker.Picker
	recognizer *picker.PanRecognizer
	fps        int
	now        func() time.Time

	dragging bool
	lastX    float32
	focused  bool

	// schedule runs frames for a fling. Tests replace it.
	schedule func(generation uint64)

	// OnChanged is called after the offset or labels change.
	OnChanged func()
	// OnSettled is called when a fling settles while the ruler is shown.
	OnSettled func(source string)
}

// NewRuler wraps p. The picker's redraw and action callbacks are taken
// over by the widget.
func NewRuler(p *picker.Picker) *Ruler {
	r := &Ruler{
		picker: p,
		fps:    deceleration.DefaultFPS,
		now:    time.Now,
	}
	r.recognizer = picker.NewPanRecognizer(p)
	r.schedule = r.runFrames
	p.SetRedraw(r.changed)
	p.SetAction(func(endEvent any) {
		source, _ := endEvent.(string)
		if r.OnSettled != nil {
			r.OnSettled(source)
		}
	})
	r.ExtendBaseWidget(r)
	return r
}

// Picker returns the hosted picker.
func (r *Ruler) Picker() *picker.Picker {
	return r.picker
}

func (r *Ruler) changed() {
	r.Refresh()
	if r.OnChanged != nil {
		r.OnChanged()
	}
}

// Resize keeps the selection under the head while the width changes.
func (r *Ruler) Resize(size fyne.Size) {
	r.picker.Resize(float64(size.Width))
	r.BaseWidget.Resize(size)
}

// Show attaches the picker again.
func (r *Ruler) Show() {
	r.picker.SetAttached(true)
	r.BaseWidget.Show()
}

// Hide detaches the picker: a fling settling while hidden stays silent.
func (r *Ruler) Hide() {
	r.picker.SetAttached(false)
	r.BaseWidget.Hide()
}

// Dragged implements fyne.Draggable
func (r *Ruler) Dragged(event *fyne.DragEvent) {
	x := event.Position.X
	t := r.now()
	if !r.dragging {
		r.dragging = true
		r.recognizer.Press(float64(x-event.Dragged.DX), t)
	}
	r.lastX = x
	r.recognizer.Move(float64(x), t)
}

// DragEnd implements fyne.Draggable
func (r *Ruler) DragEnd() {
	if !r.dragging {
		return
	}
	r.dragging = false
	r.recognizer.Release(float64(r.lastX), r.now(), SourceDrag)
	r.startFrames()
}

// Scrolled implements fyne.Scrollable. Each scroll step moves one increment.
func (r *Ruler) Scrolled(event *fyne.ScrollEvent) {
	d := event.Scrolled.DX
	if d == 0 {
		d = -event.Scrolled.DY
	}
	switch {
	case d > 0:
		r.picker.Nudge(1)
	case d < 0:
		r.picker.Nudge(-1)
	}
}

// Tapped implements fyne.Tappable. It takes the keyboard focus.
func (r *Ruler) Tapped(*fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(r); c != nil {
		c.Focus(r)
	}
}

// FocusGained implements fyne.Focusable
func (r *Ruler) FocusGained() {
	r.focused = true
	r.Refresh()
}

// FocusLost implements fyne.Focusable
func (r *Ruler) FocusLost() {
	r.focused = false
	r.Refresh()
}

// TypedRune implements fyne.Focusable
func (r *Ruler) TypedRune(ch rune) {
	switch ch {
	case '[':
		r.picker.JumpToMark(r.picker.SelectedMarkIndex() - 1)
	case ']':
		r.picker.JumpToMark(r.picker.SelectedMarkIndex() + 1)
	case 'H':
		r.picker.Fling(FlingVelocity, SourceKeyboard)
		r.startFrames()
	case 'L':
		r.picker.Fling(-FlingVelocity, SourceKeyboard)
		r.startFrames()
	}
}

// TypedKey implements fyne.Focusable
func (r *Ruler) TypedKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeyLeft:
		r.picker.Nudge(-1)
	case fyne.KeyRight:
		r.picker.Nudge(1)
	case fyne.KeyHome:
		r.picker.JumpToMark(0)
	case fyne.KeyEnd:
		r.picker.JumpToMark(r.picker.Table().Len() - 1)
	}
}

func (r *Ruler) startFrames() {
	if r.picker.Decelerating() {
		r.schedule(r.picker.Generation())
	}
}

// frame advances the fling scheduled under generation by one frame and
// reports whether another is needed.
func (r *Ruler) frame(generation uint64) bool {
	return r.picker.TickGeneration(generation, deceleration.FrameDelta(r.fps))
}

// runFrames ticks on its own goroutine and steps the picker on the UI
// thread until the fling settles or is replaced.
func (r *Ruler) runFrames(generation uint64) {
	go func() {
		ticker := time.NewTicker(deceleration.FrameInterval(r.fps))
		defer ticker.Stop()
		for range ticker.C {
			more := false
			fyne.DoAndWait(func() {
				more = r.frame(generation)
			})
			if !more {
				return
			}
		}
	}()
}

// MinSize implements fyne.Widget
func (r *Ruler) MinSize() fyne.Size {
	r.ExtendBaseWidget(r)
	return fyne.NewSize(200, rulerHeight)
}

// CreateRenderer implements fyne.Widget
func (r *Ruler) CreateRenderer() fyne.WidgetRenderer {
	rr := &rulerRenderer{ruler: r}
	rr.build()
	return rr
}

// rulerRenderer implements fyne.WidgetRenderer
type rulerRenderer struct {
	ruler   *Ruler
	objects []fyne.CanvasObject
}

func (rr *rulerRenderer) build() {
	r := rr.ruler
	snap := r.picker.Snapshot()
	labels := r.picker.Table().Formatted()
	selected := snap.SelectedMarkIndex()
	width := float32(snap.Width)

	fg := theme.Color(theme.ColorNameForeground)
	dim := theme.Color(theme.ColorNameDisabled)
	accent := theme.Color(theme.ColorNamePrimary)

	objects := make([]fyne.CanvasObject, 0, len(labels)*8)
	visible := func(x float32) bool { return x >= -50 && x <= width+50 }

	for i, label := range labels {
		for _, x := range snap.IncrementPositions(i) {
			if visible(float32(x)) {
				objects = append(objects, tick(float32(x), incTickLength, dim, 1))
			}
		}
		x := float32(snap.MarkPosition(i))
		if !visible(x) {
			continue
		}
		objects = append(objects, tick(x, markTickLength, fg, 1))

		text := canvas.NewText(label, fg)
		text.TextSize = labelTextSize
		if i == selected {
			text.Color = accent
			text.TextStyle = fyne.TextStyle{Bold: true}
		}
		size := text.MinSize()
		text.Move(fyne.NewPos(x-size.Width/2, labelTop))
		text.Resize(size)
		objects = append(objects, text)
	}

	head := float32(snap.Width / 2)
	headWidth := float32(headStrokeWidth)
	if r.focused {
		headWidth++
	}
	objects = append(objects, tick(head, labelTop-2, accent, headWidth))
	rr.objects = objects
}

func tick(x, length float32, c color.Color, width float32) *canvas.Line {
	line := canvas.NewLine(c)
	line.StrokeWidth = width
	line.Position1 = fyne.NewPos(x, 0)
	line.Position2 = fyne.NewPos(x, length)
	return line
}

func (rr *rulerRenderer) Layout(fyne.Size) {
	rr.build()
}

func (rr *rulerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, rulerHeight)
}

func (rr *rulerRenderer) Refresh() {
	rr.build()
	canvas.Refresh(rr.ruler)
}

func (rr *rulerRenderer) Objects() []fyne.CanvasObject {
	return rr.objects
}

func (rr *rulerRenderer) Destroy() {}

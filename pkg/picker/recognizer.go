package picker

import (
	"time"
)

// VelocityWindow is how far back pointer samples count towards the release
// velocity.
const VelocityWindow = 100 * time.Millisecond

// Panner consumes pan samples. *Picker implements it.
type Panner interface {
	Pan(Phase, TranslationSource)
}

type pointerSample struct {
	x float64
	t time.Time
}

// PanRecognizer turns raw horizontal pointer samples (mouse or touch) into
// pan phases for a Panner. It accumulates translation between samples and
// estimates the release velocity from the last VelocityWindow of motion.
type PanRecognizer struct {
	target      Panner
	active      bool
	lastX       float64
	translation float64
	samples     []pointerSample
	endEvent    any
}

// NewPanRecognizer returns a recognizer feeding target.
func NewPanRecognizer(target Panner) *PanRecognizer {
	return &PanRecognizer{target: target}
}

// Active reports whether a pointer is down.
func (r *PanRecognizer) Active() bool {
	return r.active
}

// Press starts a gesture at x.
func (r *PanRecognizer) Press(x float64, t time.Time) {
	r.active = true
	r.lastX = x
	r.translation = 0
	r.endEvent = nil
	r.samples = append(r.samples[:0], pointerSample{x: x, t: t})
	r.target.Pan(PhaseBegan, r)
}

// Move reports the pointer at x. Moves without a press are ignored.
func (r *PanRecognizer) Move(x float64, t time.Time) {
	if !r.active {
		return
	}
	r.record(x, t)
	if r.translation == 0 {
		return
	}
	r.target.Pan(PhaseChanged, r)
}

// Release ends the gesture at x. payload is handed back to the picker's
// action once the fling settles.
func (r *PanRecognizer) Release(x float64, t time.Time, payload any) {
	if !r.active {
		return
	}
	r.record(x, t)
	if r.translation != 0 {
		r.target.Pan(PhaseChanged, r)
	}
	r.active = false
	r.endEvent = payload
	r.target.Pan(PhaseEnded, r)
}

// Cancel abandons the gesture without a fling.
func (r *PanRecognizer) Cancel() {
	if !r.active {
		return
	}
	r.active = false
	r.samples = r.samples[:0]
	r.target.Pan(PhaseCancelled, r)
}

// Translation implements TranslationSource
func (r *PanRecognizer) Translation() float64 {
	return r.translation
}

// SetTranslation implements TranslationSource
func (r *PanRecognizer) SetTranslation(translation float64) {
	r.translation = translation
}

// Velocity implements TranslationSource. The vertical component is always
// zero since the recognizer only tracks horizontal motion.
func (r *PanRecognizer) Velocity() (x, y float64) {
	if len(r.samples) < 2 {
		return 0, 0
	}
	first, last := r.samples[0], r.samples[len(r.samples)-1]
	elapsed := last.t.Sub(first.t).Seconds()
	if elapsed <= 0 {
		return 0, 0
	}
	return (last.x - first.x) / elapsed, 0
}

// EndEvent implements TranslationSource
func (r *PanRecognizer) EndEvent() any {
	return r.endEvent
}

func (r *PanRecognizer) record(x float64, t time.Time) {
	r.translation += x - r.lastX
	r.lastX = x
	r.samples = append(r.samples, pointerSample{x: x, t: t})

	cutoff := t.Add(-VelocityWindow)
	keep := 0
	for keep < len(r.samples)-1 && r.samples[keep].t.Before(cutoff) {
		keep++
	}
	if keep > 0 {
		r.samples = append(r.samples[:0], r.samples[keep:]...)
	}
}

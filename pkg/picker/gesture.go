package picker

// State is the gesture state of a picker.
type State int

const (
	Idle State = iota
	Panning
	Decelerating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Decelerating:
		return "decelerating"
	default:
		return "unknown"
	}
}

// Phase is the phase of a pan gesture sample.
type Phase int

const (
	PhaseBegan Phase = iota
	PhaseChanged
	PhaseEnded
	PhaseCancelled
)

func (ph Phase) String() string {
	switch ph {
	case PhaseBegan:
		return "began"
	case PhaseChanged:
		return "changed"
	case PhaseEnded:
		return "ended"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TranslationSource is the gesture recognizer as seen by the picker. The
// translation accumulates between samples; the picker consumes it and
// resets it to zero.
type TranslationSource interface {
	Translation() float64
	SetTranslation(float64)
	Velocity() (x, y float64)
	EndEvent() any
}

// State returns the gesture state.
func (p *Picker) State() State {
	return p.state
}

// Generation identifies the current deceleration. It changes whenever a
// fling starts, settles or is dropped, so hosts can tag scheduled frames
// and ignore the stale ones.
func (p *Picker) Generation() uint64 {
	return p.generation
}

// Decelerating reports whether a fling is in flight.
func (p *Picker) Decelerating() bool {
	return p.session != nil
}

// Pan feeds one gesture sample into the state machine.
func (p *Picker) Pan(phase Phase, source TranslationSource) {
	switch phase {
	case PhaseBegan:
		// The old fling must stop writing before the first change lands.
		p.discardSession()
		p.endEvent = nil
		p.state = Panning

	case PhaseChanged:
		if p.state != Panning || p.session != nil {
			return
		}
		p.SetOffset(p.offset + source.Translation())
		source.SetTranslation(0)

	case PhaseEnded:
		if p.state != Panning {
			return
		}
		vx, _ := source.Velocity()
		p.endEvent = source.EndEvent()
		p.session = p.integrator.Start(p.offset, vx)
		p.generation++
		p.state = Decelerating

	case PhaseCancelled:
		p.discardSession()
		p.endEvent = nil
		p.state = Idle
	}
}

// Fling starts a deceleration at velocity without a preceding drag, as
// keyboard hosts do. Any fling in flight is replaced.
func (p *Picker) Fling(velocity float64, endEvent any) {
	p.Pan(PhaseBegan, nil)
	p.endEvent = endEvent
	p.session = p.integrator.Start(p.offset, velocity)
	p.generation++
	p.state = Decelerating
}

// Tick advances the fling by dt seconds and reports whether another frame
// is needed. When the fling settles the picker goes idle and, if attached,
// calls the action once with the gesture's end event.
func (p *Picker) Tick(dt float64) bool {
	if p.session == nil {
		return false
	}
	session := p.session
	settled := session.Step(dt, func(position float64) float64 {
		p.SetOffset(position)
		return p.offset
	})
	if !settled {
		return true
	}

	endEvent := p.endEvent
	p.session = nil
	p.endEvent = nil
	p.generation++
	p.state = Idle

	if p.attached && p.action != nil {
		p.action(endEvent)
	}
	return false
}

// TickGeneration is Tick for frames scheduled under generation. Frames
// from an older generation do nothing.
func (p *Picker) TickGeneration(generation uint64, dt float64) bool {
	if generation != p.generation {
		return false
	}
	return p.Tick(dt)
}

func (p *Picker) discardSession() {
	if p.session == nil {
		return
	}
	p.session.Cancel()
	p.session = nil
	p.generation++
}

// stopFling drops a deceleration in flight so a programmatic move is the
// only writer of the offset. A drag in progress is left alone.
func (p *Picker) stopFling() {
	p.discardSession()
	if p.state == Decelerating {
		p.state = Idle
		p.endEvent = nil
	}
}

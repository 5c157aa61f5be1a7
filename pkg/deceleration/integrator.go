// Package deceleration integrates the "flick and settle" motion that follows
// a pan gesture: a velocity that decays exponentially under a constant
// resistance, stepped one frame at a time by the host's loop.
package deceleration

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// DefaultResistance is the velocity decay rate per second.
	DefaultResistance = 4.0

	// DefaultMinVelocity is the speed, in layout units per second, below
	// which motion is considered settled.
	DefaultMinVelocity = 1.0

	// DefaultFPS is the frame rate hosts schedule steps at.
	DefaultFPS = 60
)

// FrameInterval returns the duration of one frame at fps frames per second.
func FrameInterval(fps int) time.Duration {
	return time.Duration(harmonica.FPS(fps) * float64(time.Second))
}

// FrameDelta returns the step, in seconds, of one frame at fps.
func FrameDelta(fps int) float64 {
	return harmonica.FPS(fps)
}

// Integrator holds the constants of the motion model.
type Integrator struct {
	Resistance  float64
	MinVelocity float64
}

// New returns an integrator with the default constants.
func New() Integrator {
	return Integrator{
		Resistance:  DefaultResistance,
		MinVelocity: DefaultMinVelocity,
	}
}

// Start begins a session at position moving at velocity.
func (in Integrator) Start(position, velocity float64) *Session {
	if in.Resistance <= 0 {
		in.Resistance = DefaultResistance
	}
	if in.MinVelocity <= 0 {
		in.MinVelocity = DefaultMinVelocity
	}
	return &Session{
		integrator: in,
		position:   position,
		velocity:   velocity,
	}
}

// Session is one deceleration in progress. It is the handle hosts drop to
// cancel the motion.
type Session struct {
	integrator Integrator
	position   float64
	velocity   float64
	steps      int
	cancelled  bool
	settled    bool
}

// Step advances the motion by dt seconds. The new position is handed to
// write, which returns the position actually stored (for instance after
// clamping to the ruler's bounds). When write moves the position away from
// the requested one the motion stops there.
//
// Step reports true once the session is settled. Steps on a cancelled or
// settled session do nothing.
func (s *Session) Step(dt float64, write func(float64) float64) (settled bool) {
	if s.cancelled {
		return false
	}
	if s.settled {
		return true
	}
	if dt <= 0 {
		return false
	}

	s.velocity *= math.Exp(-s.integrator.Resistance * dt)
	requested := s.position + s.velocity*dt
	stored := write(requested)
	s.position = stored
	s.steps++

	if stored != requested {
		s.velocity = 0
	}
	if math.Abs(s.velocity) < s.integrator.MinVelocity {
		s.velocity = 0
		s.settled = true
	}
	return s.settled
}

// Cancel stops the session; further steps are no-ops.
func (s *Session) Cancel() {
	s.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (s *Session) Cancelled() bool {
	return s.cancelled
}

// Settled reports whether the motion came to rest.
func (s *Session) Settled() bool {
	return s.settled
}

// Position returns the last stored position.
func (s *Session) Position() float64 {
	return s.position
}

// Velocity returns the current velocity.
func (s *Session) Velocity() float64 {
	return s.velocity
}

// Steps returns how many steps moved the position.
func (s *Session) Steps() int {
	return s.steps
}

// RestingDistance predicts how far an unobstructed session travels before
// it settles, integrating the same discrete steps at fps.
func (in Integrator) RestingDistance(velocity float64, fps int) float64 {
	session := in.Start(0, velocity)
	dt := FrameDelta(fps)
	for !session.Step(dt, func(p float64) float64 { return p }) {
	}
	return session.Position()
}

package input

import (
	"math"
	"sync"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Sampler joins continuous input state with queued edges
// Producers may call the setters from any goroutine; Frame is called by the simulation step only
type Sampler struct {
	edges *EdgeQueue

	mu      sync.Mutex
	move    Axis
	aim     float64
	viewYaw float64

	// Consumer-owned
	jumpHeld bool
	fireHeld bool
	last     Frame
	sampled  bool
}

func NewSampler() *Sampler {
	return &Sampler{edges: NewEdgeQueue()}
}

// SetMove sets the movement axis, components clamped to [-1, 1]
func (s *Sampler) SetMove(x, y float64) {
	s.mu.Lock()
	s.move = Axis{X: vmath.Clamp(x, -1, 1), Y: vmath.Clamp(y, -1, 1)}
	s.mu.Unlock()
}

// SetAimAngle sets the grapple aim angle in degrees, wrapped to (-180, 180]
func (s *Sampler) SetAimAngle(deg float64) {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	s.mu.Lock()
	s.aim = deg
	s.mu.Unlock()
}

// AimAngle returns the current aim angle
func (s *Sampler) AimAngle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aim
}

// SetViewYaw sets the camera yaw in degrees
func (s *Sampler) SetViewYaw(yaw float64) {
	s.mu.Lock()
	s.viewYaw = yaw
	s.mu.Unlock()
}

// Press queues a press edge
func (s *Sampler) Press(a Action) {
	s.edges.Push(Edge{Action: a, Pressed: true})
}

// Release queues a release edge
func (s *Sampler) Release(a Action) {
	s.edges.Push(Edge{Action: a, Pressed: false})
}

// Frame returns the input for tick, draining queued edges the first time a tick is sampled
// Sampling the same tick again returns the same frame without consuming further edges
func (s *Sampler) Frame(tick uint64) Frame {
	if s.sampled && s.last.Tick == tick {
		return s.last
	}

	f := Frame{Tick: tick}
	for _, e := range s.edges.Drain() {
		switch e.Action {
		case ActionJump:
			if e.Pressed {
				f.JumpPressed = true
			}
			s.jumpHeld = e.Pressed
		case ActionFire:
			if e.Pressed {
				f.FirePressed = true
			} else {
				f.FireReleased = true
			}
			s.fireHeld = e.Pressed
		}
	}

	s.mu.Lock()
	f.Move = s.move
	f.AimAngle = s.aim
	f.ViewYaw = s.viewYaw
	s.mu.Unlock()

	f.JumpHeld = s.jumpHeld
	f.FireHeld = s.fireHeld

	s.last = f
	s.sampled = true
	return f
}

package kinematic

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// GroundParams configures grounded classification and jump legality
type GroundParams struct {
	GroundDist       float64
	MaxWalkingAngle  float64 // Degrees
	MaxJumpAngle     float64 // Degrees
	JumpCooldown     float64 // Seconds
	CoyoteTime       float64
	JumpBufferTime   float64
	VerticalSnapDown float64
	Epsilon          float64
}

// GroundState is the airborne/grounded bookkeeping carried across ticks
type GroundState struct {
	Grounded            bool
	GroundAngle         float64
	GroundNormal        vmath.Vec3F
	GroundCollider      physics.ColliderID
	Falling             bool
	ElapsedFalling      float64
	TimeSinceLastJump   float64
	JumpInputElapsed    float64
	NotSlidingSinceJump bool
}

// CanJump is the jump legality predicate
func CanJump(s GroundState, p GroundParams) bool {
	return (s.Grounded || s.ElapsedFalling <= p.CoyoteTime) &&
		s.GroundAngle <= p.MaxJumpAngle &&
		s.TimeSinceLastJump >= p.JumpCooldown &&
		(!s.Falling || s.NotSlidingSinceJump)
}

// GroundTracker classifies the agent against the ground each tick
type GroundTracker struct {
	query   physics.Query
	capsule physics.Capsule
	params  GroundParams
	state   GroundState
}

func NewGroundTracker(q physics.Query, capsule physics.Capsule, params GroundParams) *GroundTracker {
	return &GroundTracker{
		query:   q,
		capsule: capsule,
		params:  params,
		state: GroundState{
			GroundCollider:      physics.NoCollider,
			TimeSinceLastJump:   math.Inf(1),
			JumpInputElapsed:    math.Inf(1),
			NotSlidingSinceJump: true,
		},
	}
}

// State returns a copy of the current bookkeeping
func (g *GroundTracker) State() GroundState {
	return g.state
}

// Probe sweeps down by GroundDist and updates grounded, angle and falling
// Returns the falling time accumulated before this probe
func (g *GroundTracker) Probe(pos vmath.Vec3F, yaw float64) (prevFalling float64) {
	hit, ok := g.query.SweepCapsule(g.capsule, pos, yaw, vmath.Down, g.params.GroundDist)
	s := &g.state
	s.Grounded = ok
	if ok {
		s.GroundAngle = vmath.V3FAngle(hit.Normal, vmath.Up)
		s.GroundNormal = hit.Normal
		s.GroundCollider = hit.Collider
	} else {
		s.GroundAngle = 0
		s.GroundNormal = vmath.Vec3F{}
		s.GroundCollider = physics.NoCollider
	}
	s.Falling = !(s.Grounded && s.GroundAngle <= g.params.MaxWalkingAngle)
	return s.ElapsedFalling
}

// Integrate advances the falling clock, resetting it when standing on walkable ground
func (g *GroundTracker) Integrate(dt float64) {
	s := &g.state
	if s.Falling {
		s.ElapsedFalling += dt
		return
	}
	s.ElapsedFalling = 0
	s.NotSlidingSinceJump = true
}

// PressJump opens the jump buffer window
func (g *GroundTracker) PressJump() {
	g.state.JumpInputElapsed = 0
}

// Attempting reports whether a buffered jump is pending
func (g *GroundTracker) Attempting() bool {
	return g.state.JumpInputElapsed <= g.params.JumpBufferTime
}

// TryJump performs a buffered jump if legal, otherwise advances the jump timers
func (g *GroundTracker) TryJump(dt float64) bool {
	s := &g.state
	if g.Attempting() && CanJump(*s, g.params) {
		s.TimeSinceLastJump = 0
		s.JumpInputElapsed = math.Inf(1)
		s.NotSlidingSinceJump = false
		return true
	}
	s.TimeSinceLastJump += dt
	s.JumpInputElapsed += dt
	return false
}

// SnapDown pulls a grounded agent onto the surface below
// Returns pos unchanged when nothing is within VerticalSnapDown
func (g *GroundTracker) SnapDown(pos vmath.Vec3F, yaw float64) vmath.Vec3F {
	hit, ok := g.query.SweepCapsule(g.capsule, pos, yaw, vmath.Down, g.params.VerticalSnapDown)
	if !ok || hit.Distance <= 0 {
		return pos
	}
	return vmath.V3FAddScaled(pos, vmath.Down, hit.Distance-2*g.params.Epsilon)
}

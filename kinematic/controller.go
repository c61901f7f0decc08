package kinematic

import (
	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/grapple"
	"github.com/samuelbigos/tower-of-babylon/input"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// EventKind identifies a discrete occurrence during a tick
type EventKind int

const (
	EventJumped EventKind = iota + 1
	EventLanded
	EventGrappleFired
	EventGrappleHooked
	EventGrappleReleased
)

var eventNames = map[EventKind]string{
	EventJumped:          "jumped",
	EventLanded:          "landed",
	EventGrappleFired:    "grapple_fired",
	EventGrappleHooked:   "grapple_hooked",
	EventGrappleReleased: "grapple_released",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind by name for recordings
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts names produced by MarshalText
func (k *EventKind) UnmarshalText(b []byte) error {
	for kind, name := range eventNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	*k = 0
	return nil
}

type Event struct {
	Kind  EventKind   `json:"kind"`
	Point vmath.Vec3F `json:"point"`
}

// Pose is the agent's placement; yaw is the facing in degrees
type Pose struct {
	Position vmath.Vec3F `json:"position"`
	Yaw      float64     `json:"yaw"`
}

// Snapshot is the state exposed to collaborators after a tick
type Snapshot struct {
	Tick       uint64             `json:"tick"`
	Pose       Pose               `json:"pose"`
	Velocity   vmath.Vec3F        `json:"velocity"`
	Grounded   bool               `json:"grounded"`
	Falling    bool               `json:"falling"`
	Running    bool               `json:"running"`
	Ground     physics.ColliderID `json:"ground"`
	Grapple    grapple.State      `json:"grapple"`
	Sections   []grapple.Section  `json:"sections,omitempty"`
	RopeLength float64            `json:"rope_length,omitempty"`
	Preview    grapple.Preview    `json:"preview"`
	Events     []Event            `json:"events,omitempty"`
}

// Carrier reports how far a collider moved during the current step
// A World satisfies it; agents standing on a moving collider ride along
type Carrier interface {
	Motion(id physics.ColliderID) vmath.Vec3F
}

// Controller is the per-agent composition root, advanced once per fixed tick
type Controller struct {
	params  Params
	mover   *Mover
	ground  *GroundTracker
	rope    *grapple.Solver
	carrier Carrier
	log     logrus.FieldLogger

	pose           Pose
	velocity       vmath.Vec3F
	falling        bool
	grappleEnabled bool
	events         []Event
}

func NewController(q physics.Query, p Params, spawn Pose, log logrus.FieldLogger) (*Controller, error) {
	rope, err := grapple.NewSolver(q, p.Grapple, log)
	if err != nil {
		return nil, err
	}
	carrier, _ := q.(Carrier)
	return &Controller{
		params:         p,
		mover:          NewMover(q, p.Capsule, p.Slide),
		ground:         NewGroundTracker(q, p.Capsule, p.Ground),
		rope:           rope,
		carrier:        carrier,
		log:            log.WithField("component", "controller"),
		pose:           spawn,
		grappleEnabled: true,
		events:         make([]Event, 0, 4),
	}, nil
}

func (c *Controller) Pose() Pose {
	return c.pose
}

func (c *Controller) Velocity() vmath.Vec3F {
	return c.velocity
}

// Teleport places the agent without sweeping
func (c *Controller) Teleport(pos vmath.Vec3F) {
	c.pose.Position = pos
	c.rope.SyncTip(pos)
}

// SetGrappleEnabled gates the grapple; disabling releases an attached rope on the next tick
func (c *Controller) SetGrappleEnabled(enabled bool) {
	c.grappleEnabled = enabled
}

// Capsule returns the collision shape
func (c *Controller) Capsule() physics.Capsule {
	return c.params.Capsule
}

// Tick advances the agent by dt seconds
// Order: platform carry, rope solver and swing steering, ground probe, gravity or ground drag, jump,
// input movement, velocity movement, ground snap, curved-world projection
func (c *Controller) Tick(f input.Frame, curv tower.Curvature, dt float64) Snapshot {
	c.events = c.events[:0]
	c.carry()
	prevPos := c.pose.Position
	move := f.Move
	right, depth := c.moveAxes(curv, f.ViewYaw)

	// Rope
	c.rope.Tick(grapple.Input{
		Position:  c.pose.Position,
		AimAngle:  f.AimAngle,
		Fire:      f.FirePressed,
		Release:   f.FireReleased,
		Enabled:   c.grappleEnabled,
		Curvature: curv,
		DT:        dt,
	})
	c.collectRopeEvents()
	hooked := c.rope.Hooked()
	if hooked {
		lean := vmath.V3FClampMagnitude(vmath.V3FAdd(vmath.V3FScale(right, move.X), vmath.V3FScale(vmath.Up, move.Y)), 1)
		c.velocity = grapple.Swing(grapple.SwingInput{
			Position:  c.pose.Position,
			Target:    c.rope.Target(),
			Velocity:  c.velocity,
			Lean:      lean,
			Pull:      move.Y,
			Curvature: curv,
			DT:        dt,
		}, c.params.Swing)
		move.X = 0
	}

	// Ground
	prevFalling := c.ground.Probe(c.pose.Position, c.pose.Yaw)
	gs := c.ground.State()
	if !gs.Falling && c.falling && prevFalling > c.params.LandCueFallTime {
		c.emit(EventLanded, c.pose.Position)
	}
	c.falling = gs.Falling

	if gs.Falling {
		move.X = 0
		c.velocity.Y += c.params.Gravity * dt
		if curv.Wrap {
			c.velocity = c.reprojectVelocity(curv)
		}
	} else {
		c.velocity = vmath.V3FAddScaled(c.velocity, c.velocity, -c.params.GroundRetardation*dt)
	}
	c.ground.Integrate(dt)

	// Jump
	if f.JumpPressed || f.JumpHeld {
		c.ground.PressJump()
	}
	attemptingJump := c.ground.Attempting()
	if c.ground.TryJump(dt) {
		c.velocity = vmath.V3FAddScaled(c.velocity, c.jumpDirection(gs), c.params.JumpVelocity)
		c.emit(EventJumped, c.pose.Position)
	}

	// Input movement
	wish := vmath.V3FScale(right, move.X)
	if c.params.DepthMovement {
		wish = vmath.V3FAddScaled(wish, depth, move.Y)
	}
	wish = vmath.V3FClampMagnitude(wish, 1)
	movement := vmath.V3FScale(wish, c.params.MoveSpeed*dt)
	if !gs.Falling {
		movement = vmath.V3FProjectOnPlane(movement, gs.GroundNormal)
	}

	bounce := c.params.Bounce
	if hooked {
		bounce = c.params.GrappleBounce
	}
	if curv.Wrap {
		c.pose.Position = curv.Apply(c.pose.Position)
	}
	res := c.mover.Move(c.pose.Position, c.pose.Yaw, movement, c.velocity, bounce)
	c.pose.Position, c.velocity = res.Position, res.Velocity

	// Walking owns velocity while grounded
	if !gs.Falling && !attemptingJump && move.X != 0 && dt > 0 {
		c.velocity = vmath.V3FScale(movement, 1/dt)
	}

	// Velocity movement
	res = c.mover.Move(c.pose.Position, c.pose.Yaw, vmath.V3FScale(c.velocity, dt), c.velocity, bounce)
	c.pose.Position, c.velocity = res.Position, res.Velocity

	if gs.Grounded && !attemptingJump {
		c.pose.Position = c.ground.SnapDown(c.pose.Position, c.pose.Yaw)
	}
	if curv.Wrap {
		c.pose.Position = curv.Apply(c.pose.Position)
	}

	if !vmath.V3FIsFinite(c.pose.Position) || !vmath.V3FIsFinite(c.velocity) {
		c.log.WithFields(logrus.Fields{
			"tick":     f.Tick,
			"position": c.pose.Position,
			"velocity": c.velocity,
		}).Warn("non-finite state, restoring previous position")
		c.pose.Position = prevPos
		c.velocity = vmath.Vec3F{}
	}

	c.rope.SyncTip(c.pose.Position)
	c.face(hooked)

	return c.snapshot(f.Tick, gs)
}

// carry applies the motion of the collider the agent stood on at the end of the last tick
func (c *Controller) carry() {
	if c.carrier == nil {
		return
	}
	id := c.ground.State().GroundCollider
	if id == physics.NoCollider {
		return
	}
	if d := c.carrier.Motion(id); d != (vmath.Vec3F{}) {
		c.Teleport(vmath.V3FAdd(c.pose.Position, d))
	}
}

// moveAxes returns the world directions for the lateral and depth input axes
func (c *Controller) moveAxes(curv tower.Curvature, viewYaw float64) (right, depth vmath.Vec3F) {
	if curv.Wrap {
		if t := tower.Tangent(c.pose.Position); t != (vmath.Vec3F{}) {
			return t, vmath.V3FNeg(tower.Radial(c.pose.Position))
		}
	}
	return vmath.V3FRotateYaw(vmath.Right, viewYaw), vmath.V3FRotateYaw(vmath.Forward, viewYaw)
}

// reprojectVelocity bends the velocity direction onto the tower surface keeping its speed
func (c *Controller) reprojectVelocity(curv tower.Curvature) vmath.Vec3F {
	speed := vmath.V3FMag(c.velocity)
	if speed <= vmath.NormalizeEpsilon {
		return c.velocity
	}
	pos := c.pose.Position
	ahead := curv.Apply(vmath.V3FAdd(pos, vmath.V3FScale(c.velocity, 1/speed)))
	return vmath.V3FScale(vmath.V3FNormalize(vmath.V3FSub(ahead, pos)), speed)
}

func (c *Controller) jumpDirection(gs GroundState) vmath.Vec3F {
	if gs.GroundNormal == (vmath.Vec3F{}) || c.params.JumpAngleWeight == 0 {
		return vmath.Up
	}
	dir := vmath.V3FNormalize(vmath.V3FLerp(vmath.Up, gs.GroundNormal, c.params.JumpAngleWeight))
	if dir == (vmath.Vec3F{}) {
		return vmath.Up
	}
	return dir
}

// face turns toward the flattened velocity, or toward the anchor while hooked
func (c *Controller) face(hooked bool) {
	forward := vmath.V3FNormalize(vmath.V3FFlatten(c.velocity))
	if forward == (vmath.Vec3F{}) {
		return
	}
	if hooked {
		toAnchor := vmath.V3FNormalize(vmath.V3FFlatten(vmath.V3FSub(c.rope.Target(), c.pose.Position)))
		if toAnchor != (vmath.Vec3F{}) {
			forward = toAnchor
		}
	}
	c.pose.Yaw = vmath.V3FYaw(forward)
}

func (c *Controller) collectRopeEvents() {
	for _, e := range c.rope.Events() {
		switch e.Kind {
		case grapple.EventFired:
			c.emit(EventGrappleFired, e.Point)
		case grapple.EventHooked:
			c.emit(EventGrappleHooked, e.Point)
		case grapple.EventReleased:
			c.emit(EventGrappleReleased, e.Point)
		}
	}
}

func (c *Controller) emit(kind EventKind, p vmath.Vec3F) {
	c.events = append(c.events, Event{Kind: kind, Point: p})
}

func (c *Controller) snapshot(tick uint64, gs GroundState) Snapshot {
	flat := vmath.V3FFlatten(c.velocity)
	running := vmath.V3FDot(flat, c.velocity) > c.params.RunningSpeedSq && !gs.Falling

	var events []Event
	if len(c.events) > 0 {
		events = make([]Event, len(c.events))
		copy(events, c.events)
	}
	return Snapshot{
		Tick:       tick,
		Pose:       c.pose,
		Velocity:   c.velocity,
		Grounded:   gs.Grounded,
		Falling:    gs.Falling,
		Running:    running,
		Ground:     gs.GroundCollider,
		Grapple:    c.rope.State(),
		Sections:   c.rope.Sections(),
		RopeLength: c.rope.Length(),
		Preview:    c.rope.Preview(),
		Events:     events,
	}
}

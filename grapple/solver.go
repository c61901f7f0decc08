// Package grapple owns the rope bolt state machine and the multi-section rope solver
package grapple

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/engine/fsm"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/tower"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

//go:embed states.yaml
var stateGraph []byte

// Mask is the layer set rope rays test against; Blocker stops a ray without anchoring it
const Mask = physics.LayerGrapple | physics.LayerBlocker

const (
	triggerFire fsm.Trigger = iota + 1
	triggerRelease
)

// State is the externally visible bolt state
type State int

const (
	StateInactive State = iota
	StateShooting
	StateHooked
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "Inactive"
	case StateShooting:
		return "Shooting"
	case StateHooked:
		return "Hooked"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{StateInactive, StateShooting, StateHooked} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("grapple: unknown state %q", b)
}

// EventKind identifies a bolt lifecycle change
type EventKind int

const (
	EventFired EventKind = iota + 1
	EventHooked
	EventReleased
)

// Event is emitted during Tick; Point is the bolt origin, anchor, or last target
type Event struct {
	Kind  EventKind
	Point vmath.Vec3F
}

// Params configures the bolt and rope
type Params struct {
	Length          float64
	Speed           float64
	HangTime        float64
	CollisionBuffer float64
	PreviewDistance float64
}

// Input is the per-tick view of the player the solver needs
type Input struct {
	Position  vmath.Vec3F
	AimAngle  float64 // Degrees in the side plane, 0 forward, 90 up
	Fire      bool    // Press edge this tick
	Release   bool    // Release edge this tick
	Enabled   bool
	Curvature tower.Curvature
	DT        float64
}

// Preview is the aim target shown while inactive
type Preview struct {
	Point vmath.Vec3F
	Valid bool
}

// Solver runs the bolt lifecycle and keeps the rope wrapped around occluders
type Solver struct {
	query   physics.Query
	params  Params
	log     logrus.FieldLogger
	machine *fsm.Machine[*Solver]
	states  map[fsm.StateID]State

	rope    Rope
	in      Input
	events  []Event
	preview Preview

	// Bolt
	aimForward float64
	aimUp      float64
	extension  float64
	hangTimer  float64
	anchored   bool
}

// NewSolver builds a solver in the Inactive state
func NewSolver(q physics.Query, params Params, log logrus.FieldLogger) (*Solver, error) {
	s := &Solver{
		query:  q,
		params: params,
		log:    log.WithField("component", "grapple"),
		events: make([]Event, 0, 4),
	}

	m := fsm.NewMachine[*Solver]()
	m.RegisterTrigger("Fire", triggerFire)
	m.RegisterTrigger("Release", triggerRelease)
	m.RegisterAction("Preview", (*Solver).actPreview)
	m.RegisterAction("Launch", (*Solver).actLaunch)
	m.RegisterAction("Extend", (*Solver).actExtend)
	m.RegisterAction("Anchor", (*Solver).actAnchor)
	m.RegisterAction("Maintain", (*Solver).actMaintain)
	m.RegisterAction("ClearRope", (*Solver).actClearRope)
	m.RegisterGuard("BoltAnchored", func(s *Solver) bool { return s.anchored })
	m.RegisterGuard("HangExpired", func(s *Solver) bool { return s.hangTimer > s.params.HangTime })
	if err := m.LoadConfig(stateGraph); err != nil {
		return nil, err
	}

	s.states = map[fsm.StateID]State{
		m.MustStateID("Inactive"): StateInactive,
		m.MustStateID("Shooting"): StateShooting,
		m.MustStateID("Hooked"):   StateHooked,
	}
	m.OnTransition(func(from, to fsm.StateID) {
		s.log.WithFields(logrus.Fields{
			"from": m.StateName(from),
			"to":   m.StateName(to),
		}).Debug("grapple transition")
	})
	if err := m.Init(s); err != nil {
		return nil, err
	}
	s.machine = m
	return s, nil
}

// Tick advances the bolt by one fixed step
// Order: release edge, state update and its tick transitions, fire edge
func (s *Solver) Tick(in Input) {
	s.in = in
	s.events = s.events[:0]

	if !in.Enabled {
		s.machine.HandleEvent(s, triggerRelease)
		s.preview = Preview{}
		return
	}
	if in.Release {
		s.machine.HandleEvent(s, triggerRelease)
	}
	s.machine.Update(s, time.Duration(in.DT*float64(time.Second)))
	if in.Fire {
		s.machine.HandleEvent(s, triggerFire)
	}
}

// Release drops the rope regardless of state
func (s *Solver) Release() {
	s.machine.HandleEvent(s, triggerRelease)
}

// SyncTip moves the player end of the rope after the agent has moved
func (s *Solver) SyncTip(pos vmath.Vec3F) {
	if s.rope.Empty() {
		return
	}
	tail := s.rope.Tail()
	tail.Tip = pos
	s.rope.SetTail(tail)
}

func (s *Solver) State() State {
	return s.states[s.machine.Current()]
}

func (s *Solver) Hooked() bool {
	return s.State() == StateHooked
}

// Target is the anchor the player swings about
func (s *Solver) Target() vmath.Vec3F {
	if s.rope.Empty() {
		panic("grapple: hooked with no rope sections")
	}
	return s.rope.Tail().Base
}

func (s *Solver) Sections() []Section {
	return s.rope.Sections()
}

func (s *Solver) SectionCount() int {
	return s.rope.Len()
}

// Events returns the events emitted by the last Tick, valid until the next Tick
func (s *Solver) Events() []Event {
	return s.events
}

func (s *Solver) Preview() Preview {
	return s.preview
}

// Extension is the current bolt reach while shooting
func (s *Solver) Extension() float64 {
	return s.extension
}

func (s *Solver) emit(kind EventKind, p vmath.Vec3F) {
	s.events = append(s.events, Event{Kind: kind, Point: p})
}

// forward is the in-plane horizontal axis the aim angle is measured from
func (s *Solver) forward(pos vmath.Vec3F) vmath.Vec3F {
	if s.in.Curvature.Wrap {
		if t := tower.Tangent(pos); t != (vmath.Vec3F{}) {
			return t
		}
	}
	return vmath.Right
}

func (s *Solver) aimDirection(pos vmath.Vec3F) vmath.Vec3F {
	rad := s.in.AimAngle * vmath.DegToRad
	return vmath.V3FNormalize(vmath.V3FAdd(
		vmath.V3FScale(s.forward(pos), math.Cos(rad)),
		vmath.V3FScale(vmath.Up, math.Sin(rad)),
	))
}

// castBolt raycasts against Mask; a Blocker hit stops the ray but is not an anchor
func (s *Solver) castBolt(origin, dir vmath.Vec3F, dist float64) (physics.Hit, bool) {
	hit, ok := s.query.Raycast(origin, dir, dist, Mask)
	if !ok || hit.Layer&physics.LayerBlocker != 0 {
		return hit, false
	}
	return hit, true
}

func (s *Solver) actPreview(_ any) {
	pos := s.in.Position
	hit, ok := s.castBolt(pos, s.aimDirection(pos), s.params.PreviewDistance)
	if !ok {
		s.preview = Preview{}
		return
	}
	s.preview = Preview{Point: s.in.Curvature.Apply(hit.Point), Valid: true}
}

func (s *Solver) actLaunch(_ any) {
	pos := s.in.Position
	s.rope.Clear()
	s.rope.Push(Section{Base: pos, Tip: pos})
	s.extension = 0
	s.hangTimer = 0
	s.anchored = false

	// Lock the aim as components so the bolt follows the player's frame
	dir := s.aimDirection(pos)
	s.aimForward = vmath.V3FDot(dir, s.forward(pos))
	s.aimUp = vmath.V3FDot(dir, vmath.Up)
	s.emit(EventFired, pos)
}

func (s *Solver) actExtend(_ any) {
	pos := s.in.Position
	dir := vmath.V3FAdd(vmath.V3FScale(s.forward(pos), s.aimForward), vmath.V3FScale(vmath.Up, s.aimUp))
	tail := s.rope.Tail()

	if hit, ok := s.castBolt(pos, dir, s.extension); ok {
		s.rope.SetTail(Section{Base: hit.Point, Tip: pos, CollideNormal: tail.CollideNormal})
		s.anchored = true
		return
	}

	s.rope.SetTail(Section{Base: vmath.V3FAddScaled(pos, dir, s.extension), Tip: pos, CollideNormal: tail.CollideNormal})
	if s.extension > s.params.Length {
		s.hangTimer += s.in.DT
	} else {
		s.extension += s.params.Speed * s.in.DT
	}
}

func (s *Solver) actAnchor(_ any) {
	target := s.Target()
	s.log.WithField("anchor", target).Debug("grapple hooked")
	s.emit(EventHooked, target)
}

func (s *Solver) actClearRope(_ any) {
	var last vmath.Vec3F
	if !s.rope.Empty() {
		last = s.rope.Tail().Base
	}
	s.rope.Clear()
	s.anchored = false
	s.extension = 0
	s.hangTimer = 0
	s.emit(EventReleased, last)
}

func (s *Solver) actMaintain(_ any) {
	if s.rope.Empty() {
		panic("grapple: hooked with no rope sections")
	}
	s.SyncTip(s.in.Position)
	if s.split() {
		s.log.WithField("sections", s.rope.Len()).Debug("rope split")
	}
	if s.merge() {
		s.log.WithField("sections", s.rope.Len()).Debug("rope merged")
	}
}

// split pins the tail to the first occluder between the player and its anchor
func (s *Solver) split() bool {
	buf := s.params.CollisionBuffer
	tail := s.rope.Tail()
	toBase := vmath.V3FSub(tail.Base, tail.Tip)
	mag := vmath.V3FMag(toBase)
	if mag <= 2*buf {
		return false
	}
	dir := vmath.V3FScale(toBase, 1/mag)

	hit, ok := s.query.Raycast(vmath.V3FAddScaled(tail.Tip, dir, buf), dir, mag-2*buf, Mask)
	if !ok {
		return false
	}

	perp := vmath.Back
	if s.in.Curvature.Wrap {
		perp = tower.Radial(hit.Point)
	}
	toOldBase := vmath.V3FNormalize(vmath.V3FSub(tail.Base, hit.Point))
	collideNormal := vmath.V3FCross(perp, toOldBase)
	if vmath.V3FDot(hit.Normal, collideNormal) <= 0 {
		collideNormal = vmath.V3FCross(vmath.V3FNeg(perp), toOldBase)
	}

	s.rope.SetTail(Section{Base: tail.Base, Tip: hit.Point, CollideNormal: collideNormal})
	s.rope.Push(Section{Base: hit.Point, Tip: tail.Tip})
	return true
}

// merge drops the newest intermediate anchor once the player has swung back past it
func (s *Solver) merge() bool {
	n := s.rope.Len()
	if n < 2 {
		return false
	}
	buf := s.params.CollisionBuffer
	far := s.rope.sections[n-2]
	near := s.rope.sections[n-1]

	toFar := vmath.V3FSub(far.Base, near.Tip)
	mag := vmath.V3FMag(toFar)
	if mag > 2*buf {
		dir := vmath.V3FScale(toFar, 1/mag)
		if _, blocked := s.query.Raycast(vmath.V3FAddScaled(near.Tip, dir, buf), dir, mag-2*buf, Mask); blocked {
			return false
		}
	}

	tipDir := vmath.V3FNormalize(vmath.V3FSub(near.Tip, near.Base))
	if vmath.V3FDot(tipDir, far.CollideNormal) < 0 {
		return false
	}

	s.rope.Pop()
	s.rope.SetTail(Section{Base: far.Base, Tip: near.Tip, CollideNormal: far.CollideNormal})
	return true
}

// Length is the total rope length across all sections, zero when nothing is attached
func (s *Solver) Length() float64 {
	return s.rope.Length()
}

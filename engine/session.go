// Package engine drives a kinematic agent through a scene on a fixed step
package engine

import (
	_ "embed"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/engine/fsm"
	"github.com/samuelbigos/tower-of-babylon/input"
	"github.com/samuelbigos/tower-of-babylon/kinematic"
	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/scene"
	"github.com/samuelbigos/tower-of-babylon/tower"
)

//go:embed session.yaml
var sessionGraph []byte

const triggerStart fsm.Trigger = 1

// Step is the result of one fixed step as seen by observers
type Step struct {
	kinematic.Snapshot
	Input     input.Frame     `json:"input"` // As sampled, before any zeroing
	State     GameState       `json:"state"`
	Curvature tower.Curvature `json:"curvature"`
	RunTime   float64         `json:"run_time"`
}

// Observer receives every step after it completes
type Observer interface {
	Observe(Step)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Step)

func (f ObserverFunc) Observe(s Step) {
	f(s)
}

// Session owns one run: the controller, the curvature authority and the lifecycle machine
// All methods are called from the simulation goroutine
type Session struct {
	scene   *scene.Scene
	tuning  parameter.Tuning
	ctrl    *kinematic.Controller
	curv    *tower.Tracker
	machine *fsm.Machine[*Session]
	states  map[fsm.StateID]GameState
	log     logrus.FieldLogger

	observers []Observer
	dt        float64
	step      time.Duration
	tick      uint64
	runTime   float64
	running   bool
	last      Step
}

func NewSession(sc *scene.Scene, t parameter.Tuning, log logrus.FieldLogger) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	ctrl, err := kinematic.NewController(sc.World, kinematic.ParamsFromTuning(t), kinematic.Pose{Position: sc.Spawn}, log)
	if err != nil {
		return nil, err
	}

	s := &Session{
		scene:  sc,
		tuning: t,
		ctrl:   ctrl,
		curv:   tower.NewTracker(sc.Curvature, sc.Initial, log.WithField("component", "curvature")),
		log:    log.WithField("component", "session"),
		dt:     t.TickSeconds(),
		step:   t.Tick,
	}

	m := fsm.NewMachine[*Session]()
	m.RegisterTrigger("Start", triggerStart)
	m.RegisterAction("GrappleEnabled", func(s *Session, args any) {
		enabled, _ := args.(bool)
		s.ctrl.SetGrappleEnabled(enabled)
	})
	m.RegisterAction("StartRun", func(s *Session, _ any) {
		s.runTime = 0
		s.running = true
	})
	m.RegisterAction("AccumulateRun", func(s *Session, _ any) {
		if s.running {
			s.runTime += s.dt
		}
	})
	m.RegisterAction("EndRun", func(s *Session, _ any) {
		s.running = false
	})
	m.RegisterGuard("IntroElapsed", func(s *Session) bool {
		return s.machine.TimeInState().Seconds() >= s.tuning.Session.IntroDuration
	})
	m.RegisterGuard("TouchingKillZone", (*Session).touchingKillZone)
	m.RegisterGuard("AboveSummit", (*Session).aboveSummit)
	if err := m.LoadConfig(sessionGraph); err != nil {
		return nil, err
	}

	s.states = map[fsm.StateID]GameState{
		m.MustStateID("Intro"):  StateIntro,
		m.MustStateID("Alive"):  StateAlive,
		m.MustStateID("Dead"):   StateDead,
		m.MustStateID("Summit"): StateSummit,
	}
	m.OnTransition(func(from, to fsm.StateID) {
		s.log.WithFields(logrus.Fields{
			"from":     m.StateName(from),
			"to":       m.StateName(to),
			"tick":     s.tick,
			"run_time": s.runTime,
		}).Info("game state")
	})
	s.machine = m
	if err := m.Init(s); err != nil {
		return nil, err
	}

	s.last = Step{
		Snapshot:  kinematic.Snapshot{Pose: ctrl.Pose(), Ground: physics.NoCollider},
		State:     StateIntro,
		Curvature: sc.Initial,
	}
	return s, nil
}

// AddObserver registers o for every following step
func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Start ends the intro early; it has no effect in any other state
func (s *Session) Start() {
	s.machine.HandleEvent(s, triggerStart)
}

// Step advances the session by one fixed step using f
// Input is zeroed outside the Alive state; a fire press during the intro starts the run
func (s *Session) Step(f input.Frame) Step {
	s.tick++
	f.Tick = s.tick
	raw := f

	state := s.State()
	if state == StateIntro && f.FirePressed {
		s.Start()
	}
	if state != StateAlive {
		f = f.Zeroed()
	}

	s.scene.Advance(s.dt)
	curv := s.curv.Resolve(s.ctrl.Pose().Position)
	snap := s.ctrl.Tick(f, curv, s.dt)
	s.machine.Update(s, s.step)

	s.last = Step{
		Snapshot:  snap,
		Input:     raw,
		State:     s.State(),
		Curvature: curv,
		RunTime:   s.runTime,
	}
	for _, o := range s.observers {
		o.Observe(s.last)
	}
	return s.last
}

func (s *Session) State() GameState {
	return s.states[s.machine.Current()]
}

// Last is the most recent step, or the spawn state before the first step
func (s *Session) Last() Step {
	return s.last
}

func (s *Session) Scene() *scene.Scene {
	return s.scene
}

func (s *Session) Controller() *kinematic.Controller {
	return s.ctrl
}

// RunTime is the time spent alive, frozen once the run ends
func (s *Session) RunTime() float64 {
	return s.runTime
}

func (s *Session) Tick() uint64 {
	return s.tick
}

func (s *Session) touchingKillZone() bool {
	pose := s.ctrl.Pose()
	_, hit := s.scene.World.Overlaps(s.ctrl.Capsule(), pose.Position, pose.Yaw, s.tuning.Session.KillZoneSkin, physics.LayerKillZone)
	return hit
}

func (s *Session) aboveSummit() bool {
	return s.scene.SummitHeight > 0 && s.ctrl.Pose().Position.Y > s.scene.SummitHeight
}

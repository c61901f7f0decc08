package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/kinematic"
)

// CuePlayer plays a cue for every controller event and run-ending state change
// It implements engine.Observer. Until Start succeeds cues are counted but not played,
// so a machine without an audio device runs silent
type CuePlayer struct {
	mu      sync.Mutex
	cfg     Config
	mixer   *beep.Mixer
	started bool
	muted   atomic.Bool
	log     logrus.FieldLogger

	state  engine.GameState
	played [cueCount]uint64
}

func NewCuePlayer(cfg Config, log logrus.FieldLogger) *CuePlayer {
	p := &CuePlayer{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		log:   log.WithField("component", "audio"),
	}
	p.muted.Store(!cfg.Enabled)
	return p
}

// Start opens the speaker and attaches the mixer
func (p *CuePlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	if err := speaker.Init(p.cfg.SampleRate, p.cfg.SampleRate.N(p.cfg.Buffer)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(p.mixer)
	p.started = true
	p.log.WithField("sample_rate", int(p.cfg.SampleRate)).Debug("speaker started")
	return nil
}

// Observe maps one session step to cues
func (p *CuePlayer) Observe(s engine.Step) {
	for _, e := range s.Events {
		switch e.Kind {
		case kinematic.EventJumped:
			p.Play(CueJump)
		case kinematic.EventLanded:
			p.Play(CueLand)
		case kinematic.EventGrappleFired:
			p.Play(CueFire)
		case kinematic.EventGrappleHooked:
			p.Play(CueHook)
		case kinematic.EventGrappleReleased:
			p.Play(CueRelease)
		}
	}

	p.mu.Lock()
	prev := p.state
	p.state = s.State
	p.mu.Unlock()
	if prev == s.State {
		return
	}
	switch s.State {
	case engine.StateDead:
		p.Play(CueDeath)
	case engine.StateSummit:
		p.Play(CueSummit)
	}
}

// Play synthesizes c and adds it to the mixer
func (p *CuePlayer) Play(c Cue) {
	if p.muted.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.played[c]++
	if !p.started {
		return
	}

	s, err := Synthesize(c, p.cfg)
	if err != nil {
		p.log.WithError(err).WithField("cue", c).Warn("synthesize cue")
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Played is the number of times c was requested while unmuted
func (p *CuePlayer) Played(c Cue) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played[c]
}

func (p *CuePlayer) SetMuted(muted bool) {
	p.muted.Store(muted)
	if muted {
		p.clear()
	}
}

// ToggleMute flips the mute flag and returns the new value
func (p *CuePlayer) ToggleMute() bool {
	muted := !p.muted.Load()
	p.SetMuted(muted)
	return muted
}

func (p *CuePlayer) Muted() bool {
	return p.muted.Load()
}

func (p *CuePlayer) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
}

// Close stops playback and releases the speaker
func (p *CuePlayer) Close() {
	p.clear()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	speaker.Close()
	p.started = false
}

package record

import (
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/grapple"
	"github.com/samuelbigos/tower-of-babylon/scene"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Summary aggregates a recording
type Summary struct {
	Steps       uint64
	FirstTick   uint64
	LastTick    uint64
	Events      map[string]int
	MaxHeight   float64
	Distance    float64
	HookedTicks uint64
	MaxSections int
	FinalState  engine.GameState
	RunTime     float64
}

// Summarize consumes the rest of r
func Summarize(r *Reader) (Summary, error) {
	sum := Summary{Events: make(map[string]int), MaxHeight: math.Inf(-1)}
	var prev vmath.Vec3F
	for {
		s, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, err
		}

		pos := s.Pose.Position
		if sum.Steps == 0 {
			sum.FirstTick = s.Tick
		} else {
			sum.Distance += vmath.V3FDistance(prev, pos)
		}
		prev = pos
		sum.Steps++
		sum.LastTick = s.Tick
		sum.MaxHeight = math.Max(sum.MaxHeight, pos.Y)
		sum.MaxSections = max(sum.MaxSections, len(s.Sections))
		if s.Grapple == grapple.StateHooked {
			sum.HookedTicks++
		}
		for _, e := range s.Events {
			sum.Events[e.Kind.String()]++
		}
		sum.FinalState = s.State
		sum.RunTime = s.RunTime
	}
	if sum.Steps == 0 {
		sum.MaxHeight = 0
	}
	return sum, nil
}

// SceneFor rebuilds the scene a recording was made in
func SceneFor(h Header) (*scene.Scene, error) {
	if h.SceneFile != "" {
		return scene.Load(h.SceneFile, h.Tuning)
	}
	return scene.Builtin(h.Scene, h.Tuning)
}

// Verify feeds the recorded input into s and checks every step reproduces the recording
// s must be fresh and built from the recording's scene and tuning
func Verify(r *Reader, s *engine.Session) (uint64, error) {
	var checked uint64
	for {
		want, err := r.Next()
		if err == io.EOF {
			return checked, nil
		}
		if err != nil {
			return checked, err
		}

		got := s.Step(want.Input)
		switch {
		case got.Tick != want.Tick:
			return checked, errors.Errorf("tick mismatch: stepped %d, recorded %d", got.Tick, want.Tick)
		case got.Pose != want.Pose:
			return checked, errors.Errorf("tick %d: pose %+v, recorded %+v", got.Tick, got.Pose, want.Pose)
		case got.Velocity != want.Velocity:
			return checked, errors.Errorf("tick %d: velocity %v, recorded %v", got.Tick, got.Velocity, want.Velocity)
		case got.Ground != want.Ground:
			return checked, errors.Errorf("tick %d: standing on %d, recorded %d", got.Tick, got.Ground, want.Ground)
		case got.State != want.State || got.Grapple != want.Grapple:
			return checked, errors.Errorf("tick %d: state %v/%v, recorded %v/%v", got.Tick, got.State, got.Grapple, want.State, want.Grapple)
		case len(got.Events) != len(want.Events):
			return checked, errors.Errorf("tick %d: %d events, recorded %d", got.Tick, len(got.Events), len(want.Events))
		}
		checked++
	}
}

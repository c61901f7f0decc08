// Package audio turns session events into short synthesized cues played through beep
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/pkg/errors"

	"github.com/samuelbigos/tower-of-babylon/parameter"
)

// Cue identifies one synthesized sound
type Cue int

const (
	CueJump Cue = iota
	CueLand
	CueFire
	CueHook
	CueRelease
	CueDeath
	CueSummit
	cueCount
)

var cueNames = [cueCount]string{"jump", "land", "fire", "hook", "release", "death", "summit"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// Config holds playback settings
type Config struct {
	Enabled    bool
	SampleRate beep.SampleRate
	Buffer     time.Duration
	Master     float64
	Volumes    [cueCount]float64
}

func DefaultConfig() Config {
	cfg := Config{
		Enabled:    true,
		SampleRate: beep.SampleRate(parameter.AudioSampleRate),
		Buffer:     parameter.AudioBufferDuration,
		Master:     parameter.AudioMasterVolume,
	}
	for i := range cfg.Volumes {
		cfg.Volumes[i] = 1
	}
	cfg.Volumes[CueLand] = 0.8
	cfg.Volumes[CueFire] = 0.5
	return cfg
}

// Synthesize builds a fresh, finite streamer for c
func Synthesize(c Cue, cfg Config) (beep.Streamer, error) {
	rate := cfg.SampleRate
	var s beep.Streamer

	switch c {
	case CueJump:
		s = beep.Seq(
			NewEnvelope(NewOscillator(parameter.JumpNoteLow, parameter.JumpNoteDuration, WaveSquare, rate),
				parameter.JumpNoteDuration, parameter.JumpAttack, parameter.JumpRelease, rate),
			NewEnvelope(NewOscillator(parameter.JumpNoteHigh, parameter.JumpNoteDuration, WaveSquare, rate),
				parameter.JumpNoteDuration, parameter.JumpAttack, parameter.JumpRelease, rate),
		)
		s = newVolume(s, 0.4)

	case CueLand:
		thud, err := sineTone(parameter.LandFreq, parameter.LandSoundDuration, parameter.LandAttack, parameter.LandRelease, rate)
		if err != nil {
			return nil, errors.Wrap(err, "land tone")
		}
		noise := NewEnvelope(NewOscillator(0, parameter.LandSoundDuration, WaveNoise, rate),
			parameter.LandSoundDuration, parameter.LandAttack, parameter.LandRelease, rate)
		s = beep.Mix(newVolume(thud, 1-parameter.LandNoiseMix), newVolume(noise, parameter.LandNoiseMix))

	case CueFire:
		s = NewEnvelope(NewOscillator(0, parameter.FireSoundDuration, WaveNoise, rate),
			parameter.FireSoundDuration, parameter.FireAttack, parameter.FireRelease, rate)

	case CueHook:
		fund, err := sineTone(parameter.HookFreq, parameter.HookSoundDuration, parameter.HookAttack, parameter.HookFundamentalDecay, rate)
		if err != nil {
			return nil, errors.Wrap(err, "hook tone")
		}
		over, err := sineTone(2*parameter.HookFreq, parameter.HookSoundDuration, parameter.HookAttack, parameter.HookOvertoneDecay, rate)
		if err != nil {
			return nil, errors.Wrap(err, "hook overtone")
		}
		s = beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))

	case CueRelease:
		s = NewEnvelope(NewGlide(parameter.ReleaseFreq, parameter.ReleaseFreq/2, parameter.ReleaseSoundDuration, WaveSaw, rate),
			parameter.ReleaseSoundDuration, parameter.ReleaseAttack, parameter.ReleaseRelease, rate)
		s = newVolume(s, 0.5)

	case CueDeath:
		s = jingle(parameter.DeathNotes, WaveSaw, rate)
		s = newVolume(s, 0.5)

	case CueSummit:
		s = jingle(parameter.SummitNotes, WaveSine, rate)

	default:
		return nil, errors.Errorf("unknown cue %d", int(c))
	}

	return newVolume(s, cfg.Volumes[c]*cfg.Master), nil
}

func jingle(notes []float64, wave WaveType, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, freq := range notes {
		parts[i] = NewEnvelope(NewOscillator(freq, parameter.JingleNoteDuration, wave, rate),
			parameter.JingleNoteDuration, parameter.JingleAttack, parameter.JingleRelease, rate)
	}
	return beep.Seq(parts...)
}

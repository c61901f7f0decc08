package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	AudioMasterVolume = 0.6
)

// Jump chirp: two rising square notes
const (
	JumpNoteDuration = 45 * time.Millisecond
	JumpNoteLow      = 440.0
	JumpNoteHigh     = 660.0
	JumpAttack       = 3 * time.Millisecond
	JumpRelease      = 20 * time.Millisecond
)

// Landing thud
const (
	LandSoundDuration = 90 * time.Millisecond
	LandFreq          = 90.0 // Hz
	LandAttack        = 2 * time.Millisecond
	LandRelease       = 70 * time.Millisecond
	LandNoiseMix      = 0.35
)

// Grapple fire whoosh
const (
	FireSoundDuration = 160 * time.Millisecond
	FireAttack        = 60 * time.Millisecond
	FireRelease       = 90 * time.Millisecond
)

// Grapple hook bell
const (
	HookSoundDuration    = 300 * time.Millisecond
	HookFreq             = 880.0
	HookAttack           = 3 * time.Millisecond
	HookFundamentalDecay = 280 * time.Millisecond
	HookOvertoneDecay    = 120 * time.Millisecond
)

// Grapple release click
const (
	ReleaseSoundDuration = 60 * time.Millisecond
	ReleaseFreq          = 220.0
	ReleaseAttack        = 2 * time.Millisecond
	ReleaseRelease       = 40 * time.Millisecond
)

// Run end jingles, one note per entry
var (
	DeathNotes  = []float64{330, 247, 165}
	SummitNotes = []float64{523.25, 659.25, 783.99, 1046.5}
)

const (
	JingleNoteDuration = 110 * time.Millisecond
	JingleAttack       = 5 * time.Millisecond
	JingleRelease      = 60 * time.Millisecond
)

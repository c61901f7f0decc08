package engine

import "github.com/pkg/errors"

// GameState is the run lifecycle of a session
type GameState uint8

const (
	StateIntro GameState = iota
	StateAlive
	StateDead
	StateSummit
)

var gameStateNames = [...]string{
	StateIntro:  "intro",
	StateAlive:  "alive",
	StateDead:   "dead",
	StateSummit: "summit",
}

func (s GameState) String() string {
	if int(s) < len(gameStateNames) {
		return gameStateNames[s]
	}
	return "unknown"
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(b []byte) error {
	for i, name := range gameStateNames {
		if name == string(b) {
			*s = GameState(i)
			return nil
		}
	}
	return errors.Errorf("unknown game state %q", b)
}

// Finished reports whether the run has ended
func (s GameState) Finished() bool {
	return s == StateDead || s == StateSummit
}

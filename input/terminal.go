package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// AimStep is the aim angle change per aim key press in degrees
const AimStep = 5.0

// Terminal feeds a Sampler from terminal key events
// Terminals report presses and auto-repeat but no releases, so a hold lasts
// until no repeat arrives within the hold window
type Terminal struct {
	sampler *Sampler
	table   *KeyTable
	window  time.Duration

	moveX, moveY   float64
	moveXUntil     time.Time
	moveYUntil     time.Time
	actionsHeldTil map[Action]time.Time
}

func NewTerminal(s *Sampler, table *KeyTable, window time.Duration) *Terminal {
	return &Terminal{
		sampler:        s,
		table:          table,
		window:         window,
		actionsHeldTil: make(map[Action]time.Time),
	}
}

// HandleKey applies a key event and returns the binding kind for caller-level handling
func (t *Terminal) HandleKey(ev *tcell.EventKey, now time.Time) BindingKind {
	b, ok := t.table.Lookup(ev)
	if !ok {
		return BindNone
	}

	switch b.Kind {
	case BindMove:
		if b.X != 0 {
			t.moveX = b.X
			t.moveXUntil = now.Add(t.window)
		}
		if b.Y != 0 {
			t.moveY = b.Y
			t.moveYUntil = now.Add(t.window)
		}
		t.sampler.SetMove(t.moveX, t.moveY)
	case BindAction:
		if _, held := t.actionsHeldTil[b.Action]; !held {
			t.sampler.Press(b.Action)
		}
		t.actionsHeldTil[b.Action] = now.Add(t.window)
	case BindAim:
		angle := t.sampler.AimAngle()
		// Left/right mirror the aim across vertical, up/down rotate it
		if b.X != 0 && (b.X < 0) != (angle > 90 || angle < -90) {
			angle = 180 - angle
		}
		angle += b.Y * AimStep * aimSign(angle)
		t.sampler.SetAimAngle(angle)
	}
	return b.Kind
}

// Expire releases holds whose window elapsed without a repeat
func (t *Terminal) Expire(now time.Time) {
	changed := false
	if t.moveX != 0 && !now.Before(t.moveXUntil) {
		t.moveX = 0
		changed = true
	}
	if t.moveY != 0 && !now.Before(t.moveYUntil) {
		t.moveY = 0
		changed = true
	}
	if changed {
		t.sampler.SetMove(t.moveX, t.moveY)
	}

	for a, until := range t.actionsHeldTil {
		if !now.Before(until) {
			delete(t.actionsHeldTil, a)
			t.sampler.Release(a)
		}
	}
}

// aimSign makes "up" raise the aim on either facing side
func aimSign(angle float64) float64 {
	if angle > 90 || angle < -90 {
		return -1
	}
	return 1
}

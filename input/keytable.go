package input

import (
	"github.com/gdamore/tcell/v2"
)

// BindingKind classifies what a key does
type BindingKind uint8

const (
	BindNone BindingKind = iota
	BindMove
	BindAction
	BindAim
	BindQuit
	BindToggleMute
	BindToggleView
)

// Binding describes a key's effect
type Binding struct {
	Kind   BindingKind
	X, Y   float64 // Move axis contribution or aim nudge
	Action Action
}

// KeyTable maps terminal keys to bindings
type KeyTable struct {
	Keys  map[tcell.Key]Binding
	Runes map[rune]Binding
}

// DefaultKeyTable returns the gym key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[tcell.Key]Binding{
			tcell.KeyLeft:   {Kind: BindMove, X: -1},
			tcell.KeyRight:  {Kind: BindMove, X: 1},
			tcell.KeyUp:     {Kind: BindMove, Y: 1},
			tcell.KeyDown:   {Kind: BindMove, Y: -1},
			tcell.KeyEscape: {Kind: BindQuit},
			tcell.KeyCtrlC:  {Kind: BindQuit},
			tcell.KeyCtrlS:  {Kind: BindToggleMute},
		},
		Runes: map[rune]Binding{
			'a': {Kind: BindMove, X: -1},
			'd': {Kind: BindMove, X: 1},
			'w': {Kind: BindMove, Y: 1},
			's': {Kind: BindMove, Y: -1},
			' ': {Kind: BindAction, Action: ActionJump},
			'f': {Kind: BindAction, Action: ActionFire},
			'j': {Kind: BindAim, X: -1},
			'l': {Kind: BindAim, X: 1},
			'i': {Kind: BindAim, Y: 1},
			'k': {Kind: BindAim, Y: -1},
			'v': {Kind: BindToggleView},
			'q': {Kind: BindQuit},
		},
	}
}

// Lookup returns the binding for a key event
func (t *KeyTable) Lookup(ev *tcell.EventKey) (Binding, bool) {
	if ev.Key() == tcell.KeyRune {
		b, ok := t.Runes[ev.Rune()]
		return b, ok
	}
	b, ok := t.Keys[ev.Key()]
	return b, ok
}

package grapple

import (
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Section is one straight run of rope
// Base is the anchor end, Tip the end nearer the player. CollideNormal records which side of
// the obstacle the rope wrapped around when the Tip was pinned to an intermediate anchor
type Section struct {
	Base          vmath.Vec3F `json:"base"`
	Tip           vmath.Vec3F `json:"tip"`
	CollideNormal vmath.Vec3F `json:"collide_normal"`
}

// Rope is the ordered section list
// Index 0 holds the outermost anchor; the last section is player-adjacent
type Rope struct {
	sections []Section
}

func (r *Rope) Len() int {
	return len(r.sections)
}

func (r *Rope) Empty() bool {
	return len(r.sections) == 0
}

// Sections returns a copy safe to retain across ticks
func (r *Rope) Sections() []Section {
	if len(r.sections) == 0 {
		return nil
	}
	out := make([]Section, len(r.sections))
	copy(out, r.sections)
	return out
}

// Tail returns the player-adjacent section
func (r *Rope) Tail() Section {
	if len(r.sections) == 0 {
		panic("grapple: tail of empty rope")
	}
	return r.sections[len(r.sections)-1]
}

// SetTail replaces the player-adjacent section
func (r *Rope) SetTail(s Section) {
	if len(r.sections) == 0 {
		panic("grapple: set tail of empty rope")
	}
	r.sections[len(r.sections)-1] = s
}

// Push appends a new player-adjacent section
func (r *Rope) Push(s Section) {
	r.sections = append(r.sections, s)
}

// Pop removes and returns the player-adjacent section
func (r *Rope) Pop() Section {
	s := r.Tail()
	r.sections = r.sections[:len(r.sections)-1]
	return s
}

func (r *Rope) Clear() {
	r.sections = r.sections[:0]
}

// Length is the total rope length across all sections
func (r *Rope) Length() float64 {
	total := 0.0
	for _, s := range r.sections {
		total += vmath.V3FDistance(s.Base, s.Tip)
	}
	return total
}

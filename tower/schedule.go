package tower

import (
	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Source is the authority supplying the world curvature each tick
// ok false means no value is available this tick
type Source interface {
	Curvature(pos vmath.Vec3F) (c Curvature, ok bool)
}

// Fixed is a constant curvature
type Fixed Curvature

func (f Fixed) Curvature(vmath.Vec3F) (Curvature, bool) {
	return Curvature(f), true
}

// Schedule narrows the tower toward its tip
// Below TipStart the radius is BaseRadius, above TipEnd it is TipRadius, linear in between
type Schedule struct {
	BaseRadius float64
	TipRadius  float64
	TipStart   float64
	TipEnd     float64
}

func (s Schedule) Curvature(pos vmath.Vec3F) (Curvature, bool) {
	t := vmath.InverseLerpF(s.TipStart, s.TipEnd, pos.Y)
	return Curvature{Radius: vmath.LerpF(s.BaseRadius, s.TipRadius, t), Wrap: true}, true
}

// Tracker resolves a source each tick and falls back to the last valid value
type Tracker struct {
	source Source
	last   Curvature
	log    logrus.FieldLogger

	fallbacks int
}

// NewTracker starts from initial until the source produces a valid value
func NewTracker(source Source, initial Curvature, log logrus.FieldLogger) *Tracker {
	return &Tracker{source: source, last: initial, log: log}
}

// Resolve returns the curvature to use at pos this tick
func (t *Tracker) Resolve(pos vmath.Vec3F) Curvature {
	if t.source == nil {
		return t.last
	}
	c, ok := t.source.Curvature(pos)
	if !ok || !c.Valid() {
		t.fallbacks++
		if t.fallbacks == 1 {
			t.log.WithField("radius", c.Radius).Warn("curvature unavailable, using last known")
		}
		return t.last
	}
	if t.fallbacks > 0 {
		t.log.WithField("ticks", t.fallbacks).Debug("curvature restored")
		t.fallbacks = 0
	}
	t.last = c
	return c
}

// Last is the most recent valid curvature
func (t *Tracker) Last() Curvature {
	return t.last
}

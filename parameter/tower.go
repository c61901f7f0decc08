package parameter

// Tower Geometry
const (
	TowerBaseRadius = 50.0
	TowerTipRadius  = 10.0

	// Height band over which the radius narrows toward the tip
	TowerTipStart = 120.0
	TowerTipEnd   = 160.0

	// SummitHeight ends a run once the agent rises above it
	SummitHeight = 170.0
)

// Session
const (
	// IntroDuration auto-completes the intro state in seconds
	IntroDuration = 5.0

	// KillZoneSkin inflates the capsule when testing kill zone contact
	KillZoneSkin = 0.05
)

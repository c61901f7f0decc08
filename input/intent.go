package input

// Axis is the 2D movement input, each component in [-1, 1]
// X is lateral, Y is depth on the ground and retraction while hooked
type Axis struct {
	X, Y float64
}

// Intent is the continuous player input state
type Intent struct {
	Move     Axis
	AimAngle float64 // Degrees in the side plane, 0 along the forward axis, 90 straight up
	ViewYaw  float64 // Degrees; rotates Move into world space
	JumpHeld bool
	FireHeld bool
}

// Frame is the input consumed by exactly one fixed step
type Frame struct {
	Tick uint64
	Intent

	JumpPressed  bool
	FirePressed  bool
	FireReleased bool
}

// Zeroed keeps the tick and drops every input, used while the agent is dead
func (f Frame) Zeroed() Frame {
	return Frame{Tick: f.Tick}
}

package parameter

import "time"

// Simulation Loop Timing
const (
	// TickInterval is the fixed simulation step
	TickInterval = 20 * time.Millisecond

	// FrameUpdateInterval is the viewer refresh interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxCatchUpTicks bounds the steps run after a stall before time is dropped
	MaxCatchUpTicks = 5
)

// Input Edge Queue
const (
	// EdgeQueueSize is the fixed capacity of the input edge ring buffer
	EdgeQueueSize = 256

	// EdgeBufferMask is the bitmask for fast modulo operations (256 - 1)
	EdgeBufferMask = 255
)

// Gravity is the world acceleration on the Y axis
const Gravity = -9.81

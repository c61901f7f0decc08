package parameter

// Capsule
const (
	CapsuleRadius = 0.5
	CapsuleHeight = 2.0
)

// Cast-and-slide
const (
	MaxBounces = 5

	// AnglePower shapes how quickly glancing hits bleed movement
	AnglePower = 0.5

	// Epsilon is the skin distance kept between the capsule and surfaces
	Epsilon = 0.001

	// MaxAngleShoveDegrees caps the deviation from a perpendicular hit used for attenuation
	MaxAngleShoveDegrees = 60.0

	// Bounce is the restitution applied to velocity on a hit while free
	// 0 removes the normal component, 1 reflects it
	Bounce = 0.0
)

// Locomotion
const (
	MoveSpeed = 5.0

	// GroundRetardation is the per-second velocity decay fraction while grounded
	GroundRetardation = 0.9

	GroundDist       = 0.01
	VerticalSnapDown = 0.45
	MaxWalkingAngle  = 60.0

	// RunningSpeedSq is the flattened speed-squared above which the agent counts as running
	RunningSpeedSq = 1.0

	// LandCueFallTime is the airborne time after which touching down emits a landing event
	LandCueFallTime = 0.5
)

// Jump
const (
	JumpVelocity   = 5.0
	MaxJumpAngle   = 80.0
	JumpCooldown   = 0.25
	CoyoteTime     = 0.05
	JumpBufferTime = 0.05

	// JumpAngleWeight blends the jump direction from up (0) toward the ground normal (1)
	JumpAngleWeight = 0.0
)

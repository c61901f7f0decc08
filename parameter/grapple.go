package parameter

// Grapple Bolt
const (
	GrappleLength   = 25.0
	GrappleSpeed    = 20.0
	GrappleHangTime = 1.0

	// GrappleCollisionBuffer trims both ends of rope raycasts so anchors do not re-hit their own surface
	GrappleCollisionBuffer = 0.005

	// GrapplePreviewDistance bounds the aim preview ray
	GrapplePreviewDistance = 99999.0
)

// Grapple Swing
const (
	GrappleLeanInfluence = 5.0
	GrappleRetraction    = 10.0
	GrappleMaxForce      = 1.0

	// GrappleBounce is the velocity reflection strength while hooked
	GrappleBounce = 1.0
)

package kinematic

import (
	"github.com/samuelbigos/tower-of-babylon/grapple"
	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// Params is everything the controller reads from tuning
type Params struct {
	Capsule physics.Capsule
	Slide   SlideParams
	Ground  GroundParams
	Grapple grapple.Params
	Swing   grapple.SwingParams

	Gravity           float64
	MoveSpeed         float64
	GroundRetardation float64
	Bounce            float64
	GrappleBounce     float64
	JumpVelocity      float64
	JumpAngleWeight   float64
	RunningSpeedSq    float64
	LandCueFallTime   float64

	// DepthMovement lets the vertical input axis walk along the depth axis
	DepthMovement bool
}

// ParamsFromTuning maps a validated tuning set onto controller parameters
func ParamsFromTuning(t parameter.Tuning) Params {
	return Params{
		Capsule: physics.Capsule{
			Radius: t.Capsule.Radius,
			Height: t.Capsule.Height,
			Center: vmath.Vec3F{Y: t.Capsule.CenterY},
		},
		Slide: SlideParams{
			MaxBounces:    t.Move.MaxBounces,
			AnglePower:    t.Move.AnglePower,
			Epsilon:       t.Move.Epsilon,
			MaxAngleShove: t.Move.MaxAngleShove,
		},
		Ground: GroundParams{
			GroundDist:       t.Move.GroundDist,
			MaxWalkingAngle:  t.Move.MaxWalkingAngle,
			MaxJumpAngle:     t.Jump.MaxAngle,
			JumpCooldown:     t.Jump.Cooldown,
			CoyoteTime:       t.Jump.CoyoteTime,
			JumpBufferTime:   t.Jump.BufferTime,
			VerticalSnapDown: t.Move.VerticalSnapDown,
			Epsilon:          t.Move.Epsilon,
		},
		Grapple: grapple.Params{
			Length:          t.Grapple.Length,
			Speed:           t.Grapple.Speed,
			HangTime:        t.Grapple.HangTime,
			CollisionBuffer: t.Grapple.CollisionBuffer,
			PreviewDistance: t.Grapple.PreviewDistance,
		},
		Swing: grapple.SwingParams{
			LeanInfluence: t.Grapple.LeanInfluence,
			Retraction:    t.Grapple.Retraction,
			MaxForce:      t.Grapple.MaxForce,
		},
		Gravity:           t.Gravity,
		MoveSpeed:         t.Move.Speed,
		GroundRetardation: t.Move.GroundRetardation,
		Bounce:            t.Move.Bounce,
		GrappleBounce:     t.Grapple.Bounce,
		JumpVelocity:      t.Jump.Velocity,
		JumpAngleWeight:   t.Jump.AngleWeight,
		RunningSpeedSq:    t.Move.RunningSpeedSq,
		LandCueFallTime:   t.Session.LandCueFallTime,
		DepthMovement:     t.Move.DepthMovement,
	}
}

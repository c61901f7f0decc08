package parameter

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tuning is the runtime-overridable parameter set
// Keys absent from a YAML file keep their defaults; an explicit 0 overrides
type Tuning struct {
	Tick    time.Duration `yaml:"tick"`
	Gravity float64       `yaml:"gravity"`
	Capsule CapsuleTuning `yaml:"capsule"`
	Move    MoveTuning    `yaml:"move"`
	Jump    JumpTuning    `yaml:"jump"`
	Grapple GrappleTuning `yaml:"grapple"`
	Tower   TowerTuning   `yaml:"tower"`
	Session SessionTuning `yaml:"session"`
}

type CapsuleTuning struct {
	Radius  float64 `yaml:"radius"`
	Height  float64 `yaml:"height"`
	CenterY float64 `yaml:"center_y"`
}

type MoveTuning struct {
	MaxBounces        int     `yaml:"max_bounces"`
	Speed             float64 `yaml:"speed"`
	AnglePower        float64 `yaml:"angle_power"`
	Epsilon           float64 `yaml:"epsilon"`
	MaxAngleShove     float64 `yaml:"max_angle_shove"`
	Bounce            float64 `yaml:"bounce"`
	GroundRetardation float64 `yaml:"ground_retardation"`
	GroundDist        float64 `yaml:"ground_dist"`
	VerticalSnapDown  float64 `yaml:"vertical_snap_down"`
	MaxWalkingAngle   float64 `yaml:"max_walking_angle"`
	RunningSpeedSq    float64 `yaml:"running_speed_sq"`
	DepthMovement     bool    `yaml:"depth_movement"`
}

type JumpTuning struct {
	Velocity    float64 `yaml:"velocity"`
	MaxAngle    float64 `yaml:"max_angle"`
	Cooldown    float64 `yaml:"cooldown"`
	CoyoteTime  float64 `yaml:"coyote_time"`
	BufferTime  float64 `yaml:"buffer_time"`
	AngleWeight float64 `yaml:"angle_weight"`
}

type GrappleTuning struct {
	Length          float64 `yaml:"length"`
	Speed           float64 `yaml:"speed"`
	HangTime        float64 `yaml:"hang_time"`
	CollisionBuffer float64 `yaml:"collision_buffer"`
	PreviewDistance float64 `yaml:"preview_distance"`
	LeanInfluence   float64 `yaml:"lean_influence"`
	Retraction      float64 `yaml:"retraction"`
	MaxForce        float64 `yaml:"max_force"`
	Bounce          float64 `yaml:"bounce"`
}

type TowerTuning struct {
	BaseRadius   float64 `yaml:"base_radius"`
	TipRadius    float64 `yaml:"tip_radius"`
	TipStart     float64 `yaml:"tip_start"`
	TipEnd       float64 `yaml:"tip_end"`
	SummitHeight float64 `yaml:"summit_height"`
}

type SessionTuning struct {
	IntroDuration   float64 `yaml:"intro_duration"`
	KillZoneSkin    float64 `yaml:"kill_zone_skin"`
	LandCueFallTime float64 `yaml:"land_cue_fall_time"`
}

// Default returns the compiled parameter set
func Default() Tuning {
	return Tuning{
		Tick:    TickInterval,
		Gravity: Gravity,
		Capsule: CapsuleTuning{
			Radius: CapsuleRadius,
			Height: CapsuleHeight,
		},
		Move: MoveTuning{
			MaxBounces:        MaxBounces,
			Speed:             MoveSpeed,
			AnglePower:        AnglePower,
			Epsilon:           Epsilon,
			MaxAngleShove:     MaxAngleShoveDegrees,
			Bounce:            Bounce,
			GroundRetardation: GroundRetardation,
			GroundDist:        GroundDist,
			VerticalSnapDown:  VerticalSnapDown,
			MaxWalkingAngle:   MaxWalkingAngle,
			RunningSpeedSq:    RunningSpeedSq,
		},
		Jump: JumpTuning{
			Velocity:    JumpVelocity,
			MaxAngle:    MaxJumpAngle,
			Cooldown:    JumpCooldown,
			CoyoteTime:  CoyoteTime,
			BufferTime:  JumpBufferTime,
			AngleWeight: JumpAngleWeight,
		},
		Grapple: GrappleTuning{
			Length:          GrappleLength,
			Speed:           GrappleSpeed,
			HangTime:        GrappleHangTime,
			CollisionBuffer: GrappleCollisionBuffer,
			PreviewDistance: GrapplePreviewDistance,
			LeanInfluence:   GrappleLeanInfluence,
			Retraction:      GrappleRetraction,
			MaxForce:        GrappleMaxForce,
			Bounce:          GrappleBounce,
		},
		Tower: TowerTuning{
			BaseRadius:   TowerBaseRadius,
			TipRadius:    TowerTipRadius,
			TipStart:     TowerTipStart,
			TipEnd:       TowerTipEnd,
			SummitHeight: SummitHeight,
		},
		Session: SessionTuning{
			IntroDuration:   IntroDuration,
			KillZoneSkin:    KillZoneSkin,
			LandCueFallTime: LandCueFallTime,
		},
	}
}

// Load reads a YAML tuning file over the defaults
func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, errors.Wrap(err, "read tuning")
	}
	t, err := Parse(data)
	if err != nil {
		return Tuning{}, errors.Wrapf(err, "tuning %s", path)
	}
	return t, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, errors.Wrap(err, "decode")
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate rejects parameter sets the solvers cannot run with
func (t Tuning) Validate() error {
	switch {
	case t.Tick <= 0:
		return errors.Errorf("tick must be positive, got %v", t.Tick)
	case t.Capsule.Radius <= 0:
		return errors.Errorf("capsule radius must be positive, got %v", t.Capsule.Radius)
	case t.Capsule.Height < 2*t.Capsule.Radius:
		return errors.Errorf("capsule height %v shorter than its diameter", t.Capsule.Height)
	case t.Move.MaxBounces < 1:
		return errors.Errorf("max_bounces must be at least 1, got %d", t.Move.MaxBounces)
	case t.Move.Epsilon <= 0:
		return errors.Errorf("epsilon must be positive, got %v", t.Move.Epsilon)
	case t.Move.MaxAngleShove <= 0 || t.Move.MaxAngleShove > 90:
		return errors.Errorf("max_angle_shove must be in (0, 90], got %v", t.Move.MaxAngleShove)
	case t.Move.AnglePower <= 0:
		return errors.Errorf("angle_power must be positive, got %v", t.Move.AnglePower)
	case t.Move.MaxWalkingAngle < 0 || t.Move.MaxWalkingAngle > 180:
		return errors.Errorf("max_walking_angle must be in [0, 180], got %v", t.Move.MaxWalkingAngle)
	case t.Jump.MaxAngle < 0 || t.Jump.MaxAngle > 180:
		return errors.Errorf("jump max_angle must be in [0, 180], got %v", t.Jump.MaxAngle)
	case t.Grapple.Length <= 0 || t.Grapple.Speed <= 0:
		return errors.Errorf("grapple length and speed must be positive")
	case t.Grapple.CollisionBuffer < 0:
		return errors.Errorf("grapple collision_buffer must not be negative")
	case t.Tower.BaseRadius <= 0 || t.Tower.TipRadius <= 0:
		return errors.Errorf("tower radii must be positive")
	}
	return nil
}

// TickSeconds is the fixed step as float seconds
func (t Tuning) TickSeconds() float64 {
	return t.Tick.Seconds()
}

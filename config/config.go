package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every gameplay number the controller reads. Loaded from
// yaml so values can be hot-reloaded while the harness runs.
type Tuning struct {
	Move      MoveTuning         `yaml:"move"`
	Crouch    CrouchTuning       `yaml:"crouch"`
	Sprint    SprintTuning       `yaml:"sprint"`
	Jump      JumpTuning         `yaml:"jump"`
	Gravity   GravityTuning      `yaml:"gravity"`
	Land      LandTuning         `yaml:"land"`
	Dash      DashTuning         `yaml:"dash"`
	Boost     BoostTuning        `yaml:"boost"`
	Grind     GrindTuning        `yaml:"grind"`
	DashPanel DashPanelTuning    `yaml:"dash_panel"`
	Path      PathTuning         `yaml:"path_follow"`
	Pressure  PressureTuning     `yaml:"pressure"`
	Homing    HomingTuning       `yaml:"homing"`
	Parry     ParryTuning        `yaml:"parry"`
	Inhale    InhaleTuning       `yaml:"inhale"`
	Rotation  RotationTuning     `yaml:"rotation"`
	Clips     map[string]float64 `yaml:"clips"`
}

type MoveTuning struct {
	Deadzone      float64 `yaml:"deadzone"`
	Speed         float64 `yaml:"speed"`
	Accel         float64 `yaml:"accel"`
	AirAccel      float64 `yaml:"air_accel"`
	Brake         float64 `yaml:"brake"`
	WalkStopSpeed float64 `yaml:"walk_stop_speed"`
	WalkStopTime  float64 `yaml:"walk_stop_time"`
}

type CrouchTuning struct {
	Speed float64 `yaml:"speed"`
}

type SprintTuning struct {
	Speed         float64 `yaml:"speed"`
	Accel         float64 `yaml:"accel"`
	CostPerSecond float64 `yaml:"cost_per_second"`
	StopTime      float64 `yaml:"stop_time"`
}

type JumpTuning struct {
	Speed      float64 `yaml:"speed"`
	HoldTime   float64 `yaml:"hold_time"`
	HoldBoost  float64 `yaml:"hold_boost"`
	CoyoteTime float64 `yaml:"coyote_time"`
	BufferTime float64 `yaml:"buffer_time"`
}

type GravityTuning struct {
	Accel         float64 `yaml:"accel"`
	MaxFallSpeed  float64 `yaml:"max_fall_speed"`
	FastFallSpeed float64 `yaml:"fast_fall_speed"`
}

type LandTuning struct {
	MinTime         float64 `yaml:"min_time"`
	MaxTime         float64 `yaml:"max_time"`
	HardImpactSpeed float64 `yaml:"hard_impact_speed"`
}

type DashTuning struct {
	Speed        float64 `yaml:"speed"`
	Duration     float64 `yaml:"duration"`
	MaxCharges   int     `yaml:"max_charges"`
	RechargeTime float64 `yaml:"recharge_time"`
	PressureCost float64 `yaml:"pressure_cost"`
}

type BoostTuning struct {
	Speed        float64 `yaml:"speed"`
	Duration     float64 `yaml:"duration"`
	SteerRate    float64 `yaml:"steer_rate"`
	PressureCost float64 `yaml:"pressure_cost"`
}

type GrindTuning struct {
	MinSpeed        float64 `yaml:"min_speed"`
	MaxSpeed        float64 `yaml:"max_speed"`
	Friction        float64 `yaml:"friction"`
	SlopeAccel      float64 `yaml:"slope_accel"`
	SprintBoost     float64 `yaml:"sprint_boost"`
	DetachThreshold float64 `yaml:"detach_threshold"`
	JumpSpeed       float64 `yaml:"jump_speed"`
}

type DashPanelTuning struct {
	Speed float64 `yaml:"speed"`
}

type PathTuning struct {
	Speed    float64 `yaml:"speed"`
	EaseTime float64 `yaml:"ease_time"`
}

type PressureTuning struct {
	Max            float64 `yaml:"max"`
	RegenPerSecond float64 `yaml:"regen_per_second"`
}

// HomingExitVariant is one configured homing-exit animation variant.
// LandingAt is the normalized clip time past which the landing clip is
// crossfaded in.
type HomingExitVariant struct {
	Name        string  `yaml:"name"`
	Clip        string  `yaml:"clip"`
	Duration    float64 `yaml:"duration"`
	LandingClip string  `yaml:"landing_clip"`
	LandingAt   float64 `yaml:"landing_at"`
}

type HomingTuning struct {
	Range          float64             `yaml:"range"`
	Speed          float64             `yaml:"speed"`
	PressureCost   float64             `yaml:"pressure_cost"`
	ReachDistance  float64             `yaml:"reach_distance"`
	ImpactDistance float64             `yaml:"impact_distance"`
	HitRadius      float64             `yaml:"hit_radius"`
	HitStop        float64             `yaml:"hit_stop"`
	MaxTime        float64             `yaml:"max_time"`
	BounceSpeed    float64             `yaml:"bounce_speed"`
	ExitVariants   []HomingExitVariant `yaml:"exit_variants"`
}

type ParryTuning struct {
	Range        float64 `yaml:"range"`
	PressureCost float64 `yaml:"pressure_cost"`
	RotateTime   float64 `yaml:"rotate_time"`
	TeleportTime float64 `yaml:"teleport_time"`
	StrikeTime   float64 `yaml:"strike_time"`
	ExitTime     float64 `yaml:"exit_time"`
	TimeScale    float64 `yaml:"time_scale"`
	Offset       float64 `yaml:"offset"`
}

type InhaleTuning struct {
	Duration     float64 `yaml:"duration"`
	PressureGain float64 `yaml:"pressure_gain"`
}

type RotationTuning struct {
	GroundTurnRate float64 `yaml:"ground_turn_rate"`
	AirTurnRate    float64 `yaml:"air_turn_rate"`
}

// Default returns the embedded tuning. It panics only when the embedded
// yaml is malformed, which is a build defect.
func Default() *Tuning {
	var t Tuning
	if err := yaml.Unmarshal(defaultTuning, &t); err != nil {
		panic(fmt.Sprintf("config: embedded default tuning: %v", err))
	}
	return &t
}

// LoadTuning reads tuning from a yaml file on disk. Values unmarshal over
// the embedded default, so a tuning file only needs the fields it changes.
// An empty path returns the default unchanged.
func LoadTuning(path string) (*Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return t, nil
}

package sim

import (
	"fmt"
	"math"
	"time"
)

// MaxPlayers is the number of player slots (one per gamepad)
const MaxPlayers = 4

// Tuning holds gameplay constants. Distances are in world units, speeds in world
// units per MoveSpeed-second (positions advance by Velocity*MoveSpeed*dt).
type Tuning struct {
	// Radius of the circular arena
	ArenaRadius float64 `mapstructure:"arena_radius"`
	// Radius of a player body; two bodies overlap under twice this distance
	CollisionRadius float64 `mapstructure:"collision_radius"`
	// Speed cap applied by steering (impulses can exceed it)
	MaxVelocity float64 `mapstructure:"max_velocity"`
	// Stick acceleration and position scale
	MoveSpeed float64 `mapstructure:"move_speed"`
	// Fraction of velocity removed per second
	Drag float64 `mapstructure:"drag"`
	// Rotation slerp rate per second
	TurnSpeed float64 `mapstructure:"turn_speed"`
	// Stick magnitudes at or below this are ignored
	DeadZone float64 `mapstructure:"dead_zone"`

	// Distance from body centre to a resting glove
	PunchBase float64 `mapstructure:"punch_base"`
	// Extra reach of a fully extended glove
	PunchLength float64 `mapstructure:"punch_length"`
	// Victim knockback in multiples of MaxVelocity
	PushbackOther float64 `mapstructure:"pushback_other"`
	// Puncher recoil in multiples of MaxVelocity
	PushbackSelf float64 `mapstructure:"pushback_self"`
	// Cooldown between punches
	PunchDrawback time.Duration `mapstructure:"punch_drawback"`

	// Time spent dead before respawning
	RespawnDuration time.Duration `mapstructure:"respawn_duration"`
	// How long a hit keeps the puncher as the victim's point recipient
	PointTouchDuration time.Duration `mapstructure:"point_touch_duration"`
	// Points needed to win a round
	WinPoints int `mapstructure:"win_points"`
	// How long the winner is announced before the round resets
	WinMessageDuration time.Duration `mapstructure:"win_message_duration"`

	// Spawn point per player id
	StartingLocations []Vec2 `mapstructure:"starting_locations"`
}

// DefaultTuning returns the stock gameplay values
func DefaultTuning() Tuning {
	return Tuning{
		ArenaRadius:     384,
		CollisionRadius: 32,
		MaxVelocity:     8,
		MoveSpeed:       50,
		Drag:            3,
		TurnSpeed:       10,
		DeadZone:        0.1,

		PunchBase:     48,
		PunchLength:   32,
		PushbackOther: 3.0,
		PushbackSelf:  0.5,
		PunchDrawback: 250 * time.Millisecond,

		RespawnDuration:    2 * time.Second,
		PointTouchDuration: 3 * time.Second,
		WinPoints:          10,
		WinMessageDuration: 3 * time.Second,

		StartingLocations: []Vec2{
			{X: -200, Y: 200},
			{X: 200, Y: 200},
			{X: -200, Y: -200},
			{X: 200, Y: -200},
		},
	}
}

// Validate rejects tunings the simulation cannot run with
func (t Tuning) Validate() error {
	if err := t.checkFinite(); err != nil {
		return err
	}
	switch {
	case t.ArenaRadius <= 0:
		return fmt.Errorf("arena_radius %v: %w", t.ArenaRadius, ErrInvalidTuning)
	case t.CollisionRadius <= 0:
		return fmt.Errorf("collision_radius %v: %w", t.CollisionRadius, ErrInvalidTuning)
	case t.MaxVelocity <= 0:
		return fmt.Errorf("max_velocity %v: %w", t.MaxVelocity, ErrInvalidTuning)
	case t.MoveSpeed <= 0:
		return fmt.Errorf("move_speed %v: %w", t.MoveSpeed, ErrInvalidTuning)
	case t.Drag < 0:
		return fmt.Errorf("drag %v: %w", t.Drag, ErrInvalidTuning)
	case t.DeadZone < 0 || t.DeadZone >= 1:
		return fmt.Errorf("dead_zone %v: %w", t.DeadZone, ErrInvalidTuning)
	case t.PunchDrawback <= 0, t.RespawnDuration <= 0, t.PointTouchDuration <= 0, t.WinMessageDuration <= 0:
		return fmt.Errorf("durations must be positive: %w", ErrInvalidTuning)
	case t.WinPoints < 1:
		return fmt.Errorf("win_points %d: %w", t.WinPoints, ErrInvalidTuning)
	case len(t.StartingLocations) < MaxPlayers:
		return fmt.Errorf("need %d starting locations, have %d: %w", MaxPlayers, len(t.StartingLocations), ErrInvalidTuning)
	}
	return nil
}

// checkFinite rejects NaN and Inf before the range checks, which NaN slips past
func (t Tuning) checkFinite() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"arena_radius", t.ArenaRadius},
		{"collision_radius", t.CollisionRadius},
		{"max_velocity", t.MaxVelocity},
		{"move_speed", t.MoveSpeed},
		{"drag", t.Drag},
		{"turn_speed", t.TurnSpeed},
		{"dead_zone", t.DeadZone},
		{"punch_base", t.PunchBase},
		{"punch_length", t.PunchLength},
		{"pushback_other", t.PushbackOther},
		{"pushback_self", t.PushbackSelf},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s %v: %w", f.name, f.v, ErrInvalidTuning)
		}
	}
	for i, loc := range t.StartingLocations {
		if !loc.IsFinite() {
			return fmt.Errorf("starting_locations[%d] %v: %w", i, loc, ErrInvalidTuning)
		}
	}
	return nil
}

// gloveRest is the glove offset while the punch timer is finished
func (t Tuning) gloveRest() Vec2 {
	return Vec2{X: t.PunchBase}
}

// gloveExtended is the glove offset at the moment a punch is thrown
func (t Tuning) gloveExtended() Vec2 {
	return Vec2{X: t.PunchBase + t.PunchLength}
}

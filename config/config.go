package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"punchball/sfx"
	"punchball/sim"
)

// ErrInvalidConfig is returned by Validate and Load for unusable settings
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. PUNCHBALL_TUNING_WIN_POINTS=5
const EnvPrefix = "PUNCHBALL"

// Config holds every setting of the game
type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Audio   sfx.Settings  `mapstructure:"audio"`
	Input   InputConfig   `mapstructure:"input"`
	Log     LogConfig     `mapstructure:"log"`
	Profile ProfileConfig `mapstructure:"profile"`
	Tuning  sim.Tuning    `mapstructure:"tuning"`
}

// WindowConfig controls the game window
type WindowConfig struct {
	// Width is the window width in pixels
	Width int `mapstructure:"width"`

	// Height is the window height in pixels
	Height int `mapstructure:"height"`

	Title      string `mapstructure:"title"`
	Fullscreen bool   `mapstructure:"fullscreen"`

	// MaxFrameDelta caps the wall-clock frame delta fed to the simulation; 0 disables the cap
	MaxFrameDelta time.Duration `mapstructure:"max_frame_delta"`
}

// InputConfig controls input devices
type InputConfig struct {
	// KeyboardPlayer adds a WASD/arrows/space player in the first free slot
	KeyboardPlayer bool `mapstructure:"keyboard_player"`
}

// LogConfig controls structured logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `mapstructure:"level"`

	// Format is text or json
	Format string `mapstructure:"format"`
}

// ProfileConfig controls CPU profile and trace capture when the frame rate drops
type ProfileConfig struct {
	// Dir receives the captures; empty disables profiling
	Dir string `mapstructure:"dir"`

	FPSThreshold float64       `mapstructure:"fps_threshold"`
	Duration     time.Duration `mapstructure:"duration"`
	Cooldown     time.Duration `mapstructure:"cooldown"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:         1024,
			Height:        1024,
			Title:         "Punch Ball",
			MaxFrameDelta: 100 * time.Millisecond,
		},
		Audio: sfx.DefaultSettings(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Profile: ProfileConfig{
			FPSThreshold: 45,
			Duration:     5 * time.Second,
			Cooldown:     30 * time.Second,
		},
		Tuning: sim.DefaultTuning(),
	}
}

// Load reads configuration from defaults, then the YAML file at path (or
// ./punchball.yaml when path is empty and the file exists), then the environment
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("punchball")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot start with
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Window.MaxFrameDelta < 0 {
		return fmt.Errorf("%w: max_frame_delta %v", ErrInvalidConfig, c.Window.MaxFrameDelta)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrInvalidConfig, c.Audio.SampleRate)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: volume %v", ErrInvalidConfig, c.Audio.Volume)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Profile.Dir != "" && (c.Profile.FPSThreshold <= 0 || c.Profile.Duration <= 0 || c.Profile.Cooldown < 0) {
		return fmt.Errorf("%w: profile %+v", ErrInvalidConfig, c.Profile)
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.fullscreen", d.Window.Fullscreen)
	v.SetDefault("window.max_frame_delta", d.Window.MaxFrameDelta)

	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.volume", d.Audio.Volume)
	v.SetDefault("audio.muted", d.Audio.Muted)

	v.SetDefault("input.keyboard_player", d.Input.KeyboardPlayer)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("profile.dir", d.Profile.Dir)
	v.SetDefault("profile.fps_threshold", d.Profile.FPSThreshold)
	v.SetDefault("profile.duration", d.Profile.Duration)
	v.SetDefault("profile.cooldown", d.Profile.Cooldown)

	t := d.Tuning
	v.SetDefault("tuning.arena_radius", t.ArenaRadius)
	v.SetDefault("tuning.collision_radius", t.CollisionRadius)
	v.SetDefault("tuning.max_velocity", t.MaxVelocity)
	v.SetDefault("tuning.move_speed", t.MoveSpeed)
	v.SetDefault("tuning.drag", t.Drag)
	v.SetDefault("tuning.turn_speed", t.TurnSpeed)
	v.SetDefault("tuning.dead_zone", t.DeadZone)
	v.SetDefault("tuning.punch_base", t.PunchBase)
	v.SetDefault("tuning.punch_length", t.PunchLength)
	v.SetDefault("tuning.pushback_other", t.PushbackOther)
	v.SetDefault("tuning.pushback_self", t.PushbackSelf)
	v.SetDefault("tuning.punch_drawback", t.PunchDrawback)
	v.SetDefault("tuning.respawn_duration", t.RespawnDuration)
	v.SetDefault("tuning.point_touch_duration", t.PointTouchDuration)
	v.SetDefault("tuning.win_points", t.WinPoints)
	v.SetDefault("tuning.win_message_duration", t.WinMessageDuration)
	v.SetDefault("tuning.starting_locations", t.StartingLocations)
}

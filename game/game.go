package game

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"punchball/config"
	"punchball/profile"
	"punchball/session"
	"punchball/sim"
)

// Game adapts a session to ebiten's Update/Draw/Layout loop
type Game struct {
	config   config.Config
	session  *session.Session
	input    *Input
	renderer *Renderer
	camera   *Camera
	effects  *Particles
	debug    DebugState
	logger   *slog.Logger

	// FPS tracking
	fps *profile.FPSMeter

	// optional capture on frame-rate drops
	profiler  *profile.Profiler
	startTime time.Time

	// Last update time for delta time calculation
	lastUpdateTime time.Time
}

// NewGame builds the world, input, audio and renderer from cfg
func NewGame(cfg config.Config, logger *slog.Logger) (*Game, error) {
	world, err := sim.NewWorld(cfg.Tuning, sim.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	sprites, err := LoadSprites(logger)
	if err != nil {
		return nil, err
	}

	input := NewInput(cfg.Input, logger)

	// a nil sink keeps the audio device closed
	var sink session.CueSink
	if !cfg.Audio.Muted {
		sink = NewSpeaker(cfg.Audio, logger)
	}

	var profiler *profile.Profiler
	if cfg.Profile.Dir != "" {
		profiler, err = profile.New(cfg.Profile.Dir, cfg.Profile.Duration, cfg.Profile.Cooldown, logger)
		if err != nil {
			return nil, err
		}
	}

	camera := NewCamera(float64(cfg.Window.Width), float64(cfg.Window.Height))
	now := time.Now()
	return &Game{
		config:         cfg,
		session:        session.New(world, input, sink, logger),
		input:          input,
		renderer:       NewRenderer(camera, sprites),
		camera:         camera,
		effects:        NewParticles(1000),
		logger:         logger,
		fps:            profile.NewFPSMeter(500 * time.Millisecond),
		profiler:       profiler,
		startTime:      now,
		lastUpdateTime: now,
	}, nil
}

// Update advances the simulation by the wall-clock time since the last call
func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastUpdateTime)
	g.lastUpdateTime = now

	// Clamp delta time to prevent large jumps after stalls
	if limit := g.config.Window.MaxFrameDelta; limit > 0 && dt > limit {
		dt = limit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) &&
		(ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight)) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if g.fps.Tick(dt) {
		g.checkFrameRate()
	}

	g.input.Poll()
	report, err := g.session.Advance(dt)
	if err != nil {
		return fmt.Errorf("frame %d: %w", g.session.World().Frame(), err)
	}
	g.effects.Update(dt)
	g.effects.Spawn(g.session.World(), report)
	if report.Win != nil {
		g.logger.Info("round won",
			slog.String("winner", report.Win.Winner.String()),
			slog.Int("points", report.Win.Points),
			slog.String("round", g.session.RoundID().String()),
		)
	}
	return nil
}

// checkFrameRate captures a profile when the frame rate falls under the threshold.
// The first seconds after launch are ignored.
func (g *Game) checkFrameRate() {
	if g.profiler == nil || g.fps.FPS() >= g.config.Profile.FPSThreshold {
		return
	}
	if time.Since(g.startTime) < 3*time.Second {
		return
	}
	reason := fmt.Sprintf("fps%.0f-players%d", g.fps.FPS(), len(g.session.World().Players()))
	err := g.profiler.Capture(reason)
	switch {
	case err == nil:
		g.logger.Warn("frame rate drop, capturing profile", slog.Float64("fps", g.fps.FPS()))
	case errors.Is(err, profile.ErrBusy), errors.Is(err, profile.ErrCooldown):
	default:
		g.logger.Error("profile capture", slog.Any("error", err))
	}
}

// Draw renders the game
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.renderer.Render(screen, g.session.World())
	g.effects.Draw(screen, g.camera)
	if g.debug.ShowOverlay {
		g.renderer.RenderDebug(screen, g.session.World(), g.fps.FPS())
	}
}

// Layout follows the window so the arena stays centred and fitted on resize
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Close waits for an in-flight profile capture
func (g *Game) Close() {
	if g.profiler != nil {
		g.profiler.Wait()
	}
}

package game

import (
	"log/slog"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"punchball/config"
	"punchball/session"
	"punchball/sim"
)

// controller is whatever drives a player slot
type controller struct {
	pad      ebiten.GamepadID
	keyboard bool
}

// Input reads gamepads, and optionally the keyboard, into player input.
// Controllers take the lowest free slot when they appear and free it when they go.
type Input struct {
	slots    session.Slots[controller]
	keyboard bool
	pending  []session.ConnectionEvent
	ids      []ebiten.GamepadID
	logger   *slog.Logger
}

// NewInput creates an input provider
func NewInput(cfg config.InputConfig, logger *slog.Logger) *Input {
	return &Input{
		keyboard: cfg.KeyboardPlayer,
		ids:      make([]ebiten.GamepadID, 0, sim.MaxPlayers),
		logger:   logger,
	}
}

// Poll picks up controllers that arrived or left since the last tick
func (in *Input) Poll() {
	if in.keyboard {
		in.assign(controller{keyboard: true})
	}

	in.ids = ebiten.AppendGamepadIDs(in.ids[:0])
	for _, id := range in.ids {
		in.assign(controller{pad: id})
	}

	var gone []controller
	in.slots.Each(func(_ sim.PlayerID, c controller) {
		if !c.keyboard && !slices.Contains(in.ids, c.pad) {
			gone = append(gone, c)
		}
	})
	for _, c := range gone {
		if ev, ok := in.slots.Release(c); ok {
			in.logger.Info("gamepad disconnected", slog.String("player", ev.Player.String()))
			in.pending = append(in.pending, ev)
		}
	}
}

func (in *Input) assign(c controller) {
	if _, ok := in.slots.Lookup(c); ok {
		return
	}
	ev, ok := in.slots.Assign(c)
	if !ok {
		return
	}
	name := "keyboard"
	if !c.keyboard {
		name = ebiten.GamepadName(c.pad)
	}
	in.logger.Info("controller connected", slog.String("player", ev.Player.String()), slog.String("device", name))
	in.pending = append(in.pending, ev)
}

// Events drains connection changes found by Poll
func (in *Input) Events() []session.ConnectionEvent {
	ev := in.pending
	in.pending = nil
	return ev
}

// Snapshot reads every assigned controller
func (in *Input) Snapshot() sim.InputSnapshot {
	snap := make(sim.InputSnapshot, sim.MaxPlayers)
	in.slots.Each(func(id sim.PlayerID, c controller) {
		if c.keyboard {
			snap[id] = readKeyboard()
		} else {
			snap[id] = readGamepad(c.pad)
		}
	})
	return snap
}

// stick converts a screen-space stick (+Y down) to arena space (+Y up)
func stick(x, y float64) sim.Vec2 {
	return sim.Vec2{X: x, Y: -y}
}

// readGamepad maps the standard layout: left stick moves, right stick aims,
// right trigger punches. Unmapped pads fall back to raw axes 0-3 and button 7.
func readGamepad(id ebiten.GamepadID) sim.Input {
	if ebiten.IsStandardGamepadLayoutAvailable(id) {
		return sim.Input{
			Move: stick(
				ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
				ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
			),
			Facing: stick(
				ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
				ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
			),
			Attack: ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight),
		}
	}

	axes := ebiten.GamepadAxisCount(id)
	axis := func(a int) float64 {
		if a >= axes {
			return 0
		}
		return ebiten.GamepadAxisValue(id, ebiten.GamepadAxisType(a))
	}
	return sim.Input{
		Move:   stick(axis(0), axis(1)),
		Facing: stick(axis(2), axis(3)),
		Attack: ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton7),
	}
}

// readKeyboard maps WASD to movement, arrow keys to facing and Space to punch
func readKeyboard() sim.Input {
	var in sim.Input
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Facing.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Facing.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Facing.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Facing.Y--
	}
	// keep diagonals inside the unit circle like a real stick
	if in.Move.Len() > 1 {
		in.Move = in.Move.Normalize()
	}
	in.Attack = ebiten.IsKeyPressed(ebiten.KeySpace)
	return in
}

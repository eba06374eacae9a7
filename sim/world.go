package sim

import (
	"fmt"
	"log/slog"
	"time"
)

// World owns the whole simulation state. It is not safe for concurrent use.
type World struct {
	tuning Tuning
	arena  Arena

	// Parallel slices indexed by slot; slots are assigned in connection order
	players []*Player
	gloves  []Glove
	points  []Points
	slots   map[PlayerID]int

	// At most one winning message at a time
	win *WinningMessage

	frame  uint64
	logger *slog.Logger
}

// Option configures a World
type Option func(*World)

// WithLogger sets the logger used for gameplay events
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorld creates an empty arena with no players
func NewWorld(t Tuning, opts ...Option) (*World, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		tuning:  t,
		arena:   Arena{Radius: t.ArenaRadius},
		players: make([]*Player, 0, MaxPlayers),
		gloves:  make([]Glove, 0, MaxPlayers),
		points:  make([]Points, 0, MaxPlayers),
		slots:   make(map[PlayerID]int, MaxPlayers),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Connect adds player id at its starting location, or brings a disconnected
// player back with fresh timers. Its score survives a reconnect.
func (w *World) Connect(id PlayerID) error {
	if id < 0 || int(id) >= MaxPlayers {
		return fmt.Errorf("connect %d: %w", int(id), ErrPlayerLimit)
	}
	if slot, ok := w.slots[id]; ok {
		p := w.players[slot]
		if p.Connected {
			return fmt.Errorf("connect %v: %w", id, ErrAlreadyConnected)
		}
		p.Connected = true
		p.spawn(w.tuning)
		w.placeGlove(slot)
		w.logger.Info("player reconnected", slog.String("player", id.String()))
		return nil
	}

	slot := len(w.players)
	w.players = append(w.players, newPlayer(id, w.tuning))
	w.gloves = append(w.gloves, Glove{Owner: slot})
	w.points = append(w.points, Points{PlayerID: id})
	w.slots[id] = slot
	w.placeGlove(slot)
	w.logger.Info("player connected", slog.String("player", id.String()))
	return nil
}

// Disconnect removes player id from play. Its slot and score are kept.
func (w *World) Disconnect(id PlayerID) error {
	slot, ok := w.slots[id]
	if !ok || !w.players[slot].Connected {
		return fmt.Errorf("disconnect %v: %w", id, ErrUnknownPlayer)
	}
	p := w.players[slot]
	p.Connected = false
	p.ClearRecipient()
	w.logger.Info("player disconnected", slog.String("player", id.String()))
	return nil
}

// Step advances the simulation by dt using one frame of input
func (w *World) Step(dt time.Duration, inputs InputSnapshot) (FrameReport, error) {
	if dt < 0 {
		return FrameReport{}, fmt.Errorf("step %v: %w", dt, ErrNegativeDelta)
	}
	w.frame++
	report := FrameReport{Frame: w.frame}
	secs := dt.Seconds()

	in := w.resolveInputs(inputs)

	w.decayAttribution(dt)
	impulses := w.resolvePunches(in, &report)
	collisions := DetectCollisions(w.players, w.tuning.CollisionRadius).Sorted()
	w.simulate(secs, in, impulses, collisions)
	w.animateGloves(dt)
	w.runLifecycle(dt, &report)
	w.runScoring(dt, &report)

	if err := w.checkFinite(); err != nil {
		return report, fmt.Errorf("frame %d: %w", w.frame, err)
	}
	return report, nil
}

// resolveInputs lines inputs up with player slots; connected players without
// input get a neutral one
func (w *World) resolveInputs(inputs InputSnapshot) []Input {
	out := make([]Input, len(w.players))
	for slot, p := range w.players {
		if !p.Connected {
			continue
		}
		in, ok := inputs[p.ID]
		if !ok {
			w.logger.Debug("no input for player", slog.String("player", p.ID.String()))
			continue
		}
		out[slot] = in
	}
	return out
}

func (w *World) checkFinite() error {
	for _, p := range w.players {
		if !p.Position.IsFinite() || !p.Velocity.IsFinite() {
			return fmt.Errorf("player %v: %w", p.ID, ErrNonFinite)
		}
	}
	return nil
}

// placeGlove puts a glove at rest in front of its owner
func (w *World) placeGlove(slot int) {
	g := &w.gloves[slot]
	p := w.players[g.Owner]
	g.Offset = w.tuning.gloveRest()
	g.Position = p.Position.Add(p.Rotation.Apply(g.Offset.Scale(p.Scale)))
}

// Tuning returns the tuning the world was created with
func (w *World) Tuning() Tuning { return w.tuning }

// Arena returns the play area
func (w *World) Arena() Arena { return w.arena }

// Frame returns how many steps have run
func (w *World) Frame() uint64 { return w.frame }

// Players returns a copy of every slot in slot order, including disconnected ones
func (w *World) Players() []Player {
	out := make([]Player, len(w.players))
	for i, p := range w.players {
		out[i] = *p
	}
	return out
}

// Player returns a copy of player id
func (w *World) Player(id PlayerID) (Player, bool) {
	slot, ok := w.slots[id]
	if !ok {
		return Player{}, false
	}
	return *w.players[slot], true
}

// Gloves returns a copy of every glove; Owner indexes the slice returned by Players
func (w *World) Gloves() []Glove {
	return append([]Glove(nil), w.gloves...)
}

// Points returns a copy of the scoreboard in slot order
func (w *World) Points() []Points {
	return append([]Points(nil), w.points...)
}

// Winning returns the current winning message, if any
func (w *World) Winning() (WinningMessage, bool) {
	if w.win == nil {
		return WinningMessage{}, false
	}
	return *w.win, true
}

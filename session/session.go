package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"punchball/sfx"
	"punchball/sim"
)

//go:generate go tool mockgen -destination=./mocks/session_mock.go -package=mocks . InputSource,CueSink

// ConnectionKind says whether a controller arrived or left
type ConnectionKind int

const (
	Connected ConnectionKind = iota
	Disconnected
)

func (k ConnectionKind) String() string {
	if k == Connected {
		return "connected"
	}
	return "disconnected"
}

// ConnectionEvent is a controller arriving in or leaving a player slot
type ConnectionEvent struct {
	Player sim.PlayerID
	Kind   ConnectionKind
}

// InputSource supplies controller connections and per-frame input
type InputSource interface {
	// Events drains connection changes since the previous call
	Events() []ConnectionEvent
	// Snapshot reads the current input of every connected player
	Snapshot() sim.InputSnapshot
}

// CueSink plays gameplay sounds
type CueSink interface {
	Play(cue sfx.Cue)
}

// Session drives a world from an input source and turns what happens into sound cues
type Session struct {
	world  *sim.World
	input  InputSource
	sink   CueSink
	logger *slog.Logger

	round  uuid.UUID
	rounds int
}

// New creates a session. sink may be nil for silent play.
func New(world *sim.World, input InputSource, sink CueSink, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{world: world, input: input, sink: sink, logger: logger}
	s.newRound()
	return s
}

func (s *Session) newRound() {
	s.round = uuid.New()
	s.rounds++
	s.logger.Info("round started", slog.String("round", s.round.String()), slog.Int("number", s.rounds))
}

// World returns the simulated world
func (s *Session) World() *sim.World { return s.world }

// RoundID identifies the round in progress
func (s *Session) RoundID() uuid.UUID { return s.round }

// Rounds counts the rounds started, including the current one
func (s *Session) Rounds() int { return s.rounds }

// Advance applies pending connection changes and steps the world by dt
func (s *Session) Advance(dt time.Duration) (sim.FrameReport, error) {
	for _, ev := range s.input.Events() {
		s.apply(ev)
	}

	report, err := s.world.Step(dt, s.input.Snapshot())
	if err != nil {
		return report, fmt.Errorf("round %s: %w", s.round, err)
	}

	if s.sink != nil {
		for _, cue := range Cues(report) {
			s.sink.Play(cue)
		}
	}
	if report.Reset {
		s.newRound()
	}
	return report, nil
}

// apply forwards a connection change to the world. Rejected changes are
// logged and skipped so one bad controller cannot stop the game.
func (s *Session) apply(ev ConnectionEvent) {
	var err error
	switch ev.Kind {
	case Connected:
		err = s.world.Connect(ev.Player)
	case Disconnected:
		err = s.world.Disconnect(ev.Player)
	}
	if err == nil {
		return
	}
	level := slog.LevelWarn
	if errors.Is(err, sim.ErrAlreadyConnected) || errors.Is(err, sim.ErrUnknownPlayer) {
		level = slog.LevelDebug
	}
	s.logger.Log(context.Background(), level, "connection change rejected",
		slog.String("player", ev.Player.String()),
		slog.String("kind", ev.Kind.String()),
		slog.Any("error", err))
}

// Cues maps a frame report to the sounds it should make, at most one of each
func Cues(r sim.FrameReport) []sfx.Cue {
	var cues []sfx.Cue
	// a landed punch sounds as a hit only
	if len(r.Punches) > 0 && len(r.Hits) == 0 {
		cues = append(cues, sfx.CuePunch)
	}
	if len(r.Hits) > 0 {
		cues = append(cues, sfx.CueHit)
	}
	if len(r.Deaths) > 0 {
		cues = append(cues, sfx.CueDeath)
	}
	if r.Win != nil {
		cues = append(cues, sfx.CueWin)
	}
	if r.Reset {
		cues = append(cues, sfx.CueReset)
	}
	return cues
}

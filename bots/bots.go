// Package bots drives players with a small state machine, for headless runs
// and soak tests.
package bots

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"punchball/session"
	"punchball/sim"
)

// State is a bot's current behaviour
type State int

const (
	Idle State = iota
	Pursue
	Strike
	Recover
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Pursue:
		return "PURSUE"
	case Strike:
		return "STRIKE"
	case Recover:
		return "RECOVER"
	default:
		return "UNKNOWN"
	}
}

// anyState matches every from-state in the transition table
const anyState State = -1

// Bot behaviour constants
const (
	strikeSlack    = 0.75        // fraction of the hit radius beyond the punch tip a bot will swing at
	strikeSpeed    = 0.4         // stick deflection while lining up a punch
	alignThreshold = math.Pi / 6 // 30 degrees - facing error under which a bot punches
	edgeMargin     = 2.0         // collision radii from the edge where a bot retreats
	steerJitter    = 0.25        // radians of random steering noise
)

// situation is what a bot knows when choosing its next state
type situation struct {
	hasTarget bool
	dist      float64
	reach     float64
	edge      float64
	margin    float64
}

type transition struct {
	from State
	to   State
	when func(s situation) bool
}

// transitions are checked in order; the first match wins
var transitions = []transition{
	{anyState, Idle, func(s situation) bool { return !s.hasTarget }},
	{anyState, Recover, func(s situation) bool { return s.edge < s.margin }},
	// stay away from the edge until well clear of it
	{Recover, Recover, func(s situation) bool { return s.edge < 2*s.margin }},
	{anyState, Strike, func(s situation) bool { return s.dist <= s.reach }},
	{anyState, Pursue, func(situation) bool { return true }},
}

func nextState(cur State, s situation) State {
	for _, t := range transitions {
		if (t.from == anyState || t.from == cur) && t.when(s) {
			return t.to
		}
	}
	return cur
}

// Bots is a session.InputSource that plays the first Count player slots
type Bots struct {
	world  *sim.World
	count  int
	joined bool
	states [sim.MaxPlayers]State
	rng    *rand.Rand
	logger *slog.Logger
}

// New creates count bots for world. The same seed replays the same decisions.
func New(world *sim.World, count int, seed uint64, logger *slog.Logger) (*Bots, error) {
	if count < 1 || count > sim.MaxPlayers {
		return nil, fmt.Errorf("bot count %d: %w", count, sim.ErrPlayerLimit)
	}
	return &Bots{
		world:  world,
		count:  count,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
	}, nil
}

// Events connects every bot on the first call
func (b *Bots) Events() []session.ConnectionEvent {
	if b.joined {
		return nil
	}
	b.joined = true
	evs := make([]session.ConnectionEvent, b.count)
	for i := range evs {
		evs[i] = session.ConnectionEvent{Player: sim.PlayerID(i), Kind: session.Connected}
	}
	return evs
}

// State returns the current behaviour of bot id
func (b *Bots) State(id sim.PlayerID) State {
	if id < 0 || int(id) >= len(b.states) {
		return Idle
	}
	return b.states[id]
}

// Snapshot decides every living bot's input from the current world
func (b *Bots) Snapshot() sim.InputSnapshot {
	snap := make(sim.InputSnapshot, b.count)
	players := b.world.Players()
	for i := 0; i < b.count; i++ {
		id := sim.PlayerID(i)
		p, ok := b.world.Player(id)
		if !ok || !p.Active() {
			continue
		}
		snap[id] = b.decide(p, players)
	}
	return snap
}

func (b *Bots) decide(self sim.Player, players []sim.Player) sim.Input {
	t := b.world.Tuning()
	arena := b.world.Arena()

	target, found := nearest(self, players)
	toTarget := target.Position.Sub(self.Position)
	sit := situation{
		hasTarget: found,
		dist:      toTarget.Len(),
		reach:     t.PunchBase + t.PunchLength + strikeSlack*2*t.CollisionRadius,
		edge:      arena.Radius - self.Position.Sub(arena.Center).Len(),
		margin:    edgeMargin * t.CollisionRadius,
	}

	prev := b.states[self.ID]
	state := nextState(prev, sit)
	if state != prev {
		b.logger.Debug("bot state",
			slog.String("player", self.ID.String()),
			slog.String("from", prev.String()),
			slog.String("to", state.String()),
		)
	}
	b.states[self.ID] = state

	var in sim.Input
	switch state {
	case Idle:
		return in
	case Recover:
		in.Move = b.jitter(arena.Center.Sub(self.Position).Normalize())
		in.Facing = toTarget.Normalize()
	case Pursue:
		in.Move = b.jitter(toTarget.Normalize())
		in.Facing = toTarget.Normalize()
	case Strike:
		in.Move = toTarget.Normalize().Scale(strikeSpeed)
		in.Facing = toTarget.Normalize()
		in.Attack = aligned(self.Rotation, toTarget)
	}
	return in
}

// jitter rotates a unit direction by a small random angle so bots don't mirror each other
func (b *Bots) jitter(dir sim.Vec2) sim.Vec2 {
	if dir.LenSq() == 0 {
		return dir
	}
	a := (b.rng.Float64()*2 - 1) * steerJitter
	return sim.RotationFromAngle(a).Apply(dir)
}

// nearest returns the closest other active player
func nearest(self sim.Player, players []sim.Player) (sim.Player, bool) {
	var best sim.Player
	bestDist := math.Inf(1)
	for _, p := range players {
		if p.ID == self.ID || !p.Active() {
			continue
		}
		if d := p.Position.Sub(self.Position).LenSq(); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// aligned reports whether r faces along dir within alignThreshold
func aligned(r sim.Rotation, dir sim.Vec2) bool {
	if dir.LenSq() == 0 {
		return false
	}
	return r.Direction().Dot(dir.Normalize()) >= math.Cos(alignThreshold)
}

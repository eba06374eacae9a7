package sim

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

func newTestWorld(t *testing.T, ids ...PlayerID) *World {
	t.Helper()
	w, err := NewWorld(DefaultTuning(), WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, w.Connect(id))
	}
	return w
}

// live returns the world's own player for direct setup
func live(t *testing.T, w *World, id PlayerID) *Player {
	t.Helper()
	slot, ok := w.slots[id]
	require.True(t, ok, "player %v not connected", id)
	return w.players[slot]
}

func pointsOf(w *World, id PlayerID) int {
	return w.points[w.slots[id]].Value
}

func TestNewWorldRejectsBadTuning(t *testing.T) {
	tn := DefaultTuning()
	tn.WinPoints = 0
	_, err := NewWorld(tn)
	require.ErrorIs(t, err, ErrInvalidTuning)

	tn = DefaultTuning()
	tn.StartingLocations = tn.StartingLocations[:2]
	_, err = NewWorld(tn)
	require.ErrorIs(t, err, ErrInvalidTuning)
}

func TestValidateRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Tuning)
	}{
		{"nan drag", func(tn *Tuning) { tn.Drag = math.NaN() }},
		{"inf arena", func(tn *Tuning) { tn.ArenaRadius = math.Inf(1) }},
		{"nan dead zone", func(tn *Tuning) { tn.DeadZone = math.NaN() }},
		{"-inf pushback", func(tn *Tuning) { tn.PushbackSelf = math.Inf(-1) }},
		{"nan spawn", func(tn *Tuning) { tn.StartingLocations[3] = Vec2{Y: math.NaN()} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn := DefaultTuning()
			tt.mut(&tn)
			require.ErrorIs(t, tn.Validate(), ErrInvalidTuning)
		})
	}
}

func TestConnect(t *testing.T) {
	w := newTestWorld(t, 2)

	p, ok := w.Player(2)
	require.True(t, ok)
	assert.Equal(t, DefaultTuning().StartingLocations[2], p.Position)
	assert.Equal(t, Alive, p.State)
	assert.True(t, p.PunchTimer.Finished())
	require.Len(t, w.Points(), 1)
	assert.Equal(t, PlayerID(2), w.Points()[0].PlayerID)

	require.ErrorIs(t, w.Connect(2), ErrAlreadyConnected)
	require.ErrorIs(t, w.Connect(MaxPlayers), ErrPlayerLimit)
	require.ErrorIs(t, w.Connect(-1), ErrPlayerLimit)
	assert.Len(t, w.Players(), 1)
}

func TestDisconnectAndReconnect(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	w.points[w.slots[0]].Value = 4
	live(t, w, 0).Position = Vec2{X: 50}
	live(t, w, 0).SetRecipient(1)

	require.NoError(t, w.Disconnect(0))
	require.ErrorIs(t, w.Disconnect(0), ErrUnknownPlayer)
	require.ErrorIs(t, w.Disconnect(3), ErrUnknownPlayer)

	p, _ := w.Player(0)
	assert.False(t, p.Connected)
	_, has := p.Recipient()
	assert.False(t, has)

	// a disconnected player sitting on another does not collide with it
	live(t, w, 1).Position = Vec2{X: 60}
	_, err := w.Step(frame, nil)
	require.NoError(t, err)
	p, _ = w.Player(0)
	assert.Equal(t, Vec2{X: 50}, p.Position)

	require.NoError(t, w.Connect(0))
	p, _ = w.Player(0)
	assert.True(t, p.Connected)
	assert.Equal(t, DefaultTuning().StartingLocations[0], p.Position)
	assert.Equal(t, 4, pointsOf(w, 0))
	assert.Len(t, w.Players(), 2)
}

func TestStepRejectsNegativeDelta(t *testing.T) {
	w := newTestWorld(t, 0)
	_, err := w.Step(-time.Millisecond, nil)
	require.ErrorIs(t, err, ErrNegativeDelta)
	assert.Zero(t, w.Frame())
}

func TestStepReportsNonFiniteState(t *testing.T) {
	w := newTestWorld(t, 0)
	live(t, w, 0).Velocity = Vec2{X: math.NaN()}
	_, err := w.Step(frame, nil)
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestMissingInputIsNeutral(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	r, err := w.Step(frame, InputSnapshot{1: {Move: Vec2{X: 1}}})
	require.NoError(t, err)
	assert.True(t, r.Empty())

	p0, _ := w.Player(0)
	assert.Equal(t, DefaultTuning().StartingLocations[0], p0.Position)
	p1, _ := w.Player(1)
	assert.Greater(t, p1.Position.X, DefaultTuning().StartingLocations[1].X)
}

func TestDeathOnFirstEvaluation(t *testing.T) {
	w := newTestWorld(t, 0)
	live(t, w, 0).Position = Vec2{X: w.Arena().Radius + 1}

	r, err := w.Step(frame, nil)
	require.NoError(t, err)
	require.Len(t, r.Deaths, 1)
	assert.Equal(t, Death{Victim: 0}, r.Deaths[0])

	p, _ := w.Player(0)
	assert.Equal(t, Dead, p.State)
	assert.Equal(t, time.Duration(0), p.RespawnTimer.Elapsed)

	r, err = w.Step(frame, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Deaths)
}

func TestOnTheEdgeIsAlive(t *testing.T) {
	w := newTestWorld(t, 0)
	live(t, w, 0).Position = Vec2{Y: -w.Arena().Radius}

	r, err := w.Step(frame, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Deaths)
}

func TestRespawnAfterExactDuration(t *testing.T) {
	w := newTestWorld(t, 1)
	p := live(t, w, 1)
	p.Position = Vec2{X: -500}
	p.Velocity = Vec2{X: -3}
	p.Rotation = RotationFromAngle(2)

	_, err := w.Step(frame, nil)
	require.NoError(t, err)
	require.Equal(t, Dead, p.State)
	deathPos := p.Position

	step := 250 * time.Millisecond
	for i := range 7 {
		r, err := w.Step(step, nil)
		require.NoError(t, err)
		require.Empty(t, r.Respawns, "respawned early at step %d", i)
		// dead players do not move
		assert.Equal(t, deathPos, p.Position)
	}
	assert.Equal(t, Dead, p.State)
	assert.InDelta(t, 1-1.75/2, p.Scale, 1e-9)

	r, err := w.Step(step, nil)
	require.NoError(t, err)
	assert.Equal(t, []PlayerID{1}, r.Respawns)
	assert.Equal(t, Alive, p.State)
	assert.Equal(t, 1.0, p.Scale)
	assert.Equal(t, Vec2{}, p.Velocity)
	assert.Equal(t, DefaultTuning().StartingLocations[1], p.Position)
	assert.Equal(t, time.Duration(0), p.RespawnTimer.Elapsed)
}

func TestAttributionExpiresExactly(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	victim := live(t, w, 1)
	victim.SetRecipient(0)

	step := 250 * time.Millisecond
	for range 11 {
		_, err := w.Step(step, nil)
		require.NoError(t, err)
		by, ok := victim.Recipient()
		require.True(t, ok)
		require.Equal(t, PlayerID(0), by)
	}
	_, err := w.Step(step, nil)
	require.NoError(t, err)
	_, ok := victim.Recipient()
	assert.False(t, ok)
}

func TestRecipientNeverSelf(t *testing.T) {
	w := newTestWorld(t, 0)
	p := live(t, w, 0)
	p.SetRecipient(0)
	_, ok := p.Recipient()
	assert.False(t, ok)
}

func TestHeadOnCollisionSwapsVelocities(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	a, b := live(t, w, 0), live(t, w, 1)
	a.Position, a.Velocity = Vec2{X: -31}, Vec2{X: 2}
	b.Position, b.Velocity = Vec2{X: 31}, Vec2{X: -2}

	_, err := w.Step(time.Millisecond, nil)
	require.NoError(t, err)

	assert.InDelta(t, -2, a.Velocity.X, 1e-9)
	assert.InDelta(t, 0, a.Velocity.Y, 1e-9)
	assert.InDelta(t, 2, b.Velocity.X, 1e-9)
	assert.InDelta(t, 0, b.Velocity.Y, 1e-9)
}

func TestPunchCooldown(t *testing.T) {
	w := newTestWorld(t, 0)
	attack := InputSnapshot{0: {Attack: true}}

	r, err := w.Step(frame, attack)
	require.NoError(t, err)
	require.Len(t, r.Punches, 1)
	p, _ := w.Player(0)
	assert.InDelta(t, DefaultTuning().PunchBase+DefaultTuning().PunchLength, r.Punches[0].Tip.Sub(p.Position).Len(), 1e-9)

	// glove is near full extension just after the punch
	g := w.Gloves()[0]
	assert.Greater(t, g.Offset.X, DefaultTuning().PunchBase)

	punches := 1
	for range 60 {
		r, err = w.Step(frame, attack)
		require.NoError(t, err)
		punches += len(r.Punches)
	}
	// one second of held attack with a 250ms cooldown
	assert.Equal(t, 4, punches)
}

func TestDeadPlayersCannotPunchOrBeHit(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	a, b := live(t, w, 0), live(t, w, 1)
	a.Position = Vec2{}
	b.Position = Vec2{X: 80}
	b.State = Dead

	r, err := w.Step(frame, InputSnapshot{0: {Attack: true}, 1: {Attack: true}})
	require.NoError(t, err)
	require.Len(t, r.Punches, 1)
	assert.Equal(t, PlayerID(0), r.Punches[0].Puncher)
	assert.Empty(t, r.Hits)
	_, ok := b.Recipient()
	assert.False(t, ok)
}

func TestPunchKnockoutScoresPoint(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	tn := w.Tuning()
	a, b := live(t, w, 0), live(t, w, 1)
	a.Position = Vec2{}
	b.Position = Vec2{X: tn.PunchBase + tn.PunchLength}

	r, err := w.Step(frame, InputSnapshot{0: {Attack: true}})
	require.NoError(t, err)
	require.Equal(t, []Hit{{Puncher: 0, Victim: 1}}, r.Hits)

	by, ok := b.Recipient()
	require.True(t, ok)
	assert.Equal(t, PlayerID(0), by)
	assert.InDelta(t, tn.PushbackOther*tn.MaxVelocity, b.Velocity.X, 1e-9)
	assert.InDelta(t, -tn.PushbackSelf*tn.MaxVelocity, a.Velocity.X, 1e-9)

	var death *Death
	for range 120 {
		r, err = w.Step(frame, nil)
		require.NoError(t, err)
		if len(r.Deaths) > 0 {
			death = &r.Deaths[0]
			break
		}
	}
	require.NotNil(t, death, "victim never left the arena")
	assert.Equal(t, Death{Victim: 1, Recipient: 0, Attributed: true}, *death)
	assert.Equal(t, 1, pointsOf(w, 0))
	assert.Equal(t, 0, pointsOf(w, 1))

	_, ok = b.Recipient()
	assert.False(t, ok)
}

func TestTwoPunchesSumImpulses(t *testing.T) {
	w := newTestWorld(t, 0, 1, 2)
	tn := w.Tuning()
	reach := tn.PunchBase + tn.PunchLength
	a, b, victim := live(t, w, 0), live(t, w, 1), live(t, w, 2)
	a.Position, a.Rotation = Vec2{X: -reach}, Identity
	b.Position, b.Rotation = Vec2{Y: -reach}, RotationFromAngle(math.Pi/2)
	victim.Position = Vec2{}

	r, err := w.Step(frame, InputSnapshot{0: {Attack: true}, 1: {Attack: true}})
	require.NoError(t, err)
	assert.Equal(t, []Hit{{Puncher: 0, Victim: 2}, {Puncher: 1, Victim: 2}}, r.Hits)

	k := tn.PushbackOther * tn.MaxVelocity
	require.Greater(t, k, tn.MaxVelocity)
	assert.InDelta(t, k, victim.Velocity.X, 1e-9)
	assert.InDelta(t, k, victim.Velocity.Y, 1e-9)
	assert.Greater(t, victim.Velocity.Len(), tn.MaxVelocity)
}

func TestSimultaneousDeathsAwardEachPoint(t *testing.T) {
	w := newTestWorld(t, 0, 1, 2)
	for id, pos := range map[PlayerID]Vec2{1: {X: 1000}, 2: {X: -1000}} {
		p := live(t, w, id)
		p.SetRecipient(0)
		p.Position = pos
	}

	r, err := w.Step(frame, nil)
	require.NoError(t, err)
	require.Len(t, r.Deaths, 2)
	for _, d := range r.Deaths {
		assert.True(t, d.Attributed)
		assert.Equal(t, PlayerID(0), d.Recipient)
	}
	assert.Equal(t, 2, pointsOf(w, 0))
	assert.Equal(t, 0, pointsOf(w, 1))
	assert.Equal(t, 0, pointsOf(w, 2))
}

func TestUnattributedDeathScoresNothing(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	live(t, w, 1).Position = Vec2{X: 1000}

	r, err := w.Step(frame, nil)
	require.NoError(t, err)
	require.Len(t, r.Deaths, 1)
	assert.False(t, r.Deaths[0].Attributed)
	assert.Equal(t, 0, pointsOf(w, 0))
}

func TestWinThenResetAfterMessage(t *testing.T) {
	w := newTestWorld(t, 0, 1)
	tn := w.Tuning()
	w.points[w.slots[0]].Value = tn.WinPoints - 1
	winner, loser := live(t, w, 0), live(t, w, 1)
	winner.Position = Vec2{X: 10, Y: 10}
	loser.SetRecipient(0)
	loser.Position = Vec2{X: 1000}

	r, err := w.Step(frame, nil)
	require.NoError(t, err)
	require.NotNil(t, r.Win)
	assert.Equal(t, Win{Winner: 0, Points: tn.WinPoints}, *r.Win)
	msg, ok := w.Winning()
	require.True(t, ok)
	assert.Equal(t, PlayerID(0), msg.Winner)

	step := 250 * time.Millisecond
	for i := range 11 {
		r, err = w.Step(step, nil)
		require.NoError(t, err)
		require.False(t, r.Reset, "reset early at step %d", i)
		require.Nil(t, r.Win, "second win at step %d", i)
	}
	_, ok = w.Winning()
	require.True(t, ok)

	r, err = w.Step(step, nil)
	require.NoError(t, err)
	assert.True(t, r.Reset)
	assert.Nil(t, r.Win)
	_, ok = w.Winning()
	assert.False(t, ok)

	for _, pts := range w.Points() {
		assert.Zero(t, pts.Value)
	}
	assert.Equal(t, tn.StartingLocations[0], winner.Position)
	assert.Equal(t, Vec2{}, winner.Velocity)
	assert.Equal(t, tn.StartingLocations[1], loser.Position)
}

func TestGloveFollowsOwner(t *testing.T) {
	w := newTestWorld(t, 3)
	_, err := w.Step(frame, InputSnapshot{3: {Facing: Vec2{Y: 1}}})
	require.NoError(t, err)

	players := w.Players()
	for _, g := range w.Gloves() {
		p := players[g.Owner]
		want := p.Position.Add(p.Rotation.Apply(g.Offset.Scale(p.Scale)))
		assert.InDelta(t, want.X, g.Position.X, 1e-9)
		assert.InDelta(t, want.Y, g.Position.Y, 1e-9)
		assert.InDelta(t, w.Tuning().PunchBase, g.Offset.Len(), 1e-9)
	}
}

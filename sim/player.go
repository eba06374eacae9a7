package sim

import "fmt"

// PlayerID identifies a player slot; it doubles as the gamepad slot index
type PlayerID int

func (id PlayerID) String() string {
	return fmt.Sprintf("P%d", int(id)+1)
}

// LifeState is whether a player is in play
type LifeState int

const (
	Alive LifeState = iota
	Dead
)

func (s LifeState) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Player is one controllable body
type Player struct {
	ID       PlayerID
	Position Vec2
	Velocity Vec2
	Rotation Rotation
	// Scale is 1 while alive and shrinks towards 0 while dead
	Scale float64
	State LifeState

	RespawnTimer Timer
	PunchTimer   Timer
	PointTimer   Timer

	// PointRecipient is who scores if this player dies now; valid when HasRecipient
	PointRecipient PlayerID
	HasRecipient   bool

	Connected bool
}

// newPlayer creates a player at its starting location
func newPlayer(id PlayerID, t Tuning) *Player {
	p := &Player{ID: id, Connected: true}
	p.spawn(t)
	return p
}

// spawn resets the player to a fresh round state at its starting location
func (p *Player) spawn(t Tuning) {
	p.Position = t.StartingLocations[p.ID]
	p.Velocity = Vec2{}
	p.Rotation = Identity
	p.Scale = 1
	p.State = Alive
	p.RespawnTimer = NewTimer(t.RespawnDuration)
	p.PunchTimer = FinishedTimer(t.PunchDrawback)
	p.PointTimer = FinishedTimer(t.PointTouchDuration)
	p.ClearRecipient()
}

// Active reports whether the player takes part in movement, punching and collision
func (p *Player) Active() bool {
	return p.Connected && p.State == Alive
}

// Recipient returns the current point recipient, if any
func (p *Player) Recipient() (PlayerID, bool) {
	return p.PointRecipient, p.HasRecipient
}

// SetRecipient attributes this player's next death to by and restarts the point timer
func (p *Player) SetRecipient(by PlayerID) {
	if by == p.ID {
		return
	}
	p.PointRecipient = by
	p.HasRecipient = true
	p.PointTimer.Reset()
}

func (p *Player) ClearRecipient() {
	p.PointRecipient = 0
	p.HasRecipient = false
}

// Glove is the visual and hit anchor of a player's fist. Owner indexes the
// world's player slice.
type Glove struct {
	Owner    int
	Offset   Vec2
	Position Vec2
}

// Points is a player's score
type Points struct {
	PlayerID PlayerID
	Value    int
}

// Arena is the circular play area
type Arena struct {
	Center Vec2
	Radius float64
}

// Outside reports whether p lies strictly beyond the arena edge
func (a Arena) Outside(p Vec2) bool {
	return p.Sub(a.Center).Len() > a.Radius
}

// WinningMessage announces a round winner until its timer finishes
type WinningMessage struct {
	Winner PlayerID
	Timer  Timer
}

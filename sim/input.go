package sim

// Input is one player's controls for a frame
type Input struct {
	// Move is the left stick, each axis in [-1, 1], +Y up
	Move Vec2
	// Facing is the right stick, each axis in [-1, 1], +Y up
	Facing Vec2
	// Attack is true while the punch button is held
	Attack bool
}

// InputSnapshot is every connected player's input for one frame
type InputSnapshot map[PlayerID]Input

// Neutral reports whether the input has no effect on the player
func (in Input) Neutral() bool {
	return in.Move == (Vec2{}) && in.Facing == (Vec2{}) && !in.Attack
}

package sim

// Punch is a thrown punch
type Punch struct {
	Puncher  PlayerID
	Rotation Rotation
	Tip      Vec2
}

// Hit is a punch that connected
type Hit struct {
	Puncher PlayerID
	Victim  PlayerID
}

// Death is a player leaving the arena. Recipient is valid when Attributed.
type Death struct {
	Victim     PlayerID
	Recipient  PlayerID
	Attributed bool
}

// Win is the start of a winning message
type Win struct {
	Winner PlayerID
	Points int
}

// FrameReport lists what happened during one Step
type FrameReport struct {
	Frame    uint64
	Punches  []Punch
	Hits     []Hit
	Deaths   []Death
	Respawns []PlayerID
	Win      *Win
	// Reset is true on the frame the winning message expired and the round restarted
	Reset bool
}

// Empty reports whether nothing noteworthy happened
func (r FrameReport) Empty() bool {
	return len(r.Punches) == 0 && len(r.Hits) == 0 && len(r.Deaths) == 0 &&
		len(r.Respawns) == 0 && r.Win == nil && !r.Reset
}

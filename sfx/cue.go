package sfx

// Cue is a gameplay sound
type Cue int

const (
	// CuePunch is a thrown punch, landed or not
	CuePunch Cue = iota
	// CueHit is a punch connecting with another player
	CueHit
	// CueDeath is a player falling out of the arena
	CueDeath
	// CueWin is the start of a winning message
	CueWin
	// CueReset is the round restarting
	CueReset

	cueCount
)

// Cues lists every cue in declaration order
func Cues() []Cue {
	out := make([]Cue, 0, cueCount)
	for c := Cue(0); c < cueCount; c++ {
		out = append(out, c)
	}
	return out
}

func (c Cue) String() string {
	switch c {
	case CuePunch:
		return "punch"
	case CueHit:
		return "hit"
	case CueDeath:
		return "death"
	case CueWin:
		return "win"
	case CueReset:
		return "reset"
	}
	return "unknown"
}

// Valid reports whether c is a known cue
func (c Cue) Valid() bool {
	return c >= 0 && c < cueCount
}

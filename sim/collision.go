package sim

import "slices"

// PairKey identifies an unordered pair of players
type PairKey struct {
	Lo, Hi PlayerID
}

// NewPairKey orders a and b so (a, b) and (b, a) produce the same key
func NewPairKey(a, b PlayerID) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Less orders keys by Lo then Hi
func (k PairKey) Less(o PairKey) bool {
	if k.Lo != o.Lo {
		return k.Lo < o.Lo
	}
	return k.Hi < o.Hi
}

// Collision is a snapshot of two overlapping players taken at detection time
type Collision struct {
	ID1, ID2   PlayerID
	Pos1, Pos2 Vec2
	Vel1, Vel2 Vec2
}

// Key returns the canonical pair key
func (c Collision) Key() PairKey {
	return NewPairKey(c.ID1, c.ID2)
}

// Involves reports whether id is one of the pair
func (c Collision) Involves(id PlayerID) bool {
	return c.ID1 == id || c.ID2 == id
}

// Approaching reports whether the bodies are moving towards each other.
// Coincident centres count as not approaching.
func (c Collision) Approaching() bool {
	d := c.Pos1.Sub(c.Pos2)
	if d.LenSq() == 0 {
		return false
	}
	return d.Dot(c.Vel2.Sub(c.Vel1)) > 0
}

// VelocityFor returns the equal-mass elastic response velocity for id, or false
// if id is not part of the pair or the centres coincide
func (c Collision) VelocityFor(id PlayerID) (Vec2, bool) {
	var p1, p2, v1, v2 Vec2
	switch id {
	case c.ID1:
		p1, p2, v1, v2 = c.Pos1, c.Pos2, c.Vel1, c.Vel2
	case c.ID2:
		p1, p2, v1, v2 = c.Pos2, c.Pos1, c.Vel2, c.Vel1
	default:
		return Vec2{}, false
	}
	d := p1.Sub(p2)
	distSq := d.LenSq()
	if distSq == 0 {
		return Vec2{}, false
	}
	k := v1.Sub(v2).Dot(d) / distSq
	return v1.Sub(d.Scale(k)), true
}

// CollisionSet holds at most one collision per unordered pair
type CollisionSet map[PairKey]Collision

// Insert adds c unless its pair is already present and reports whether it was added
func (s CollisionSet) Insert(c Collision) bool {
	k := c.Key()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = c
	return true
}

// Sorted returns the collisions in canonical key order
func (s CollisionSet) Sorted() []Collision {
	out := make([]Collision, 0, len(s))
	for _, c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Collision) int {
		switch ka, kb := a.Key(), b.Key(); {
		case ka.Less(kb):
			return -1
		case kb.Less(ka):
			return 1
		}
		return 0
	})
	return out
}

// For returns the collisions involving id in canonical key order
func (s CollisionSet) For(id PlayerID) []Collision {
	var out []Collision
	for _, c := range s.Sorted() {
		if c.Involves(id) {
			out = append(out, c)
		}
	}
	return out
}

// DetectCollisions scans every pair of active players and records overlapping ones
func DetectCollisions(players []*Player, radius float64) CollisionSet {
	set := make(CollisionSet)
	minDist := 2 * radius
	for _, a := range players {
		if !a.Active() {
			continue
		}
		for _, b := range players {
			if a == b || !b.Active() {
				continue
			}
			if a.Position.Sub(b.Position).Len() < minDist {
				set.Insert(Collision{
					ID1: a.ID, ID2: b.ID,
					Pos1: a.Position, Pos2: b.Position,
					Vel1: a.Velocity, Vel2: b.Velocity,
				})
			}
		}
	}
	return set
}

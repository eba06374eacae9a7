package session

import "punchball/sim"

// Slots assigns controllers of any kind to player slots, lowest free slot first
type Slots[K comparable] struct {
	owner [sim.MaxPlayers]K
	used  [sim.MaxPlayers]bool
}

// Assign gives k a slot and returns a Connected event, or false when k already
// has one or every slot is taken
func (s *Slots[K]) Assign(k K) (ConnectionEvent, bool) {
	if _, ok := s.Lookup(k); ok {
		return ConnectionEvent{}, false
	}
	for i := range s.used {
		if !s.used[i] {
			s.used[i] = true
			s.owner[i] = k
			return ConnectionEvent{Player: sim.PlayerID(i), Kind: Connected}, true
		}
	}
	return ConnectionEvent{}, false
}

// Release frees k's slot and returns a Disconnected event, or false if k had none
func (s *Slots[K]) Release(k K) (ConnectionEvent, bool) {
	id, ok := s.Lookup(k)
	if !ok {
		return ConnectionEvent{}, false
	}
	var zero K
	s.used[id] = false
	s.owner[id] = zero
	return ConnectionEvent{Player: id, Kind: Disconnected}, true
}

// Lookup returns k's slot
func (s *Slots[K]) Lookup(k K) (sim.PlayerID, bool) {
	for i := range s.used {
		if s.used[i] && s.owner[i] == k {
			return sim.PlayerID(i), true
		}
	}
	return 0, false
}

// Each calls fn for every assigned slot in slot order
func (s *Slots[K]) Each(fn func(id sim.PlayerID, k K)) {
	for i := range s.used {
		if s.used[i] {
			fn(sim.PlayerID(i), s.owner[i])
		}
	}
}

// Len is the number of assigned slots
func (s *Slots[K]) Len() int {
	n := 0
	for _, u := range s.used {
		if u {
			n++
		}
	}
	return n
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchball/sim"
)

func TestSlotsAssignLowestFree(t *testing.T) {
	var s Slots[string]

	for i, pad := range []string{"a", "b", "c", "d"} {
		ev, ok := s.Assign(pad)
		require.True(t, ok)
		assert.Equal(t, ConnectionEvent{Player: sim.PlayerID(i), Kind: Connected}, ev)
	}
	_, ok := s.Assign("e")
	assert.False(t, ok, "fifth controller should be refused")
	_, ok = s.Assign("a")
	assert.False(t, ok, "double assignment")

	ev, ok := s.Release("b")
	require.True(t, ok)
	assert.Equal(t, ConnectionEvent{Player: 1, Kind: Disconnected}, ev)
	_, ok = s.Release("b")
	assert.False(t, ok)

	ev, ok = s.Assign("e")
	require.True(t, ok)
	assert.Equal(t, sim.PlayerID(1), ev.Player)
	assert.Equal(t, 4, s.Len())
}

func TestSlotsEachInOrder(t *testing.T) {
	var s Slots[int]
	s.Assign(10)
	s.Assign(20)
	s.Assign(30)
	s.Release(20)

	var got []sim.PlayerID
	s.Each(func(id sim.PlayerID, k int) {
		got = append(got, id)
		owner, ok := s.Lookup(k)
		require.True(t, ok)
		assert.Equal(t, id, owner)
	})
	assert.Equal(t, []sim.PlayerID{0, 2}, got)
}

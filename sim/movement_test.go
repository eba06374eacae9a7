package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSteerClampsToMaxVelocity(t *testing.T) {
	tn := DefaultTuning()
	v := Vec2{X: tn.MaxVelocity}
	for range 200 {
		v = Steer(v, Vec2{X: 1}, 1.0/60, tn)
		assert.LessOrEqual(t, v.Len(), tn.MaxVelocity+1e-9)
	}
	assert.InDelta(t, tn.MaxVelocity, v.Len(), 1e-9)
}

func TestSteerIgnoresDeadZone(t *testing.T) {
	tn := DefaultTuning()
	v := Steer(Vec2{}, Vec2{X: tn.DeadZone / 2}, 1.0/60, tn)
	assert.Equal(t, Vec2{}, v)
}

func TestSteerOverspeedNeverGrows(t *testing.T) {
	tn := DefaultTuning()
	rapid.Check(t, func(t *rapid.T) {
		dir := genVec(t, "dir", 1).Normalize()
		if dir == (Vec2{}) {
			dir = UnitX
		}
		speed := rapid.Float64Range(tn.MaxVelocity*1.01, tn.MaxVelocity*10).Draw(t, "speed")
		v := dir.Scale(speed)
		dt := rapid.Float64Range(0.001, 0.1).Draw(t, "dt")

		for i := range 50 {
			if v.Len() <= tn.MaxVelocity {
				break
			}
			move := genVec(t, "move", 1)
			next := Steer(v, move, dt, tn)
			if next.Len() > v.Len()+1e-9 {
				t.Fatalf("step %d: speed grew %v -> %v", i, v.Len(), next.Len())
			}
			v = next
		}
	})
}

func TestSteerStaysUnderCap(t *testing.T) {
	tn := DefaultTuning()
	rapid.Check(t, func(t *rapid.T) {
		v := genVec(t, "v", tn.MaxVelocity/math.Sqrt2)
		move := genVec(t, "move", 1)
		dt := rapid.Float64Range(0.001, 0.1).Draw(t, "dt")
		if got := Steer(v, move, dt, tn).Len(); got > tn.MaxVelocity+1e-9 {
			t.Fatalf("speed %v above cap", got)
		}
	})
}

func TestRespondNudgesSeparatingPair(t *testing.T) {
	tn := DefaultTuning()
	dt := 1.0 / 60
	c := Collision{
		ID1: 0, ID2: 1,
		Pos1: Vec2{X: -10}, Pos2: Vec2{X: 10},
		Vel1: Vec2{X: -1}, Vel2: Vec2{X: 1},
	}
	assert.False(t, c.Approaching())

	got := Respond(Vec2{X: -1}, 0, []Collision{c}, dt, tn)
	assert.InDelta(t, -(1 + tn.MoveSpeed*dt), got.X, 1e-9)

	// the nudge is clamped
	got = Respond(Vec2{X: -tn.MaxVelocity}, 0, []Collision{c}, dt, tn)
	assert.InDelta(t, -tn.MaxVelocity, got.X, 1e-9)

	// pairs not involving the player are ignored
	got = Respond(Vec2{X: 3}, 2, []Collision{c}, dt, tn)
	assert.Equal(t, Vec2{X: 3}, got)
}

func TestTurnReachesTargetAtFullRate(t *testing.T) {
	tn := DefaultTuning()
	r := Turn(Identity, Vec2{Y: 1}, 1/tn.TurnSpeed, tn)
	assert.InDelta(t, math.Pi/2, r.Angle(), 1e-9)
	d := r.Direction()
	assert.InDelta(t, 0, d.X, 1e-9)
	assert.InDelta(t, 1, d.Y, 1e-9)
}

func TestTurnTakesShorterArc(t *testing.T) {
	tn := DefaultTuning()
	from := RotationFromAngle(170 * math.Pi / 180)
	toward := RotationFromAngle(-170 * math.Pi / 180).Direction()

	// half way along the short arc is pointing straight at -X
	r := Turn(from, toward, 0.5/tn.TurnSpeed, tn)
	assert.InDelta(t, math.Pi, math.Abs(r.Angle()), 1e-9)
}

func TestTurnIgnoresDeadZone(t *testing.T) {
	tn := DefaultTuning()
	r := RotationFromAngle(1)
	assert.Equal(t, r, Turn(r, Vec2{Y: tn.DeadZone}, 1, tn))
}

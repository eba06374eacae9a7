package sim

import "math"

// Steer applies drag, stick acceleration and the speed cap to v.
// A body already faster than MaxVelocity (after a punch) is allowed to coast
// down rather than snapping to the cap, but it may not speed up.
func Steer(v Vec2, move Vec2, dt float64, t Tuning) Vec2 {
	starting := v.Len()
	comingDown := starting > t.MaxVelocity

	v = v.Scale(1 - t.Drag*dt)

	if move.Len() > t.DeadZone {
		v = v.Add(move.Scale(t.MoveSpeed * dt))
	}

	if comingDown {
		if v.Len() > starting {
			v = v.Normalize().Scale(starting * (1 - dt*t.Drag*2))
		}
	} else {
		v = clampLen(v, t.MaxVelocity)
	}
	return v
}

// Respond applies every collision involving id, in order, to v. Approaching
// pairs take the elastic response; separating or coincident pairs get a speed
// nudge that pushes the bodies out of overlap.
func Respond(v Vec2, id PlayerID, collisions []Collision, dt float64, t Tuning) Vec2 {
	for _, c := range collisions {
		if !c.Involves(id) {
			continue
		}
		if c.Approaching() {
			if nv, ok := c.VelocityFor(id); ok {
				v = nv
				continue
			}
		}
		v = clampLen(v.Scale(1+t.MoveSpeed*dt), t.MaxVelocity)
	}
	return v
}

// Turn rotates r towards the facing stick by TurnSpeed*dt along the shorter arc
func Turn(r Rotation, facing Vec2, dt float64, t Tuning) Rotation {
	if facing.Len() <= t.DeadZone {
		return r
	}
	target := RotationFromAngle(math.Atan2(facing.Y, facing.X))
	s := math.Max(0, math.Min(1, t.TurnSpeed*dt))
	if r.Dot(target) < 0 {
		r = r.Neg()
	}
	return r.Slerp(target, s)
}

// simulate integrates every active player
func (w *World) simulate(dt float64, inputs []Input, impulses []Vec2, collisions []Collision) {
	t := w.tuning
	for slot, p := range w.players {
		if !p.Active() {
			continue
		}
		in := inputs[slot]

		v := Steer(p.Velocity, in.Move, dt, t)
		// impulses bypass the cap
		v = v.Add(impulses[slot])
		v = Respond(v, p.ID, collisions, dt, t)

		p.Velocity = v
		p.Position = p.Position.Add(v.Scale(t.MoveSpeed * dt))
		p.Rotation = Turn(p.Rotation, in.Facing, dt, t)
	}
}

package sim

import "math"

// slerpDotThreshold is where Slerp falls back to a normalised lerp
const slerpDotThreshold = 0.9995

// Rotation is a rotation about the Z axis stored as a unit quaternion restricted to
// the (W, Z) plane. Keeping the half-angle form means the dot product of two
// rotations tells whether interpolating between them takes the short way round.
type Rotation struct {
	W, Z float64
}

// Identity faces +X
var Identity = Rotation{W: 1}

// RotationFromAngle builds a rotation of angle radians counter-clockwise from +X
func RotationFromAngle(angle float64) Rotation {
	return Rotation{W: math.Cos(angle / 2), Z: math.Sin(angle / 2)}
}

// Angle returns the rotation in radians, normalised to (-π, π]
func (r Rotation) Angle() float64 {
	a := 2 * math.Atan2(r.Z, r.W)
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Apply rotates v
func (r Rotation) Apply(v Vec2) Vec2 {
	// cos θ = W² − Z², sin θ = 2WZ for a unit half-angle rotor
	c := r.W*r.W - r.Z*r.Z
	s := 2 * r.W * r.Z
	return Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Direction is the unit vector the rotation points along
func (r Rotation) Direction() Vec2 {
	return r.Apply(UnitX)
}

func (r Rotation) Dot(o Rotation) float64 { return r.W*o.W + r.Z*o.Z }

// Neg returns the same orientation with the opposite quaternion sign
func (r Rotation) Neg() Rotation { return Rotation{W: -r.W, Z: -r.Z} }

func (r Rotation) normalize() Rotation {
	l := math.Hypot(r.W, r.Z)
	if l == 0 {
		return Identity
	}
	return Rotation{W: r.W / l, Z: r.Z / l}
}

// Slerp spherically interpolates from r to o by t. It does not pick the shorter
// arc on its own; callers negate r first when r.Dot(o) < 0.
func (r Rotation) Slerp(o Rotation, t float64) Rotation {
	dot := r.Dot(o)
	if dot > slerpDotThreshold {
		return Rotation{
			W: r.W + (o.W-r.W)*t,
			Z: r.Z + (o.Z-r.Z)*t,
		}.normalize()
	}
	dot = math.Max(-1, math.Min(1, dot))
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	if sinTheta < 1e-9 {
		return o
	}
	s1 := math.Sin(theta*(1-t)) / sinTheta
	s2 := math.Sin(theta*t) / sinTheta
	return Rotation{W: r.W*s1 + o.W*s2, Z: r.Z*s1 + o.Z*s2}
}

package sim

import "math"

// Vec2 is a 2D vector in arena coordinates (origin at the arena centre, +Y up)
type Vec2 struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// UnitX is the rest direction a player faces before any right-stick input
var UnitX = Vec2{X: 1}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// LenSq returns the squared length
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Len returns the length
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns a unit vector in the same direction, or the zero vector for zero input
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp interpolates from v to o by t
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// IsFinite reports whether both components are finite numbers
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// clampLen rescales v to max when it is longer than max
func clampLen(v Vec2, max float64) Vec2 {
	if v.Len() > max {
		return v.Normalize().Scale(max)
	}
	return v
}

package game

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"punchball/sim"
)

// Particle is a single short-lived spark in arena space
type Particle struct {
	pos      sim.Vec2
	vel      sim.Vec2 // units per second
	age      float64  // seconds
	lifetime float64  // seconds
	color    color.NRGBA
	size     float64
}

// IsAlive returns true if the particle is still alive
func (p *Particle) IsAlive() bool {
	return p.age < p.lifetime
}

// Burst describes a one-shot emission
type Burst struct {
	Count       int
	Direction   float64 // radians, arena space
	SpreadAngle float64 // half-angle in radians; Pi emits in every direction
	VelocityMin float64
	VelocityMax float64
	LifetimeMin float64
	LifetimeMax float64
	SizeMin     float64
	SizeMax     float64
	Color       color.NRGBA
}

// hitBurst throws sparks away from the puncher
func hitBurst(dir float64, clr color.RGBA) Burst {
	return Burst{
		Count:       18,
		Direction:   dir,
		SpreadAngle: math.Pi / 5,
		VelocityMin: 150,
		VelocityMax: 320,
		LifetimeMin: 0.15,
		LifetimeMax: 0.35,
		SizeMin:     2,
		SizeMax:     4,
		Color:       color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: 255},
	}
}

// deathBurst is a ring of smoke where a player left the arena
func deathBurst(clr color.RGBA) Burst {
	return Burst{
		Count:       40,
		SpreadAngle: math.Pi,
		VelocityMin: 40,
		VelocityMax: 140,
		LifetimeMin: 0.4,
		LifetimeMax: 0.9,
		SizeMin:     3,
		SizeMax:     7,
		Color:       color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: 200},
	}
}

// Particles owns every live particle
type Particles struct {
	particles    []Particle
	maxParticles int
}

// NewParticles creates a pool capped at max particles
func NewParticles(max int) *Particles {
	return &Particles{
		particles:    make([]Particle, 0, max),
		maxParticles: max,
	}
}

// Emit spawns a burst at pos; particles past the cap are dropped
func (ps *Particles) Emit(pos sim.Vec2, b Burst) {
	for i := 0; i < b.Count && len(ps.particles) < ps.maxParticles; i++ {
		angle := b.Direction + (rand.Float64()*2-1)*b.SpreadAngle
		speed := lerp(b.VelocityMin, b.VelocityMax, rand.Float64())
		ps.particles = append(ps.particles, Particle{
			pos:      pos,
			vel:      sim.RotationFromAngle(angle).Direction().Scale(speed),
			lifetime: lerp(b.LifetimeMin, b.LifetimeMax, rand.Float64()),
			color:    b.Color,
			size:     lerp(b.SizeMin, b.SizeMax, rand.Float64()),
		})
	}
}

// Update ages and moves particles, dropping dead ones
func (ps *Particles) Update(dt time.Duration) {
	secs := dt.Seconds()
	live := ps.particles[:0]
	for _, p := range ps.particles {
		p.age += secs
		p.pos = p.pos.Add(p.vel.Scale(secs))
		if p.IsAlive() {
			live = append(live, p)
		}
	}
	ps.particles = live
}

// Len is the number of live particles
func (ps *Particles) Len() int {
	return len(ps.particles)
}

// Draw renders every particle, fading with age
func (ps *Particles) Draw(screen *ebiten.Image, camera *Camera) {
	for _, p := range ps.particles {
		x, y := camera.WorldToScreen(p.pos)
		fade := max(0, min(1, 1-p.age/p.lifetime))
		c := p.color
		c.A = uint8(float64(c.A) * fade)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(p.size*camera.Zoom), c, true)
	}
}

// Spawn emits effects for the hits and deaths in a frame report
func (ps *Particles) Spawn(world *sim.World, report sim.FrameReport) {
	for _, h := range report.Hits {
		puncher, ok1 := world.Player(h.Puncher)
		victim, ok2 := world.Player(h.Victim)
		if !ok1 || !ok2 {
			continue
		}
		d := victim.Position.Sub(puncher.Position)
		ps.Emit(victim.Position, hitBurst(math.Atan2(d.Y, d.X), PlayerColor(h.Puncher)))
	}
	for _, d := range report.Deaths {
		if victim, ok := world.Player(d.Victim); ok {
			ps.Emit(victim.Position, deathBurst(PlayerColor(d.Victim)))
		}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

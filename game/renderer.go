package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"punchball/sim"
)

// viewExtent is the world distance from the arena centre to the screen edge at zoom 1
const viewExtent = 512.0

// Camera maps arena coordinates (+Y up, origin at the centre) to screen pixels
type Camera struct {
	Zoom   float64
	Width  float64
	Height float64
}

// NewCamera creates a camera for a screen of the given size
func NewCamera(width, height float64) *Camera {
	c := &Camera{}
	c.Resize(width, height)
	return c
}

// Resize fits the arena view to a new screen size
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
	c.Zoom = min(width, height) / (2 * viewExtent)
}

// WorldToScreen converts arena coordinates to screen coordinates
func (c *Camera) WorldToScreen(p sim.Vec2) (float64, float64) {
	return c.Width/2 + p.X*c.Zoom, c.Height/2 - p.Y*c.Zoom
}

// Renderer draws the world
type Renderer struct {
	camera  *Camera
	sprites *Sprites
	face    text.Face
}

// NewRenderer creates a renderer
func NewRenderer(camera *Camera, sprites *Sprites) *Renderer {
	return &Renderer{
		camera:  camera,
		sprites: sprites,
		face:    text.NewGoXFace(basicfont.Face7x13),
	}
}

// Render draws the arena, players, gloves and scoreboard
func (r *Renderer) Render(screen *ebiten.Image, world *sim.World) {
	tn := world.Tuning()
	players := world.Players()

	r.drawCentered(screen, r.sprites.Arena, world.Arena().Center, 2*world.Arena().Radius, 0, nil)

	for _, p := range players {
		if !p.Connected || p.Scale <= 0 {
			continue
		}
		clr := PlayerColor(p.ID)
		r.drawCentered(screen, r.sprites.Body, p.Position, 2*tn.CollisionRadius*p.Scale, p.Rotation.Angle(), clr)
	}
	for _, g := range world.Gloves() {
		p := players[g.Owner]
		if !p.Connected || p.Scale <= 0 {
			continue
		}
		r.drawCentered(screen, r.sprites.Glove, g.Position, tn.CollisionRadius*p.Scale, p.Rotation.Angle(), PlayerColor(p.ID))
	}

	r.drawScores(screen, world)

	if msg, ok := world.Winning(); ok {
		r.drawText(screen, fmt.Sprintf("Player %d wins!", int(msg.Winner)+1), r.camera.Width/2, r.camera.Height/2, 5, color.White)
	}
}

// drawCentered draws img centred on pos, scaled to a world size, rotated counter-clockwise by angle
func (r *Renderer) drawCentered(screen, img *ebiten.Image, pos sim.Vec2, size, angle float64, tint color.Color) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	s := size * r.camera.Zoom / float64(w)
	sx, sy := r.camera.WorldToScreen(pos)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Scale(s, s)
	// screen Y points down, so arena rotations flip sign
	op.GeoM.Rotate(-angle)
	op.GeoM.Translate(sx, sy)
	if tint != nil {
		op.ColorScale.ScaleWithColor(tint)
	}
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// drawScores puts each player's score in its own screen corner
func (r *Renderer) drawScores(screen *ebiten.Image, world *sim.World) {
	margin := 48.0
	corners := [sim.MaxPlayers][2]float64{
		{margin, margin},
		{r.camera.Width - margin, margin},
		{margin, r.camera.Height - margin},
		{r.camera.Width - margin, r.camera.Height - margin},
	}
	for _, pts := range world.Points() {
		p, ok := world.Player(pts.PlayerID)
		if !ok || !p.Connected {
			continue
		}
		c := corners[pts.PlayerID]
		r.drawText(screen, fmt.Sprint(pts.Value), c[0], c[1], 4, PlayerColor(pts.PlayerID))
	}
}

// drawText draws s centred on (x, y) at an integer multiple of the bitmap font size
func (r *Renderer) drawText(screen *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, r.face, op)
}

// RenderDebug draws collision circles, velocity vectors, punch reach and frame stats
func (r *Renderer) RenderDebug(screen *ebiten.Image, world *sim.World, fps float64) {
	tn := world.Tuning()
	zoom := float32(r.camera.Zoom)
	reach := tn.PunchBase + tn.PunchLength

	for _, p := range world.Players() {
		if !p.Connected {
			continue
		}
		x, y := r.camera.WorldToScreen(p.Position)
		clr := color.RGBA{255, 255, 255, 160}
		if p.State == sim.Dead {
			clr = color.RGBA{255, 64, 64, 160}
		}
		vector.StrokeCircle(screen, float32(x), float32(y), float32(tn.CollisionRadius)*zoom, 1, clr, true)

		vx, vy := r.camera.WorldToScreen(p.Position.Add(p.Velocity.Scale(8)))
		vector.StrokeLine(screen, float32(x), float32(y), float32(vx), float32(vy), 2, color.RGBA{0, 255, 0, 200}, true)

		tx, ty := r.camera.WorldToScreen(sim.PunchTip(p.Position, p.Rotation, reach))
		vector.DrawFilledCircle(screen, float32(tx), float32(ty), 3, color.RGBA{255, 200, 0, 200}, true)

		label := fmt.Sprintf("%v %s v=%.1f", p.ID, p.State, p.Velocity.Len())
		if by, ok := p.Recipient(); ok {
			label += fmt.Sprintf(" <- %v %.1fs", by, p.PointTimer.Remaining().Seconds())
		}
		ebitenutil.DebugPrintAt(screen, label, int(x)+int(float32(tn.CollisionRadius)*zoom), int(y))
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  frame: %d  players: %d", fps, world.Frame(), len(world.Players())), 8, 8)
}

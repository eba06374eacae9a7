package sim

import (
	"log/slog"
	"time"
)

// runLifecycle advances respawn countdowns for players that were already dead and
// kills alive players that have left the arena. A player killed this frame starts
// its countdown next frame.
func (w *World) runLifecycle(dt time.Duration, report *FrameReport) {
	for _, p := range w.players {
		if !p.Connected {
			continue
		}
		switch p.State {
		case Dead:
			done := p.RespawnTimer.Tick(dt)
			p.Scale = 1 - p.RespawnTimer.Percent()
			if done {
				w.respawn(p)
				report.Respawns = append(report.Respawns, p.ID)
			}
		case Alive:
			if w.arena.Outside(p.Position) {
				report.Deaths = append(report.Deaths, w.kill(p))
			}
		}
	}
}

// kill marks p dead and consumes its point recipient
func (w *World) kill(p *Player) Death {
	p.State = Dead
	d := Death{Victim: p.ID}
	if by, ok := p.Recipient(); ok {
		d.Recipient = by
		d.Attributed = true
		p.ClearRecipient()
	}
	w.logger.Info("player out of arena",
		slog.String("victim", p.ID.String()),
		slog.Bool("attributed", d.Attributed),
		slog.String("recipient", d.Recipient.String()))
	return d
}

func (w *World) respawn(p *Player) {
	p.Scale = 1
	p.Velocity = Vec2{}
	p.Position = w.tuning.StartingLocations[p.ID]
	p.RespawnTimer.Reset()
	p.State = Alive
	w.logger.Debug("player respawned", slog.String("player", p.ID.String()))
}

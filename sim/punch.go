package sim

import (
	"log/slog"
	"time"
)

// PunchTip is the point a punch thrown from pos facing r reaches
func PunchTip(pos Vec2, r Rotation, reach float64) Vec2 {
	return pos.Add(r.Direction().Scale(reach))
}

// resolvePunches throws a punch for every active attacking player whose cooldown
// has finished. It returns the summed knockback impulse per player slot.
func (w *World) resolvePunches(inputs []Input, report *FrameReport) []Vec2 {
	t := w.tuning
	impulses := make([]Vec2, len(w.players))
	reach := t.PunchBase + t.PunchLength
	hitDist := 2 * t.CollisionRadius

	for i, p := range w.players {
		if !p.Active() || !inputs[i].Attack || !p.PunchTimer.Finished() {
			continue
		}
		p.PunchTimer.Reset()

		tip := PunchTip(p.Position, p.Rotation, reach)
		report.Punches = append(report.Punches, Punch{Puncher: p.ID, Rotation: p.Rotation, Tip: tip})
		dir := p.Rotation.Direction()

		for j, victim := range w.players {
			if i == j || !victim.Active() {
				continue
			}
			if victim.Position.Sub(tip).Len() >= hitDist {
				continue
			}
			victim.SetRecipient(p.ID)
			impulses[j] = impulses[j].Add(dir.Scale(t.PushbackOther * t.MaxVelocity))
			impulses[i] = impulses[i].Add(dir.Scale(-t.PushbackSelf * t.MaxVelocity))
			report.Hits = append(report.Hits, Hit{Puncher: p.ID, Victim: victim.ID})
			w.logger.Debug("punch landed", slog.String("puncher", p.ID.String()), slog.String("victim", victim.ID.String()))
		}
	}
	return impulses
}

// animateGloves ticks punch cooldowns and places each glove between its rest and
// extended offsets according to how recently the owner punched
func (w *World) animateGloves(dt time.Duration) {
	rest, extended := w.tuning.gloveRest(), w.tuning.gloveExtended()
	for i := range w.gloves {
		g := &w.gloves[i]
		p := w.players[g.Owner]
		if !p.Connected {
			continue
		}
		p.PunchTimer.Tick(dt)
		g.Offset = rest.Lerp(extended, p.PunchTimer.PercentLeft())
		g.Position = p.Position.Add(p.Rotation.Apply(g.Offset.Scale(p.Scale)))
	}
}

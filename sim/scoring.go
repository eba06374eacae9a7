package sim

import (
	"log/slog"
	"time"
)

// decayAttribution ages every point timer and forgets expired recipients
func (w *World) decayAttribution(dt time.Duration) {
	for _, p := range w.players {
		if !p.Connected {
			continue
		}
		if p.PointTimer.Tick(dt) {
			p.ClearRecipient()
		}
	}
}

// runScoring awards this frame's attributed deaths, then runs the win state machine
func (w *World) runScoring(dt time.Duration, report *FrameReport) {
	for _, d := range report.Deaths {
		if !d.Attributed {
			continue
		}
		if slot, ok := w.slots[d.Recipient]; ok {
			w.points[slot].Value++
		}
	}

	if w.win != nil {
		if w.win.Timer.Tick(dt) {
			w.win = nil
			w.resetRound()
			report.Reset = true
		}
	}

	if w.win == nil {
		for _, pts := range w.points {
			if pts.Value >= w.tuning.WinPoints {
				w.win = &WinningMessage{Winner: pts.PlayerID, Timer: NewTimer(w.tuning.WinMessageDuration)}
				report.Win = &Win{Winner: pts.PlayerID, Points: pts.Value}
				w.logger.Info("round won", slog.String("winner", pts.PlayerID.String()), slog.Int("points", pts.Value))
				break
			}
		}
	}
}

// resetRound zeroes the scoreboard and puts every player back on its spawn point
func (w *World) resetRound() {
	for i := range w.points {
		w.points[i].Value = 0
	}
	for _, p := range w.players {
		if !p.Connected {
			continue
		}
		p.Position = w.tuning.StartingLocations[p.ID]
		p.Velocity = Vec2{}
	}
	w.logger.Info("round reset")
}

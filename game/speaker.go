package game

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"punchball/sfx"
)

// Speaker plays cues through the ebiten audio context
type Speaker struct {
	ctx    *audio.Context
	bank   *sfx.Bank
	live   []*audio.Player
	logger *slog.Logger
}

// NewSpeaker creates the process-wide audio context; call it at most once
func NewSpeaker(s sfx.Settings, logger *slog.Logger) *Speaker {
	bank := sfx.NewBank(s)
	bank.Preload()
	return &Speaker{
		ctx:    audio.NewContext(bank.SampleRate()),
		bank:   bank,
		logger: logger,
	}
}

// Play starts cue without waiting for earlier sounds to finish
func (s *Speaker) Play(cue sfx.Cue) {
	pcm, err := s.bank.PCM(cue)
	if err != nil {
		s.logger.Warn("play cue", slog.String("cue", cue.String()), slog.Any("error", err))
		return
	}

	// drop finished players
	live := s.live[:0]
	for _, p := range s.live {
		if p.IsPlaying() {
			live = append(live, p)
		}
	}
	s.live = live

	p := s.ctx.NewPlayerF32FromBytes(pcm)
	p.Play()
	s.live = append(s.live, p)
}

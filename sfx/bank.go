package sfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"
)

// ErrUnknownCue is returned for cues outside the known set
var ErrUnknownCue = errors.New("unknown cue")

// Settings controls sound rendering
type Settings struct {
	SampleRate int     `mapstructure:"sample_rate"`
	Volume     float64 `mapstructure:"volume"`
	Muted      bool    `mapstructure:"muted"`
}

// DefaultSettings returns 48 kHz at full volume
func DefaultSettings() Settings {
	return Settings{SampleRate: 48000, Volume: 0.8}
}

// Bank renders each cue once and hands out the PCM bytes
type Bank struct {
	settings Settings

	mu    sync.RWMutex
	store [cueCount][]byte
	ready [cueCount]bool
}

// NewBank creates an empty bank; cues are rendered on first use
func NewBank(s Settings) *Bank {
	return &Bank{settings: s}
}

// SampleRate is the rate the bank renders at
func (b *Bank) SampleRate() int {
	return b.settings.SampleRate
}

// PCM returns the rendered cue as interleaved little-endian float32 stereo
func (b *Bank) PCM(cue Cue) ([]byte, error) {
	if !cue.Valid() {
		return nil, fmt.Errorf("pcm %d: %w", int(cue), ErrUnknownCue)
	}

	b.mu.RLock()
	if b.ready[cue] {
		buf := b.store[cue]
		b.mu.RUnlock()
		return buf, nil
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready[cue] {
		return b.store[cue], nil
	}

	vol := b.settings.Volume
	if b.settings.Muted {
		vol = 0
	}
	buf := Render(gain(Sound(cue, beep.SampleRate(b.settings.SampleRate)), vol))
	b.store[cue] = buf
	b.ready[cue] = true
	return buf, nil
}

// Preload renders every cue up front
func (b *Bank) Preload() {
	for _, c := range Cues() {
		_, _ = b.PCM(c)
	}
}

// Render drains s into interleaved little-endian float32 stereo, clipping to [-1, 1]
func Render(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for _, v := range frame {
				v = math.Max(-1, math.Min(1, v))
				out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(v)))
			}
		}
		if !ok || n == 0 {
			return out
		}
	}
}

package sfx

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOscillatorRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, w := range []Wave{Sine, Square, Saw, Noise} {
		osc := NewOscillator(440, 20*time.Millisecond, w, rate)
		samples := make([][2]float64, 100)
		n, ok := osc.Stream(samples)
		require.True(t, ok)
		require.Equal(t, 100, n)
		for i, s := range samples[:n] {
			assert.GreaterOrEqual(t, s[0], -1.0, "wave %d sample %d", w, i)
			assert.LessOrEqual(t, s[0], 1.0, "wave %d sample %d", w, i)
			assert.Equal(t, s[0], s[1])
		}
		assert.NoError(t, osc.Err())
	}
}

func TestOscillatorEnds(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(100, 50*time.Millisecond, Square, rate)
	samples := make([][2]float64, 80)
	n, ok := osc.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	n, ok = osc.Stream(samples)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestEnvelopeRampsInAndOut(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, time.Second, Square, rate), d, 10*time.Millisecond, 10*time.Millisecond, rate)

	samples := make([][2]float64, 200)
	n, _ := env.Stream(samples)
	require.Equal(t, 100, n)
	assert.Equal(t, 0.0, samples[0][0])
	assert.InDelta(t, 0.5, samples[5][0], 1e-9)
	assert.Equal(t, 1.0, samples[50][0])
	assert.InDelta(t, 0.1, samples[99][0], 1e-9)
}

func TestEveryCueRenders(t *testing.T) {
	const rate = 48000
	for _, c := range Cues() {
		pcm := Render(Sound(c, rate))
		require.NotEmpty(t, pcm, "cue %v", c)
		// stereo float32 frames
		require.Zero(t, len(pcm)%8, "cue %v", c)

		frames := len(pcm) / 8
		assert.Less(t, frames, rate, "cue %v longer than a second", c)

		var peak float64
		for i := 0; i < len(pcm); i += 4 {
			v := float64(math.Float32frombits(binary.LittleEndian.Uint32(pcm[i:])))
			require.LessOrEqual(t, math.Abs(v), 1.0)
			peak = math.Max(peak, math.Abs(v))
		}
		assert.Greater(t, peak, 0.01, "cue %v is silent", c)
	}
}

func TestBankCachesAndRejectsUnknown(t *testing.T) {
	b := NewBank(DefaultSettings())
	first, err := b.PCM(CueHit)
	require.NoError(t, err)
	again, err := b.PCM(CueHit)
	require.NoError(t, err)
	assert.Same(t, &first[0], &again[0])

	_, err = b.PCM(Cue(99))
	require.ErrorIs(t, err, ErrUnknownCue)
}

func TestMutedBankIsSilent(t *testing.T) {
	s := DefaultSettings()
	s.Muted = true
	b := NewBank(s)
	b.Preload()

	pcm, err := b.PCM(CueWin)
	require.NoError(t, err)
	require.NotEmpty(t, pcm)
	for i := 0; i < len(pcm); i += 4 {
		require.Zero(t, math.Float32frombits(binary.LittleEndian.Uint32(pcm[i:])))
	}
}

func TestCueNames(t *testing.T) {
	assert.Equal(t, "punch", CuePunch.String())
	assert.Equal(t, "reset", CueReset.String())
	assert.Equal(t, "unknown", Cue(-1).String())
	assert.Len(t, Cues(), int(cueCount))
}

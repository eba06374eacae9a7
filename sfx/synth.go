package sfx

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape
type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

type oscillator struct {
	freq  float64
	phase float64
	left  int
	wave  Wave
	rate  beep.SampleRate
}

// NewOscillator streams d of a wave at freq Hz, then ends
func NewOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, left: rate.N(d), wave: wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.left <= 0 {
		return 0, false
	}
	n := min(len(samples), o.left)
	for i := range n {
		var v float64
		switch o.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * o.phase)
		case Square:
			if o.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case Saw:
			v = 2 * (o.phase - 0.5)
		case Noise:
			v = rand.Float64()*2 - 1
		}
		samples[i] = [2]float64{v, v}
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
	}
	o.left -= n
	return n, true
}

func (o *oscillator) Err() error { return nil }

// sweep is a sine whose frequency slides linearly from one pitch to another
type sweep struct {
	from, to float64
	phase    float64
	pos      int
	total    int
	rate     beep.SampleRate
}

// NewSweep streams a sine gliding from one frequency to another over d
func NewSweep(from, to float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, total: rate.N(d), rate: rate}
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.total {
		return 0, false
	}
	n := min(len(samples), s.total-s.pos)
	for i := range n {
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i] = [2]float64{v, v}
		f := s.from + (s.to-s.from)*float64(s.pos)/float64(s.total)
		s.phase += f / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return n, true
}

func (s *sweep) Err() error { return nil }

// envelope fades a stream in over attack and out over release
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

// NewEnvelope shapes s with a linear attack and release; s is cut off after d
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{s: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if left := e.total - e.pos; len(samples) > left {
		samples = samples[:left]
	}
	n, ok := e.s.Stream(samples)
	releaseStart := e.total - e.release
	for i := range n {
		g := 1.0
		if e.attack > 0 && e.pos < e.attack {
			g = float64(e.pos) / float64(e.attack)
		}
		if e.release > 0 && e.pos >= releaseStart {
			g = math.Min(g, float64(e.total-e.pos)/float64(e.release))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain scales s by a linear factor; zero or less is silent
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}

func tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// Sound builds a fresh streamer for cue at unity master volume
func Sound(cue Cue, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case CuePunch:
		d := 90 * time.Millisecond
		return gain(NewEnvelope(NewOscillator(0, d, Noise, rate), d, 10*time.Millisecond, 70*time.Millisecond, rate), 0.35)

	case CueHit:
		d := 140 * time.Millisecond
		thump := NewEnvelope(NewSweep(180, 60, d, rate), d, 2*time.Millisecond, 100*time.Millisecond, rate)
		crack := NewEnvelope(NewOscillator(0, 40*time.Millisecond, Noise, rate), 40*time.Millisecond, 0, 30*time.Millisecond, rate)
		return beep.Take(rate.N(d), beep.Mix(gain(thump, 0.8), gain(crack, 0.4)))

	case CueDeath:
		d := 450 * time.Millisecond
		return gain(NewEnvelope(NewSweep(520, 90, d, rate), d, 10*time.Millisecond, 200*time.Millisecond, rate), 0.6)

	case CueWin:
		// C5 E5 G5 C6
		notes := []float64{523.25, 659.25, 783.99, 1046.50}
		seq := make([]beep.Streamer, 0, len(notes))
		for _, f := range notes {
			seq = append(seq, tone(f, 120*time.Millisecond, Square, rate))
		}
		return gain(beep.Seq(seq...), 0.3)

	case CueReset:
		return gain(beep.Seq(
			tone(392.00, 80*time.Millisecond, Sine, rate),
			beep.Silence(rate.N(30*time.Millisecond)),
			tone(523.25, 120*time.Millisecond, Sine, rate),
		), 0.5)
	}
	return nil
}

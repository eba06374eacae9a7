package sim

import "time"

// Timer is a one-shot countdown driven by frame deltas. Elapsed only grows and is
// capped at Duration, so Remaining never goes negative.
type Timer struct {
	Duration time.Duration
	Elapsed  time.Duration
}

// NewTimer returns a timer at the start of its countdown
func NewTimer(d time.Duration) Timer {
	return Timer{Duration: d}
}

// FinishedTimer returns a timer that has already run out
func FinishedTimer(d time.Duration) Timer {
	return Timer{Duration: d, Elapsed: d}
}

// Tick advances the timer by dt and reports whether it is finished afterwards
func (t *Timer) Tick(dt time.Duration) bool {
	if dt > 0 {
		t.Elapsed += dt
		if t.Elapsed > t.Duration {
			t.Elapsed = t.Duration
		}
	}
	return t.Finished()
}

// Finished reports whether the full duration has elapsed
func (t Timer) Finished() bool {
	return t.Elapsed >= t.Duration
}

// Reset restarts the countdown
func (t *Timer) Reset() {
	t.Elapsed = 0
}

// Remaining is the time left before the timer finishes
func (t Timer) Remaining() time.Duration {
	return t.Duration - t.Elapsed
}

// Percent is the elapsed fraction in [0, 1]
func (t Timer) Percent() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return float64(t.Elapsed) / float64(t.Duration)
}

// PercentLeft is 1 - Percent
func (t Timer) PercentLeft() float64 {
	return 1 - t.Percent()
}

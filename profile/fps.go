package profile

import "time"

// FPSMeter averages frames per second over a fixed window
type FPSMeter struct {
	Window time.Duration

	frames  int
	elapsed time.Duration
	fps     float64
}

// NewFPSMeter creates a meter that reports every window
func NewFPSMeter(window time.Duration) *FPSMeter {
	return &FPSMeter{Window: window}
}

// Tick records one frame of length dt and reports whether a new average is ready
func (m *FPSMeter) Tick(dt time.Duration) bool {
	m.frames++
	m.elapsed += dt
	if m.elapsed < m.Window {
		return false
	}
	if m.elapsed > 0 {
		m.fps = float64(m.frames) / m.elapsed.Seconds()
	}
	m.frames = 0
	m.elapsed = 0
	return true
}

// FPS is the last completed average
func (m *FPSMeter) FPS() float64 {
	return m.fps
}

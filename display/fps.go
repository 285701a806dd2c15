package display

import "time"

// DefaultFPSWindow is the number of frame intervals averaged by Rate.
const DefaultFPSWindow = 60

// FPSMeter measures the achieved frame rate over a sliding window.
// It is diagnostic only.
type FPSMeter struct {
	now     func() time.Time
	samples []time.Duration
	next    int
	n       int
	total   time.Duration
}

// NewFPSMeter creates a meter averaging the last window samples. A
// non-positive window selects DefaultFPSWindow; a nil clock selects
// time.Now.
func NewFPSMeter(window int, now func() time.Time) *FPSMeter {
	if window <= 0 {
		window = DefaultFPSWindow
	}
	if now == nil {
		now = time.Now
	}
	return &FPSMeter{
		now:     now,
		samples: make([]time.Duration, window),
	}
}

// StartRender starts timing a frame.
func (m *FPSMeter) StartRender() *FrameTimer {
	return &FrameTimer{m: m, start: m.now()}
}

// Rate returns frames per second over the window, or 0 without samples.
func (m *FPSMeter) Rate() float64 {
	if m.n == 0 || m.total <= 0 {
		return 0
	}
	return float64(m.n) / m.total.Seconds()
}

// Samples returns the number of samples in the window.
func (m *FPSMeter) Samples() int {
	return m.n
}

func (m *FPSMeter) record(d time.Duration) {
	if m.n == len(m.samples) {
		m.total -= m.samples[m.next]
	} else {
		m.n++
	}
	m.samples[m.next] = d
	m.total += d
	m.next = (m.next + 1) % len(m.samples)
}

// FrameTimer times one frame.
type FrameTimer struct {
	m       *FPSMeter
	start   time.Time
	stopped bool
}

// Stop records the time since StartRender. Later calls do nothing.
func (t *FrameTimer) Stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	t.m.record(t.m.now().Sub(t.start))
}

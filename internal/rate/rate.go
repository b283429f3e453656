// Package rate tracks a moving average of recent event durations with
// a fixed-size ring buffer, the same approach an FPS meter uses for
// frame pacing - here it tracks generator placements instead of
// frames.
package rate

import (
	"math"
	"time"
)

// DefaultWindow is the number of recent samples averaged over when a
// Meter is constructed with New(0).
const DefaultWindow = 50

// Meter is a ring buffer of recent event durations.
type Meter struct {
	samples []float64
	head    int
}

// New returns a Meter averaging over the last window samples,
// defaulting to DefaultWindow when window <= 0.
func New(window int) *Meter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Meter{samples: make([]float64, window)}
}

// Reset clears every recorded sample.
func (m *Meter) Reset() {
	for i := range m.samples {
		m.samples[i] = 0
	}
	m.head = 0
}

// Record logs one event's duration.
func (m *Meter) Record(d time.Duration) {
	m.samples[m.head%len(m.samples)] = d.Seconds()
	m.head++
}

func (m *Meter) meanSeconds() float64 {
	var sum float64
	for _, s := range m.samples {
		sum += s
	}
	n := len(m.samples)
	if m.head < n {
		n = m.head
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// PerSecond returns the average event rate over the current window,
// 0 if nothing has been recorded yet.
func (m *Meter) PerSecond() float64 {
	mean := m.meanSeconds()
	if mean <= 0 {
		return 0
	}
	rate := 1.0 / mean
	if math.IsInf(rate, 0) || math.IsNaN(rate) {
		return 0
	}
	return rate
}

// MeanMillis returns the average event duration in milliseconds over
// the current window.
func (m *Meter) MeanMillis() float64 {
	return m.meanSeconds() * 1000
}

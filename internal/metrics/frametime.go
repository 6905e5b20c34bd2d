package metrics

import (
	"time"

	"github.com/san-kum/slopefield/internal/sim"
)

// FrameTime is an exponential moving average of frame compute time in
// milliseconds.
type FrameTime struct {
	name  string
	alpha float64
	ema   float64
	seen  bool
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_ms", alpha: 0.1}
}

func (m *FrameTime) Name() string { return m.name }

func (m *FrameTime) Observe(f *sim.Frame) {
	ms := float64(f.Elapsed) / float64(time.Millisecond)
	if !m.seen {
		m.ema, m.seen = ms, true
		return
	}
	m.ema += m.alpha * (ms - m.ema)
}

func (m *FrameTime) Value() float64 { return m.ema }

func (m *FrameTime) Reset() {
	m.ema = 0
	m.seen = false
}

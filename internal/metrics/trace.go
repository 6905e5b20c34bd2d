package metrics

import (
	"github.com/san-kum/slopefield/internal/sim"
)

// TraceSteps is the mean number of segments per traced frame.
type TraceSteps struct {
	name     string
	segments int
	frames   int
	last     int
}

func NewTraceSteps() *TraceSteps {
	return &TraceSteps{name: "trace_steps"}
}

func (t *TraceSteps) Name() string { return t.name }

func (t *TraceSteps) Observe(f *sim.Frame) {
	if f.Trace == nil {
		return
	}
	t.last = len(f.Trace.Segments)
	t.segments += t.last
	t.frames++
}

func (t *TraceSteps) Value() float64 {
	if t.frames == 0 {
		return 0
	}
	return float64(t.segments) / float64(t.frames)
}

// Last is the segment count of the most recent trace.
func (t *TraceSteps) Last() int { return t.last }

func (t *TraceSteps) Reset() {
	t.segments = 0
	t.frames = 0
	t.last = 0
}

// CapHits counts traces that were stopped by the step cap instead of leaving
// the domain or failing.
type CapHits struct {
	name string
	hits int
}

func NewCapHits() *CapHits {
	return &CapHits{name: "cap_hits"}
}

func (c *CapHits) Name() string { return c.name }

func (c *CapHits) Observe(f *sim.Frame) {
	if f.Trace != nil && f.Trace.Capped() {
		c.hits++
	}
}

func (c *CapHits) Value() float64 { return float64(c.hits) }

func (c *CapHits) Reset() { c.hits = 0 }

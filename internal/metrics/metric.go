// Package metrics accumulates per-frame statistics from the frame driver.
package metrics

import (
	"sort"

	"github.com/san-kum/slopefield/internal/sim"
)

// Metric is a running statistic over frames.
type Metric interface {
	Name() string
	Observe(f *sim.Frame)
	Value() float64
	Reset()
}

// Set fans frames out to a group of metrics. It satisfies sim.Observer.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default returns the metrics shown by the interactive surfaces.
func Default() *Set {
	return NewSet(NewGaps(), NewTraceSteps(), NewCapHits(), NewFrameTime())
}

func (s *Set) OnFrame(f *sim.Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Get(name string) (Metric, bool) {
	for _, m := range s.metrics {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Values returns the current value of every metric keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns metric names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

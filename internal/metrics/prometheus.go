package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/slopefield/internal/sim"
)

// Prometheus exports frame statistics as Prometheus collectors. It
// satisfies sim.Observer.
type Prometheus struct {
	Frames       prometheus.Counter
	Skipped      prometheus.Gauge
	TraceSteps   prometheus.Histogram
	Capped       prometheus.Counter
	FrameSeconds prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slopefield_frames_total",
			Help: "Total number of computed frames",
		}),
		Skipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "slopefield_skipped_samples",
			Help: "Grid points of the latest frame whose slope could not be evaluated",
		}),
		TraceSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "slopefield_trace_segments",
			Help:    "Segments per traced curve",
			Buckets: prometheus.ExponentialBuckets(16, 2, 10),
		}),
		Capped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slopefield_trace_capped_total",
			Help: "Traces stopped by the iteration cap",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "slopefield_frame_seconds",
			Help:    "Time to compute one frame",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(p.Frames, p.Skipped, p.TraceSteps, p.Capped, p.FrameSeconds)
	return p
}

func (p *Prometheus) OnFrame(f *sim.Frame) {
	p.Frames.Inc()
	skipped := 0
	for _, s := range f.Samples {
		if !s.OK() {
			skipped++
		}
	}
	p.Skipped.Set(float64(skipped))
	p.FrameSeconds.Observe(f.Elapsed.Seconds())
	if f.Trace != nil {
		p.TraceSteps.Observe(float64(len(f.Trace.Segments)))
		if f.Trace.Capped() {
			p.Capped.Inc()
		}
	}
}

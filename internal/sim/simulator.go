package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/logging"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/trace"
)

type Simulator struct {
	store     *config.Store
	surface   screen.Surface
	tracer    *trace.Tracer
	workers   int
	observers []Observer
	logger    *slog.Logger

	// samples depend only on the domain, so they are reused until a reload
	// publishes a new snapshot
	cachedFor *config.Domain
	samples   []dynamo.SamplePoint
	ticks     []dynamo.Segment
}

type Option func(*Simulator)

// WithWorkers samples the field on n goroutines. The default of 1 keeps
// everything on the calling goroutine.
func WithWorkers(n int) Option { return func(s *Simulator) { s.workers = n } }

func WithLogger(l *slog.Logger) Option { return func(s *Simulator) { s.logger = l } }

func WithTracer(t *trace.Tracer) Option { return func(s *Simulator) { s.tracer = t } }

func New(store *config.Store, surface screen.Surface, opts ...Option) *Simulator {
	s := &Simulator{
		store:   store,
		surface: surface,
		tracer:  trace.New(nil),
		workers: 1,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Store() *config.Store    { return s.store }
func (s *Simulator) Surface() screen.Surface { return s.surface }

// Resize changes the display surface. Cached ticks are dropped.
func (s *Simulator) Resize(surface screen.Surface) {
	if surface != s.surface {
		s.surface = surface
		s.cachedFor = nil
	}
}

// Tick computes one frame. pointer is in display space and ignored when ok
// is false.
func (s *Simulator) Tick(pointer dynamo.Point, ok bool) (*Frame, error) {
	start := time.Now()
	d := s.store.Snapshot()

	if err := s.refreshField(d); err != nil {
		return nil, err
	}

	f := &Frame{Domain: d, Samples: s.samples, Ticks: s.ticks}

	if ok {
		seed, err := s.surface.ToDomain(pointer, d)
		if err != nil {
			return nil, err
		}
		f.HasSeed, f.Seed = true, seed
		f.Trace = s.tracer.Trace(seed, d)
		f.Curve = make([]dynamo.Segment, 0, len(f.Trace.Segments))
		for _, seg := range f.Trace.Segments {
			disp, err := s.surface.Segment(seg, d)
			if err != nil {
				return nil, err
			}
			f.Curve = append(f.Curve, disp)
		}
		if f.Trace.Capped() {
			s.logger.Debug("trace capped", "seed", seed.String(), "iterations", f.Trace.Iterations)
		}
	}

	f.Elapsed = time.Since(start)
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f, nil
}

func (s *Simulator) refreshField(d *config.Domain) error {
	if d == s.cachedFor {
		return nil
	}

	var samples []dynamo.SamplePoint
	if s.workers > 1 {
		samples = field.SampleParallel(d, s.workers)
	} else {
		samples = field.Sample(d)
	}
	ticks, err := field.Ticks(samples, d, s.surface)
	if err != nil {
		return fmt.Errorf("ticks: %w", err)
	}

	if st := field.Summarize(samples); st.Skipped > 0 {
		s.logger.Debug("field has gaps", "eq", d.Equation.String(), "skipped", st.Skipped, "total", st.Total)
	}

	s.cachedFor, s.samples, s.ticks = d, samples, ticks
	return nil
}

// Step polls src, computes a frame and renders it to sink.
func (s *Simulator) Step(src PointerSource, sink RenderSink) (*Frame, error) {
	var (
		p  dynamo.Point
		ok bool
	)
	if src != nil {
		p, ok = src.Pointer()
	}
	f, err := s.Tick(p, ok)
	if err != nil {
		return nil, err
	}
	return f, Render(sink, f)
}

// Render draws a frame: ticks first, then the curve on top.
func Render(sink RenderSink, f *Frame) error {
	sink.Clear()
	sink.Draw(f.Ticks)
	if len(f.Curve) > 0 {
		sink.Draw(f.Curve)
	}
	return sink.Present()
}

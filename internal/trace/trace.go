// Package trace follows a solution curve of dy/dt = f(t, y) from a seed in
// both directions with explicit Euler steps, clipped to the domain.
//
// Two cursors start at the seed. Each iteration advances every live cursor
// by one step: the left cursor with -dt, the right one with +dt. A cursor
// stops for good when it leaves the domain, when f cannot be evaluated at its
// position, or when its position stops being finite. The trace ends when both
// cursors have stopped or Domain.StepCap iterations have run, whichever comes
// first. The cap only matters for steps that fail to move t in floating point.
package trace

import (
	"fmt"
	"iter"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/integrators"
)

type Halt int

const (
	Running Halt = iota
	OutOfBounds
	EvalFailed
	NonFinite
	Capped
)

func (h Halt) String() string {
	switch h {
	case Running:
		return "running"
	case OutOfBounds:
		return "out of bounds"
	case EvalFailed:
		return "eval failed"
	case NonFinite:
		return "non-finite"
	case Capped:
		return "capped"
	default:
		return fmt.Sprintf("halt(%d)", int(h))
	}
}

// Cursor is one trace front.
type Cursor struct {
	Pos   dynamo.Point
	Steps int
	Halt  Halt
	Err   error
}

func (c *Cursor) Live() bool { return c.Halt == Running }

// Result is a completed trace in domain space.
type Result struct {
	Seed        dynamo.Point
	Left, Right Cursor
	Segments    []dynamo.Segment
	Iterations  int
}

func (r *Result) Capped() bool {
	return r.Left.Halt == Capped || r.Right.Halt == Capped
}

// Branch returns the segments of one direction in stepping order.
func (r *Result) Branch(kind dynamo.SegmentKind) []dynamo.Segment {
	var out []dynamo.Segment
	for _, s := range r.Segments {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

type Tracer struct {
	integ dynamo.Integrator
}

// New returns a Tracer stepping with integ, or with Euler when integ is nil.
func New(integ dynamo.Integrator) *Tracer {
	if integ == nil {
		integ = integrators.NewEuler()
	}
	return &Tracer{integ: integ}
}

var defaultTracer = New(nil)

// Trace runs a full trace from seed with the Euler tracer.
func Trace(seed dynamo.Point, d *config.Domain) *Result {
	return defaultTracer.Trace(seed, d)
}

// Steps is the lazy form of Trace with the Euler tracer.
func Steps(seed dynamo.Point, d *config.Domain) iter.Seq[dynamo.Segment] {
	return defaultTracer.Steps(seed, d)
}

func (tr *Tracer) Trace(seed dynamo.Point, d *config.Domain) *Result {
	res := &Result{Seed: seed, Segments: make([]dynamo.Segment, 0, 64)}
	tr.run(seed, d, res, func(s dynamo.Segment) bool {
		res.Segments = append(res.Segments, s)
		return true
	})
	return res
}

// Steps yields trace segments as they are produced. Each call starts over
// from seed; stopping the iteration early is allowed.
func (tr *Tracer) Steps(seed dynamo.Point, d *config.Domain) iter.Seq[dynamo.Segment] {
	return func(yield func(dynamo.Segment) bool) {
		tr.run(seed, d, &Result{Seed: seed}, yield)
	}
}

func (tr *Tracer) run(seed dynamo.Point, d *config.Domain, res *Result, yield func(dynamo.Segment) bool) {
	res.Left = start(seed, d)
	res.Right = start(seed, d)

	limit := d.StepCap()
	for res.Left.Live() || res.Right.Live() {
		if res.Iterations >= limit {
			for _, c := range []*Cursor{&res.Left, &res.Right} {
				if c.Live() {
					c.Halt = Capped
				}
			}
			return
		}
		res.Iterations++

		if res.Left.Live() {
			if seg, ok := tr.advance(&res.Left, d, -d.Dt, dynamo.KindLeft, dynamo.LeftStroke); ok && !yield(seg) {
				return
			}
		}
		if res.Right.Live() {
			if seg, ok := tr.advance(&res.Right, d, d.Dt, dynamo.KindRight, dynamo.RightStroke); ok && !yield(seg) {
				return
			}
		}
	}
}

func start(seed dynamo.Point, d *config.Domain) Cursor {
	c := Cursor{Pos: seed}
	switch {
	case !seed.IsValid():
		c.Halt, c.Err = NonFinite, dynamo.ErrNonFinite
	case !d.Contains(seed):
		c.Halt = OutOfBounds
	}
	return c
}

func (tr *Tracer) advance(c *Cursor, d *config.Domain, dt float64, kind dynamo.SegmentKind, stroke dynamo.Stroke) (dynamo.Segment, bool) {
	next, err := tr.integ.Step(d.Equation, c.Pos, dt)
	if err != nil {
		c.Halt = EvalFailed
		c.Err = &dynamo.StepError{Step: c.Steps, At: c.Pos, Wrapped: err}
		return dynamo.Segment{}, false
	}
	if !next.IsValid() {
		c.Halt = NonFinite
		c.Err = &dynamo.StepError{Step: c.Steps, At: c.Pos, Wrapped: dynamo.ErrNonFinite}
		return dynamo.Segment{}, false
	}

	seg := dynamo.Segment{A: c.Pos, B: next, Stroke: stroke, Kind: kind}
	c.Pos = next
	c.Steps++
	if !d.Contains(next) {
		c.Halt = OutOfBounds
	}
	return seg, true
}

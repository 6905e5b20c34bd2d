package trace_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/expr"
	"github.com/san-kum/slopefield/internal/trace"
)

func domainFor(eq string, mod func(*config.Spec)) *config.Domain {
	s := config.DefaultSpec()
	s.Equation = eq
	if mod != nil {
		mod(&s)
	}
	d, err := config.New(s)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Trace", func() {
	Context("with a constant zero slope", func() {
		It("draws only horizontal segments out to both t bounds", func() {
			d := domainFor("0", nil)
			res := trace.Trace(dynamo.Point{X: 1, Y: 2}, d)

			Expect(res.Segments).NotTo(BeEmpty())
			for _, s := range res.Segments {
				Expect(s.A.Y).To(Equal(s.B.Y))
			}
			Expect(res.Left.Halt).To(Equal(trace.OutOfBounds))
			Expect(res.Right.Halt).To(Equal(trace.OutOfBounds))
			Expect(res.Left.Pos.X).To(BeNumerically("<", d.TMin))
			Expect(res.Right.Pos.X).To(BeNumerically(">", d.TMax))
		})
	})

	Context("with dy/dt = t from (0, 5)", func() {
		It("follows y = 5 + t^2/2 within O(dt)", func() {
			d := domainFor("t", nil)
			res := trace.Trace(dynamo.Point{X: 0, Y: 5}, d)

			for _, kind := range []dynamo.SegmentKind{dynamo.KindRight, dynamo.KindLeft} {
				branch := res.Branch(kind)
				Expect(branch).NotTo(BeEmpty())
				for _, s := range branch {
					t := s.B.X
					Expect(math.Abs(s.B.Y - (5 + t*t/2))).To(BeNumerically("<=", d.Dt*math.Abs(t)+1e-9))
				}
			}
		})

		It("stops the right cursor once y leaves the domain", func() {
			d := domainFor("t", nil)
			res := trace.Trace(dynamo.Point{X: 0, Y: 5}, d)

			Expect(res.Right.Halt).To(Equal(trace.OutOfBounds))
			Expect(res.Right.Pos.Y).To(BeNumerically(">", d.YMax))
			Expect(res.Right.Pos.X).To(BeNumerically("~", math.Sqrt(10), 0.05))
		})

		It("keeps going past y bounds when only t is clipped", func() {
			d := domainFor("t", func(s *config.Spec) { s.Bounds = "time" })
			res := trace.Trace(dynamo.Point{X: 0, Y: 5}, d)

			Expect(res.Right.Halt).To(Equal(trace.OutOfBounds))
			Expect(res.Right.Pos.X).To(BeNumerically(">", d.TMax))
			Expect(res.Right.Pos.Y).To(BeNumerically(">", 50))
		})
	})

	Context("with a pole inside the domain", func() {
		It("terminates when a cursor runs into the singularity", func() {
			d := domainFor("1/ (t-5)", nil)
			res := trace.Trace(dynamo.Point{X: 0, Y: 0}, d)

			Expect(res.Left.Live()).To(BeFalse())
			Expect(res.Right.Live()).To(BeFalse())
			Expect(res.Iterations).To(BeNumerically("<=", d.StepCap()))
			Expect(res.Capped()).To(BeFalse())
		})

		It("halts only the cursor whose slope cannot be evaluated", func() {
			d := domainFor("1/(t-5)", func(s *config.Spec) { s.Bounds = "time" })
			res := trace.Trace(dynamo.Point{X: 5, Y: 0}, d)

			Expect(res.Segments).To(BeEmpty())
			Expect(res.Left.Halt).To(Equal(trace.EvalFailed))
			Expect(res.Left.Err).To(MatchError(expr.ErrDomain))
			Expect(res.Right.Halt).To(Equal(trace.EvalFailed))
		})

		It("lets the other cursor finish", func() {
			d := domainFor("1/(t-5)", func(s *config.Spec) { s.Bounds = "time"; s.Dt = 0.5 })
			res := trace.Trace(dynamo.Point{X: 4, Y: 0}, d)

			// right: 4 -> 4.5 -> 5, then f(5) fails
			Expect(res.Right.Halt).To(Equal(trace.EvalFailed))
			Expect(res.Right.Steps).To(Equal(2))
			Expect(res.Left.Halt).To(Equal(trace.OutOfBounds))
			Expect(res.Left.Pos.X).To(BeNumerically("<", d.TMin))
		})
	})

	Context("with a seed outside the domain", func() {
		It("emits nothing", func() {
			d := domainFor("t*y", nil)
			res := trace.Trace(dynamo.Point{X: 0, Y: 50}, d)

			Expect(res.Segments).To(BeEmpty())
			Expect(res.Iterations).To(BeZero())
			Expect(res.Left.Halt).To(Equal(trace.OutOfBounds))
		})

		It("rejects a non-finite seed", func() {
			d := domainFor("t*y", nil)
			res := trace.Trace(dynamo.Point{X: math.NaN(), Y: 0}, d)

			Expect(res.Segments).To(BeEmpty())
			Expect(res.Left.Halt).To(Equal(trace.NonFinite))
		})
	})

	Context("with the iteration cap", func() {
		It("stops at MaxSteps iterations", func() {
			d := domainFor("0", func(s *config.Spec) { s.MaxSteps = 10 })
			res := trace.Trace(dynamo.Point{X: 0, Y: 0}, d)

			Expect(res.Iterations).To(Equal(10))
			Expect(res.Segments).To(HaveLen(20))
			Expect(res.Capped()).To(BeTrue())
		})

		It("stops when steps no longer move t", func() {
			// at 1e16 the spacing between doubles is 2, so t +- 0.5 rounds back
			d := domainFor("0", func(s *config.Spec) {
				s.TMin, s.TMax, s.Dt = 1e16, 1e16+4, 0.5
			})
			res := trace.Trace(dynamo.Point{X: 1e16 + 2, Y: 0}, d)

			Expect(res.Capped()).To(BeTrue())
			Expect(res.Iterations).To(Equal(d.StepCap()))
		})
	})

	It("bounds the number of segments by the domain width", func() {
		d := domainFor("sin(t)*sin(y)", nil)
		res := trace.Trace(dynamo.Point{X: 1, Y: 1}, d)

		limit := 2*int(math.Ceil((d.TMax-d.TMin)/d.Dt)) + 2
		Expect(len(res.Segments)).To(BeNumerically("<=", limit))
		Expect(res.Capped()).To(BeFalse())
	})

	It("tags the branches with distinct strokes", func() {
		d := domainFor("y", nil)
		res := trace.Trace(dynamo.Point{X: 0, Y: 1}, d)

		for _, s := range res.Branch(dynamo.KindLeft) {
			Expect(s.Stroke).To(Equal(dynamo.LeftStroke))
			Expect(s.B.X).To(BeNumerically("<", s.A.X))
		}
		for _, s := range res.Branch(dynamo.KindRight) {
			Expect(s.Stroke).To(Equal(dynamo.RightStroke))
			Expect(s.B.X).To(BeNumerically(">", s.A.X))
		}
		Expect(dynamo.LeftStroke.Width).NotTo(Equal(dynamo.RightStroke.Width))
	})
})

var _ = Describe("Steps", func() {
	It("yields the same segments as Trace", func() {
		d := domainFor("t - y", nil)
		seed := dynamo.Point{X: -2, Y: 3}

		var lazy []dynamo.Segment
		for s := range trace.Steps(seed, d) {
			lazy = append(lazy, s)
		}
		Expect(lazy).To(Equal(trace.Trace(seed, d).Segments))
	})

	It("alternates left and right and can stop early", func() {
		d := domainFor("0", nil)

		var kinds []dynamo.SegmentKind
		for s := range trace.Steps(dynamo.Point{}, d) {
			kinds = append(kinds, s.Kind)
			if len(kinds) == 3 {
				break
			}
		}
		Expect(kinds).To(Equal([]dynamo.SegmentKind{dynamo.KindLeft, dynamo.KindRight, dynamo.KindLeft}))
	})

	It("restarts from the seed on every call", func() {
		d := domainFor("y", nil)
		seq := trace.Steps(dynamo.Point{X: 0, Y: 1}, d)

		first := func() dynamo.Segment {
			for s := range seq {
				return s
			}
			return dynamo.Segment{}
		}
		Expect(first()).To(Equal(first()))
	})
})

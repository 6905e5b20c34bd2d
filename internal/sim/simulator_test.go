package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/screen"
)

type recordingSink struct {
	clears, presents int
	batches          [][]dynamo.Segment
	err              error
}

func (r *recordingSink) Clear()                     { r.clears++ }
func (r *recordingSink) Draw(segs []dynamo.Segment) { r.batches = append(r.batches, segs) }
func (r *recordingSink) Present() error             { r.presents++; return r.err }

type countingObserver struct{ frames int }

func (c *countingObserver) OnFrame(*Frame) { c.frames++ }

func newStore(t *testing.T, eq string) *config.Store {
	t.Helper()
	s := config.DefaultSpec()
	s.Equation = eq
	d, err := config.New(s)
	if err != nil {
		t.Fatal(err)
	}
	return config.NewStore(d, nil)
}

func TestTickWithoutPointer(t *testing.T) {
	s := New(newStore(t, "t*y"), screen.Nominal)

	f, err := s.Tick(dynamo.Point{}, false)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if f.HasSeed || f.Trace != nil || len(f.Curve) != 0 {
		t.Error("expected no trace without a pointer")
	}
	if len(f.Samples) != 41*33 {
		t.Errorf("expected %d samples, got %d", 41*33, len(f.Samples))
	}
	if len(f.Ticks) != len(f.Samples) {
		t.Errorf("expected one tick per sample, got %d", len(f.Ticks))
	}
}

func TestTickSeedsFromPointer(t *testing.T) {
	s := New(newStore(t, "0"), screen.Nominal)

	// display center is domain origin
	f, err := s.Tick(dynamo.Point{X: 400, Y: 300}, true)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if !f.HasSeed || f.Seed != (dynamo.Point{}) {
		t.Fatalf("seed = %v (has=%v), want origin", f.Seed, f.HasSeed)
	}
	if len(f.Curve) != len(f.Trace.Segments) || len(f.Curve) == 0 {
		t.Fatalf("curve has %d segments, trace %d", len(f.Curve), len(f.Trace.Segments))
	}
	for _, seg := range f.Curve {
		if seg.A.Y != 300 || seg.B.Y != 300 {
			t.Fatalf("zero slope curve left the center line: %v -> %v", seg.A, seg.B)
		}
	}
}

func TestStepRendersTicksThenCurve(t *testing.T) {
	s := New(newStore(t, "y"), screen.Nominal)
	obs := &countingObserver{}
	s.AddObserver(obs)
	sink := &recordingSink{}

	src := PointerFunc(func() (dynamo.Point, bool) { return dynamo.Point{X: 400, Y: 250}, true })
	f, err := s.Step(src, sink)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if sink.clears != 1 || sink.presents != 1 {
		t.Errorf("clear/present = %d/%d, want 1/1", sink.clears, sink.presents)
	}
	if len(sink.batches) != 2 {
		t.Fatalf("expected 2 draw batches, got %d", len(sink.batches))
	}
	if sink.batches[0][0].Kind != dynamo.KindTick {
		t.Error("first batch should be ticks")
	}
	if len(sink.batches[1]) != len(f.Curve) {
		t.Error("second batch should be the curve")
	}
	if obs.frames != 1 {
		t.Errorf("observer saw %d frames, want 1", obs.frames)
	}
	if got := len(f.Segments()); got != len(f.Ticks)+len(f.Curve) {
		t.Errorf("Segments() = %d, want %d", got, len(f.Ticks)+len(f.Curve))
	}
}

func TestStepReportsSinkError(t *testing.T) {
	s := New(newStore(t, "y"), screen.Nominal)
	boom := errors.New("present failed")

	_, err := s.Step(nil, &recordingSink{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected sink error, got %v", err)
	}
}

func TestReloadVisibleOnNextFrame(t *testing.T) {
	store := newStore(t, "0")
	s := New(store, screen.Nominal)

	f1, err := s.Tick(dynamo.Point{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Reload("t*y", config.Overrides{}); err != nil {
		t.Fatal(err)
	}
	if f1.Domain.Equation.String() != "0" {
		t.Error("earlier frame must keep its snapshot")
	}

	f2, err := s.Tick(dynamo.Point{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if f2.Domain.Equation.String() != "t*y" {
		t.Errorf("expected reloaded equation, got %s", f2.Domain.Equation)
	}
	if f2.Samples[len(f2.Samples)-1].Slope != 100 {
		t.Errorf("expected slope 100 at (10,10), got %v", f2.Samples[len(f2.Samples)-1].Slope)
	}
}

func TestFailedReloadKeepsDrawing(t *testing.T) {
	store := newStore(t, "t")
	s := New(store, screen.Nominal)

	if err := store.Reload("t +", config.Overrides{}); err == nil {
		t.Fatal("expected parse error")
	}
	f, err := s.Tick(dynamo.Point{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if f.Domain.Equation.String() != "t" {
		t.Errorf("expected last good equation, got %s", f.Domain.Equation)
	}
}

func TestParallelWorkersMatch(t *testing.T) {
	store := newStore(t, "sin(t)*sin(y)")
	seq, err := New(store, screen.Nominal).Tick(dynamo.Point{}, false)
	if err != nil {
		t.Fatal(err)
	}
	par, err := New(store, screen.Nominal, WithWorkers(4)).Tick(dynamo.Point{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Ticks) != len(par.Ticks) {
		t.Fatalf("tick count differs: %d vs %d", len(seq.Ticks), len(par.Ticks))
	}
	for i := range seq.Ticks {
		if seq.Ticks[i] != par.Ticks[i] {
			t.Fatalf("tick %d differs", i)
		}
	}
}

func TestResizeRecomputesTicks(t *testing.T) {
	s := New(newStore(t, "0"), screen.Nominal)
	f1, _ := s.Tick(dynamo.Point{}, false)

	s.Resize(screen.Surface{W: 160, H: 96})
	f2, _ := s.Tick(dynamo.Point{}, false)

	if f1.Ticks[0] == f2.Ticks[0] {
		t.Error("ticks should be remapped after resize")
	}
	if st := field.Summarize(f2.Samples); st.Total != len(f1.Samples) {
		t.Errorf("sample count changed on resize: %d", st.Total)
	}
}

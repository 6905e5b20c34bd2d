package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/slopefield/internal/dynamo"
)

func TestEulerForwardBackward(t *testing.T) {
	f := dynamo.SlopeFunc(func(t, y float64) (float64, error) { return 2, nil })
	integ := NewEuler()

	fwd, err := integ.Step(f, dynamo.Point{X: 1, Y: 1}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if fwd != (dynamo.Point{X: 1.5, Y: 2}) {
		t.Errorf("forward step = %v, want (1.5, 2)", fwd)
	}

	back, err := integ.Step(f, dynamo.Point{X: 1, Y: 1}, -0.5)
	if err != nil {
		t.Fatal(err)
	}
	if back != (dynamo.Point{X: 0.5, Y: 0}) {
		t.Errorf("backward step = %v, want (0.5, 0)", back)
	}
}

func TestEulerAccuracy(t *testing.T) {
	// dy/dt = -y, y(0) = 1
	f := dynamo.SlopeFunc(func(t, y float64) (float64, error) { return -y, nil })
	integ := NewEuler()

	dt := 0.001
	p := dynamo.Point{X: 0, Y: 1}
	for i := 0; i < 1000; i++ {
		var err error
		if p, err = integ.Step(f, p, dt); err != nil {
			t.Fatal(err)
		}
	}

	expected := math.Exp(-1)
	if math.Abs(p.Y-expected) > 1e-3 {
		t.Errorf("y(1) = %.6f, expected %.6f", p.Y, expected)
	}
}

func TestEulerPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := dynamo.SlopeFunc(func(t, y float64) (float64, error) { return 0, boom })

	start := dynamo.Point{X: 3, Y: 4}
	got, err := NewEuler().Step(f, start, 0.1)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if got != start {
		t.Errorf("failed step moved the point to %v", got)
	}
}

func BenchmarkEuler(b *testing.B) {
	f := dynamo.SlopeFunc(func(t, y float64) (float64, error) { return math.Sin(t) * math.Sin(y), nil })
	integ := NewEuler()
	p := dynamo.Point{X: 0, Y: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ = integ.Step(f, p, 1e-6)
	}
}

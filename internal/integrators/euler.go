package integrators

import "github.com/san-kum/slopefield/internal/dynamo"

// Euler is the explicit first-order method: y' = y + f(t, y)*dt, t' = t + dt.
// A negative dt steps backwards in t.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Slope, p dynamo.Point, dt float64) (dynamo.Point, error) {
	slope, err := f.Slope(p.X, p.Y)
	if err != nil {
		return p, err
	}
	return dynamo.Point{X: p.X + dt, Y: p.Y + slope*dt}, nil
}

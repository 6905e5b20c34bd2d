package dynamo

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate. In domain space X is t and Y is y; in display
// space both are pixels with Y growing downwards.
type Point struct {
	X, Y float64
}

func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}

type Color struct {
	R, G, B, A uint8
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
	Red   = Color{255, 0, 0, 255}
)

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type Stroke struct {
	Width float64
	Color Color
}

var (
	TickStroke  = Stroke{Width: 1.2, Color: Black}
	LeftStroke  = Stroke{Width: 1.5, Color: Red}
	RightStroke = Stroke{Width: 1.0, Color: Red}
)

type SegmentKind int

const (
	KindTick SegmentKind = iota
	KindLeft
	KindRight
)

func (k SegmentKind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindLeft:
		return "left"
	case KindRight:
		return "right"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Segment is one drawable line: a slope tick or a single trace step.
type Segment struct {
	A, B   Point
	Stroke Stroke
	Kind   SegmentKind
}

// SamplePoint is a slope-field sample. A non-nil Err marks a point whose
// slope could not be evaluated; such points leave a gap in the field.
type SamplePoint struct {
	T, Y  float64
	Slope float64
	Err   error
}

func (s SamplePoint) OK() bool { return s.Err == nil }

// Slope is the right-hand side f(t, y) of dy/dt = f(t, y).
type Slope interface {
	Slope(t, y float64) (float64, error)
}

// SlopeFunc adapts an ordinary function to Slope.
type SlopeFunc func(t, y float64) (float64, error)

func (f SlopeFunc) Slope(t, y float64) (float64, error) { return f(t, y) }

// Integrator advances a point along the solution of dy/dt = f(t, y).
type Integrator interface {
	Step(f Slope, p Point, dt float64) (Point, error)
}

// Package screen maps between domain space (t, y) and display pixels.
//
// The mapping is anchored at the origin: domain (0, 0) lands on the center of
// the surface regardless of where [TMin, TMax] and [YMin, YMax] lie, and one
// full domain span covers one full surface width or height. Asymmetric domains
// therefore render off-center.
package screen

import (
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
)

// Surface is the size of a render target in pixels.
type Surface struct {
	W, H float64
}

// Nominal is the 800x600 surface the original viewer draws on.
var Nominal = Surface{W: 800, H: 600}

func (s Surface) Center() dynamo.Point {
	return dynamo.Point{X: s.W / 2, Y: s.H / 2}
}

// ToDisplay maps a domain point to display pixels.
func (s Surface) ToDisplay(p dynamo.Point, d *config.Domain) (dynamo.Point, error) {
	tSpan, ySpan := d.TSpan(), d.YSpan()
	if tSpan == 0 || ySpan == 0 {
		return dynamo.Point{}, dynamo.ErrDivideByZero
	}
	return dynamo.Point{
		X: s.W/2 + p.X/tSpan*s.W,
		Y: s.H/2 - p.Y/ySpan*s.H,
	}, nil
}

// ToDomain is the inverse of ToDisplay.
func (s Surface) ToDomain(p dynamo.Point, d *config.Domain) (dynamo.Point, error) {
	tSpan, ySpan := d.TSpan(), d.YSpan()
	if tSpan == 0 || ySpan == 0 || s.W == 0 || s.H == 0 {
		return dynamo.Point{}, dynamo.ErrDivideByZero
	}
	return dynamo.Point{
		X: (p.X - s.W/2) / s.W * tSpan,
		Y: -(p.Y - s.H/2) / s.H * ySpan,
	}, nil
}

// Segment maps both ends of a domain-space segment, keeping its stroke.
func (s Surface) Segment(seg dynamo.Segment, d *config.Domain) (dynamo.Segment, error) {
	a, err := s.ToDisplay(seg.A, d)
	if err != nil {
		return dynamo.Segment{}, err
	}
	b, err := s.ToDisplay(seg.B, d)
	if err != nil {
		return dynamo.Segment{}, err
	}
	seg.A, seg.B = a, b
	return seg, nil
}

// Scale maps a point on s to the equivalent point on other.
func (s Surface) Scale(p dynamo.Point, other Surface) dynamo.Point {
	return dynamo.Point{X: p.X * other.W / s.W, Y: p.Y * other.H / s.H}
}

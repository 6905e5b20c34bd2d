// Package field samples the slope field of dy/dt = f(t, y) on a regular grid.
package field

import (
	"math"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/screen"
)

// Len is the number of samples Sample returns for d: the grid includes both
// ends, so there are TDiv+1 columns and YDiv+1 rows.
func Len(d *config.Domain) int {
	return (d.TDiv + 1) * (d.YDiv + 1)
}

// At returns the grid coordinates of column i and row j.
func At(d *config.Domain, i, j int) (t, y float64) {
	t = d.TSpan()/float64(d.TDiv)*float64(i) + d.TMin
	y = d.YSpan()/float64(d.YDiv)*float64(j) + d.YMin
	return t, y
}

// Sample evaluates f at every grid point, row by row from YMin upwards.
// Points whose evaluation fails are kept with Err set so the result always
// has Len(d) entries.
func Sample(d *config.Domain) []dynamo.SamplePoint {
	out := make([]dynamo.SamplePoint, Len(d))
	fill(d, out, 0, len(out))
	return out
}

// SampleParallel is Sample split across workers goroutines. The output is
// identical to Sample.
func SampleParallel(d *config.Domain, workers int) []dynamo.SamplePoint {
	out := make([]dynamo.SamplePoint, Len(d))
	dynamo.ParallelFor(len(out), 256, workers, func(start, end int) {
		fill(d, out, start, end)
	})
	return out
}

func fill(d *config.Domain, out []dynamo.SamplePoint, start, end int) {
	cols := d.TDiv + 1
	for k := start; k < end; k++ {
		t, y := At(d, k%cols, k/cols)
		slope, err := d.Equation.Slope(t, y)
		out[k] = dynamo.SamplePoint{T: t, Y: y, Slope: slope, Err: err}
	}
}

// Ticks turns samples into display-space line segments on surface s. Each
// tick is centered on its sample, points along atan(slope), and spans half a
// grid cell. Failed samples produce no tick.
func Ticks(samples []dynamo.SamplePoint, d *config.Domain, s screen.Surface) ([]dynamo.Segment, error) {
	xSpacing := s.W / float64(d.TDiv)
	ySpacing := s.H / float64(d.YDiv)

	ticks := make([]dynamo.Segment, 0, len(samples))
	for _, p := range samples {
		if !p.OK() {
			continue
		}
		c, err := s.ToDisplay(dynamo.Point{X: p.T, Y: p.Y}, d)
		if err != nil {
			return nil, err
		}

		theta := math.Atan(p.Slope)
		dx := math.Cos(theta) * xSpacing / 4
		dy := math.Sin(theta) * ySpacing / 4
		ticks = append(ticks, dynamo.Segment{
			A:      dynamo.Point{X: c.X - dx, Y: c.Y + dy},
			B:      dynamo.Point{X: c.X + dx, Y: c.Y - dy},
			Stroke: dynamo.TickStroke,
			Kind:   dynamo.KindTick,
		})
	}
	return ticks, nil
}

type Stats struct {
	Total   int
	Skipped int
}

func Summarize(samples []dynamo.SamplePoint) Stats {
	st := Stats{Total: len(samples)}
	for _, p := range samples {
		if !p.OK() {
			st.Skipped++
		}
	}
	return st
}

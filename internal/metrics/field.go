package metrics

import "github.com/san-kum/slopefield/internal/sim"

// Gaps is the fraction of grid points in the latest frame whose slope could
// not be evaluated.
type Gaps struct {
	name    string
	skipped int
	total   int
}

func NewGaps() *Gaps {
	return &Gaps{name: "gaps"}
}

func (g *Gaps) Name() string { return g.name }

func (g *Gaps) Observe(f *sim.Frame) {
	g.total = len(f.Samples)
	g.skipped = 0
	for _, p := range f.Samples {
		if !p.OK() {
			g.skipped++
		}
	}
}

func (g *Gaps) Value() float64 {
	if g.total == 0 {
		return 0
	}
	return float64(g.skipped) / float64(g.total)
}

func (g *Gaps) Skipped() int { return g.skipped }

func (g *Gaps) Reset() {
	g.skipped = 0
	g.total = 0
}

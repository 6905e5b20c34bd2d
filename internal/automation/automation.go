// Package automation runs scripted batches of slope fields and traces
// described in YAML.
package automation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/logging"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/sim"
	"github.com/san-kum/slopefield/internal/trace"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of fields to sample and trace.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one domain plus the seeds to trace through it. Unset domain
// fields come from Preset, or from the defaults when Preset is empty.
type Step struct {
	Name     string   `yaml:"name"`
	Preset   string   `yaml:"preset"`
	Eq       string   `yaml:"eq"`
	TMin     *float64 `yaml:"t_min"`
	TMax     *float64 `yaml:"t_max"`
	TDiv     *int     `yaml:"t_div"`
	YMin     *float64 `yaml:"y_min"`
	YMax     *float64 `yaml:"y_max"`
	YDiv     *int     `yaml:"y_div"`
	Dt       *float64 `yaml:"dt"`
	Bounds   *string  `yaml:"bounds"`
	MaxSteps *int     `yaml:"max_steps"`

	Seeds [][2]float64 `yaml:"seeds"`
	Fan   *Fan         `yaml:"fan"`
}

// Fan is Count seeds spread evenly over [YMin, YMax] at a fixed T.
type Fan struct {
	T     float64 `yaml:"t"`
	YMin  float64 `yaml:"y_min"`
	YMax  float64 `yaml:"y_max"`
	Count int     `yaml:"count"`
}

func (f *Fan) points() []dynamo.Point {
	if f == nil || f.Count <= 0 {
		return nil
	}
	if f.Count == 1 {
		return []dynamo.Point{{X: f.T, Y: (f.YMin + f.YMax) / 2}}
	}
	pts := make([]dynamo.Point, f.Count)
	step := (f.YMax - f.YMin) / float64(f.Count-1)
	for i := range pts {
		pts[i] = dynamo.Point{X: f.T, Y: f.YMin + float64(i)*step}
	}
	return pts
}

// Domain builds the step's domain.
func (s Step) Domain() (*config.Domain, error) {
	spec := config.DefaultSpec()
	if s.Preset != "" {
		p, ok := config.GetPreset(s.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		spec = p
	}

	ov := config.Overrides{
		TMin: s.TMin, TMax: s.TMax, TDiv: s.TDiv,
		YMin: s.YMin, YMax: s.YMax, YDiv: s.YDiv,
		Dt: s.Dt, MaxSteps: s.MaxSteps,
	}
	if s.Eq != "" {
		ov.Equation = &s.Eq
	}
	if s.Bounds != nil {
		b, err := config.ParseBounds(*s.Bounds)
		if err != nil {
			return nil, err
		}
		ov.Bounds = &b
	}
	return config.New(ov.Apply(spec))
}

// SeedPoints returns the explicit seeds followed by the fan.
func (s Step) SeedPoints() []dynamo.Point {
	pts := make([]dynamo.Point, 0, len(s.Seeds))
	for _, p := range s.Seeds {
		pts = append(pts, dynamo.Point{X: p[0], Y: p[1]})
	}
	return append(pts, s.Fan.points()...)
}

// LoadScenario loads a scenario from a YAML file. Unknown fields are an
// error so that typos do not silently fall back to defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var scenario Scenario
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepResult is the field and traces computed for one step.
type StepResult struct {
	Name    string
	Domain  *config.Domain
	Samples []dynamo.SamplePoint
	Stats   field.Stats
	Traces  []*trace.Result
}

// Capped counts traces stopped by the step cap.
func (r *StepResult) Capped() int {
	n := 0
	for _, tr := range r.Traces {
		if tr.Capped() {
			n++
		}
	}
	return n
}

// Frame maps the result to surface s with every trace in the curve.
func (r *StepResult) Frame(s screen.Surface) (*sim.Frame, error) {
	ticks, err := field.Ticks(r.Samples, r.Domain, s)
	if err != nil {
		return nil, err
	}
	f := &sim.Frame{Domain: r.Domain, Samples: r.Samples, Ticks: ticks}
	for _, tr := range r.Traces {
		for _, seg := range tr.Segments {
			disp, err := s.Segment(seg, r.Domain)
			if err != nil {
				return nil, err
			}
			f.Curve = append(f.Curve, disp)
		}
	}
	return f, nil
}

type Runner struct {
	Workers int
	Logger  *slog.Logger
}

// RunScenario executes all steps in order. Traces within a step run on
// Workers goroutines. It stops between steps when ctx is done and returns
// the results completed so far.
func (r Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}

		d, err := step.Domain()
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		samples := field.SampleParallel(d, r.Workers)
		seeds := step.SeedPoints()
		traces := make([]*trace.Result, len(seeds))
		dynamo.ParallelFor(len(seeds), 1, r.Workers, func(start, end int) {
			for k := start; k < end; k++ {
				traces[k] = trace.Trace(seeds[k], d)
			}
		})

		res := StepResult{Name: name, Domain: d, Samples: samples, Stats: field.Summarize(samples), Traces: traces}
		logger.Info("step done",
			"step", i+1,
			"name", name,
			"eq", d.Equation.String(),
			"skipped", res.Stats.Skipped,
			"traces", len(traces),
			"capped", res.Capped(),
		)
		results = append(results, res)
	}

	return results, nil
}

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/expr"
)

const (
	DefaultTMin     = -10.0
	DefaultTMax     = 10.0
	DefaultYMin     = -10.0
	DefaultYMax     = 10.0
	DefaultTDiv     = 40
	DefaultYDiv     = 32
	DefaultDt       = 0.01
	DefaultEquation = "sin(t)*sin(y)"
)

// Limits on a single domain. They keep one frame's sample grid and one
// trace's segment list bounded.
const (
	// MaxDiv caps TDiv and YDiv.
	MaxDiv = 4096
	// MaxSamples caps the grid size (TDiv+1)*(YDiv+1).
	MaxSamples = 1 << 20
	// MaxSpanSteps caps TSpan/Dt, the nominal steps for one cursor to cross
	// the domain.
	MaxSpanSteps = 1_000_000
	// MaxStepCap caps an explicit MaxSteps.
	MaxStepCap = 2*MaxSpanSteps + 2
)

// Bounds selects which coordinates a trace cursor must stay within.
type Bounds int

const (
	// BoundsStrict requires t in [TMin, TMax] and y in [YMin, YMax].
	BoundsStrict Bounds = iota
	// BoundsTimeOnly only clips on t; y may leave the visible range.
	BoundsTimeOnly
)

func (b Bounds) String() string {
	if b == BoundsTimeOnly {
		return "time"
	}
	return "strict"
}

func ParseBounds(s string) (Bounds, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict", "both", "ty":
		return BoundsStrict, nil
	case "time", "t":
		return BoundsTimeOnly, nil
	}
	return BoundsStrict, &ConfigError{Field: "bounds", Msg: fmt.Sprintf("unknown bounds mode %q (want strict or time)", s)}
}

// ConfigError reports a field whose value violates the domain invariants.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return dynamo.ErrInvalidConfig }

// Spec is the plain, serializable form of a domain.
type Spec struct {
	TMin     float64 `yaml:"t_min" json:"t_min"`
	TMax     float64 `yaml:"t_max" json:"t_max"`
	TDiv     int     `yaml:"t_div" json:"t_div"`
	YMin     float64 `yaml:"y_min" json:"y_min"`
	YMax     float64 `yaml:"y_max" json:"y_max"`
	YDiv     int     `yaml:"y_div" json:"y_div"`
	Dt       float64 `yaml:"dt" json:"dt"`
	Equation string  `yaml:"eq" json:"eq"`
	Bounds   string  `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	MaxSteps int     `yaml:"max_steps,omitempty" json:"max_steps,omitempty"`
}

func DefaultSpec() Spec {
	return Spec{
		TMin:     DefaultTMin,
		TMax:     DefaultTMax,
		TDiv:     DefaultTDiv,
		YMin:     DefaultYMin,
		YMax:     DefaultYMax,
		YDiv:     DefaultYDiv,
		Dt:       DefaultDt,
		Equation: DefaultEquation,
	}
}

// Validate checks the numeric invariants. It does not parse the equation.
func (s Spec) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"t min", s.TMin}, {"t max", s.TMax}, {"y min", s.YMin}, {"y max", s.YMax}, {"dt", s.Dt}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.name, Msg: "must be finite"}
		}
	}
	if s.TMin >= s.TMax {
		return &ConfigError{Field: "t min", Msg: fmt.Sprintf("must be less than t max (%g >= %g)", s.TMin, s.TMax)}
	}
	if s.YMin >= s.YMax {
		return &ConfigError{Field: "y min", Msg: fmt.Sprintf("must be less than y max (%g >= %g)", s.YMin, s.YMax)}
	}
	if s.TDiv <= 0 {
		return &ConfigError{Field: "t div", Msg: fmt.Sprintf("must be positive, got %d", s.TDiv)}
	}
	if s.YDiv <= 0 {
		return &ConfigError{Field: "y div", Msg: fmt.Sprintf("must be positive, got %d", s.YDiv)}
	}
	if s.TDiv > MaxDiv {
		return &ConfigError{Field: "t div", Msg: fmt.Sprintf("must be at most %d, got %d", MaxDiv, s.TDiv)}
	}
	if s.YDiv > MaxDiv {
		return &ConfigError{Field: "y div", Msg: fmt.Sprintf("must be at most %d, got %d", MaxDiv, s.YDiv)}
	}
	if n := (s.TDiv + 1) * (s.YDiv + 1); n > MaxSamples {
		return &ConfigError{Field: "t div", Msg: fmt.Sprintf("grid of %d samples exceeds %d", n, MaxSamples)}
	}
	if s.Dt <= 0 {
		return &ConfigError{Field: "dt", Msg: fmt.Sprintf("must be positive, got %g", s.Dt)}
	}
	if steps := (s.TMax - s.TMin) / s.Dt; steps > MaxSpanSteps {
		return &ConfigError{Field: "dt", Msg: fmt.Sprintf("too small for the t span (%.3g steps, max %d)", steps, MaxSpanSteps)}
	}
	if s.MaxSteps < 0 {
		return &ConfigError{Field: "max steps", Msg: fmt.Sprintf("must not be negative, got %d", s.MaxSteps)}
	}
	if s.MaxSteps > MaxStepCap {
		return &ConfigError{Field: "max steps", Msg: fmt.Sprintf("must be at most %d, got %d", MaxStepCap, s.MaxSteps)}
	}
	if _, err := ParseBounds(s.Bounds); err != nil {
		return err
	}
	return nil
}

// Domain is a validated, immutable configuration snapshot.
type Domain struct {
	TMin, TMax float64
	YMin, YMax float64
	TDiv, YDiv int
	Dt         float64
	Equation   *expr.Expression
	Bounds     Bounds
	MaxSteps   int
}

// New validates s and compiles its equation.
func New(s Spec) (*Domain, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	eq, err := expr.Parse(s.Equation)
	if err != nil {
		return nil, err
	}
	bounds, _ := ParseBounds(s.Bounds)

	return &Domain{
		TMin:     s.TMin,
		TMax:     s.TMax,
		YMin:     s.YMin,
		YMax:     s.YMax,
		TDiv:     s.TDiv,
		YDiv:     s.YDiv,
		Dt:       s.Dt,
		Equation: eq,
		Bounds:   bounds,
		MaxSteps: s.MaxSteps,
	}, nil
}

func Default() *Domain {
	d, err := New(DefaultSpec())
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Domain) Spec() Spec {
	s := Spec{
		TMin:     d.TMin,
		TMax:     d.TMax,
		TDiv:     d.TDiv,
		YMin:     d.YMin,
		YMax:     d.YMax,
		YDiv:     d.YDiv,
		Dt:       d.Dt,
		MaxSteps: d.MaxSteps,
	}
	if d.Equation != nil {
		s.Equation = d.Equation.String()
	}
	if d.Bounds != BoundsStrict {
		s.Bounds = d.Bounds.String()
	}
	return s
}

func (d *Domain) TSpan() float64 { return d.TMax - d.TMin }
func (d *Domain) YSpan() float64 { return d.YMax - d.YMin }

// Contains reports whether p lies inside the domain under d.Bounds.
func (d *Domain) Contains(p dynamo.Point) bool {
	if !(p.X >= d.TMin && p.X <= d.TMax) {
		return false
	}
	if d.Bounds == BoundsTimeOnly {
		return !math.IsNaN(p.Y)
	}
	return p.Y >= d.YMin && p.Y <= d.YMax
}

// StepCap is the hard iteration limit for one trace. A cursor nominally
// leaves [TMin, TMax] within TSpan/Dt steps; the cap allows both cursors that
// many steps plus slack for rounding.
func (d *Domain) StepCap() int {
	if d.MaxSteps > 0 {
		return min(d.MaxSteps, MaxStepCap)
	}
	steps := math.Ceil(d.TSpan() / d.Dt)
	if !(steps <= MaxSpanSteps) {
		return MaxStepCap
	}
	return 2*int(steps) + 2
}

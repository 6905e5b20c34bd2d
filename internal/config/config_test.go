package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefault(t *testing.T) {
	d := Default()

	assert.Equal(t, -10.0, d.TMin)
	assert.Equal(t, 10.0, d.TMax)
	assert.Equal(t, 40, d.TDiv)
	assert.Equal(t, 32, d.YDiv)
	assert.Equal(t, 0.01, d.Dt)
	assert.Equal(t, "sin(t)*sin(y)", d.Equation.String())
	assert.Equal(t, BoundsStrict, d.Bounds)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Spec)
		field string
	}{
		{"t min equals t max", func(s *Spec) { s.TMin = s.TMax }, "t min"},
		{"t min above t max", func(s *Spec) { s.TMin = 20 }, "t min"},
		{"y min above y max", func(s *Spec) { s.YMin, s.YMax = 1, -1 }, "y min"},
		{"zero t div", func(s *Spec) { s.TDiv = 0 }, "t div"},
		{"negative y div", func(s *Spec) { s.YDiv = -3 }, "y div"},
		{"zero dt", func(s *Spec) { s.Dt = 0 }, "dt"},
		{"negative dt", func(s *Spec) { s.Dt = -0.1 }, "dt"},
		{"negative max steps", func(s *Spec) { s.MaxSteps = -1 }, "max steps"},
		{"huge max steps", func(s *Spec) { s.MaxSteps = MaxStepCap + 1 }, "max steps"},
		{"t div above max", func(s *Spec) { s.TDiv = MaxDiv + 1 }, "t div"},
		{"y div overflowing grid", func(s *Spec) { s.YDiv = 1 << 62 }, "y div"},
		{"grid too large", func(s *Spec) { s.TDiv, s.YDiv = MaxDiv, MaxDiv }, "t div"},
		{"tiny dt", func(s *Spec) { s.Dt = 1e-9 }, "dt"},
		{"vanishing dt", func(s *Spec) { s.Dt = 1e-300 }, "dt"},
		{"bad bounds", func(s *Spec) { s.Bounds = "sideways" }, "bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSpec()
			tt.mod(&s)

			_, err := New(s)
			require.Error(t, err)
			assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestNewRejectsBadEquation(t *testing.T) {
	s := DefaultSpec()
	s.Equation = "sin(t"
	_, err := New(s)
	assert.ErrorIs(t, err, expr.ErrParse)
}

func TestContainsAndStepCap(t *testing.T) {
	d := Default()

	assert.True(t, d.Contains(dynamo.Point{X: 0, Y: 0}))
	assert.True(t, d.Contains(dynamo.Point{X: 10, Y: -10}))
	assert.False(t, d.Contains(dynamo.Point{X: 10.001, Y: 0}))
	assert.False(t, d.Contains(dynamo.Point{X: 0, Y: 11}))

	loose := *d
	loose.Bounds = BoundsTimeOnly
	assert.True(t, loose.Contains(dynamo.Point{X: 0, Y: 11}))
	assert.False(t, loose.Contains(dynamo.Point{X: -11, Y: 0}))

	assert.Equal(t, 2*2000+2, d.StepCap())
	loose.MaxSteps = 50
	assert.Equal(t, 50, loose.StepCap())
}

func TestLimitsAccepted(t *testing.T) {
	s := DefaultSpec()
	s.TDiv, s.YDiv = 1023, 1023
	s.Dt = 2 * (s.TMax - s.TMin) / MaxSpanSteps
	s.MaxSteps = MaxStepCap
	d, err := New(s)
	require.NoError(t, err)
	assert.Equal(t, MaxStepCap, d.StepCap())
	assert.LessOrEqual(t, (d.TDiv+1)*(d.YDiv+1), MaxSamples)
}

func TestStepCapClampsUnvalidatedDomain(t *testing.T) {
	d := *Default()
	d.Dt = 1e-300
	assert.Equal(t, MaxStepCap, d.StepCap())

	d.Dt = 1e-9
	assert.Equal(t, MaxStepCap, d.StepCap())
}

func TestReloadMalformedKeepsPrevious(t *testing.T) {
	st := NewStore(Default(), nil)
	before := st.Snapshot()
	beforeSpec := before.Spec()

	err := st.Reload("t * (y", Overrides{TMin: ptr(-1.0), TDiv: ptr(7)})
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrParse)

	after := st.Snapshot()
	assert.Same(t, before, after)
	assert.Equal(t, beforeSpec, after.Spec())
}

func TestReloadInvalidBoundsKeepsPrevious(t *testing.T) {
	st := NewStore(Default(), nil)
	before := st.Snapshot()

	err := st.Reload("t", Overrides{TMin: ptr(50.0)})
	require.ErrorIs(t, err, dynamo.ErrInvalidConfig)
	assert.Same(t, before, st.Snapshot())
}

func TestReloadAppliesEverythingTogether(t *testing.T) {
	st := NewStore(Default(), nil)
	before := st.Snapshot()

	err := st.Reload("t*y", Overrides{
		TMin: ptr(-5.0), TMax: ptr(5.0),
		YMin: ptr(-2.0), YMax: ptr(2.0),
		TDiv: ptr(10), YDiv: ptr(8),
		Dt:     ptr(0.05),
		Bounds: ptr(BoundsTimeOnly),
	})
	require.NoError(t, err)

	d := st.Snapshot()
	assert.NotSame(t, before, d)
	assert.Equal(t, "t*y", d.Equation.String())
	assert.Equal(t, Spec{TMin: -5, TMax: 5, TDiv: 10, YMin: -2, YMax: 2, YDiv: 8, Dt: 0.05, Equation: "t*y", Bounds: "time"}, d.Spec())

	// the old snapshot is untouched
	assert.Equal(t, "sin(t)*sin(y)", before.Equation.String())
	assert.Equal(t, -10.0, before.TMin)
}

func TestReloadEmptyEquationKeepsCurrent(t *testing.T) {
	st := NewStore(Default(), nil)
	require.NoError(t, st.Reload("", Overrides{TDiv: ptr(4)}))
	assert.Equal(t, DefaultEquation, st.Snapshot().Equation.String())
	assert.Equal(t, 4, st.Snapshot().TDiv)

	require.NoError(t, st.Reload("", Overrides{Equation: ptr("-y")}))
	assert.Equal(t, "-y", st.Snapshot().Equation.String())
}

func TestParseText(t *testing.T) {
	src := `# slope field
t min: -5
t max : 5
T_DIV: 20
y min: -3
y max: 3
y div: 12
eq: t*y - 1
colour: red
not a pair
t min: -6
`
	ov, warnings, err := ParseText(strings.NewReader(src))
	require.NoError(t, err)

	s := ov.Apply(DefaultSpec())
	assert.Equal(t, -6.0, s.TMin)
	assert.Equal(t, 5.0, s.TMax)
	assert.Equal(t, 20, s.TDiv)
	assert.Equal(t, -3.0, s.YMin)
	assert.Equal(t, 3.0, s.YMax)
	assert.Equal(t, 12, s.YDiv)
	assert.Equal(t, "t*y - 1", s.Equation)
	assert.Equal(t, DefaultDt, s.Dt)

	require.Len(t, warnings, 3)
	assert.Equal(t, Warning{Line: 9, Key: "colour", Msg: "unknown key"}, warnings[0])
	assert.Equal(t, 10, warnings[1].Line)
	assert.Contains(t, warnings[1].Msg, "malformed line")
	assert.Equal(t, "t min", warnings[2].Key)
	assert.Contains(t, warnings[2].Msg, "overrides line 2")
}

func TestParseTextBadNumber(t *testing.T) {
	_, _, err := ParseText(strings.NewReader("t min: -5\nt div: many\n"))
	require.ErrorIs(t, err, dynamo.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseYAML(t *testing.T) {
	src := []byte(`
t_min: -2
t max: 2
y-div: 6
eq: "y*(1-y)"
bounds: time
palette: dark
grid:
  - 1
`)
	ov, warnings, err := ParseYAML(src)
	require.NoError(t, err)

	s := ov.Apply(DefaultSpec())
	assert.Equal(t, -2.0, s.TMin)
	assert.Equal(t, 2.0, s.TMax)
	assert.Equal(t, 6, s.YDiv)
	assert.Equal(t, "y*(1-y)", s.Equation)
	assert.Equal(t, "time", s.Bounds)

	require.Len(t, warnings, 2)
	assert.Equal(t, "palette", warnings[0].Key)
	assert.Equal(t, "grid", warnings[1].Key)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	spec, ok := GetPreset("logistic")
	require.True(t, ok)
	spec.MaxSteps = 500
	d, err := New(spec)
	require.NoError(t, err)

	for _, name := range []string{"field.yaml", "field.txt"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, d))

			loaded, warnings, err := Load(path)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Equal(t, d.Spec(), loaded.Spec())
		})
	}
}

func TestReloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.txt")
	d, err := New(Presets["decay"])
	require.NoError(t, err)
	require.NoError(t, Save(path, d))

	st := NewStore(Default(), nil)
	warnings, err := st.ReloadFile(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "-y", st.Snapshot().Equation.String())
	assert.Equal(t, -5.0, st.Snapshot().TMin)
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "default")

	for _, name := range names {
		spec, ok := GetPreset(name)
		require.True(t, ok)
		_, err := New(spec)
		assert.NoError(t, err, "preset %s", name)
	}

	_, ok := GetPreset("nonexistent")
	assert.False(t, ok)
}

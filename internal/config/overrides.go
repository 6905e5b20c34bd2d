package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Overrides is a partial update applied on top of the current domain by
// Store.Reload. Nil fields keep their current value.
type Overrides struct {
	TMin, TMax *float64
	YMin, YMax *float64
	TDiv, YDiv *int
	Dt         *float64
	Equation   *string
	Bounds     *Bounds
	MaxSteps   *int
}

func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Apply returns s with every set field replaced.
func (o Overrides) Apply(s Spec) Spec {
	if o.TMin != nil {
		s.TMin = *o.TMin
	}
	if o.TMax != nil {
		s.TMax = *o.TMax
	}
	if o.YMin != nil {
		s.YMin = *o.YMin
	}
	if o.YMax != nil {
		s.YMax = *o.YMax
	}
	if o.TDiv != nil {
		s.TDiv = *o.TDiv
	}
	if o.YDiv != nil {
		s.YDiv = *o.YDiv
	}
	if o.Dt != nil {
		s.Dt = *o.Dt
	}
	if o.Equation != nil {
		s.Equation = *o.Equation
	}
	if o.Bounds != nil {
		s.Bounds = o.Bounds.String()
	}
	if o.MaxSteps != nil {
		s.MaxSteps = *o.MaxSteps
	}
	return s
}

// Warning describes a configuration line that was not applied.
type Warning struct {
	Line int
	Key  string
	Msg  string
}

func (w Warning) String() string {
	if w.Key == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Key, w.Msg)
}

// Keys lists the recognized configuration keys in their canonical form.
var Keys = []string{"t min", "t max", "t div", "y min", "y max", "y div", "dt", "eq", "bounds", "max steps"}

// normalizeKey folds case, underscores, dashes and repeated spaces so that
// "t min", "T_MIN" and "t-min" are the same key.
func normalizeKey(k string) string {
	k = strings.ToLower(k)
	k = strings.NewReplacer("_", " ", "-", " ").Replace(k)
	return strings.Join(strings.Fields(k), " ")
}

// set assigns one raw value. It returns (false, nil) for unknown keys.
func (o *Overrides) set(key, value string) (bool, error) {
	value = strings.TrimSpace(value)
	parseFloat := func() (*float64, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, &ConfigError{Field: key, Msg: fmt.Sprintf("invalid number %q", value)}
		}
		return &v, nil
	}
	parseInt := func() (*int, error) {
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, &ConfigError{Field: key, Msg: fmt.Sprintf("invalid integer %q", value)}
		}
		return &v, nil
	}

	var err error
	switch key {
	case "t min":
		o.TMin, err = parseFloat()
	case "t max":
		o.TMax, err = parseFloat()
	case "y min":
		o.YMin, err = parseFloat()
	case "y max":
		o.YMax, err = parseFloat()
	case "dt":
		o.Dt, err = parseFloat()
	case "t div":
		o.TDiv, err = parseInt()
	case "y div":
		o.YDiv, err = parseInt()
	case "max steps":
		o.MaxSteps, err = parseInt()
	case "eq":
		o.Equation = &value
	case "bounds":
		var b Bounds
		if b, err = ParseBounds(value); err == nil {
			o.Bounds = &b
		}
	default:
		return false, nil
	}
	return true, err
}

func sortWarnings(ws []Warning) {
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].Line < ws[j].Line })
}

package config

import "sort"

var Presets = map[string]Spec{
	"default": DefaultSpec(),
	"linear": {
		TMin: -10, TMax: 10, TDiv: 2, YMin: -10, YMax: 10, YDiv: 2, Dt: 0.01,
		Equation: "t*y",
	},
	"parabola": {
		TMin: -10, TMax: 10, TDiv: 40, YMin: -10, YMax: 10, YDiv: 32, Dt: 0.01,
		Equation: "t",
	},
	"decay": {
		TMin: -5, TMax: 5, TDiv: 30, YMin: -5, YMax: 5, YDiv: 24, Dt: 0.01,
		Equation: "-y",
	},
	"logistic": {
		TMin: -4, TMax: 4, TDiv: 32, YMin: -2, YMax: 2, YDiv: 24, Dt: 0.005,
		Equation: "y*(1-y)",
	},
	"riccati": {
		TMin: -3, TMax: 3, TDiv: 30, YMin: -3, YMax: 3, YDiv: 24, Dt: 0.005,
		Equation: "t^2 + y^2",
	},
	"pole": {
		TMin: -10, TMax: 10, TDiv: 40, YMin: -10, YMax: 10, YDiv: 32, Dt: 0.01,
		Equation: "1/(t-5)",
	},
	"wave": {
		TMin: -10, TMax: 10, TDiv: 40, YMin: -10, YMax: 10, YDiv: 32, Dt: 0.01,
		Equation: "cos(t) - y/4",
	},
}

func GetPreset(name string) (Spec, bool) {
	s, ok := Presets[name]
	return s, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

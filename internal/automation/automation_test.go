package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/export"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/sim"
	"github.com/san-kum/slopefield/internal/trace"
)

const scenarioYAML = `
name: demo
description: a couple of fields
steps:
  - name: decay
    preset: decay
    seeds: [[0, 1], [0, -1]]
  - eq: "1/(t-5)"
    t_div: 20
    bounds: time
    fan: {t: 0, y_min: -5, y_max: 5, count: 5}
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	d, err := sc.Steps[1].Domain()
	if err != nil {
		t.Fatal(err)
	}
	if d.TDiv != 20 || d.YDiv != config.DefaultYDiv || d.Bounds != config.BoundsTimeOnly {
		t.Errorf("overrides not applied: tdiv=%d ydiv=%d bounds=%s", d.TDiv, d.YDiv, d.Bounds)
	}

	pts := sc.Steps[1].SeedPoints()
	if len(pts) != 5 || pts[0] != (dynamo.Point{X: 0, Y: -5}) || pts[4] != (dynamo.Point{X: 0, Y: 5}) {
		t.Errorf("unexpected fan %v", pts)
	}
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte("name: x\nsteps:\n  - equation: t\n"))
	if err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestParseScenarioNeedsSteps(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepDomainErrors(t *testing.T) {
	bad := "nope"
	for _, s := range []Step{
		{Preset: "missing"},
		{Eq: "t +"},
		{Bounds: &bad},
	} {
		if _, err := s.Domain(); err == nil {
			t.Errorf("expected error for %+v", s)
		}
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	results, err := Runner{Workers: 2}.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	decay := results[0]
	if decay.Name != "decay" || len(decay.Traces) != 2 {
		t.Errorf("unexpected first result: %s with %d traces", decay.Name, len(decay.Traces))
	}
	if decay.Traces[0].Seed != (dynamo.Point{X: 0, Y: 1}) {
		t.Errorf("traces out of seed order: %v", decay.Traces[0].Seed)
	}

	pole := results[1]
	if pole.Name != "step-2" {
		t.Errorf("expected generated name, got %s", pole.Name)
	}
	if pole.Stats.Skipped != config.DefaultYDiv+1 {
		t.Errorf("expected one skipped column, got %d", pole.Stats.Skipped)
	}
	for _, tr := range pole.Traces {
		if tr.Right.Halt != trace.EvalFailed && tr.Right.Halt != trace.OutOfBounds && tr.Right.Halt != trace.NonFinite {
			t.Errorf("right cursor from %v ended %s", tr.Seed, tr.Right.Halt)
		}
	}
	if pole.Capped() != 0 {
		t.Errorf("no trace should hit the cap, got %d", pole.Capped())
	}
}

func TestRunScenarioStopsOnCancel(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Runner{}.RunScenario(ctx, sc)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestStepResultFrameRenders(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	results, err := Runner{}.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}

	f, err := results[0].Frame(screen.Nominal)
	if err != nil {
		t.Fatal(err)
	}
	segs := 0
	for _, tr := range results[0].Traces {
		segs += len(tr.Segments)
	}
	if len(f.Curve) != segs {
		t.Errorf("curve has %d segments, traces have %d", len(f.Curve), segs)
	}

	svg := export.NewSVG(screen.Nominal)
	if err := sim.Render(svg, f); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "decay.svg")
	if err := os.WriteFile(path, []byte(svg.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

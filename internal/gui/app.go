// Package gui is the raylib window surface: an 800x600 white canvas with
// black slope ticks and the red curve through the mouse position.
package gui

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/expr"
	"github.com/san-kum/slopefield/internal/logging"
	"github.com/san-kum/slopefield/internal/metrics"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/sim"
)

type Options struct {
	ConfigPath string
	Workers    int
	Logger     *slog.Logger
}

type App struct {
	win        *Window
	sim        *sim.Simulator
	metrics    *metrics.Set
	configPath string
	logger     *slog.Logger

	status  string
	err     error
	showHUD bool
	quit    bool
}

// Run opens the window and blocks until it is closed.
func Run(store *config.Store, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	win := initWindow(screen.Nominal, "slopefield")
	defer win.Close()

	a := &App{
		win:        win,
		sim:        sim.New(store, win.Surface(), sim.WithWorkers(opts.Workers), sim.WithLogger(logger)),
		metrics:    metrics.Default(),
		configPath: opts.ConfigPath,
		logger:     logger,
		showHUD:    true,
	}
	a.sim.AddObserver(a.metrics)
	return a.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.win.setOverlay(a.hud()...)
		if _, err := a.sim.Step(a.win, a.win); err != nil {
			return err
		}
	}
	return nil
}

// Update handles keyboard input. Reloads take effect on the frame computed
// right after.
func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeyR):
		a.reload()
	case rl.IsKeyPressed(rl.KeyB):
		a.toggleBounds()
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	}
}

func (a *App) reload() {
	if a.configPath == "" {
		a.status, a.err = "no config file to reload", nil
		return
	}
	warnings, err := a.sim.Store().ReloadFile(a.configPath)
	a.err = err
	switch {
	case err != nil:
		a.status = ""
	case len(warnings) > 0:
		a.status = fmt.Sprintf("reloaded, %d warning(s): %s", len(warnings), warnings[0])
	default:
		a.status = "reloaded " + a.configPath
	}
}

func (a *App) toggleBounds() {
	next := config.BoundsTimeOnly
	if a.sim.Store().Snapshot().Bounds == config.BoundsTimeOnly {
		next = config.BoundsStrict
	}
	if err := a.sim.Store().Reload("", config.Overrides{Bounds: &next}); err != nil {
		a.err = err
		return
	}
	a.err, a.status = nil, "bounds: "+next.String()
}

func (a *App) hud() []overlayLine {
	if !a.showHUD {
		return nil
	}
	d := a.sim.Store().Snapshot()
	v := a.metrics.Values()
	lines := []overlayLine{
		{text: "dy/dt = " + d.Equation.String(), color: ColStatus},
		{text: fmt.Sprintf("%d FPS  gaps %.1f%%  steps %.0f", rl.GetFPS(), v["gaps"]*100, v["trace_steps"]), color: ColStatus},
	}
	if a.err != nil {
		msg := a.err.Error()
		var pe *expr.ParseError
		if errors.As(a.err, &pe) {
			msg = fmt.Sprintf("%s: %q", msg, pe.Input)
		}
		lines = append(lines, overlayLine{text: msg, color: ColError})
	} else if a.status != "" {
		lines = append(lines, overlayLine{text: a.status, color: ColStatus})
	}
	lines = append(lines, overlayLine{text: "[R] RELOAD  [B] BOUNDS  [H] HUD  [Q] QUIT", color: ColStatus})
	return lines
}

package viz

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/expr"
	"github.com/san-kum/slopefield/internal/logging"
	"github.com/san-kum/slopefield/internal/metrics"
	"github.com/san-kum/slopefield/internal/sim"
	"github.com/san-kum/slopefield/internal/trace"
)

const (
	width  = 80
	height = 24

	canvasPadX = 2
	canvasPadY = 1

	minWidth  = 20
	minHeight = 8

	frameRate = 30
)

type TickMsg time.Time

// AppConfig configures an App. ConfigPath is the file re-read on the reload
// key; it may be empty.
type AppConfig struct {
	ConfigPath string
	Theme      string
	Workers    int
	Logger     *slog.Logger
}

// App is the interactive terminal viewer. The mouse position over the canvas
// seeds the traced curve.
type App struct {
	sim        *sim.Simulator
	canvas     *Canvas
	metrics    *metrics.Set
	configPath string
	logger     *slog.Logger

	pointer    dynamo.Point
	hasPointer bool
	frame      *sim.Frame
	theme      Theme
	status     string
	err        error
	showHelp   bool

	// editing is true while the equation input has focus
	editing bool
	input   textinput.Model
}

func NewApp(store *config.Store, cfg AppConfig) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	canvas := NewCanvas(width, height)
	ti := textinput.New()
	ti.Placeholder = "f(t, y)"
	ti.Prompt = "dy/dt = "
	ti.CharLimit = expr.MaxLength
	ti.Width = panelWidth - 12

	a := &App{
		input:      ti,
		canvas:     canvas,
		metrics:    metrics.Default(),
		configPath: cfg.ConfigPath,
		logger:     logger,
		theme:      GetTheme(cfg.Theme),
	}
	a.sim = sim.New(store, canvas.Surface(), sim.WithWorkers(cfg.Workers), sim.WithLogger(logger))
	a.sim.AddObserver(a.metrics)
	a.redraw()
	return a
}

// Run starts the terminal program and blocks until the user quits.
func Run(a *App) error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

// Pointer implements sim.PointerSource.
func (a *App) Pointer() (dynamo.Point, bool) { return a.pointer, a.hasPointer }

func (a *App) Frame() *sim.Frame { return a.frame }

func (a *App) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.editing {
			return a, a.updateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "r":
			a.reload()
		case "b":
			a.toggleBounds()
		case "t":
			a.theme = a.theme.next()
		case "e":
			a.editing = true
			a.input.SetValue(a.sim.Store().Snapshot().Equation.String())
			a.input.CursorEnd()
			return a, a.input.Focus()
		case "esc":
			a.hasPointer = false
		case "?":
			a.showHelp = !a.showHelp
		}
		a.redraw()
	case tea.MouseMsg:
		a.movePointer(msg.X, msg.Y)
		a.redraw()
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.redraw()
	case TickMsg:
		a.redraw()
		return a, tick()
	}
	return a, nil
}

// updateInput feeds keys to the equation editor. Enter applies the text
// through a reload, so a bad equation leaves the current one in place.
func (a *App) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEnter:
		if err := a.sim.Store().Reload(a.input.Value(), config.Overrides{}); err != nil {
			a.err = err
			return nil
		}
		a.err, a.status = nil, "equation updated"
		a.stopEditing()
		a.redraw()
		return nil
	case tea.KeyEsc:
		a.err = nil
		a.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

func (a *App) stopEditing() {
	a.editing = false
	a.input.Blur()
	a.input.SetValue("")
}

// movePointer converts a terminal cell to canvas sub-pixels. Positions
// outside the canvas keep the last seed.
func (a *App) movePointer(x, y int) {
	col, row := x-canvasPadX, y-canvasPadY
	if col < 0 || row < 0 || col >= a.canvas.Width || row >= a.canvas.Height {
		return
	}
	a.pointer = CellToPixel(col, row)
	a.hasPointer = true
}

func (a *App) resize(w, h int) {
	cols := w - panelWidth - 2*canvasPadX - 1
	rows := h - 2*canvasPadY - 1
	cols = max(cols, minWidth)
	rows = max(rows, minHeight)
	if cols == a.canvas.Width && rows == a.canvas.Height {
		return
	}
	a.canvas = NewCanvas(cols, rows)
	a.sim.Resize(a.canvas.Surface())
	a.hasPointer = false
}

func (a *App) reload() {
	if a.configPath == "" {
		a.status, a.err = "no config file to reload", nil
		return
	}
	warnings, err := a.sim.Store().ReloadFile(a.configPath)
	if err != nil {
		a.status, a.err = "", err
		return
	}
	a.err = nil
	if len(warnings) > 0 {
		a.status = fmt.Sprintf("reloaded, %d warning(s): %s", len(warnings), warnings[0])
		return
	}
	a.status = "reloaded " + a.configPath
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
	a.status = "bounds: " + next.String()
}

func (a *App) redraw() {
	f, err := a.sim.Step(a, a.canvas)
	if err != nil {
		a.logger.Error("frame failed", "error", err)
		a.err = err
		return
	}
	a.frame = f
}

func (a *App) View() string {
	st := newStyles(a.theme)
	canvasView := st.canvas.Render(a.canvas.Render(st.tick, st.curve))

	var s strings.Builder
	if a.editing {
		s.WriteString(a.input.View() + "\n\n")
	}
	if a.frame != nil {
		a.writeDomain(&s, st)
		a.writeTrace(&s, st)
	}
	a.writeMetrics(&s, st)

	if a.err != nil {
		s.WriteString("\n" + st.err.Render(errorText(a.err)) + "\n")
	} else if a.status != "" {
		s.WriteString("\n" + st.value.Render(a.status) + "\n")
	}
	if a.showHelp {
		s.WriteString(st.help.Render("\nmouse  seed a curve\ne      edit the equation\nr      reload config file\nb      toggle bounds mode\nt      cycle themes\nesc    clear the curve\nq      quit"))
	} else {
		s.WriteString(st.help.Render("\nE:Edit R:Reload B:Bounds T:Theme\nQ:Quit ?:Help"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}

func (a *App) writeDomain(s *strings.Builder, st styles) {
	d := a.frame.Domain
	s.WriteString(st.header.Render("dy/dt = "+d.Equation.String()) + "\n")
	row(s, st, "t", fmt.Sprintf("[%g, %g] /%d", d.TMin, d.TMax, d.TDiv))
	row(s, st, "y", fmt.Sprintf("[%g, %g] /%d", d.YMin, d.YMax, d.YDiv))
	row(s, st, "dt", fmt.Sprintf("%g", d.Dt))
	row(s, st, "bounds", d.Bounds.String())
	row(s, st, "theme", a.theme.Name)
}

func (a *App) writeTrace(s *strings.Builder, st styles) {
	s.WriteString("\n")
	tr := a.frame.Trace
	if tr == nil {
		row(s, st, "seed", "move the mouse over the field")
		return
	}
	row(s, st, "seed", tr.Seed.String())
	row(s, st, "left", cursorText(tr.Left))
	row(s, st, "right", cursorText(tr.Right))

	right := tr.Branch(dynamo.KindRight)
	if len(right) > 1 {
		ys := make([]float64, 0, len(right)+1)
		ys = append(ys, tr.Seed.Y)
		for _, seg := range right {
			ys = append(ys, seg.B.Y)
		}
		chart := asciigraph.Plot(ys, asciigraph.Height(5), asciigraph.Width(panelWidth-14), asciigraph.Caption("y(t), t >= seed"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
}

func (a *App) writeMetrics(s *strings.Builder, st styles) {
	s.WriteString("\n")
	v := a.metrics.Values()
	row(s, st, "gaps", fmt.Sprintf("%.1f%%", v["gaps"]*100))
	row(s, st, "steps", fmt.Sprintf("%.0f avg", v["trace_steps"]))
	row(s, st, "capped", fmt.Sprintf("%.0f", v["cap_hits"]))
	row(s, st, "frame", fmt.Sprintf("%.2fms", v["frame_ms"]))
}

func row(s *strings.Builder, st styles, label, value string) {
	s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
}

func cursorText(c trace.Cursor) string {
	return fmt.Sprintf("%d steps, %s", c.Steps, c.Halt)
}

// errorText shows parse errors with a caret under the failing position.
func errorText(err error) string {
	var pe *expr.ParseError
	if errors.As(err, &pe) {
		return err.Error() + "\n" + pe.Caret()
	}
	return err.Error()
}

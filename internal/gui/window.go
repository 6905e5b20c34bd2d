package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/screen"
)

var (
	ColBg     = rl.White
	ColStatus = rl.NewColor(60, 60, 60, 255)
	ColError  = rl.NewColor(200, 0, 0, 255)
)

// Window is a raylib render target. It must only be used from the goroutine
// that opened it.
type Window struct {
	surface screen.Surface
	overlay []overlayLine
}

type overlayLine struct {
	text  string
	color rl.Color
}

// initWindow opens the window at the surface size, targets 60 FPS and
// disables the default exit key so Esc does not close the window.
func initWindow(s screen.Surface, title string) *Window {
	rl.InitWindow(int32(s.W), int32(s.H), title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	return &Window{surface: s}
}

func (w *Window) Close() { rl.CloseWindow() }

func (w *Window) Surface() screen.Surface { return w.surface }

// Pointer implements sim.PointerSource. The cursor only seeds a curve while
// it is over the window.
func (w *Window) Pointer() (dynamo.Point, bool) {
	if !rl.IsCursorOnScreen() {
		return dynamo.Point{}, false
	}
	m := rl.GetMousePosition()
	return dynamo.Point{X: float64(m.X), Y: float64(m.Y)}, true
}

// Clear starts a frame.
func (w *Window) Clear() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
}

func (w *Window) Draw(segs []dynamo.Segment) {
	for _, s := range segs {
		rl.DrawLineEx(
			rl.NewVector2(float32(s.A.X), float32(s.A.Y)),
			rl.NewVector2(float32(s.B.X), float32(s.B.Y)),
			float32(s.Stroke.Width),
			toColor(s.Stroke.Color),
		)
	}
}

// Present draws the text overlay and ends the frame.
func (w *Window) Present() error {
	y := int32(8)
	for _, l := range w.overlay {
		rl.DrawText(l.text, 8, y, 14, l.color)
		y += 18
	}
	rl.EndDrawing()
	return nil
}

func (w *Window) setOverlay(lines ...overlayLine) { w.overlay = lines }

func toColor(c dynamo.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/screen"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille render target. Each cell holds 2x4 sub-pixels, so the
// drawable surface is (Width*2) x (Height*4). Cells touched by a trace
// segment are marked hot and rendered in the curve color.
//
// Canvas is double buffered: Draw writes to the back buffer and Present
// copies it to the front buffer that Render reads.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Hot           [][]bool

	front    [][]rune
	frontHot [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Grid, c.Hot = makeBuffers(w, h)
	c.front, c.frontHot = makeBuffers(w, h)
	return c
}

func makeBuffers(w, h int) ([][]rune, [][]bool) {
	grid := make([][]rune, h)
	hot := make([][]bool, h)
	for i := range grid {
		grid[i] = make([]rune, w)
		hot[i] = make([]bool, w)
		for j := range grid[i] {
			grid[i][j] = blank
		}
	}
	return grid, hot
}

// Surface is the sub-pixel size of the canvas, for use with the coordinate
// mapper.
func (c *Canvas) Surface() screen.Surface {
	return screen.Surface{W: float64(c.Width * 2), H: float64(c.Height * 4)}
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) { c.plot(x, y, false) }

func (c *Canvas) plot(x, y int, hot bool) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if hot {
		c.Hot[row][col] = true
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Clear resets the back buffer.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Hot[i][j] = false
		}
	}
}

// Draw rasterizes display-space segments onto the back buffer. Stroke width
// is ignored; the Braille grid has a single dot size.
func (c *Canvas) Draw(segs []dynamo.Segment) {
	for _, s := range segs {
		if !s.A.IsValid() || !s.B.IsValid() {
			continue
		}
		// a far endpoint would make Bresenham walk millions of off-grid pixels
		if !c.near(s.A) || !c.near(s.B) {
			continue
		}
		c.line(round(s.A.X), round(s.A.Y), round(s.B.X), round(s.B.Y), s.Kind != dynamo.KindTick)
	}
}

func (c *Canvas) near(p dynamo.Point) bool {
	w, h := float64(c.Width*2), float64(c.Height*4)
	return p.X >= -w && p.X <= 2*w && p.Y >= -h && p.Y <= 2*h
}

// Present publishes the back buffer.
func (c *Canvas) Present() error {
	for i := range c.Grid {
		copy(c.front[i], c.Grid[i])
		copy(c.frontHot[i], c.Hot[i])
	}
	return nil
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, false)
}

func (c *Canvas) line(x0, y0, x1, y1 int, hot bool) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.plot(x0, y0, hot)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String returns the presented frame without styling.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.front {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the presented frame with ticks and curve styled separately.
func (c *Canvas) Render(tick, curve lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.front {
		hot := c.frontHot[i]
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && hot[j] == hot[start] {
				continue
			}
			style := tick
			if hot[start] {
				style = curve
			}
			b.WriteString(style.Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CellToPixel returns the sub-pixel at the center of a character cell.
func CellToPixel(col, row int) dynamo.Point {
	return dynamo.Point{X: float64(col*2) + 1, Y: float64(row*4) + 2}
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

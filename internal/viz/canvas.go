package viz

import (
	"math"
	"strings"
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

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

// Viewport maps a world rectangle onto the canvas, preserving aspect.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
	empty                  bool
}

func NewViewport() Viewport {
	return Viewport{empty: true}
}

// Fit grows the viewport to contain (x, y).
func (v *Viewport) Fit(x, y float64) {
	if v.empty {
		v.MinX, v.MaxX, v.MinY, v.MaxY = x, x, y, y
		v.empty = false
		return
	}
	v.MinX, v.MaxX = math.Min(v.MinX, x), math.Max(v.MaxX, x)
	v.MinY, v.MaxY = math.Min(v.MinY, y), math.Max(v.MaxY, y)
}

// Pad widens every side by frac of the larger extent.
func (v *Viewport) Pad(frac float64) {
	span := math.Max(v.MaxX-v.MinX, v.MaxY-v.MinY) * frac
	if span == 0 {
		span = 0.1
	}
	v.MinX, v.MaxX = v.MinX-span, v.MaxX+span
	v.MinY, v.MaxY = v.MinY-span, v.MaxY+span
}

func (c *Canvas) project(v Viewport, x, y float64) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	scale := math.Min(w/(v.MaxX-v.MinX), h/(v.MaxY-v.MinY))
	return int((x - v.MinX) * scale), int((v.MaxY - y) * scale)
}

// Polyline draws pts, given as world (x, y) pairs, through v.
func (c *Canvas) Polyline(v Viewport, pts [][2]float64) {
	if v.empty || len(pts) == 0 {
		return
	}
	px, py := c.project(v, pts[0][0], pts[0][1])
	c.Set(px, py)
	for _, p := range pts[1:] {
		x, y := c.project(v, p[0], p[1])
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

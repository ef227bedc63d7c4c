package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/viz"
	"github.com/san-kum/gaitsim/internal/wrap"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

type frame struct {
	vp            viz.Viewport
	width, height float64
}

func (f frame) point(x, y float64) (float64, float64) {
	vp := f.vp
	return (x - vp.MinX) / (vp.MaxX - vp.MinX) * f.width,
		f.height - (y-vp.MinY)/(vp.MaxY-vp.MinY)*f.height
}

func (f frame) path(sb *strings.Builder, pts [][2]float64, stroke string) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i, p := range pts {
		x, y := f.point(p[0], p[1])
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

func strapColor(theme viz.Theme, s wrap.Status) string {
	switch {
	case s == wrap.StatusFailed:
		return string(theme.Error)
	case s.Wrapped():
		return string(theme.Accent)
	default:
		return string(theme.Primary)
	}
}

// ModelSVG draws every strap path projected onto plane, colored by wrap
// status, with a dot at each body's centre of mass.
func ModelSVG(m *sim.Model, plane viz.Plane, width, height int, theme viz.Theme) string {
	vp := viz.NewViewport()
	paths := make([][][2]float64, len(m.Straps))
	for i, s := range m.Straps {
		for _, p := range s.Path() {
			pt := plane.Project(p)
			paths[i] = append(paths[i], pt)
			vp.Fit(pt[0], pt[1])
		}
	}
	bodies := make([][2]float64, len(m.Bodies))
	for i, b := range m.Bodies {
		bodies[i] = plane.Project(b.Position())
		vp.Fit(bodies[i][0], bodies[i][1])
	}
	vp.Pad(0.1)
	f := frame{vp: vp, width: float64(width), height: float64(height)}

	var sb strings.Builder
	header(&sb, width, height)
	for i, s := range m.Straps {
		fmt.Fprintf(&sb, "<g id=%q>\n", s.Name())
		f.path(&sb, paths[i], strapColor(theme, s.WrapStatus()))
		sb.WriteString("</g>\n")
	}
	fmt.Fprintf(&sb, "<g fill=%q>\n", string(theme.Text))
	for i, b := range bodies {
		x, y := f.point(b[0], b[1])
		fmt.Fprintf(&sb, "<circle id=%q cx=\"%.1f\" cy=\"%.1f\" r=\"3\"/>\n", m.Bodies[i].Name(), x, y)
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SeriesSVG draws ys against xs as a single path.
func SeriesSVG(xs, ys []float64, width, height int, stroke string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}
	vp := viz.NewViewport()
	pts := make([][2]float64, n)
	for i := range n {
		pts[i] = [2]float64{xs[i], ys[i]}
		vp.Fit(xs[i], ys[i])
	}
	vp.Pad(0.1)

	var sb strings.Builder
	header(&sb, width, height)
	frame{vp: vp, width: float64(width), height: float64(height)}.path(&sb, pts, stroke)
	sb.WriteString("</svg>\n")
	return sb.String()
}

// PathLength sums the segment lengths of a drawn strap path.
func PathLength(path []spatial.Vector3) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i].Distance(path[i-1])
	}
	return total
}

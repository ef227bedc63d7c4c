package export

import (
	"strings"
	"testing"

	"github.com/san-kum/gaitsim/internal/scene"
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/viz"
)

func buildModel(t *testing.T, name string) *sim.Model {
	t.Helper()
	doc, err := scene.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	m, err := scene.Build(doc, scene.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModelSVG(t *testing.T) {
	m := buildModel(t, "leg")
	theme := viz.GetTheme("ocean")
	out := ModelSVG(m, viz.PlaneYZ, 400, 600, theme)

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatal("expected a complete svg document")
	}
	for _, s := range m.Straps {
		if !strings.Contains(out, `<g id="`+s.Name()+`">`) {
			t.Errorf("missing group for strap %s", s.Name())
		}
	}
	if got := strings.Count(out, "<path "); got != len(m.Straps) {
		t.Errorf("expected %d paths, got %d", len(m.Straps), got)
	}
	if got := strings.Count(out, "<circle "); got != len(m.Bodies) {
		t.Errorf("expected %d body markers, got %d", len(m.Bodies), got)
	}
	if !strings.Contains(out, string(theme.Accent)) {
		t.Error("expected wrapped straps drawn in the accent color")
	}
}

func TestSeriesSVG(t *testing.T) {
	out := SeriesSVG([]float64{0, 1, 2}, []float64{0, 1, 0}, 100, 50, "#00ff00")
	if !strings.Contains(out, `stroke="#00ff00"`) {
		t.Error("expected stroke color in path")
	}
	if strings.Count(out, " L") != 2 {
		t.Errorf("expected 2 line segments, got %q", out)
	}
	if SeriesSVG([]float64{1}, []float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestPathLength(t *testing.T) {
	m := buildModel(t, "elbow")
	s := m.Strap("biceps_path")
	got := PathLength(s.Path())
	if got > s.Length()+1e-9 || got < 0.99*s.Length() {
		t.Errorf("expected drawn path close to strap length %g, got %g", s.Length(), got)
	}
}

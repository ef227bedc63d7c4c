package viz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gaitsim/internal/scene"
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/wrap"
)

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if []rune(rows[0])[0] == brailleBlank || []rune(rows[1])[3] == brailleBlank {
		t.Errorf("expected the diagonal to light both corners:\n%s", c)
	}
	if []rune(rows[1])[0] != brailleBlank {
		t.Errorf("expected bottom-left cell empty:\n%s", c)
	}

	c.Set(-1, 100)
	c.Clear()
	for _, r := range c.String() {
		if r != brailleBlank && r != '\n' {
			t.Fatal("expected blank canvas after Clear")
		}
	}
}

func TestCanvasPolyline(t *testing.T) {
	v := NewViewport()
	v.Fit(0, 0)
	v.Fit(1, 1)
	c := NewCanvas(4, 2)
	c.Polyline(v, [][2]float64{{0, 0}, {1, 1}})

	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// world y points up, so the line rises from bottom-left to top-right
	if []rune(rows[1])[0] == brailleBlank || []rune(rows[0])[3] == brailleBlank {
		t.Errorf("expected both ends lit:\n%s", c)
	}
	if []rune(rows[0])[0] != brailleBlank || []rune(rows[1])[3] != brailleBlank {
		t.Errorf("expected the other corners empty:\n%s", c)
	}
}

func TestViewport(t *testing.T) {
	v := NewViewport()
	v.Fit(1, 2)
	v.Fit(-1, 0)
	if v.MinX != -1 || v.MaxX != 1 || v.MinY != 0 || v.MaxY != 2 {
		t.Errorf("unexpected bounds %+v", v)
	}
	v.Pad(0.5)
	if v.MinX != -2 || v.MaxY != 3 {
		t.Errorf("expected padding of 1, got %+v", v)
	}

	c := NewCanvas(10, 5)
	c.Polyline(NewViewport(), [][2]float64{{0, 0}, {1, 1}})
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != brailleBlank && r != '\n' }) {
		t.Error("expected empty viewport to draw nothing")
	}
}

func TestPlotSeries(t *testing.T) {
	if PlotSeries(nil, "x", 10, 3) != "" {
		t.Error("expected empty plot for no data")
	}
	out := PlotSeries([]float64{0, 1, 2, 1, 0}, "quad length", 20, 4)
	if !strings.Contains(out, "quad length") {
		t.Errorf("expected caption in plot:\n%s", out)
	}
	many := PlotMany([][]float64{{0, 1, 2}, {2, 1, 0}}, []string{"left", "right"}, "lengths", 20, 4)
	if !strings.Contains(many, "left") || !strings.Contains(many, "right") {
		t.Errorf("expected legends in plot:\n%s", many)
	}
}

func TestCheckReport(t *testing.T) {
	out := CheckReport(ThemeMinimal, []CheckLine{
		{Left: "left_quad", Right: "right_quad"},
		{Left: "left_ham", Right: "right_ham", Err: errors.New("origin not mirrored")},
	})
	if !strings.Contains(out, "2 pairs, 1 failed") {
		t.Errorf("expected summary, got:\n%s", out)
	}
	if !strings.Contains(out, "origin not mirrored") {
		t.Errorf("expected failure reason, got:\n%s", out)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("nonexistent").Name != Themes[0].Name {
		t.Error("expected fallback to first theme")
	}
	if Themes[len(Themes)-1].next().Name != Themes[0].Name {
		t.Error("expected theme cycle to wrap")
	}
	if ThemeMinimal.StatusStyle(wrap.StatusFailed).GetForeground() != ThemeMinimal.Error {
		t.Error("expected failed status in the error color")
	}
}

func newMonitor(t *testing.T) Monitor {
	t.Helper()
	doc, err := scene.Builtin("elbow")
	if err != nil {
		t.Fatal(err)
	}
	m, err := scene.Build(doc, scene.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(m)
	if err != nil {
		t.Fatal(err)
	}
	return NewMonitor(context.Background(), s, sim.Config{Dt: 1e-3, Duration: 0.05}, "elbow")
}

func TestMonitorSteps(t *testing.T) {
	mon := newMonitor(t)
	if mon.stepsPerTick != 16 {
		t.Errorf("expected 16 steps per tick, got %d", mon.stepsPerTick)
	}

	model, cmd := mon.Update(TickMsg{})
	if cmd == nil {
		t.Error("expected another tick to be scheduled")
	}
	mon = model.(Monitor)
	if mon.Time() < 0.0159 || mon.Time() > 0.0161 {
		t.Errorf("expected one tick of simulated time, got %f", mon.Time())
	}
	if len(mon.history[0]) != 16 {
		t.Errorf("expected 16 recorded lengths, got %d", len(mon.history[0]))
	}

	for i := 0; i < 5; i++ {
		model, _ = mon.Update(TickMsg{})
		mon = model.(Monitor)
	}
	if !mon.finished || mon.Err() != nil {
		t.Errorf("expected run to finish cleanly, err %v", mon.Err())
	}
	if mon.Time() > 0.0505 {
		t.Errorf("expected to stop at the duration, got %f", mon.Time())
	}

	view := mon.View()
	for _, want := range []string{"ELBOW", "FINISHED", "biceps_path"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestMonitorKeys(t *testing.T) {
	mon := newMonitor(t)
	key := func(s string) tea.KeyMsg {
		if s == " " {
			return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	model, _ := mon.Update(key(" "))
	mon = model.(Monitor)
	if mon.running {
		t.Error("expected space to pause")
	}
	model, _ = mon.Update(TickMsg{})
	mon = model.(Monitor)
	if mon.Time() != 0 {
		t.Errorf("expected no stepping while paused, got t=%f", mon.Time())
	}

	model, _ = mon.Update(key("v"))
	mon = model.(Monitor)
	if mon.plane != PlaneXZ {
		t.Errorf("expected XZ view, got %s", mon.plane)
	}

	if _, cmd := mon.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

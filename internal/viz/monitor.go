package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/spatial"
)

const (
	canvasWidth     = 40
	canvasHeight    = 16
	historyCapacity = 600
)

type TickMsg time.Time

// Plane selects the two world axes of the side view.
type Plane int

const (
	PlaneYZ Plane = iota
	PlaneXZ
	PlaneXY
)

func (p Plane) String() string {
	switch p {
	case PlaneXZ:
		return "XZ"
	case PlaneXY:
		return "XY"
	default:
		return "YZ"
	}
}

// ParsePlane accepts yz, xz or xy in any case.
func ParsePlane(s string) (Plane, error) {
	switch strings.ToUpper(s) {
	case "YZ":
		return PlaneYZ, nil
	case "XZ":
		return PlaneXZ, nil
	case "XY":
		return PlaneXY, nil
	}
	return 0, fmt.Errorf("unknown plane %q", s)
}

// Project maps a world point onto the plane's two axes.
func (p Plane) Project(v spatial.Vector3) [2]float64 {
	switch p {
	case PlaneXZ:
		return [2]float64{v.X, v.Z}
	case PlaneXY:
		return [2]float64{v.X, v.Y}
	default:
		return [2]float64{v.Y, v.Z}
	}
}

// Monitor steps a simulator in real time and shows live strap state.
type Monitor struct {
	ctx          context.Context
	sim          *sim.Simulator
	cfg          sim.Config
	name         string
	stepsPerTick int
	running      bool
	finished     bool
	err          error
	frame        *sim.Frame
	history      [][]float64
	selected     int
	plane        Plane
	viewport     Viewport
	canvas       *Canvas
	theme        Theme
	showHelp     bool
}

// NewMonitor prepares a monitor for s. Each tick advances enough steps to
// cover one sixtieth of a second of simulated time.
func NewMonitor(ctx context.Context, s *sim.Simulator, cfg sim.Config, name string) Monitor {
	steps := int(1.0 / 60 / cfg.Dt)
	if steps < 1 {
		steps = 1
	}
	m := Monitor{
		ctx:          ctx,
		sim:          s,
		cfg:          cfg,
		name:         name,
		stepsPerTick: steps,
		running:      true,
		history:      make([][]float64, len(s.Model().Straps)),
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		theme:        Themes[0],
	}
	m.fitViewport()
	return m
}

func (m *Monitor) fitViewport() {
	m.viewport = NewViewport()
	for _, s := range m.sim.Model().Straps {
		for _, p := range s.Path() {
			pt := m.plane.Project(p)
			m.viewport.Fit(pt[0], pt[1])
		}
	}
	for _, b := range m.sim.Model().Bodies {
		pt := m.plane.Project(b.Position())
		m.viewport.Fit(pt[0], pt[1])
	}
	m.viewport.Pad(0.1)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Monitor) Init() tea.Cmd {
	return tick()
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			if n := len(m.history); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "v":
			m.plane = (m.plane + 1) % 3
			m.fitViewport()
		case "t":
			m.theme = m.theme.next()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.finished {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Monitor) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		if m.cfg.Duration > 0 && m.sim.Time() >= m.cfg.Duration-m.cfg.Dt/2 {
			m.finished = true
			return
		}
		f, err := m.sim.Step(m.ctx, m.cfg)
		if err != nil {
			m.err = err
			m.finished = true
			return
		}
		m.record(f)
	}
}

func (m *Monitor) record(f *sim.Frame) {
	m.frame = f
	for i, s := range f.Straps {
		if i >= len(m.history) {
			break
		}
		h := append(m.history[i], s.Length)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[i] = h
	}
}

func (m Monitor) draw() string {
	m.canvas.Clear()
	for _, s := range m.sim.Model().Straps {
		path := s.Path()
		pts := make([][2]float64, len(path))
		for i, p := range path {
			pts[i] = m.plane.Project(p)
		}
		m.canvas.Polyline(m.viewport, pts)
	}
	return m.canvas.String()
}

func (m Monitor) View() string {
	var s strings.Builder
	s.WriteString(m.theme.header().Render(strings.ToUpper(m.name)) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "STOPPED: " + m.err.Error()
	case m.finished:
		status = "FINISHED"
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(status + "\n")
	if m.cfg.Duration > 0 {
		s.WriteString(ProgressBar(m.theme, m.sim.Time()/m.cfg.Duration, 30) + "\n")
	}

	stats := m.stats()
	side := canvasStyle.Render(m.draw() + fmt.Sprintf("view %s", m.plane))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, side, panelStyle.Render(stats)) + "\n")

	if m.showHelp {
		s.WriteString(helpStyle.Render("space pause • tab next strap • v view plane • t theme • q quit") + "\n")
	} else {
		s.WriteString(helpStyle.Render("? help") + "\n")
	}
	return s.String()
}

func (m Monitor) stats() string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", m.sim.Time())) + "\n\n")

	straps := m.sim.Model().Straps
	for i, st := range straps {
		name := st.Name()
		if i == m.selected {
			name = m.theme.selected().Render("▸ " + name)
		} else {
			name = "  " + name
		}
		line := fmt.Sprintf("%-28s %s L=%.4f T=%.1f",
			name,
			m.theme.StatusStyle(st.WrapStatus()).Render(st.WrapStatus().String()),
			st.Length(),
			st.Tension(),
		)
		s.WriteString(line + "\n")
	}

	if m.selected < len(m.history) && len(m.history[m.selected]) > 1 {
		caption := straps[m.selected].Name() + " length"
		s.WriteString(graphStyle.Render(PlotSeries(m.history[m.selected], caption, 40, 6)) + "\n")
	}
	if m.frame != nil {
		for _, a := range m.frame.Actuators {
			s.WriteString(labelStyle.Render(a.Name) + valueStyle.Render(fmt.Sprintf(" act %.2f  %.1f N", a.Activation, a.Tension)) + "\n")
		}
	}
	return s.String()
}

// Time reports the simulator time.
func (m Monitor) Time() float64 { return m.sim.Time() }

// Err is the error that stopped the run, if any.
func (m Monitor) Err() error { return m.err }

// RunMonitor runs the monitor as a full-screen program.
func RunMonitor(ctx context.Context, s *sim.Simulator, cfg sim.Config, name string, theme Theme) error {
	m := NewMonitor(ctx, s, cfg, name)
	m.theme = theme
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if mon, ok := final.(Monitor); ok {
		return mon.Err()
	}
	return nil
}

package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gaitsim/internal/wrap"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1)
}

func (t Theme) selected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
}

// StatusStyle colors a wrap status: red for failures, muted for straight
// lines.
func (t Theme) StatusStyle(s wrap.Status) lipgloss.Style {
	st := lipgloss.NewStyle().Width(8)
	switch s {
	case wrap.StatusFailed:
		return st.Foreground(t.Error).Bold(true)
	case wrap.StatusNone:
		return st.Foreground(t.Muted)
	case wrap.StatusDouble:
		return st.Foreground(t.Success)
	default:
		return st.Foreground(t.Warning)
	}
}

// CheckLine is one strap pair examined by the symmetry check.
type CheckLine struct {
	Left, Right string
	Err         error
}

// CheckReport renders the symmetry check results, one pair per line,
// followed by a pass/fail summary.
func CheckReport(theme Theme, lines []CheckLine) string {
	ok := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	bad := lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder
	failed := 0
	for _, l := range lines {
		pair := fmt.Sprintf("%s ↔ %s", l.Left, l.Right)
		if l.Err != nil {
			failed++
			b.WriteString(bad.Render("✗ ") + pair + "\n")
			b.WriteString(muted.Render("    "+l.Err.Error()) + "\n")
			continue
		}
		b.WriteString(ok.Render("✓ ") + pair + "\n")
	}
	summary := fmt.Sprintf("%d pairs, %d failed", len(lines), failed)
	if failed > 0 {
		b.WriteString("\n" + bad.Render(summary) + "\n")
	} else {
		b.WriteString("\n" + ok.Render(summary) + "\n")
	}
	return b.String()
}

// ProgressBar renders a run progress bar of width cells.
func ProgressBar(theme Theme, percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(bar)
}

package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders values as an ASCII line chart. Long series are
// decimated to the chart width by asciigraph.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several equal-length series with one legend entry
// per name.
func PlotMany(series [][]float64, names []string, caption string, width, height int) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green}
	palette := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		palette[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(palette...),
		asciigraph.SeriesLegends(names...),
	)
}

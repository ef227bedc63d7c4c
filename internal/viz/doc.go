// Package viz renders simulation output in the terminal.
//
// [Monitor] is a Bubble Tea program that steps a simulator and shows the
// strap table, a length history plot for the selected strap and a Braille
// side view of every strap path.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	Tab   - Select next strap
//	V     - Cycle view plane
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
//
// [PlotSeries] and [CheckReport] are the static renderings used by the
// plot and check commands.
package viz

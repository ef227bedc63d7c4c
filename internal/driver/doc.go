// Package driver produces time-indexed control signals.
//
//   - [Fixed]: constant output
//   - [Cyclic]: piecewise-constant values over a repeating cycle
//   - [StackedBoxcar]: summed cyclic activation windows
//   - [PID]: feedback on a measured quantity such as a strap length
//
// Every driver memoises its last (time, value) pair, so repeated queries
// within one step return the identical value without recomputation, and
// clamps its output to [MinValue, MaxValue].
package driver

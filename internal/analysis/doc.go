// Package analysis characterizes recorded channels of a run.
//
// Gait and joint cycles show up as peaks in a channel's spectrum:
//
//	s, err := analysis.PowerSpectrum(lengths, dt)
//	freq, _ := s.Dominant()
//	// period is 1/freq
//
// [Describe] summarizes a channel by its range, mean and spread.
package analysis

package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var ErrTooShort = errors.New("series too short")

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled
// series. Freqs[i] is the frequency of Power[i] in hertz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean, applies a Hann window and transforms.
// Any series length is accepted.
func PowerSpectrum(series []float64, dt float64) (Spectrum, error) {
	n := len(series)
	if n < 4 {
		return Spectrum{}, ErrTooShort
	}
	if dt <= 0 {
		return Spectrum{}, errors.New("sample interval must be positive")
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)
	x := make([]float64, n)
	for i, v := range series {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)
	half := n/2 + 1
	s := Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(coeffs[k])
	}
	return s, nil
}

// Dominant returns the strongest non-zero frequency and its amplitude.
func (s Spectrum) Dominant() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freqs[k], s.Power[k]
		}
	}
	return freq, power
}

type Stats struct {
	Min, Max  float64
	Mean, RMS float64
	Std       float64
}

func (s Stats) Range() float64 { return s.Max - s.Min }

func Describe(series []float64) Stats {
	if len(series) == 0 {
		return Stats{}
	}
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum, sq float64
	for _, v := range series {
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
		sum += v
		sq += v * v
	}
	n := float64(len(series))
	st.Mean = sum / n
	st.RMS = math.Sqrt(sq / n)
	st.Std = math.Sqrt(math.Max(sq/n-st.Mean*st.Mean, 0))
	return st
}

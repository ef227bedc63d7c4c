package driver

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gaitsim/internal/attr"
)

const TypeStackedBoxcar = "StackedBoxcar"

var ErrStackSize = errors.New("length does not match stack size")

// StackedBoxcar sums rectangular activation windows on a cyclic phase
// axis. Delays and widths are fractions of the cycle, wrapped into [0,1).
type StackedBoxcar struct {
	base
	cycleTime float64
	delays    []float64
	widths    []float64
	heights   []float64

	computations int
}

func NewStackedBoxcar(name string, stackSize int, cycleTime float64) *StackedBoxcar {
	s := &StackedBoxcar{base: newBase(name), cycleTime: cycleTime}
	s.SetStackSize(stackSize)
	return s
}

func (s *StackedBoxcar) SetStackSize(n int) {
	s.delays = make([]float64, n)
	s.widths = make([]float64, n)
	s.heights = make([]float64, n)
	s.cache.Reset()
}

func (s *StackedBoxcar) StackSize() int { return len(s.delays) }

func (s *StackedBoxcar) SetCycleTime(t float64) {
	s.cycleTime = t
	s.cache.Reset()
}

func wrapUnit(v float64) float64 { return v - math.Floor(v) }

func (s *StackedBoxcar) checkLen(what string, n int) error {
	if n != len(s.delays) {
		return fmt.Errorf("%s: %w: got %d, want %d", what, ErrStackSize, n, len(s.delays))
	}
	return nil
}

func (s *StackedBoxcar) SetDelays(delays []float64) error {
	if err := s.checkLen("delays", len(delays)); err != nil {
		return err
	}
	for i := range s.delays {
		s.delays[i] = wrapUnit(delays[i])
	}
	s.cache.Reset()
	return nil
}

func (s *StackedBoxcar) SetWidths(widths []float64) error {
	if err := s.checkLen("widths", len(widths)); err != nil {
		return err
	}
	for i := range s.widths {
		s.widths[i] = wrapUnit(widths[i])
	}
	s.cache.Reset()
	return nil
}

func (s *StackedBoxcar) SetHeights(heights []float64) error {
	if err := s.checkLen("heights", len(heights)); err != nil {
		return err
	}
	copy(s.heights, heights)
	s.cache.Reset()
	return nil
}

func (s *StackedBoxcar) Delays() []float64  { return s.delays }
func (s *StackedBoxcar) Widths() []float64  { return s.widths }
func (s *StackedBoxcar) Heights() []float64 { return s.heights }

func (s *StackedBoxcar) Type() string { return TypeStackedBoxcar }
func (s *StackedBoxcar) Reset()       { s.cache.Reset() }

func (s *StackedBoxcar) Value(t float64) float64 {
	return s.eval(t, s.raw)
}

func (s *StackedBoxcar) raw(t float64) float64 {
	s.computations++
	phase := t/s.cycleTime - math.Floor(t/s.cycleTime)

	out := 0.0
	for i, delay := range s.delays {
		off := delay + s.widths[i]
		if off < 1 {
			if phase > delay && phase < off {
				out += s.heights[i]
			}
		} else if phase < off-1 || phase > delay {
			out += s.heights[i]
		}
	}
	return out
}

func boxcarFromAttributes(r *attr.Reader) (*StackedBoxcar, error) {
	s := &StackedBoxcar{}
	s.read(r)
	n := r.Int("StackSize")
	cycle := r.Float("CycleTime")
	if r.Err() == nil && n < 1 {
		r.Fail("StackSize", fmt.Errorf("%w: must be at least 1", attr.ErrInvalid))
	}
	if r.Err() == nil && cycle <= 0 {
		r.Fail("CycleTime", fmt.Errorf("%w: must be positive", attr.ErrInvalid))
	}
	delays := r.Floats("Delays", n)
	widths := r.Floats("Widths", n)
	heights := r.Floats("Heights", n)
	if err := r.Err(); err != nil {
		return nil, err
	}
	s.cycleTime = cycle
	s.SetStackSize(n)
	if err := errors.Join(s.SetDelays(delays), s.SetWidths(widths), s.SetHeights(heights)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StackedBoxcar) Attributes(set attr.Setter) {
	s.write(set, TypeStackedBoxcar)
	set.Set("StackSize", attr.FormatInt(len(s.delays)))
	set.Set("CycleTime", attr.FormatFloat(s.cycleTime))
	set.Set("Delays", attr.FormatFloats(s.delays))
	set.Set("Widths", attr.FormatFloats(s.widths))
	set.Set("Heights", attr.FormatFloats(s.heights))
}

package driver

import (
	"fmt"
	"math"

	"github.com/san-kum/gaitsim/internal/attr"
)

const TypeCyclic = "Cyclic"

// Cyclic steps through values, holding each for its duration, and repeats.
type Cyclic struct {
	base
	durations []float64
	values    []float64
	period    float64
}

func NewCyclic(name string, durations, values []float64) (*Cyclic, error) {
	c := &Cyclic{base: newBase(name)}
	if err := c.set(durations, values); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cyclic) set(durations, values []float64) error {
	if len(durations) == 0 || len(durations) != len(values) {
		return fmt.Errorf("cyclic driver needs matching durations and values, got %d and %d", len(durations), len(values))
	}
	period := 0.0
	for _, d := range durations {
		if d <= 0 {
			return fmt.Errorf("cyclic driver durations must be positive, got %g", d)
		}
		period += d
	}
	c.durations, c.values, c.period = durations, values, period
	c.cache.Reset()
	return nil
}

func (c *Cyclic) Type() string { return TypeCyclic }
func (c *Cyclic) Reset()       { c.cache.Reset() }

func (c *Cyclic) Value(t float64) float64 {
	return c.eval(t, c.raw)
}

func (c *Cyclic) raw(t float64) float64 {
	tau := t - math.Floor(t/c.period)*c.period
	acc := 0.0
	for i, d := range c.durations {
		acc += d
		if tau < acc {
			return c.values[i]
		}
	}
	return c.values[len(c.values)-1]
}

func cyclicFromAttributes(r *attr.Reader) (*Cyclic, error) {
	c := &Cyclic{}
	c.read(r)
	durations := r.Floats("Durations", -1)
	values := r.Floats("Values", len(durations))
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := c.set(durations, values); err != nil {
		return nil, attr.Errorf("DRIVER", c.name, "Durations", err)
	}
	return c, nil
}

func (c *Cyclic) Attributes(set attr.Setter) {
	c.write(set, TypeCyclic)
	set.Set("Durations", attr.FormatFloats(c.durations))
	set.Set("Values", attr.FormatFloats(c.values))
}

package driver

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gaitsim/internal/attr"
)

type Driver interface {
	Name() string
	Type() string
	Value(t float64) float64
	// Targets lists the IDs of the actuators this driver commands.
	Targets() []string
	Reset()
	Attributes(set attr.Setter)
}

// Cache holds the last computed value. Simulation time comes from a
// fixed-step loop, so exact equality is the intended hit test.
type Cache struct {
	valid bool
	time  float64
	value float64
}

func (c *Cache) Get(t float64) (float64, bool) {
	if c.valid && c.time == t {
		return c.value, true
	}
	return 0, false
}

func (c *Cache) Put(t, v float64) {
	c.valid, c.time, c.value = true, t, v
}

func (c *Cache) Reset() { c.valid = false }

type base struct {
	name    string
	targets []string
	min     float64
	max     float64
	cache   Cache
}

func newBase(name string) base {
	return base{name: name, min: -math.MaxFloat64, max: math.MaxFloat64}
}

func (b *base) Name() string      { return b.name }
func (b *base) Targets() []string { return b.targets }

func (b *base) SetTargets(ids ...string) { b.targets = ids }

// SetRange sets the output clamp.
func (b *base) SetRange(min, max float64) { b.min, b.max = min, max }

func (b *base) clamp(v float64) float64 {
	return math.Max(b.min, math.Min(b.max, v))
}

func (b *base) eval(t float64, raw func(float64) float64) float64 {
	if v, ok := b.cache.Get(t); ok {
		return v
	}
	v := b.clamp(raw(t))
	b.cache.Put(t, v)
	return v
}

func (b *base) read(r *attr.Reader) {
	b.name = r.ID()
	b.targets = r.OptionalStrings("TargetIDList")
	b.min = r.OptionalFloat("MinValue", -math.MaxFloat64)
	b.max = r.OptionalFloat("MaxValue", math.MaxFloat64)
}

func (b *base) write(set attr.Setter, typ string) {
	set.Set("ID", b.name)
	set.Set("Type", typ)
	if len(b.targets) > 0 {
		set.Set("TargetIDList", strings.Join(b.targets, " "))
	}
	if b.min != -math.MaxFloat64 {
		set.Set("MinValue", attr.FormatFloat(b.min))
	}
	if b.max != math.MaxFloat64 {
		set.Set("MaxValue", attr.FormatFloat(b.max))
	}
}

// Measurement reads the current value of a monitored quantity.
type Measurement func() float64

// MeasurementLookup resolves a measurement source by ID.
type MeasurementLookup func(id string) (Measurement, bool)

// FromAttributes builds a DRIVER element, dispatching on Type.
func FromAttributes(src attr.Store, lookup MeasurementLookup) (Driver, error) {
	r := attr.NewReader(src, "DRIVER")
	typ := r.String("Type")
	if err := r.Err(); err != nil {
		return nil, err
	}

	var (
		d   Driver
		err error
	)
	switch typ {
	case TypeFixed:
		d, err = fixedFromAttributes(r)
	case TypeCyclic:
		d, err = cyclicFromAttributes(r)
	case TypeStackedBoxcar:
		d, err = boxcarFromAttributes(r)
	case TypePID:
		d, err = pidFromAttributes(r, lookup)
	default:
		return nil, attr.Errorf("DRIVER", r.ID(), "Type", fmt.Errorf("%w: %q", attr.ErrInvalid, typ))
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

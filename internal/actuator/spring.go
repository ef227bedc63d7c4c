package actuator

import (
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/strap"
)

// DampedSpring is a tension-only spring on strain with viscous damping on
// strain rate. When driven, the output is scaled by activation.
type DampedSpring struct {
	base
	unloaded float64
	k        float64
	damping  float64
}

func NewDampedSpring(name string, s *strap.Strap, unloaded, k, damping float64) *DampedSpring {
	return &DampedSpring{base: base{name: name, strap: s}, unloaded: unloaded, k: k, damping: damping}
}

func (d *DampedSpring) Type() string { return TypeDampedSpring }

func (d *DampedSpring) Tension() float64 {
	strain := (d.strap.Length() - d.unloaded) / d.unloaded
	rate := d.strap.Velocity() / d.unloaded
	t := max(0, d.k*strain+d.damping*rate)
	if d.driven {
		t *= d.activation
	}
	return t
}

func (d *DampedSpring) Attributes(set attr.Setter) {
	d.write(set, TypeDampedSpring)
	set.Set("UnloadedLength", attr.FormatFloat(d.unloaded))
	set.Set("SpringConstant", attr.FormatFloat(d.k))
	set.Set("Damping", attr.FormatFloat(d.damping))
}

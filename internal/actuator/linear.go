package actuator

import (
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/strap"
)

// LinearMuscle produces activation times MaxIsometricForce, with
// activation clamped to [0, 1].
type LinearMuscle struct {
	base
	maxForce float64
}

func NewLinearMuscle(name string, s *strap.Strap, maxForce float64) *LinearMuscle {
	return &LinearMuscle{base: base{name: name, strap: s}, maxForce: maxForce}
}

func (m *LinearMuscle) Type() string               { return TypeLinear }
func (m *LinearMuscle) MaxIsometricForce() float64 { return m.maxForce }

func (m *LinearMuscle) Tension() float64 {
	return min(max(m.activation, 0), 1) * m.maxForce
}

func (m *LinearMuscle) Attributes(set attr.Setter) {
	m.write(set, TypeLinear)
	set.Set("MaxIsometricForce", attr.FormatFloat(m.maxForce))
}

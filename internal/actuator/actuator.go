// Package actuator turns commanded activation into strap tension and
// submits the resulting point forces to the engine.
package actuator

import (
	"fmt"

	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/strap"
)

const tag = "MUSCLE"

const (
	TypeLinear       = "LinearMuscle"
	TypeDampedSpring = "DampedSpring"
)

// ForceSink receives world point forces for the next engine step.
type ForceSink interface {
	ApplyWorldForce(id engine.BodyID, point, force spatial.Vector3)
}

type Actuator interface {
	Name() string
	Type() string
	Strap() *strap.Strap
	// SetActivation sets the summed driver output for this step.
	SetActivation(a float64)
	Activation() float64
	// Tension computes and stores the strap tension from the strap's
	// current length and velocity.
	Tension() float64
	Attributes(set attr.Setter)
}

type base struct {
	name       string
	strap      *strap.Strap
	activation float64
	driven     bool
}

func (b *base) Name() string        { return b.name }
func (b *base) Strap() *strap.Strap { return b.strap }
func (b *base) Activation() float64 { return b.activation }

func (b *base) SetActivation(a float64) {
	b.activation = a
	b.driven = true
}

func (b *base) write(set attr.Setter, typ string) {
	set.Set("ID", b.name)
	set.Set("Type", typ)
	set.Set("StrapID", b.strap.Name())
}

// Apply sets the actuator's tension on its strap and submits the scaled
// point forces. Forces on the world are dropped.
func Apply(a Actuator, sink ForceSink) {
	tension := a.Tension()
	s := a.Strap()
	s.SetTension(tension)
	for _, pf := range s.PointForces() {
		if pf.Body == nil {
			continue
		}
		sink.ApplyWorldForce(pf.Body.ID(), pf.Point, pf.Vector.Scale(tension))
	}
}

// FromAttributes builds a MUSCLE element acting through one of straps.
func FromAttributes(src attr.Store, straps map[string]*strap.Strap) (Actuator, error) {
	r := attr.NewReader(src, tag)
	typ := r.String("Type")
	strapID := r.String("StrapID")
	if err := r.Err(); err != nil {
		return nil, err
	}
	s, ok := straps[strapID]
	if !ok {
		return nil, attr.Errorf(tag, r.ID(), "Strap", attr.ErrNotFound)
	}

	switch typ {
	case TypeLinear:
		f := r.Float("MaxIsometricForce")
		if err := r.Err(); err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, attr.Errorf(tag, r.ID(), "MaxIsometricForce", model.ErrNonPositive)
		}
		return NewLinearMuscle(r.ID(), s, f), nil
	case TypeDampedSpring:
		l0 := r.Float("UnloadedLength")
		k := r.Float("SpringConstant")
		c := r.OptionalFloat("Damping", 0)
		if err := r.Err(); err != nil {
			return nil, err
		}
		if l0 <= 0 {
			return nil, attr.Errorf(tag, r.ID(), "UnloadedLength", model.ErrNonPositive)
		}
		return NewDampedSpring(r.ID(), s, l0, k, c), nil
	default:
		return nil, attr.Errorf(tag, r.ID(), "Type", fmt.Errorf("%w %q", model.ErrUnknownType, typ))
	}
}

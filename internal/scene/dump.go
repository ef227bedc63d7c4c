package scene

import (
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/sim"
)

// Dump re-emits the full attribute set of every object in m, in build
// order. Bodies are written at their current pose and velocity.
func Dump(name string, m *sim.Model) *Document {
	doc := &Document{Name: name}
	add := func(tag string, emit func(attr.Setter)) {
		a := attr.Map{}
		emit(a)
		doc.Add(tag, a)
	}

	add(TagGlobal, m.Global.Attributes)
	for _, b := range m.Bodies {
		add(TagBody, b.Attributes)
	}
	for _, mk := range m.Markers {
		add(TagMarker, mk.Attributes)
	}
	for _, j := range m.Joints {
		add(TagJoint, j.Attributes)
	}
	for _, s := range m.Straps {
		add(TagStrap, s.Attributes)
	}
	for _, a := range m.Actuators {
		add(TagMuscle, a.Attributes)
	}
	for _, d := range m.Drivers {
		add(TagDriver, d.Attributes)
	}
	return doc
}

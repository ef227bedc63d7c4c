package strap

import (
	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/spatial"
)

// Torque is the moment of a strap about a marker. Marker values are
// expressed in the marker's frame; moment arms are for unit tension.
type Torque struct {
	World           spatial.Vector3
	Marker          spatial.Vector3
	WorldMomentArm  spatial.Vector3
	MarkerMomentArm spatial.Vector3
}

// Torque sums the moments, about the marker origin, of the point forces
// acting on the marker's body.
func (s *Strap) Torque(m *model.Marker) Torque {
	centre := m.WorldPosition()
	body := m.Body()

	var arm spatial.Vector3
	for _, pf := range s.forces {
		if pf.Body != body {
			continue
		}
		arm = arm.Add(pf.Point.Sub(centre).Cross(pf.Vector))
	}

	q := m.WorldQuaternion()
	return Torque{
		World:           arm.Scale(s.tension),
		Marker:          q.Unrotate(arm.Scale(s.tension)),
		WorldMomentArm:  arm,
		MarkerMomentArm: q.Unrotate(arm),
	}
}

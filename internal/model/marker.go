package model

import (
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/spatial"
)

// Marker is a reference frame fixed relative to a body, or to the world
// when body is nil. World quantities are derived on every call from the
// body's current pose.
type Marker struct {
	name       string
	body       *Body
	position   spatial.Vector3
	quaternion spatial.Quaternion
}

func NewMarker(name string, body *Body, position spatial.Vector3, q spatial.Quaternion) *Marker {
	return &Marker{name: name, body: body, position: position, quaternion: q.Normalize()}
}

func MarkerFromAttributes(src attr.Store, bodies map[string]*Body) (*Marker, error) {
	r := attr.NewReader(src, "MARKER")
	bodyID := r.String("BodyID")
	pos := r.OptionalVector3("Position", spatial.Zero)
	q := r.OptionalQuaternion("Quaternion", spatial.Identity())
	if err := r.Err(); err != nil {
		return nil, err
	}
	var body *Body
	if bodyID != WorldID {
		b, ok := bodies[bodyID]
		if !ok {
			return nil, attr.Errorf("MARKER", r.ID(), "Body", attr.ErrNotFound)
		}
		body = b
	}
	return NewMarker(r.ID(), body, pos, q), nil
}

func (m *Marker) Name() string                        { return m.name }
func (m *Marker) Body() *Body                         { return m.body }
func (m *Marker) LocalPosition() spatial.Vector3      { return m.position }
func (m *Marker) LocalQuaternion() spatial.Quaternion { return m.quaternion }

// LocalAxis is axis i of the marker expressed in the body frame.
func (m *Marker) LocalAxis(i int) spatial.Vector3 { return m.quaternion.Axis(i) }

func (m *Marker) WorldPosition() spatial.Vector3 {
	return m.body.Pose().ToWorld(m.position)
}

func (m *Marker) WorldQuaternion() spatial.Quaternion {
	return m.body.Orientation().Mul(m.quaternion)
}

func (m *Marker) WorldAxis(i int) spatial.Vector3 {
	return m.body.Orientation().Rotate(m.LocalAxis(i))
}

func (m *Marker) Attributes(set attr.Setter) {
	set.Set("ID", m.name)
	set.Set("BodyID", m.body.Name())
	set.Set("Position", attr.FormatVector3(m.position))
	set.Set("Quaternion", attr.FormatQuaternion(m.quaternion))
}

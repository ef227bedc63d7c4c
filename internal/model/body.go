package model

import (
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/spatial"
)

// WorldID is the reserved body name for the world frame.
const WorldID = "World"

// Body is a named handle on an engine rigid body. Pose and velocity are
// owned by the engine and read on demand.
type Body struct {
	name    string
	id      engine.BodyID
	eng     engine.Engine
	mass    float64
	inertia spatial.Vector3
}

func NewBody(name string, eng engine.Engine, spec engine.BodySpec) (*Body, error) {
	id, err := eng.CreateBody(spec)
	if err != nil {
		return nil, err
	}
	return &Body{name: name, id: id, eng: eng, mass: spec.Mass, inertia: spec.Inertia}, nil
}

func BodyFromAttributes(src attr.Store, eng engine.Engine) (*Body, error) {
	r := attr.NewReader(src, "BODY")
	spec := engine.BodySpec{
		Mass:    r.Float("Mass"),
		Inertia: r.Vector3("MOI"),
		Pose: engine.Pose{
			Position:    r.OptionalVector3("Position", spatial.Zero),
			Orientation: r.OptionalQuaternion("Quaternion", spatial.Identity()),
		},
		LinearVelocity:  r.OptionalVector3("LinearVelocity", spatial.Zero),
		AngularVelocity: r.OptionalVector3("AngularVelocity", spatial.Zero),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.ID() == WorldID {
		return nil, attr.Errorf("BODY", r.ID(), "ID", attr.ErrInvalid)
	}
	b, err := NewBody(r.ID(), eng, spec)
	if err != nil {
		return nil, attr.Errorf("BODY", r.ID(), "Mass", err)
	}
	return b, nil
}

func (b *Body) Name() string {
	if b == nil {
		return WorldID
	}
	return b.name
}

// ID returns engine.Ground for the nil body.
func (b *Body) ID() engine.BodyID {
	if b == nil {
		return engine.Ground
	}
	return b.id
}

func (b *Body) Pose() engine.Pose {
	if b == nil {
		return engine.IdentityPose()
	}
	return b.eng.BodyPose(b.id)
}

func (b *Body) Position() spatial.Vector3       { return b.Pose().Position }
func (b *Body) Orientation() spatial.Quaternion { return b.Pose().Orientation }

func (b *Body) Velocity() (linear, angular spatial.Vector3) {
	if b == nil {
		return spatial.Zero, spatial.Zero
	}
	return b.eng.BodyVelocity(b.id)
}

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) Attributes(set attr.Setter) {
	pose := b.Pose()
	lin, ang := b.Velocity()
	set.Set("ID", b.name)
	set.Set("Mass", attr.FormatFloat(b.mass))
	set.Set("MOI", attr.FormatVector3(b.inertia))
	set.Set("Position", attr.FormatVector3(pose.Position))
	set.Set("Quaternion", attr.FormatQuaternion(pose.Orientation))
	set.Set("LinearVelocity", attr.FormatVector3(lin))
	set.Set("AngularVelocity", attr.FormatVector3(ang))
}

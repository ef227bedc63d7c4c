package engine

import (
	"errors"

	"github.com/san-kum/gaitsim/internal/spatial"
)

type BodyID int

// Ground as a body handle denotes the immovable world frame.
const Ground BodyID = -1

type ConstraintID int

type ConstraintKind int

const (
	Ball ConstraintKind = iota
	Hinge
	Fixed
)

func (k ConstraintKind) String() string {
	switch k {
	case Ball:
		return "Ball"
	case Hinge:
		return "Hinge"
	case Fixed:
		return "Fixed"
	default:
		return "Unknown"
	}
}

var (
	ErrBothWorld         = errors.New("engine: both constraint bodies are the world")
	ErrAlreadyAttached   = errors.New("engine: constraint already attached")
	ErrNotAttached       = errors.New("engine: constraint not attached")
	ErrUnknownBody       = errors.New("engine: unknown body")
	ErrUnknownConstraint = errors.New("engine: unknown constraint")
	ErrInvalidMass       = errors.New("engine: mass and inertia must be positive")
	ErrUnstable          = errors.New("engine: state diverged (NaN or Inf)")
)

type Pose struct {
	Position    spatial.Vector3
	Orientation spatial.Quaternion
}

func IdentityPose() Pose { return Pose{Orientation: spatial.Identity()} }

func (p Pose) ToWorld(local spatial.Vector3) spatial.Vector3 {
	return p.Orientation.Rotate(local).Add(p.Position)
}

func (p Pose) ToLocal(world spatial.Vector3) spatial.Vector3 {
	return p.Orientation.Unrotate(world.Sub(p.Position))
}

type BodySpec struct {
	Mass            float64
	Inertia         spatial.Vector3 // principal moments in the body frame
	Pose            Pose
	LinearVelocity  spatial.Vector3
	AngularVelocity spatial.Vector3
}

// Feedback holds the constraint force and torque applied to each side
// during the last step. Torques are about the body's centre of mass.
type Feedback struct {
	Force1, Torque1 spatial.Vector3
	Force2, Torque2 spatial.Vector3
}

type Engine interface {
	CreateBody(spec BodySpec) (BodyID, error)
	BodyPose(id BodyID) Pose
	BodyVelocity(id BodyID) (linear, angular spatial.Vector3)

	CreateConstraint(kind ConstraintKind) ConstraintID
	// AttachConstraint is irreversible; either side may be Ground, not both.
	AttachConstraint(id ConstraintID, a, b BodyID) error
	// SetConstraintFrame fixes the world anchor and axis at the current poses.
	SetConstraintFrame(id ConstraintID, anchor, axis spatial.Vector3) error
	SetConstraintSoftness(id ConstraintID, erp, cfm float64) error
	DestroyConstraint(id ConstraintID) error
	ConstraintFeedback(id ConstraintID) Feedback

	// ApplyWorldForce accumulates a force for the next Step only.
	ApplyWorldForce(id BodyID, point, force spatial.Vector3)
	Step(dt float64) error
}

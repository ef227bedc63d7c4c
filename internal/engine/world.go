package engine

import (
	"fmt"

	"github.com/san-kum/gaitsim/internal/integrators"
	"github.com/san-kum/gaitsim/internal/spatial"
)

const (
	stride = 13 // position(3) quaternion(4) velocity(3) angular velocity(3)

	// constraintArm spaces the extra anchor points that lock rotation for
	// hinge and fixed constraints.
	constraintArm = 0.1
)

type Params struct {
	Gravity        spatial.Vector3
	StepSize       float64
	ERP            float64
	CFM            float64
	LinearDamping  float64
	AngularDamping float64
}

// MinCFM is the softness a CFM of zero is treated as. Penalty constraints
// cannot be perfectly rigid, so zero maps to the stiffest spring.
const MinCFM = 1e-10

// SpringDamper converts ERP/CFM at step size h to penalty coefficients.
func SpringDamper(erp, cfm, h float64) (k, c float64) {
	cfm = max(cfm, MinCFM)
	return erp / (cfm * h), (1 - erp) / cfm
}

type body struct {
	mass    float64
	inertia spatial.Vector3
	pose    Pose
	vel     spatial.Vector3
	angVel  spatial.Vector3
	force   spatial.Vector3
	torque  spatial.Vector3
}

type constraint struct {
	kind      ConstraintKind
	a, b      BodyID
	attached  bool
	destroyed bool
	k, c      float64
	localA    []spatial.Vector3
	localB    []spatial.Vector3
	feedback  Feedback
}

// World is a reference Engine. Constraints are point-pair springs: a ball
// joint ties one anchor, a hinge adds a second point along its axis and a
// fixed joint a third off-axis point.
type World struct {
	params      Params
	integ       integrators.Integrator
	bodies      []body
	constraints []*constraint
	time        float64
}

func NewWorld(params Params, integ integrators.Integrator) *World {
	if integ == nil {
		integ = integrators.NewRK4()
	}
	return &World{params: params, integ: integ}
}

func (w *World) Time() float64  { return w.time }
func (w *World) Params() Params { return w.params }
func (w *World) NumBodies() int { return len(w.bodies) }

func (w *World) CreateBody(spec BodySpec) (BodyID, error) {
	in := spec.Inertia
	if spec.Mass <= 0 || in.X <= 0 || in.Y <= 0 || in.Z <= 0 {
		return 0, fmt.Errorf("%w: mass=%g inertia=%v", ErrInvalidMass, spec.Mass, in)
	}
	pose := spec.Pose
	pose.Orientation = pose.Orientation.Normalize()
	w.bodies = append(w.bodies, body{
		mass:    spec.Mass,
		inertia: in,
		pose:    pose,
		vel:     spec.LinearVelocity,
		angVel:  spec.AngularVelocity,
	})
	return BodyID(len(w.bodies) - 1), nil
}

func (w *World) valid(id BodyID) bool { return id >= 0 && int(id) < len(w.bodies) }

func (w *World) BodyPose(id BodyID) Pose {
	if !w.valid(id) {
		return IdentityPose()
	}
	return w.bodies[id].pose
}

func (w *World) BodyVelocity(id BodyID) (spatial.Vector3, spatial.Vector3) {
	if !w.valid(id) {
		return spatial.Zero, spatial.Zero
	}
	return w.bodies[id].vel, w.bodies[id].angVel
}

func (w *World) CreateConstraint(kind ConstraintKind) ConstraintID {
	k, c := SpringDamper(w.params.ERP, w.params.CFM, w.params.StepSize)
	w.constraints = append(w.constraints, &constraint{kind: kind, k: k, c: c})
	return ConstraintID(len(w.constraints) - 1)
}

func (w *World) constraint(id ConstraintID) (*constraint, error) {
	if id < 0 || int(id) >= len(w.constraints) || w.constraints[id].destroyed {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConstraint, id)
	}
	return w.constraints[id], nil
}

func (w *World) AttachConstraint(id ConstraintID, a, b BodyID) error {
	c, err := w.constraint(id)
	if err != nil {
		return err
	}
	if c.attached {
		return ErrAlreadyAttached
	}
	if a == Ground && b == Ground {
		return ErrBothWorld
	}
	for _, bid := range []BodyID{a, b} {
		if bid != Ground && !w.valid(bid) {
			return fmt.Errorf("%w: %d", ErrUnknownBody, bid)
		}
	}
	c.a, c.b, c.attached = a, b, true
	return nil
}

func (w *World) SetConstraintFrame(id ConstraintID, anchor, axis spatial.Vector3) error {
	c, err := w.constraint(id)
	if err != nil {
		return err
	}
	if !c.attached {
		return ErrNotAttached
	}
	points := []spatial.Vector3{anchor}
	switch c.kind {
	case Hinge:
		points = append(points, anchor.Add(axis.Normalize().Scale(constraintArm)))
	case Fixed:
		points = append(points,
			anchor.Add(spatial.UnitX.Scale(constraintArm)),
			anchor.Add(spatial.UnitY.Scale(constraintArm)))
	}
	c.localA = w.toLocal(c.a, points)
	c.localB = w.toLocal(c.b, points)
	return nil
}

func (w *World) toLocal(id BodyID, points []spatial.Vector3) []spatial.Vector3 {
	out := make([]spatial.Vector3, len(points))
	for i, p := range points {
		if id == Ground {
			out[i] = p
		} else {
			out[i] = w.bodies[id].pose.ToLocal(p)
		}
	}
	return out
}

func (w *World) SetConstraintSoftness(id ConstraintID, erp, cfm float64) error {
	c, err := w.constraint(id)
	if err != nil {
		return err
	}
	if erp < 0 || cfm < 0 {
		return fmt.Errorf("engine: invalid softness erp=%g cfm=%g", erp, cfm)
	}
	c.k, c.c = SpringDamper(erp, cfm, w.params.StepSize)
	return nil
}

func (w *World) DestroyConstraint(id ConstraintID) error {
	c, err := w.constraint(id)
	if err != nil {
		return err
	}
	c.destroyed = true
	c.attached = false
	return nil
}

func (w *World) ConstraintFeedback(id ConstraintID) Feedback {
	c, err := w.constraint(id)
	if err != nil {
		return Feedback{}
	}
	return c.feedback
}

func (w *World) ApplyWorldForce(id BodyID, point, force spatial.Vector3) {
	if !w.valid(id) {
		return
	}
	b := &w.bodies[id]
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(point.Sub(b.pose.Position).Cross(force))
}

func (w *World) Step(dt float64) error {
	x := w.pack()
	w.constraintForces(x, nil, nil, true)

	next := w.integ.Step(w, x, w.time, dt)
	if !next.IsValid() {
		return fmt.Errorf("%w at t=%.4f", ErrUnstable, w.time)
	}
	w.unpack(next)

	lin, ang := 1-w.params.LinearDamping, 1-w.params.AngularDamping
	for i := range w.bodies {
		b := &w.bodies[i]
		b.vel = b.vel.Scale(lin)
		b.angVel = b.angVel.Scale(ang)
		b.force, b.torque = spatial.Zero, spatial.Zero
	}
	w.time += dt
	return nil
}

func (w *World) pack() integrators.State {
	x := make(integrators.State, len(w.bodies)*stride)
	for i, b := range w.bodies {
		o := i * stride
		putVec(x, o, b.pose.Position)
		q := b.pose.Orientation
		x[o+3], x[o+4], x[o+5], x[o+6] = q.N, q.X, q.Y, q.Z
		putVec(x, o+7, b.vel)
		putVec(x, o+10, b.angVel)
	}
	return x
}

func (w *World) unpack(x integrators.State) {
	for i := range w.bodies {
		o := i * stride
		b := &w.bodies[i]
		b.pose.Position = vecAt(x, o)
		b.pose.Orientation = quatAt(x, o+3).Normalize()
		b.vel = vecAt(x, o+7)
		b.angVel = vecAt(x, o+10)
	}
}

// Derive implements integrators.System over the packed body state.
func (w *World) Derive(x integrators.State, t float64) integrators.State {
	n := len(w.bodies)
	force := make([]spatial.Vector3, n)
	torque := make([]spatial.Vector3, n)
	for i, b := range w.bodies {
		force[i] = w.params.Gravity.Scale(b.mass).Add(b.force)
		torque[i] = b.torque
	}
	w.constraintForces(x, force, torque, false)

	dx := make(integrators.State, len(x))
	for i, b := range w.bodies {
		o := i * stride
		q := quatAt(x, o+3)
		om := vecAt(x, o+10)
		putVec(dx, o, vecAt(x, o+7))
		qd := q.Derivative(om)
		dx[o+3], dx[o+4], dx[o+5], dx[o+6] = qd.N, qd.X, qd.Y, qd.Z
		putVec(dx, o+7, force[i].Scale(1/b.mass))

		qn := q.Normalize()
		wb := qn.Unrotate(om)
		gyro := wb.Cross(wb.Mul(b.inertia))
		tb := qn.Unrotate(torque[i]).Sub(gyro)
		ab := spatial.V(tb.X/b.inertia.X, tb.Y/b.inertia.Y, tb.Z/b.inertia.Z)
		putVec(dx, o+10, qn.Rotate(ab))
	}
	return dx
}

// constraintForces adds penalty forces to force/torque, or records them as
// feedback when record is set.
func (w *World) constraintForces(x integrators.State, force, torque []spatial.Vector3, record bool) {
	for _, c := range w.constraints {
		if !c.attached || c.destroyed || len(c.localA) == 0 {
			continue
		}
		var fb Feedback
		for i := range c.localA {
			pa, va, ra := w.pointState(x, c.a, c.localA[i])
			pb, vb, rb := w.pointState(x, c.b, c.localB[i])
			f := pb.Sub(pa).Scale(-c.k).Sub(vb.Sub(va).Scale(c.c))

			fb.Force2 = fb.Force2.Add(f)
			fb.Torque2 = fb.Torque2.Add(rb.Cross(f))
			fb.Force1 = fb.Force1.Sub(f)
			fb.Torque1 = fb.Torque1.Add(ra.Cross(f.Neg()))
		}
		if record {
			c.feedback = fb
			continue
		}
		if c.a != Ground {
			force[c.a] = force[c.a].Add(fb.Force1)
			torque[c.a] = torque[c.a].Add(fb.Torque1)
		}
		if c.b != Ground {
			force[c.b] = force[c.b].Add(fb.Force2)
			torque[c.b] = torque[c.b].Add(fb.Torque2)
		}
	}
}

// pointState returns the world position and velocity of a body-fixed
// point and its offset from the body's centre of mass.
func (w *World) pointState(x integrators.State, id BodyID, local spatial.Vector3) (p, v, r spatial.Vector3) {
	if id == Ground {
		return local, spatial.Zero, spatial.Zero
	}
	o := int(id) * stride
	r = quatAt(x, o+3).Normalize().Rotate(local)
	p = vecAt(x, o).Add(r)
	v = vecAt(x, o+7).Add(vecAt(x, o+10).Cross(r))
	return p, v, r
}

func vecAt(x integrators.State, o int) spatial.Vector3 {
	return spatial.V(x[o], x[o+1], x[o+2])
}

func quatAt(x integrators.State, o int) spatial.Quaternion {
	return spatial.Q(x[o], x[o+1], x[o+2], x[o+3])
}

func putVec(x integrators.State, o int, v spatial.Vector3) {
	x[o], x[o+1], x[o+2] = v.X, v.Y, v.Z
}

package model

import (
	"fmt"

	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/engine"
)

var jointKinds = map[string]engine.ConstraintKind{
	"Ball":  engine.Ball,
	"Hinge": engine.Hinge,
	"Fixed": engine.Fixed,
}

// Joint ties two bodies through an engine constraint whose frame comes from
// two markers. A joint is attached at most once; a new attachment needs a
// new joint.
type Joint struct {
	name        string
	kind        engine.ConstraintKind
	eng         engine.Engine
	global      *Global
	handle      engine.ConstraintID
	body1Marker *Marker
	body2Marker *Marker
	cfm         float64
	erp         float64
	attached    bool
	destroyed   bool
	feedback    engine.Feedback
}

func NewJoint(name string, kind engine.ConstraintKind, eng engine.Engine, g *Global) *Joint {
	return &Joint{
		name:   name,
		kind:   kind,
		eng:    eng,
		global: g,
		handle: eng.CreateConstraint(kind),
		cfm:    -1,
		erp:    -1,
	}
}

func (j *Joint) Name() string                { return j.name }
func (j *Joint) Kind() engine.ConstraintKind { return j.kind }
func (j *Joint) Body1Marker() *Marker        { return j.body1Marker }
func (j *Joint) Body2Marker() *Marker        { return j.body2Marker }
func (j *Joint) Attached() bool              { return j.attached }
func (j *Joint) Feedback() engine.Feedback   { return j.feedback }

// SetMarkers records the constraint frames and registers the joint on both.
func (j *Joint) SetMarkers(m1, m2 *Marker, deps *DependencyIndex) {
	j.body1Marker, j.body2Marker = m1, m2
	if deps != nil {
		deps.Register(j, m1, m2)
	}
}

// SetSoftness overrides the global ERP and CFM. Negative values keep the
// global default.
func (j *Joint) SetSoftness(erp, cfm float64) {
	j.erp, j.cfm = erp, cfm
}

// Attach binds the constraint to body1 and body2, either of which may be
// nil for the world. The anchor is body1's marker origin and the axis its
// X axis.
func (j *Joint) Attach(body1, body2 *Body) error {
	switch {
	case j.destroyed:
		return ErrDestroyed
	case j.attached:
		return ErrAlreadyAttached
	case body1 == nil && body2 == nil:
		return ErrBothWorld
	}
	if err := j.eng.AttachConstraint(j.handle, body1.ID(), body2.ID()); err != nil {
		return err
	}
	j.attached = true

	if j.body1Marker != nil {
		anchor := j.body1Marker.WorldPosition()
		axis := j.body1Marker.WorldAxis(0)
		if err := j.eng.SetConstraintFrame(j.handle, anchor, axis); err != nil {
			return err
		}
	}

	erp, cfm := j.global.ERP(), j.global.CFM()
	if j.erp >= 0 {
		erp = j.erp
	}
	if j.cfm >= 0 {
		cfm = j.cfm
	}
	return j.eng.SetConstraintSoftness(j.handle, erp, cfm)
}

// Update pulls the constraint feedback from the last engine step.
func (j *Joint) Update() {
	if j.attached {
		j.feedback = j.eng.ConstraintFeedback(j.handle)
	}
}

func (j *Joint) Destroy() error {
	if j.destroyed {
		return nil
	}
	j.destroyed = true
	j.attached = false
	return j.eng.DestroyConstraint(j.handle)
}

// JointFromAttributes resolves Body1MarkerID and Body2MarkerID, then
// attaches. The joint is destroyed again if any step fails.
func JointFromAttributes(src attr.Store, markers map[string]*Marker, g *Global, eng engine.Engine, deps *DependencyIndex) (*Joint, error) {
	r := attr.NewReader(src, "JOINT")
	typ := r.String("Type")
	m1ID := r.String("Body1MarkerID")
	m2ID := r.String("Body2MarkerID")
	cfm := r.OptionalFloat("CFM", -1)
	erp := r.OptionalFloat("ERP", -1)
	if err := r.Err(); err != nil {
		return nil, err
	}

	kind, ok := jointKinds[typ]
	if !ok {
		return nil, attr.Errorf("JOINT", r.ID(), "Type", fmt.Errorf("%w %q", ErrUnknownType, typ))
	}
	m1, ok := markers[m1ID]
	if !ok {
		return nil, attr.Errorf("JOINT", r.ID(), "Body1Marker", attr.ErrNotFound)
	}
	m2, ok := markers[m2ID]
	if !ok {
		return nil, attr.Errorf("JOINT", r.ID(), "Body2Marker", attr.ErrNotFound)
	}
	if m1.Body() == nil && m2.Body() == nil {
		return nil, attr.Errorf("JOINT", r.ID(), "", ErrBothWorld)
	}

	j := NewJoint(r.ID(), kind, eng, g)
	j.SetSoftness(erp, cfm)
	j.SetMarkers(m1, m2, deps)
	if err := j.Attach(m1.Body(), m2.Body()); err != nil {
		if deps != nil {
			deps.Remove(j)
		}
		_ = j.Destroy()
		return nil, attr.Errorf("JOINT", r.ID(), "", err)
	}
	return j, nil
}

func (j *Joint) Attributes(set attr.Setter) {
	set.Set("ID", j.name)
	set.Set("Type", j.kind.String())
	set.Set("Body1MarkerID", j.body1Marker.Name())
	set.Set("Body2MarkerID", j.body2Marker.Name())
	if j.cfm >= 0 {
		set.Set("CFM", attr.FormatFloat(j.cfm))
	}
	if j.erp >= 0 {
		set.Set("ERP", attr.FormatFloat(j.erp))
	}
}

package strap

import (
	"fmt"

	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/model"
)

const tag = "STRAP"

type markerField struct {
	attribute string
	label     string
}

// FromAttributes builds a strap from a STRAP element and registers it on
// the markers it reads.
func FromAttributes(src attr.Store, markers map[string]*model.Marker, deps *model.DependencyIndex) (*Strap, error) {
	r := attr.NewReader(src, tag)
	typ := r.String("Type")
	if err := r.Err(); err != nil {
		return nil, err
	}
	kind, ok := ParseKind(typ)
	if !ok {
		return nil, attr.Errorf(tag, r.ID(), "Type", fmt.Errorf("%w %q", model.ErrUnknownType, typ))
	}

	lookup := func(f markerField) (*model.Marker, error) {
		id := r.String(f.attribute)
		if err := r.Err(); err != nil {
			return nil, err
		}
		m, ok := markers[id]
		if !ok {
			return nil, attr.Errorf(tag, r.ID(), f.label, attr.ErrNotFound)
		}
		return m, nil
	}
	radius := func(name string) (float64, error) {
		v := r.Float(name)
		if err := r.Err(); err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, attr.Errorf(tag, r.ID(), name, model.ErrNegative)
		}
		return v, nil
	}

	origin, err := lookup(markerField{"OriginMarkerID", "OriginMarker"})
	if err != nil {
		return nil, err
	}
	insertion, err := lookup(markerField{"InsertionMarkerID", "InsertionMarker"})
	if err != nil {
		return nil, err
	}

	var s *Strap
	switch kind {
	case TwoPoint:
		s = NewTwoPoint(r.ID(), origin, insertion)
	case CylinderWrap:
		c, err := lookup(markerField{"CylinderMarkerID", "CylinderMarker"})
		if err != nil {
			return nil, err
		}
		rad, err := radius("CylinderRadius")
		if err != nil {
			return nil, err
		}
		s = NewCylinderWrap(r.ID(), origin, insertion, c, rad)
	case TwoCylinderWrap:
		c1, err := lookup(markerField{"Cylinder1MarkerID", "Cylinder1Marker"})
		if err != nil {
			return nil, err
		}
		c2, err := lookup(markerField{"Cylinder2MarkerID", "Cylinder2Marker"})
		if err != nil {
			return nil, err
		}
		r1, err := radius("Cylinder1Radius")
		if err != nil {
			return nil, err
		}
		r2, err := radius("Cylinder2Radius")
		if err != nil {
			return nil, err
		}
		s = NewTwoCylinderWrap(r.ID(), origin, insertion, c1, c2, r1, r2)
	case SphereWrap:
		c, err := lookup(markerField{"SphereMarkerID", "SphereMarker"})
		if err != nil {
			return nil, err
		}
		rad, err := radius("SphereRadius")
		if err != nil {
			return nil, err
		}
		s = NewSphereWrap(r.ID(), origin, insertion, c, rad)
	}

	n := r.OptionalInt("PointsPerArc", DefaultPointsPerArc)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, attr.Errorf(tag, r.ID(), "PointsPerArc", attr.ErrInvalid)
	}
	s.pointsPerArc = n

	if deps != nil {
		s.UpdateDependentMarkers(deps)
	}
	return s, nil
}

// Attributes re-emits the full STRAP element.
func (s *Strap) Attributes(set attr.Setter) {
	set.Set("ID", s.name)
	set.Set("Type", s.kind.String())
	set.Set("OriginMarkerID", s.origin.Name())
	set.Set("InsertionMarkerID", s.insertion.Name())
	switch s.kind {
	case CylinderWrap:
		set.Set("CylinderMarkerID", s.cylinder1.Name())
		set.Set("CylinderRadius", attr.FormatFloat(s.radius1))
	case TwoCylinderWrap:
		set.Set("Cylinder1MarkerID", s.cylinder1.Name())
		set.Set("Cylinder2MarkerID", s.cylinder2.Name())
		set.Set("Cylinder1Radius", attr.FormatFloat(s.radius1))
		set.Set("Cylinder2Radius", attr.FormatFloat(s.radius2))
	case SphereWrap:
		set.Set("SphereMarkerID", s.cylinder1.Name())
		set.Set("SphereRadius", attr.FormatFloat(s.radius1))
	}
	if s.pointsPerArc != DefaultPointsPerArc {
		set.Set("PointsPerArc", attr.FormatInt(s.pointsPerArc))
	}
}

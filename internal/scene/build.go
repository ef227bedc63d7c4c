package scene

import (
	"fmt"

	"github.com/san-kum/gaitsim/internal/actuator"
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/driver"
	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/integrators"
	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/strap"
)

type Options struct {
	// Integrator steps the engine. Nil selects RK4.
	Integrator integrators.Integrator
	// StepSize overrides the GLOBAL IntegrationStepSize when positive.
	StepSize float64
}

// Build assembles doc into an attached model. Any configuration error
// aborts the build; no partially built model is returned.
func Build(doc *Document, opts Options) (*sim.Model, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	g := model.DefaultGlobal()
	switch globals := doc.ByTag(TagGlobal); len(globals) {
	case 0:
	case 1:
		var err error
		if g, err = model.GlobalFromAttributes(globals[0].Attributes); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: %w", TagGlobal, ErrDuplicateID)
	}
	if opts.StepSize > 0 && opts.StepSize != g.StepSize() {
		g = g.WithStepSize(opts.StepSize)
	}

	w := engine.NewWorld(g.EngineParams(), opts.Integrator)
	m := &sim.Model{Global: g, Engine: w, Deps: model.NewDependencyIndex()}

	bodies := make(map[string]*model.Body)
	for _, e := range doc.ByTag(TagBody) {
		b, err := model.BodyFromAttributes(e.Attributes, w)
		if err != nil {
			return nil, err
		}
		if _, dup := bodies[b.Name()]; dup {
			return nil, attr.Errorf(TagBody, b.Name(), "", ErrDuplicateID)
		}
		bodies[b.Name()] = b
		m.Bodies = append(m.Bodies, b)
	}

	markers := make(map[string]*model.Marker)
	for _, e := range doc.ByTag(TagMarker) {
		mk, err := model.MarkerFromAttributes(e.Attributes, bodies)
		if err != nil {
			return nil, err
		}
		if _, dup := markers[mk.Name()]; dup {
			return nil, attr.Errorf(TagMarker, mk.Name(), "", ErrDuplicateID)
		}
		markers[mk.Name()] = mk
		m.Markers = append(m.Markers, mk)
	}

	joints := make(map[string]bool)
	for _, e := range doc.ByTag(TagJoint) {
		if id, _ := e.Attributes.Get("ID"); joints[id] {
			return nil, attr.Errorf(TagJoint, id, "", ErrDuplicateID)
		}
		j, err := model.JointFromAttributes(e.Attributes, markers, g, w, m.Deps)
		if err != nil {
			return nil, err
		}
		joints[j.Name()] = true
		m.Joints = append(m.Joints, j)
		logging.Debug("joint attached", "joint", j.Name(), "type", j.Kind())
	}

	straps := make(map[string]*strap.Strap)
	for _, e := range doc.ByTag(TagStrap) {
		if id, _ := e.Attributes.Get("ID"); straps[id] != nil {
			return nil, attr.Errorf(TagStrap, id, "", ErrDuplicateID)
		}
		s, err := strap.FromAttributes(e.Attributes, markers, m.Deps)
		if err != nil {
			return nil, err
		}
		straps[s.Name()] = s
		m.Straps = append(m.Straps, s)
	}

	muscles := make(map[string]bool)
	for _, e := range doc.ByTag(TagMuscle) {
		a, err := actuator.FromAttributes(e.Attributes, straps)
		if err != nil {
			return nil, err
		}
		if muscles[a.Name()] {
			return nil, attr.Errorf(TagMuscle, a.Name(), "", ErrDuplicateID)
		}
		muscles[a.Name()] = true
		m.Actuators = append(m.Actuators, a)
	}

	lookup := func(id string) (driver.Measurement, bool) {
		s, ok := straps[id]
		if !ok {
			return nil, false
		}
		return s.Length, true
	}
	drivers := make(map[string]bool)
	for _, e := range doc.ByTag(TagDriver) {
		d, err := driver.FromAttributes(e.Attributes, lookup)
		if err != nil {
			return nil, err
		}
		if drivers[d.Name()] {
			return nil, attr.Errorf(TagDriver, d.Name(), "", ErrDuplicateID)
		}
		for _, target := range d.Targets() {
			if !muscles[target] {
				return nil, attr.Errorf(TagDriver, d.Name(), "Target "+target, attr.ErrNotFound)
			}
		}
		drivers[d.Name()] = true
		m.Drivers = append(m.Drivers, d)
	}

	// Measurements and dumps read strap lengths before the first step.
	for _, s := range m.Straps {
		if err := s.Calculate(0); err != nil {
			logging.Debug("initial strap calculation", "strap", s.Name(), "err", err)
		}
	}

	logging.Info("model built",
		"name", doc.Name,
		"bodies", len(m.Bodies),
		"markers", len(m.Markers),
		"joints", len(m.Joints),
		"straps", len(m.Straps),
		"muscles", len(m.Actuators),
		"drivers", len(m.Drivers),
	)
	return m, nil
}

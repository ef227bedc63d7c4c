package model

import (
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/spatial"
)

// Global is the simulation-wide default parameter set. It is built once
// when a model loads and is read-only afterwards; the With methods return
// a modified copy.
type Global struct {
	stepSize        float64
	gravity         spatial.Vector3
	erp             float64
	cfm             float64
	springConstant  float64
	dampingConstant float64
	linearDamping   float64
	angularDamping  float64
	timeLimit       float64
	// Recorded and re-emitted; the reference engine does not collide.
	allowConnectedCollisions bool
}

func DefaultGlobal() *Global {
	g := &Global{
		stepSize: 1e-3,
		gravity:  spatial.V(0, 0, -9.81),
		erp:      0.5,
		cfm:      0.02,
	}
	g.derive()
	return g
}

func (g *Global) derive() {
	g.springConstant, g.dampingConstant = engine.SpringDamper(g.erp, g.cfm, g.stepSize)
}

func (g *Global) StepSize() float64        { return g.stepSize }
func (g *Global) Gravity() spatial.Vector3 { return g.gravity }
func (g *Global) ERP() float64             { return g.erp }
func (g *Global) CFM() float64             { return g.cfm }
func (g *Global) AllowConnectedCollisions() bool {
	return g.allowConnectedCollisions
}
func (g *Global) SpringConstant() float64  { return g.springConstant }
func (g *Global) DampingConstant() float64 { return g.dampingConstant }
func (g *Global) LinearDamping() float64   { return g.linearDamping }
func (g *Global) AngularDamping() float64  { return g.angularDamping }
func (g *Global) TimeLimit() float64       { return g.timeLimit }

func (g *Global) EngineParams() engine.Params {
	return engine.Params{
		Gravity:        g.gravity,
		StepSize:       g.stepSize,
		ERP:            g.erp,
		CFM:            g.cfm,
		LinearDamping:  g.linearDamping,
		AngularDamping: g.angularDamping,
	}
}

// WithStepSize keeps ERP and CFM and re-derives the equivalent spring and
// damping constants for the new step size.
func (g *Global) WithStepSize(h float64) *Global {
	c := *g
	c.stepSize = h
	c.derive()
	logging.Info("global reconfigured", "step_size", h, "spring", c.springConstant, "damping", c.dampingConstant)
	return &c
}

func (g *Global) WithTimeLimit(limit float64) *Global {
	c := *g
	c.timeLimit = limit
	logging.Info("global reconfigured", "time_limit", limit)
	return &c
}

// GlobalFromAttributes reads a GLOBAL element. Constraint softness may be
// given as any one of the six pairs drawn from ERP, CFM, SpringConstant and
// DampingConstant; the other two are derived.
func GlobalFromAttributes(src attr.Store) (*Global, error) {
	r := attr.NewUnnamedReader(src, "GLOBAL")
	g := &Global{}
	g.stepSize = r.Float("IntegrationStepSize")
	g.gravity = r.Vector3("GravityVector")
	g.linearDamping = r.OptionalFloat("LinearDamping", 0)
	g.angularDamping = r.OptionalFloat("AngularDamping", 0)
	g.timeLimit = r.OptionalFloat("TimeLimit", 0)
	g.allowConnectedCollisions = r.OptionalBool("AllowConnectedCollisions", false)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if g.stepSize <= 0 {
		return nil, attr.Errorf("GLOBAL", "", "IntegrationStepSize", ErrNonPositive)
	}

	h := g.stepSize
	switch {
	case r.Has("ERP") && r.Has("CFM"):
		g.erp, g.cfm = r.Float("ERP"), r.Float("CFM")
		g.derive()
	case r.Has("ERP") && r.Has("SpringConstant"):
		g.erp, g.springConstant = r.Float("ERP"), r.Float("SpringConstant")
		g.dampingConstant = h * (g.springConstant/g.erp - g.springConstant)
		g.cfm = 1 / (h*g.springConstant + g.dampingConstant)
	case r.Has("ERP") && r.Has("DampingConstant"):
		g.erp, g.dampingConstant = r.Float("ERP"), r.Float("DampingConstant")
		g.springConstant = g.dampingConstant / (h/g.erp - h)
		g.cfm = 1 / (h*g.springConstant + g.dampingConstant)
	case r.Has("CFM") && r.Has("DampingConstant"):
		g.cfm, g.dampingConstant = r.Float("CFM"), r.Float("DampingConstant")
		g.springConstant = (1/max(g.cfm, engine.MinCFM) - g.dampingConstant) / h
		g.erp = h * g.springConstant / (h*g.springConstant + g.dampingConstant)
	case r.Has("CFM") && r.Has("SpringConstant"):
		g.cfm, g.springConstant = r.Float("CFM"), r.Float("SpringConstant")
		g.dampingConstant = 1/max(g.cfm, engine.MinCFM) - h*g.springConstant
		g.erp = h * g.springConstant / (h*g.springConstant + g.dampingConstant)
	case r.Has("DampingConstant") && r.Has("SpringConstant"):
		g.dampingConstant, g.springConstant = r.Float("DampingConstant"), r.Float("SpringConstant")
		g.cfm = 1 / (h*g.springConstant + g.dampingConstant)
		g.erp = h * g.springConstant / (h*g.springConstant + g.dampingConstant)
	default:
		return nil, attr.Errorf("GLOBAL", "", "", ErrMissingPair)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if g.cfm < 0 {
		return nil, attr.Errorf("GLOBAL", "", "CFM", ErrNegative)
	}
	return g, nil
}

func (g *Global) Attributes(set attr.Setter) {
	set.Set("IntegrationStepSize", attr.FormatFloat(g.stepSize))
	set.Set("GravityVector", attr.FormatVector3(g.gravity))
	set.Set("ERP", attr.FormatFloat(g.erp))
	set.Set("CFM", attr.FormatFloat(g.cfm))
	set.Set("LinearDamping", attr.FormatFloat(g.linearDamping))
	set.Set("AngularDamping", attr.FormatFloat(g.angularDamping))
	if g.timeLimit > 0 {
		set.Set("TimeLimit", attr.FormatFloat(g.timeLimit))
	}
	if g.allowConnectedCollisions {
		set.Set("AllowConnectedCollisions", attr.FormatBool(true))
	}
}

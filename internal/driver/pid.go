package driver

import "github.com/san-kum/gaitsim/internal/attr"

const TypePID = "PID"

// PID drives its targets from the error between a measurement and a set
// point. The error is measured minus target, so a strap longer than its
// target length produces positive activation.
type PID struct {
	base
	Kp, Ki, Kd float64
	Target     float64

	measure       Measurement
	measurementID string
	integral      float64
	prevErr       float64
	prevT         float64
	first         bool
}

func NewPID(name string, kp, ki, kd, target float64, measure Measurement) *PID {
	return &PID{
		base:    newBase(name),
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		Target:  target,
		measure: measure,
		first:   true,
	}
}

func (p *PID) Type() string { return TypePID }

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
	p.cache.Reset()
}

func (p *PID) Value(t float64) float64 {
	return p.eval(t, p.raw)
}

func (p *PID) raw(t float64) float64 {
	err := p.measure() - p.Target

	if p.first {
		p.prevErr, p.prevT, p.first = err, t, false
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.Kp*err + p.Ki*p.integral
	}
	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr, p.prevT = err, t
	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
	p.cache.Reset()
}

func pidFromAttributes(r *attr.Reader, lookup MeasurementLookup) (*PID, error) {
	p := &PID{first: true}
	p.read(r)
	p.Kp = r.Float("Kp")
	p.Ki = r.OptionalFloat("Ki", 0)
	p.Kd = r.OptionalFloat("Kd", 0)
	p.Target = r.Float("Target")
	p.measurementID = r.String("MeasurementID")
	if err := r.Err(); err != nil {
		return nil, err
	}
	if lookup == nil {
		return nil, attr.Errorf("DRIVER", p.name, "Measurement", attr.ErrNotFound)
	}
	m, ok := lookup(p.measurementID)
	if !ok {
		return nil, attr.Errorf("DRIVER", p.name, "Measurement", attr.ErrNotFound)
	}
	p.measure = m
	return p, nil
}

func (p *PID) Attributes(set attr.Setter) {
	p.write(set, TypePID)
	set.Set("Kp", attr.FormatFloat(p.Kp))
	set.Set("Ki", attr.FormatFloat(p.Ki))
	set.Set("Kd", attr.FormatFloat(p.Kd))
	set.Set("Target", attr.FormatFloat(p.Target))
	if p.measurementID != "" {
		set.Set("MeasurementID", p.measurementID)
	}
}

package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/gaitsim/internal/actuator"
	"github.com/san-kum/gaitsim/internal/driver"
	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/strap"
	"github.com/san-kum/gaitsim/internal/wrap"
)

var (
	ErrInvalidState  = errors.New("invalid state (NaN/Inf)")
	ErrUnknownTarget = errors.New("driver target not found")
)

// Model is an assembled, attached object graph. It is mutated only while
// being built; stepping reads it.
type Model struct {
	Global    *model.Global
	Engine    engine.Engine
	Bodies    []*model.Body
	Markers   []*model.Marker
	Joints    []*model.Joint
	Straps    []*strap.Strap
	Actuators []actuator.Actuator
	Drivers   []driver.Driver
	Deps      *model.DependencyIndex
}

func (m *Model) Strap(name string) *strap.Strap {
	for _, s := range m.Straps {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (m *Model) Marker(name string) *model.Marker {
	for _, mk := range m.Markers {
		if mk.Name() == name {
			return mk
		}
	}
	return nil
}

type StrapSample struct {
	Name     string
	Length   float64
	Velocity float64
	Tension  float64
	Status   wrap.Status
}

type ActuatorSample struct {
	Name       string
	Activation float64
	Tension    float64
}

type JointSample struct {
	Name     string
	Feedback engine.Feedback
}

type BodySample struct {
	Name     string
	Position spatial.Vector3
}

// Frame is the model state recorded for one step. Strap values are those
// computed at Time; joint feedback comes from integrating the step that
// starts at Time.
type Frame struct {
	Step      int
	Time      float64
	Straps    []StrapSample
	Actuators []ActuatorSample
	Joints    []JointSample
	Bodies    []BodySample
}

type Metric interface {
	Name() string
	Observe(f *Frame, dt float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

type Config struct {
	Dt       float64
	Duration float64
	// ParallelStraps evaluates straps concurrently within a step.
	ParallelStraps bool
	// AbortOnWrapFailure stops the run at the first failed wrap instead of
	// counting it.
	AbortOnWrapFailure bool
	ValidateState      bool
	// RecordEvery keeps every n-th frame in the result; 0 keeps none.
	RecordEvery int
}

type Result struct {
	Frames       []Frame
	Metrics      map[string]float64
	StepsTaken   int
	WrapFailures int
	Errors       []error
}

type SimulationError struct {
	Step int
	Time float64
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }

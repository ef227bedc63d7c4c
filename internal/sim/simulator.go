package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gaitsim/internal/actuator"
	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/strap"
)

type Simulator struct {
	model     *Model
	targets   map[string]actuator.Actuator
	metrics   []Metric
	observers []Observer
	step      int
	time      float64
	failures  int
	strapErrs []error
}

// New checks that every driver target names an actuator.
func New(m *Model) (*Simulator, error) {
	targets := make(map[string]actuator.Actuator, len(m.Actuators))
	for _, a := range m.Actuators {
		targets[a.Name()] = a
	}
	for _, d := range m.Drivers {
		for _, id := range d.Targets() {
			if _, ok := targets[id]; !ok {
				return nil, fmt.Errorf("driver %s: %w: %s", d.Name(), ErrUnknownTarget, id)
			}
		}
	}
	return &Simulator{
		model:     m,
		targets:   targets,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		strapErrs: make([]error, len(m.Straps)),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Model() *Model          { return s.model }
func (s *Simulator) Time() float64          { return s.time }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.RecordEvery > 0 {
		result.Frames = make([]Frame, 0, steps/cfg.RecordEvery+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		f, err := s.Step(ctx, cfg)
		if err != nil {
			result.Errors = append(result.Errors, err)
			runErr = err
			break
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(f, cfg.Dt)
		}
		if cfg.RecordEvery > 0 && i%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, *f)
		}
	}

	result.WrapFailures = s.failures
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	logging.Info("run finished", "steps", result.StepsTaken, "time", s.time, "wrap_failures", s.failures)
	return result, runErr
}

// RunWithCallback steps until the duration elapses or callback returns
// false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	end := s.time + cfg.Duration
	for s.time < end-cfg.Dt/2 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := s.Step(ctx, cfg)
		if err != nil {
			return err
		}
		if !callback(f) {
			return nil
		}
	}
	return nil
}

// Step advances the model by cfg.Dt. Drivers, straps and actuators are
// evaluated at the current time and all forces are submitted before the
// engine integrates.
func (s *Simulator) Step(ctx context.Context, cfg Config) (*Frame, error) {
	m := s.model
	t := s.time
	fail := func(err error) (*Frame, error) {
		return nil, &SimulationError{Step: s.step, Time: t, Err: err}
	}

	s.applyDrivers(t)

	if err := s.calculateStraps(ctx, t, cfg.ParallelStraps); err != nil {
		return fail(err)
	}
	for i, err := range s.strapErrs {
		if err == nil {
			continue
		}
		if !errors.Is(err, strap.ErrWrapFailed) || cfg.AbortOnWrapFailure {
			return fail(err)
		}
		s.failures++
		s.strapErrs[i] = nil
	}

	for _, a := range m.Actuators {
		actuator.Apply(a, m.Engine)
	}

	if err := m.Engine.Step(cfg.Dt); err != nil {
		return fail(err)
	}
	for _, j := range m.Joints {
		j.Update()
	}

	f := s.frame(t)
	if cfg.ValidateState && !f.valid() {
		return fail(ErrInvalidState)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}

	s.step++
	s.time = t + cfg.Dt
	return f, nil
}

// applyDrivers sums driver outputs per target actuator.
func (s *Simulator) applyDrivers(t float64) {
	if len(s.model.Drivers) == 0 {
		return
	}
	sums := make(map[string]float64, len(s.targets))
	for _, d := range s.model.Drivers {
		v := d.Value(t)
		for _, id := range d.Targets() {
			sums[id] += v
		}
	}
	for id, v := range sums {
		s.targets[id].SetActivation(v)
	}
}

func (s *Simulator) calculateStraps(ctx context.Context, t float64, parallel bool) error {
	straps := s.model.Straps
	if !parallel || len(straps) < 2 {
		for i, st := range straps {
			s.strapErrs[i] = st.Calculate(t)
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, st := range straps {
		g.Go(func() error {
			s.strapErrs[i] = st.Calculate(t)
			return nil
		})
	}
	return g.Wait()
}

func (s *Simulator) frame(t float64) *Frame {
	m := s.model
	f := &Frame{
		Step:      s.step,
		Time:      t,
		Straps:    make([]StrapSample, len(m.Straps)),
		Actuators: make([]ActuatorSample, len(m.Actuators)),
		Joints:    make([]JointSample, len(m.Joints)),
		Bodies:    make([]BodySample, len(m.Bodies)),
	}
	for i, st := range m.Straps {
		f.Straps[i] = StrapSample{
			Name:     st.Name(),
			Length:   st.Length(),
			Velocity: st.Velocity(),
			Tension:  st.Tension(),
			Status:   st.WrapStatus(),
		}
	}
	for i, a := range m.Actuators {
		f.Actuators[i] = ActuatorSample{Name: a.Name(), Activation: a.Activation(), Tension: a.Strap().Tension()}
	}
	for i, j := range m.Joints {
		f.Joints[i] = JointSample{Name: j.Name(), Feedback: j.Feedback()}
	}
	for i, b := range m.Bodies {
		f.Bodies[i] = BodySample{Name: b.Name(), Position: b.Position()}
	}
	return f
}

func (f *Frame) valid() bool {
	for _, b := range f.Bodies {
		if !b.Position.IsFinite() {
			return false
		}
	}
	for _, st := range f.Straps {
		if math.IsNaN(st.Length+st.Velocity) || math.IsInf(st.Length+st.Velocity, 0) {
			return false
		}
	}
	return true
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

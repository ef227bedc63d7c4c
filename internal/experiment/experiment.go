package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/scene"
	"github.com/san-kum/gaitsim/internal/sim"
)

type Config struct {
	Model      string
	Integrator string
	// Dt of 0 uses the model's IntegrationStepSize.
	Dt                 float64
	Duration           float64
	Seed               int64
	ParallelStraps     bool
	AbortOnWrapFailure bool
	RecordEvery        int
}

type Experiment struct {
	cfg       Config
	doc       *scene.Document
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the model and integrator, builds the model and attaches
// the registry's default metrics plus any extra ones.
func (e *Experiment) Setup(registry *Registry, extra ...sim.Metric) error {
	doc, err := registry.GetModel(e.cfg.Model)
	if err != nil {
		return err
	}
	return e.SetupDocument(doc, registry, extra...)
}

// SetupDocument is Setup for a document that has already been resolved,
// e.g. one carrying attribute overrides.
func (e *Experiment) SetupDocument(doc *scene.Document, registry *Registry, extra ...sim.Metric) error {
	integ, err := registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	m, err := scene.Build(doc, scene.Options{Integrator: integ, StepSize: e.cfg.Dt})
	if err != nil {
		return fmt.Errorf("model %s: %w", e.cfg.Model, err)
	}
	s, err := sim.New(m)
	if err != nil {
		return fmt.Errorf("model %s: %w", e.cfg.Model, err)
	}
	for _, metric := range registry.DefaultMetrics(m) {
		s.AddMetric(metric)
	}
	for _, metric := range extra {
		s.AddMetric(metric)
	}
	if e.cfg.Dt == 0 {
		e.cfg.Dt = m.Global.StepSize()
	}
	if e.cfg.Duration == 0 && m.Global.TimeLimit() > 0 {
		e.cfg.Duration = m.Global.TimeLimit()
	}
	e.doc = doc
	e.simulator = s
	logging.Debug("experiment ready", "model", e.cfg.Model, "integrator", e.cfg.Integrator, "dt", e.cfg.Dt)
	return nil
}

// SimConfig is the per-run configuration handed to the simulator.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:                 e.cfg.Dt,
		Duration:           e.cfg.Duration,
		ParallelStraps:     e.cfg.ParallelStraps,
		AbortOnWrapFailure: e.cfg.AbortOnWrapFailure,
		ValidateState:      true,
		RecordEvery:        e.cfg.RecordEvery,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// Job wraps the experiment for a sim.Batch.
func (e *Experiment) Job() (sim.Job, error) {
	if e.simulator == nil {
		return sim.Job{}, fmt.Errorf("experiment not setup")
	}
	return sim.Job{Name: e.cfg.Model, Sim: e.simulator, Config: e.SimConfig()}, nil
}

func (e *Experiment) Config() Config { return e.cfg }

func (e *Experiment) Document() *scene.Document { return e.doc }

func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

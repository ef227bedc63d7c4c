package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/experiment"
	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/scene"
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/spatial"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. Overrides are attribute paths in
// the form accepted by scene.Document.Set.
type ScenarioStep struct {
	Model              string            `yaml:"model"`
	Integrator         string            `yaml:"integrator"`
	Duration           float64           `yaml:"duration"`
	Dt                 float64           `yaml:"dt"`
	RecordEvery        int               `yaml:"record_every"`
	AbortOnWrapFailure bool              `yaml:"abort_on_wrap_failure"`
	Overrides          map[string]string `yaml:"overrides"`
	SaveAs             string            `yaml:"save_as"`
}

// StepResult pairs a finished step with the document it ran.
type StepResult struct {
	Step     ScenarioStep
	Document *scene.Document
	Config   experiment.Config
	Result   *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// prepare resolves model, applies overrides and sets up an experiment.
func prepare(registry *experiment.Registry, cfg experiment.Config, overrides map[string]string) (*experiment.Experiment, *scene.Document, error) {
	doc, err := registry.GetModel(cfg.Model)
	if err != nil {
		return nil, nil, err
	}
	if len(overrides) > 0 {
		if doc, err = doc.Apply(overrides); err != nil {
			return nil, nil, err
		}
	}
	exp := experiment.New(cfg)
	if err := exp.SetupDocument(doc, registry); err != nil {
		return nil, nil, err
	}
	return exp, doc, nil
}

// RunScenario executes the steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logging.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", step.Model)

		cfg := experiment.Config{
			Model:              step.Model,
			Integrator:         step.Integrator,
			Dt:                 step.Dt,
			Duration:           step.Duration,
			RecordEvery:        step.RecordEvery,
			AbortOnWrapFailure: step.AbortOnWrapFailure,
		}
		if cfg.Integrator == "" {
			cfg.Integrator = "rk4"
		}
		exp, doc, err := prepare(registry, cfg, step.Overrides)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Document: doc, Config: exp.Config(), Result: result})
	}

	return results, nil
}

// ParameterSweep runs a model once per value of one attribute, spread
// evenly over [Min, Max].
type ParameterSweep struct {
	Model      string
	Integrator string
	Attribute  string
	Min        float64
	Max        float64
	NumSteps   int
	Duration   float64
	Dt         float64
	// Parallel bounds the concurrent runs; zero means no bound.
	Parallel int
}

type SweepResult struct {
	Value        float64
	Steps        int
	WrapFailures int
	Metrics      map[string]float64
}

func (s *ParameterSweep) values() []float64 {
	if s.NumSteps == 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep runs every sweep point as one batch.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	values := sweep.values()
	jobs := make([]sim.Job, len(values))
	for i, v := range values {
		cfg := experiment.Config{
			Model:      sweep.Model,
			Integrator: sweep.Integrator,
			Dt:         sweep.Dt,
			Duration:   sweep.Duration,
		}
		exp, _, err := prepare(registry, cfg, map[string]string{sweep.Attribute: attr.FormatFloat(v)})
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Attribute, v, err)
		}
		if jobs[i], err = exp.Job(); err != nil {
			return nil, err
		}
		jobs[i].Name = fmt.Sprintf("%s=%g", sweep.Attribute, v)
	}

	runs, err := sim.NewBatch(jobs, sweep.Parallel).Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(values))
	for i, r := range runs {
		results[i] = SweepResult{
			Value:        values[i],
			Steps:        r.StepsTaken,
			WrapFailures: r.WrapFailures,
			Metrics:      r.Metrics,
		}
	}
	logging.Info("sweep finished", "attribute", sweep.Attribute, "points", len(results))
	return results, nil
}

// MonteCarloConfig perturbs marker positions with uniform noise to measure
// how robust a model's wraps are to attachment error.
type MonteCarloConfig struct {
	Model      string
	Integrator string
	// Markers limits the perturbed markers by ID; empty perturbs all.
	Markers      []string
	Perturbation float64
	NumTrials    int
	Duration     float64
	Dt           float64
	// Seed of zero draws a time-based seed.
	Seed int64
}

type MonteCarloResult struct {
	TrialID      int
	Offsets      map[string]spatial.Vector3
	WrapFailures int
	Err          error
}

// Robust reports whether the trial ran to completion without a failed
// wrap.
func (r MonteCarloResult) Robust() bool { return r.Err == nil && r.WrapFailures == 0 }

func perturb(doc *scene.Document, ids map[string]bool, amount float64, rng *rand.Rand) (*scene.Document, map[string]spatial.Vector3, error) {
	out := doc.Clone()
	offsets := make(map[string]spatial.Vector3)
	for i := range out.Elements {
		e := &out.Elements[i]
		if e.Tag != scene.TagMarker {
			continue
		}
		id := e.Attributes["ID"]
		if len(ids) > 0 && !ids[id] {
			continue
		}
		r := attr.NewReader(e.Attributes, scene.TagMarker)
		pos := r.OptionalVector3("Position", spatial.Zero)
		if err := r.Err(); err != nil {
			return nil, nil, err
		}
		d := spatial.V(
			(rng.Float64()-0.5)*2*amount,
			(rng.Float64()-0.5)*2*amount,
			(rng.Float64()-0.5)*2*amount,
		)
		e.Attributes.Set("Position", attr.FormatVector3(pos.Add(d)))
		offsets[id] = d
	}
	return out, offsets, nil
}

// RunMonteCarlo runs NumTrials perturbed copies of the model. Failed wraps
// are counted, never fatal; a trial that errors is recorded and the next
// trial runs.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	base, err := registry.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ids := make(map[string]bool, len(cfg.Markers))
	for _, id := range cfg.Markers {
		ids[id] = true
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		doc, offsets, err := perturb(base, ids, cfg.Perturbation, rng)
		if err != nil {
			return nil, err
		}

		res := MonteCarloResult{TrialID: trial, Offsets: offsets}
		exp := experiment.New(experiment.Config{
			Model:      cfg.Model,
			Integrator: cfg.Integrator,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
		})
		if err := exp.SetupDocument(doc, registry); err != nil {
			res.Err = err
		} else {
			r, err := exp.Run(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			res.Err = err
			if r != nil {
				res.WrapFailures = r.WrapFailures
			}
		}
		results = append(results, res)

		if (trial+1)%10 == 0 {
			logging.Info("monte carlo progress", "trials", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (robust int, failing int) {
	for _, r := range results {
		if r.Robust() {
			robust++
		} else {
			failing++
		}
	}
	return
}

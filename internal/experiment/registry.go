package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gaitsim/internal/integrators"
	"github.com/san-kum/gaitsim/internal/metrics"
	"github.com/san-kum/gaitsim/internal/scene"
	"github.com/san-kum/gaitsim/internal/sim"
)

// Registry resolves model, integrator and metric names.
type Registry struct {
	integrators map[string]func() integrators.Integrator
	metrics     map[string]func(m *sim.Model) []sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() integrators.Integrator),
		metrics:     make(map[string]func(*sim.Model) []sim.Metric),
	}

	r.integrators["euler"] = func() integrators.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() integrators.Integrator { return integrators.NewRK4() }

	r.metrics["wrap_failures"] = func(*sim.Model) []sim.Metric {
		return []sim.Metric{metrics.NewWrapFailures()}
	}
	r.metrics["peak_joint_load"] = func(*sim.Model) []sim.Metric {
		return []sim.Metric{metrics.NewPeakJointLoad()}
	}
	r.metrics["activation_effort"] = func(*sim.Model) []sim.Metric {
		return []sim.Metric{metrics.NewActivationEffort()}
	}
	r.metrics["strap_work"] = func(m *sim.Model) []sim.Metric {
		out := make([]sim.Metric, 0, len(m.Straps))
		for _, s := range m.Straps {
			out = append(out, metrics.NewStrapWork(s.Name()))
		}
		return out
	}

	return r
}

// GetModel returns a builtin model document or loads one from a path.
func (r *Registry) GetModel(name string) (*scene.Document, error) {
	return scene.Resolve(name)
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMetrics(name string, m *sim.Model) ([]sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(m), nil
}

func (r *Registry) ListModels() []string { return scene.Builtins() }

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func (r *Registry) ListMetrics() []string { return sortedKeys(r.metrics) }

// DefaultMetrics is every registered metric bound to m.
func (r *Registry) DefaultMetrics(m *sim.Model) []sim.Metric {
	var out []sim.Metric
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](m)...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

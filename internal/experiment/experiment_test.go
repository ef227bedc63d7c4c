package experiment

import (
	"context"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetIntegrator("rk4"); err != nil {
		t.Errorf("expected rk4, got %v", err)
	}
	if _, err := r.GetIntegrator("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if len(r.ListModels()) != 3 {
		t.Errorf("expected 3 builtin models, got %v", r.ListModels())
	}
	want := []string{"activation_effort", "peak_joint_load", "strap_work", "wrap_failures"}
	got := r.ListMetrics()
	if len(got) != len(want) {
		t.Fatalf("expected metrics %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("metric %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestExperimentRun(t *testing.T) {
	e := New(Config{Model: "leg", Integrator: "rk4", Duration: 0.05, RecordEvery: 5})
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if err := e.Setup(NewRegistry()); err != nil {
		t.Fatal(err)
	}
	if e.Config().Dt != 0.001 {
		t.Errorf("expected model step size 0.001, got %f", e.Config().Dt)
	}

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.StepsTaken != 50 {
		t.Errorf("expected 50 steps, got %d", res.StepsTaken)
	}
	if len(res.Frames) != 10 {
		t.Errorf("expected 10 frames, got %d", len(res.Frames))
	}
	for _, name := range []string{"wrap_failures", "peak_joint_load", "activation_effort", "strap_work_left_quadriceps_path"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("metric %s missing from %v", name, res.Metrics)
		}
	}
	if res.Metrics["wrap_failures"] != 0 {
		t.Errorf("expected no wrap failures, got %f", res.Metrics["wrap_failures"])
	}
}

func TestExperimentSetupErrors(t *testing.T) {
	tests := []Config{
		{Model: "nonexistent", Integrator: "rk4", Duration: 1},
		{Model: "leg", Integrator: "leapfrog", Duration: 1},
	}
	for _, cfg := range tests {
		if err := New(cfg).Setup(NewRegistry()); err == nil {
			t.Errorf("expected setup error for %+v", cfg)
		}
	}
}

package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/wrap"
)

func testResult() *sim.Result {
	frame := func(t, length float64) sim.Frame {
		return sim.Frame{
			Time: t,
			Straps: []sim.StrapSample{
				{Name: "quad", Length: length, Velocity: -0.1, Tension: 20, Status: wrap.StatusDouble},
			},
			Actuators: []sim.ActuatorSample{{Name: "quad_muscle", Activation: 0.4, Tension: 20}},
			Joints: []sim.JointSample{
				{Name: "knee", Feedback: engine.Feedback{Force1: spatial.V(3, 4, 0)}},
			},
			Bodies: []sim.BodySample{{Name: "shank", Position: spatial.V(0.1, 0, 0.25)}},
		}
	}
	return &sim.Result{
		Frames:       []sim.Frame{frame(0, 0.5), frame(0.01, 0.499)},
		Metrics:      map[string]float64{"wrap_failures": 0, "peak_joint_load": 5},
		StepsTaken:   20,
		WrapFailures: 0,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	info := RunInfo{Model: "models/leg.yaml", Integrator: "rk4", Dt: 1e-3, Duration: 0.02, Seed: 42, Document: []byte("name: leg\n")}
	runID, err := st.Save(info, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "leg_") {
		t.Errorf("expected run id prefixed with the model name, got %s", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Steps != 20 || meta.Integrator != "rk4" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.ModelHash != ModelHash(info.Document) {
		t.Errorf("expected model hash %s, got %s", ModelHash(info.Document), meta.ModelHash)
	}
	if meta.Metrics["peak_joint_load"] != 5 {
		t.Errorf("expected peak joint load 5, got %f", meta.Metrics["peak_joint_load"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples.Times) != 2 || samples.Times[1] != 0.01 {
		t.Fatalf("expected two samples ending at 0.01, got %v", samples.Times)
	}
	if len(samples.Columns) != len(meta.Columns) {
		t.Errorf("csv columns %v differ from metadata %v", samples.Columns, meta.Columns)
	}

	lengths, err := samples.Series("quad.length")
	if err != nil {
		t.Fatal(err)
	}
	if lengths[0] != 0.5 || lengths[1] != 0.499 {
		t.Errorf("expected lengths [0.5 0.499], got %v", lengths)
	}
	force, err := samples.Series("knee.force")
	if err != nil {
		t.Fatal(err)
	}
	if force[0] != 5 {
		t.Errorf("expected joint force magnitude 5, got %f", force[0])
	}
	status, _ := samples.Series("quad.status")
	if status[0] != float64(wrap.StatusDouble) {
		t.Errorf("expected status column %d, got %f", wrap.StatusDouble, status[0])
	}
	if _, err := samples.Series("hamstring.length"); err == nil {
		t.Error("expected error for unknown column")
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("expected one listed run %s, got %+v", runID, runs)
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/absent").List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestModelHash(t *testing.T) {
	a := ModelHash([]byte("name: leg"))
	if a != ModelHash([]byte("name: leg")) {
		t.Error("hash is not stable")
	}
	if a == ModelHash([]byte("name: elbow")) {
		t.Error("different documents share a hash")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex digits, got %q", a)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	info := RunInfo{Model: "leg", Integrator: "euler", Dt: 1e-3, Duration: 0.02}
	if err := ExportJSON(&buf, info, testResult()); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Steps != 20 || len(data.Samples) != 2 {
		t.Errorf("expected 20 steps and 2 samples, got %d and %d", data.Steps, len(data.Samples))
	}
	if len(data.Columns) != len(data.Samples[0]) {
		t.Errorf("expected %d values per sample, got %d", len(data.Columns), len(data.Samples[0]))
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &sim.Result{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output, got %q", buf.String())
	}
}

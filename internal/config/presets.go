package config

var Presets = map[string]map[string]*Config{
	"leg": {
		"stride": {
			Model: "leg", Integrator: "rk4", Duration: 2.0, RecordEvery: 10,
		},
		"long": {
			Model: "leg", Integrator: "rk4", Duration: 10.0, RecordEvery: 20, ParallelStraps: true,
		},
		"coarse": {
			Model: "leg", Integrator: "euler", Dt: 5e-4, Duration: 1.0, RecordEvery: 10,
		},
		"strict": {
			Model: "leg", Integrator: "rk4", Duration: 2.0, RecordEvery: 10, AbortOnWrapFailure: true,
		},
	},
	"elbow": {
		"hold": {
			Model: "elbow", Integrator: "rk4", Duration: 3.0, RecordEvery: 10,
		},
		"quick": {
			Model: "elbow", Integrator: "rk4", Duration: 0.5, RecordEvery: 1,
		},
	},
	"shoulder": {
		"abduct": {
			Model: "shoulder", Integrator: "rk4", Duration: 2.0, RecordEvery: 10,
		},
		"fine": {
			Model: "shoulder", Integrator: "rk4", Dt: 2e-4, Duration: 0.5, RecordEvery: 25,
		},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.Integrator = p.Integrator
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.RecordEvery = p.RecordEvery
	cfg.ParallelStraps = p.ParallelStraps
	cfg.AbortOnWrapFailure = p.AbortOnWrapFailure
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gaitsim/internal/strap"
)

const (
	DefaultModel      = "leg"
	DefaultIntegrator = "rk4"
	DefaultDuration   = 2.0
	DefaultLogLevel   = "info"
)

type Config struct {
	Model      string `yaml:"model" toml:"model"`
	Integrator string `yaml:"integrator" toml:"integrator"`
	// Dt of 0 uses the model's IntegrationStepSize.
	Dt                 float64      `yaml:"dt" toml:"dt"`
	Duration           float64      `yaml:"duration" toml:"duration"`
	Seed               int64        `yaml:"seed" toml:"seed"`
	ParallelStraps     bool         `yaml:"parallel_straps" toml:"parallel_straps"`
	AbortOnWrapFailure bool         `yaml:"abort_on_wrap_failure" toml:"abort_on_wrap_failure"`
	RecordEvery        int          `yaml:"record_every" toml:"record_every"`
	LogLevel           string       `yaml:"log_level" toml:"log_level"`
	Sanity             SanityConfig `yaml:"sanity" toml:"sanity"`
}

// SanityConfig names the mirror axis and the left/right name tokens used
// to pair straps for the symmetry check.
type SanityConfig struct {
	Axis  string `yaml:"axis" toml:"axis"`
	Left  string `yaml:"left" toml:"left"`
	Right string `yaml:"right" toml:"right"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Integrator:  DefaultIntegrator,
		Duration:    DefaultDuration,
		RecordEvery: 10,
		LogLevel:    DefaultLogLevel,
		Sanity: SanityConfig{
			Axis:  strap.AxisX.String(),
			Left:  "left",
			Right: "right",
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or, for a .toml extension, TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Dt < 0:
		return fmt.Errorf("dt must not be negative, got %g", c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	case c.RecordEvery < 0:
		return fmt.Errorf("record_every must not be negative, got %d", c.RecordEvery)
	}
	if _, err := strap.ParseAxis(c.Sanity.Axis); err != nil {
		return fmt.Errorf("sanity: %w", err)
	}
	return nil
}

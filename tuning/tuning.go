// Package tuning loads engine and editor timing and geometry from YAML.
package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/jade/blocks"
	"github.com/phanxgames/jade/engine"
)

type Tuning struct {
	StepDelayMs    int  `yaml:"step_delay_ms"`
	SecondsScaleMs int  `yaml:"seconds_scale_ms"`
	Trace          bool `yaml:"trace"`

	Snap blocks.SnapConfig `yaml:"snap"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		StepDelayMs:    int(engine.DefaultStepDelay / time.Millisecond),
		SecondsScaleMs: int(engine.DefaultSecondsScale / time.Millisecond),
		Snap:           blocks.DefaultSnapConfig(),
	}
}

// Load reads path over the defaults; keys absent from the file keep their
// default value.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := Parse(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes YAML into t and validates the result.
func Parse(raw []byte, t *Tuning) error {
	if err := yaml.Unmarshal(raw, t); err != nil {
		return err
	}
	return t.Validate()
}

// Validate rejects values the engine cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.StepDelayMs <= 0:
		return fmt.Errorf("step_delay_ms must be positive, got %d", t.StepDelayMs)
	case t.SecondsScaleMs <= 0:
		return fmt.Errorf("seconds_scale_ms must be positive, got %d", t.SecondsScaleMs)
	case t.Snap.Distance <= 0:
		return fmt.Errorf("snap.distance must be positive, got %v", t.Snap.Distance)
	case t.Snap.Overlap < 0:
		return fmt.Errorf("snap.overlap must not be negative, got %v", t.Snap.Overlap)
	}
	return nil
}

// EngineConfig returns the engine timing.
func (t Tuning) EngineConfig() engine.Config {
	return engine.Config{
		StepDelay:    time.Duration(t.StepDelayMs) * time.Millisecond,
		SecondsScale: time.Duration(t.SecondsScaleMs) * time.Millisecond,
		Trace:        t.Trace,
	}
}

// SnapConfig returns the drop-to-connect geometry.
func (t Tuning) SnapConfig() blocks.SnapConfig {
	return t.Snap
}

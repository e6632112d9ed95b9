package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/todmy/movement-tracker/internal/classify"
	"github.com/todmy/movement-tracker/internal/confidence"
)

// Detection is the full movement detection configuration, loaded once
// at startup and immutable afterwards.
type Detection struct {
	// EmitThreshold gates event emission on the final scored
	// confidence. Distinct from the per-type min_confidence in the
	// ruleset, which gates classification.
	EmitThreshold float64 `yaml:"emit_threshold"`

	// MaxConcurrent bounds batch processing parallelism.
	MaxConcurrent int `yaml:"max_concurrent"`

	RuleSet classify.RuleSet   `yaml:"ruleset"`
	Profile confidence.Profile `yaml:"profile"`
}

// Default returns the built-in detection configuration
func Default() Detection {
	return Detection{
		EmitThreshold: 0.5,
		MaxConcurrent: 8,
		RuleSet:       classify.DefaultRuleSet(),
		Profile:       confidence.DefaultProfile(),
	}
}

func (d *Detection) defaults() {
	if d.EmitThreshold <= 0 {
		d.EmitThreshold = 0.5
	}
	if d.MaxConcurrent <= 0 {
		d.MaxConcurrent = 8
	}
	if len(d.RuleSet.MovementTypes) == 0 {
		d.RuleSet = classify.DefaultRuleSet()
	}
	if len(d.Profile.DataSourceWeights) == 0 {
		d.Profile = confidence.DefaultProfile()
	}
}

// Load reads and validates a detection config file. Validation errors
// are fatal: callers must refuse to start rather than run with a
// partially understood configuration.
func Load(path string) (*Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	detection := &Detection{}
	if err := yaml.Unmarshal(data, detection); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	detection.defaults()

	if err := detection.Validate(); err != nil {
		return nil, err
	}
	return detection, nil
}

// Validate checks the composed configuration
func (d *Detection) Validate() error {
	if d.EmitThreshold < 0 || d.EmitThreshold > 1 {
		return fmt.Errorf("config: emit_threshold %v out of [0,1]", d.EmitThreshold)
	}
	if err := d.RuleSet.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := d.Profile.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

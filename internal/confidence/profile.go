package confidence

import (
	"fmt"

	"github.com/todmy/movement-tracker/pkg/models"
)

// UnknownSource is the required fallback key in DataSourceWeights
const UnknownSource = "unknown"

// RecencyMultipliers scales confidence by how fresh the observation is.
// Buckets are inclusive day ranges from the observation timestamp to
// scoring time.
type RecencyMultipliers struct {
	Days0To7     float64 `yaml:"days_0_7"`
	Days8To30    float64 `yaml:"days_8_30"`
	Days31To90   float64 `yaml:"days_31_90"`
	Days91To180  float64 `yaml:"days_91_180"`
	Days181To365 float64 `yaml:"days_181_365"`
	Days365Plus  float64 `yaml:"days_365_plus"`
}

// CompletenessBonus rewards snapshots that carry more of the fields the
// downstream consumers care about.
type CompletenessBonus struct {
	AllFieldsPresent      float64 `yaml:"all_fields_present"`
	CriticalFieldsPresent float64 `yaml:"critical_fields_present"`
	PartialFields         float64 `yaml:"partial_fields"`
	MinimalFields         float64 `yaml:"minimal_fields"`
}

// Profile is the full confidence scoring configuration. It is loaded
// once at startup, validated, and treated as immutable afterwards.
type Profile struct {
	DataSourceWeights      map[string]float64            `yaml:"data_source_weights"`
	RecencyMultipliers     RecencyMultipliers            `yaml:"recency_multipliers"`
	FieldCompletenessBonus CompletenessBonus             `yaml:"field_completeness_bonus"`
	CriticalFields         []string                      `yaml:"critical_fields"`
	MovementModifiers      map[string]map[string]float64 `yaml:"movement_confidence_modifiers"`
	MinimumBaseConfidence  float64                       `yaml:"minimum_base_confidence"`
	MaximumConfidence      float64                       `yaml:"maximum_confidence"`
}

// DefaultProfile returns the built-in scoring profile. Deployments
// normally override it from the detection config file.
func DefaultProfile() Profile {
	return Profile{
		DataSourceWeights: map[string]float64{
			"vendor_a":    1.0,
			"vendor_b":    0.9,
			"manual":      0.95,
			UnknownSource: 0.6,
		},
		RecencyMultipliers: RecencyMultipliers{
			Days0To7:     1.0,
			Days8To30:    0.95,
			Days31To90:   0.85,
			Days91To180:  0.7,
			Days181To365: 0.55,
			Days365Plus:  0.4,
		},
		FieldCompletenessBonus: CompletenessBonus{
			AllFieldsPresent:      0.1,
			CriticalFieldsPresent: 0.06,
			PartialFields:         0.03,
			MinimalFields:         0.0,
		},
		CriticalFields: []string{
			models.FieldFullName,
			models.FieldTitle,
			models.FieldCompanyName,
			models.FieldCompanyID,
		},
		MovementModifiers: map[string]map[string]float64{
			string(models.MovementHire): {
				ModifierHasStartDate:     0.05,
				ModifierLinkedInVerified: 0.05,
			},
			string(models.MovementExit): {
				ModifierHasEndDate: 0.05,
			},
			string(models.MovementPromotion): {
				ModifierTitleLevelClear:     0.05,
				ModifierSameCompanyVerified: 0.05,
			},
			string(models.MovementTransfer): {
				ModifierLinkedInVerified: 0.05,
			},
		},
		MinimumBaseConfidence: 0.1,
		MaximumConfidence:     0.99,
	}
}

// Validate checks the profile invariants. Failures are configuration
// errors: the embedder must refuse to start on them.
func (p *Profile) Validate() error {
	if len(p.DataSourceWeights) == 0 {
		return fmt.Errorf("profile: data_source_weights missing")
	}
	if w, ok := p.DataSourceWeights[UnknownSource]; !ok {
		return fmt.Errorf("profile: data_source_weights must define the %q fallback", UnknownSource)
	} else if w <= 0 {
		return fmt.Errorf("profile: %q source weight must be positive", UnknownSource)
	}

	multipliers := []struct {
		name  string
		value float64
	}{
		{"days_0_7", p.RecencyMultipliers.Days0To7},
		{"days_8_30", p.RecencyMultipliers.Days8To30},
		{"days_31_90", p.RecencyMultipliers.Days31To90},
		{"days_91_180", p.RecencyMultipliers.Days91To180},
		{"days_181_365", p.RecencyMultipliers.Days181To365},
		{"days_365_plus", p.RecencyMultipliers.Days365Plus},
	}
	for _, m := range multipliers {
		if m.value <= 0 {
			return fmt.Errorf("profile: recency multiplier %s must be positive", m.name)
		}
	}

	if len(p.CriticalFields) == 0 {
		return fmt.Errorf("profile: critical_fields missing")
	}
	known := make(map[string]bool)
	for _, f := range models.SnapshotFields() {
		known[f] = true
	}
	for _, f := range p.CriticalFields {
		if !known[f] {
			return fmt.Errorf("profile: unknown critical field %q", f)
		}
	}

	for movementType, modifiers := range p.MovementModifiers {
		for condition := range modifiers {
			if _, ok := modifierConditions[condition]; !ok {
				return fmt.Errorf("profile: movement type %q: unknown modifier condition %q", movementType, condition)
			}
		}
	}

	if p.MinimumBaseConfidence < 0 || p.MinimumBaseConfidence > 1 {
		return fmt.Errorf("profile: minimum_base_confidence %v out of [0,1]", p.MinimumBaseConfidence)
	}
	if p.MaximumConfidence <= 0 || p.MaximumConfidence > 1 {
		return fmt.Errorf("profile: maximum_confidence %v out of (0,1]", p.MaximumConfidence)
	}
	if p.MinimumBaseConfidence >= p.MaximumConfidence {
		return fmt.Errorf("profile: minimum_base_confidence %v must be below maximum_confidence %v", p.MinimumBaseConfidence, p.MaximumConfidence)
	}

	return nil
}

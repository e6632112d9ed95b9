package confidence

import (
	"fmt"
	"math"
	"time"

	"github.com/todmy/movement-tracker/internal/diff"
	"github.com/todmy/movement-tracker/pkg/models"
)

// Confidence tiers layered on top of the numeric score
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Tier thresholds
const (
	tierHighThreshold   = 0.85
	tierMediumThreshold = 0.65
)

// Movement modifier condition names
const (
	ModifierHasStartDate        = "has_start_date"
	ModifierHasEndDate          = "has_end_date"
	ModifierLinkedInVerified    = "linkedin_verified"
	ModifierTitleLevelClear     = "title_level_clear"
	ModifierSameCompanyVerified = "same_company_verified"
)

// modifierConditions dispatches modifier names to their boolean checks
// over the scored snapshot and candidate metadata. The closed set means
// a misspelled condition in configuration fails validation instead of
// silently contributing nothing.
var modifierConditions = map[string]func(snapshot *models.PersonSnapshot, metadata map[string]string) bool{
	ModifierHasStartDate: func(s *models.PersonSnapshot, meta map[string]string) bool {
		return (s != nil && s.StartDate != nil) || meta["start_date"] != ""
	},
	ModifierHasEndDate: func(s *models.PersonSnapshot, meta map[string]string) bool {
		return (s != nil && s.EndDate != nil) || meta["end_date"] != ""
	},
	ModifierLinkedInVerified: func(s *models.PersonSnapshot, meta map[string]string) bool {
		return diff.NormalizeValue(s.Field(models.FieldLinkedInURL)) != ""
	},
	ModifierTitleLevelClear: func(s *models.PersonSnapshot, meta map[string]string) bool {
		return meta["new_level"] != "" || meta["old_level"] != ""
	},
	ModifierSameCompanyVerified: func(s *models.PersonSnapshot, meta map[string]string) bool {
		return meta["company_id_unchanged"] == "true"
	},
}

// Scorer adjusts a classifier's base confidence using source
// reliability, recency, completeness and movement-specific signals.
// It is pure: same inputs, same score.
type Scorer struct {
	profile   Profile
	allFields []string
	now       func() time.Time
}

// Option customizes scorer construction
type Option func(*Scorer)

// WithClock overrides the scoring clock, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		s.now = now
	}
}

// NewScorer validates the profile and builds a scorer
func NewScorer(profile Profile, opts ...Option) (*Scorer, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("validate profile: %w", err)
	}

	s := &Scorer{
		profile:   profile,
		allFields: models.SnapshotFields(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score applies the adjustment pipeline in fixed order: source weight,
// recency multiplier, completeness bonus, movement modifiers, then a
// single clamp into [minimum_base_confidence, maximum_confidence] and
// rounding to 3 decimals. Clamping only at the end is deliberate: an
// intermediate clamp would let later bonuses push past the ceiling.
func (s *Scorer) Score(base float64, movementType models.MovementType, snapshot *models.PersonSnapshot, metadata map[string]string) float64 {
	score := base

	score *= s.sourceWeight(snapshot)
	score *= s.recencyMultiplier(snapshot)
	score += s.completenessBonus(snapshot)
	score += s.movementBonus(movementType, snapshot, metadata)

	score = math.Max(s.profile.MinimumBaseConfidence, math.Min(s.profile.MaximumConfidence, score))
	return math.Round(score*1000) / 1000
}

// Tier buckets a score into high / medium / low
func Tier(confidence float64) string {
	switch {
	case confidence >= tierHighThreshold:
		return TierHigh
	case confidence >= tierMediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func (s *Scorer) sourceWeight(snapshot *models.PersonSnapshot) float64 {
	source := ""
	if snapshot != nil {
		source = diff.NormalizeValue(snapshot.DataSource)
	}
	if w, ok := s.profile.DataSourceWeights[source]; ok {
		return w
	}
	return s.profile.DataSourceWeights[UnknownSource]
}

// recencyMultiplier buckets the observation age in days. An absent or
// zero timestamp is treated as stale, not fresh.
func (s *Scorer) recencyMultiplier(snapshot *models.PersonSnapshot) float64 {
	m := s.profile.RecencyMultipliers

	if snapshot == nil || snapshot.UpdatedAt.IsZero() {
		return m.Days365Plus
	}

	age := s.now().Sub(snapshot.UpdatedAt)
	days := int(age.Hours() / 24)

	switch {
	case days <= 7:
		return m.Days0To7
	case days <= 30:
		return m.Days8To30
	case days <= 90:
		return m.Days31To90
	case days <= 180:
		return m.Days91To180
	case days <= 365:
		return m.Days181To365
	default:
		return m.Days365Plus
	}
}

func (s *Scorer) completenessBonus(snapshot *models.PersonSnapshot) float64 {
	bonus := s.profile.FieldCompletenessBonus

	criticalPresent := 0
	for _, field := range s.profile.CriticalFields {
		if diff.NormalizeValue(snapshot.Field(field)) != "" {
			criticalPresent++
		}
	}
	criticalComplete := criticalPresent == len(s.profile.CriticalFields)

	allComplete := true
	for _, field := range s.allFields {
		if diff.NormalizeValue(snapshot.Field(field)) == "" {
			allComplete = false
			break
		}
	}

	switch {
	case criticalComplete && allComplete:
		return bonus.AllFieldsPresent
	case criticalComplete:
		return bonus.CriticalFieldsPresent
	case criticalPresent >= 2:
		return bonus.PartialFields
	default:
		return bonus.MinimalFields
	}
}

func (s *Scorer) movementBonus(movementType models.MovementType, snapshot *models.PersonSnapshot, metadata map[string]string) float64 {
	modifiers, ok := s.profile.MovementModifiers[string(movementType)]
	if !ok {
		return 0
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	total := 0.0
	for condition, bonus := range modifiers {
		if modifierConditions[condition](snapshot, metadata) {
			total += bonus
		}
	}
	return total
}

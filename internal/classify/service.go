package classify

import (
	"fmt"
	"strings"
	"time"

	"github.com/todmy/movement-tracker/internal/diff"
	"github.com/todmy/movement-tracker/pkg/models"
)

// Classifier evaluates the configured movement rules against snapshot
// deltas. It holds only read-only configuration plus a tier lookup
// cache, so one instance can serve concurrent workers.
type Classifier struct {
	rules           RuleSet
	recentStartDays int
	tiers           *tierCache
	now             func() time.Time
}

// Option customizes classifier construction
type Option func(*Classifier)

// WithClock overrides the classification clock, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

// NewClassifier validates the ruleset and builds a classifier. An
// invalid ruleset is a configuration error: the caller must refuse to
// start rather than classify with it.
func NewClassifier(rules RuleSet, opts ...Option) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate ruleset: %w", err)
	}

	recentDays := rules.RecentStartDays
	if recentDays <= 0 {
		recentDays = DefaultRecentStartDays
	}

	c := &Classifier{
		rules:           rules,
		recentStartDays: recentDays,
		tiers:           newTierCache(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Classify evaluates the delta between two snapshots and returns the
// best-matching movement candidate, or nil when the delta carries no
// changes or no movement type's rules win.
//
// Movement types are tried in declaration order; a type wins when at
// least one rule matches and the highest matched weight reaches the
// type's min_confidence. The first winner is returned, so earlier
// declaration means higher priority. Either snapshot may be nil and
// compares as all-empty, which lets exit rules fire for persons absent
// from the current dataset.
func (c *Classifier) Classify(old, new *models.PersonSnapshot, delta models.StateDelta) *models.MovementCandidate {
	if !delta.HasChanges {
		return nil
	}

	ec := evalContext{
		old:   old,
		new:   new,
		delta: &delta,
		now:   c.now(),
	}

	for _, mt := range c.rules.MovementTypes {
		ec.promotionKeywords = mt.PromotionKeywords

		best := -1.0
		var matched []string
		for _, rule := range mt.Rules {
			if !c.evalRule(rule, &ec) {
				continue
			}
			matched = append(matched, rule.Condition)
			if rule.Weight > best {
				best = rule.Weight
			}
		}

		if len(matched) == 0 || best < mt.MinConfidence {
			continue
		}

		return &models.MovementCandidate{
			Type:              mt.Type,
			BaseConfidence:    best,
			MatchedConditions: matched,
			Metadata:          c.extractMetadata(mt.Type, old, new, &delta),
		}
	}

	return nil
}

func (c *Classifier) evalRule(rule Rule, ec *evalContext) bool {
	for _, p := range rule.predicates {
		if !c.evalPredicate(p, ec) {
			return false
		}
	}
	return true
}

// evalContext carries the per-classification inputs predicates inspect.
// Predicates never touch external state.
type evalContext struct {
	old               *models.PersonSnapshot
	new               *models.PersonSnapshot
	delta             *models.StateDelta
	now               time.Time
	promotionKeywords []string
}

func (c *Classifier) evalPredicate(p predicate, ec *evalContext) bool {
	switch p.kind {
	case predFieldChanged:
		return ec.delta.Changed(p.field)
	case predFieldUnchanged:
		return !ec.delta.Changed(p.field)
	case predOldFieldNull:
		return diff.NormalizeValue(ec.old.Field(p.field)) == ""
	case predOldFieldPresent:
		return diff.NormalizeValue(ec.old.Field(p.field)) != ""
	case predNewFieldNull:
		return diff.NormalizeValue(ec.new.Field(p.field)) == ""
	case predNewFieldPresent:
		return diff.NormalizeValue(ec.new.Field(p.field)) != ""
	case predSeniorityIncreased:
		return c.CompareTitles(ec.old.Field(models.FieldTitle), ec.new.Field(models.FieldTitle)) > 0
	case predSeniorityDecreased:
		return c.CompareTitles(ec.old.Field(models.FieldTitle), ec.new.Field(models.FieldTitle)) < 0
	case predSeniorityUnchanged:
		return c.CompareTitles(ec.old.Field(models.FieldTitle), ec.new.Field(models.FieldTitle)) == 0
	case predStartDateRecent:
		if ec.new == nil || ec.new.StartDate == nil {
			return false
		}
		cutoff := ec.now.AddDate(0, 0, -c.recentStartDays)
		return ec.new.StartDate.After(cutoff)
	case predEndDatePresent:
		return ec.new != nil && ec.new.EndDate != nil
	case predPromotionKeyword:
		title := strings.ToLower(diff.NormalizeValue(ec.new.Field(models.FieldTitle)))
		return title != "" && containsAny(title, ec.promotionKeywords)
	}
	return false
}

// extractMetadata attaches movement-type-specific context for
// downstream consumers. It never influences the classification
// decision itself.
func (c *Classifier) extractMetadata(mt models.MovementType, old, new *models.PersonSnapshot, delta *models.StateDelta) map[string]string {
	meta := make(map[string]string)

	switch mt {
	case models.MovementHire:
		meta["new_company"] = diff.NormalizeValue(new.Field(models.FieldCompanyName))
		meta["new_title"] = diff.NormalizeValue(new.Field(models.FieldTitle))
		if new != nil && new.StartDate != nil {
			meta["start_date"] = new.StartDate.Format(models.DateLayout)
		}
	case models.MovementExit:
		meta["old_company"] = diff.NormalizeValue(old.Field(models.FieldCompanyName))
		meta["old_title"] = diff.NormalizeValue(old.Field(models.FieldTitle))
		if new != nil && new.EndDate != nil {
			meta["end_date"] = new.EndDate.Format(models.DateLayout)
		}
	case models.MovementPromotion:
		meta["old_title"] = diff.NormalizeValue(old.Field(models.FieldTitle))
		meta["new_title"] = diff.NormalizeValue(new.Field(models.FieldTitle))
		if c.hasTierKeyword(old.Field(models.FieldTitle)) {
			meta["old_level"] = c.TierName(c.TierRank(old.Field(models.FieldTitle)))
		}
		if c.hasTierKeyword(new.Field(models.FieldTitle)) {
			meta["new_level"] = c.TierName(c.TierRank(new.Field(models.FieldTitle)))
		}
	case models.MovementTransfer:
		meta["old_company"] = diff.NormalizeValue(old.Field(models.FieldCompanyName))
		meta["new_company"] = diff.NormalizeValue(new.Field(models.FieldCompanyName))
		meta["title"] = diff.NormalizeValue(new.Field(models.FieldTitle))
	default:
		meta["old_title"] = diff.NormalizeValue(old.Field(models.FieldTitle))
		meta["new_title"] = diff.NormalizeValue(new.Field(models.FieldTitle))
	}

	oldID := diff.NormalizeValue(old.Field(models.FieldCompanyID))
	if oldID != "" && !delta.Changed(models.FieldCompanyID) {
		meta["company_id_unchanged"] = "true"
	}

	return meta
}

package classify

import (
	"fmt"
	"strings"

	"github.com/todmy/movement-tracker/pkg/models"
)

// predicateKind enumerates the closed set of rule conditions. Rule
// expressions are parsed into these variants at configuration load, so
// a misspelled condition name fails validation instead of silently
// evaluating to false.
type predicateKind int

const (
	predFieldChanged predicateKind = iota
	predFieldUnchanged
	predOldFieldNull
	predOldFieldPresent
	predNewFieldNull
	predNewFieldPresent
	predSeniorityIncreased
	predSeniorityDecreased
	predSeniorityUnchanged
	predStartDateRecent
	predEndDatePresent
	predPromotionKeyword
)

// predicate is one parsed condition term. field is set only for the
// field-parameterized kinds.
type predicate struct {
	kind  predicateKind
	field string
	name  string
}

// Rule is one weighted condition expression for a movement type
type Rule struct {
	// Condition is a conjunction of condition names joined by "AND",
	// e.g. "company_name_changed AND title_changed".
	Condition string  `yaml:"condition"`
	Weight    float64 `yaml:"weight"`

	predicates []predicate
}

// MovementRules holds the ordered rule list for one movement type
type MovementRules struct {
	Type          models.MovementType `yaml:"type"`
	MinConfidence float64             `yaml:"min_confidence"`
	Rules         []Rule              `yaml:"rules"`

	// PromotionKeywords backs the promotion_keyword_match condition
	// for this movement type.
	PromotionKeywords []string `yaml:"promotion_keywords,omitempty"`
}

// TitleLevel is one seniority tier. Tiers are declared lowest first;
// slice position is the rank.
type TitleLevel struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet is the full classifier configuration. MovementTypes are
// evaluated in declaration order and the first winner is returned, so
// declaration order encodes priority. That ordering is a documented
// contract, covered by tests, not an accident of iteration order.
type RuleSet struct {
	MovementTypes []MovementRules `yaml:"movement_types"`
	TitleLevels   []TitleLevel    `yaml:"title_levels"`

	// RecentStartDays bounds the start_date_recent condition. Zero
	// falls back to DefaultRecentStartDays.
	RecentStartDays int `yaml:"recent_start_days"`
}

// DefaultRecentStartDays bounds start_date_recent when unconfigured
const DefaultRecentStartDays = 90

// Validate compiles every rule expression and checks the ruleset
// invariants. It must be called (and pass) before classification;
// NewClassifier does so. Validation failures are configuration errors
// and should abort startup.
func (rs *RuleSet) Validate() error {
	if len(rs.MovementTypes) == 0 {
		return fmt.Errorf("ruleset: no movement types configured")
	}
	if len(rs.TitleLevels) == 0 {
		return fmt.Errorf("ruleset: no title levels configured")
	}

	seenTiers := make(map[string]bool)
	for _, level := range rs.TitleLevels {
		if level.Name == "" {
			return fmt.Errorf("ruleset: title level with empty name")
		}
		if seenTiers[level.Name] {
			return fmt.Errorf("ruleset: duplicate title level %q", level.Name)
		}
		seenTiers[level.Name] = true
		if len(level.Keywords) == 0 {
			return fmt.Errorf("ruleset: title level %q has no keywords", level.Name)
		}
	}

	seenTypes := make(map[models.MovementType]bool)
	for i := range rs.MovementTypes {
		mt := &rs.MovementTypes[i]
		if mt.Type == "" {
			return fmt.Errorf("ruleset: movement type with empty name")
		}
		if seenTypes[mt.Type] {
			return fmt.Errorf("ruleset: duplicate movement type %q", mt.Type)
		}
		seenTypes[mt.Type] = true

		if mt.MinConfidence < 0 || mt.MinConfidence > 1 {
			return fmt.Errorf("ruleset: movement type %q: min_confidence %v out of [0,1]", mt.Type, mt.MinConfidence)
		}
		if len(mt.Rules) == 0 {
			return fmt.Errorf("ruleset: movement type %q has no rules", mt.Type)
		}

		for j := range mt.Rules {
			rule := &mt.Rules[j]
			if rule.Weight < 0 || rule.Weight > 1 {
				return fmt.Errorf("ruleset: movement type %q rule %d: weight %v out of [0,1]", mt.Type, j, rule.Weight)
			}
			predicates, err := parseCondition(rule.Condition)
			if err != nil {
				return fmt.Errorf("ruleset: movement type %q rule %d: %w", mt.Type, j, err)
			}
			rule.predicates = predicates
		}
	}

	return nil
}

// parseCondition splits a conjunction expression on "AND" and resolves
// every term to a typed predicate.
func parseCondition(expr string) ([]predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty condition expression")
	}

	terms := strings.Split(expr, "AND")
	predicates := make([]predicate, 0, len(terms))
	for _, term := range terms {
		name := strings.TrimSpace(term)
		if name == "" {
			return nil, fmt.Errorf("empty condition term in %q", expr)
		}
		p, err := parsePredicate(name)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}
	return predicates, nil
}

func parsePredicate(name string) (predicate, error) {
	switch name {
	case "title_seniority_increased":
		return predicate{kind: predSeniorityIncreased, name: name}, nil
	case "title_seniority_decreased":
		return predicate{kind: predSeniorityDecreased, name: name}, nil
	case "title_seniority_unchanged":
		return predicate{kind: predSeniorityUnchanged, name: name}, nil
	case "start_date_recent":
		return predicate{kind: predStartDateRecent, name: name}, nil
	case "end_date_present":
		return predicate{kind: predEndDatePresent, name: name}, nil
	case "promotion_keyword_match":
		return predicate{kind: predPromotionKeyword, name: name}, nil
	}

	for _, field := range models.SnapshotFields() {
		switch name {
		case field + "_changed":
			return predicate{kind: predFieldChanged, field: field, name: name}, nil
		case field + "_unchanged":
			return predicate{kind: predFieldUnchanged, field: field, name: name}, nil
		case "old_" + field + "_null":
			return predicate{kind: predOldFieldNull, field: field, name: name}, nil
		case "old_" + field + "_present":
			return predicate{kind: predOldFieldPresent, field: field, name: name}, nil
		case "new_" + field + "_null":
			return predicate{kind: predNewFieldNull, field: field, name: name}, nil
		case "new_" + field + "_present":
			return predicate{kind: predNewFieldPresent, field: field, name: name}, nil
		}
	}

	return predicate{}, fmt.Errorf("unknown condition %q", name)
}

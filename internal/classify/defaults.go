package classify

import (
	"github.com/todmy/movement-tracker/pkg/models"
)

// DefaultRuleSet returns the built-in movement rules. Deployments
// normally override these from the detection config file; the defaults
// keep the service usable without one and anchor the test suite.
//
// Declaration order is priority order: hire and exit outrank promotion
// and transfer because a company appearing or disappearing is stronger
// evidence than any title movement.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		RecentStartDays: DefaultRecentStartDays,
		MovementTypes: []MovementRules{
			{
				Type:          models.MovementHire,
				MinConfidence: 0.7,
				Rules: []Rule{
					{Condition: "old_company_name_null AND new_company_name_present AND start_date_recent", Weight: 0.95},
					{Condition: "old_company_name_null AND new_company_name_present", Weight: 0.85},
				},
			},
			{
				Type:          models.MovementExit,
				MinConfidence: 0.7,
				Rules: []Rule{
					{Condition: "old_company_name_present AND new_company_name_null AND end_date_present", Weight: 0.95},
					{Condition: "old_company_name_present AND new_company_name_null", Weight: 0.85},
				},
			},
			{
				Type:          models.MovementPromotion,
				MinConfidence: 0.7,
				Rules: []Rule{
					{Condition: "title_changed AND company_name_unchanged AND title_seniority_increased", Weight: 0.9},
					{Condition: "title_changed AND company_name_unchanged AND promotion_keyword_match", Weight: 0.75},
				},
				PromotionKeywords: []string{
					"senior", "lead", "principal", "head", "director", "vp", "chief",
				},
			},
			{
				Type:          models.MovementTransfer,
				MinConfidence: 0.6,
				Rules: []Rule{
					{Condition: "company_name_changed AND old_company_name_present AND new_company_name_present", Weight: 0.8},
				},
			},
		},
		TitleLevels: []TitleLevel{
			{
				Name: "individual_contributor",
				Keywords: []string{
					"engineer", "analyst", "specialist", "coordinator",
					"associate", "consultant", "developer", "designer",
				},
			},
			{
				Name:     "management",
				Keywords: []string{"manager", "lead", "supervisor"},
			},
			{
				Name: "senior_management",
				Keywords: []string{
					"director", "vp", "vice president", "head of",
				},
			},
			{
				Name: "executive",
				Keywords: []string{
					"chief", "ceo", "cfo", "coo", "cto", "president", "founder",
				},
			},
		},
	}
}

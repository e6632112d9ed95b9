package diff

import (
	"strings"

	"github.com/google/uuid"

	"github.com/todmy/movement-tracker/pkg/models"
)

// Contradiction finding names
const (
	FindingCompanyNameMismatch = "company_name_mismatch"
	FindingTitleDowngrade      = "title_downgrade"
	FindingFutureEndDate       = "future_end_date"
)

// CheckContradiction runs heuristic sanity checks over a delta and
// returns a Contradiction when at least one finding triggers, nil
// otherwise. Findings are diagnostics for downstream review; they never
// block movement emission and this function never fails.
func (e *Engine) CheckContradiction(personID string, old, new *models.PersonSnapshot, delta models.StateDelta) *models.Contradiction {
	var findings []string
	details := make(map[string]string)

	// Company name and title both moved while an external company
	// identifier stayed put. Usually a vendor-side rename, not a move.
	if delta.Changed(models.FieldCompanyName) &&
		delta.Changed(models.FieldTitle) &&
		!delta.Changed(models.FieldCompanyID) &&
		NormalizeValue(old.Field(models.FieldCompanyID)) != "" {
		findings = append(findings, FindingCompanyNameMismatch)
		details["company_id"] = NormalizeValue(old.Field(models.FieldCompanyID))
	}

	if delta.Changed(models.FieldTitle) {
		if lost := e.lostSeniorityKeywords(old.Field(models.FieldTitle), new.Field(models.FieldTitle)); len(lost) > 0 {
			findings = append(findings, FindingTitleDowngrade)
			details["lost_keywords"] = strings.Join(lost, ",")
			details["old_title"] = NormalizeValue(old.Field(models.FieldTitle))
			details["new_title"] = NormalizeValue(new.Field(models.FieldTitle))
		}
	}

	if new != nil && new.EndDate != nil && new.EndDate.After(e.now()) {
		findings = append(findings, FindingFutureEndDate)
		details["end_date"] = new.EndDate.Format(models.DateLayout)
	}

	if len(findings) == 0 {
		return nil
	}

	return &models.Contradiction{
		ID:         uuid.New().String(),
		PersonID:   personID,
		Findings:   findings,
		Details:    details,
		DetectedAt: e.now(),
	}
}

// lostSeniorityKeywords returns the configured seniority keywords that
// appear in the old title but not in the new one.
func (e *Engine) lostSeniorityKeywords(oldTitle, newTitle string) []string {
	oldLower := strings.ToLower(NormalizeValue(oldTitle))
	newLower := strings.ToLower(NormalizeValue(newTitle))
	if oldLower == "" {
		return nil
	}

	var lost []string
	for _, keyword := range e.seniorityKeywords {
		if strings.Contains(oldLower, keyword) && !strings.Contains(newLower, keyword) {
			lost = append(lost, keyword)
		}
	}
	return lost
}

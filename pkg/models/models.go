package models

import (
	"time"
)

// MovementType represents a classified career movement
type MovementType string

const (
	MovementHire      MovementType = "hire"
	MovementExit      MovementType = "exit"
	MovementPromotion MovementType = "promotion"
	MovementTransfer  MovementType = "transfer"
)

// Snapshot field names used for hashing, deltas and completeness checks
const (
	FieldFullName    = "full_name"
	FieldTitle       = "title"
	FieldCompanyName = "company_name"
	FieldCompanyID   = "company_id"
	FieldLinkedInURL = "linkedin_url"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
)

// SnapshotFields returns the full ordered list of comparable snapshot fields
func SnapshotFields() []string {
	return []string{
		FieldFullName,
		FieldTitle,
		FieldCompanyName,
		FieldCompanyID,
		FieldLinkedInURL,
		FieldStartDate,
		FieldEndDate,
	}
}

// DateLayout is the canonical representation for date-valued fields
const DateLayout = "2006-01-02"

// PersonSnapshot is one observation of a person's professional attributes
type PersonSnapshot struct {
	PersonID    string     `json:"person_id"`
	FullName    string     `json:"full_name"`
	Title       string     `json:"title"`
	CompanyName string     `json:"company_name"`
	CompanyID   string     `json:"company_id"`
	LinkedInURL string     `json:"linkedin_url"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DataSource  string     `json:"data_source"`
}

// Field returns the raw string form of a comparable field.
// Date fields are rendered with DateLayout; unknown names return "".
func (s *PersonSnapshot) Field(name string) string {
	if s == nil {
		return ""
	}
	switch name {
	case FieldFullName:
		return s.FullName
	case FieldTitle:
		return s.Title
	case FieldCompanyName:
		return s.CompanyName
	case FieldCompanyID:
		return s.CompanyID
	case FieldLinkedInURL:
		return s.LinkedInURL
	case FieldStartDate:
		if s.StartDate == nil {
			return ""
		}
		return s.StartDate.Format(DateLayout)
	case FieldEndDate:
		if s.EndDate == nil {
			return ""
		}
		return s.EndDate.Format(DateLayout)
	}
	return ""
}

// StateDelta is the field-level difference between two snapshots
type StateDelta struct {
	ChangedFields []string          `json:"changed_fields"`
	OldValues     map[string]string `json:"old_values"`
	NewValues     map[string]string `json:"new_values"`
	HasChanges    bool              `json:"has_changes"`
}

// Changed reports whether the named field differs between the snapshots
func (d *StateDelta) Changed(field string) bool {
	for _, f := range d.ChangedFields {
		if f == field {
			return true
		}
	}
	return false
}

// MovementCandidate is the classifier output prior to confidence scoring
type MovementCandidate struct {
	Type              MovementType      `json:"type"`
	BaseConfidence    float64           `json:"base_confidence"`
	MatchedConditions []string          `json:"matched_conditions"`
	Metadata          map[string]string `json:"metadata"`
}

// MovementEvent is the final, immutable output of the detection pipeline
type MovementEvent struct {
	ID         string            `json:"id"`
	PersonID   string            `json:"person_id"`
	Type       MovementType      `json:"movement_type"`
	Confidence float64           `json:"confidence"`
	Delta      StateDelta        `json:"delta"`
	Metadata   map[string]string `json:"metadata"`
	DetectedAt time.Time         `json:"detected_at"`
}

// Contradiction flags a suspicious delta for downstream review.
// It never blocks emission of a MovementEvent.
type Contradiction struct {
	ID         string            `json:"id"`
	PersonID   string            `json:"person_id"`
	Findings   []string          `json:"findings"`
	Details    map[string]string `json:"details"`
	DetectedAt time.Time         `json:"detected_at"`
}

package confidence

import (
	"math"
	"testing"
	"time"

	"github.com/todmy/movement-tracker/pkg/models"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultProfile(), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}
	return s
}

func observedDaysAgo(days int) time.Time {
	return testNow.AddDate(0, 0, -days)
}

func TestScore_Bounds(t *testing.T) {
	s := newTestScorer(t)
	profile := DefaultProfile()

	snapshots := []*models.PersonSnapshot{
		nil,
		{},
		{DataSource: "vendor_a", UpdatedAt: observedDaysAgo(1)},
		{
			FullName:    "Jordan Reyes",
			Title:       "VP of Human Resources",
			CompanyName: "Acme Inc",
			CompanyID:   "c-77",
			LinkedInURL: "https://linkedin.com/in/jordanreyes",
			StartDate:   &testNow,
			EndDate:     &testNow,
			UpdatedAt:   observedDaysAgo(1),
			DataSource:  "vendor_a",
		},
	}
	bases := []float64{-1, 0, 0.01, 0.5, 0.95, 1, 5}

	for _, snapshot := range snapshots {
		for _, base := range bases {
			for _, mt := range []models.MovementType{models.MovementHire, models.MovementExit, "unconfigured"} {
				got := s.Score(base, mt, snapshot, nil)
				if got < profile.MinimumBaseConfidence || got > profile.MaximumConfidence {
					t.Errorf("Score(%v, %s) = %v outside [%v, %v]", base, mt, got,
						profile.MinimumBaseConfidence, profile.MaximumConfidence)
				}
			}
		}
	}
}

func TestScore_RecencyBuckets(t *testing.T) {
	s := newTestScorer(t)
	m := DefaultProfile().RecencyMultipliers

	tests := []struct {
		name string
		days int
		want float64
	}{
		{"fresh", 3, m.Days0To7},
		{"boundary week", 7, m.Days0To7},
		{"weeks old", 20, m.Days8To30},
		{"months old", 60, m.Days31To90},
		{"quarter old", 150, m.Days91To180},
		{"half year old", 300, m.Days181To365},
		{"ancient", 500, m.Days365Plus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := &models.PersonSnapshot{
				DataSource: "vendor_a", // weight 1.0
				UpdatedAt:  observedDaysAgo(tt.days),
			}
			// No completeness, no modifiers: score = 0.5 * weight * multiplier.
			got := s.Score(0.5, "unconfigured", snapshot, nil)
			want := math.Round(0.5*tt.want*1000) / 1000
			if got != want {
				t.Errorf("days=%d: got %v, want %v", tt.days, got, want)
			}
		})
	}
}

func TestScore_UnknownRecencyIsStale(t *testing.T) {
	s := newTestScorer(t)
	m := DefaultProfile().RecencyMultipliers

	snapshot := &models.PersonSnapshot{DataSource: "vendor_a"}
	got := s.Score(0.5, "unconfigured", snapshot, nil)
	want := math.Round(0.5*m.Days365Plus*1000) / 1000
	if got != want {
		t.Errorf("zero timestamp: got %v, want stalest multiplier result %v", got, want)
	}
}

func TestScore_UnknownSourceFallback(t *testing.T) {
	s := newTestScorer(t)
	profile := DefaultProfile()

	snapshot := &models.PersonSnapshot{
		DataSource: "some_new_vendor",
		UpdatedAt:  observedDaysAgo(1),
	}
	got := s.Score(0.5, "unconfigured", snapshot, nil)
	want := math.Round(0.5*profile.DataSourceWeights[UnknownSource]*1000) / 1000
	if got != want {
		t.Errorf("unknown source: got %v, want %v", got, want)
	}
}

func TestScore_CompletenessTiers(t *testing.T) {
	s := newTestScorer(t)
	bonus := DefaultProfile().FieldCompletenessBonus

	full := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "VP of Human Resources",
		CompanyName: "Acme Inc",
		CompanyID:   "c-77",
		LinkedInURL: "https://linkedin.com/in/jordanreyes",
		StartDate:   &testNow,
		EndDate:     &testNow,
		UpdatedAt:   observedDaysAgo(1),
		DataSource:  "vendor_a",
	}
	criticalOnly := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "VP of Human Resources",
		CompanyName: "Acme Inc",
		CompanyID:   "c-77",
		UpdatedAt:   observedDaysAgo(1),
		DataSource:  "vendor_a",
	}
	partial := &models.PersonSnapshot{
		FullName:   "Jordan Reyes",
		Title:      "VP of Human Resources",
		UpdatedAt:  observedDaysAgo(1),
		DataSource: "vendor_a",
	}
	minimal := &models.PersonSnapshot{
		FullName:   "Jordan Reyes",
		UpdatedAt:  observedDaysAgo(1),
		DataSource: "vendor_a",
	}

	tests := []struct {
		name     string
		snapshot *models.PersonSnapshot
		bonus    float64
	}{
		{"all fields", full, bonus.AllFieldsPresent},
		{"critical only", criticalOnly, bonus.CriticalFieldsPresent},
		{"two critical", partial, bonus.PartialFields},
		{"one critical", minimal, bonus.MinimalFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(0.5, "unconfigured", tt.snapshot, nil)
			want := math.Round((0.5+tt.bonus)*1000) / 1000
			if got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestScore_MovementModifiers(t *testing.T) {
	s := newTestScorer(t)

	snapshot := &models.PersonSnapshot{
		FullName:   "Jordan Reyes",
		UpdatedAt:  observedDaysAgo(1),
		DataSource: "vendor_a",
	}

	// Promotion with clear title levels and a stable company identifier
	// collects both configured promotion bonuses.
	metadata := map[string]string{
		"old_level":            "management",
		"new_level":            "senior_management",
		"company_id_unchanged": "true",
	}

	with := s.Score(0.5, models.MovementPromotion, snapshot, metadata)
	without := s.Score(0.5, models.MovementPromotion, snapshot, map[string]string{})

	want := math.Round((0.5+0.05+0.05)*1000) / 1000
	if with != want {
		t.Errorf("with modifiers: got %v, want %v", with, want)
	}
	if without != 0.5 {
		t.Errorf("without modifiers: got %v, want 0.5", without)
	}
}

func TestScore_HireStartDateModifier(t *testing.T) {
	s := newTestScorer(t)

	startDate := observedDaysAgo(10)
	snapshot := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "VP of Human Resources",
		CompanyName: "Acme Inc",
		StartDate:   &startDate,
		UpdatedAt:   observedDaysAgo(1),
		DataSource:  "vendor_a",
	}

	got := s.Score(0.85, models.MovementHire, snapshot, map[string]string{"start_date": "2026-08-22"})
	// base 0.85 * 1.0 * 1.0 + partial completeness 0.03 + has_start_date 0.05
	want := math.Round((0.85+0.03+0.05)*1000) / 1000
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScore_Rounding(t *testing.T) {
	s := newTestScorer(t)

	snapshot := &models.PersonSnapshot{
		DataSource: "vendor_b", // weight 0.9
		UpdatedAt:  observedDaysAgo(60),
	}
	// 0.7 * 0.9 * 0.85 = 0.5355 -> 0.536 after rounding
	got := s.Score(0.7, "unconfigured", snapshot, nil)
	if got != 0.536 {
		t.Errorf("got %v, want 0.536", got)
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.99, TierHigh},
		{0.85, TierHigh},
		{0.84, TierMedium},
		{0.65, TierMedium},
		{0.64, TierLow},
		{0.1, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		if got := Tier(tt.confidence); got != tt.want {
			t.Errorf("Tier(%v) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestProfileValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"missing unknown source", func(p *Profile) { delete(p.DataSourceWeights, UnknownSource) }},
		{"zero unknown weight", func(p *Profile) { p.DataSourceWeights[UnknownSource] = 0 }},
		{"zero recency multiplier", func(p *Profile) { p.RecencyMultipliers.Days31To90 = 0 }},
		{"no critical fields", func(p *Profile) { p.CriticalFields = nil }},
		{"unknown critical field", func(p *Profile) { p.CriticalFields = []string{"shoe_size"} }},
		{"unknown modifier condition", func(p *Profile) {
			p.MovementModifiers["hire"]["definitely_not_real"] = 0.1
		}},
		{"inverted clamps", func(p *Profile) {
			p.MinimumBaseConfidence = 0.9
			p.MaximumConfidence = 0.5
		}},
		{"max above one", func(p *Profile) { p.MaximumConfidence = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

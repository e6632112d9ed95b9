package diff

import (
	"testing"
	"time"

	"github.com/todmy/movement-tracker/pkg/models"
)

func fixedClock(s string) func() time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

func TestCheckContradiction_None(t *testing.T) {
	engine := NewEngine(Config{Now: fixedClock("2026-09-01T00:00:00Z")})

	old := &models.PersonSnapshot{Title: "Analyst", CompanyName: "Acme Inc"}
	new := &models.PersonSnapshot{Title: "Senior Analyst", CompanyName: "Acme Inc"}
	delta := engine.DetectChanges(old, new)

	if c := engine.CheckContradiction("p-1", old, new, delta); c != nil {
		t.Errorf("expected no contradiction, got %v", c.Findings)
	}
}

func TestCheckContradiction_CompanyNameMismatch(t *testing.T) {
	engine := NewEngine(Config{
		HashedFields: append(DefaultConfig().HashedFields, models.FieldCompanyID),
		Now:          fixedClock("2026-09-01T00:00:00Z"),
	})

	old := &models.PersonSnapshot{Title: "Analyst", CompanyName: "Acme Inc", CompanyID: "c-77"}
	new := &models.PersonSnapshot{Title: "Consultant", CompanyName: "Acme Incorporated", CompanyID: "c-77"}
	delta := engine.DetectChanges(old, new)

	c := engine.CheckContradiction("p-1", old, new, delta)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if !hasFinding(c, FindingCompanyNameMismatch) {
		t.Errorf("expected %s finding, got %v", FindingCompanyNameMismatch, c.Findings)
	}
}

func TestCheckContradiction_TitleDowngrade(t *testing.T) {
	engine := NewEngine(Config{Now: fixedClock("2026-09-01T00:00:00Z")})

	old := &models.PersonSnapshot{Title: "Senior Director of People"}
	new := &models.PersonSnapshot{Title: "People Partner"}
	delta := engine.DetectChanges(old, new)

	c := engine.CheckContradiction("p-1", old, new, delta)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if !hasFinding(c, FindingTitleDowngrade) {
		t.Errorf("expected %s finding, got %v", FindingTitleDowngrade, c.Findings)
	}
}

func TestCheckContradiction_FutureEndDate(t *testing.T) {
	engine := NewEngine(Config{Now: fixedClock("2026-09-01T00:00:00Z")})

	old := &models.PersonSnapshot{Title: "Controller", CompanyName: "Acme Inc"}
	new := &models.PersonSnapshot{
		Title:       "Controller",
		CompanyName: "Acme Inc",
		EndDate:     date("2027-09-01"),
	}
	delta := engine.DetectChanges(old, new)

	c := engine.CheckContradiction("p-1", old, new, delta)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if !hasFinding(c, FindingFutureEndDate) {
		t.Errorf("expected %s finding, got %v", FindingFutureEndDate, c.Findings)
	}
	if c.Details["end_date"] != "2027-09-01" {
		t.Errorf("unexpected end_date detail: %q", c.Details["end_date"])
	}
}

func TestCheckContradiction_MultipleFindings(t *testing.T) {
	engine := NewEngine(Config{
		HashedFields: append(DefaultConfig().HashedFields, models.FieldCompanyID),
		Now:          fixedClock("2026-09-01T00:00:00Z"),
	})

	old := &models.PersonSnapshot{Title: "VP of Sales", CompanyName: "Acme Inc", CompanyID: "c-77"}
	new := &models.PersonSnapshot{
		Title:       "Account Executive",
		CompanyName: "Acme Corp",
		CompanyID:   "c-77",
		EndDate:     date("2027-01-01"),
	}
	delta := engine.DetectChanges(old, new)

	c := engine.CheckContradiction("p-1", old, new, delta)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if len(c.Findings) != 3 {
		t.Errorf("expected 3 findings, got %v", c.Findings)
	}
}

func hasFinding(c *models.Contradiction, finding string) bool {
	for _, f := range c.Findings {
		if f == finding {
			return true
		}
	}
	return false
}

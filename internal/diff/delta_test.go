package diff

import (
	"sort"
	"testing"

	"github.com/todmy/movement-tracker/pkg/models"
)

func TestDetectChanges_NoChanges(t *testing.T) {
	engine := NewEngine(Config{})

	snapshot := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "HR Manager",
		CompanyName: "Acme Inc",
	}

	delta := engine.DetectChanges(snapshot, snapshot)

	if delta.HasChanges {
		t.Error("expected no changes for identical snapshots")
	}
	if len(delta.ChangedFields) != 0 {
		t.Errorf("expected empty changed fields, got %v", delta.ChangedFields)
	}
}

func TestDetectChanges_FieldLevel(t *testing.T) {
	engine := NewEngine(Config{})

	old := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "HR Manager",
		CompanyName: "Acme Inc",
	}
	new := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "Senior Director of People",
		CompanyName: "Acme Inc",
	}

	delta := engine.DetectChanges(old, new)

	if !delta.HasChanges {
		t.Fatal("expected changes")
	}
	if len(delta.ChangedFields) != 1 || delta.ChangedFields[0] != models.FieldTitle {
		t.Errorf("expected only title to change, got %v", delta.ChangedFields)
	}
	if delta.OldValues[models.FieldTitle] != "HR Manager" {
		t.Errorf("unexpected old value: %q", delta.OldValues[models.FieldTitle])
	}
	if delta.NewValues[models.FieldTitle] != "Senior Director of People" {
		t.Errorf("unexpected new value: %q", delta.NewValues[models.FieldTitle])
	}
}

func TestDetectChanges_AbsentEquivalence(t *testing.T) {
	engine := NewEngine(Config{})

	old := &models.PersonSnapshot{FullName: "Jordan Reyes", Title: "null"}
	new := &models.PersonSnapshot{FullName: "Jordan Reyes", Title: ""}

	delta := engine.DetectChanges(old, new)

	if delta.HasChanges {
		t.Errorf("expected null-equivalent values to compare equal, got %v", delta.ChangedFields)
	}
}

func TestDetectChanges_CaseSensitive(t *testing.T) {
	engine := NewEngine(Config{})

	old := &models.PersonSnapshot{CompanyName: "Acme Inc"}
	new := &models.PersonSnapshot{CompanyName: "acme inc"}

	delta := engine.DetectChanges(old, new)

	if !delta.Changed(models.FieldCompanyName) {
		t.Error("expected differently cased company names to be treated as changed")
	}
}

func TestDetectChanges_Symmetric(t *testing.T) {
	engine := NewEngine(Config{})

	a := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "Controller",
		CompanyName: "Acme Inc",
		StartDate:   date("2020-05-01"),
	}
	b := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "VP of Finance",
		CompanyName: "Initech",
	}

	forward := engine.DetectChanges(a, b)
	backward := engine.DetectChanges(b, a)

	sort.Strings(forward.ChangedFields)
	sort.Strings(backward.ChangedFields)

	if len(forward.ChangedFields) != len(backward.ChangedFields) {
		t.Fatalf("asymmetric change sets: %v vs %v", forward.ChangedFields, backward.ChangedFields)
	}
	for i := range forward.ChangedFields {
		if forward.ChangedFields[i] != backward.ChangedFields[i] {
			t.Fatalf("asymmetric change sets: %v vs %v", forward.ChangedFields, backward.ChangedFields)
		}
	}

	for _, field := range forward.ChangedFields {
		if forward.OldValues[field] != backward.NewValues[field] {
			t.Errorf("field %s: forward old %q != backward new %q", field, forward.OldValues[field], backward.NewValues[field])
		}
		if forward.NewValues[field] != backward.OldValues[field] {
			t.Errorf("field %s: forward new %q != backward old %q", field, forward.NewValues[field], backward.OldValues[field])
		}
	}
}

func TestDetectChanges_NilOldSnapshot(t *testing.T) {
	engine := NewEngine(Config{})

	new := &models.PersonSnapshot{
		FullName:    "Jordan Reyes",
		Title:       "VP of Human Resources",
		CompanyName: "Acme Inc",
	}

	delta := engine.DetectChanges(nil, new)

	if !delta.HasChanges {
		t.Fatal("expected first observation to register as changed")
	}
	for _, field := range delta.ChangedFields {
		if delta.OldValues[field] != "" {
			t.Errorf("field %s: expected empty old value, got %q", field, delta.OldValues[field])
		}
	}
}

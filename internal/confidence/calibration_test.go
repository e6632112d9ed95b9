package confidence

import (
	"math"
	"testing"

	"github.com/todmy/movement-tracker/pkg/models"
)

func event(mt models.MovementType, confidence float64) *models.MovementEvent {
	return &models.MovementEvent{Type: mt, Confidence: confidence}
}

func TestCalibrate_Empty(t *testing.T) {
	summaries := Calibrate(nil)
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}

func TestCalibrate_GroupsByMovementType(t *testing.T) {
	events := []*models.MovementEvent{
		event(models.MovementHire, 0.9),
		event(models.MovementHire, 0.8),
		event(models.MovementHire, 0.7),
		event(models.MovementExit, 0.6),
	}

	summaries := Calibrate(events)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	// Sorted by movement type name: exit before hire.
	if summaries[0].MovementType != "exit" || summaries[1].MovementType != "hire" {
		t.Fatalf("unexpected order: %s, %s", summaries[0].MovementType, summaries[1].MovementType)
	}

	hire := summaries[1]
	if hire.Count != 3 {
		t.Errorf("expected hire count 3, got %d", hire.Count)
	}
	if math.Abs(hire.Mean-0.8) > 1e-9 {
		t.Errorf("expected hire mean 0.8, got %v", hire.Mean)
	}
	if hire.Median != 0.8 {
		t.Errorf("expected hire median 0.8, got %v", hire.Median)
	}
	if hire.StdDev == 0 {
		t.Error("expected non-zero stddev for spread confidences")
	}
}

func TestCalibrate_TierCounts(t *testing.T) {
	events := []*models.MovementEvent{
		event(models.MovementHire, 0.9),  // high
		event(models.MovementHire, 0.7),  // medium
		event(models.MovementHire, 0.3),  // low
		event(models.MovementHire, 0.95), // high
	}

	summaries := Calibrate(events)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	hire := summaries[0]
	if hire.HighTier != 2 || hire.MediumTier != 1 || hire.LowTier != 1 {
		t.Errorf("unexpected tier counts: high=%d medium=%d low=%d",
			hire.HighTier, hire.MediumTier, hire.LowTier)
	}
}

func TestCalibrate_SingleEvent(t *testing.T) {
	summaries := Calibrate([]*models.MovementEvent{event(models.MovementExit, 0.82)})
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].StdDev != 0 {
		t.Errorf("expected zero stddev for a single event, got %v", summaries[0].StdDev)
	}
	if summaries[0].Median != 0.82 {
		t.Errorf("expected median 0.82, got %v", summaries[0].Median)
	}
}

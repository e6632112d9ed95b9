package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todmy/movement-tracker/internal/classify"
	"github.com/todmy/movement-tracker/internal/confidence"
	"github.com/todmy/movement-tracker/internal/diff"
	"github.com/todmy/movement-tracker/pkg/models"
)

// SnapshotStore persists the per-person baseline used for change
// detection. GetBaseline returns a nil snapshot and empty hash when no
// baseline exists. SaveBaseline must be an idempotent upsert keyed by
// person identifier; the store is also responsible for the at-most-one
// in-flight-per-person contract, the pipeline does not lock.
type SnapshotStore interface {
	GetBaseline(ctx context.Context, personID string) (*models.PersonSnapshot, string, error)
	SaveBaseline(ctx context.Context, personID, hash string, snapshot *models.PersonSnapshot) error
}

// EventSink receives emitted movement events
type EventSink interface {
	RecordEvent(ctx context.Context, event *models.MovementEvent) error
}

// ContradictionSink receives diagnostic contradictions for review
type ContradictionSink interface {
	RecordContradiction(ctx context.Context, contradiction *models.Contradiction) error
}

// Config holds pipeline configuration
type Config struct {
	// EmitThreshold gates event emission on the final scored
	// confidence. It is independent of the classifier's per-type
	// min_confidence, which gates classification only.
	EmitThreshold float64

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		EmitThreshold: 0.5,
	}
}

// Pipeline composes the diff engine, classifier and scorer into the
// per-person detection flow: hash-compare, diff, classify, score,
// emit-or-skip. All I/O happens through the injected ports.
type Pipeline struct {
	engine         *diff.Engine
	classifier     *classify.Classifier
	scorer         *confidence.Scorer
	store          SnapshotStore
	events         EventSink
	contradictions ContradictionSink
	emitThreshold  float64
	now            func() time.Time
}

// New creates a detection pipeline. The contradiction sink may be nil,
// in which case contradictions are detected but not recorded.
func New(config Config, engine *diff.Engine, classifier *classify.Classifier, scorer *confidence.Scorer,
	store SnapshotStore, events EventSink, contradictions ContradictionSink) *Pipeline {
	if config.EmitThreshold <= 0 {
		config.EmitThreshold = DefaultConfig().EmitThreshold
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Pipeline{
		engine:         engine,
		classifier:     classifier,
		scorer:         scorer,
		store:          store,
		events:         events,
		contradictions: contradictions,
		emitThreshold:  config.EmitThreshold,
		now:            config.Now,
	}
}

// Outcome reports what one pipeline run decided for a person
type Outcome struct {
	PersonID      string                    `json:"person_id"`
	Changed       bool                      `json:"changed"`
	Candidate     *models.MovementCandidate `json:"candidate,omitempty"`
	Confidence    float64                   `json:"confidence,omitempty"`
	Event         *models.MovementEvent     `json:"event,omitempty"`
	Contradiction *models.Contradiction     `json:"contradiction,omitempty"`
}

// Process evaluates one observation for one person. A nil current
// snapshot means the person disappeared from the source dataset and is
// evaluated against an empty state so exit rules can fire.
//
// The run is idempotent per (baseline, snapshot) pair: re-running after
// a partial failure yields the same event or no-event outcome.
func (p *Pipeline) Process(ctx context.Context, personID string, current *models.PersonSnapshot) (*Outcome, error) {
	previous, previousHash, err := p.store.GetBaseline(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("get baseline: %w", err)
	}

	newHash := p.engine.ComputeHash(current)
	if !diff.IsHashDifferent(newHash, previousHash) {
		return &Outcome{PersonID: personID}, nil
	}

	delta := p.engine.DetectChanges(previous, current)
	outcome := &Outcome{PersonID: personID, Changed: delta.HasChanges}

	// Contradictions are best-effort diagnostics: a sink failure must
	// not block detection, so the error is dropped.
	if contradiction := p.engine.CheckContradiction(personID, previous, current, delta); contradiction != nil {
		outcome.Contradiction = contradiction
		if p.contradictions != nil {
			_ = p.contradictions.RecordContradiction(ctx, contradiction)
		}
	}

	candidate := p.classifier.Classify(previous, current, delta)
	if candidate == nil {
		// Changed, but not a recognized movement. The new state still
		// becomes the baseline for next time.
		if err := p.store.SaveBaseline(ctx, personID, newHash, current); err != nil {
			return nil, fmt.Errorf("save baseline: %w", err)
		}
		return outcome, nil
	}
	outcome.Candidate = candidate

	// Score off the richer snapshot: the current one when present, the
	// old baseline when the person disappeared.
	scored := current
	if scored == nil {
		scored = previous
	}
	final := p.scorer.Score(candidate.BaseConfidence, candidate.Type, scored, candidate.Metadata)
	outcome.Confidence = final

	if final >= p.emitThreshold {
		event := &models.MovementEvent{
			ID:         uuid.New().String(),
			PersonID:   personID,
			Type:       candidate.Type,
			Confidence: final,
			Delta:      delta,
			Metadata:   candidate.Metadata,
			DetectedAt: p.now(),
		}
		if err := p.events.RecordEvent(ctx, event); err != nil {
			return nil, fmt.Errorf("record event: %w", err)
		}
		outcome.Event = event
	}

	if err := p.store.SaveBaseline(ctx, personID, newHash, current); err != nil {
		return nil, fmt.Errorf("save baseline: %w", err)
	}

	return outcome, nil
}

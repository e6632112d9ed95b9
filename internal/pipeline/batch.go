package pipeline

import (
	"context"

	"github.com/todmy/movement-tracker/pkg/models"
)

// Observation pairs a person identifier with their latest snapshot. A
// nil snapshot marks a person absent from the current dataset.
type Observation struct {
	PersonID string
	Snapshot *models.PersonSnapshot
}

// BatchResult is the outcome of one observation within a batch
type BatchResult struct {
	PersonID string
	Outcome  *Outcome
	Err      error
}

// ProcessBatch runs the pipeline over a set of observations with
// bounded concurrency. Persons are independent, so the work is
// parallel across them; results preserve input order. Errors are
// collected per person rather than aborting the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, observations []Observation, maxConcurrent int) []BatchResult {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}

	results := make([]BatchResult, len(observations))
	sem := make(chan struct{}, maxConcurrent)
	done := make(chan int, len(observations))

	for i, obs := range observations {
		sem <- struct{}{}
		go func(idx int, o Observation) {
			defer func() { <-sem }()

			outcome, err := p.Process(ctx, o.PersonID, o.Snapshot)
			results[idx] = BatchResult{PersonID: o.PersonID, Outcome: outcome, Err: err}
			done <- idx
		}(i, obs)
	}

	for range observations {
		<-done
	}

	return results
}

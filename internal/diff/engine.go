package diff

import (
	"time"

	"github.com/todmy/movement-tracker/pkg/models"
)

// Config holds diff engine configuration
type Config struct {
	// HashedFields is the ordered field subset covered by state hashing
	// and delta computation.
	HashedFields []string

	// SeniorityKeywords is the flattened keyword list used by the
	// title_downgrade contradiction heuristic.
	SeniorityKeywords []string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		HashedFields: []string{
			models.FieldFullName,
			models.FieldTitle,
			models.FieldCompanyName,
			models.FieldStartDate,
			models.FieldEndDate,
			models.FieldLinkedInURL,
		},
		SeniorityKeywords: []string{
			"senior", "lead", "principal", "manager", "director",
			"vp", "vice president", "head", "chief", "president",
		},
	}
}

// Engine computes state hashes, field-level deltas and contradiction
// diagnostics over person snapshots. It is a pure component: no I/O,
// no mutable state.
type Engine struct {
	hashedFields      []string
	seniorityKeywords []string
	now               func() time.Time
}

// NewEngine creates a new diff engine
func NewEngine(config Config) *Engine {
	if len(config.HashedFields) == 0 {
		config.HashedFields = DefaultConfig().HashedFields
	}
	if len(config.SeniorityKeywords) == 0 {
		config.SeniorityKeywords = DefaultConfig().SeniorityKeywords
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Engine{
		hashedFields:      config.HashedFields,
		seniorityKeywords: config.SeniorityKeywords,
		now:               config.Now,
	}
}

// HashedFields returns the configured field subset
func (e *Engine) HashedFields() []string {
	return e.hashedFields
}

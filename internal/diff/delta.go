package diff

import (
	"github.com/todmy/movement-tracker/pkg/models"
)

// DetectChanges compares two snapshots field-by-field over the engine's
// hashed field subset and returns the resulting delta. Either snapshot
// may be nil (first observation, or a person absent from the current
// dataset); a nil snapshot compares as all-empty.
//
// Detection is symmetric: swapping old and new yields the same changed
// field set with old and new values exchanged.
func (e *Engine) DetectChanges(old, new *models.PersonSnapshot) models.StateDelta {
	delta := models.StateDelta{
		ChangedFields: []string{},
		OldValues:     make(map[string]string),
		NewValues:     make(map[string]string),
	}

	for _, field := range e.hashedFields {
		oldValue := NormalizeValue(old.Field(field))
		newValue := NormalizeValue(new.Field(field))
		if oldValue == newValue {
			continue
		}

		delta.ChangedFields = append(delta.ChangedFields, field)
		delta.OldValues[field] = oldValue
		delta.NewValues[field] = newValue
	}

	delta.HasChanges = len(delta.ChangedFields) > 0
	return delta
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/todmy/movement-tracker/pkg/models"
)

// MovementEventRepository persists emitted movement events
type MovementEventRepository interface {
	RecordEvent(ctx context.Context, event *models.MovementEvent) error
	GetByPersonID(ctx context.Context, personID string) ([]*models.MovementEvent, error)
	ListRecent(ctx context.Context, limit int) ([]*models.MovementEvent, error)
}

// PostgresMovementEventRepository implements MovementEventRepository using PostgreSQL
type PostgresMovementEventRepository struct {
	db *sql.DB
}

// NewPostgresMovementEventRepository creates a new PostgresMovementEventRepository
func NewPostgresMovementEventRepository(db *sql.DB) *PostgresMovementEventRepository {
	return &PostgresMovementEventRepository{db: db}
}

// RecordEvent inserts a movement event
func (r *PostgresMovementEventRepository) RecordEvent(ctx context.Context, event *models.MovementEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.DetectedAt.IsZero() {
		event.DetectedAt = time.Now()
	}

	oldValues, err := json.Marshal(event.Delta.OldValues)
	if err != nil {
		return fmt.Errorf("marshal old values: %w", err)
	}
	newValues, err := json.Marshal(event.Delta.NewValues)
	if err != nil {
		return fmt.Errorf("marshal new values: %w", err)
	}
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO movement_events (
			id, person_id, movement_type, confidence, changed_fields,
			old_values, new_values, metadata, detected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.PersonID,
		string(event.Type),
		event.Confidence,
		pq.Array(event.Delta.ChangedFields),
		oldValues,
		newValues,
		metadata,
		event.DetectedAt,
	)
	return err
}

// GetByPersonID retrieves all events for a person, newest first
func (r *PostgresMovementEventRepository) GetByPersonID(ctx context.Context, personID string) ([]*models.MovementEvent, error) {
	query := `
		SELECT id, person_id, movement_type, confidence, changed_fields,
		       old_values, new_values, metadata, detected_at
		FROM movement_events
		WHERE person_id = $1
		ORDER BY detected_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent retrieves the most recent events across all persons
func (r *PostgresMovementEventRepository) ListRecent(ctx context.Context, limit int) ([]*models.MovementEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, person_id, movement_type, confidence, changed_fields,
		       old_values, new_values, metadata, detected_at
		FROM movement_events
		ORDER BY detected_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*models.MovementEvent, error) {
	var events []*models.MovementEvent
	for rows.Next() {
		event := &models.MovementEvent{}
		var (
			movementType  string
			changedFields pq.StringArray
			oldValues     []byte
			newValues     []byte
			metadata      []byte
		)

		err := rows.Scan(
			&event.ID,
			&event.PersonID,
			&movementType,
			&event.Confidence,
			&changedFields,
			&oldValues,
			&newValues,
			&metadata,
			&event.DetectedAt,
		)
		if err != nil {
			return nil, err
		}

		event.Type = models.MovementType(movementType)
		event.Delta.ChangedFields = []string(changedFields)
		event.Delta.HasChanges = len(event.Delta.ChangedFields) > 0
		if err := json.Unmarshal(oldValues, &event.Delta.OldValues); err != nil {
			return nil, fmt.Errorf("unmarshal old values: %w", err)
		}
		if err := json.Unmarshal(newValues, &event.Delta.NewValues); err != nil {
			return nil, fmt.Errorf("unmarshal new values: %w", err)
		}
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

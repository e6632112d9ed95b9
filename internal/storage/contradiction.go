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

// ContradictionRepository persists diagnostic contradictions for review
type ContradictionRepository interface {
	RecordContradiction(ctx context.Context, contradiction *models.Contradiction) error
	ListRecent(ctx context.Context, limit int) ([]*models.Contradiction, error)
}

// PostgresContradictionRepository implements ContradictionRepository using PostgreSQL
type PostgresContradictionRepository struct {
	db *sql.DB
}

// NewPostgresContradictionRepository creates a new PostgresContradictionRepository
func NewPostgresContradictionRepository(db *sql.DB) *PostgresContradictionRepository {
	return &PostgresContradictionRepository{db: db}
}

// RecordContradiction inserts a contradiction record
func (r *PostgresContradictionRepository) RecordContradiction(ctx context.Context, contradiction *models.Contradiction) error {
	if contradiction.ID == "" {
		contradiction.ID = uuid.New().String()
	}
	if contradiction.DetectedAt.IsZero() {
		contradiction.DetectedAt = time.Now()
	}

	details, err := json.Marshal(contradiction.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	query := `
		INSERT INTO contradictions (id, person_id, findings, details, detected_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.ExecContext(ctx, query,
		contradiction.ID,
		contradiction.PersonID,
		pq.Array(contradiction.Findings),
		details,
		contradiction.DetectedAt,
	)
	return err
}

// ListRecent retrieves the most recent contradictions
func (r *PostgresContradictionRepository) ListRecent(ctx context.Context, limit int) ([]*models.Contradiction, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, person_id, findings, details, detected_at
		FROM contradictions
		ORDER BY detected_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contradictions []*models.Contradiction
	for rows.Next() {
		contradiction := &models.Contradiction{}
		var (
			findings pq.StringArray
			details  []byte
		)

		err := rows.Scan(
			&contradiction.ID,
			&contradiction.PersonID,
			&findings,
			&details,
			&contradiction.DetectedAt,
		)
		if err != nil {
			return nil, err
		}

		contradiction.Findings = []string(findings)
		if err := json.Unmarshal(details, &contradiction.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}

		contradictions = append(contradictions, contradiction)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contradictions, nil
}

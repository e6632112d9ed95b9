package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/todmy/movement-tracker/pkg/models"
)

// PersonStateRepository persists the per-person detection baseline:
// the last observed snapshot and its state hash. SaveBaseline is an
// idempotent upsert keyed by person_id, which also provides the
// single-writer-per-person guarantee the pipeline relies on (the row
// lock serializes concurrent writers on the same key).
type PersonStateRepository interface {
	GetBaseline(ctx context.Context, personID string) (*models.PersonSnapshot, string, error)
	SaveBaseline(ctx context.Context, personID, hash string, snapshot *models.PersonSnapshot) error
}

// PostgresPersonStateRepository implements PersonStateRepository using PostgreSQL
type PostgresPersonStateRepository struct {
	db *sql.DB
}

// NewPostgresPersonStateRepository creates a new PostgresPersonStateRepository
func NewPostgresPersonStateRepository(db *sql.DB) *PostgresPersonStateRepository {
	return &PostgresPersonStateRepository{db: db}
}

// GetBaseline retrieves the stored snapshot and hash for a person.
// Returns a nil snapshot and empty hash when no baseline exists; a
// baseline recorded for an absent person yields the hash with a nil
// snapshot.
func (r *PostgresPersonStateRepository) GetBaseline(ctx context.Context, personID string) (*models.PersonSnapshot, string, error) {
	query := `
		SELECT state_hash, absent, full_name, title, company_name, company_id,
		       linkedin_url, start_date, end_date, observed_at, data_source
		FROM person_states
		WHERE person_id = $1
	`

	var (
		hash        string
		absent      bool
		fullName    sql.NullString
		title       sql.NullString
		companyName sql.NullString
		companyID   sql.NullString
		linkedinURL sql.NullString
		startDate   sql.NullTime
		endDate     sql.NullTime
		observedAt  sql.NullTime
		dataSource  sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, personID).Scan(
		&hash, &absent, &fullName, &title, &companyName, &companyID,
		&linkedinURL, &startDate, &endDate, &observedAt, &dataSource,
	)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	if absent {
		return nil, hash, nil
	}

	snapshot := &models.PersonSnapshot{
		PersonID:    personID,
		FullName:    fullName.String,
		Title:       title.String,
		CompanyName: companyName.String,
		CompanyID:   companyID.String,
		LinkedInURL: linkedinURL.String,
		DataSource:  dataSource.String,
	}
	if startDate.Valid {
		d := startDate.Time
		snapshot.StartDate = &d
	}
	if endDate.Valid {
		d := endDate.Time
		snapshot.EndDate = &d
	}
	if observedAt.Valid {
		snapshot.UpdatedAt = observedAt.Time
	}

	return snapshot, hash, nil
}

// SaveBaseline upserts the baseline for a person. A nil snapshot marks
// the person as absent from the current dataset while keeping the hash
// so unchanged absence does not reprocess.
func (r *PostgresPersonStateRepository) SaveBaseline(ctx context.Context, personID, hash string, snapshot *models.PersonSnapshot) error {
	query := `
		INSERT INTO person_states (
			person_id, state_hash, absent, full_name, title, company_name,
			company_id, linkedin_url, start_date, end_date, observed_at,
			data_source, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (person_id) DO UPDATE SET
			state_hash = EXCLUDED.state_hash,
			absent = EXCLUDED.absent,
			full_name = EXCLUDED.full_name,
			title = EXCLUDED.title,
			company_name = EXCLUDED.company_name,
			company_id = EXCLUDED.company_id,
			linkedin_url = EXCLUDED.linkedin_url,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			observed_at = EXCLUDED.observed_at,
			data_source = EXCLUDED.data_source,
			updated_at = EXCLUDED.updated_at
	`

	var (
		absent      = snapshot == nil
		fullName    sql.NullString
		title       sql.NullString
		companyName sql.NullString
		companyID   sql.NullString
		linkedinURL sql.NullString
		startDate   sql.NullTime
		endDate     sql.NullTime
		observedAt  sql.NullTime
		dataSource  sql.NullString
	)

	if snapshot != nil {
		fullName = nullString(snapshot.FullName)
		title = nullString(snapshot.Title)
		companyName = nullString(snapshot.CompanyName)
		companyID = nullString(snapshot.CompanyID)
		linkedinURL = nullString(snapshot.LinkedInURL)
		startDate = nullTimePtr(snapshot.StartDate)
		endDate = nullTimePtr(snapshot.EndDate)
		if !snapshot.UpdatedAt.IsZero() {
			observedAt = sql.NullTime{Time: snapshot.UpdatedAt, Valid: true}
		}
		dataSource = nullString(snapshot.DataSource)
	}

	_, err := r.db.ExecContext(ctx, query,
		personID, hash, absent, fullName, title, companyName,
		companyID, linkedinURL, startDate, endDate, observedAt,
		dataSource, time.Now(),
	)
	return err
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

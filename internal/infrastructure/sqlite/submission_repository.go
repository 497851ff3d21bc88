// Package sqlite stores submissions in a single SQLite table keyed by submission id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sngm3741/survey-creator-api/internal/submission/application"
	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS survey_responses (
	submission_id TEXT PRIMARY KEY,
	csv_uuid TEXT NOT NULL,
	display_text TEXT NOT NULL,
	all_responses TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_survey_responses_csv_uuid ON survey_responses(csv_uuid);
`

// timestampLayout keeps millisecond precision and sorts lexicographically.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY and keeps :memory: databases on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the submissions table when it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// SubmissionRepository implements application.SubmissionRepository on database/sql.
type SubmissionRepository struct {
	db *sql.DB
}

var _ application.SubmissionRepository = (*SubmissionRepository)(nil)

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO survey_responses (submission_id, csv_uuid, display_text, all_responses, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		submission.ID,
		submission.CSVUUID,
		submission.DisplayText,
		string(submission.AllResponses),
		submission.Timestamp.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT submission_id FROM survey_responses ORDER BY submission_id`)
	if err != nil {
		return nil, fmt.Errorf("query submission ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	var (
		submission domain.Submission
		responses  string
		timestamp  string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT submission_id, csv_uuid, display_text, all_responses, timestamp
		 FROM survey_responses WHERE submission_id = ?`, id,
	).Scan(&submission.ID, &submission.CSVUUID, &submission.DisplayText, &responses, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}

	ts, err := time.Parse(timestampLayout, timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp of %s: %w", id, err)
	}
	submission.Timestamp = ts.UTC()
	submission.AllResponses = json.RawMessage(responses)
	return &submission, nil
}

func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

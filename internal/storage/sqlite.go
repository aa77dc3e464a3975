// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/bunrui/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	// Classification and metadata are flattened into outcome columns so
	// status and category counts stay plain SQL. Zero values stand in for
	// the fields a failed or skipped outcome does not have.
	schema := `
	CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at);

	CREATE TABLE IF NOT EXISTS outcomes (
		id TEXT PRIMARY KEY,
		batch_id TEXT,
		file_id TEXT NOT NULL,
		path TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		extension TEXT NOT NULL DEFAULT '',
		size_bytes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		confidence REAL NOT NULL DEFAULT 0,
		keyword_hits INTEGER NOT NULL DEFAULT 0,
		low_confidence INTEGER NOT NULL DEFAULT 0,
		word_count INTEGER NOT NULL DEFAULT 0,
		char_count INTEGER NOT NULL DEFAULT 0,
		summary TEXT NOT NULL DEFAULT '',
		preview TEXT NOT NULL DEFAULT '',
		error_kind TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		processed_at TIMESTAMP NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_batch_id ON outcomes(batch_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_file_id ON outcomes(file_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_processed_at ON outcomes(processed_at);
	`
	_, err := db.Exec(schema)
	return err
}

const outcomeColumns = `id, file_id, path, name, extension, size_bytes, status,
	category, confidence, keyword_hits, low_confidence,
	word_count, char_count, summary, preview,
	error_kind, error, processed_at, duration_ms`

// SaveOutcome inserts a single outcome. batchID may be empty for outcomes
// produced outside a batch run.
func (s *SQLiteStorage) SaveOutcome(ctx context.Context, batchID string, o *models.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, batch_id, file_id, path, name, extension, size_bytes, status,
		 category, confidence, keyword_hits, low_confidence,
		 word_count, char_count, summary, preview,
		 error_kind, error, processed_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcomeArgs(batchID, o)...,
	)
	return err
}

func outcomeArgs(batchID string, o *models.Outcome) []any {
	batch := sql.NullString{String: batchID, Valid: batchID != ""}
	var (
		category      string
		confidence    float64
		hits          int
		lowConfidence bool
	)
	if o.Classification != nil {
		category = string(o.Classification.Category)
		confidence = o.Classification.Confidence
		hits = o.Classification.Hits
		lowConfidence = o.Classification.LowConfidence
	}
	var wordCount, charCount int
	var summary, preview string
	if o.Metadata != nil {
		wordCount = o.Metadata.WordCount
		charCount = o.Metadata.CharCount
		summary = o.Metadata.Summary
		preview = o.Metadata.Preview
	}
	return []any{
		o.ID, batch, o.FileID, o.Path, o.Name, o.Extension, o.SizeBytes, string(o.Status),
		category, confidence, hits, lowConfidence,
		wordCount, charCount, summary, preview,
		string(o.ErrorKind), o.Error, o.ProcessedAt, o.DurationMS,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutcome(row rowScanner) (*models.Outcome, error) {
	var (
		o             models.Outcome
		status        string
		category      string
		confidence    float64
		hits          int
		lowConfidence bool
		wordCount     int
		charCount     int
		summary       string
		preview       string
		errorKind     string
	)
	err := row.Scan(&o.ID, &o.FileID, &o.Path, &o.Name, &o.Extension, &o.SizeBytes, &status,
		&category, &confidence, &hits, &lowConfidence,
		&wordCount, &charCount, &summary, &preview,
		&errorKind, &o.Error, &o.ProcessedAt, &o.DurationMS)
	if err != nil {
		return nil, err
	}
	o.Status = models.Status(status)
	o.ErrorKind = models.ErrorKind(errorKind)
	if o.Status == models.StatusSuccess {
		o.Classification = &models.Classification{
			Category:      models.Category(category),
			Confidence:    confidence,
			Hits:          hits,
			LowConfidence: lowConfidence,
		}
		o.Metadata = &models.Metadata{
			WordCount: wordCount,
			CharCount: charCount,
			Summary:   summary,
			Preview:   preview,
		}
	}
	return &o, nil
}

// GetOutcome returns an outcome by ID.
func (s *SQLiteStorage) GetOutcome(ctx context.Context, id string) (*models.Outcome, error) {
	o, err := scanOutcome(s.db.QueryRowContext(ctx,
		`SELECT `+outcomeColumns+` FROM outcomes WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("outcome not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListOutcomes returns outcomes newest first with offset and limit.
func (s *SQLiteStorage) ListOutcomes(ctx context.Context, offset, limit int) ([]*models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+outcomeColumns+` FROM outcomes
		 ORDER BY processed_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*models.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// SaveBatch inserts a batch summary and all of its outcomes in a transaction.
func (s *SQLiteStorage) SaveBatch(ctx context.Context, batch *models.BatchSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, total, succeeded, failed, skipped, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.Total, batch.Succeeded, batch.Failed, batch.Skipped,
		batch.StartedAt, batch.DurationMS,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (id, batch_id, file_id, path, name, extension, size_bytes, status,
		 category, confidence, keyword_hits, low_confidence,
		 word_count, char_count, summary, preview,
		 error_kind, error, processed_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range batch.Outcomes {
		if _, err := stmt.ExecContext(ctx, outcomeArgs(batch.ID, o)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetBatch returns a batch summary by ID including its outcomes in the
// order they were recorded.
func (s *SQLiteStorage) GetBatch(ctx context.Context, id string) (*models.BatchSummary, error) {
	var batch models.BatchSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT id, total, succeeded, failed, skipped, started_at, duration_ms
		 FROM batches WHERE id = ?`, id,
	).Scan(&batch.ID, &batch.Total, &batch.Succeeded, &batch.Failed, &batch.Skipped,
		&batch.StartedAt, &batch.DurationMS)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+outcomeColumns+` FROM outcomes WHERE batch_id = ? ORDER BY rowid`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batch.Outcomes = make([]*models.Outcome, 0, batch.Total)
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		batch.Outcomes = append(batch.Outcomes, o)
	}
	return &batch, rows.Err()
}

// ListBatches returns batch summaries newest first without their outcomes.
func (s *SQLiteStorage) ListBatches(ctx context.Context, offset, limit int) ([]*models.BatchSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, total, succeeded, failed, skipped, started_at, duration_ms
		 FROM batches ORDER BY started_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.BatchSummary
	for rows.Next() {
		var b models.BatchSummary
		if err := rows.Scan(&b.ID, &b.Total, &b.Succeeded, &b.Failed, &b.Skipped,
			&b.StartedAt, &b.DurationMS); err != nil {
			return nil, err
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

// CountOutcomes returns the total number of stored outcomes.
func (s *SQLiteStorage) CountOutcomes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outcomes`).Scan(&count)
	return count, err
}

// CountByStatus returns outcome counts grouped by status.
func (s *SQLiteStorage) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM outcomes GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

// CountByCategory returns successful outcome counts grouped by category.
func (s *SQLiteStorage) CountByCategory(ctx context.Context) (map[models.Category]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM outcomes WHERE status = ? GROUP BY category`,
		string(models.StatusSuccess),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Category]int64)
	for rows.Next() {
		var category string
		var n int64
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[models.Category(category)] = n
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Package journal records applied rename batches in a SQLite database so
// they can be listed and undone.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/sdejongh/renamer/pkg/journal/migrations"
	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/models"
)

var (
	// ErrBatchNotFound is returned when no batch matches an ID
	ErrBatchNotFound = errors.New("batch not found")
	// ErrAmbiguousID is returned when an ID prefix matches several batches
	ErrAmbiguousID = errors.New("batch ID prefix is ambiguous")
)

// Journal is a SQLite backed rename journal
type Journal struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// OpenConnection opens and configures a SQLite connection.
// path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Open opens the journal at path, creating the file and applying pending
// migrations as needed
func Open(path string, logger logging.Logger) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db, path: path, logger: logging.OrNull(logger)}, nil
}

// Path returns the database path
func (j *Journal) Path() string {
	return j.path
}

// CheckMigrations verifies the schema is up to date
func (j *Journal) CheckMigrations() error {
	return migrations.CheckStatus(j.db)
}

// Begin records a new batch
func (j *Journal) Begin(ctx context.Context, batch models.Batch) error {
	// Stored as a flat settings map so new sections decode as empty
	tmpl, err := json.Marshal(batch.Template.Settings())
	if err != nil {
		return fmt.Errorf("encoding template: %w", err)
	}

	createdAt := batch.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = j.db.ExecContext(ctx,
		"INSERT INTO batches (id, created_at, template) VALUES (?, ?, ?)",
		batch.ID, createdAt.UTC(), string(tmpl))
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}

	j.logger.Debug(ctx, "journal batch started", logging.Fields{"batch": batch.ID})
	return nil
}

// Record stores one applied rename
func (j *Journal) Record(ctx context.Context, e models.JournalEntry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO renames (batch_id, seq, source_path, dest_path, touched, old_mod_time, new_mod_time, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.BatchID, e.Seq, e.SourcePath, e.DestPath, e.Touched,
		e.OldModTime.UTC(), e.NewModTime.UTC(), e.AppliedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting rename: %w", err)
	}
	return nil
}

// MarkUndone flags a batch as reverted
func (j *Journal) MarkUndone(ctx context.Context, batchID string, at time.Time) error {
	res, err := j.db.ExecContext(ctx, "UPDATE batches SET undone_at = ? WHERE id = ?", at.UTC(), batchID)
	if err != nil {
		return fmt.Errorf("updating batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	return nil
}

const batchColumns = `b.id, b.created_at, b.template, b.undone_at,
	(SELECT COUNT(*) FROM renames r WHERE r.batch_id = b.id AND r.source_path != r.dest_path)`

// Batches lists batches, newest first. limit <= 0 lists all.
func (j *Journal) Batches(ctx context.Context, limit int) ([]models.Batch, error) {
	query := "SELECT " + batchColumns + " FROM batches b ORDER BY b.created_at DESC, b.rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var batches []models.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

// Batch finds a batch by ID or unique ID prefix
func (j *Journal) Batch(ctx context.Context, id string) (*models.Batch, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT "+batchColumns+" FROM batches b WHERE b.id = ? OR b.id LIKE ? ESCAPE '\\' LIMIT 2",
		id, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("finding batch: %w", err)
	}
	defer rows.Close()

	var found []*models.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		if b.ID == id {
			return b, nil
		}
		found = append(found, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
}

// Latest returns the newest batch that has not been undone
func (j *Journal) Latest(ctx context.Context) (*models.Batch, error) {
	row := j.db.QueryRowContext(ctx,
		"SELECT "+batchColumns+" FROM batches b WHERE b.undone_at IS NULL ORDER BY b.created_at DESC, b.rowid DESC LIMIT 1")
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return b, nil
}

// Entries returns the renames of a batch in the order they were applied
func (j *Journal) Entries(ctx context.Context, batchID string) ([]models.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT batch_id, seq, source_path, dest_path, touched, old_mod_time, new_mod_time, applied_at
		 FROM renames WHERE batch_id = ? ORDER BY seq`, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing renames: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.BatchID, &e.Seq, &e.SourcePath, &e.DestPath, &e.Touched,
			&e.OldModTime, &e.NewModTime, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf("reading rename: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes batches created before cutoff together with their renames
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, "DELETE FROM batches WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning batches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.logger.Info(ctx, "journal pruned", logging.Fields{"batches": n})
	}
	return n, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*models.Batch, error) {
	var (
		b        models.Batch
		tmpl     string
		undoneAt sql.NullTime
	)
	if err := row.Scan(&b.ID, &b.CreatedAt, &tmpl, &undoneAt, &b.Renamed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("reading batch: %w", err)
	}
	var settings map[string]string
	if err := json.Unmarshal([]byte(tmpl), &settings); err != nil {
		return nil, fmt.Errorf("decoding template of batch %s: %w", b.ID, err)
	}
	b.Template = models.TemplateFromSettings(settings)
	if undoneAt.Valid {
		t := undoneAt.Time
		b.UndoneAt = &t
	}
	return &b, nil
}

func escapeLike(s string) string {
	var out []rune
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

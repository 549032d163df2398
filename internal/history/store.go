package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const backupCounter = "backup"

// Record is one successful wallpaper download.
type Record struct {
	ID           int64
	RunID        string
	Offset       int
	EndDate      string
	Title        string
	Copyright    string
	URL          string
	BackupName   string
	DownloadedAt time.Time
}

// Store persists download history and the backup counter in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts rec and returns its ID. A zero DownloadedAt is set to now.
func (s *Store) Record(ctx context.Context, rec Record) (int64, error) {
	if rec.DownloadedAt.IsZero() {
		rec.DownloadedAt = time.Now()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO downloads (
            run_id, day_offset, end_date, title, copyright, url, backup_name, downloaded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Offset,
		rec.EndDate,
		rec.Title,
		rec.Copyright,
		rec.URL,
		rec.BackupName,
		rec.DownloadedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert download: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent records, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, run_id, day_offset, end_date, title, copyright, url, backup_name, downloaded_at
        FROM downloads ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var downloadedAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Offset, &rec.EndDate, &rec.Title,
			&rec.Copyright, &rec.URL, &rec.BackupName, &downloadedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, downloadedAt); err == nil {
			rec.DownloadedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// NextBackupNumber advances the persisted backup counter and returns the
// new value. The counter never returns a value <= floor, so it can be
// seeded from the backups already on disk.
func (s *Store) NextBackupNumber(ctx context.Context, floor int) (int, error) {
	return s.AdvanceBackupNumber(ctx, floor, nil)
}

// AdvanceBackupNumber is NextBackupNumber with apply run inside the counter
// transaction. The new value is committed only when apply succeeds, so a
// failed rename does not use up a number.
func (s *Store) AdvanceBackupNumber(ctx context.Context, floor int, apply func(n int) error) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin counter tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = ?", backupCounter).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read counter: %w", err)
	}

	next := max(current, floor) + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?)
        ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		backupCounter, next,
	); err != nil {
		return 0, fmt.Errorf("write counter: %w", err)
	}

	if apply != nil {
		if err := apply(next); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit counter: %w", err)
	}
	return next, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an optional SQLite log of generate requests so past
// uploads can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/refcard-panel/pkg/types"
)

const (
	dbFile       = "history.db"
	defaultLimit = 20

	// timeLayout is fixed-width so started_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store manages the history SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates dir/history.db and its schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seq INTEGER NOT NULL,
			game TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			files TEXT NOT NULL,
			file_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			http_status INTEGER,
			bytes INTEGER,
			error TEXT,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_game ON submissions(game)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_started_at ON submissions(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one finished submission.
func (s *Store) Record(ctx context.Context, sub types.Submission) error {
	files, err := json.Marshal(sub.Files)
	if err != nil {
		return fmt.Errorf("encoding file names: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions
			(seq, game, endpoint, files, file_count, status, http_status, bytes, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Seq, sub.Game, sub.Endpoint, string(files), len(sub.Files), string(sub.Status),
		sub.HTTPStatus, sub.Bytes, sub.Error,
		sub.StartedAt.UTC().Format(timeLayout), sub.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

// QueryOptions filters List.
type QueryOptions struct {
	// Game restricts results to one game when set.
	Game string

	// Status restricts results to one outcome when set.
	Status types.SubmissionStatus

	// Limit caps the number of rows (default 20).
	Limit int
}

// List returns submissions newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.Submission, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT seq, game, endpoint, files, status, http_status, bytes, error, started_at, duration_ms
		FROM submissions WHERE 1=1`
	var args []any
	if opts.Game != "" {
		query += ` AND game = ?`
		args = append(args, opts.Game)
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.Submission
	for rows.Next() {
		var (
			sub        types.Submission
			files      string
			status     string
			errText    sql.NullString
			httpStatus sql.NullInt64
			bytes      sql.NullInt64
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&sub.Seq, &sub.Game, &sub.Endpoint, &files, &status,
			&httpStatus, &bytes, &errText, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		if err := json.Unmarshal([]byte(files), &sub.Files); err != nil {
			return nil, fmt.Errorf("decoding file names: %w", err)
		}
		sub.Status = types.SubmissionStatus(status)
		sub.HTTPStatus = int(httpStatus.Int64)
		sub.Bytes = int(bytes.Int64)
		sub.Error = errText.String
		if t, err := time.Parse(timeLayout, startedAt); err == nil {
			sub.StartedAt = t
		}
		sub.Duration = time.Duration(durationMS) * time.Millisecond
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

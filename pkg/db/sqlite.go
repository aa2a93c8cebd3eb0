package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"voice-journal/pkg/domain"
)

// DefaultSQLitePath is used when no path is configured.
const DefaultSQLitePath = "voice-journal.sqlite"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS journal (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	keywords TEXT NOT NULL DEFAULT '',
	timestamps TEXT NOT NULL DEFAULT '',
	audioUrl TEXT NOT NULL DEFAULT '',
	createdAt REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS task (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	startTime REAL NOT NULL,
	endTime REAL NOT NULL,
	priority TEXT NOT NULL DEFAULT 'medium',
	notes TEXT NOT NULL DEFAULT '',
	audioUrl TEXT NOT NULL DEFAULT '',
	createdAt REAL NOT NULL
);
`

// SQLiteStore is a Store on a local SQLite file. Times are stored as REAL
// unix seconds.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath
	}

	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateJournal(ctx context.Context, j *domain.Journal) error {
	prepareJournal(j)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal (id, title, content, summary, keywords, timestamps, audioUrl, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.Title, j.Content, j.Summary, joinList(j.Keywords), joinList(j.Timestamps),
		j.AudioURL, unixFromTime(j.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert journal: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, t *domain.Task) error {
	prepareTask(t)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task (id, title, startTime, endTime, priority, notes, audioUrl, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, unixFromTime(t.StartTime), unixFromTime(t.EndTime), string(t.Priority),
		t.Notes, t.AudioURL, unixFromTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// ListJournals returns the newest entries first.
func (s *SQLiteStore) ListJournals(ctx context.Context, limit int) ([]domain.Journal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, summary, keywords, timestamps, audioUrl, createdAt
		FROM journal
		ORDER BY createdAt DESC
		LIMIT ?
	`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query journals: %w", err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		var j domain.Journal
		var keywords, timestamps string
		var createdAt float64
		if err := rows.Scan(&j.ID, &j.Title, &j.Content, &j.Summary, &keywords, &timestamps,
			&j.AudioURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		j.Keywords = splitList(keywords)
		j.Timestamps = splitList(timestamps)
		j.CreatedAt = timeFromUnix(createdAt)
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

// ListTasks returns tasks with the latest start time first.
func (s *SQLiteStore) ListTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, startTime, endTime, priority, notes, audioUrl, createdAt
		FROM task
		ORDER BY startTime DESC
		LIMIT ?
	`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		var priority string
		var start, end, createdAt float64
		if err := rows.Scan(&t.ID, &t.Title, &start, &end, &priority, &t.Notes,
			&t.AudioURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.StartTime = timeFromUnix(start)
		t.EndTime = timeFromUnix(end)
		t.CreatedAt = timeFromUnix(createdAt)
		t.Priority = domain.ParsePriority(priority)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

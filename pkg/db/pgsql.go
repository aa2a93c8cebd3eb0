package db

import (
	"context"
	"database/sql"
	"fmt"

	"voice-journal/pkg/domain"
)

// Postgres schema shared by plain Postgres and Supabase direct connections.
// Keywords and timestamps are comma-joined text columns.
var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS journal (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  summary TEXT NOT NULL DEFAULT '',
  keywords TEXT NOT NULL DEFAULT '',
  timestamps TEXT NOT NULL DEFAULT '',
  audio_url TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS task (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  start_time TIMESTAMPTZ NOT NULL,
  end_time TIMESTAMPTZ NOT NULL,
  priority TEXT NOT NULL DEFAULT 'medium',
  notes TEXT NOT NULL DEFAULT '',
  audio_url TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS journal_created_at_idx ON journal (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS task_start_time_idx ON task (start_time DESC)`,
}

// pgRecords implements the record operations over any Postgres handle.
type pgRecords struct {
	p DBProvider
}

func (r pgRecords) db() (*sql.DB, error) {
	if r.p.DB() == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}
	return r.p.DB(), nil
}

func (r pgRecords) ensureSchema(ctx context.Context) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	for _, ddl := range pgSchema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r pgRecords) createJournal(ctx context.Context, j *domain.Journal) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	prepareJournal(j)

	const q = `
INSERT INTO journal (id, title, content, summary, keywords, timestamps, audio_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := db.ExecContext(ctx, q, j.ID, j.Title, j.Content, j.Summary,
		joinList(j.Keywords), joinList(j.Timestamps), j.AudioURL, j.CreatedAt); err != nil {
		return fmt.Errorf("insert journal id=%q: %w", j.ID, err)
	}
	return nil
}

func (r pgRecords) createTask(ctx context.Context, t *domain.Task) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	prepareTask(t)

	const q = `
INSERT INTO task (id, title, start_time, end_time, priority, notes, audio_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := db.ExecContext(ctx, q, t.ID, t.Title, t.StartTime, t.EndTime,
		string(t.Priority), t.Notes, t.AudioURL, t.CreatedAt); err != nil {
		return fmt.Errorf("insert task id=%q: %w", t.ID, err)
	}
	return nil
}

func (r pgRecords) listJournals(ctx context.Context, limit int) ([]domain.Journal, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, title, content, summary, keywords, timestamps, audio_url, created_at
FROM journal
ORDER BY created_at DESC
LIMIT $1`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query journals: %w", err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		var j domain.Journal
		var keywords, timestamps string
		if err := rows.Scan(&j.ID, &j.Title, &j.Content, &j.Summary, &keywords, &timestamps,
			&j.AudioURL, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		j.Keywords = splitList(keywords)
		j.Timestamps = splitList(timestamps)
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return journals, nil
}

func (r pgRecords) listTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, title, start_time, end_time, priority, notes, audio_url, created_at
FROM task
ORDER BY start_time DESC
LIMIT $1`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		var priority string
		if err := rows.Scan(&t.ID, &t.Title, &t.StartTime, &t.EndTime, &priority,
			&t.Notes, &t.AudioURL, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = domain.ParsePriority(priority)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tasks, nil
}
